package common

// Canonical cruising-speed bounds per transport mode, in km/h.
// These seed the default classifier bands; they are configuration
// defaults, not behavior.

const SpeedOfWalkingMinKmh = 0.0
const SpeedOfWalkingMaxKmh = 7.0 // or 4.3 mph, a brisk walk

const SpeedOfCyclingMinKmh = 7.0
const SpeedOfCyclingMaxKmh = 30.0 // or 19 mph

const SpeedOfDrivingMinKmh = 24.0  // or 15 mph, crawling city traffic
const SpeedOfDrivingMaxKmh = 300.0 // nobody outruns this classifier on a road

const SpeedOfBusMinKmh = 15.0
const SpeedOfBusMaxKmh = 90.0

const SpeedOfTramMinKmh = 15.0
const SpeedOfTramMaxKmh = 90.0

const SpeedOfTrainMinKmh = 40.0
const SpeedOfTrainMaxKmh = 250.0 // ICE territory

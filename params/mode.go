package params

import (
	"github.com/rotblauer/wayward/common"
	"github.com/rotblauer/wayward/types/mode"
)

// BandScoreStrategy selects how a measured speed maps onto a mode's
// speed band.
type BandScoreStrategy int

const (
	// BandScoreMargin scores 1.0 inside [Lo, Hi], ramps linearly to 0
	// over BandMargin just outside either bound, and is 0 beyond.
	BandScoreMargin BandScoreStrategy = iota

	// BandScoreLinearRamp is the plain historical variant: a single
	// linear ramp from 0 at Lo to 1 at Hi, saturating at 1 above Hi.
	BandScoreLinearRamp
)

// SpeedBand is the typical cruising-speed range of a mode, km/h.
type SpeedBand struct {
	Lo, Hi float64
}

// ModeConfig tunes the transport-mode classifier. All three signal
// weights are combined per mode as a weighted sum; WeightLimit applies
// to road-bound modes (car, bus) only.
type ModeConfig struct {
	Bands map[mode.Mode]SpeedBand

	WeightSpeed    float64
	WeightCoverage float64
	WeightLimit    float64

	BandStrategy BandScoreStrategy
	// BandMargin is the soft ramp just outside a band, km/h.
	BandMargin float64

	// SnapRadius is how close (meters) a segment point must lie to a
	// matched network geometry to count as covered.
	SnapRadius float64

	// BBoxPad pads the segment bounding box for network queries, meters.
	BBoxPad float64

	// FootDecayStartKm and FootDecayEndKm bound the on-foot distance
	// decay: full score up to the start, 0 at and beyond the end.
	// Nobody walks a 6 km leg at 5 km/h and calls it a stop-to-stop hop.
	FootDecayStartKm float64
	FootDecayEndKm   float64
}

// Copy returns a deep copy safe to mutate without touching the default.
func (c *ModeConfig) Copy() *ModeConfig {
	out := *c
	out.Bands = make(map[mode.Mode]SpeedBand, len(c.Bands))
	for m, b := range c.Bands {
		out.Bands[m] = b
	}
	return &out
}

var DefaultModeConfig = &ModeConfig{
	Bands: map[mode.Mode]SpeedBand{
		mode.Foot:  {common.SpeedOfWalkingMinKmh, common.SpeedOfWalkingMaxKmh},
		mode.Bike:  {common.SpeedOfCyclingMinKmh, common.SpeedOfCyclingMaxKmh},
		mode.Car:   {common.SpeedOfDrivingMinKmh, common.SpeedOfDrivingMaxKmh},
		mode.Bus:   {common.SpeedOfBusMinKmh, common.SpeedOfBusMaxKmh},
		mode.Tram:  {common.SpeedOfTramMinKmh, common.SpeedOfTramMaxKmh},
		mode.Train: {common.SpeedOfTrainMinKmh, common.SpeedOfTrainMaxKmh},
	},
	WeightSpeed:      0.4,
	WeightCoverage:   0.4,
	WeightLimit:      0.2,
	BandStrategy:     BandScoreMargin,
	BandMargin:       1.0,
	SnapRadius:       10,
	BBoxPad:          50,
	FootDecayStartKm: 1.0,
	FootDecayEndKm:   4.0,
}

package params

import "time"

// StayPointConfig governs raw stop-cluster detection.
type StayPointConfig struct {
	// Radius is the cluster radius in meters, measured from the
	// window's anchor point (not a running centroid).
	Radius float64

	// MinDuration is the minimum dwell for a cluster to count as a stay.
	MinDuration time.Duration
}

var DefaultStayPointConfig = &StayPointConfig{
	Radius:      50,
	MinDuration: 3 * time.Minute,
}

// MergeConfig governs the second (address/gap) merge pass.
type MergeConfig struct {
	// MaxGap is the largest time gap between two stops that may still
	// be folded together (stepping outside and back).
	MaxGap time.Duration

	// MergeDistance folds nearby stops whose reverse-geocodes disagree
	// but which are clearly one physical place, in meters.
	MergeDistance float64
}

var DefaultMergeConfig = &MergeConfig{
	MaxGap:        10 * time.Minute,
	MergeDistance: 150,
}

// SegmentConfig governs segment metric computation.
type SegmentConfig struct {
	// ZeroSpeedFallback reports 0.0 instead of an absent speed when the
	// stop-to-stop time delta is zero. Historical behavior; the default
	// leaves the speed absent and lets callers decide.
	ZeroSpeedFallback bool
}

var DefaultSegmentConfig = &SegmentConfig{}

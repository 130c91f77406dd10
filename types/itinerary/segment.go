package itinerary

import (
	"github.com/rotblauer/wayward/types/mode"
	"github.com/rotblauer/wayward/types/trace"
)

// Segment is the travel leg between two consecutive stops. It exists
// transiently inside the pipeline; its derived attributes are attached
// back onto the earlier stop (From) once computed.
type Segment struct {
	From, To *Stop

	// Points is the raw trace sub-sequence between From.End and To.Start.
	Points trace.Points

	DistKm     float64
	SpeedKmh   *float64 // nil when the stop-to-stop time delta is zero
	SpeedStats *SpeedStats
	Modes      mode.Scores
}

// SpeedStats summarizes the instantaneous point-to-point speeds within
// a segment, in km/h.
type SpeedStats struct {
	Mean   float64 `json:"mean_kmh"`
	Median float64 `json:"median_kmh"`
	Min    float64 `json:"min_kmh"`
	Max    float64 `json:"max_kmh"`
	P95    float64 `json:"p95_kmh"`
}

// Attach writes the segment's derived attributes onto the earlier stop.
func (s *Segment) Attach() {
	dist := s.DistKm
	s.From.NextDistKm = &dist
	s.From.NextSpeedKmh = s.SpeedKmh
	modes := s.Modes
	s.From.NextModes = &modes
	s.From.NextSpeedStats = s.SpeedStats
}

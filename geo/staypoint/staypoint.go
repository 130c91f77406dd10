// Package staypoint turns an ordered GPS point sequence into raw
// stay-point clusters: places where the subject lingered within a
// radius for a minimum duration.
package staypoint

import (
	"github.com/rotblauer/wayward/common"
	"github.com/rotblauer/wayward/params"
	"github.com/rotblauer/wayward/types/itinerary"
	"github.com/rotblauer/wayward/types/trace"
)

type Detector struct {
	Config *params.StayPointConfig
}

func NewDetector(config *params.StayPointConfig) *Detector {
	if config == nil {
		config = params.DefaultStayPointConfig
	}
	return &Detector{Config: config}
}

// Detect scans the point sequence and emits stay-points in order.
//
// A candidate window [i, j) extends while every point stays within the
// radius of point i — the window's anchor, not a running centroid; that
// trades drift tolerance for simplicity and determinism. A window whose
// timespan reaches MinDuration becomes a stay-point at the arithmetic
// mean of its points, and the scan resumes at j (consumed points never
// overlap into the next cluster). A too-short window advances the
// anchor by one: a point that failed to anchor a stay may still sit
// inside a later one.
//
// The result is always bracketed by two synthetic zero-duration
// stay-points at the trace's exact first and last fix, independent of
// the radius/duration rule, so an itinerary starts and ends at the
// recorded extremes. Zero input points yield zero output.
func (d *Detector) Detect(pts trace.Points) []itinerary.StayPoint {
	if len(pts) == 0 {
		return nil
	}

	clusters := []itinerary.StayPoint{}
	n := len(pts)
	i := 0
	for i < n {
		j := i + 1
		for j < n && common.DistanceMeters(pts[i].Coord(), pts[j].Coord()) <= d.Config.Radius {
			j++
		}

		duration := pts[j-1].Time.Sub(pts[i].Time)
		if duration >= d.Config.MinDuration {
			latSum, lonSum := 0.0, 0.0
			for _, p := range pts[i:j] {
				latSum += p.Lat
				lonSum += p.Lon
			}
			m := float64(j - i)
			clusters = append(clusters, itinerary.StayPoint{
				Lat:   latSum / m,
				Lon:   lonSum / m,
				Start: pts[i].Time,
				End:   pts[j-1].Time,
			})
			i = j
		} else {
			i++
		}
	}

	first, last := pts[0], pts[n-1]
	out := make([]itinerary.StayPoint, 0, len(clusters)+2)
	out = append(out, itinerary.StayPoint{Lat: first.Lat, Lon: first.Lon, Start: first.Time, End: first.Time})
	out = append(out, clusters...)
	out = append(out, itinerary.StayPoint{Lat: last.Lat, Lon: last.Lon, Start: last.Time, End: last.Time})
	return out
}

// Package segment computes travel-leg metrics between consecutive
// stops: true path distance along the raw trace, average speed, and a
// summary of instantaneous speeds.
package segment

import (
	"github.com/montanaflynn/stats"

	"github.com/rotblauer/wayward/common"
	"github.com/rotblauer/wayward/params"
	"github.com/rotblauer/wayward/types/itinerary"
	"github.com/rotblauer/wayward/types/trace"
)

// Metrics walks the full original point sequence and accumulates
// haversine distance from the first point at or after a.End until a
// point at or after b.Start has been included. Re-walking the raw trace
// (instead of measuring stop-to-stop) makes the reported distance the
// actual path length, not the crow's flight.
//
// The average speed is nil when the stop-to-stop time delta is zero,
// unless cfg.ZeroSpeedFallback restores the historical 0.0 policy.
func Metrics(pts trace.Points, a, b *itinerary.Stop, cfg *params.SegmentConfig) (distKm float64, speedKmh *float64) {
	if cfg == nil {
		cfg = params.DefaultSegmentConfig
	}

	distM := 0.0
	started := false
	for i := 0; i+1 < len(pts); i++ {
		p0, p1 := pts[i], pts[i+1]
		if p1.Time.Before(a.End) {
			continue
		}
		if !started && !p0.Time.Before(a.End) {
			started = true
		}
		if started {
			distM += common.DistanceMeters(p0.Coord(), p1.Coord())
		}
		if started && !p1.Time.Before(b.Start) {
			break
		}
	}

	distKm = distM / 1000.0
	elapsedHours := b.Start.Sub(a.End).Hours()
	if elapsedHours > 0 {
		v := distKm / elapsedHours
		speedKmh = &v
	} else if cfg.ZeroSpeedFallback {
		v := 0.0
		speedKmh = &v
	}
	return distKm, speedKmh
}

// Slice returns the raw trace points belonging to the leg between a and
// b: those recorded at or after a.End and at or before b.Start.
func Slice(pts trace.Points, a, b *itinerary.Stop) trace.Points {
	return pts.Between(a.End, b.Start)
}

// SpeedStats summarizes instantaneous point-to-point speeds in km/h.
// Pairs with a zero time delta are skipped; fewer than two usable
// points yield nil.
func SpeedStats(pts trace.Points) *itinerary.SpeedStats {
	speeds := make([]float64, 0, len(pts))
	for i := 0; i+1 < len(pts); i++ {
		dt := pts[i+1].Time.Sub(pts[i].Time).Hours()
		if dt <= 0 {
			continue
		}
		distKm := common.DistanceMeters(pts[i].Coord(), pts[i+1].Coord()) / 1000.0
		speeds = append(speeds, distKm/dt)
	}
	if len(speeds) == 0 {
		return nil
	}

	data := stats.Float64Data(speeds)
	mustFloat := func(fn func() (float64, error)) float64 {
		out, _ := fn()
		return out
	}
	p95, _ := data.Percentile(95)
	return &itinerary.SpeedStats{
		Mean:   common.DecimalToFixed(mustFloat(data.Mean), 2),
		Median: common.DecimalToFixed(mustFloat(data.Median), 2),
		Min:    common.DecimalToFixed(mustFloat(data.Min), 2),
		Max:    common.DecimalToFixed(mustFloat(data.Max), 2),
		P95:    common.DecimalToFixed(p95, 2),
	}
}

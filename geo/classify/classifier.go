// Package classify scores travel segments into transport-mode
// probabilities by fusing three signals: speed-band membership,
// network coverage, and posted-speed-limit consistency.
package classify

import (
	"context"
	"log/slog"
	"math"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geo"

	"github.com/rotblauer/wayward/common"
	"github.com/rotblauer/wayward/osm"
	"github.com/rotblauer/wayward/params"
	"github.com/rotblauer/wayward/types/mode"
	"github.com/rotblauer/wayward/types/trace"
)

type Classifier struct {
	Config *params.ModeConfig
	Source osm.GeometrySource
	logger *slog.Logger
}

func NewClassifier(config *params.ModeConfig, source osm.GeometrySource) *Classifier {
	if config == nil {
		config = params.DefaultModeConfig
	}
	if source == nil {
		source = osm.Null{}
	}
	return &Classifier{
		Config: config,
		Source: source,
		logger: slog.With("pkg", "classify"),
	}
}

// Classify scores one segment against every supported mode and returns
// a normalized probability vector with a best pick.
//
// speedKmh may be nil (zero-duration segment); an absent speed
// contributes no speed-band and no limit evidence, leaving coverage as
// the only signal. A network-data failure for one mode degrades that mode's
// coverage score to 0 and is never surfaced as an error: a street-level
// classifier has to stay useful under partial network outage.
func (c *Classifier) Classify(ctx context.Context, pts trace.Points, speedKmh *float64, distKm float64) mode.Scores {
	scores := mode.NewScores()

	for _, m := range mode.Modes {
		ways := c.queryWays(ctx, pts, m)

		s := c.Config.WeightSpeed*c.bandScore(m, speedKmh) +
			c.Config.WeightCoverage*c.coverageScore(pts, ways)
		if m.IsRoadbound() {
			s += c.Config.WeightLimit * c.limitScore(speedKmh, ways)
		}
		if m == mode.Foot {
			s *= c.footDistanceDecay(distKm)
		}
		scores.Values[m] = s
	}

	scores.Normalize()
	scores.PickBest()
	return scores
}

func (c *Classifier) queryWays(ctx context.Context, pts trace.Points, m mode.Mode) []osm.Way {
	if len(pts) == 0 {
		return nil
	}
	bound := geo.BoundPad(pts.Bound(), c.Config.BBoxPad)
	ways, err := c.Source.Query(ctx, bound, osm.FilterForMode(m))
	if err != nil {
		c.logger.Debug("Network geometry query failed", "mode", m.String(), "error", err)
		return nil
	}
	return ways
}

// bandScore maps the measured speed onto the mode's band per the
// configured strategy. No measured speed, no evidence: 0.
func (c *Classifier) bandScore(m mode.Mode, speedKmh *float64) float64 {
	if speedKmh == nil {
		return 0
	}
	band, ok := c.Config.Bands[m]
	if !ok {
		return 0
	}
	v := *speedKmh

	switch c.Config.BandStrategy {
	case params.BandScoreLinearRamp:
		if band.Hi <= band.Lo {
			return 0
		}
		return math.Max(0, math.Min(1, (v-band.Lo)/(band.Hi-band.Lo)))
	default: // BandScoreMargin
		margin := c.Config.BandMargin
		if v >= band.Lo && v <= band.Hi {
			return 1
		}
		if margin <= 0 {
			return 0
		}
		if v < band.Lo {
			return math.Max(0, 1-(band.Lo-v)/margin)
		}
		return math.Max(0, 1-(v-band.Hi)/margin)
	}
}

// coverageScore is the fraction of segment points whose nearest matched
// geometry lies within the snap radius. No geometries, no coverage.
func (c *Classifier) coverageScore(pts trace.Points, ways []osm.Way) float64 {
	if len(pts) == 0 || len(ways) == 0 {
		return 0
	}
	covered := 0
	for _, p := range pts {
		if c.nearestWayDistance(p.Coord(), ways) <= c.Config.SnapRadius {
			covered++
		}
	}
	return float64(covered) / float64(len(pts))
}

func (c *Classifier) nearestWayDistance(p orb.Point, ways []osm.Way) float64 {
	min := math.Inf(1)
	for _, w := range ways {
		if d := common.DistanceToLineMeters(p, w.Line); d < min {
			min = d
		}
	}
	return min
}

// limitScore compares the measured speed against the average posted
// limit of the matched ways: 1.0 at or under the limit, 0.5 up to 1.5x,
// 0 beyond. Absence of limit data is neutral 1.0, missing data never
// penalizes a mode. Absence of a measured speed is no evidence at all
// and scores 0, like the band signal; otherwise a segment with no
// usable signal whatsoever would still favor the road-bound modes.
func (c *Classifier) limitScore(speedKmh *float64, ways []osm.Way) float64 {
	if speedKmh == nil {
		return 0
	}
	sum, n := 0.0, 0
	for _, w := range ways {
		if limit, ok := w.MaxSpeedKmh(); ok {
			sum += limit
			n++
		}
	}
	if n == 0 {
		return 1
	}
	avg := sum / float64(n)
	switch v := *speedKmh; {
	case v <= avg:
		return 1
	case v <= 1.5*avg:
		return 0.5
	default:
		return 0
	}
}

// footDistanceDecay dampens the on-foot score by segment length:
// full weight up to the start distance, linear decay to 0 at the end
// distance, hard 0 beyond. A 6 km leg is not a walk between stops,
// whatever the measured speed says.
func (c *Classifier) footDistanceDecay(distKm float64) float64 {
	start, end := c.Config.FootDecayStartKm, c.Config.FootDecayEndKm
	switch {
	case distKm <= start:
		return 1
	case distKm >= end:
		return 0
	default:
		return (end - distKm) / (end - start)
	}
}

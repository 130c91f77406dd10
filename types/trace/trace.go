// Package trace models the raw GPS fix sequence an itinerary is derived from.
package trace

import (
	"sort"
	"time"

	"github.com/paulmach/orb"
)

// Point is one recorded GPS fix. Immutable by convention:
// every pipeline stage reads points, none rewrites them.
type Point struct {
	Time time.Time `json:"time"`
	Lat  float64   `json:"lat"`
	Lon  float64   `json:"lon"`
}

// Coord returns the point as an orb (lon, lat) point.
func (p Point) Coord() orb.Point {
	return orb.Point{p.Lon, p.Lat}
}

type Points []Point

// Sort orders points ascending by time, stably.
// Clustering assumes chronological input; the orchestrator calls this
// rather than trusting the source.
func (ps Points) Sort() {
	sort.SliceStable(ps, func(i, j int) bool {
		return ps[i].Time.Before(ps[j].Time)
	})
}

func (ps Points) IsSorted() bool {
	return sort.SliceIsSorted(ps, func(i, j int) bool {
		return ps[i].Time.Before(ps[j].Time)
	})
}

// Timespan returns the elapsed time between the first and last point.
func (ps Points) Timespan() time.Duration {
	if len(ps) < 2 {
		return 0
	}
	return ps[len(ps)-1].Time.Sub(ps[0].Time)
}

// Bound returns the bounding box of all points.
func (ps Points) Bound() orb.Bound {
	mp := make(orb.MultiPoint, 0, len(ps))
	for _, p := range ps {
		mp = append(mp, p.Coord())
	}
	return mp.Bound()
}

// Between returns the points recorded at or after 'from' and at or
// before 'to'. Points stays a view into the original backing array.
func (ps Points) Between(from, to time.Time) Points {
	lo := sort.Search(len(ps), func(i int) bool {
		return !ps[i].Time.Before(from)
	})
	hi := sort.Search(len(ps), func(i int) bool {
		return ps[i].Time.After(to)
	})
	if lo >= hi {
		return Points{}
	}
	return ps[lo:hi]
}

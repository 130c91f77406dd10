package common

import (
	"math"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geo"
)

const EarthRadiusM = 6371000.0

// DistanceMeters returns the great-circle (haversine) distance
// between two points, in meters.
func DistanceMeters(a, b orb.Point) float64 {
	return geo.DistanceHaversine(a, b)
}

// Bearing returns the initial bearing from a to b, in degrees [0, 360).
func Bearing(a, b orb.Point) float64 {
	brg := geo.Bearing(a, b)
	if brg < 0 {
		brg += 360
	}
	return brg
}

// BearingDelta returns the absolute angular difference between
// two bearings, in degrees [0, 180].
func BearingDelta(b1, b2 float64) float64 {
	d := math.Abs(b1 - b2)
	if d > 180 {
		d = 360 - d
	}
	return d
}

// DistanceToSegmentMeters returns the distance in meters from p to the
// segment ab. It projects onto a local equirectangular plane around the
// segment, which is plenty accurate at snap-radius scales (tens of meters).
// Compare SegmentsIntersect: exact spherical treatment buys nothing here.
func DistanceToSegmentMeters(p, a, b orb.Point) float64 {
	latScale := math.Cos(a.Lat() * math.Pi / 180)
	// Local planar coordinates in meters, origin at a.
	ax, ay := 0.0, 0.0
	bx := (b.Lon() - a.Lon()) * latScale * EarthRadiusM * math.Pi / 180
	by := (b.Lat() - a.Lat()) * EarthRadiusM * math.Pi / 180
	px := (p.Lon() - a.Lon()) * latScale * EarthRadiusM * math.Pi / 180
	py := (p.Lat() - a.Lat()) * EarthRadiusM * math.Pi / 180

	dx, dy := bx-ax, by-ay
	segLen2 := dx*dx + dy*dy
	if segLen2 == 0 {
		return math.Hypot(px-ax, py-ay)
	}
	t := ((px-ax)*dx + (py-ay)*dy) / segLen2
	t = math.Max(0, math.Min(1, t))
	cx, cy := ax+t*dx, ay+t*dy
	return math.Hypot(px-cx, py-cy)
}

// DistanceToLineMeters returns the minimum distance in meters
// from p to any segment of the linestring.
func DistanceToLineMeters(p orb.Point, ls orb.LineString) float64 {
	if len(ls) == 0 {
		return math.Inf(1)
	}
	if len(ls) == 1 {
		return DistanceMeters(p, ls[0])
	}
	min := math.Inf(1)
	for i := 1; i < len(ls); i++ {
		if d := DistanceToSegmentMeters(p, ls[i-1], ls[i]); d < min {
			min = d
		}
	}
	return min
}

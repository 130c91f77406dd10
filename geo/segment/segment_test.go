package segment

import (
	"math"
	"testing"
	"time"

	"github.com/rotblauer/wayward/params"
	"github.com/rotblauer/wayward/types/itinerary"
	"github.com/rotblauer/wayward/types/trace"
)

var t0 = time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC)

// degPerMeterLat is the latitude step for one meter on the sphere the
// haversine uses (R=6371km).
const degPerMeterLat = 1.0 / 111194.92664455873

func approx(t *testing.T, name string, got, want, tol float64) {
	t.Helper()
	if math.Abs(got-want) > tol {
		t.Errorf("%s: got %v want %v (tol %v)", name, got, want, tol)
	}
}

// northboundTrace emits points every step, each moving stepMeters due
// north, starting at the origin.
func northboundTrace(n int, step time.Duration, stepMeters float64) trace.Points {
	pts := make(trace.Points, 0, n)
	for i := 0; i < n; i++ {
		pts = append(pts, trace.Point{
			Time: t0.Add(time.Duration(i) * step),
			Lat:  float64(i) * stepMeters * degPerMeterLat,
		})
	}
	return pts
}

func stopAt(start, end time.Time) *itinerary.Stop {
	return &itinerary.Stop{StayPoint: itinerary.StayPoint{Start: start, End: end}}
}

func TestMetricsWalksRawTrace(t *testing.T) {
	// 13 points, 30s apart, 166.67m per step: a 2km leg in 6 minutes.
	pts := northboundTrace(13, 30*time.Second, 2000.0/12)
	a := stopAt(t0.Add(-time.Hour), t0)                           // departure stop ends at the first point
	b := stopAt(t0.Add(6*time.Minute), t0.Add(6*time.Minute+time.Hour)) // arrival begins at the last

	distKm, speedKmh := Metrics(pts, a, b, nil)
	approx(t, "distKm", distKm, 2.0, 0.001)
	if speedKmh == nil {
		t.Fatal("speedKmh: want value, got nil")
	}
	approx(t, "speedKmh", *speedKmh, 20.0, 0.01)
}

func TestMetricsExcludesPointsBeforeDeparture(t *testing.T) {
	// Wandering before the departure stop ends must not count toward
	// the leg distance.
	pts := trace.Points{
		{Time: t0.Add(-2 * time.Minute), Lat: 0.5},
		{Time: t0.Add(-time.Minute), Lat: 0.6},
	}
	pts = append(pts, northboundTrace(5, time.Minute, 100)...)

	a := stopAt(t0.Add(-time.Hour), t0)
	b := stopAt(t0.Add(4*time.Minute), t0.Add(time.Hour))
	distKm, _ := Metrics(pts, a, b, nil)
	approx(t, "distKm", distKm, 0.4, 0.001)
}

func TestMetricsStopsAtArrival(t *testing.T) {
	// Points after b.Start belong to the next leg.
	pts := northboundTrace(10, time.Minute, 100)
	a := stopAt(t0.Add(-time.Hour), t0)
	b := stopAt(t0.Add(3*time.Minute), t0.Add(time.Hour))
	distKm, _ := Metrics(pts, a, b, nil)
	approx(t, "distKm", distKm, 0.3, 0.001)
}

func TestMetricsZeroElapsed(t *testing.T) {
	pts := northboundTrace(3, time.Minute, 100)
	a := stopAt(t0.Add(-time.Hour), t0.Add(2*time.Minute))
	b := stopAt(t0.Add(2*time.Minute), t0.Add(time.Hour)) // b starts the instant a ends

	_, speedKmh := Metrics(pts, a, b, nil)
	if speedKmh != nil {
		t.Errorf("zero elapsed: want nil speed, got %v", *speedKmh)
	}

	_, speedKmh = Metrics(pts, a, b, &params.SegmentConfig{ZeroSpeedFallback: true})
	if speedKmh == nil || *speedKmh != 0.0 {
		t.Errorf("zero elapsed with fallback: want 0.0, got %v", speedKmh)
	}
}

func TestSliceInclusiveBounds(t *testing.T) {
	pts := northboundTrace(10, time.Minute, 100)
	a := stopAt(t0.Add(-time.Hour), t0.Add(2*time.Minute))
	b := stopAt(t0.Add(6*time.Minute), t0.Add(time.Hour))

	got := Slice(pts, a, b)
	if len(got) != 5 {
		t.Fatalf("want 5 points in [a.End, b.Start], got %d", len(got))
	}
	if !got[0].Time.Equal(t0.Add(2 * time.Minute)) {
		t.Errorf("first sliced point: %v", got[0].Time)
	}
	if !got[len(got)-1].Time.Equal(t0.Add(6 * time.Minute)) {
		t.Errorf("last sliced point: %v", got[len(got)-1].Time)
	}
}

func TestSpeedStatsConstantSpeed(t *testing.T) {
	// 333.58m per minute is almost exactly 20 km/h on this sphere.
	pts := northboundTrace(6, time.Minute, 2000.0/6)
	ss := SpeedStats(pts)
	if ss == nil {
		t.Fatal("want stats, got nil")
	}
	if ss.Mean != ss.Median || ss.Min != ss.Max {
		t.Errorf("constant speed must collapse the summary: %+v", ss)
	}
	approx(t, "mean", ss.Mean, 20.0, 0.05)
	approx(t, "p95", ss.P95, 20.0, 0.05)
}

func TestSpeedStatsSkipsZeroDeltaPairs(t *testing.T) {
	pts := trace.Points{
		{Time: t0, Lat: 0},
		{Time: t0, Lat: 0.001}, // duplicate timestamp, undefined speed
		{Time: t0.Add(time.Minute), Lat: 0.002},
	}
	ss := SpeedStats(pts)
	if ss == nil {
		t.Fatal("want stats from the one usable pair, got nil")
	}
	if ss.Min != ss.Max {
		t.Errorf("single usable pair: %+v", ss)
	}
}

func TestSpeedStatsTooFewPoints(t *testing.T) {
	if got := SpeedStats(trace.Points{{Time: t0}}); got != nil {
		t.Errorf("single point: want nil, got %+v", got)
	}
	if got := SpeedStats(nil); got != nil {
		t.Errorf("empty: want nil, got %+v", got)
	}
}

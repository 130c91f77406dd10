package api

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/rotblauer/wayward/types/itinerary"
	"github.com/rotblauer/wayward/types/mode"
	"github.com/rotblauer/wayward/types/trace"
)

var t0 = time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC)

const degPerMeterLat = 1.0 / 111194.92664455873

// namedPlaces geocodes by latitude band: anything within ~500m of a
// registered place gets its address.
type namedPlaces map[float64]itinerary.Address

func (n namedPlaces) ReverseGeocode(_ context.Context, lat, _ float64) itinerary.Address {
	for at, addr := range n {
		if d := lat - at; d < 0.005 && d > -0.005 {
			return addr
		}
	}
	return itinerary.Address{}
}

// commuteTrace is a morning errand: ten minutes at home, a 2 km leg
// ridden in six minutes (20 km/h), ten minutes at the office.
// Fixes every 30 seconds throughout.
func commuteTrace() trace.Points {
	officeLat := 2000 * degPerMeterLat
	pts := trace.Points{}
	for i := 0; i <= 20; i++ { // 08:00:00 .. 08:10:00
		pts = append(pts, trace.Point{Time: t0.Add(time.Duration(i) * 30 * time.Second)})
	}
	for k := 1; k <= 11; k++ { // underway
		pts = append(pts, trace.Point{
			Time: t0.Add(10*time.Minute + time.Duration(k)*30*time.Second),
			Lat:  float64(k) * officeLat / 12,
		})
	}
	for i := 0; i <= 20; i++ { // 08:16:00 .. 08:26:00
		pts = append(pts, trace.Point{
			Time: t0.Add(16*time.Minute + time.Duration(i)*30*time.Second),
			Lat:  officeLat,
		})
	}
	return pts
}

func commutePlaces() namedPlaces {
	return namedPlaces{
		0:                     {Name: "Home", Road: "Alsenstrasse", City: "Aachen"},
		2000 * degPerMeterLat: {Name: "Office", Road: "Campus-Boulevard", City: "Aachen"},
	}
}

func TestItineraryCommute(t *testing.T) {
	p := NewPlanner(nil, commutePlaces(), nil)
	stops, err := p.Itinerary(context.Background(), commuteTrace())
	if err != nil {
		t.Fatal(err)
	}
	if len(stops) != 2 {
		t.Fatalf("want 2 stops, got %d: %+v", len(stops), stops)
	}

	home, office := stops[0], stops[1]
	if home.Address.Name != "Home" || office.Address.Name != "Office" {
		t.Errorf("addresses: %+v, %+v", home.Address, office.Address)
	}
	if !home.Start.Equal(t0) || !home.End.Equal(t0.Add(10*time.Minute)) {
		t.Errorf("home span: [%v, %v]", home.Start, home.End)
	}
	if !office.Start.Equal(t0.Add(16*time.Minute)) || !office.End.Equal(t0.Add(26*time.Minute)) {
		t.Errorf("office span: [%v, %v]", office.Start, office.End)
	}

	if home.NextDistKm == nil {
		t.Fatal("home stop must carry the outbound segment distance")
	}
	if d := *home.NextDistKm; d < 1.99 || d > 2.01 {
		t.Errorf("segment distance: %v km, want ~2.0", d)
	}
	if home.NextSpeedKmh == nil {
		t.Fatal("home stop must carry the outbound segment speed")
	}
	if v := *home.NextSpeedKmh; v < 19.9 || v > 20.1 {
		t.Errorf("segment speed: %v km/h, want ~20", v)
	}
	if home.NextSpeedStats == nil {
		t.Error("home stop must carry segment speed stats")
	}

	// 20 km/h over 2 km: bicycle must outrank on-foot and car.
	if home.NextModes == nil {
		t.Fatal("home stop must carry mode scores")
	}
	scores := home.NextModes.Values
	if scores[mode.Bike] <= scores[mode.Foot] || scores[mode.Bike] <= scores[mode.Car] {
		t.Errorf("bike must outscore foot and car: %v", scores)
	}

	// The final stop has no outbound segment.
	if office.NextDistKm != nil || office.NextModes != nil {
		t.Errorf("final stop must carry no segment attributes: %+v", office)
	}
}

func TestItineraryEmptyTrace(t *testing.T) {
	p := NewPlanner(nil, nil, nil)
	stops, err := p.Itinerary(context.Background(), nil)
	if err != nil {
		t.Fatal(err)
	}
	if stops == nil || len(stops) != 0 {
		t.Errorf("empty trace: want empty non-nil stop list, got %v", stops)
	}
}

func TestItineraryTwoPointTrace(t *testing.T) {
	// Two lone fixes half an hour apart: no cluster qualifies, the
	// itinerary is just the two synthetic endpoints with one segment.
	p := NewPlanner(nil, nil, nil)
	pts := trace.Points{
		{Time: t0, Lat: 0, Lon: 0},
		{Time: t0.Add(30 * time.Minute), Lat: 0.05, Lon: 0},
	}
	stops, err := p.Itinerary(context.Background(), pts)
	if err != nil {
		t.Fatal(err)
	}
	if len(stops) != 2 {
		t.Fatalf("want the 2 synthetic endpoints, got %d", len(stops))
	}
	for _, s := range stops {
		if s.Duration() != 0 {
			t.Errorf("synthetic endpoint with nonzero duration: %+v", s)
		}
	}
	if stops[0].NextDistKm == nil {
		t.Error("endpoint-to-endpoint segment must still be measured")
	}
}

func TestItineraryUnsortedInput(t *testing.T) {
	p := NewPlanner(nil, commutePlaces(), nil)
	pts := commuteTrace()
	// Shuffle deterministically.
	for i := 0; i < len(pts)-1; i += 2 {
		pts[i], pts[i+1] = pts[i+1], pts[i]
	}
	stops, err := p.Itinerary(context.Background(), pts)
	if err != nil {
		t.Fatal(err)
	}
	if len(stops) != 2 {
		t.Errorf("unsorted input must still yield 2 stops, got %d", len(stops))
	}
}

func TestItineraryDedupesPoints(t *testing.T) {
	p := NewPlanner(nil, commutePlaces(), nil)
	base := commuteTrace()
	doubled := make(trace.Points, 0, 2*len(base))
	for _, pt := range base {
		doubled = append(doubled, pt, pt)
	}

	want, err := p.Itinerary(context.Background(), base)
	if err != nil {
		t.Fatal(err)
	}
	got, err := NewPlanner(nil, commutePlaces(), nil).Itinerary(context.Background(), doubled)
	if err != nil {
		t.Fatal(err)
	}
	wantJS, _ := json.Marshal(want)
	gotJS, _ := json.Marshal(got)
	if string(wantJS) != string(gotJS) {
		t.Errorf("duplicated fixes changed the itinerary:\n%s\n%s", wantJS, gotJS)
	}
}

func TestItineraryDeterministic(t *testing.T) {
	var first []byte
	for i := 0; i < 3; i++ {
		p := NewPlanner(nil, commutePlaces(), nil)
		stops, err := p.Itinerary(context.Background(), commuteTrace())
		if err != nil {
			t.Fatal(err)
		}
		js, err := json.Marshal(stops)
		if err != nil {
			t.Fatal(err)
		}
		if first == nil {
			first = js
			continue
		}
		if string(js) != string(first) {
			t.Fatalf("run %d not byte-identical:\n%s\n%s", i, first, js)
		}
	}
}

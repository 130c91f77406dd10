package rgeo

import (
	"context"
	"testing"
	"time"

	"github.com/rotblauer/wayward/types/itinerary"
)

// countingGeocoder returns a fixed address and counts lookups.
type countingGeocoder struct {
	calls int
	addr  itinerary.Address
}

func (c *countingGeocoder) ReverseGeocode(context.Context, float64, float64) itinerary.Address {
	c.calls++
	return c.addr
}

func TestCacheKeyRounding(t *testing.T) {
	// Sub-meter jitter collapses onto one key.
	if CacheKey(52.520001, 13.405001) != CacheKey(52.520003, 13.405002) {
		t.Error("coordinates within rounding must share a key")
	}
	if CacheKey(52.52, 13.405) == CacheKey(52.53, 13.405) {
		t.Error("distinct coordinates must not share a key")
	}
	if got, want := CacheKey(52.5, 13.4), "52.50000,13.40000"; got != want {
		t.Errorf("key format: got %q want %q", got, want)
	}
}

func TestCachedMemoizes(t *testing.T) {
	src := &countingGeocoder{addr: itinerary.Address{City: "Aachen"}}
	c := NewCached(src, time.Hour, 100)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if got := c.ReverseGeocode(ctx, 52.520001, 13.405001); got.City != "Aachen" {
			t.Fatalf("lookup %d: %+v", i, got)
		}
	}
	// A second coordinate within rounding distance also hits.
	c.ReverseGeocode(ctx, 52.520002, 13.405002)

	if src.calls != 1 {
		t.Errorf("upstream lookups: got %d want 1", src.calls)
	}
	if c.Hits != 3 || c.Misses != 1 {
		t.Errorf("hits/misses: %d/%d", c.Hits, c.Misses)
	}
}

func TestRateLimitedMinDelay(t *testing.T) {
	src := &countingGeocoder{}
	rl := NewRateLimited(src, 30*time.Millisecond)

	start := time.Now()
	for i := 0; i < 3; i++ {
		rl.ReverseGeocode(context.Background(), 1, 2)
	}
	if elapsed := time.Since(start); elapsed < 60*time.Millisecond {
		t.Errorf("three lookups at 30ms min delay finished in %v", elapsed)
	}
	if src.calls != 3 {
		t.Errorf("upstream lookups: %d", src.calls)
	}
}

func TestRateLimitedCancelledContext(t *testing.T) {
	src := &countingGeocoder{addr: itinerary.Address{City: "X"}}
	rl := NewRateLimited(src, time.Hour)
	rl.ReverseGeocode(context.Background(), 1, 2)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if got := rl.ReverseGeocode(ctx, 1, 2); !got.IsEmpty() {
		t.Errorf("cancelled lookup must degrade to empty address: %+v", got)
	}
	if src.calls != 1 {
		t.Errorf("cancelled lookup must not reach upstream: %d calls", src.calls)
	}
}

func TestNullGeocoder(t *testing.T) {
	if got := (Null{}).ReverseGeocode(context.Background(), 52.52, 13.405); !got.IsEmpty() {
		t.Errorf("null geocoder: %+v", got)
	}
}

func TestDecodeNominatim(t *testing.T) {
	body := []byte(`{
	 "name": "",
	 "address": {
	  "amenity": "Stadtbibliothek",
	  "road": "Couvenstrasse",
	  "house_number": "15",
	  "postcode": "52062",
	  "town": "Aachen"
	 }}`)

	got := decodeNominatim(body)
	want := itinerary.Address{
		Name:        "Stadtbibliothek",
		Road:        "Couvenstrasse",
		HouseNumber: "15",
		Postcode:    "52062",
		City:        "Aachen",
	}
	if got != want {
		t.Errorf("decoded: %+v want %+v", got, want)
	}
}

func TestDecodeNominatimFallbacks(t *testing.T) {
	body := []byte(`{
	 "name": "Elisenbrunnen",
	 "address": {
	  "pedestrian": "Friedrich-Wilhelm-Platz",
	  "village": "Kornelimuenster"
	 }}`)

	got := decodeNominatim(body)
	if got.Name != "Elisenbrunnen" {
		t.Errorf("top-level name wins: %q", got.Name)
	}
	if got.Road != "Friedrich-Wilhelm-Platz" {
		t.Errorf("pedestrian fallback for road: %q", got.Road)
	}
	if got.City != "Kornelimuenster" {
		t.Errorf("village fallback for city: %q", got.City)
	}

	if got := decodeNominatim([]byte(`{"error":"Unable to geocode"}`)); !got.IsEmpty() {
		t.Errorf("error body must decode to empty address: %+v", got)
	}
}

// Package itinerary holds the semantic output types of the pipeline:
// stay-points, merged stops with addresses, and the travel segments
// between them.
package itinerary

import (
	"encoding/json"
	"time"

	"github.com/paulmach/orb"
	"github.com/shopspring/decimal"

	"github.com/rotblauer/wayward/types/mode"
)

// StayPoint is a raw spatio-temporal cluster: the subject lingered
// within a detection radius from Start to End. Coordinates are the
// arithmetic mean of the clustered fixes, except for the two synthetic
// trace-endpoint stay-points, which carry the exact first/last fix
// and a zero duration.
type StayPoint struct {
	Lat   float64   `json:"lat"`
	Lon   float64   `json:"lon"`
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

func (sp StayPoint) Coord() orb.Point {
	return orb.Point{sp.Lon, sp.Lat}
}

func (sp StayPoint) Duration() time.Duration {
	return sp.End.Sub(sp.Start)
}

// Address is a reverse-geocoded postal record. Fields are empty strings
// when the geocoder had nothing; never absent.
type Address struct {
	Name        string `json:"name"`
	Road        string `json:"road"`
	HouseNumber string `json:"house_number"`
	Postcode    string `json:"postcode"`
	City        string `json:"city"`
}

// Equal reports field-for-field string equality across all five fields.
// Two all-empty addresses compare equal; that is intentional, the merge
// pass then falls back on the distance test to tell places apart.
func (a Address) Equal(b Address) bool {
	return a.Name == b.Name &&
		a.Road == b.Road &&
		a.HouseNumber == b.HouseNumber &&
		a.Postcode == b.Postcode &&
		a.City == b.City
}

func (a Address) IsEmpty() bool {
	return a == Address{}
}

// Stop is a merged, address-enriched stay-point. The Next* fields
// describe the travel segment to the following stop and stay nil on the
// final stop. End is the only field the merge passes mutate; nothing
// touches a Stop after the stop list is fixed.
type Stop struct {
	StayPoint
	Address Address

	NextDistKm     *float64
	NextSpeedKmh   *float64
	NextModes      *mode.Scores
	NextSpeedStats *SpeedStats
}

// stopJSON is the wire shape of a Stop. Distances and speeds are
// rounded to 2 decimals through shopspring/decimal so rendered output
// never carries float dust (19.999999999999996 km/h).
type stopJSON struct {
	Lat            float64      `json:"lat"`
	Lon            float64      `json:"lon"`
	Start          time.Time    `json:"start"`
	End            time.Time    `json:"end"`
	Address        Address      `json:"address"`
	NextDistKm     *float64     `json:"next_dist_km_real,omitempty"`
	NextSpeedKmh   *float64     `json:"next_speed_kmh_real,omitempty"`
	NextModes      *mode.Scores `json:"next_modes,omitempty"`
	NextSpeedStats *SpeedStats  `json:"next_speed_stats,omitempty"`
}

func round2(f *float64) *float64 {
	if f == nil {
		return nil
	}
	v := decimal.NewFromFloat(*f).Round(2).InexactFloat64()
	return &v
}

func (s Stop) MarshalJSON() ([]byte, error) {
	return json.Marshal(stopJSON{
		Lat:            s.Lat,
		Lon:            s.Lon,
		Start:          s.Start,
		End:            s.End,
		Address:        s.Address,
		NextDistKm:     round2(s.NextDistKm),
		NextSpeedKmh:   round2(s.NextSpeedKmh),
		NextModes:      s.NextModes,
		NextSpeedStats: s.NextSpeedStats,
	})
}

func (s *Stop) UnmarshalJSON(data []byte) error {
	var sj stopJSON
	if err := json.Unmarshal(data, &sj); err != nil {
		return err
	}
	*s = Stop{
		StayPoint:      StayPoint{Lat: sj.Lat, Lon: sj.Lon, Start: sj.Start, End: sj.End},
		Address:        sj.Address,
		NextDistKm:     sj.NextDistKm,
		NextSpeedKmh:   sj.NextSpeedKmh,
		NextModes:      sj.NextModes,
		NextSpeedStats: sj.NextSpeedStats,
	}
	return nil
}

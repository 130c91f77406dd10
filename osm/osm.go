// Package osm provides street/rail network geometries near a segment,
// the evidence the mode classifier scores coverage against.
//
// The GeometrySource contract returns an empty set — not an error —
// when no data exists for an area; adapters degrade transport failures
// to errors the classifier maps to a zero coverage score.
package osm

import (
	"context"
	"strconv"
	"strings"

	"github.com/paulmach/orb"

	"github.com/rotblauer/wayward/types/mode"
)

// Way is one geo-referenced network geometry with its raw tags.
type Way struct {
	ID   int64             `json:"id"`
	Line orb.LineString    `json:"line"`
	Tags map[string]string `json:"tags,omitempty"`
}

// MaxSpeedKmh parses the way's posted speed limit.
// Handles plain km/h numbers, "NN mph", and the "walk" token.
// Unposted, "none" (derestricted), and unparseable values report false.
func (w Way) MaxSpeedKmh() (float64, bool) {
	raw, ok := w.Tags["maxspeed"]
	if !ok {
		return 0, false
	}
	raw = strings.TrimSpace(strings.ToLower(raw))
	switch raw {
	case "", "none", "signals", "variable":
		return 0, false
	case "walk":
		return 7, true
	}
	if v, after, found := strings.Cut(raw, " mph"); found && after == "" {
		mph, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return 0, false
		}
		return mph * 1.609344, true
	}
	kmh, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, false
	}
	return kmh, true
}

// TagFilter selects the network classes appropriate for one mode.
type TagFilter struct {
	Name    string
	Highway []string
	Railway []string
}

// FilterForMode maps a transport mode to its OSM way classes.
// Rail modes match railway values; everything else matches highway
// values, with car and bus sharing the general road network.
func FilterForMode(m mode.Mode) TagFilter {
	switch m {
	case mode.Foot:
		return TagFilter{Name: "foot", Highway: []string{"footway", "pedestrian", "path", "steps"}}
	case mode.Bike:
		return TagFilter{Name: "bike", Highway: []string{"cycleway", "path"}}
	case mode.Car, mode.Bus:
		return TagFilter{Name: "road", Highway: []string{
			"motorway", "trunk", "primary", "secondary", "tertiary",
			"unclassified", "residential", "service", "living_street",
		}}
	case mode.Tram:
		return TagFilter{Name: "tram", Railway: []string{"tram"}}
	case mode.Train:
		return TagFilter{Name: "train", Railway: []string{"rail", "subway", "light_rail"}}
	}
	return TagFilter{Name: "none"}
}

// Key is a stable cache identity for the filter.
func (f TagFilter) Key() string { return f.Name }

// regex value for an Overpass tag match, e.g. ^(footway|pedestrian)$.
func alternation(values []string) string {
	return "^(" + strings.Join(values, "|") + ")$"
}

// GeometrySource is the network-data capability handed to the
// classifier. Implementations must tolerate any bounding box.
type GeometrySource interface {
	Query(ctx context.Context, bound orb.Bound, filter TagFilter) ([]Way, error)
}

// Null is the null-object GeometrySource: it always finds nothing,
// which the classifier scores as zero coverage. Use it instead of
// feature-detection branches when no network data is wanted.
type Null struct{}

func (Null) Query(ctx context.Context, bound orb.Bound, filter TagFilter) ([]Way, error) {
	return nil, nil
}

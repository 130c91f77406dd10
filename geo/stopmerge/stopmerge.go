// Package stopmerge collapses oversegmented stay-points into final
// stops with two greedy left-to-right passes: a minute-boundary overlap
// merge, then an address/gap merge run after geocode enrichment.
package stopmerge

import (
	"context"
	"log/slog"
	"time"

	"github.com/rotblauer/wayward/common"
	"github.com/rotblauer/wayward/params"
	"github.com/rotblauer/wayward/rgeo"
	"github.com/rotblauer/wayward/types/itinerary"
)

type Merger struct {
	Config   *params.MergeConfig
	Geocoder rgeo.Geocoder
	logger   *slog.Logger
}

func NewMerger(config *params.MergeConfig, geocoder rgeo.Geocoder) *Merger {
	if config == nil {
		config = params.DefaultMergeConfig
	}
	if geocoder == nil {
		geocoder = rgeo.Null{}
	}
	return &Merger{
		Config:   config,
		Geocoder: geocoder,
		logger:   slog.With("pkg", "stopmerge"),
	}
}

// Merge runs both passes, with address enrichment between them, and
// returns the final ordered stop list. Once an entry has been folded
// into its predecessor it is never revisited; no backtracking.
func (m *Merger) Merge(ctx context.Context, sps []itinerary.StayPoint) []*itinerary.Stop {
	merged := MergeMinuteOverlap(sps)

	stops := make([]*itinerary.Stop, 0, len(merged))
	for _, sp := range merged {
		stops = append(stops, &itinerary.Stop{
			StayPoint: sp,
			Address:   m.Geocoder.ReverseGeocode(ctx, sp.Lat, sp.Lon),
		})
	}

	out := m.MergeAddressGap(stops)
	m.logger.Debug("Merged stops", "staypoints", len(sps), "minute_pass", len(merged), "final", len(out))
	return out
}

// MergeMinuteOverlap folds a stay-point into its predecessor when the
// predecessor's end and its start fall in the same wall-clock minute.
// Clustering jitter at minute granularity otherwise splits one stop in
// two. The survivor keeps its own coordinates; only End extends.
func MergeMinuteOverlap(sps []itinerary.StayPoint) []itinerary.StayPoint {
	out := make([]itinerary.StayPoint, 0, len(sps))
	for _, sp := range sps {
		if len(out) > 0 && sameMinute(out[len(out)-1].End, sp.Start) {
			out[len(out)-1].End = sp.End
			continue
		}
		out = append(out, sp)
	}
	return out
}

func sameMinute(a, b time.Time) bool {
	return a.Truncate(time.Minute).Equal(b.Truncate(time.Minute))
}

// MergeAddressGap folds a stop into its predecessor when the gap
// between them is at most MaxGap AND they share an address
// (field-for-field) or lie within MergeDistance of each other.
// This absorbs short hops back to the same place and nearby-but-not-
// identical reverse-geocode results for one physical location.
func (m *Merger) MergeAddressGap(stops []*itinerary.Stop) []*itinerary.Stop {
	out := make([]*itinerary.Stop, 0, len(stops))
	for _, stop := range stops {
		if len(out) == 0 {
			out = append(out, stop)
			continue
		}
		prev := out[len(out)-1]
		gap := stop.Start.Sub(prev.End)

		sameAddr := prev.Address.Equal(stop.Address)
		closeEnough := common.DistanceMeters(prev.Coord(), stop.Coord()) <= m.Config.MergeDistance

		if gap <= m.Config.MaxGap && (sameAddr || closeEnough) {
			prev.End = stop.End
			continue
		}
		out = append(out, stop)
	}
	return out
}

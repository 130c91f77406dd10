// Package api sequences the pipeline over one parsed trace:
// sort -> dedupe -> stay-point detection -> merge/enrich ->
// per-segment metrics -> per-segment mode classification.
package api

import (
	"context"
	"log/slog"

	"github.com/rotblauer/wayward/geo/classify"
	"github.com/rotblauer/wayward/geo/segment"
	"github.com/rotblauer/wayward/geo/staypoint"
	"github.com/rotblauer/wayward/geo/stopmerge"
	"github.com/rotblauer/wayward/osm"
	"github.com/rotblauer/wayward/params"
	"github.com/rotblauer/wayward/rgeo"
	"github.com/rotblauer/wayward/stream"
	"github.com/rotblauer/wayward/types/itinerary"
	"github.com/rotblauer/wayward/types/trace"
)

// Planner owns one configuration and one set of collaborators and
// turns traces into itineraries. Stateless across runs aside from the
// collaborators' own caches; safe to reuse for many traces.
type Planner struct {
	Config     *params.Config
	Geocoder   rgeo.Geocoder
	Source     osm.GeometrySource
	detector   *staypoint.Detector
	merger     *stopmerge.Merger
	classifier *classify.Classifier
	logger     *slog.Logger
}

// NewPlanner wires a Planner. Nil collaborators degrade to null
// objects: empty addresses and zero network coverage.
func NewPlanner(config *params.Config, geocoder rgeo.Geocoder, source osm.GeometrySource) *Planner {
	if config == nil {
		config = params.DefaultConfig()
	}
	if geocoder == nil {
		geocoder = rgeo.Null{}
	}
	if source == nil {
		source = osm.Null{}
	}
	return &Planner{
		Config:     config,
		Geocoder:   geocoder,
		Source:     source,
		detector:   staypoint.NewDetector(config.StayPoint),
		merger:     stopmerge.NewMerger(config.Merge, geocoder),
		classifier: classify.NewClassifier(config.Mode, source),
		logger:     slog.With("pkg", "api"),
	}
}

// Itinerary runs the full pipeline and returns the enriched, ordered
// stop list. An empty or unusable trace returns an empty list, not an
// error: that is an answer, not a failure.
//
// Data flows strictly forward; each stage consumes the previous
// stage's complete output. Segment attributes land on the stop
// preceding each segment.
func (p *Planner) Itinerary(ctx context.Context, pts trace.Points) ([]*itinerary.Stop, error) {
	pts = p.prepare(ctx, pts)
	if len(pts) == 0 {
		return []*itinerary.Stop{}, nil
	}

	stayPoints := p.detector.Detect(pts)
	stops := p.merger.Merge(ctx, stayPoints)

	for i := 0; i+1 < len(stops); i++ {
		seg := p.buildSegment(ctx, pts, stops[i], stops[i+1])
		seg.Attach()
	}

	p.logger.Info("Built itinerary",
		"points", len(pts), "staypoints", len(stayPoints), "stops", len(stops))
	return stops, nil
}

// prepare sorts (when needed) and deduplicates the raw points.
func (p *Planner) prepare(ctx context.Context, pts trace.Points) trace.Points {
	if !pts.IsSorted() {
		p.logger.Warn("Trace not sorted by time, sorting", "points", len(pts))
		pts.Sort()
	}
	deduped := stream.Collect(ctx,
		stream.Filter(ctx, trace.NewDedupeLRUFunc(), stream.Slice(ctx, pts)))
	return trace.Points(deduped)
}

func (p *Planner) buildSegment(ctx context.Context, pts trace.Points, a, b *itinerary.Stop) *itinerary.Segment {
	distKm, speedKmh := segment.Metrics(pts, a, b, p.Config.Segment)
	segPts := segment.Slice(pts, a, b)
	return &itinerary.Segment{
		From:       a,
		To:         b,
		Points:     segPts,
		DistKm:     distKm,
		SpeedKmh:   speedKmh,
		SpeedStats: segment.SpeedStats(segPts),
		Modes:      p.classifier.Classify(ctx, segPts, speedKmh, distKm),
	}
}

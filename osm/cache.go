package osm

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/golang/geo/s2"
	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/paulmach/orb"
)

// CacheKey identifies a geometry query by the S2 cells of the bbox
// corners at a fixed level, plus the filter. Neighboring segments of one
// trip land in the same corner cells and share one external query per
// mode; a larger bbox around the same center spans different corner
// cells and never aliases onto a smaller query's result.
func CacheKey(bound orb.Bound, filter TagFilter, level int) string {
	lo := s2.CellIDFromLatLng(s2.LatLngFromDegrees(bound.Min.Lat(), bound.Min.Lon())).Parent(level)
	hi := s2.CellIDFromLatLng(s2.LatLngFromDegrees(bound.Max.Lat(), bound.Max.Lon())).Parent(level)
	return fmt.Sprintf("s2_%d_%d_%s", uint64(lo), uint64(hi), filter.Key())
}

// Cached memoizes a GeometrySource with an in-memory LRU.
// Errors are never cached; only results (including empty ones) are.
type Cached struct {
	src   GeometrySource
	cache *lru.Cache[string, []Way]
	level int

	mu           sync.Mutex
	Hits, Misses int64
}

func NewCached(src GeometrySource, size, s2Level int) (*Cached, error) {
	c, err := lru.New[string, []Way](size)
	if err != nil {
		return nil, err
	}
	return &Cached{src: src, cache: c, level: s2Level}, nil
}

func (c *Cached) Query(ctx context.Context, bound orb.Bound, filter TagFilter) ([]Way, error) {
	key := CacheKey(bound, filter, c.level)
	if ways, ok := c.cache.Get(key); ok {
		c.mu.Lock()
		c.Hits++
		c.mu.Unlock()
		return ways, nil
	}
	ways, err := c.src.Query(ctx, bound, filter)
	if err != nil {
		return nil, err
	}
	c.cache.Add(key, ways)
	c.mu.Lock()
	c.Misses++
	c.mu.Unlock()
	return ways, nil
}

// RateLimited enforces a minimum delay between outbound queries.
// Same decorator shape as the geocoder's; the delay is collaborator
// policy, not classifier logic.
type RateLimited struct {
	src GeometrySource
	min time.Duration

	mu   sync.Mutex
	last time.Time
}

func NewRateLimited(src GeometrySource, min time.Duration) *RateLimited {
	return &RateLimited{src: src, min: min}
}

func (r *RateLimited) Query(ctx context.Context, bound orb.Bound, filter TagFilter) ([]Way, error) {
	r.mu.Lock()
	if wait := r.min - time.Since(r.last); wait > 0 {
		select {
		case <-time.After(wait):
		case <-ctx.Done():
			r.mu.Unlock()
			return nil, ctx.Err()
		}
	}
	r.last = time.Now()
	r.mu.Unlock()
	return r.src.Query(ctx, bound, filter)
}

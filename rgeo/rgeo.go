// Package rgeo provides reverse geocoding for stop coordinates.
//
// The Geocoder contract is structurally total: implementations swallow
// lookup and transport errors and return an all-empty Address instead.
// An itinerary must stay useful when the geocoder is down; the merge
// pass just leans harder on the distance test.
package rgeo

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/jellydator/ttlcache/v3"

	"github.com/rotblauer/wayward/common"
	"github.com/rotblauer/wayward/params"
	"github.com/rotblauer/wayward/types/itinerary"
)

type Geocoder interface {
	ReverseGeocode(ctx context.Context, lat, lon float64) itinerary.Address
}

// Null is the no-op Geocoder; every lookup is an empty Address.
type Null struct{}

func (Null) ReverseGeocode(ctx context.Context, lat, lon float64) itinerary.Address {
	return itinerary.Address{}
}

// CacheKey rounds a coordinate to 5 decimal places (house precision).
// Two fixes within a meter of each other share an address; no point
// asking twice.
func CacheKey(lat, lon float64) string {
	return fmt.Sprintf("%.5f,%.5f",
		common.DecimalToFixed(lat, common.GPSPrecision5),
		common.DecimalToFixed(lon, common.GPSPrecision5))
}

// Cached memoizes a Geocoder by rounded-coordinate key.
// The TTL cache is safe for concurrent lookups; first write wins.
type Cached struct {
	src   Geocoder
	cache *ttlcache.Cache[string, itinerary.Address]

	// Hits and Misses are cumulative counters for run metrics.
	Hits, Misses int64
	mu           sync.Mutex
}

func NewCached(src Geocoder, ttl time.Duration, capacity uint64) *Cached {
	return &Cached{
		src: src,
		cache: ttlcache.New[string, itinerary.Address](
			ttlcache.WithTTL[string, itinerary.Address](ttl),
			ttlcache.WithCapacity[string, itinerary.Address](capacity),
		),
	}
}

func (c *Cached) ReverseGeocode(ctx context.Context, lat, lon float64) itinerary.Address {
	key := CacheKey(lat, lon)
	if item := c.cache.Get(key); item != nil {
		c.mu.Lock()
		c.Hits++
		c.mu.Unlock()
		return item.Value()
	}
	addr := c.src.ReverseGeocode(ctx, lat, lon)
	c.cache.Set(key, addr, ttlcache.DefaultTTL)
	c.mu.Lock()
	c.Misses++
	c.mu.Unlock()
	return addr
}

// RateLimited enforces a minimum delay between outbound calls to the
// wrapped Geocoder. External services rate-limit by policy; that policy
// belongs here, wrapped around the client, never inside merge logic.
type RateLimited struct {
	src Geocoder
	min time.Duration

	mu   sync.Mutex
	last time.Time
}

func NewRateLimited(src Geocoder, min time.Duration) *RateLimited {
	return &RateLimited{src: src, min: min}
}

func (r *RateLimited) ReverseGeocode(ctx context.Context, lat, lon float64) itinerary.Address {
	r.mu.Lock()
	if wait := r.min - time.Since(r.last); wait > 0 {
		select {
		case <-time.After(wait):
		case <-ctx.Done():
			r.mu.Unlock()
			return itinerary.Address{}
		}
	}
	r.last = time.Now()
	r.mu.Unlock()
	return r.src.ReverseGeocode(ctx, lat, lon)
}

// NewDefault assembles the standard geocoder stack:
// Nominatim, rate limited per its usage policy, memoized.
func NewDefault(config *params.NominatimConfig) Geocoder {
	if config == nil {
		config = params.DefaultNominatimConfig
	}
	return NewCached(
		NewRateLimited(NewNominatim(config), config.MinInterval),
		config.CacheTTL, config.CacheCapacity,
	)
}

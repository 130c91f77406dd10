package params

import "time"

const UserAgent = "wayward/1.0 (github.com/rotblauer/wayward)"

// NominatimConfig configures the reverse-geocoding collaborator.
// The rate limit is Nominatim usage policy, not pipeline logic;
// it lives in a decorator around the client.
type NominatimConfig struct {
	URL       string
	UserAgent string
	Timeout   time.Duration

	// MinInterval is the minimum delay between outbound requests.
	MinInterval time.Duration

	CacheTTL      time.Duration
	CacheCapacity uint64
}

var DefaultNominatimConfig = &NominatimConfig{
	URL:           "https://nominatim.openstreetmap.org/reverse",
	UserAgent:     UserAgent,
	Timeout:       5 * time.Second,
	MinInterval:   1 * time.Second,
	CacheTTL:      24 * time.Hour,
	CacheCapacity: 10_000,
}

// OverpassConfig configures the street/rail network-data collaborator.
type OverpassConfig struct {
	URL         string
	UserAgent   string
	Timeout     time.Duration
	MinInterval time.Duration

	// CacheSize is the in-memory LRU capacity for geometry query results.
	CacheSize int

	// CacheS2Level is the S2 cell level the bbox corners are snapped to
	// for cache identity; level 16 cells are ~150 m across, about one
	// query neighborhood.
	CacheS2Level int

	// DiskCachePath, when non-empty, adds a bbolt-backed cache under the
	// LRU so repeated runs over the same area work offline.
	DiskCachePath string
}

var DefaultOverpassConfig = &OverpassConfig{
	URL:          "https://overpass-api.de/api/interpreter",
	UserAgent:    UserAgent,
	Timeout:      25 * time.Second,
	MinInterval:  2 * time.Second,
	CacheSize:    4096,
	CacheS2Level: 16,
}

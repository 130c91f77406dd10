package cmd

import (
	"log/slog"
	"path/filepath"

	"github.com/spf13/pflag"

	"github.com/rotblauer/wayward/osm"
	"github.com/rotblauer/wayward/params"
	"github.com/rotblauer/wayward/rgeo"
)

var optNoGeocode bool
var optOfflineGeocode bool
var optNoNetwork bool
var optOfflineNetwork bool

func collaboratorFlags(flags *pflag.FlagSet) {
	flags.BoolVar(&optNoGeocode, "no-geocode", false,
		"Skip reverse geocoding (stops carry empty addresses)")
	flags.BoolVar(&optOfflineGeocode, "offline-geocode", false,
		"Use the embedded offline geocoder (city-level) instead of Nominatim")
	flags.BoolVar(&optNoNetwork, "no-network", false,
		"Skip network-data lookups (coverage scores stay 0)")
	flags.BoolVar(&optOfflineNetwork, "offline-network", false,
		"Serve network data only from the local disk cache")
}

// buildGeocoder assembles the geocoder stack per flags. Failures fall
// back toward Null; an itinerary without addresses beats no itinerary.
func buildGeocoder(cfg *params.Config) (rgeo.Geocoder, *rgeo.Cached) {
	if optNoGeocode {
		return rgeo.Null{}, nil
	}
	var base rgeo.Geocoder
	if optOfflineGeocode {
		offline, err := rgeo.NewOffline()
		if err != nil {
			slog.Error("Failed to init offline geocoder, addresses will be empty", "error", err)
			return rgeo.Null{}, nil
		}
		base = offline
	} else {
		base = rgeo.NewRateLimited(rgeo.NewNominatim(cfg.Nominatim), cfg.Nominatim.MinInterval)
	}
	cached := rgeo.NewCached(base, cfg.Nominatim.CacheTTL, cfg.Nominatim.CacheCapacity)
	return cached, cached
}

// buildGeometrySource assembles the network-data stack per flags:
// Overpass, rate limited, disk cached, LRU cached. The returned close
// func releases the disk cache; it is safe to call on any path.
func buildGeometrySource(cfg *params.Config) (osm.GeometrySource, *osm.Cached, func()) {
	noop := func() {}
	if optNoNetwork {
		return osm.Null{}, nil, noop
	}

	var src osm.GeometrySource
	if optOfflineNetwork {
		src = osm.Null{}
	} else {
		src = osm.NewRateLimited(osm.NewOverpass(cfg.Overpass), cfg.Overpass.MinInterval)
	}

	closeFn := noop
	diskPath := cfg.Overpass.DiskCachePath
	if diskPath == "" {
		diskPath = filepath.Join(params.DatadirRoot(), "osm.db")
	}
	disk, err := osm.NewDiskCache(src, diskPath, cfg.Overpass.CacheS2Level)
	if err != nil {
		slog.Warn("Failed to open network disk cache, continuing without", "path", diskPath, "error", err)
	} else {
		src = disk
		closeFn = func() {
			if err := disk.Close(); err != nil {
				slog.Error("Failed to close network disk cache", "error", err)
			}
		}
	}

	cached, err := osm.NewCached(src, cfg.Overpass.CacheSize, cfg.Overpass.CacheS2Level)
	if err != nil {
		return src, nil, closeFn
	}
	return cached, cached, closeFn
}

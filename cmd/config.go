package cmd

import (
	"github.com/spf13/viper"

	"github.com/rotblauer/wayward/params"
)

// loadConfig assembles the run configuration: package defaults,
// overridden by whatever the config file or WAYWARD_* environment set
// (keys are dotted, e.g. nominatim.url -> WAYWARD_NOMINATIM_URL).
// Sub-configs are copied before overriding so the package defaults are
// never mutated.
func loadConfig() *params.Config {
	cfg := params.DefaultConfig()

	staypoint := *cfg.StayPoint
	if v := viper.GetFloat64("staypoint.radius"); v > 0 {
		staypoint.Radius = v
	}
	if v := viper.GetDuration("staypoint.min_duration"); v > 0 {
		staypoint.MinDuration = v
	}
	cfg.StayPoint = &staypoint

	merge := *cfg.Merge
	if v := viper.GetDuration("merge.max_gap"); v > 0 {
		merge.MaxGap = v
	}
	if v := viper.GetFloat64("merge.merge_distance"); v > 0 {
		merge.MergeDistance = v
	}
	cfg.Merge = &merge

	segment := *cfg.Segment
	if viper.IsSet("segment.zero_speed_fallback") {
		segment.ZeroSpeedFallback = viper.GetBool("segment.zero_speed_fallback")
	}
	cfg.Segment = &segment

	nominatim := *cfg.Nominatim
	if v := viper.GetString("nominatim.url"); v != "" {
		nominatim.URL = v
	}
	if v := viper.GetDuration("nominatim.min_interval"); v > 0 {
		nominatim.MinInterval = v
	}
	if v := viper.GetDuration("nominatim.cache_ttl"); v > 0 {
		nominatim.CacheTTL = v
	}
	cfg.Nominatim = &nominatim

	overpass := *cfg.Overpass
	if v := viper.GetString("overpass.url"); v != "" {
		overpass.URL = v
	}
	if v := viper.GetDuration("overpass.min_interval"); v > 0 {
		overpass.MinInterval = v
	}
	if v := viper.GetString("overpass.disk_cache_path"); v != "" {
		overpass.DiskCachePath = v
	}
	cfg.Overpass = &overpass

	return cfg
}

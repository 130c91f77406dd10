package params

import (
	"os"
	"path/filepath"

	homedir "github.com/mitchellh/go-homedir"
)

// Config aggregates every tunable of one pipeline run.
// Nil sub-configs mean defaults.
type Config struct {
	StayPoint *StayPointConfig
	Merge     *MergeConfig
	Segment   *SegmentConfig
	Mode      *ModeConfig
	Nominatim *NominatimConfig
	Overpass  *OverpassConfig
}

func DefaultConfig() *Config {
	return &Config{
		StayPoint: DefaultStayPointConfig,
		Merge:     DefaultMergeConfig,
		Segment:   DefaultSegmentConfig,
		Mode:      DefaultModeConfig,
		Nominatim: DefaultNominatimConfig,
		Overpass:  DefaultOverpassConfig,
	}
}

// DatadirRoot is where wayward keeps its own files (the network-data
// disk cache, mostly). Falls back to a relative dir when the home
// directory cannot be resolved.
func DatadirRoot() string {
	home, err := homedir.Dir()
	if err != nil {
		return ".wayward"
	}
	return filepath.Join(home, ".wayward")
}

// InfluxDB export is optional; it activates only when the URL is set.
var (
	InfluxDBURL    = os.Getenv("WAYWARD_INFLUXDB_URL")
	InfluxDBToken  = os.Getenv("WAYWARD_INFLUXDB_TOKEN")
	InfluxDBOrg    = os.Getenv("WAYWARD_INFLUXDB_ORG")
	InfluxDBBucket = os.Getenv("WAYWARD_INFLUXDB_BUCKET")
)

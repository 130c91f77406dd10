// Package influxdb exports run metrics to an InfluxDB Write API.
// Export is opt-in: it does nothing unless WAYWARD_INFLUXDB_URL is set.
package influxdb

import (
	"sync"
	"time"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"

	"github.com/rotblauer/wayward/params"
	"github.com/rotblauer/wayward/types/itinerary"
)

// RunMeta summarizes one pipeline run.
type RunMeta struct {
	Source        string
	Points        int
	Stops         int
	GeocodeHits   int64
	GeocodeMisses int64
	NetworkHits   int64
	NetworkMisses int64
	Elapsed       time.Duration
}

// ExportRun posts one run summary plus a point per stop.
// The last error encountered is returned; a nil return with an unset
// URL means export was skipped.
func ExportRun(stops []*itinerary.Stop, meta RunMeta) error {
	if params.InfluxDBURL == "" {
		return nil
	}

	opts := influxdb2.DefaultOptions()
	opts.SetPrecision(time.Second)
	client := influxdb2.NewClientWithOptions(params.InfluxDBURL, params.InfluxDBToken, opts)
	writeAPI := client.WriteAPI(params.InfluxDBOrg, params.InfluxDBBucket)

	// The errors chan is unbuffered and must be drained
	// or the writer will block.
	errorsCh := writeAPI.Errors()
	var err error
	wait := sync.WaitGroup{}
	wait.Add(1)
	go func() {
		defer wait.Done()
		for e := range errorsCh {
			if e != nil {
				err = e
			}
		}
	}()

	run := influxdb2.NewPointWithMeasurement("wayward_run").
		SetTime(time.Now()).
		AddTag("source", meta.Source).
		AddField("points", meta.Points).
		AddField("stops", meta.Stops).
		AddField("geocode_cache_hits", meta.GeocodeHits).
		AddField("geocode_cache_misses", meta.GeocodeMisses).
		AddField("network_cache_hits", meta.NetworkHits).
		AddField("network_cache_misses", meta.NetworkMisses).
		AddField("elapsed_seconds", meta.Elapsed.Seconds())
	writeAPI.WritePoint(run)

	for _, stop := range stops {
		p := influxdb2.NewPointWithMeasurement("wayward_stop").
			SetTime(stop.Start).
			AddField("latitude", stop.Lat).
			AddField("longitude", stop.Lon).
			AddField("duration_seconds", stop.Duration().Seconds())
		if stop.Address.City != "" {
			p.AddTag("city", stop.Address.City)
		}
		if stop.NextModes != nil {
			p.AddTag("next_mode", stop.NextModes.Best.String())
		}
		if stop.NextDistKm != nil {
			p.AddField("next_dist_km", *stop.NextDistKm)
		}
		if stop.NextSpeedKmh != nil {
			p.AddField("next_speed_kmh", *stop.NextSpeedKmh)
		}
		writeAPI.WritePoint(p)
	}

	writeAPI.Flush()
	client.Close()
	wait.Wait()
	return err
}

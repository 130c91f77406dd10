package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	humanize "github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/rotblauer/wayward/api"
	"github.com/rotblauer/wayward/metrics/influxdb"
	"github.com/rotblauer/wayward/types/itinerary"
	"github.com/rotblauer/wayward/types/trace"
)

var optInput string
var optReport bool

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Analyze one GPS trace into an itinerary of stops and travel segments",
	Long: `
Reads a trace (GPX or NDJSON points; format sniffed) from a file or
stdin, runs stay-point detection, stop merging, address enrichment,
segment metrics, and transport-mode classification, and writes the
enriched stops to stdout as NDJSON.

Collaborator lookups (Nominatim reverse geocoding, Overpass network
data) are cached and rate limited; use the --no-* and --offline-*
flags to run without them.
`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		var in io.Reader = os.Stdin
		source := "stdin"
		if optInput != "" && optInput != "-" {
			f, err := os.Open(optInput)
			if err != nil {
				return err
			}
			defer f.Close()
			in = f
			source = optInput
		}

		pts, err := trace.Decode(in)
		if err != nil {
			return err
		}

		cfg := loadConfig()
		geocoder, geocodeCache := buildGeocoder(cfg)
		geomSource, geomCache, closeGeom := buildGeometrySource(cfg)
		defer closeGeom()

		planner := api.NewPlanner(cfg, geocoder, geomSource)

		started := time.Now()
		stops, err := planner.Itinerary(ctx, pts)
		if err != nil {
			return err
		}

		enc := json.NewEncoder(os.Stdout)
		for _, s := range stops {
			if err := enc.Encode(s); err != nil {
				return err
			}
		}

		meta := influxdb.RunMeta{
			Source:  source,
			Points:  len(pts),
			Stops:   len(stops),
			Elapsed: time.Since(started),
		}
		if geocodeCache != nil {
			meta.GeocodeHits, meta.GeocodeMisses = geocodeCache.Hits, geocodeCache.Misses
		}
		if geomCache != nil {
			meta.NetworkHits, meta.NetworkMisses = geomCache.Hits, geomCache.Misses
		}
		if err := influxdb.ExportRun(stops, meta); err != nil {
			fmt.Fprintf(os.Stderr, "influxdb export failed: %v\n", err)
		}

		if optReport {
			printReport(os.Stderr, stops, meta)
		}
		return nil
	},
}

func printReport(w io.Writer, stops []*itinerary.Stop, meta influxdb.RunMeta) {
	fmt.Fprintf(w, "points\t%s\n", humanize.Comma(int64(meta.Points)))
	fmt.Fprintf(w, "stops\t%s\n", humanize.Comma(int64(meta.Stops)))
	fmt.Fprintf(w, "elapsed\t%s\n", meta.Elapsed.Round(time.Millisecond))
	for i, s := range stops {
		place := s.Address.Name
		if place == "" {
			place = s.Address.Road
		}
		if place == "" {
			place = fmt.Sprintf("%.5f,%.5f", s.Lat, s.Lon)
		}
		fmt.Fprintf(w, "stop %d\t%s\t%s\t(%s)\n",
			i+1, s.Start.Format("15:04"), place, s.Duration().Round(time.Second))
		if s.NextDistKm != nil && s.NextModes != nil {
			speed := "-"
			if s.NextSpeedKmh != nil {
				speed = fmt.Sprintf("%.1f km/h", *s.NextSpeedKmh)
			}
			fmt.Fprintf(w, "  -> %.2f km\t%s\tby %s\n",
				*s.NextDistKm, speed, s.NextModes.Best.String())
		}
	}
}

func init() {
	rootCmd.AddCommand(analyzeCmd)
	analyzeCmd.Flags().StringVarP(&optInput, "input", "i", "-",
		"Trace file to read ('-' for stdin)")
	analyzeCmd.Flags().BoolVar(&optReport, "report", false,
		"Print a human-readable summary to stderr")
	collaboratorFlags(analyzeCmd.Flags())
}

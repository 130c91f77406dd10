package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/rotblauer/wayward/api"
	"github.com/rotblauer/wayward/daemon/webd"
	"github.com/rotblauer/wayward/params"
)

var optWebdAddr string
var optWebdPort int

var webdCmd = &cobra.Command{
	Use:   "webd",
	Short: "Start the itinerary web daemon",
	Long: `
Serves the pipeline over HTTP:

  GET  /ping          liveness
  POST /v1/itinerary  trace in (GPX or NDJSON), enriched stops out
`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := loadConfig()
		geocoder, _ := buildGeocoder(cfg)
		geomSource, _, closeGeom := buildGeometrySource(cfg)
		defer closeGeom()

		planner := api.NewPlanner(cfg, geocoder, geomSource)
		daemon := webd.NewWebDaemon(&params.WebDaemonConfig{
			NetAddr: viper.GetString("webd.addr"),
			NetPort: viper.GetInt("webd.port"),
		}, planner)
		return daemon.Run()
	},
}

func init() {
	rootCmd.AddCommand(webdCmd)
	webdCmd.Flags().StringVar(&optWebdAddr, "addr", params.DefaultWebDaemonConfig().NetAddr,
		"Network address to listen on")
	webdCmd.Flags().IntVar(&optWebdPort, "port", params.DefaultWebDaemonConfig().NetPort,
		"Network port to listen on")
	// Config-file/env values feed through viper; a flag set on the
	// command line still wins.
	viper.BindPFlag("webd.addr", webdCmd.Flags().Lookup("addr"))
	viper.BindPFlag("webd.port", webdCmd.Flags().Lookup("port"))
	collaboratorFlags(webdCmd.Flags())
}

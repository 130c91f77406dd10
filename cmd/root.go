package cmd

import (
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var optVerbose bool
var optConfigFile string

var rootCmd = &cobra.Command{
	Use:   "wayward",
	Short: "Turn GPS traces into semantic itineraries",
	Long: `
wayward consumes a recorded GPS trace and produces the itinerary it
describes: the places visited (stops, with reverse-geocoded addresses)
and the travel segments between them, each annotated with real path
distance, average speed, and a probability distribution over transport
modes (foot, bike, car, bus, tram, train).
`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		level := slog.LevelInfo
		if optVerbose {
			level = slog.LevelDebug
		}
		slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: level,
		})))
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)
	rootCmd.PersistentFlags().BoolVarP(&optVerbose, "verbose", "v", false,
		"Enable debug logging")
	rootCmd.PersistentFlags().StringVar(&optConfigFile, "config", "",
		"Config file (default $HOME/.wayward.yaml)")
}

func initConfig() {
	if optConfigFile != "" {
		viper.SetConfigFile(optConfigFile)
	} else {
		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(home)
			viper.SetConfigType("yaml")
			viper.SetConfigName(".wayward")
		}
	}
	viper.SetEnvPrefix("WAYWARD")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()
	if err := viper.ReadInConfig(); err == nil {
		slog.Debug("Using config file", "file", viper.ConfigFileUsed())
	}
}

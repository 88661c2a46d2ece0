package main

import (
	"fmt"
	"github.com/HtWu123/databootcamp-final-project/internal/config"
	"github.com/spf13/cobra"
	"os"
)

type globalFlags struct {
	envFile      string
	logLevel     string
	logFormat    string
	data         string
	boroughs     string
	uhf42        string
	boroughRange string
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var flags globalFlags
	root := &cobra.Command{
		Use:          "airq",
		Short:        "NYC air quality dashboard",
		Long:         "airq aggregates the NYC air quality dataset and serves the dashboard figures.",
		SilenceUsage: true,
	}
	pf := root.PersistentFlags()
	pf.StringVar(&flags.envFile, "env-file", ".env", "Read AIRQ_* variables from this file if it exists")
	pf.StringVar(&flags.logLevel, "log-level", "", "Log level: debug, info, warn, error")
	pf.StringVar(&flags.logFormat, "log-format", "", "Log format: text, json")
	pf.StringVar(&flags.data, "data", "", "Observation CSV location (path, http(s):// or s3://)")
	pf.StringVar(&flags.boroughs, "boroughs", "", "Borough GeoJSON location")
	pf.StringVar(&flags.uhf42, "uhf42", "", "UHF42 GeoJSON location")
	pf.StringVar(&flags.boroughRange, "borough-range", "", "Borough map colour range: fixed, observed")

	root.AddCommand(
		newServeCmd(&flags),
		newContentsCmd(&flags),
		newRenderCmd(&flags),
	)
	return root
}

// loadConfig layers defaults, the env file, AIRQ_* variables and flags.
func loadConfig(cmd *cobra.Command, flags *globalFlags) (config.Config, error) {
	if err := config.LoadDotEnv(flags.envFile); err != nil {
		return config.Config{}, err
	}
	cfg, err := config.FromEnv()
	if err != nil {
		return config.Config{}, err
	}

	override := func(name string, dst *string, v string) {
		if cmd.Flags().Changed(name) {
			*dst = v
		}
	}
	override("log-level", &cfg.LogLevel, flags.logLevel)
	override("log-format", &cfg.LogFormat, flags.logFormat)
	override("data", &cfg.DataLocation, flags.data)
	override("boroughs", &cfg.BoroughLocation, flags.boroughs)
	override("uhf42", &cfg.UHF42Location, flags.uhf42)
	override("borough-range", &cfg.BoroughRange, flags.boroughRange)

	if err := cfg.Validate(); err != nil {
		return config.Config{}, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

package cli

import (
	"strings"

	"github.com/rileyhilliard/resourcelight/internal/config"
	"github.com/spf13/cobra"
)

// RootFlags holds the global flags. Values only override the config file
// when the flag was set on the command line.
type RootFlags struct {
	ConfigPath string
	Interval   float64
	History    int
	Log        bool
	Debug      bool
	NoUI       bool
	Color      string
}

// AddRootFlags registers the global flags as persistent flags on cmd.
func AddRootFlags(cmd *cobra.Command, flags *RootFlags) {
	pf := cmd.PersistentFlags()
	pf.StringVar(&flags.ConfigPath, "config", "", "config file (default: search ./.resourcelight.yaml, ~/.resource_light.json, ~/.config/resourcelight/config.yaml)")
	pf.Float64Var(&flags.Interval, "interval", 0, "sampling period in seconds (e.g. 0.5, 2)")
	pf.IntVar(&flags.History, "history", 0, "number of samples kept for trend graphs")
	pf.BoolVar(&flags.Log, "log", false, "write events to the configured log file")
	pf.BoolVar(&flags.Debug, "debug", false, "include per-tick samples in the log file")
	pf.BoolVar(&flags.NoUI, "no-ui", false, "print one summary line per sample instead of the dashboard")
	pf.StringVar(&flags.Color, "color", config.ColorAuto, "color output: auto, always or never")
}

// applyOverrides copies every flag the user set on cmd into cfg.
func applyOverrides(cmd *cobra.Command, cfg *config.Config, flags *RootFlags) {
	changed := cmd.Flags().Changed
	if changed("interval") {
		cfg.RefreshInterval = flags.Interval
	}
	if changed("history") {
		cfg.HistoryLength = flags.History
	}
	if changed("log") {
		cfg.EnableLogging = flags.Log
	}
	if changed("color") {
		cfg.Color = strings.ToLower(flags.Color)
	}
}

// loadConfig finds and loads the config, applies flag overrides and
// validates the result. The returned path is empty when defaults are used.
func loadConfig(cmd *cobra.Command, flags *RootFlags) (*config.Config, string, error) {
	cfg, path, err := config.LoadOrDefault(flags.ConfigPath)
	if err != nil {
		return nil, "", err
	}

	applyOverrides(cmd, cfg, flags)

	if err := config.Validate(cfg); err != nil {
		return nil, path, err
	}
	return cfg, path, nil
}

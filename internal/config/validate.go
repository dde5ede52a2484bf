package config

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/rileyhilliard/resourcelight/internal/errors"
	"github.com/rileyhilliard/resourcelight/internal/threshold"
)

// Validate checks the config for errors and returns a structured error
// naming the first offending field.
func Validate(cfg *Config) error {
	if cfg == nil {
		return errors.New(errors.ErrConfig,
			"Config is nil",
			"This is unexpected - try reloading the configuration.")
	}

	if !(cfg.RefreshInterval > 0) || math.IsInf(cfg.RefreshInterval, 0) {
		return errors.New(errors.ErrConfig,
			fmt.Sprintf("refresh_interval must be greater than 0 (got %v)", cfg.RefreshInterval),
			"Set refresh_interval to the sampling period in seconds, like 1.0 or 0.5.")
	}

	if cfg.HistoryLength <= 0 {
		return errors.New(errors.ErrConfig,
			fmt.Sprintf("history_length must be greater than 0 (got %d)", cfg.HistoryLength),
			"Set history_length to how many samples each graph should keep, like 60.")
	}

	if err := validateThresholds(cfg.Thresholds); err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig, err.Error(), "Check the 'thresholds' section of your config.")
	}

	if cfg.TopProcesses <= 0 {
		return errors.New(errors.ErrConfig,
			fmt.Sprintf("top_processes must be greater than 0 (got %d)", cfg.TopProcesses),
			"Set top_processes to the number of rows in the process table, like 10.")
	}

	if _, err := threshold.ParseSortKey(cfg.SortBy); err != nil {
		return errors.New(errors.ErrConfig,
			fmt.Sprintf("sort_by '%s' isn't a known sort key", cfg.SortBy),
			"Use 'cpu' or 'memory'.")
	}

	if cfg.FrameInterval != "" {
		if _, err := time.ParseDuration(cfg.FrameInterval); err != nil {
			return errors.New(errors.ErrConfig,
				fmt.Sprintf("frame_interval '%s' doesn't look like a valid duration", cfg.FrameInterval),
				"Try something like '250ms' or '500ms'.")
		}
	}

	switch strings.ToLower(cfg.Color) {
	case ColorAuto, ColorAlways, ColorNever, "":
	default:
		return errors.New(errors.ErrConfig,
			fmt.Sprintf("color '%s' isn't valid", cfg.Color),
			"Use 'auto', 'always' or 'never'.")
	}

	for i, d := range cfg.DisksToMonitor {
		if strings.TrimSpace(d) == "" {
			return errors.New(errors.ErrConfig,
				fmt.Sprintf("disks_to_monitor has an empty entry at position %d", i),
				"Remove it or add a mount point like '/'.")
		}
	}

	return nil
}

// validateThresholds checks each warning/critical pair.
func validateThresholds(t Thresholds) error {
	pairs := []struct {
		name     string
		warning  float64
		critical float64
	}{
		{"cpu", t.CPUWarning, t.CPUCritical},
		{"mem", t.MemWarning, t.MemCritical},
		{"disk", t.DiskWarning, t.DiskCritical},
	}

	for _, p := range pairs {
		if p.warning < 0 || p.warning > 100 || math.IsNaN(p.warning) {
			return fmt.Errorf("thresholds.%s_warning needs to be 0-100 (got %v)", p.name, p.warning)
		}
		if p.critical < 0 || p.critical > 100 || math.IsNaN(p.critical) {
			return fmt.Errorf("thresholds.%s_critical needs to be 0-100 (got %v)", p.name, p.critical)
		}
		if p.warning >= p.critical {
			return fmt.Errorf("thresholds.%s_warning (%v%%) must be lower than %s_critical (%v%%)", p.name, p.warning, p.name, p.critical)
		}
	}
	return nil
}

// RestartRequired lists the settings that differ between old and updated
// but only take effect after a restart. Thresholds, refresh_interval and
// enable_logging are applied live.
func RestartRequired(old, updated *Config) []string {
	var fields []string
	if old.HistoryLength != updated.HistoryLength {
		fields = append(fields, "history_length")
	}
	if !equalStrings(old.DisksToMonitor, updated.DisksToMonitor) {
		fields = append(fields, "disks_to_monitor")
	}
	if !equalStrings(old.NetworkInterfaces, updated.NetworkInterfaces) {
		fields = append(fields, "network_interfaces")
	}
	if old.LogFile != updated.LogFile {
		fields = append(fields, "log_file")
	}
	if old.TopProcesses != updated.TopProcesses {
		fields = append(fields, "top_processes")
	}
	if old.FrameInterval != updated.FrameInterval {
		fields = append(fields, "frame_interval")
	}
	if old.Color != updated.Color {
		fields = append(fields, "color")
	}
	return fields
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

package config

import (
	"time"

	"github.com/rileyhilliard/resourcelight/internal/history"
	"github.com/rileyhilliard/resourcelight/internal/threshold"
)

const (
	// MinFrameInterval and MaxFrameInterval bound the renderer cadence.
	MinFrameInterval = 100 * time.Millisecond
	MaxFrameInterval = time.Second

	defaultFrameInterval = 250 * time.Millisecond
)

// Color modes accepted by the color setting.
const (
	ColorAuto   = "auto"
	ColorAlways = "always"
	ColorNever  = "never"
)

// Config represents the complete resourcelight configuration file.
type Config struct {
	// RefreshInterval is the sampling period in seconds.
	RefreshInterval float64 `yaml:"refresh_interval" mapstructure:"refresh_interval" json:"refresh_interval"`

	// HistoryLength is the number of samples retained per metric.
	HistoryLength int `yaml:"history_length" mapstructure:"history_length" json:"history_length"`

	Thresholds Thresholds `yaml:"thresholds" mapstructure:"thresholds" json:"thresholds"`

	// DisksToMonitor lists mount points to report usage for.
	DisksToMonitor []string `yaml:"disks_to_monitor" mapstructure:"disks_to_monitor" json:"disks_to_monitor"`

	// NetworkInterfaces lists interfaces to report traffic for.
	// Empty means all non-loopback interfaces.
	NetworkInterfaces []string `yaml:"network_interfaces" mapstructure:"network_interfaces" json:"network_interfaces"`

	LogFile       string `yaml:"log_file" mapstructure:"log_file" json:"log_file"`
	EnableLogging bool   `yaml:"enable_logging" mapstructure:"enable_logging" json:"enable_logging"`

	// TopProcesses is how many processes the process table shows.
	TopProcesses int `yaml:"top_processes" mapstructure:"top_processes" json:"top_processes"`

	// SortBy is the initial process sort key: "cpu" or "memory".
	SortBy string `yaml:"sort_by" mapstructure:"sort_by" json:"sort_by"`

	// FrameInterval is the redraw cadence as a duration string (e.g. "250ms").
	FrameInterval string `yaml:"frame_interval" mapstructure:"frame_interval" json:"frame_interval"`

	// Color is "auto", "always" or "never".
	Color string `yaml:"color" mapstructure:"color" json:"color"`
}

// Thresholds holds warning/critical percentages per metric category.
type Thresholds struct {
	CPUWarning   float64 `yaml:"cpu_warning" mapstructure:"cpu_warning" json:"cpu_warning"`
	CPUCritical  float64 `yaml:"cpu_critical" mapstructure:"cpu_critical" json:"cpu_critical"`
	MemWarning   float64 `yaml:"mem_warning" mapstructure:"mem_warning" json:"mem_warning"`
	MemCritical  float64 `yaml:"mem_critical" mapstructure:"mem_critical" json:"mem_critical"`
	DiskWarning  float64 `yaml:"disk_warning" mapstructure:"disk_warning" json:"disk_warning"`
	DiskCritical float64 `yaml:"disk_critical" mapstructure:"disk_critical" json:"disk_critical"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		RefreshInterval: 1.0,
		HistoryLength:   history.DefaultCapacity,
		Thresholds: Thresholds{
			CPUWarning:   70,
			CPUCritical:  90,
			MemWarning:   75,
			MemCritical:  90,
			DiskWarning:  80,
			DiskCritical: 95,
		},
		DisksToMonitor:    []string{"/"},
		NetworkInterfaces: []string{"eth0", "wlan0"},
		LogFile:           "~/.resource_light.log",
		EnableLogging:     false,
		TopProcesses:      10,
		SortBy:            "cpu",
		FrameInterval:     defaultFrameInterval.String(),
		Color:             ColorAuto,
	}
}

// Interval returns the sampling period as a duration.
func (c *Config) Interval() time.Duration {
	return time.Duration(c.RefreshInterval * float64(time.Second))
}

// FrameDuration parses FrameInterval and clamps it to the supported range.
// An unparseable value falls back to the default cadence.
func (c *Config) FrameDuration() time.Duration {
	d, err := time.ParseDuration(c.FrameInterval)
	if err != nil || d <= 0 {
		return defaultFrameInterval
	}
	if d < MinFrameInterval {
		return MinFrameInterval
	}
	if d > MaxFrameInterval {
		return MaxFrameInterval
	}
	return d
}

// ThresholdSet converts the configured percentages into evaluator levels.
func (c *Config) ThresholdSet() threshold.Set {
	t := c.Thresholds
	return threshold.Set{
		CPU:    threshold.Level{Warning: t.CPUWarning, Critical: t.CPUCritical},
		Memory: threshold.Level{Warning: t.MemWarning, Critical: t.MemCritical},
		Disk:   threshold.Level{Warning: t.DiskWarning, Critical: t.DiskCritical},
	}
}

// SortKey returns the parsed initial sort key, defaulting to CPU.
func (c *Config) SortKey() threshold.SortKey {
	k, err := threshold.ParseSortKey(c.SortBy)
	if err != nil {
		return threshold.SortByCPU
	}
	return k
}

// Clone returns a deep copy of the config.
func (c *Config) Clone() *Config {
	out := *c
	out.DisksToMonitor = append([]string(nil), c.DisksToMonitor...)
	out.NetworkInterfaces = append([]string(nil), c.NetworkInterfaces...)
	return &out
}

package config

import (
	"math"
	"testing"

	"github.com/rileyhilliard/resourcelight/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:   "defaults are valid",
			mutate: func(*Config) {},
		},
		{
			name:    "zero refresh interval",
			mutate:  func(c *Config) { c.RefreshInterval = 0 },
			wantErr: "refresh_interval",
		},
		{
			name:    "negative refresh interval",
			mutate:  func(c *Config) { c.RefreshInterval = -1 },
			wantErr: "refresh_interval",
		},
		{
			name:    "NaN refresh interval",
			mutate:  func(c *Config) { c.RefreshInterval = math.NaN() },
			wantErr: "refresh_interval",
		},
		{
			name:    "zero history length",
			mutate:  func(c *Config) { c.HistoryLength = 0 },
			wantErr: "history_length",
		},
		{
			name:    "cpu warning equals critical",
			mutate:  func(c *Config) { c.Thresholds.CPUWarning = 90 },
			wantErr: "thresholds.cpu_warning",
		},
		{
			name:    "mem warning above critical",
			mutate:  func(c *Config) { c.Thresholds.MemWarning = 95 },
			wantErr: "thresholds.mem_warning",
		},
		{
			name:    "disk critical above 100",
			mutate:  func(c *Config) { c.Thresholds.DiskCritical = 120 },
			wantErr: "thresholds.disk_critical",
		},
		{
			name:    "negative warning",
			mutate:  func(c *Config) { c.Thresholds.CPUWarning = -5 },
			wantErr: "thresholds.cpu_warning",
		},
		{
			name:    "zero top processes",
			mutate:  func(c *Config) { c.TopProcesses = 0 },
			wantErr: "top_processes",
		},
		{
			name:    "unknown sort key",
			mutate:  func(c *Config) { c.SortBy = "pid" },
			wantErr: "sort_by",
		},
		{
			name:    "bad frame interval",
			mutate:  func(c *Config) { c.FrameInterval = "fast" },
			wantErr: "frame_interval",
		},
		{
			name:    "bad color",
			mutate:  func(c *Config) { c.Color = "rainbow" },
			wantErr: "color",
		},
		{
			name:   "color is case insensitive",
			mutate: func(c *Config) { c.Color = "NEVER" },
		},
		{
			name:    "empty disk entry",
			mutate:  func(c *Config) { c.DisksToMonitor = []string{"/", " "} },
			wantErr: "disks_to_monitor",
		},
		{
			name:   "no interfaces means all",
			mutate: func(c *Config) { c.NetworkInterfaces = nil },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)

			err := Validate(cfg)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.True(t, errors.IsCode(err, errors.ErrConfig))
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestValidate_Nil(t *testing.T) {
	err := Validate(nil)
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrConfig))
}

func TestRestartRequired(t *testing.T) {
	old := DefaultConfig()

	t.Run("hot settings only", func(t *testing.T) {
		updated := old.Clone()
		updated.Thresholds.CPUWarning = 50
		updated.RefreshInterval = 2
		updated.EnableLogging = true
		assert.Empty(t, RestartRequired(old, updated))
	})

	t.Run("cold settings", func(t *testing.T) {
		updated := old.Clone()
		updated.HistoryLength = 10
		updated.DisksToMonitor = []string{"/", "/data"}
		updated.Color = "never"
		assert.Equal(t, []string{"history_length", "disks_to_monitor", "color"}, RestartRequired(old, updated))
	})
}

package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rileyhilliard/resourcelight/internal/config"
	"github.com/rileyhilliard/resourcelight/internal/errors"
	"github.com/rileyhilliard/resourcelight/internal/ui"
)

func TestInit_WritesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	var out bytes.Buffer
	require.NoError(t, Init(InitOptions{Path: path, NonInteractive: true}, &out))
	assert.Contains(t, out.String(), "Created "+path)

	cfg, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, config.DefaultConfig().ThresholdSet(), cfg.ThresholdSet())
	assert.Equal(t, 60, cfg.HistoryLength)
}

func TestInit_ExistingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("history_length: 5\n"), 0o644))

	err := Init(InitOptions{Path: path, NonInteractive: true}, &bytes.Buffer{})
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrConfig))
	assert.Contains(t, err.Error(), "--force")

	data, _ := os.ReadFile(path)
	assert.Equal(t, "history_length: 5\n", string(data), "file is untouched")

	require.NoError(t, Init(InitOptions{Path: path, NonInteractive: true, Overwrite: true}, &bytes.Buffer{}))
	cfg, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, 60, cfg.HistoryLength)
}

func TestInitValues_RoundTrip(t *testing.T) {
	cfg := config.DefaultConfig()
	values := newInitValues(cfg)

	assert.Equal(t, "1", values.Interval)
	assert.Equal(t, "60", values.History)
	assert.Equal(t, "70", values.CPUWarning)
	assert.Equal(t, "/", values.Disks)

	values.Interval = "0.5"
	values.History = "120"
	values.DiskWarning = "85.5"
	values.Disks = " /, /home ,, "

	out := config.DefaultConfig()
	require.NoError(t, values.apply(out))
	assert.Equal(t, 0.5, out.RefreshInterval)
	assert.Equal(t, 120, out.HistoryLength)
	assert.Equal(t, 85.5, out.Thresholds.DiskWarning)
	assert.Equal(t, 95.0, out.Thresholds.DiskCritical)
	assert.Equal(t, []string{"/", "/home"}, out.DisksToMonitor)
}

func TestInitValues_BadNumber(t *testing.T) {
	values := newInitValues(config.DefaultConfig())
	values.MemCritical = "lots"

	err := values.apply(config.DefaultConfig())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "mem_critical")
}

func TestFormValidators(t *testing.T) {
	tests := []struct {
		name    string
		fn      func(string) error
		input   string
		wantErr bool
	}{
		{"positive float", validatePositiveFloat, "0.5", false},
		{"zero float", validatePositiveFloat, "0", true},
		{"text float", validatePositiveFloat, "fast", true},
		{"positive int", validatePositiveInt, "60", false},
		{"fraction int", validatePositiveInt, "1.5", true},
		{"negative int", validatePositiveInt, "-1", true},
		{"percent", validatePercent, "70", false},
		{"percent bounds", validatePercent, "100", false},
		{"percent over", validatePercent, "101", true},
		{"percent negative", validatePercent, "-1", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.fn(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestSplitList(t *testing.T) {
	assert.Equal(t, []string{"a", "b"}, splitList("a, b"))
	assert.Nil(t, splitList(" , "))
}

func TestShowConfig(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, showConfig(&out, config.DefaultConfig(), ""))

	s := out.String()
	assert.Contains(t, s, "resourcelight")
	assert.Contains(t, s, "source: defaults")
	assert.Contains(t, s, "sampling every 1s, trends cover 1m0s")
	assert.Contains(t, s, "refresh_interval: 1")
	assert.Contains(t, s, "cpu_warning: 70")
	assert.Contains(t, s, "METRIC")
	assert.Contains(t, s, "95%")

	out.Reset()
	require.NoError(t, showConfig(&out, config.DefaultConfig(), "/etc/rl.yaml"))
	assert.Contains(t, out.String(), "source: /etc/rl.yaml")
}

func TestValidateChecks(t *testing.T) {
	dir := t.TempDir()

	t.Run("load error", func(t *testing.T) {
		rows := validateChecks(nil, "", errors.New(errors.ErrConfig, "Failed to read config file", ""))
		require.Len(t, rows, 1)
		assert.Equal(t, ui.CheckFail, rows[0].Status)
		assert.Equal(t, "Failed to read config file", rows[0].Message)
		assert.True(t, ui.HasFailure(rows))
	})

	t.Run("defaults with missing disk", func(t *testing.T) {
		cfg := config.DefaultConfig()
		cfg.DisksToMonitor = []string{dir, filepath.Join(dir, "missing")}

		rows := validateChecks(cfg, "", nil)
		assert.False(t, ui.HasFailure(rows))

		statuses := map[string]string{}
		for _, r := range rows {
			statuses[r.Message] = r.Status
		}
		assert.Equal(t, ui.CheckWarn, statuses["No config file found, using defaults"])
		assert.Equal(t, ui.CheckPass, statuses["Settings are valid"])
		assert.Equal(t, ui.CheckPass, statuses[dir])
		assert.Equal(t, ui.CheckWarn, statuses[filepath.Join(dir, "missing")+" is not accessible, it will be left out"])
	})

	t.Run("invalid settings", func(t *testing.T) {
		cfg := config.DefaultConfig()
		cfg.DisksToMonitor = []string{dir}
		cfg.Thresholds.CPUWarning = 95

		rows := validateChecks(cfg, "/x/config.yaml", nil)
		assert.True(t, ui.HasFailure(rows))
		assert.Equal(t, "Loaded /x/config.yaml", rows[0].Message)
		assert.Equal(t, ui.CheckFail, rows[1].Status)
		assert.Contains(t, rows[1].Message, "cpu_warning")
		assert.NotEmpty(t, rows[1].Suggestion)
	})

	t.Run("logging directory", func(t *testing.T) {
		cfg := config.DefaultConfig()
		cfg.DisksToMonitor = []string{dir}
		cfg.EnableLogging = true
		cfg.LogFile = filepath.Join(dir, "nope", "rl.log")

		rows := validateChecks(cfg, "", nil)
		last := rows[len(rows)-1]
		assert.Equal(t, "Logging", last.Category)
		assert.Equal(t, ui.CheckWarn, last.Status)

		cfg.LogFile = filepath.Join(dir, "rl.log")
		rows = validateChecks(cfg, "", nil)
		assert.Equal(t, ui.CheckPass, rows[len(rows)-1].Status)
	})
}

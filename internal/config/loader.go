package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"
	"github.com/rileyhilliard/resourcelight/internal/errors"
	"github.com/spf13/viper"
)

const (
	// ConfigFileName is the project-local config file name.
	ConfigFileName = ".resourcelight.yaml"
	// LegacyConfigFile is the JSON config in the home directory.
	LegacyConfigFile = ".resource_light.json"
	// GlobalConfigDir is the directory for global config.
	GlobalConfigDir = ".config/resourcelight"
	// GlobalConfigFile is the global config file name.
	GlobalConfigFile = "config.yaml"
	// EnvPrefix prefixes environment overrides, e.g. RESOURCELIGHT_HISTORY_LENGTH.
	EnvPrefix = "RESOURCELIGHT"
)

// Load reads config from the specified path. YAML and JSON are both
// accepted; files without an extension are read as YAML.
func Load(path string) (*Config, error) {
	v := newViper(path)

	if err := v.ReadInConfig(); err != nil {
		if os.IsNotExist(err) {
			return nil, errors.WrapWithCode(err, errors.ErrConfig,
				"Config file not found",
				"Run 'resourcelight config init' to create a config file, or specify one with --config")
		}
		return nil, errors.WrapWithCode(err, errors.ErrConfig,
			"Failed to read config file",
			"Check the file exists and is valid YAML or JSON")
	}

	return parseConfig(v, path)
}

// Find locates the config file using the search order:
// 1. Explicit path (from --config flag)
// 2. .resourcelight.yaml in current directory
// 3. ~/.resource_light.json
// 4. ~/.config/resourcelight/config.yaml (global defaults)
//
// Returns the path to the config file, or empty string if not found.
func Find(explicit string) (string, error) {
	if explicit != "" {
		explicit = ExpandTilde(explicit)
		if _, err := os.Stat(explicit); err != nil {
			if os.IsNotExist(err) {
				return "", errors.WrapWithCode(err, errors.ErrConfig,
					"Specified config file not found: "+explicit,
					"Check the path is correct")
			}
			return "", errors.WrapWithCode(err, errors.ErrConfig,
				"Cannot access config file: "+explicit,
				"Check file permissions")
		}
		return explicit, nil
	}

	cwd, err := os.Getwd()
	if err != nil {
		return "", errors.WrapWithCode(err, errors.ErrConfig,
			"Cannot determine current directory",
			"Check directory permissions")
	}

	candidates := []string{filepath.Join(cwd, ConfigFileName)}
	if home, err := os.UserHomeDir(); err == nil && home != "" {
		candidates = append(candidates,
			filepath.Join(home, LegacyConfigFile),
			filepath.Join(home, GlobalConfigDir, GlobalConfigFile),
		)
	}

	for _, p := range candidates {
		if _, err := os.Stat(p); err == nil {
			return p, nil
		}
	}

	return "", nil
}

// DefaultPath is where 'config init' writes when no path is given.
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return ConfigFileName
	}
	return filepath.Join(home, GlobalConfigDir, GlobalConfigFile)
}

// LoadOrDefault loads config from the found path, or returns defaults if
// nothing was found. The returned path is empty when defaults are used.
func LoadOrDefault(explicit string) (*Config, string, error) {
	path, err := Find(explicit)
	if err != nil {
		return nil, "", err
	}

	if path == "" {
		return DefaultConfig(), "", nil
	}

	cfg, err := Load(path)
	if err != nil {
		return nil, "", err
	}
	return cfg, path, nil
}

// Watch calls onChange with a freshly loaded and validated config every
// time the file at path is written or recreated. It returns once the
// watch is established; the watch lives for the rest of the process.
func Watch(path string, onChange func(*Config, error)) error {
	v := newViper(path)
	if err := v.ReadInConfig(); err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig,
			"Can't watch config file: "+path,
			"Check the file exists and is readable")
	}

	v.OnConfigChange(func(e fsnotify.Event) {
		if !e.Has(fsnotify.Write) && !e.Has(fsnotify.Create) {
			return
		}
		cfg, err := Load(path)
		if err == nil {
			err = Validate(cfg)
		}
		onChange(cfg, err)
	})
	v.WatchConfig()
	return nil
}

func newViper(path string) *viper.Viper {
	v := viper.New()
	v.SetConfigFile(path)
	if filepath.Ext(path) == "" {
		v.SetConfigType("yaml")
	}
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)
	return v
}

// parseConfig converts viper config to our Config struct with defaults merged in.
func parseConfig(v *viper.Viper, path string) (*Config, error) {
	cfg := DefaultConfig()

	if err := v.Unmarshal(cfg); err != nil {
		return nil, errors.WrapWithCode(err, errors.ErrConfig,
			"Invalid config format",
			"Check the syntax in "+path)
	}

	cfg.LogFile = ExpandTilde(cfg.LogFile)
	for i, d := range cfg.DisksToMonitor {
		cfg.DisksToMonitor[i] = ExpandTilde(d)
	}

	return cfg, nil
}

// setDefaults registers every key so environment overrides and partial
// files resolve against the same defaults as DefaultConfig.
func setDefaults(v *viper.Viper) {
	d := DefaultConfig()
	v.SetDefault("refresh_interval", d.RefreshInterval)
	v.SetDefault("history_length", d.HistoryLength)
	v.SetDefault("thresholds.cpu_warning", d.Thresholds.CPUWarning)
	v.SetDefault("thresholds.cpu_critical", d.Thresholds.CPUCritical)
	v.SetDefault("thresholds.mem_warning", d.Thresholds.MemWarning)
	v.SetDefault("thresholds.mem_critical", d.Thresholds.MemCritical)
	v.SetDefault("thresholds.disk_warning", d.Thresholds.DiskWarning)
	v.SetDefault("thresholds.disk_critical", d.Thresholds.DiskCritical)
	v.SetDefault("disks_to_monitor", d.DisksToMonitor)
	v.SetDefault("network_interfaces", d.NetworkInterfaces)
	v.SetDefault("log_file", d.LogFile)
	v.SetDefault("enable_logging", d.EnableLogging)
	v.SetDefault("top_processes", d.TopProcesses)
	v.SetDefault("sort_by", d.SortBy)
	v.SetDefault("frame_interval", d.FrameInterval)
	v.SetDefault("color", d.Color)
}

// ExpandTilde replaces ~ or ~/path with the user's home directory.
// Does not support ~username syntax - just ~ for the current user.
func ExpandTilde(path string) string {
	if path == "" {
		return path
	}

	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, path[2:])
	}

	if path == "~" {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return home
	}

	return path
}

package cli

import (
	stderrors "errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/rileyhilliard/resourcelight/internal/config"
	"github.com/rileyhilliard/resourcelight/internal/errors"
	"github.com/rileyhilliard/resourcelight/internal/ui"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var (
	initForce    bool
	initDefaults bool
)

// configCmd groups the config file commands.
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Create, inspect and check the config file",
}

// configInitCmd writes a new config file.
var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Create a config file",
	Long: `Create a resourcelight config file.

On a terminal you are asked for the refresh interval, history length,
thresholds and disks to watch. With --defaults, or when stdin is not a
terminal, the defaults are written as-is.

The file goes to --config when given, otherwise to
~/.config/resourcelight/config.yaml.

Examples:
  resourcelight config init
  resourcelight config init --defaults
  resourcelight config init --config ./.resourcelight.yaml --force`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		path := rootFlags.ConfigPath
		if path == "" {
			path = config.DefaultPath()
		}
		return Init(InitOptions{
			Path:           config.ExpandTilde(path),
			Overwrite:      initForce,
			NonInteractive: initDefaults || !term.IsTerminal(int(os.Stdin.Fd())),
		}, cmd.OutOrStdout())
	},
}

// configShowCmd prints the effective config.
var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective config",
	Long: `Print the config resourcelight would run with, after defaults,
environment variables (RESOURCELIGHT_*) and flags are applied.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, path, err := loadConfig(cmd, &rootFlags)
		if err != nil {
			return err
		}
		return showConfig(cmd.OutOrStdout(), cfg, path)
	},
}

// configValidateCmd checks the config file.
var configValidateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check the config file for problems",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, path, err := config.LoadOrDefault(rootFlags.ConfigPath)
		if err == nil {
			applyOverrides(cmd, cfg, &rootFlags)
		}

		rows := validateChecks(cfg, path, err)
		fmt.Fprint(cmd.OutOrStdout(), ui.RenderChecks(rows))
		if ui.HasFailure(rows) {
			return errors.NewExitError(1)
		}
		return nil
	},
}

func init() {
	configInitCmd.Flags().BoolVarP(&initForce, "force", "f", false, "overwrite an existing config file")
	configInitCmd.Flags().BoolVar(&initDefaults, "defaults", false, "write the defaults without prompting")

	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configValidateCmd)
	rootCmd.AddCommand(configCmd)
}

// InitOptions holds options for config init.
type InitOptions struct {
	Path           string
	Overwrite      bool // Overwrite an existing file without asking
	NonInteractive bool // Skip prompts, write defaults
}

// Init creates a config file at opts.Path.
func Init(opts InitOptions, out io.Writer) error {
	if _, err := os.Stat(opts.Path); err == nil && !opts.Overwrite {
		if opts.NonInteractive {
			return errors.New(errors.ErrConfig,
				fmt.Sprintf("Config file already exists: %s", opts.Path),
				"Use --force to overwrite")
		}

		var overwrite bool
		form := huh.NewForm(
			huh.NewGroup(
				huh.NewConfirm().
					Title(fmt.Sprintf("'%s' already exists. Overwrite?", opts.Path)).
					Value(&overwrite),
			),
		)
		if err := form.Run(); err != nil {
			return errors.WrapWithCode(err, errors.ErrConfig,
				"Failed to get user input",
				"Try running with --force to overwrite")
		}
		if !overwrite {
			fmt.Fprintln(out, "Cancelled.")
			return nil
		}
	}

	cfg := config.DefaultConfig()
	if !opts.NonInteractive {
		values := newInitValues(cfg)
		if err := initForm(values).Run(); err != nil {
			return errors.WrapWithCode(err, errors.ErrConfig,
				"Failed to get user input",
				"Check terminal compatibility or use --defaults")
		}
		if err := values.apply(cfg); err != nil {
			return err
		}
	}

	if err := config.Validate(cfg); err != nil {
		return err
	}

	if err := config.Save(opts.Path, cfg); err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig,
			"Failed to write config",
			"Check you have write permission for "+filepath.Dir(opts.Path))
	}

	fmt.Fprintln(out, ui.Success("Created "+opts.Path))
	fmt.Fprintln(out, ui.Muted("Run 'resourcelight config validate' to check it, or just run 'resourcelight'."))
	return nil
}

// initValues holds the form fields as text so huh can edit them.
type initValues struct {
	Interval string
	History  string

	CPUWarning, CPUCritical   string
	MemWarning, MemCritical   string
	DiskWarning, DiskCritical string

	Disks string // comma-separated mount points
}

func newInitValues(cfg *config.Config) *initValues {
	num := func(v float64) string { return strconv.FormatFloat(v, 'f', -1, 64) }
	t := cfg.Thresholds
	return &initValues{
		Interval:     num(cfg.RefreshInterval),
		History:      strconv.Itoa(cfg.HistoryLength),
		CPUWarning:   num(t.CPUWarning),
		CPUCritical:  num(t.CPUCritical),
		MemWarning:   num(t.MemWarning),
		MemCritical:  num(t.MemCritical),
		DiskWarning:  num(t.DiskWarning),
		DiskCritical: num(t.DiskCritical),
		Disks:        strings.Join(cfg.DisksToMonitor, ", "),
	}
}

func initForm(v *initValues) *huh.Form {
	percent := func(title string, value *string) huh.Field {
		return huh.NewInput().Title(title).Value(value).Validate(validatePercent)
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Refresh interval (seconds)").
				Description("How often to sample, like 1 or 0.5").
				Value(&v.Interval).
				Validate(validatePositiveFloat),
			huh.NewInput().
				Title("History length").
				Description("Samples kept for the trend graphs").
				Value(&v.History).
				Validate(validatePositiveInt),
		),
		huh.NewGroup(
			percent("CPU warning %", &v.CPUWarning),
			percent("CPU critical %", &v.CPUCritical),
			percent("Memory warning %", &v.MemWarning),
			percent("Memory critical %", &v.MemCritical),
			percent("Disk warning %", &v.DiskWarning),
			percent("Disk critical %", &v.DiskCritical),
		).Title("Thresholds"),
		huh.NewGroup(
			huh.NewInput().
				Title("Disks to monitor").
				Description("Comma-separated mount points").
				Placeholder("/, /home").
				Value(&v.Disks).
				Validate(func(s string) error {
					if len(splitList(s)) == 0 {
						return fmt.Errorf("at least one mount point is required")
					}
					return nil
				}),
		),
	)
}

// apply parses the form values into cfg.
func (v *initValues) apply(cfg *config.Config) error {
	var err error
	parse := func(field, s string) float64 {
		if err != nil {
			return 0
		}
		f, perr := strconv.ParseFloat(strings.TrimSpace(s), 64)
		if perr != nil {
			err = errors.WrapWithCode(perr, errors.ErrConfig,
				fmt.Sprintf("%s '%s' isn't a number", field, s),
				"Run 'resourcelight config init' again.")
		}
		return f
	}

	cfg.RefreshInterval = parse("refresh_interval", v.Interval)
	history := parse("history_length", v.History)
	cfg.HistoryLength = int(history)
	cfg.Thresholds = config.Thresholds{
		CPUWarning:   parse("cpu_warning", v.CPUWarning),
		CPUCritical:  parse("cpu_critical", v.CPUCritical),
		MemWarning:   parse("mem_warning", v.MemWarning),
		MemCritical:  parse("mem_critical", v.MemCritical),
		DiskWarning:  parse("disk_warning", v.DiskWarning),
		DiskCritical: parse("disk_critical", v.DiskCritical),
	}
	if disks := splitList(v.Disks); len(disks) > 0 {
		cfg.DisksToMonitor = disks
	}
	return err
}

func validatePositiveFloat(s string) error {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || f <= 0 {
		return fmt.Errorf("enter a number greater than 0")
	}
	return nil
}

func validatePositiveInt(s string) error {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n <= 0 {
		return fmt.Errorf("enter a whole number greater than 0")
	}
	return nil
}

func validatePercent(s string) error {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || f < 0 || f > 100 {
		return fmt.Errorf("enter a percentage from 0 to 100")
	}
	return nil
}

// splitList splits a comma-separated list, dropping empty entries.
func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// showConfig writes the effective config as YAML followed by a threshold table.
func showConfig(out io.Writer, cfg *config.Config, path string) error {
	data, err := config.Marshal(cfg)
	if err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig, "Failed to render config", "")
	}

	fmt.Fprint(out, ui.RenderConfigBanner(ui.ConfigBanner{
		Version:  formatVersion(version),
		Source:   path,
		Interval: cfg.Interval(),
		History:  cfg.HistoryLength,
	}))
	fmt.Fprint(out, string(data))
	fmt.Fprintln(out)
	fmt.Fprintln(out, ui.RenderThresholdTable(cfg.ThresholdSet()))
	return nil
}

// validateChecks builds the `config validate` report. cfg may be nil when
// loadErr is set.
func validateChecks(cfg *config.Config, path string, loadErr error) []ui.CheckRow {
	const (
		catConfig  = "Config"
		catDisks   = "Disks"
		catLogging = "Logging"
	)

	if loadErr != nil {
		return []ui.CheckRow{{
			Status:     ui.CheckFail,
			Category:   catConfig,
			Message:    firstLine(loadErr),
			Suggestion: "Check the file exists and is valid YAML or JSON.",
		}}
	}

	var rows []ui.CheckRow
	if path == "" {
		rows = append(rows, ui.CheckRow{
			Status:     ui.CheckWarn,
			Category:   catConfig,
			Message:    "No config file found, using defaults",
			Suggestion: "Run 'resourcelight config init' to create one.",
		})
	} else {
		rows = append(rows, ui.CheckRow{Status: ui.CheckPass, Category: catConfig, Message: "Loaded " + path})
	}

	if err := config.Validate(cfg); err != nil {
		row := ui.CheckRow{Status: ui.CheckFail, Category: catConfig, Message: firstLine(err)}
		var cfgErr *errors.Error
		if stderrors.As(err, &cfgErr) {
			row.Suggestion = cfgErr.Suggestion
		}
		rows = append(rows, row)
	} else {
		rows = append(rows, ui.CheckRow{Status: ui.CheckPass, Category: catConfig, Message: "Settings are valid"})
	}

	for _, d := range cfg.DisksToMonitor {
		if _, err := os.Stat(d); err != nil {
			rows = append(rows, ui.CheckRow{
				Status:     ui.CheckWarn,
				Category:   catDisks,
				Message:    fmt.Sprintf("%s is not accessible, it will be left out", d),
				Suggestion: "Check the mount point in disks_to_monitor.",
			})
			continue
		}
		rows = append(rows, ui.CheckRow{Status: ui.CheckPass, Category: catDisks, Message: d})
	}

	if cfg.EnableLogging {
		dir := filepath.Dir(config.ExpandTilde(cfg.LogFile))
		if info, err := os.Stat(dir); err != nil || !info.IsDir() {
			rows = append(rows, ui.CheckRow{
				Status:     ui.CheckWarn,
				Category:   catLogging,
				Message:    "Log directory " + dir + " does not exist",
				Suggestion: "Create it or point log_file somewhere else.",
			})
		} else {
			rows = append(rows, ui.CheckRow{Status: ui.CheckPass, Category: catLogging, Message: "Logging to " + cfg.LogFile})
		}
	}

	return rows
}

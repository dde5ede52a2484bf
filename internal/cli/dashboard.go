package cli

import (
	"context"
	stderrors "errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rileyhilliard/resourcelight/internal/config"
	"github.com/rileyhilliard/resourcelight/internal/errors"
	"github.com/rileyhilliard/resourcelight/internal/logger"
	"github.com/rileyhilliard/resourcelight/internal/monitor"
	"github.com/rileyhilliard/resourcelight/internal/scheduler"
	"github.com/rileyhilliard/resourcelight/internal/source"
	"github.com/rileyhilliard/resourcelight/internal/ui"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// runDashboard loads config, starts the sampling loop and runs either the
// interactive dashboard or headless output until the user quits or a
// signal arrives.
func runDashboard(cmd *cobra.Command, flags *RootFlags) error {
	cfg, path, err := loadConfig(cmd, flags)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	logs := newLogSwitch(cfg, flags.Debug)
	defer logs.Close()

	sched, err := newScheduler(cfg, logs)
	if err != nil {
		return err
	}

	runErr := make(chan error, 1)
	go func() { runErr <- sched.Run(ctx) }()

	rl := newReloader(cfg, path, sched, logs)
	if path != "" {
		if err := config.Watch(path, rl.onChange); err != nil {
			logs.Warn("not watching %s: %v", path, err)
		}
	}

	if flags.NoUI || !term.IsTerminal(int(os.Stdout.Fd())) {
		err = runHeadless(ctx, sched, cmd.OutOrStdout())
	} else {
		err = runInteractive(ctx, cancel, cfg, sched, rl)
	}

	cancel()
	if schedErr := <-runErr; err == nil {
		err = schedErr
	}
	if err := logs.Err(); err != nil {
		fmt.Fprintln(os.Stderr, ui.Warning("Logging was enabled but the log file couldn't be opened: "+firstLine(err)))
	}
	return err
}

// runInteractive runs the Bubble Tea dashboard on the alternate screen.
func runInteractive(ctx context.Context, cancel context.CancelFunc, cfg *config.Config, sched *scheduler.Scheduler, rl *reloader) error {
	mono := ui.SetupColor(cfg.Color, os.Stdout)

	model := monitor.NewModel(sched, monitor.Options{
		FrameInterval: cfg.FrameDuration(),
		Mono:          mono,
		Cancel:        cancel,
		Reload:        rl.reload,
	})

	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		// Cancellation by signal or by the scheduler stopping is a normal exit.
		if stderrors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
			return nil
		}
		return errors.WrapWithCode(err, errors.ErrRender,
			"The dashboard stopped unexpectedly",
			"Try --no-ui, or check that your terminal supports the alternate screen.")
	}
	return nil
}

// newLogSwitch wraps the file logger in a switch so logging can be toggled
// at runtime. The file is only opened once logging is first enabled.
func newLogSwitch(cfg *config.Config, debug bool) *logger.Switch {
	path := cfg.LogFile
	return logger.NewSwitch(func() (logger.Logger, error) {
		l, err := logger.NewFileLogger(path, debug)
		if err != nil {
			return nil, err
		}
		return l, nil
	}, cfg.EnableLogging)
}

// newScheduler builds the gopsutil source and the sampling loop from cfg.
func newScheduler(cfg *config.Config, logs *logger.Switch) (*scheduler.Scheduler, error) {
	src := source.NewSystem(source.Options{
		Disks:      cfg.DisksToMonitor,
		Interfaces: cfg.NetworkInterfaces,
		Logger:     logs,
	})

	return scheduler.New(scheduler.Options{
		Source:        src,
		Interval:      cfg.Interval(),
		HistoryLength: cfg.HistoryLength,
		Thresholds:    cfg.ThresholdSet(),
		TopProcesses:  cfg.TopProcesses,
		SortKey:       cfg.SortKey(),
		Logger:        logs,
		Logging:       logs,
	})
}

// firstLine returns the first non-empty line of err without the ✗ marker.
func firstLine(err error) string {
	for _, line := range strings.Split(err.Error(), "\n") {
		line = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(line), "✗"))
		if line != "" {
			return line
		}
	}
	return ""
}

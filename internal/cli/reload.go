package cli

import (
	"strings"
	"sync"

	"github.com/rileyhilliard/resourcelight/internal/config"
	"github.com/rileyhilliard/resourcelight/internal/errors"
	"github.com/rileyhilliard/resourcelight/internal/logger"
	"github.com/rileyhilliard/resourcelight/internal/scheduler"
)

// commandSink is the part of the scheduler a reload drives.
type commandSink interface {
	Send(cmd scheduler.Command) bool
}

// reloader applies config file changes to a running scheduler. Thresholds,
// refresh_interval and enable_logging take effect live; every other change
// is logged and waits for a restart.
type reloader struct {
	mu      sync.Mutex
	path    string
	running *config.Config
	sched   commandSink
	log     logger.Logger
}

func newReloader(cfg *config.Config, path string, sched commandSink, log logger.Logger) *reloader {
	return &reloader{
		path:    path,
		running: cfg.Clone(),
		sched:   sched,
		log:     log,
	}
}

// reload re-reads the config file. It backs the dashboard's reload key.
func (r *reloader) reload() error {
	if r.path == "" {
		return errors.New(errors.ErrConfig,
			"No config file to reload",
			"Create one with 'resourcelight config init'.")
	}

	cfg, err := config.Load(r.path)
	if err == nil {
		err = config.Validate(cfg)
	}
	return r.apply(cfg, err)
}

// onChange is the config.Watch callback.
func (r *reloader) onChange(cfg *config.Config, err error) {
	// apply already logged any failure; there is no caller to return it to.
	_ = r.apply(cfg, err)
}

// apply pushes the hot settings of cfg to the scheduler. A load or
// validation error leaves the running settings untouched.
func (r *reloader) apply(cfg *config.Config, loadErr error) error {
	if loadErr != nil {
		r.log.Error("config reload failed: %s", firstLine(loadErr))
		return loadErr
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if fields := config.RestartRequired(r.running, cfg); len(fields) > 0 {
		r.log.Warn("config changes need a restart to apply: %s", strings.Join(fields, ", "))
	}

	var dropped []string
	send := func(cmd scheduler.Command) bool {
		if r.sched.Send(cmd) {
			return true
		}
		dropped = append(dropped, cmd.Kind.String())
		return false
	}

	// Running values only advance once the scheduler accepted them, so a
	// retry resends whatever was dropped.
	if set := cfg.ThresholdSet(); set != r.running.ThresholdSet() && send(scheduler.SetThresholds(set)) {
		r.running.Thresholds = cfg.Thresholds
	}
	if cfg.Interval() != r.running.Interval() && send(scheduler.SetInterval(cfg.Interval())) {
		r.running.RefreshInterval = cfg.RefreshInterval
	}
	if cfg.EnableLogging != r.running.EnableLogging && send(scheduler.SetLogging(cfg.EnableLogging)) {
		r.running.EnableLogging = cfg.EnableLogging
	}

	if len(dropped) > 0 {
		r.log.Warn("config reload incomplete, dropped: %s", strings.Join(dropped, ", "))
		return errors.New(errors.ErrScheduler,
			"Some settings couldn't be applied: "+strings.Join(dropped, ", "),
			"The sampler is busy. Press r to reload again.")
	}

	r.log.Info("config reloaded from %s", r.path)
	return nil
}

// Package scheduler runs the sampling loop that feeds the dashboard.
//
// A single goroutine (Run) owns the metric source, the history store and
// the process ranking. After each tick it publishes an immutable *State
// through an atomic pointer, so readers never block the loop and never
// observe a half-built state. Control commands arrive on a buffered
// channel and are applied between ticks.
package scheduler

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/rileyhilliard/resourcelight/internal/errors"
	"github.com/rileyhilliard/resourcelight/internal/history"
	"github.com/rileyhilliard/resourcelight/internal/logger"
	"github.com/rileyhilliard/resourcelight/internal/sample"
	"github.com/rileyhilliard/resourcelight/internal/source"
	"github.com/rileyhilliard/resourcelight/internal/threshold"
)

const (
	// DefaultTopProcesses is the process table length when none is configured.
	DefaultTopProcesses = 10

	commandBuffer = 16
)

// Options configures a Scheduler.
type Options struct {
	Source        source.Source
	Interval      time.Duration
	HistoryLength int
	Thresholds    threshold.Set
	TopProcesses  int
	SortKey       threshold.SortKey

	// Logger receives tick, transition and command events.
	Logger logger.Logger
	// Logging, when set, is switched by ToggleLogging and SetLogging.
	Logging *logger.Switch
}

// Scheduler drives the tick loop and publishes dashboard states.
type Scheduler struct {
	src       source.Source
	history   *history.Store
	evaluator *threshold.Evaluator
	tracker   *threshold.Tracker
	log       logger.Logger
	logging   *logger.Switch

	interval time.Duration
	topN     int
	sortKey  threshold.SortKey
	runState RunState
	seq      uint64
	prev     *sample.Sample
	now      func() time.Time

	latest   atomic.Pointer[State]
	status   atomic.Pointer[Status]
	commands chan Command
	updates  chan struct{}
	done     chan struct{}
	started  atomic.Bool
}

// New validates opts and returns an idle scheduler.
func New(opts Options) (*Scheduler, error) {
	if opts.Source == nil {
		return nil, errors.New(errors.ErrScheduler, "No metric source configured", "")
	}

	if opts.HistoryLength <= 0 {
		return nil, errors.New(errors.ErrConfig,
			fmt.Sprintf("history_length must be greater than 0 (got %d)", opts.HistoryLength),
			"Set history_length to the number of samples to keep, e.g. 60.")
	}
	if opts.Interval <= 0 {
		return nil, errors.New(errors.ErrConfig,
			fmt.Sprintf("refresh_interval must be greater than 0 (got %s)", opts.Interval),
			"Set refresh_interval to the sampling period in seconds, e.g. 1.")
	}

	store, err := history.New(opts.HistoryLength)
	if err != nil {
		return nil, errors.WrapWithCode(err, errors.ErrConfig, "Invalid history length", "")
	}

	evaluator, err := threshold.NewEvaluator(opts.Thresholds)
	if err != nil {
		return nil, err
	}

	if opts.TopProcesses <= 0 {
		opts.TopProcesses = DefaultTopProcesses
	}
	log := opts.Logger
	if log == nil {
		log = logger.Noop()
	}

	s := &Scheduler{
		src:       opts.Source,
		history:   store,
		evaluator: evaluator,
		tracker:   threshold.NewTracker(),
		log:       log,
		logging:   opts.Logging,
		interval:  opts.Interval,
		topN:      opts.TopProcesses,
		sortKey:   opts.SortKey,
		runState:  Idle,
		now:       time.Now,
		commands:  make(chan Command, commandBuffer),
		updates:   make(chan struct{}, 1),
		done:      make(chan struct{}),
	}
	s.publishStatus()
	return s, nil
}

// Latest returns the most recently published state, or nil before the
// first tick completes.
func (s *Scheduler) Latest() *State {
	return s.latest.Load()
}

// Status returns the current control state.
func (s *Scheduler) Status() Status {
	return *s.status.Load()
}

// Updates signals after each publish. Notifications coalesce: a slow
// reader sees one pending signal, then reads Latest.
func (s *Scheduler) Updates() <-chan struct{} {
	return s.updates
}

// Done is closed when Run returns.
func (s *Scheduler) Done() <-chan struct{} {
	return s.done
}

// Send queues cmd without blocking. It returns false if the queue is full
// or the loop has stopped.
func (s *Scheduler) Send(cmd Command) bool {
	select {
	case <-s.done:
		return false
	default:
	}
	select {
	case s.commands <- cmd:
		return true
	default:
		s.log.Warn("dropped %s command: queue full", cmd.Kind)
		return false
	}
}

// Run executes the tick loop until ctx is cancelled or a Stop command
// arrives. The first tick runs immediately. Run may only be called once.
func (s *Scheduler) Run(ctx context.Context) error {
	if !s.started.CompareAndSwap(false, true) {
		return errors.New(errors.ErrScheduler, "Scheduler is already running", "")
	}
	defer close(s.done)

	if err := s.setState(Running); err != nil {
		return err
	}

	timer := time.NewTimer(0)
	defer timer.Stop()

	for {
		var tickC <-chan time.Time
		if s.runState == Running {
			tickC = timer.C
		}

		select {
		case <-ctx.Done():
			s.shutdown()
			return nil

		case cmd := <-s.commands:
			if s.handle(cmd, timer) {
				s.shutdown()
				return nil
			}

		case <-tickC:
			start := s.now()
			s.tick(ctx, start)
			delay, overrun := nextDelay(s.now().Sub(start), s.interval)
			if overrun {
				s.log.Warn("tick took %s, longer than the %s interval", s.now().Sub(start).Round(time.Millisecond), s.interval)
			}
			timer.Reset(delay)
		}
	}
}

// nextDelay returns how long to wait before the next tick given how long
// the last one took. An overrun waits a full interval instead of firing
// immediately, so slow ticks never bunch up.
func nextDelay(elapsed, interval time.Duration) (time.Duration, bool) {
	if elapsed > interval {
		return interval, true
	}
	return interval - elapsed, false
}

// handle applies one command and reports whether the loop should exit.
func (s *Scheduler) handle(cmd Command, timer *time.Timer) bool {
	switch cmd.Kind {
	case CmdStop:
		return true

	case CmdTogglePause:
		if s.runState == Paused {
			s.resume(timer)
		} else {
			s.pause(timer)
		}

	case CmdPause:
		s.pause(timer)

	case CmdResume:
		s.resume(timer)

	case CmdCycleSort:
		s.sortKey = s.sortKey.Next()
		s.log.Info("sorting processes by %s", s.sortKey)
		s.publishStatus()

	case CmdToggleLogging, CmdSetLogging:
		if s.logging == nil {
			s.log.Warn("logging toggle is not available")
			return false
		}
		if cmd.Kind == CmdToggleLogging || cmd.Logging != s.logging.Enabled() {
			s.flipLogging()
		}
		s.publishStatus()

	case CmdSetThresholds:
		evaluator, err := threshold.NewEvaluator(cmd.Thresholds)
		if err != nil {
			s.log.Warn("ignoring thresholds: %v", err)
			return false
		}
		s.evaluator = evaluator
		s.log.Info("thresholds updated")
		s.publishStatus()

	case CmdSetInterval:
		if cmd.Interval <= 0 {
			s.log.Warn("ignoring non-positive interval %s", cmd.Interval)
			return false
		}
		s.interval = cmd.Interval
		s.log.Info("refresh interval set to %s", cmd.Interval)
		s.publishStatus()

	default:
		s.log.Warn("ignoring unknown command %d", cmd.Kind)
	}
	return false
}

func (s *Scheduler) pause(timer *time.Timer) {
	if err := s.setState(Paused); err != nil {
		s.log.Warn("pause rejected: %v", err)
		return
	}
	timer.Stop()
}

func (s *Scheduler) resume(timer *time.Timer) {
	if err := s.setState(Running); err != nil {
		s.log.Warn("resume rejected: %v", err)
		return
	}
	timer.Reset(0)
}

func (s *Scheduler) shutdown() {
	if err := s.setState(Stopping); err != nil {
		s.log.Warn("stop rejected: %v", err)
	}
	if err := s.setState(Stopped); err != nil {
		s.log.Warn("stop rejected: %v", err)
	}
}

// setState validates and applies a run state transition.
func (s *Scheduler) setState(to RunState) error {
	if err := checkTransition(s.runState, to); err != nil {
		return err
	}
	s.log.Info("scheduler %s -> %s", s.runState, to)
	s.runState = to
	s.publishStatus()
	return nil
}

// flipLogging switches the log file, writing the transition to the file
// while it is open.
func (s *Scheduler) flipLogging() {
	if s.logging.Enabled() {
		s.logging.Info("Logging disabled")
	}
	if s.logging.Toggle() {
		s.logging.Info("Logging enabled")
	}
}

func (s *Scheduler) publishStatus() {
	st := &Status{
		State:      s.runState,
		SortKey:    s.sortKey,
		Interval:   s.interval,
		Thresholds: s.evaluator.Thresholds(),
	}
	if s.logging != nil {
		st.Logging = s.logging.Enabled()
	}
	s.status.Store(st)
}

// tick runs one poll -> aggregate -> record -> classify -> rank -> publish
// cycle. A failed poll publishes nothing.
func (s *Scheduler) tick(ctx context.Context, start time.Time) {
	raw, err := s.src.Poll(ctx)
	if err != nil {
		if ctx.Err() == nil {
			s.log.Warn("poll failed: %v", err)
		}
		return
	}

	var dt time.Duration
	if s.prev != nil {
		dt = raw.Timestamp.Sub(s.prev.Timestamp)
	}
	smp := sample.Aggregate(raw, s.prev, dt)
	s.prev = &smp

	s.history.Record(smp)

	severities := s.evaluator.ClassifySample(smp)
	values := smp.Values()
	for _, tr := range s.tracker.Update(severities) {
		s.logTransition(tr, values[tr.Key])
	}

	procs, err := s.src.Processes(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return
		}
		s.log.Warn("process enumeration failed: %v", err)
	}
	top := threshold.TopProcesses(procs, s.topN, s.sortKey)

	elapsed := s.now().Sub(start)
	s.seq++
	state := &State{
		Seq:          s.seq,
		Sample:       smp,
		Severities:   severities,
		History:      s.history.Snapshot(),
		Processes:    top,
		SortKey:      s.sortKey,
		Thresholds:   s.evaluator.Thresholds(),
		TickDuration: elapsed,
		Interval:     s.interval,
		Overrun:      elapsed > s.interval,
	}
	s.latest.Store(state)

	select {
	case s.updates <- struct{}{}:
	default:
	}

	disk, _ := smp.DiskAverage()
	s.log.Debug("CPU: %.1f%%, MEM: %.1f%%, DISK: %.1f%%", smp.CPUPercent, smp.MemPercent, disk)
}

func (s *Scheduler) logTransition(tr threshold.Transition, value float64) {
	switch {
	case tr.To == threshold.Critical:
		s.log.Warn("%s is critical at %.1f%%", tr.Key, value)
	case tr.To > tr.From:
		s.log.Info("%s is at warning level at %.1f%%", tr.Key, value)
	default:
		s.log.Info("%s recovered to %s at %.1f%%", tr.Key, tr.To, value)
	}
}

package scheduler

import (
	"fmt"
	"time"

	"github.com/rileyhilliard/resourcelight/internal/errors"
	"github.com/rileyhilliard/resourcelight/internal/history"
	"github.com/rileyhilliard/resourcelight/internal/sample"
	"github.com/rileyhilliard/resourcelight/internal/threshold"
)

// RunState is the lifecycle state of the sampling loop.
type RunState int

const (
	Idle RunState = iota
	Running
	Paused
	Stopping
	Stopped
)

// String returns a human-readable label for the run state.
func (s RunState) String() string {
	switch s {
	case Idle:
		return "idle"
	case Running:
		return "running"
	case Paused:
		return "paused"
	case Stopping:
		return "stopping"
	case Stopped:
		return "stopped"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// transitions lists the allowed moves out of each state.
var transitions = map[RunState][]RunState{
	Idle:     {Running, Stopping},
	Running:  {Paused, Stopping},
	Paused:   {Running, Stopping},
	Stopping: {Stopped},
}

// CanTransition reports whether from -> to is allowed.
func CanTransition(from, to RunState) bool {
	for _, s := range transitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

func checkTransition(from, to RunState) error {
	if CanTransition(from, to) {
		return nil
	}
	return errors.New(errors.ErrScheduler,
		fmt.Sprintf("Can't go from %s to %s", from, to),
		"")
}

// State is everything the dashboard needs to draw one frame. A published
// State is never modified; each tick replaces it with a new one.
type State struct {
	// Seq increases by one with every published state.
	Seq uint64

	Sample     sample.Sample
	Severities map[string]threshold.Severity
	History    history.Snapshot
	Processes  []threshold.ProcessInfo
	SortKey    threshold.SortKey
	Thresholds threshold.Set

	// TickDuration is how long the tick that produced this state took.
	TickDuration time.Duration
	Interval     time.Duration
	Overrun      bool
}

// Severity returns the severity recorded for key, Normal if none.
func (s *State) Severity(key string) threshold.Severity {
	if s == nil {
		return threshold.Normal
	}
	return s.Severities[key]
}

// Status is the scheduler's control state, which changes independently of
// published samples (pausing does not publish a new State).
type Status struct {
	State      RunState
	SortKey    threshold.SortKey
	Logging    bool
	Interval   time.Duration
	Thresholds threshold.Set
}

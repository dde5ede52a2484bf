package scheduler

import (
	"time"

	"github.com/rileyhilliard/resourcelight/internal/threshold"
)

// CommandKind identifies a control command.
type CommandKind int

const (
	CmdTogglePause CommandKind = iota
	CmdPause
	CmdResume
	CmdStop
	CmdCycleSort
	CmdToggleLogging
	CmdSetThresholds
	CmdSetInterval
	CmdSetLogging
)

// String returns a human-readable label for the command kind.
func (k CommandKind) String() string {
	switch k {
	case CmdTogglePause:
		return "toggle-pause"
	case CmdPause:
		return "pause"
	case CmdResume:
		return "resume"
	case CmdStop:
		return "stop"
	case CmdCycleSort:
		return "cycle-sort"
	case CmdToggleLogging:
		return "toggle-logging"
	case CmdSetThresholds:
		return "set-thresholds"
	case CmdSetInterval:
		return "set-interval"
	case CmdSetLogging:
		return "set-logging"
	default:
		return "unknown"
	}
}

// Command is a request sent to the sampling loop.
type Command struct {
	Kind       CommandKind
	Thresholds threshold.Set
	Interval   time.Duration
	Logging    bool
}

// TogglePause pauses a running loop or resumes a paused one.
func TogglePause() Command { return Command{Kind: CmdTogglePause} }

// Pause stops ticking and keeps the last state visible.
func Pause() Command { return Command{Kind: CmdPause} }

// Resume restarts ticking.
func Resume() Command { return Command{Kind: CmdResume} }

// Stop ends the loop.
func Stop() Command { return Command{Kind: CmdStop} }

// CycleSort switches the process ranking to the next sort key.
func CycleSort() Command { return Command{Kind: CmdCycleSort} }

// ToggleLogging turns the log file on or off.
func ToggleLogging() Command { return Command{Kind: CmdToggleLogging} }

// SetThresholds replaces the threshold levels.
func SetThresholds(set threshold.Set) Command {
	return Command{Kind: CmdSetThresholds, Thresholds: set}
}

// SetInterval changes the sampling period starting with the next tick.
func SetInterval(d time.Duration) Command {
	return Command{Kind: CmdSetInterval, Interval: d}
}

// SetLogging turns the log file on or off. Unlike ToggleLogging, sending it
// twice leaves the same result.
func SetLogging(on bool) Command {
	return Command{Kind: CmdSetLogging, Logging: on}
}

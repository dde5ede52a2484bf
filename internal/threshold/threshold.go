// Package threshold classifies metric values against warning and critical
// levels and ranks processes for display.
package threshold

import (
	"fmt"

	"github.com/rileyhilliard/resourcelight/internal/errors"
	"github.com/rileyhilliard/resourcelight/internal/sample"
)

// Severity is the load classification of a metric value.
type Severity int

const (
	Normal Severity = iota
	Warning
	Critical
)

// String returns a human-readable label for the severity.
func (s Severity) String() string {
	switch s {
	case Warning:
		return "warning"
	case Critical:
		return "critical"
	default:
		return "normal"
	}
}

// Tag returns the short text marker used when color is unavailable.
func (s Severity) Tag() string {
	switch s {
	case Warning:
		return "[warn]"
	case Critical:
		return "[CRIT]"
	default:
		return "[ok]"
	}
}

// Level is a warning/critical pair in percent.
type Level struct {
	Warning  float64
	Critical float64
}

// Set holds the levels for every category that has thresholds.
type Set struct {
	CPU    Level
	Memory Level
	Disk   Level
}

// Validate checks that warning is strictly below critical for each category.
func (s Set) Validate() error {
	for _, c := range []struct {
		name string
		lvl  Level
	}{
		{"cpu", s.CPU},
		{"mem", s.Memory},
		{"disk", s.Disk},
	} {
		if c.lvl.Warning >= c.lvl.Critical {
			return errors.New(errors.ErrConfig,
				fmt.Sprintf("%s warning threshold (%v) must be lower than critical (%v)", c.name, c.lvl.Warning, c.lvl.Critical),
				"Lower the warning threshold or raise the critical one.")
		}
	}
	return nil
}

// Classify returns Critical when v >= critical, Warning when v >= warning
// and Normal otherwise.
func Classify(v float64, lvl Level) Severity {
	switch {
	case v >= lvl.Critical:
		return Critical
	case v >= lvl.Warning:
		return Warning
	default:
		return Normal
	}
}

// Evaluator classifies values by metric key.
type Evaluator struct {
	set Set
}

// NewEvaluator returns an evaluator for set, rejecting inverted levels.
func NewEvaluator(set Set) (*Evaluator, error) {
	if err := set.Validate(); err != nil {
		return nil, err
	}
	return &Evaluator{set: set}, nil
}

// Thresholds returns the levels in use.
func (e *Evaluator) Thresholds() Set {
	return e.set
}

// LevelFor returns the level that applies to key. Keys without thresholds
// (network rates) report false.
func (e *Evaluator) LevelFor(key string) (Level, bool) {
	switch sample.CategoryOf(key) {
	case sample.CategoryCPU:
		return e.set.CPU, true
	case sample.CategoryMemory:
		return e.set.Memory, true
	case sample.CategoryDisk:
		return e.set.Disk, true
	default:
		return Level{}, false
	}
}

// Classify classifies v for key. Keys without thresholds are Normal.
func (e *Evaluator) Classify(key string, v float64) Severity {
	lvl, ok := e.LevelFor(key)
	if !ok {
		return Normal
	}
	return Classify(v, lvl)
}

// ClassifySample classifies every thresholded metric in s.
func (e *Evaluator) ClassifySample(s sample.Sample) map[string]Severity {
	values := s.Values()
	out := make(map[string]Severity, len(values))
	for key, v := range values {
		if _, ok := e.LevelFor(key); ok {
			out[key] = e.Classify(key, v)
		}
	}
	return out
}

// Tracker remembers the last severity per key so transitions can be
// reported once.
type Tracker struct {
	last map[string]Severity
}

// NewTracker creates an empty tracker. Unseen keys start out Normal.
func NewTracker() *Tracker {
	return &Tracker{last: make(map[string]Severity)}
}

// Transition is a change of severity for one key.
type Transition struct {
	Key  string
	From Severity
	To   Severity
}

// Observe records sev for key and returns the previous severity and
// whether it changed.
func (t *Tracker) Observe(key string, sev Severity) (Severity, bool) {
	prev := t.last[key]
	t.last[key] = sev
	return prev, prev != sev
}

// Update records a full set of severities and returns the transitions in
// key order. Keys missing from current are forgotten.
func (t *Tracker) Update(current map[string]Severity) []Transition {
	keys := sortedKeys(current)
	var out []Transition
	for _, k := range keys {
		if prev, changed := t.Observe(k, current[k]); changed {
			out = append(out, Transition{Key: k, From: prev, To: current[k]})
		}
	}
	for k := range t.last {
		if _, ok := current[k]; !ok {
			delete(t.last, k)
		}
	}
	return out
}

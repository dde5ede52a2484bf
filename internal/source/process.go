package source

import (
	"context"
	"strings"
	"time"
	"unicode"

	"github.com/rileyhilliard/resourcelight/internal/errors"
	"github.com/rileyhilliard/resourcelight/internal/threshold"
	"github.com/shirou/gopsutil/v3/process"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// processHandle is the subset of *process.Process the source reads.
// Handles are cached across polls because PercentWithContext with a zero
// interval measures CPU time since the previous call on the same handle.
type processHandle interface {
	NameWithContext(ctx context.Context) (string, error)
	PercentWithContext(ctx context.Context, interval time.Duration) (float64, error)
	MemoryPercentWithContext(ctx context.Context) (float32, error)
}

func listPIDs(ctx context.Context) ([]int32, error) {
	return process.PidsWithContext(ctx)
}

func openProcess(ctx context.Context, pid int32) (processHandle, error) {
	return process.NewProcessWithContext(ctx, pid)
}

// Processes implements Source. Processes that exit while being read are
// skipped. CPU percent is normalized to the whole machine, so a process
// saturating one of eight cores reports 12.5.
func (s *System) Processes(ctx context.Context) ([]threshold.ProcessInfo, error) {
	pids, err := s.pids(ctx)
	if err != nil {
		return nil, errors.WrapWithCode(err, errors.ErrMetrics,
			"Can't list processes",
			"Check that the process can read the process table")
	}

	cores, err := s.coreCount(ctx)
	if err != nil || cores <= 0 {
		cores = 1
	}

	alive := make(map[int32]bool, len(pids))
	out := make([]threshold.ProcessInfo, 0, len(pids))

	for _, pid := range pids {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}

		h, ok := s.procs[pid]
		if !ok {
			h, err = s.openProcess(ctx, pid)
			if err != nil {
				continue
			}
			s.procs[pid] = h
		}
		alive[pid] = true

		name, err := h.NameWithContext(ctx)
		if err != nil {
			continue
		}
		cpuPct, err := h.PercentWithContext(ctx, 0)
		if err != nil {
			continue
		}
		memPct, err := h.MemoryPercentWithContext(ctx)
		if err != nil {
			continue
		}

		out = append(out, threshold.ProcessInfo{
			PID:        pid,
			Name:       sanitizeName(name),
			CPUPercent: clampProcessPercent(cpuPct / float64(cores)),
			MemPercent: clampProcessPercent(float64(memPct)),
		})
	}

	for pid := range s.procs {
		if !alive[pid] {
			delete(s.procs, pid)
		}
	}

	return out, nil
}

func clampProcessPercent(v float64) float64 {
	if v != v || v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}

// sanitizeName strips combining marks and control characters, which can
// mess with width calculations in the process table.
func sanitizeName(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	cleaned, _, err := transform.String(t, s)
	if err != nil {
		cleaned = s
	}
	cleaned = strings.Map(func(r rune) rune {
		if unicode.IsControl(r) {
			return -1
		}
		return r
	}, cleaned)
	if cleaned == "" {
		return "?"
	}
	return cleaned
}

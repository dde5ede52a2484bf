package source

import (
	"context"
	"fmt"

	"github.com/rileyhilliard/resourcelight/internal/sample"
	"github.com/shirou/gopsutil/v3/cpu"
)

// cpuCounters stores aggregate CPU time for delta calculation.
type cpuCounters struct {
	total float64
	idle  float64
}

func aggregateCPUTimes(ctx context.Context) (cpu.TimesStat, error) {
	times, err := cpu.TimesWithContext(ctx, false)
	if err != nil {
		return cpu.TimesStat{}, err
	}
	if len(times) == 0 {
		return cpu.TimesStat{}, fmt.Errorf("no CPU time data available")
	}
	return times[0], nil
}

// countersFrom sums the time categories. Guest time is already part of
// User and Nice so it is not added again.
func countersFrom(t cpu.TimesStat) cpuCounters {
	idle := t.Idle + t.Iowait
	total := t.User + t.System + t.Nice + t.Irq + t.Softirq + t.Steal + idle
	return cpuCounters{total: total, idle: idle}
}

// cpuPercent returns the busy share between two counter snapshots. Without
// a previous snapshot, or when no time elapsed, it returns the sentinel
// 0 with ready=false.
func cpuPercent(prev *cpuCounters, cur cpuCounters) (float64, bool) {
	if prev == nil {
		return 0, false
	}
	totalDelta := cur.total - prev.total
	if totalDelta <= 0 {
		return 0, false
	}
	idleDelta := cur.idle - prev.idle
	busy := (totalDelta - idleDelta) / totalDelta * 100
	return sample.ClampPercent(busy), true
}

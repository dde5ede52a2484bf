// Package source reads host utilization counters from the operating system.
//
// System is backed by gopsutil. Every OS call goes through a function field
// so tests can substitute deterministic readings. A System is not safe for
// concurrent use; the sampling loop is its only caller.
package source

import (
	"context"
	"runtime"
	"strings"
	"time"

	"github.com/rileyhilliard/resourcelight/internal/errors"
	"github.com/rileyhilliard/resourcelight/internal/logger"
	"github.com/rileyhilliard/resourcelight/internal/sample"
	"github.com/rileyhilliard/resourcelight/internal/threshold"
	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/disk"
	"github.com/shirou/gopsutil/v3/mem"
	psnet "github.com/shirou/gopsutil/v3/net"
)

// Source produces raw host readings.
type Source interface {
	// Poll reads CPU, memory, disk and network counters. Unreadable disks
	// and interfaces are left out; CPU or memory failure is an error.
	Poll(ctx context.Context) (*sample.Raw, error)

	// Processes enumerates running processes with per-tick CPU usage.
	Processes(ctx context.Context) ([]threshold.ProcessInfo, error)
}

// Options configures a System source.
type Options struct {
	// Disks lists mount points to report.
	Disks []string
	// Interfaces lists network interfaces to report. Empty means every
	// non-loopback interface.
	Interfaces []string
	Logger     logger.Logger
}

// System reads the local host through gopsutil.
type System struct {
	disks      []string
	interfaces map[string]bool
	log        logger.Logger

	cpuTimes      func(ctx context.Context) (cpu.TimesStat, error)
	virtualMemory func(ctx context.Context) (*mem.VirtualMemoryStat, error)
	diskUsage     func(ctx context.Context, path string) (*disk.UsageStat, error)
	netCounters   func(ctx context.Context) ([]psnet.IOCountersStat, error)
	pids          func(ctx context.Context) ([]int32, error)
	openProcess   func(ctx context.Context, pid int32) (processHandle, error)
	coreCount     func(ctx context.Context) (int, error)
	now           func() time.Time

	prevCPU *cpuCounters
	procs   map[int32]processHandle
	missing map[string]bool
}

// NewSystem creates a gopsutil-backed source.
func NewSystem(opts Options) *System {
	log := opts.Logger
	if log == nil {
		log = logger.Noop()
	}

	var ifaces map[string]bool
	if len(opts.Interfaces) > 0 {
		ifaces = make(map[string]bool, len(opts.Interfaces))
		for _, name := range opts.Interfaces {
			ifaces[name] = true
		}
	}

	return &System{
		disks:         append([]string(nil), opts.Disks...),
		interfaces:    ifaces,
		log:           log,
		cpuTimes:      aggregateCPUTimes,
		virtualMemory: mem.VirtualMemoryWithContext,
		diskUsage:     disk.UsageWithContext,
		netCounters: func(ctx context.Context) ([]psnet.IOCountersStat, error) {
			return psnet.IOCountersWithContext(ctx, true)
		},
		pids:        listPIDs,
		openProcess: openProcess,
		coreCount:   logicalCores,
		now:         time.Now,
		procs:       make(map[int32]processHandle),
		missing:     make(map[string]bool),
	}
}

// Poll implements Source.
func (s *System) Poll(ctx context.Context) (*sample.Raw, error) {
	raw := &sample.Raw{
		Timestamp: s.now(),
		Disks:     make(map[string]sample.DiskUsage),
		Net:       make(map[string]sample.NetCounters),
	}

	times, err := s.cpuTimes(ctx)
	if err != nil {
		return nil, errors.WrapWithCode(err, errors.ErrMetrics,
			"Can't read CPU counters",
			"Check that the process can read system statistics")
	}
	cur := countersFrom(times)
	raw.CPUPercent, raw.CPUReady = cpuPercent(s.prevCPU, cur)
	s.prevCPU = &cur

	vm, err := s.virtualMemory(ctx)
	if err != nil {
		return nil, errors.WrapWithCode(err, errors.ErrMetrics,
			"Can't read memory statistics",
			"Check that the process can read system statistics")
	}
	raw.MemUsed = vm.Used
	raw.MemTotal = vm.Total
	raw.MemPercent = vm.UsedPercent

	for _, path := range s.disks {
		u, err := s.diskUsage(ctx, path)
		if err != nil {
			s.markMissing("disk", path, err)
			continue
		}
		s.markPresent("disk", path)
		raw.Disks[path] = sample.DiskUsage{Used: u.Used, Total: u.Total, Percent: u.UsedPercent}
	}

	s.pollNetwork(ctx, raw)

	return raw, nil
}

func (s *System) pollNetwork(ctx context.Context, raw *sample.Raw) {
	counters, err := s.netCounters(ctx)
	if err != nil {
		s.markMissing("network", "counters", err)
		return
	}
	s.markPresent("network", "counters")

	seen := make(map[string]bool, len(counters))
	for _, c := range counters {
		if !s.wantInterface(c.Name) {
			continue
		}
		seen[c.Name] = true
		raw.Net[c.Name] = sample.NetCounters{RxBytes: c.BytesRecv, TxBytes: c.BytesSent}
	}

	for name := range s.interfaces {
		if seen[name] {
			s.markPresent("interface", name)
		} else {
			s.markMissing("interface", name, nil)
		}
	}
}

func (s *System) wantInterface(name string) bool {
	if s.interfaces == nil {
		return !isLoopback(name)
	}
	return s.interfaces[name]
}

// markMissing logs the first poll a resource goes missing.
func (s *System) markMissing(kind, name string, err error) {
	key := kind + ":" + name
	if s.missing[key] {
		return
	}
	s.missing[key] = true
	if err != nil {
		s.log.Debug("omitting %s %s: %v", kind, name, err)
	} else {
		s.log.Debug("omitting %s %s: not found", kind, name)
	}
}

func (s *System) markPresent(kind, name string) {
	key := kind + ":" + name
	if s.missing[key] {
		delete(s.missing, key)
		s.log.Debug("%s %s is back", kind, name)
	}
}

// isLoopback reports whether name looks like a loopback interface
// ("lo", "lo0", ...).
func isLoopback(name string) bool {
	if !strings.HasPrefix(name, "lo") {
		return false
	}
	for _, r := range name[2:] {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func logicalCores(ctx context.Context) (int, error) {
	n, err := cpu.CountsWithContext(ctx, true)
	if err != nil || n <= 0 {
		return runtime.NumCPU(), err
	}
	return n, nil
}

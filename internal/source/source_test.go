package source

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/rileyhilliard/resourcelight/internal/errors"
	"github.com/rileyhilliard/resourcelight/internal/logger"
	"github.com/rileyhilliard/resourcelight/internal/sample"
	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/disk"
	"github.com/shirou/gopsutil/v3/mem"
	psnet "github.com/shirou/gopsutil/v3/net"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeHost returns a System whose OS calls read from in-memory values.
type fakeHost struct {
	times   []cpu.TimesStat
	tick    int
	mem     *mem.VirtualMemoryStat
	memErr  error
	cpuErr  error
	disks   map[string]*disk.UsageStat
	netStat []psnet.IOCountersStat
	netErr  error
}

func newFakeSystem(t *testing.T, h *fakeHost, opts Options) (*System, *logger.BufferLogger) {
	t.Helper()
	log := logger.NewBufferLogger()
	opts.Logger = log
	s := NewSystem(opts)

	s.cpuTimes = func(context.Context) (cpu.TimesStat, error) {
		if h.cpuErr != nil {
			return cpu.TimesStat{}, h.cpuErr
		}
		ts := h.times[h.tick]
		if h.tick < len(h.times)-1 {
			h.tick++
		}
		return ts, nil
	}
	s.virtualMemory = func(context.Context) (*mem.VirtualMemoryStat, error) {
		return h.mem, h.memErr
	}
	s.diskUsage = func(_ context.Context, path string) (*disk.UsageStat, error) {
		u, ok := h.disks[path]
		if !ok {
			return nil, fmt.Errorf("no such file or directory")
		}
		return u, nil
	}
	s.netCounters = func(context.Context) ([]psnet.IOCountersStat, error) {
		return h.netStat, h.netErr
	}
	s.now = func() time.Time { return time.Unix(1700000000, 0) }
	return s, log
}

func defaultHost() *fakeHost {
	return &fakeHost{
		times: []cpu.TimesStat{
			{User: 100, System: 50, Idle: 850},
			{User: 130, System: 70, Idle: 900},
			{User: 130, System: 70, Idle: 900},
		},
		mem:   &mem.VirtualMemoryStat{Total: 8 << 30, Used: 2 << 30, UsedPercent: 25},
		disks: map[string]*disk.UsageStat{"/": {Total: 100, Used: 40, UsedPercent: 40}},
		netStat: []psnet.IOCountersStat{
			{Name: "lo", BytesRecv: 9, BytesSent: 9},
			{Name: "eth0", BytesRecv: 1000, BytesSent: 200},
			{Name: "wlan0", BytesRecv: 5, BytesSent: 6},
		},
	}
}

func TestPoll_CPUSentinelThenDelta(t *testing.T) {
	s, _ := newFakeSystem(t, defaultHost(), Options{Disks: []string{"/"}})
	ctx := context.Background()

	first, err := s.Poll(ctx)
	require.NoError(t, err)
	assert.False(t, first.CPUReady, "first poll has no delta")
	assert.Zero(t, first.CPUPercent)

	second, err := s.Poll(ctx)
	require.NoError(t, err)
	assert.True(t, second.CPUReady)
	// busy delta 50 over total delta 100
	assert.InDelta(t, 50.0, second.CPUPercent, 1e-9)

	third, err := s.Poll(ctx)
	require.NoError(t, err)
	assert.False(t, third.CPUReady, "no elapsed CPU time yields the sentinel")
}

func TestPoll_MemoryAndDisks(t *testing.T) {
	h := defaultHost()
	s, log := newFakeSystem(t, h, Options{Disks: []string{"/", "/mnt/usb"}})

	raw, err := s.Poll(context.Background())
	require.NoError(t, err)

	assert.Equal(t, uint64(8<<30), raw.MemTotal)
	assert.Equal(t, uint64(2<<30), raw.MemUsed)
	assert.Equal(t, 25.0, raw.MemPercent)
	assert.Equal(t, sample.DiskUsage{Used: 40, Total: 100, Percent: 40}, raw.Disks["/"])
	assert.NotContains(t, raw.Disks, "/mnt/usb", "unreadable disks are omitted")
	assert.True(t, log.Contains("debug", "omitting disk /mnt/usb"))

	// Logged once, not every poll
	log.Clear()
	_, err = s.Poll(context.Background())
	require.NoError(t, err)
	assert.False(t, log.HasLevel("debug"))

	// Mounting the disk brings it back
	h.disks["/mnt/usb"] = &disk.UsageStat{Total: 10, Used: 1, UsedPercent: 10}
	raw, err = s.Poll(context.Background())
	require.NoError(t, err)
	assert.Contains(t, raw.Disks, "/mnt/usb")
	assert.True(t, log.Contains("debug", "disk /mnt/usb is back"))
}

func TestPoll_Interfaces(t *testing.T) {
	tests := []struct {
		name       string
		interfaces []string
		want       []string
	}{
		{"all non-loopback by default", nil, []string{"eth0", "wlan0"}},
		{"configured subset", []string{"eth0"}, []string{"eth0"}},
		{"missing interface omitted", []string{"eth0", "eth9"}, []string{"eth0"}},
		{"loopback when asked", []string{"lo"}, []string{"lo"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, _ := newFakeSystem(t, defaultHost(), Options{Interfaces: tt.interfaces})
			raw, err := s.Poll(context.Background())
			require.NoError(t, err)

			got := make([]string, 0, len(raw.Net))
			for _, name := range tt.want {
				if _, ok := raw.Net[name]; ok {
					got = append(got, name)
				}
			}
			assert.Equal(t, tt.want, got)
			assert.Len(t, raw.Net, len(tt.want))
		})
	}
}

func TestPoll_NetworkCounters(t *testing.T) {
	s, _ := newFakeSystem(t, defaultHost(), Options{Interfaces: []string{"eth0"}})
	raw, err := s.Poll(context.Background())
	require.NoError(t, err)
	assert.Equal(t, sample.NetCounters{RxBytes: 1000, TxBytes: 200}, raw.Net["eth0"])
}

func TestPoll_NetworkFailureIsPartial(t *testing.T) {
	h := defaultHost()
	h.netErr = fmt.Errorf("permission denied")
	s, log := newFakeSystem(t, h, Options{Disks: []string{"/"}})

	raw, err := s.Poll(context.Background())
	require.NoError(t, err)
	assert.Empty(t, raw.Net)
	assert.Contains(t, raw.Disks, "/")
	assert.True(t, log.HasLevel("debug"))
}

func TestPoll_Failures(t *testing.T) {
	t.Run("cpu", func(t *testing.T) {
		h := defaultHost()
		h.cpuErr = fmt.Errorf("boom")
		s, _ := newFakeSystem(t, h, Options{})

		_, err := s.Poll(context.Background())
		require.Error(t, err)
		assert.True(t, errors.IsCode(err, errors.ErrMetrics))
		assert.Contains(t, err.Error(), "CPU")
	})

	t.Run("memory", func(t *testing.T) {
		h := defaultHost()
		h.memErr = fmt.Errorf("boom")
		s, _ := newFakeSystem(t, h, Options{})

		_, err := s.Poll(context.Background())
		require.Error(t, err)
		assert.True(t, errors.IsCode(err, errors.ErrMetrics))
		assert.Contains(t, err.Error(), "memory")
	})
}

func TestCPUPercent(t *testing.T) {
	tests := []struct {
		name      string
		prev      *cpuCounters
		cur       cpuCounters
		want      float64
		wantReady bool
	}{
		{"no previous", nil, cpuCounters{total: 100, idle: 50}, 0, false},
		{"idle machine", &cpuCounters{total: 100, idle: 100}, cpuCounters{total: 200, idle: 200}, 0, true},
		{"busy machine", &cpuCounters{total: 100, idle: 0}, cpuCounters{total: 200, idle: 0}, 100, true},
		{"quarter busy", &cpuCounters{total: 0, idle: 0}, cpuCounters{total: 400, idle: 300}, 25, true},
		{"no elapsed time", &cpuCounters{total: 100, idle: 50}, cpuCounters{total: 100, idle: 50}, 0, false},
		{"counter went backwards", &cpuCounters{total: 100, idle: 50}, cpuCounters{total: 90, idle: 40}, 0, false},
		{"idle grew faster than total", &cpuCounters{total: 100, idle: 0}, cpuCounters{total: 110, idle: 20}, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ready := cpuPercent(tt.prev, tt.cur)
			assert.Equal(t, tt.wantReady, ready)
			assert.InDelta(t, tt.want, got, 1e-9)
		})
	}
}

func TestCountersFrom(t *testing.T) {
	c := countersFrom(cpu.TimesStat{
		User: 10, System: 5, Idle: 70, Nice: 1, Iowait: 4, Irq: 2, Softirq: 3, Steal: 5, Guest: 99,
	})
	assert.Equal(t, 100.0, c.total)
	assert.Equal(t, 74.0, c.idle)
}

func TestIsLoopback(t *testing.T) {
	for name, want := range map[string]bool{
		"lo":     true,
		"lo0":    true,
		"lo12":   true,
		"eth0":   false,
		"wlan0":  false,
		"local0": false,
		"lxcbr0": false,
	} {
		assert.Equal(t, want, isLoopback(name), name)
	}
}

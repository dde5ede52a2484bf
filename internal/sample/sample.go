// Package sample turns raw counters read from the host into normalized,
// immutable samples.
//
// A Sample is produced once per tick and never mutated afterwards; the maps
// it carries are owned by the sample and must be treated as read-only by
// every consumer.
package sample

import (
	"strings"
	"time"
)

// Metric keys used by the history store and the threshold evaluator.
const (
	KeyCPU = "cpu"
	KeyMem = "mem"

	diskPrefix = "disk:"
	netPrefix  = "net:"
)

// Direction of network traffic.
const (
	Rx = "rx"
	Tx = "tx"
)

// Category groups metric keys that share thresholds.
type Category int

const (
	CategoryUnknown Category = iota
	CategoryCPU
	CategoryMemory
	CategoryDisk
	CategoryNetwork
)

// DiskKey returns the metric key for a mount point.
func DiskKey(path string) string {
	return diskPrefix + path
}

// NetKey returns the metric key for one direction of an interface.
func NetKey(iface, dir string) string {
	return netPrefix + iface + ":" + dir
}

// CategoryOf classifies a metric key.
func CategoryOf(key string) Category {
	switch {
	case key == KeyCPU:
		return CategoryCPU
	case key == KeyMem:
		return CategoryMemory
	case strings.HasPrefix(key, diskPrefix):
		return CategoryDisk
	case strings.HasPrefix(key, netPrefix):
		return CategoryNetwork
	default:
		return CategoryUnknown
	}
}

// DiskPath returns the mount point encoded in a disk key.
func DiskPath(key string) (string, bool) {
	if !strings.HasPrefix(key, diskPrefix) {
		return "", false
	}
	return strings.TrimPrefix(key, diskPrefix), true
}

// Raw is what the metric source reads in one poll. Disks and interfaces
// that could not be read are absent from the maps.
type Raw struct {
	Timestamp time.Time

	// CPUPercent is the busy share since the previous poll. CPUReady is
	// false on the first poll, when no delta exists yet.
	CPUPercent float64
	CPUReady   bool

	MemUsed    uint64
	MemTotal   uint64
	MemPercent float64

	Disks map[string]DiskUsage
	Net   map[string]NetCounters
}

// DiskUsage is the raw usage of one mount point.
type DiskUsage struct {
	Used    uint64
	Total   uint64
	Percent float64
}

// NetCounters are cumulative byte counters for one interface.
type NetCounters struct {
	RxBytes uint64
	TxBytes uint64
}

// Sample is one normalized snapshot of host utilization.
type Sample struct {
	Timestamp time.Time

	CPUPercent float64
	CPUReady   bool

	MemPercent float64
	MemUsed    uint64
	MemTotal   uint64

	Disks map[string]DiskStat
	Net   map[string]NetStat
}

// DiskStat is the normalized usage of one mount point.
type DiskStat struct {
	Percent float64
	Used    uint64
	Total   uint64
}

// NetStat holds counters and derived rates for one interface.
type NetStat struct {
	RxBytes uint64
	TxBytes uint64

	// RxRate and TxRate are bytes per second. They are only meaningful when
	// RateReady is true; otherwise the rate is "n/a".
	RxRate    float64
	TxRate    float64
	RateReady bool
}

// DiskAverage returns the mean usage across all reported disks and
// whether any disk was reported.
func (s Sample) DiskAverage() (float64, bool) {
	if len(s.Disks) == 0 {
		return 0, false
	}
	var sum float64
	for _, d := range s.Disks {
		sum += d.Percent
	}
	return sum / float64(len(s.Disks)), true
}

// Values returns every metric in the sample keyed by metric key. CPU is
// omitted until CPUReady and network rates until RateReady.
func (s Sample) Values() map[string]float64 {
	out := make(map[string]float64, 2+len(s.Disks)+2*len(s.Net))
	if s.CPUReady {
		out[KeyCPU] = s.CPUPercent
	}
	out[KeyMem] = s.MemPercent
	for path, d := range s.Disks {
		out[DiskKey(path)] = d.Percent
	}
	for iface, n := range s.Net {
		if !n.RateReady {
			continue
		}
		out[NetKey(iface, Rx)] = n.RxRate
		out[NetKey(iface, Tx)] = n.TxRate
	}
	return out
}

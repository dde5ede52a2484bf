package sample

import (
	"math"
	"time"
)

// Aggregate builds a Sample from raw counters. prev is the previous sample
// (nil on the first tick) and dt the time elapsed since it was taken.
//
// Network rates are (cur - prev) / dt. An interface seen for the first
// time, or a non-positive dt, leaves the rate not ready. A counter that
// went backwards (interface reset or wrap) reports a rate of 0.
func Aggregate(raw *Raw, prev *Sample, dt time.Duration) Sample {
	s := Sample{
		Disks: make(map[string]DiskStat),
		Net:   make(map[string]NetStat),
	}
	if raw == nil {
		return s
	}

	s.Timestamp = raw.Timestamp
	s.CPUReady = raw.CPUReady
	if raw.CPUReady {
		s.CPUPercent = ClampPercent(raw.CPUPercent)
	}

	s.MemUsed = raw.MemUsed
	s.MemTotal = raw.MemTotal
	s.MemPercent = ClampPercent(raw.MemPercent)

	for path, d := range raw.Disks {
		s.Disks[path] = DiskStat{
			Percent: ClampPercent(d.Percent),
			Used:    d.Used,
			Total:   d.Total,
		}
	}

	seconds := dt.Seconds()
	for iface, c := range raw.Net {
		n := NetStat{RxBytes: c.RxBytes, TxBytes: c.TxBytes}
		if prev != nil && seconds > 0 {
			if p, ok := prev.Net[iface]; ok {
				n.RxRate = Rate(c.RxBytes, p.RxBytes, seconds)
				n.TxRate = Rate(c.TxBytes, p.TxBytes, seconds)
				n.RateReady = true
			}
		}
		s.Net[iface] = n
	}

	return s
}

// Rate returns the per-second increase from prev to cur. A decrease means
// the counter was reset and yields 0.
func Rate(cur, prev uint64, seconds float64) float64 {
	if seconds <= 0 || cur < prev {
		return 0
	}
	return float64(cur-prev) / seconds
}

// ClampPercent bounds v to [0, 100]. NaN becomes 0.
func ClampPercent(v float64) float64 {
	switch {
	case math.IsNaN(v):
		return 0
	case v < 0:
		return 0
	case v > 100:
		return 100
	default:
		return v
	}
}

package threshold

import (
	"fmt"
	"sort"
	"strings"
)

// ProcessInfo is one row of the process table.
type ProcessInfo struct {
	PID        int32
	Name       string
	CPUPercent float64
	MemPercent float64
}

// SortKey selects the process ranking column.
type SortKey int

const (
	SortByCPU SortKey = iota
	SortByMemory

	sortKeyCount = 2
)

// String returns a human-readable label for the sort key.
func (k SortKey) String() string {
	switch k {
	case SortByMemory:
		return "memory"
	default:
		return "cpu"
	}
}

// Next cycles to the next sort key.
func (k SortKey) Next() SortKey {
	return SortKey((int(k) + 1) % sortKeyCount)
}

// ParseSortKey accepts "cpu", "memory" or "mem" (any case).
func ParseSortKey(s string) (SortKey, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "cpu", "":
		return SortByCPU, nil
	case "memory", "mem":
		return SortByMemory, nil
	default:
		return SortByCPU, fmt.Errorf("unknown sort key %q", s)
	}
}

func (k SortKey) value(p ProcessInfo) float64 {
	if k == SortByMemory {
		return p.MemPercent
	}
	return p.CPUPercent
}

// TopProcesses returns the k processes with the highest value for key,
// descending, with ties broken by ascending PID. all is not modified.
func TopProcesses(all []ProcessInfo, k int, key SortKey) []ProcessInfo {
	if k <= 0 || len(all) == 0 {
		return []ProcessInfo{}
	}

	ranked := make([]ProcessInfo, len(all))
	copy(ranked, all)

	sort.Slice(ranked, func(i, j int) bool {
		vi, vj := key.value(ranked[i]), key.value(ranked[j])
		if vi != vj {
			return vi > vj
		}
		return ranked[i].PID < ranked[j].PID
	})

	if k > len(ranked) {
		k = len(ranked)
	}
	return ranked[:k]
}

func sortedKeys(m map[string]Severity) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

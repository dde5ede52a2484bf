package threshold

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func procs() []ProcessInfo {
	return []ProcessInfo{
		{PID: 10, Name: "a", CPUPercent: 5, MemPercent: 50},
		{PID: 3, Name: "b", CPUPercent: 30, MemPercent: 1},
		{PID: 7, Name: "c", CPUPercent: 30, MemPercent: 20},
		{PID: 1, Name: "d", CPUPercent: 0, MemPercent: 20},
		{PID: 42, Name: "e", CPUPercent: 80, MemPercent: 5},
	}
}

func TestTopProcesses(t *testing.T) {
	tests := []struct {
		name     string
		k        int
		key      SortKey
		wantPIDs []int32
	}{
		{"cpu top 3 ties by pid", 3, SortByCPU, []int32{42, 3, 7}},
		{"cpu all", 10, SortByCPU, []int32{42, 3, 7, 10, 1}},
		{"memory top 3 ties by pid", 3, SortByMemory, []int32{10, 1, 7}},
		{"zero k", 0, SortByCPU, []int32{}},
		{"negative k", -2, SortByCPU, []int32{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := TopProcesses(procs(), tt.k, tt.key)
			pids := make([]int32, 0, len(got))
			for _, p := range got {
				pids = append(pids, p.PID)
			}
			assert.Equal(t, tt.wantPIDs, pids)
		})
	}
}

func TestTopProcesses_Properties(t *testing.T) {
	all := procs()
	for k := 0; k <= len(all)+2; k++ {
		for _, key := range []SortKey{SortByCPU, SortByMemory} {
			got := TopProcesses(all, k, key)

			want := k
			if want > len(all) {
				want = len(all)
			}
			require.Len(t, got, want)

			for i := 1; i < len(got); i++ {
				prev, cur := key.value(got[i-1]), key.value(got[i])
				assert.GreaterOrEqual(t, prev, cur)
				if prev == cur {
					assert.Less(t, got[i-1].PID, got[i].PID)
				}
			}
		}
	}
}

func TestTopProcesses_DoesNotMutateInput(t *testing.T) {
	all := procs()
	snapshot := procs()

	_ = TopProcesses(all, 3, SortByCPU)
	assert.Equal(t, snapshot, all)
}

func TestTopProcesses_Empty(t *testing.T) {
	assert.Empty(t, TopProcesses(nil, 5, SortByCPU))
}

func TestSortKey(t *testing.T) {
	assert.Equal(t, "cpu", SortByCPU.String())
	assert.Equal(t, "memory", SortByMemory.String())
	assert.Equal(t, SortByMemory, SortByCPU.Next())
	assert.Equal(t, SortByCPU, SortByMemory.Next())
}

func TestParseSortKey(t *testing.T) {
	tests := []struct {
		in      string
		want    SortKey
		wantErr bool
	}{
		{"cpu", SortByCPU, false},
		{"CPU", SortByCPU, false},
		{"", SortByCPU, false},
		{"memory", SortByMemory, false},
		{"mem", SortByMemory, false},
		{" Memory ", SortByMemory, false},
		{"pid", SortByCPU, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseSortKey(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

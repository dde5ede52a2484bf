package cli

import (
	"bytes"
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rileyhilliard/resourcelight/internal/sample"
	"github.com/rileyhilliard/resourcelight/internal/scheduler"
)

func TestHeadlessLine(t *testing.T) {
	tests := []struct {
		name   string
		sample sample.Sample
		want   string
	}{
		{
			name: "all values",
			sample: sample.Sample{
				CPUPercent: 12.34, CPUReady: true,
				MemPercent: 45.6,
				Disks: map[string]sample.DiskStat{
					"/":     {Percent: 60},
					"/data": {Percent: 80.2},
				},
			},
			want: "CPU: 12.3%, MEM: 45.6%, DISK: 70.1%",
		},
		{
			name: "first tick has no cpu",
			sample: sample.Sample{
				MemPercent: 50,
				Disks:      map[string]sample.DiskStat{"/": {Percent: 10}},
			},
			want: "CPU: n/a, MEM: 50.0%, DISK: 10.0%",
		},
		{
			name:   "no disks",
			sample: sample.Sample{CPUPercent: 100, CPUReady: true, MemPercent: 0},
			want:   "CPU: 100.0%, MEM: 0.0%, DISK: n/a",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, headlessLine(&scheduler.State{Sample: tt.sample}))
		})
	}
}

// fakeFeed publishes states by hand.
type fakeFeed struct {
	mu      sync.Mutex
	latest  *scheduler.State
	updates chan struct{}
	done    chan struct{}
}

func newFakeFeed() *fakeFeed {
	return &fakeFeed{updates: make(chan struct{}, 1), done: make(chan struct{})}
}

func (f *fakeFeed) publish(seq uint64, mem float64) {
	f.mu.Lock()
	f.latest = &scheduler.State{Seq: seq, Sample: sample.Sample{MemPercent: mem}}
	f.mu.Unlock()
	select {
	case f.updates <- struct{}{}:
	default:
	}
}

func (f *fakeFeed) Latest() *scheduler.State {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.latest
}

func (f *fakeFeed) Updates() <-chan struct{} { return f.updates }
func (f *fakeFeed) Done() <-chan struct{}    { return f.done }

// syncBuffer is a bytes.Buffer safe for one writer and one reader.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) Lines() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return strings.Split(strings.TrimSpace(b.buf.String()), "\n")
}

func TestRunHeadless_PrintsEachState(t *testing.T) {
	feed := newFakeFeed()
	out := &syncBuffer{}
	ctx, cancel := context.WithCancel(context.Background())

	errc := make(chan error, 1)
	go func() { errc <- runHeadless(ctx, feed, out) }()

	feed.publish(1, 10)
	require.Eventually(t, func() bool { return len(out.Lines()) == 1 && out.Lines()[0] != "" }, time.Second, 5*time.Millisecond)

	// A spurious wakeup with the same state prints nothing.
	feed.publish(1, 10)
	feed.publish(2, 20)
	require.Eventually(t, func() bool { return len(out.Lines()) == 2 }, time.Second, 5*time.Millisecond)

	cancel()
	require.NoError(t, <-errc)

	lines := out.Lines()
	assert.Contains(t, lines[0], "MEM: 10.0%")
	assert.Contains(t, lines[1], "MEM: 20.0%")
}

func TestRunHeadless_StopsWithScheduler(t *testing.T) {
	feed := newFakeFeed()
	close(feed.done)

	err := runHeadless(context.Background(), feed, &syncBuffer{})
	assert.NoError(t, err)
}

package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/rileyhilliard/resourcelight/internal/scheduler"
)

// stateFeed is the part of the scheduler headless mode reads from.
type stateFeed interface {
	Latest() *scheduler.State
	Updates() <-chan struct{}
	Done() <-chan struct{}
}

// runHeadless prints one summary line per published state until ctx is
// cancelled or the scheduler stops. Updates coalesce, so a slow writer
// skips states rather than queueing them.
func runHeadless(ctx context.Context, feed stateFeed, out io.Writer) error {
	var last uint64
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-feed.Done():
			return nil
		case <-feed.Updates():
			st := feed.Latest()
			if st == nil || st.Seq == last {
				continue
			}
			last = st.Seq
			if _, err := fmt.Fprintln(out, headlessLine(st)); err != nil {
				return err
			}
		}
	}
}

// headlessLine formats st as "CPU: 12.3%, MEM: 45.6%, DISK: 70.1%". DISK is
// the mean over the reported disks. Values not available yet print "n/a".
func headlessLine(st *scheduler.State) string {
	s := st.Sample

	cpu := "n/a"
	if s.CPUReady {
		cpu = fmt.Sprintf("%.1f%%", s.CPUPercent)
	}

	disk := "n/a"
	if avg, ok := s.DiskAverage(); ok {
		disk = fmt.Sprintf("%.1f%%", avg)
	}

	return fmt.Sprintf("CPU: %s, MEM: %.1f%%, DISK: %s", cpu, s.MemPercent, disk)
}

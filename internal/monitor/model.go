package monitor

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/rileyhilliard/resourcelight/internal/sample"
	"github.com/rileyhilliard/resourcelight/internal/scheduler"
	"github.com/rileyhilliard/resourcelight/internal/threshold"
)

// DefaultFrameInterval is the redraw period when none is configured (4 Hz).
const DefaultFrameInterval = 250 * time.Millisecond

// Backend is the part of the scheduler the dashboard reads from and sends
// commands to. *scheduler.Scheduler implements it.
type Backend interface {
	Latest() *scheduler.State
	Status() scheduler.Status
	Send(cmd scheduler.Command) bool
}

// Options configures the dashboard.
type Options struct {
	// FrameInterval is how often the dashboard polls for a new state.
	FrameInterval time.Duration
	// Mono marks severity with text tags instead of color alone.
	Mono bool
	// Cancel, if set, is called when the user quits.
	Cancel context.CancelFunc
	// Reload, if set, is run when the user presses the reload key.
	Reload func() error
}

// Model is the Bubble Tea model for the dashboard.
type Model struct {
	backend Backend
	opts    Options
	theme   Theme
	keys    KeyMap
	help    help.Model
	spinner spinner.Model

	state   *scheduler.State
	lastSeq uint64
	status  scheduler.Status

	width     int
	height    int
	showHelp  bool
	diskIndex int
	notice    string
	quitting  bool

	cache *frameCache
}

// frameMsg triggers a poll of the scheduler's latest state.
type frameMsg time.Time

// reloadMsg carries the result of a config reload.
type reloadMsg struct {
	err error
}

// frameKey identifies everything a frame depends on. Two equal keys
// produce identical frames.
type frameKey struct {
	seq      uint64
	width    int
	height   int
	help     bool
	disk     int
	runState scheduler.RunState
	sortKey  threshold.SortKey
	logging  bool
	notice   string
	spinner  string
}

// frameCache holds the last rendered frame. It is shared by all copies of
// a Model so View can reuse it.
type frameCache struct {
	key     frameKey
	frame   string
	valid   bool
	renders int
}

// NewModel creates a dashboard reading from backend.
func NewModel(backend Backend, opts Options) Model {
	if opts.FrameInterval <= 0 {
		opts.FrameInterval = DefaultFrameInterval
	}

	h := help.New()
	h.ShortSeparator = " · "
	h.Styles.ShortKey = lipgloss.NewStyle().Foreground(ColorTextSecondary).Bold(true)
	h.Styles.ShortDesc = FooterStyle
	h.Styles.ShortSeparator = FooterStyle
	h.Styles.FullKey = lipgloss.NewStyle().Foreground(ColorTextPrimary).Bold(true)
	h.Styles.FullDesc = lipgloss.NewStyle().Foreground(ColorTextSecondary)
	h.Styles.FullSeparator = FooterStyle

	sp := spinner.New(
		spinner.WithSpinner(spinner.MiniDot),
		spinner.WithStyle(lipgloss.NewStyle().Foreground(ColorAccent)),
	)

	return Model{
		backend: backend,
		opts:    opts,
		theme:   Theme{Mono: opts.Mono},
		keys:    DefaultKeyMap(),
		help:    h,
		spinner: sp,
		status:  backend.Status(),
		cache:   &frameCache{},
	}
}

// Init starts the frame ticker and the waiting spinner.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		m.frameCmd(),
		m.spinner.Tick,
	)
}

// Update handles messages and updates the model state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		handled, cmd := m.HandleKeyMsg(msg)
		if handled {
			return m, cmd
		}

	case tea.WindowSizeMsg:
		// The frame key includes the size, so the next View re-renders.
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width

	case frameMsg:
		if m.quitting {
			return m, nil
		}
		m.refresh()
		return m, m.frameCmd()

	case spinner.TickMsg:
		if m.state != nil {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case reloadMsg:
		if msg.err != nil {
			m.notice = "reload failed: " + firstLine(msg.err.Error())
		} else {
			m.notice = "config reloaded"
		}
	}

	return m, nil
}

// View renders the dashboard. An unchanged frame key returns the cached
// frame without rendering.
func (m Model) View() string {
	if m.quitting {
		return ""
	}
	if m.width <= 0 || m.height <= 0 {
		return ""
	}

	key := m.frameKey()
	if m.cache.valid && m.cache.key == key {
		return m.cache.frame
	}

	frame := m.renderDashboard()
	m.cache.key = key
	m.cache.frame = frame
	m.cache.valid = true
	m.cache.renders++
	return frame
}

// frameCmd schedules the next frame.
func (m Model) frameCmd() tea.Cmd {
	return tea.Tick(m.opts.FrameInterval, func(t time.Time) tea.Msg {
		return frameMsg(t)
	})
}

// refresh pulls the scheduler's current status and latest state.
func (m *Model) refresh() {
	m.status = m.backend.Status()
	m.accept(m.backend.Latest())
}

// accept adopts st if it is newer than the state on screen. The dashboard
// never goes backwards: older or repeated sequence numbers are ignored.
func (m *Model) accept(st *scheduler.State) bool {
	if st == nil || st.Seq <= m.lastSeq {
		return false
	}
	m.state = st
	m.lastSeq = st.Seq
	if disks := m.disks(); m.diskIndex >= len(disks) {
		m.diskIndex = 0
	}
	return true
}

func (m Model) frameKey() frameKey {
	k := frameKey{
		seq:      m.lastSeq,
		width:    m.width,
		height:   m.height,
		help:     m.showHelp,
		disk:     m.diskIndex,
		runState: m.status.State,
		sortKey:  m.status.SortKey,
		logging:  m.status.Logging,
		notice:   m.notice,
	}
	if m.state == nil {
		k.spinner = m.spinner.View()
	}
	return k
}

// disks returns the monitored disk paths in the current state, sorted.
func (m Model) disks() []string {
	if m.state == nil {
		return nil
	}
	paths := make([]string, 0, len(m.state.Sample.Disks))
	for p := range m.state.Sample.Disks {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}

// selectedDisk returns the disk shown in the trend panel, if any.
func (m Model) selectedDisk() (string, bool) {
	disks := m.disks()
	if len(disks) == 0 {
		return "", false
	}
	return disks[m.diskIndex%len(disks)], true
}

// interfaces returns the network interfaces in the current state, sorted.
func (m Model) interfaces() []string {
	if m.state == nil {
		return nil
	}
	names := make([]string, 0, len(m.state.Sample.Net))
	for n := range m.state.Sample.Net {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// levelFor returns the threshold level that applies to key.
func (m Model) levelFor(key string) threshold.Level {
	set := m.status.Thresholds
	if m.state != nil {
		set = m.state.Thresholds
	}
	switch sample.CategoryOf(key) {
	case sample.CategoryCPU:
		return set.CPU
	case sample.CategoryMemory:
		return set.Memory
	case sample.CategoryDisk:
		return set.Disk
	default:
		return threshold.Level{Warning: 101, Critical: 101}
	}
}

func firstLine(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[:i]
	}
	return strings.TrimSpace(strings.TrimPrefix(s, "✗"))
}

package monitor

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/rileyhilliard/resourcelight/internal/scheduler"
)

// KeyMap lists the dashboard's key bindings. It satisfies help.KeyMap.
type KeyMap struct {
	Quit    key.Binding
	Pause   key.Binding
	Sort    key.Binding
	Disk    key.Binding
	Reload  key.Binding
	Logging key.Binding
	Help    key.Binding
	Close   key.Binding
}

// DefaultKeyMap returns the standard bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
		Pause: key.NewBinding(
			key.WithKeys("p", " "),
			key.WithHelp("p/space", "pause"),
		),
		Sort: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "sort"),
		),
		Disk: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "next disk"),
		),
		Reload: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "reload config"),
		),
		Logging: key.NewBinding(
			key.WithKeys("l"),
			key.WithHelp("l", "toggle logging"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
		Close: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "close help"),
		),
	}
}

// ShortHelp is shown in the footer.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Pause, k.Sort, k.Disk, k.Help, k.Quit}
}

// FullHelp is shown in the help overlay.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Pause, k.Sort, k.Disk},
		{k.Reload, k.Logging},
		{k.Help, k.Close, k.Quit},
	}
}

// HandleKeyMsg processes keyboard input. It returns true if the key was
// handled; unbound keys are ignored.
func (m *Model) HandleKeyMsg(msg tea.KeyMsg) (bool, tea.Cmd) {
	// Help toggle takes priority
	if key.Matches(msg, m.keys.Help) {
		m.showHelp = !m.showHelp
		return true, nil
	}

	if m.showHelp && key.Matches(msg, m.keys.Close) {
		m.showHelp = false
		return true, nil
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		m.backend.Send(scheduler.Stop())
		if m.opts.Cancel != nil {
			m.opts.Cancel()
		}
		return true, tea.Quit

	case key.Matches(msg, m.keys.Pause):
		m.send(scheduler.TogglePause())
		return true, nil

	case key.Matches(msg, m.keys.Sort):
		m.send(scheduler.CycleSort())
		return true, nil

	case key.Matches(msg, m.keys.Disk):
		if disks := m.disks(); len(disks) > 0 {
			m.diskIndex = (m.diskIndex + 1) % len(disks)
		}
		return true, nil

	case key.Matches(msg, m.keys.Reload):
		if m.opts.Reload == nil {
			m.notice = "reload is not available"
			return true, nil
		}
		return true, m.reloadCmd()

	case key.Matches(msg, m.keys.Logging):
		m.send(scheduler.ToggleLogging())
		return true, nil
	}

	return false, nil
}

// send forwards cmd to the scheduler and surfaces a dropped command in the
// footer.
func (m *Model) send(cmd scheduler.Command) {
	if m.backend.Send(cmd) {
		m.notice = ""
		return
	}
	m.notice = cmd.Kind.String() + " dropped, try again"
}

// reloadCmd runs the reload callback off the event loop.
func (m *Model) reloadCmd() tea.Cmd {
	reload := m.opts.Reload
	return func() tea.Msg {
		return reloadMsg{err: reload()}
	}
}

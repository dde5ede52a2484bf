package monitor

import (
	"fmt"
	"testing"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rileyhilliard/resourcelight/internal/scheduler"
)

func runeKey(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}

func TestKeyMap_ShortHelp(t *testing.T) {
	keys := DefaultKeyMap()
	assert.Len(t, keys.ShortHelp(), 5) // Pause, Sort, Disk, Help, Quit
}

func TestKeyMap_FullHelp(t *testing.T) {
	keys := DefaultKeyMap()
	help := keys.FullHelp()
	require.Len(t, help, 3)

	total := 0
	for _, group := range help {
		total += len(group)
	}
	assert.Equal(t, 8, total, "every binding appears in the overlay")
}

func TestKeyMap_Matches(t *testing.T) {
	keys := DefaultKeyMap()

	tests := []struct {
		name    string
		msg     tea.KeyMsg
		binding key.Binding
	}{
		{"q quits", runeKey('q'), keys.Quit},
		{"ctrl+c quits", tea.KeyMsg{Type: tea.KeyCtrlC}, keys.Quit},
		{"p pauses", runeKey('p'), keys.Pause},
		{"space pauses", tea.KeyMsg{Type: tea.KeySpace}, keys.Pause},
		{"s sorts", runeKey('s'), keys.Sort},
		{"d cycles disks", runeKey('d'), keys.Disk},
		{"r reloads", runeKey('r'), keys.Reload},
		{"l toggles logging", runeKey('l'), keys.Logging},
		{"? shows help", runeKey('?'), keys.Help},
		{"esc closes", tea.KeyMsg{Type: tea.KeyEsc}, keys.Close},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.True(t, key.Matches(tt.msg, tt.binding))
		})
	}
}

func TestHandleKeyMsg_SendsCommands(t *testing.T) {
	tests := []struct {
		name string
		msg  tea.KeyMsg
		want scheduler.CommandKind
	}{
		{"pause", runeKey('p'), scheduler.CmdTogglePause},
		{"space", tea.KeyMsg{Type: tea.KeySpace}, scheduler.CmdTogglePause},
		{"sort", runeKey('s'), scheduler.CmdCycleSort},
		{"logging", runeKey('l'), scheduler.CmdToggleLogging},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			backend := newFakeBackend()
			m := NewModel(backend, Options{})

			handled, cmd := m.HandleKeyMsg(tt.msg)
			assert.True(t, handled)
			assert.Nil(t, cmd)
			assert.Equal(t, []scheduler.CommandKind{tt.want}, backend.kinds())
		})
	}
}

func TestHandleKeyMsg_Quit(t *testing.T) {
	backend := newFakeBackend()
	cancelled := false
	m := NewModel(backend, Options{Cancel: func() { cancelled = true }})

	handled, cmd := m.HandleKeyMsg(runeKey('q'))
	assert.True(t, handled)
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
	assert.True(t, m.quitting)
	assert.True(t, cancelled)
	assert.Equal(t, []scheduler.CommandKind{scheduler.CmdStop}, backend.kinds())
}

func TestHandleKeyMsg_Help(t *testing.T) {
	backend := newFakeBackend()
	m := NewModel(backend, Options{})

	handled, _ := m.HandleKeyMsg(runeKey('?'))
	assert.True(t, handled)
	assert.True(t, m.showHelp)

	handled, _ = m.HandleKeyMsg(tea.KeyMsg{Type: tea.KeyEsc})
	assert.True(t, handled)
	assert.False(t, m.showHelp)

	// Esc with no help open does nothing
	handled, _ = m.HandleKeyMsg(tea.KeyMsg{Type: tea.KeyEsc})
	assert.False(t, handled)

	m.HandleKeyMsg(runeKey('?'))
	m.HandleKeyMsg(runeKey('?'))
	assert.False(t, m.showHelp)
	assert.Empty(t, backend.kinds())
}

func TestHandleKeyMsg_CycleDisk(t *testing.T) {
	m := NewModel(newFakeBackend(), Options{})

	// No state yet: nothing to cycle
	handled, _ := m.HandleKeyMsg(runeKey('d'))
	assert.True(t, handled)
	assert.Equal(t, 0, m.diskIndex)

	m.accept(testState(t, 1, 10))
	disk, _ := m.selectedDisk()
	assert.Equal(t, "/", disk)

	m.HandleKeyMsg(runeKey('d'))
	disk, _ = m.selectedDisk()
	assert.Equal(t, "/data", disk)

	m.HandleKeyMsg(runeKey('d'))
	disk, _ = m.selectedDisk()
	assert.Equal(t, "/", disk, "cycling wraps around")
}

func TestHandleKeyMsg_Reload(t *testing.T) {
	t.Run("no reload callback", func(t *testing.T) {
		m := NewModel(newFakeBackend(), Options{})
		handled, cmd := m.HandleKeyMsg(runeKey('r'))
		assert.True(t, handled)
		assert.Nil(t, cmd)
		assert.Equal(t, "reload is not available", m.notice)
	})

	t.Run("reload runs as a command", func(t *testing.T) {
		calls := 0
		m := NewModel(newFakeBackend(), Options{Reload: func() error {
			calls++
			return fmt.Errorf("bad yaml")
		}})

		handled, cmd := m.HandleKeyMsg(runeKey('r'))
		assert.True(t, handled)
		require.NotNil(t, cmd)
		assert.Equal(t, 0, calls, "reload must not run on the event loop")

		msg := cmd()
		assert.Equal(t, 1, calls)
		assert.Equal(t, reloadMsg{err: fmt.Errorf("bad yaml")}, msg)
	})
}

func TestHandleKeyMsg_DroppedCommand(t *testing.T) {
	backend := newFakeBackend()
	backend.reject = true
	m := NewModel(backend, Options{})

	m.HandleKeyMsg(runeKey('p'))
	assert.Equal(t, "toggle-pause dropped, try again", m.notice)

	backend.reject = false
	m.HandleKeyMsg(runeKey('s'))
	assert.Empty(t, m.notice)
}

func TestHandleKeyMsg_UnboundKey(t *testing.T) {
	backend := newFakeBackend()
	m := NewModel(backend, Options{})

	handled, cmd := m.HandleKeyMsg(runeKey('x'))
	assert.False(t, handled)
	assert.Nil(t, cmd)
	assert.Empty(t, backend.kinds())
}

package monitor

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/rileyhilliard/resourcelight/internal/threshold"
)

// Help overlay styles
var (
	helpBoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorAccent).
			Padding(1, 2)

	helpTitleStyle = lipgloss.NewStyle().
			Foreground(ColorAccent).
			Bold(true).
			MarginBottom(1)

	helpKeyStyle = lipgloss.NewStyle().
			Foreground(ColorTextPrimary).
			Bold(true).
			Width(10)

	helpDescStyle = lipgloss.NewStyle().
			Foreground(ColorTextSecondary)
)

// renderHelpOverlay renders a centered help box with the key bindings and
// the thresholds in effect.
func (m Model) renderHelpOverlay() string {
	var lines []string
	lines = append(lines, helpTitleStyle.Render("Keyboard Shortcuts"))

	for _, group := range m.keys.FullHelp() {
		for _, b := range group {
			h := b.Help()
			lines = append(lines, helpKeyStyle.Render(h.Key)+helpDescStyle.Render(h.Desc))
		}
	}

	lines = append(lines, "")
	lines = append(lines, helpTitleStyle.Render("Thresholds"))
	set := m.status.Thresholds
	lines = append(lines,
		thresholdLine("cpu", set.CPU),
		thresholdLine("mem", set.Memory),
		thresholdLine("disk", set.Disk),
	)

	lines = append(lines, "")
	lines = append(lines, LabelStyle.Render(fmt.Sprintf("Sampling every %s. Press ? to close", m.status.Interval)))

	helpBox := helpBoxStyle.Render(strings.Join(lines, "\n"))

	return lipgloss.Place(
		m.width,
		m.height,
		lipgloss.Center,
		lipgloss.Center,
		helpBox,
		lipgloss.WithWhitespaceChars(" "),
	)
}

func thresholdLine(name string, lvl threshold.Level) string {
	return helpKeyStyle.Render(name) + helpDescStyle.Render(
		fmt.Sprintf("warn %.0f%%  crit %.0f%%", lvl.Warning, lvl.Critical))
}

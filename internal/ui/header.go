package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
)

// ConfigBanner summarizes where the effective config came from.
type ConfigBanner struct {
	Version  string
	Source   string // config file path, empty when running on defaults
	Interval time.Duration
	History  int
}

const minBannerWidth = 32

// RenderConfigBanner renders the title block printed above `config show`.
// The divider stretches to the widest line.
func RenderConfigBanner(b ConfigBanner) string {
	title := lipgloss.NewStyle().Foreground(ColorNeonPink).Bold(true).Render("resourcelight")
	if b.Version != "" {
		title += " " + lipgloss.NewStyle().Foreground(ColorNeonCyan).Render(b.Version)
	}

	source := "source: " + b.Source
	if b.Source == "" {
		source = lipgloss.NewStyle().Foreground(ColorWarning).Render("source: defaults (no config file found)")
	}

	lines := []string{title, source}
	if b.Interval > 0 && b.History > 0 {
		window := b.Interval * time.Duration(b.History)
		lines = append(lines, Muted(fmt.Sprintf("sampling every %s, trends cover %s", b.Interval, window)))
	}

	width := minBannerWidth
	for _, l := range lines {
		if w := lipgloss.Width(l); w > width {
			width = w
		}
	}
	lines = append(lines, lipgloss.NewStyle().Foreground(ColorGlassBorder).Render(strings.Repeat("━", width)))

	return strings.Join(lines, "\n") + "\n"
}

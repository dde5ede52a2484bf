package monitor

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/rileyhilliard/resourcelight/internal/threshold"
)

// Severity colors use the basic ANSI palette so they survive 16-color
// terminals.
const (
	ColorNormal   = lipgloss.Color("2") // Green
	ColorWarning  = lipgloss.Color("3") // Yellow
	ColorCritical = lipgloss.Color("1") // Red
)

// Chrome colors for borders, titles and secondary text.
const (
	ColorBorder        = lipgloss.Color("#2A2A4A") // Glass border (purple tint)
	ColorTextPrimary   = lipgloss.Color("#FFFFFF")
	ColorTextSecondary = lipgloss.Color("#B4B4D0") // Lavender gray
	ColorTextMuted     = lipgloss.Color("#6B6B8D") // Purple-gray
	ColorAccent        = lipgloss.Color("#FF2E97") // Neon pink
	ColorGraph         = lipgloss.Color("#00FFFF") // Neon cyan
)

// Base styles for the dashboard
var (
	HeaderStyle = lipgloss.NewStyle().
			Foreground(ColorTextPrimary).
			Bold(true)

	FooterStyle = lipgloss.NewStyle().
			Foreground(ColorTextMuted)

	LabelStyle = lipgloss.NewStyle().
			Foreground(ColorTextSecondary)

	ValueStyle = lipgloss.NewStyle().
			Foreground(ColorTextPrimary)

	MutedStyle = lipgloss.NewStyle().
			Foreground(ColorTextMuted)

	NoticeStyle = lipgloss.NewStyle().
			Foreground(ColorAccent)
)

// Run state glyphs shown in the header.
const (
	StatusRunning = "◉"
	StatusPaused  = "◐"
	StatusStopped = "◌"
)

// SeverityColor maps a severity to its ANSI color.
func SeverityColor(sev threshold.Severity) lipgloss.Color {
	switch sev {
	case threshold.Critical:
		return ColorCritical
	case threshold.Warning:
		return ColorWarning
	default:
		return ColorNormal
	}
}

// SeverityStyle returns a foreground style for sev. Critical values are
// also bold.
func SeverityStyle(sev threshold.Severity) lipgloss.Style {
	s := lipgloss.NewStyle().Foreground(SeverityColor(sev))
	if sev == threshold.Critical {
		s = s.Bold(true)
	}
	return s
}

// Theme decides how severity reaches the screen. In color mode it is the
// foreground color; in monochrome mode it is a text tag plus bold for
// anything above normal.
type Theme struct {
	Mono bool
}

// Paint renders text in the style for sev.
func (t Theme) Paint(text string, sev threshold.Severity) string {
	if text == "" {
		return ""
	}
	if t.Mono {
		if sev == threshold.Normal {
			return text
		}
		// termenv.String always emits ANSI, so bold survives an Ascii
		// lipgloss profile.
		return termenv.String(text).Bold().String()
	}
	return SeverityStyle(sev).Render(text)
}

// Tag returns the severity tag (with a leading space) in monochrome mode,
// or "" in color mode.
func (t Theme) Tag(sev threshold.Severity) string {
	if !t.Mono {
		return ""
	}
	return " " + sev.Tag()
}

// TagWidth is the display width reserved for Tag.
func (t Theme) TagWidth() int {
	if !t.Mono {
		return 0
	}
	return 1 + lipgloss.Width(threshold.Warning.Tag())
}

// ProgressBar renders a bar of the given width filled to percent, colored
// by sev.
func ProgressBar(width int, percent float64, sev threshold.Severity, theme Theme) string {
	if width < 1 {
		width = 1
	}

	if percent < 0 {
		percent = 0
	}
	if percent > 100 {
		percent = 100
	}

	filled := int(percent / 100.0 * float64(width))
	if filled > width {
		filled = width
	}

	return theme.Paint(strings.Repeat("▰", filled), sev) +
		MutedStyle.Render(strings.Repeat("▱", width-filled))
}

// EmptyBar renders an unfilled bar for values that are not available yet.
func EmptyBar(width int) string {
	if width < 1 {
		width = 1
	}
	return MutedStyle.Render(strings.Repeat("▱", width))
}

// SectionHeader renders a section header with the title on the left and value on the right.
// Format: ╭─ Title ────────────────────────────────────── Value ╮
func SectionHeader(title, value string, width int) string {
	if width < 10 {
		width = 10
	}

	// Left: "╭─ " + title + " "
	leftWidth := 3 + lipgloss.Width(title) + 1
	// Right: " " + value + " ╮"
	rightWidth := 1 + lipgloss.Width(value) + 2

	fillWidth := width - leftWidth - rightWidth
	if fillWidth < 1 {
		fillWidth = 1
	}
	middle := strings.Repeat("─", fillWidth)

	borderStyle := lipgloss.NewStyle().Foreground(ColorBorder)
	titleStyle := lipgloss.NewStyle().Foreground(ColorAccent).Bold(true)
	valueStyle := lipgloss.NewStyle().Foreground(ColorGraph).Bold(true)

	return borderStyle.Render("╭─ ") +
		titleStyle.Render(title) +
		borderStyle.Render(" "+middle+" ") +
		valueStyle.Render(value) +
		borderStyle.Render(" ╮")
}

// SectionFooter renders the bottom border of a section.
// Format: ╰────────────────────────────────────────────────────╯
func SectionFooter(width int) string {
	if width < 2 {
		width = 2
	}
	borderStyle := lipgloss.NewStyle().Foreground(ColorBorder)
	return borderStyle.Render("╰" + strings.Repeat("─", width-2) + "╯")
}

// SectionContentLine renders a content line with left and right borders, padded to width.
// Content wider than the section is cut.
// Format: │ content                                              │
func SectionContentLine(content string, width int) string {
	if width < 4 {
		width = 4
	}

	borderStyle := lipgloss.NewStyle().Foreground(ColorBorder)
	innerWidth := width - 4

	if lipgloss.Width(content) > innerWidth {
		content = lipgloss.NewStyle().MaxWidth(innerWidth).Render(content)
	}
	padding := innerWidth - lipgloss.Width(content)
	if padding < 0 {
		padding = 0
	}

	return borderStyle.Render("│") + " " + content + strings.Repeat(" ", padding) + " " + borderStyle.Render("│")
}

package monitor

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"

	"github.com/rileyhilliard/resourcelight/internal/threshold"
)

func TestSeverityColor(t *testing.T) {
	tests := []struct {
		sev  threshold.Severity
		want lipgloss.Color
	}{
		{threshold.Normal, lipgloss.Color("2")},
		{threshold.Warning, lipgloss.Color("3")},
		{threshold.Critical, lipgloss.Color("1")},
	}

	for _, tt := range tests {
		t.Run(tt.sev.String(), func(t *testing.T) {
			assert.Equal(t, tt.want, SeverityColor(tt.sev))
		})
	}
}

func TestTheme_Paint(t *testing.T) {
	color := Theme{}
	assert.Contains(t, color.Paint("42%", threshold.Normal), "\x1b[32m")
	assert.Contains(t, color.Paint("80%", threshold.Warning), "\x1b[33m")
	assert.Contains(t, color.Paint("95%", threshold.Critical), "95%")
	assert.Empty(t, color.Paint("", threshold.Critical))

	mono := Theme{Mono: true}
	assert.Equal(t, "42%", mono.Paint("42%", threshold.Normal))
	assert.Equal(t, "\x1b[1m80%\x1b[0m", mono.Paint("80%", threshold.Warning))
	assert.Equal(t, "\x1b[1m95%\x1b[0m", mono.Paint("95%", threshold.Critical))
}

func TestTheme_Tag(t *testing.T) {
	color := Theme{}
	assert.Empty(t, color.Tag(threshold.Critical))
	assert.Equal(t, 0, color.TagWidth())

	mono := Theme{Mono: true}
	assert.Equal(t, " [ok]", mono.Tag(threshold.Normal))
	assert.Equal(t, " [warn]", mono.Tag(threshold.Warning))
	assert.Equal(t, " [CRIT]", mono.Tag(threshold.Critical))
	assert.Equal(t, 7, mono.TagWidth())
}

func TestProgressBar(t *testing.T) {
	tests := []struct {
		name       string
		width      int
		percent    float64
		wantFilled int
		wantWidth  int
	}{
		{"empty", 10, 0, 0, 10},
		{"half", 10, 50, 5, 10},
		{"full", 10, 100, 10, 10},
		{"clamped high", 10, 150, 10, 10},
		{"clamped low", 10, -5, 0, 10},
		{"minimum width", 0, 50, 0, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bar := ProgressBar(tt.width, tt.percent, threshold.Normal, Theme{})
			assert.Equal(t, tt.wantWidth, lipgloss.Width(bar))
			assert.Equal(t, tt.wantFilled, strings.Count(bar, "▰"))
		})
	}
}

func TestEmptyBar(t *testing.T) {
	bar := EmptyBar(6)
	assert.Equal(t, 6, lipgloss.Width(bar))
	assert.Equal(t, 6, strings.Count(bar, "▱"))
	assert.Equal(t, 1, lipgloss.Width(EmptyBar(0)))
}

func TestSectionHeader(t *testing.T) {
	header := SectionHeader("Trends", "last 60 samples", 50)
	assert.Equal(t, 50, lipgloss.Width(header))
	assert.Contains(t, header, "Trends")
	assert.Contains(t, header, "last 60 samples")
	assert.Contains(t, header, "╭─")
	assert.Contains(t, header, "╮")
}

func TestSectionFooter(t *testing.T) {
	footer := SectionFooter(30)
	assert.Equal(t, 30, lipgloss.Width(footer))
	assert.Contains(t, footer, "╰")
	assert.Contains(t, footer, "╯")
}

func TestSectionContentLine(t *testing.T) {
	line := SectionContentLine("hello", 20)
	assert.Equal(t, 20, lipgloss.Width(line))
	assert.Contains(t, line, "hello")

	long := SectionContentLine(strings.Repeat("x", 40), 20)
	assert.Equal(t, 20, lipgloss.Width(long), "content wider than the section is cut")
}

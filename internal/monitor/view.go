package monitor

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	"github.com/mattn/go-runewidth"

	"github.com/rileyhilliard/resourcelight/internal/sample"
	"github.com/rileyhilliard/resourcelight/internal/scheduler"
	"github.com/rileyhilliard/resourcelight/internal/threshold"
)

// Gauge line geometry.
const (
	gaugeLabelWidth = 12
	gaugeValueWidth = 6 // "100.0%"
	minBarWidth     = 5
	netSparkWidth   = 12
)

// renderDashboard renders the complete dashboard view.
func (m Model) renderDashboard() string {
	if m.showHelp {
		return m.renderHelpOverlay()
	}
	if m.state == nil {
		return m.renderWaiting()
	}

	gauges := m.renderGauges()
	layout := PlanLayout(m.height, m.width, len(gauges))

	lines := make([]string, 0, m.height)
	if layout.Header > 0 {
		lines = append(lines, m.renderHeader())
	}
	lines = append(lines, gauges[:layout.Gauges]...)
	if layout.ShowTrends() {
		lines = append(lines, m.renderTrends(layout.Trends)...)
	}
	if layout.ShowProcesses() {
		lines = append(lines, m.renderProcesses(layout.Processes)...)
	}
	if layout.Footer > 0 {
		for len(lines) < m.height-layout.Footer {
			lines = append(lines, "")
		}
		lines = append(lines, m.renderFooter())
	}

	return m.clip(lines)
}

// clip cuts every line to the terminal width.
func (m Model) clip(lines []string) string {
	style := lipgloss.NewStyle().MaxWidth(m.width)
	for i, l := range lines {
		if lipgloss.Width(l) > m.width {
			lines[i] = style.Render(l)
		}
	}
	return strings.Join(lines, "\n")
}

// renderHeader renders the title line: clock, run state, sequence number,
// sort key and logging state.
func (m Model) renderHeader() string {
	title := lipgloss.NewStyle().
		Foreground(ColorAccent).
		Bold(true).
		Render("resourcelight")

	parts := []string{}
	if m.state != nil {
		parts = append(parts, m.state.Sample.Timestamp.Format("15:04:05"))
	}
	parts = append(parts, m.renderRunState())
	if m.state != nil {
		parts = append(parts, fmt.Sprintf("#%d", m.state.Seq))
	}
	parts = append(parts, "sort "+m.status.SortKey.String())
	if m.status.Logging {
		parts = append(parts, "log on")
	} else {
		parts = append(parts, "log off")
	}
	if m.state != nil && m.state.Overrun {
		parts = append(parts, m.theme.Paint(fmt.Sprintf("slow tick %s", m.state.TickDuration.Round(time.Millisecond)), threshold.Warning))
	}

	stats := LabelStyle.Render(" | ") +
		strings.Join(parts, LabelStyle.Render(" | "))

	return HeaderStyle.Render(title) + stats
}

func (m Model) renderRunState() string {
	switch m.status.State {
	case scheduler.Running:
		return m.theme.Paint(StatusRunning+" running", threshold.Normal)
	case scheduler.Paused:
		return m.theme.Paint(StatusPaused+" paused", threshold.Warning)
	case scheduler.Idle:
		return LabelStyle.Render(StatusPaused + " starting")
	default:
		return LabelStyle.Render(StatusStopped + " " + m.status.State.String())
	}
}

// renderWaiting is shown until the first state is published.
func (m Model) renderWaiting() string {
	body := m.spinner.View() + LabelStyle.Render(" collecting first sample")
	bodyHeight := m.height - headerRows - footerRows
	if bodyHeight < 1 {
		return m.clip([]string{body})
	}
	lines := []string{m.renderHeader()}
	lines = append(lines, strings.Split(lipgloss.Place(m.width, bodyHeight, lipgloss.Center, lipgloss.Center, body), "\n")...)
	lines = append(lines, m.renderFooter())
	return m.clip(lines)
}

// renderGauges returns one line per gauge: CPU, memory, each disk, then
// each network interface.
func (m Model) renderGauges() []string {
	smp := m.state.Sample
	lines := make([]string, 0, 2+len(smp.Disks)+len(smp.Net))

	lines = append(lines, m.renderGauge("CPU", smp.CPUPercent, smp.CPUReady, m.state.Severity(sample.KeyCPU), ""))
	lines = append(lines, m.renderGauge("MEM", smp.MemPercent, true, m.state.Severity(sample.KeyMem),
		formatUsage(smp.MemUsed, smp.MemTotal)))

	for _, path := range m.disks() {
		d := smp.Disks[path]
		lines = append(lines, m.renderGauge("DISK "+path, d.Percent, true, m.state.Severity(sample.DiskKey(path)),
			formatUsage(d.Used, d.Total)))
	}

	for _, iface := range m.interfaces() {
		lines = append(lines, m.renderNetLine(iface, smp.Net[iface]))
	}
	return lines
}

// renderGauge renders "LABEL  ▰▰▰▱▱▱ 42.0% [ok]  detail", dropping the
// detail when the terminal is too narrow for it.
func (m Model) renderGauge(label string, percent float64, ready bool, sev threshold.Severity, detail string) string {
	tagWidth := m.theme.TagWidth()
	fixed := gaugeLabelWidth + 1 + 1 + gaugeValueWidth + tagWidth

	barWidth := m.width - fixed
	if detail != "" {
		withDetail := barWidth - 2 - runewidth.StringWidth(detail)
		if withDetail >= minBarWidth {
			barWidth = withDetail
		} else {
			detail = ""
		}
	}
	if barWidth < 1 {
		barWidth = 1
	}

	var bar, value, tag string
	if ready {
		bar = ProgressBar(barWidth, percent, sev, m.theme)
		value = m.theme.Paint(fmt.Sprintf("%5.1f%%", percent), sev)
		tag = m.theme.Tag(sev)
	} else {
		bar = EmptyBar(barWidth)
		value = MutedStyle.Render(fmt.Sprintf("%6s", "n/a"))
	}
	if pad := tagWidth - lipgloss.Width(tag); pad > 0 {
		tag += strings.Repeat(" ", pad)
	}

	line := LabelStyle.Render(fitLabel(label, gaugeLabelWidth)) + " " + bar + " " + value + tag
	if detail != "" {
		line += "  " + MutedStyle.Render(detail)
	}
	return line
}

// renderNetLine renders receive and transmit rates for one interface with
// a small receive-rate trend when there is room.
func (m Model) renderNetLine(iface string, n sample.NetStat) string {
	rx, tx := "n/a", "n/a"
	if n.RateReady {
		rx = FormatRate(n.RxRate)
		tx = FormatRate(n.TxRate)
	}
	rates := fmt.Sprintf("↓ %-11s ↑ %-11s", rx, tx)

	line := LabelStyle.Render(fitLabel("NET "+iface, gaugeLabelWidth)) + " " + ValueStyle.Render(rates)
	room := m.width - lipgloss.Width(line) - 2
	if room >= netSparkWidth {
		series := m.state.History.Series(sample.NetKey(iface, sample.Rx))
		if spark := RenderMiniSparkline(series, netSparkWidth); spark != "" {
			line += "  " + spark
		}
	}
	return line
}

// renderTrends renders the braille history graphs for CPU, memory and the
// selected disk inside a section box of the given height.
func (m Model) renderTrends(height int) []string {
	type trend struct {
		label string
		key   string
	}
	trends := []trend{
		{"CPU", sample.KeyCPU},
		{"MEM", sample.KeyMem},
	}
	if path, ok := m.selectedDisk(); ok {
		trends = append(trends, trend{"DISK " + path, sample.DiskKey(path)})
	}

	inner := m.width - 4
	switch {
	case inner < 36 && len(trends) > 1:
		trends = trends[:1]
	case inner < 56 && len(trends) > 2:
		trends = trends[:2]
	}

	const gap = 2
	colWidth := (inner - gap*(len(trends)-1)) / len(trends)
	graphHeight := height - 3
	if colWidth < 1 || graphHeight < 1 {
		return nil
	}

	columns := make([][]string, len(trends))
	for i, t := range trends {
		series := m.state.History.Series(t.key)
		label := t.label
		if len(series) > 0 {
			last := series[len(series)-1]
			sev := m.state.Severity(t.key)
			label += " " + m.theme.Paint(fmt.Sprintf("%.1f%%", last), sev) + m.theme.Tag(sev)
		} else {
			label += MutedStyle.Render(" waiting")
		}

		if lipgloss.Width(label) > colWidth {
			label = lipgloss.NewStyle().MaxWidth(colWidth).Render(label)
		}
		col := []string{label}
		graph := RenderBrailleSparkline(series, colWidth, graphHeight, m.levelFor(t.key), m.theme)
		if graph != "" {
			col = append(col, strings.Split(graph, "\n")...)
		}
		columns[i] = col
	}

	window := fmt.Sprintf("last %d samples", m.state.History.Capacity())
	lines := []string{SectionHeader("Trends", window, m.width)}
	for row := 0; row < height-2; row++ {
		cells := make([]string, len(columns))
		for i, col := range columns {
			cell := ""
			if row < len(col) {
				cell = col[row]
			}
			cells[i] = padCell(cell, colWidth)
		}
		lines = append(lines, SectionContentLine(strings.Join(cells, strings.Repeat(" ", gap)), m.width))
	}
	return append(lines, SectionFooter(m.width))
}

// renderFooter renders the key hints, preceded by any pending notice.
func (m Model) renderFooter() string {
	hints := m.help.ShortHelpView(m.keys.ShortHelp())
	if m.notice == "" {
		return hints
	}
	return NoticeStyle.Render(m.notice) + FooterStyle.Render("  ") + hints
}

// fitLabel truncates s to width cells and pads it on the right.
func fitLabel(s string, width int) string {
	if width <= 0 {
		return ""
	}
	return runewidth.FillRight(runewidth.Truncate(s, width, "…"), width)
}

// padCell pads a styled string to width cells.
func padCell(s string, width int) string {
	if w := lipgloss.Width(s); w < width {
		return s + strings.Repeat(" ", width-w)
	}
	return s
}

// formatUsage renders "used / total" in binary units.
func formatUsage(used, total uint64) string {
	if total == 0 {
		return ""
	}
	return humanize.IBytes(used) + " / " + humanize.IBytes(total)
}

// FormatRate formats a bytes-per-second rate as a human-readable string.
func FormatRate(bytesPerSecond float64) string {
	if bytesPerSecond < 0 {
		bytesPerSecond = 0
	}
	return humanize.IBytes(uint64(bytesPerSecond)) + "/s"
}

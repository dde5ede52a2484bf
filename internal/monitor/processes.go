package monitor

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/rileyhilliard/resourcelight/internal/threshold"
)

// Process table column widths. The name column takes the rest.
const (
	pidColWidth     = 7
	percentColWidth = 6
	minNameColWidth = 8
	// Each bubbles table cell has one column of padding on either side.
	cellPadding = 2
)

// renderProcesses renders the top-N process table inside a section box of
// the given height.
func (m Model) renderProcesses(height int) []string {
	tableHeight := height - 2
	if tableHeight < 1 {
		return nil
	}

	inner := m.width - 4
	sortLabel := "sort: " + m.state.SortKey.String()
	lines := []string{SectionHeader("Processes", sortLabel, m.width)}

	var body []string
	if len(m.state.Processes) == 0 {
		body = []string{MutedStyle.Render("no process data")}
	} else {
		t := newProcessTable(m.state.Processes, m.state.SortKey, inner, tableHeight)
		body = strings.Split(t.View(), "\n")
	}

	for i := 0; i < tableHeight; i++ {
		cell := ""
		if i < len(body) {
			cell = body[i]
		}
		lines = append(lines, SectionContentLine(cell, m.width))
	}
	return append(lines, SectionFooter(m.width))
}

// newProcessTable builds a non-interactive bubbles table for procs that
// fits width cells and height rows including the header.
func newProcessTable(procs []threshold.ProcessInfo, sortKey threshold.SortKey, width, height int) table.Model {
	nameWidth := width - 4*cellPadding - pidColWidth - 2*percentColWidth
	if nameWidth < minNameColWidth {
		nameWidth = minNameColWidth
	}

	cpuTitle, memTitle := "CPU%", "MEM%"
	if sortKey == threshold.SortByMemory {
		memTitle = "MEM%▾"
	} else {
		cpuTitle = "CPU%▾"
	}

	columns := []table.Column{
		{Title: "PID", Width: pidColWidth},
		{Title: "NAME", Width: nameWidth},
		{Title: cpuTitle, Width: percentColWidth},
		{Title: memTitle, Width: percentColWidth},
	}

	rows := make([]table.Row, len(procs))
	for i, p := range procs {
		rows[i] = table.Row{
			fmt.Sprintf("%d", p.PID),
			runewidth.Truncate(p.Name, nameWidth, "…"),
			fmt.Sprintf("%5.1f", p.CPUPercent),
			fmt.Sprintf("%5.1f", p.MemPercent),
		}
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithRows(rows),
		table.WithFocused(false),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		Bold(true).
		Foreground(ColorTextSecondary)
	s.Cell = s.Cell.
		Foreground(ColorTextPrimary)
	// Unfocused: the cursor row looks like every other row.
	s.Selected = lipgloss.NewStyle()
	t.SetStyles(s)
	t.SetHeight(height)

	return t
}

package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"

	"github.com/rileyhilliard/resourcelight/internal/threshold"
)

// TableColumn defines a table column with name and width.
type TableColumn struct {
	Title string
	Width int
}

// NewTable creates a new Bubbles table with default styling.
func NewTable(columns []TableColumn, rows []table.Row) table.Model {
	cols := make([]table.Column, len(columns))
	for i, c := range columns {
		cols[i] = table.Column{
			Title: c.Title,
			Width: c.Width,
		}
	}

	t := table.New(
		table.WithColumns(cols),
		table.WithRows(rows),
		table.WithFocused(false),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(ColorMuted).
		BorderBottom(true).
		Bold(true).
		Foreground(ColorPrimary)
	s.Cell = s.Cell.
		Foreground(ColorPrimary)
	// Not interactive: the cursor row renders like the others.
	s.Selected = lipgloss.NewStyle()
	t.SetStyles(s)

	// Height includes the header and its bottom border.
	t.SetHeight(len(rows) + 2)
	return t
}

// RenderSimpleTable renders a non-interactive table string for CLI output.
func RenderSimpleTable(columns []TableColumn, rows [][]string) string {
	if len(rows) == 0 {
		return ""
	}

	tableRows := make([]table.Row, len(rows))
	for i, row := range rows {
		tableRows[i] = table.Row(row)
	}

	return NewTable(columns, tableRows).View()
}

// RenderThresholdTable renders the warning and critical levels per metric.
func RenderThresholdTable(set threshold.Set) string {
	columns := []TableColumn{
		{Title: "METRIC", Width: 8},
		{Title: "WARNING", Width: 9},
		{Title: "CRITICAL", Width: 9},
	}
	row := func(name string, lvl threshold.Level) []string {
		return []string{name, fmt.Sprintf("%.0f%%", lvl.Warning), fmt.Sprintf("%.0f%%", lvl.Critical)}
	}
	return RenderSimpleTable(columns, [][]string{
		row("cpu", set.CPU),
		row("mem", set.Memory),
		row("disk", set.Disk),
	})
}

// Check results.
const (
	CheckPass = "pass"
	CheckWarn = "warn"
	CheckFail = "fail"
)

// CheckRow is one line of `config validate` output.
type CheckRow struct {
	Status     string // CheckPass, CheckWarn or CheckFail
	Category   string
	Message    string
	Suggestion string // Shown for anything but a pass
}

// RenderChecks renders check results grouped by category, in first-seen
// category order.
func RenderChecks(rows []CheckRow) string {
	if len(rows) == 0 {
		return "No checks to display"
	}

	successStyle := lipgloss.NewStyle().Foreground(ColorSuccess)
	errorStyle := lipgloss.NewStyle().Foreground(ColorError)
	warnStyle := lipgloss.NewStyle().Foreground(ColorWarning)
	mutedStyle := lipgloss.NewStyle().Foreground(ColorMuted)
	headerStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(ColorPrimary)

	categories := make(map[string][]CheckRow)
	var order []string
	for _, row := range rows {
		if _, exists := categories[row.Category]; !exists {
			order = append(order, row.Category)
		}
		categories[row.Category] = append(categories[row.Category], row)
	}

	var output strings.Builder
	for _, cat := range order {
		output.WriteString(headerStyle.Render(cat) + "\n")

		for _, row := range categories[cat] {
			var icon string
			switch row.Status {
			case CheckPass:
				icon = successStyle.Render(SymbolSuccess)
			case CheckWarn:
				icon = warnStyle.Render(SymbolWarning)
			case CheckFail:
				icon = errorStyle.Render(SymbolFail)
			default:
				icon = mutedStyle.Render(SymbolPending)
			}

			output.WriteString("  " + icon + " " + row.Message + "\n")

			if row.Suggestion != "" && row.Status != CheckPass {
				output.WriteString("    " + mutedStyle.Render(row.Suggestion) + "\n")
			}
		}
		output.WriteString("\n")
	}

	return output.String()
}

// HasFailure reports whether any row failed.
func HasFailure(rows []CheckRow) bool {
	for _, r := range rows {
		if r.Status == CheckFail {
			return true
		}
	}
	return false
}

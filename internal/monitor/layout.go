package monitor

// Fixed chrome and panel minimums, in rows.
const (
	headerRows = 1
	footerRows = 1

	// Section border (2) + label line + one graph row.
	minTrendRows = 4
	// Section border (2) + table header + one process row.
	minProcessRows = 4

	// Panels below the gauges need at least this many columns.
	minPanelCols = 40

	// Share of the rows below the gauges given to trend graphs, in percent.
	trendShare = 40
)

// Layout is the row budget for one frame.
type Layout struct {
	Width int

	Header    int
	Gauges    int
	Trends    int
	Processes int
	Footer    int

	// GaugesTruncated is set when not every gauge line fits.
	GaugesTruncated bool
}

// ShowTrends reports whether the trend panel gets any rows.
func (l Layout) ShowTrends() bool { return l.Trends > 0 }

// ShowProcesses reports whether the process table gets any rows.
func (l Layout) ShowProcesses() bool { return l.Processes > 0 }

// Total returns the number of rows the layout uses.
func (l Layout) Total() int {
	return l.Header + l.Gauges + l.Trends + l.Processes + l.Footer
}

// PlanLayout divides a rows x cols terminal between the panels. Header and
// footer come first, then as many gauge lines as fit. What is left is split
// between trend graphs and the process table; when it is too small the
// process table is dropped first, then the trend graphs. A terminal of any
// size gets a layout, possibly an empty one.
func PlanLayout(rows, cols, gaugeLines int) Layout {
	l := Layout{Width: cols}
	if rows <= 0 || cols <= 0 {
		l.Width = 0
		l.GaugesTruncated = gaugeLines > 0
		return l
	}
	if gaugeLines < 0 {
		gaugeLines = 0
	}

	l.Header = min(headerRows, rows)
	rows -= l.Header
	l.Footer = min(footerRows, rows)
	rows -= l.Footer

	l.Gauges = min(gaugeLines, rows)
	l.GaugesTruncated = l.Gauges < gaugeLines
	rest := rows - l.Gauges

	if cols < minPanelCols {
		return l
	}

	switch {
	case rest >= minTrendRows+minProcessRows:
		l.Trends = max(rest*trendShare/100, minTrendRows)
		l.Processes = rest - l.Trends
		if l.Processes < minProcessRows {
			l.Processes = minProcessRows
			l.Trends = rest - minProcessRows
		}
	case rest >= minTrendRows:
		l.Trends = rest
	}
	return l
}

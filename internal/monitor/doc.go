// Package monitor implements the live TUI dashboard for local host metrics.
//
// The dashboard displays CPU, memory, disk and network utilization with
// color-coded severity, braille trend graphs and a top-process table, and
// adapts its layout to the terminal size.
//
// # Architecture
//
// The package uses the Bubble Tea framework, which follows The Elm Architecture
// (Model-Update-View pattern):
//
//   - Model: Holds what is on screen (last state, size, help and disk selection)
//   - Update: Processes messages (keystrokes, frame ticks, resizes)
//   - View: Renders the current state to a string for display
//
// Sampling happens elsewhere. The Model only reads the scheduler's latest
// published state, so a slow poll never stalls the screen.
//
// # Message Flow
//
//  1. frameMsg fires at the frame interval (default 250ms)
//  2. The model reads Backend.Latest and Backend.Status
//  3. A state whose sequence number is not newer than the one on screen is
//     ignored
//  4. View() renders the frame, or returns the cached one if nothing it
//     depends on changed
//
// # Layout
//
// PlanLayout gives the header and footer one row each, then the gauge
// lines. The rest is split 40/60 between trend graphs and the process
// table. Small terminals lose the process table first, then the trends.
//
// # Monochrome
//
// With no color profile, severity is marked with [ok], [warn] and [CRIT]
// tags and bold text instead of green, yellow and red.
//
// # Keyboard Shortcuts
//
//	q, Ctrl+C   - Quit
//	p, Space    - Pause / resume sampling
//	s           - Cycle process sort key (cpu/memory)
//	d           - Show the next disk in the trend panel
//	r           - Reload the config file
//	l           - Toggle file logging
//	?           - Toggle help overlay
//	Esc         - Close help
package monitor

// Package ui provides styled terminal output for resourcelight's
// non-dashboard commands (config, version and headless mode).
//
// # Components Overview
//
//	SetupColor         - Chooses the color profile from --color and the terminal
//	RenderConfigBanner - Title block above `config show`
//	Success etc.       - One-line status messages with symbols
//	NewTable           - Bubbles table with consistent styling
//	RenderChecks       - Grouped pass/warn/fail results for `config validate`
//
// The live dashboard lives in internal/monitor.
package ui

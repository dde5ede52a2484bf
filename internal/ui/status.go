package ui

import "github.com/charmbracelet/lipgloss"

// Success renders "✓ msg" in the success color.
func Success(msg string) string {
	return lipgloss.NewStyle().Foreground(ColorSuccess).Render(SymbolSuccess + " " + msg)
}

// Warning renders "! msg" in the warning color.
func Warning(msg string) string {
	return lipgloss.NewStyle().Foreground(ColorWarning).Render(SymbolWarning + " " + msg)
}

// Failure renders "✗ msg" in the error color.
func Failure(msg string) string {
	return lipgloss.NewStyle().Foreground(ColorError).Render(SymbolFail + " " + msg)
}

// Muted renders secondary text.
func Muted(msg string) string {
	return lipgloss.NewStyle().Foreground(ColorMuted).Render(msg)
}

package ui

// Unicode symbols for status indicators.
const (
	SymbolSuccess = "✓" // Check passed
	SymbolFail    = "✗" // Check failed
	SymbolWarning = "!" // Check passed with a caveat
	SymbolPending = "○" // Not checked
)

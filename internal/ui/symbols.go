package ui

// Unicode symbols for status indicators.
const (
	SymbolSuccess = "✓" // Command completed successfully
	SymbolFail    = "✗" // Command failed
	SymbolSkipped = "⊘" // Command skipped
)

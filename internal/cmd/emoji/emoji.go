// Package emoji provides symbol constants for CLI output.
package emoji

// Status symbols printed by commands.
const (
	// Success marks a completed operation, such as a saved journal entry.
	Success = "✓"

	// Stop marks a shutdown.
	Stop = "✗"

	// Warning marks a non-fatal problem, such as a degraded record.
	Warning = "!"

	// Info marks hints and context.
	Info = "i"
)

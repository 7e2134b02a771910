// Package cmdutil provides helpers shared by nutrimap commands.
package cmdutil

import (
	"context"
	"time"

	"github.com/spf13/cobra"

	"github.com/carebridge/nutrimap/cmd/application"
	"github.com/carebridge/nutrimap/internal/cmd/output"
	"github.com/carebridge/nutrimap/pkg/constants"
	"github.com/carebridge/nutrimap/pkg/logging"
)

// Context returns the command context bounded by the command timeout and
// carrying the application logger.
func Context(cmd *cobra.Command, app application.Application) (context.Context, context.CancelFunc) {
	return ContextWithTimeout(cmd, app, constants.CommandTimeout)
}

// ContextWithTimeout is Context with an explicit timeout.
func ContextWithTimeout(cmd *cobra.Command, app application.Application, timeout time.Duration) (context.Context, context.CancelFunc) {
	parent := cmd.Context()
	if parent == nil {
		parent = context.Background()
	}
	ctx, cancel := context.WithTimeout(parent, timeout)
	return logging.WithLogger(ctx, app.Logger()), cancel
}

// Format returns the output format for the command, detecting it from the
// terminal when none was configured.
func Format(app application.Application) output.Format {
	return output.DetectFormat(app.OutputFormat())
}

// IsTable reports whether format renders as a table.
func IsTable(format output.Format) bool {
	return format == output.FormatTable || format == output.FormatWide
}

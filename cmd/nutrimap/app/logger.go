package app

import (
	"fmt"
	"os"
	"strings"

	"github.com/rs/zerolog"

	"github.com/carebridge/nutrimap/pkg/logging"
)

// NewLogger builds the CLI logger. An explicit --log-level (or LOG_LEVEL)
// wins over -v and -q; -q wins when both are given.
func NewLogger(config *Config) zerolog.Logger {
	level, warning := resolveLevel(config)
	if warning != "" {
		fmt.Fprintln(os.Stderr, "Warning: "+warning)
	}

	lc := logging.DefaultConfig()
	lc.Level = level.String()
	lc.Format = or(config.LogFormat, lc.Format)
	lc.Output = or(config.LogOutput, lc.Output)
	lc.NoColor = lc.NoColor || config.NoColor
	lc.AddCaller = level <= zerolog.DebugLevel
	return logging.NewLoggerFromConfig(lc)
}

// resolveLevel picks the level and, when a flag was ignored, says why.
func resolveLevel(config *Config) (zerolog.Level, string) {
	if name := strings.TrimSpace(config.LogLevel); name != "" {
		level := logging.ParseLevel(name)
		if !knownLevel(name) {
			return level, fmt.Sprintf("invalid log level %q, using %q", name, level)
		}
		return level, ""
	}
	switch {
	case config.Verbose && config.Quiet:
		return zerolog.WarnLevel, "both --verbose and --quiet specified, using --quiet"
	case config.Verbose:
		return zerolog.DebugLevel, ""
	case config.Quiet:
		return zerolog.WarnLevel, ""
	}
	return zerolog.InfoLevel, ""
}

func knownLevel(name string) bool {
	switch strings.ToLower(name) {
	case "trace", "debug", "info", "warn", "warning", "error", "none", "off":
		return true
	}
	return false
}

func or(v, def string) string {
	if v == "" {
		return def
	}
	return v
}

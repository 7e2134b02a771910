// Package logging provides structured logging for nutrimap using zerolog.
// Console output is used when stderr is a terminal and JSON otherwise.
//
// A lookup carries its logger in the context so provider calls inherit the
// food and provider fields of the request that started them:
//
//	ctx := logging.WithLogger(context.Background(), logger)
//	ctx = logging.WithFood(ctx, 171705)
//	logging.FromContext(ctx).Warn().Err(err).Msg("Secondary provider failed")
package logging

import (
	"os"
	"sync/atomic"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

var defaultLogger atomic.Pointer[zerolog.Logger]

func init() {
	level := envLevel()
	zerolog.SetGlobalLevel(level)

	logger := zerolog.New(consoleOrJSON(os.Stderr, os.Getenv("LOG_FORMAT"), time.Kitchen, noColorEnv())).
		Level(level).
		With().
		Timestamp().
		Logger()
	defaultLogger.Store(&logger)
}

// Default returns the process-wide logger.
func Default() *zerolog.Logger {
	return defaultLogger.Load()
}

// SetDefault replaces the process-wide logger, including zerolog's global
// log.Logger.
func SetDefault(logger zerolog.Logger) {
	defaultLogger.Store(&logger)
	log.Logger = logger
}

// Debug starts a debug event on the default logger.
func Debug() *zerolog.Event { return Default().Debug() }

// Info starts an info event on the default logger.
func Info() *zerolog.Event { return Default().Info() }

// Warn starts a warn event on the default logger.
func Warn() *zerolog.Event { return Default().Warn() }

// Error starts an error event on the default logger.
func Error() *zerolog.Event { return Default().Error() }

// consoleOrJSON wraps out in a console writer when format asks for it, or
// when format is empty or "auto" and out is a terminal.
func consoleOrJSON(out *os.File, format, timeFormat string, noColor bool) zerolog.LevelWriter {
	switch format {
	case "json":
		return zerolog.MultiLevelWriter(out)
	case "console", "pretty":
	default:
		if !isatty.IsTerminal(out.Fd()) {
			return zerolog.MultiLevelWriter(out)
		}
	}
	return zerolog.MultiLevelWriter(zerolog.ConsoleWriter{
		Out:        out,
		TimeFormat: timeFormat,
		NoColor:    noColor,
	})
}

func noColorEnv() bool {
	return os.Getenv("NO_COLOR") != ""
}

func envLevel() zerolog.Level {
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		return ParseLevel(v)
	}
	if os.Getenv("DEBUG") != "" {
		return zerolog.DebugLevel
	}
	return zerolog.InfoLevel
}

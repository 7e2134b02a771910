package logging

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/carebridge/nutrimap/pkg/constants"
)

// Config describes how a logger is built.
type Config struct {
	Level      string // trace, debug, info, warn, error, disabled
	Format     string // auto, json, console
	Output     string // stderr, stdout, discard, or a file path
	TimeFormat string // kitchen, rfc3339, unix, or a Go layout
	NoColor    bool
	AddCaller  bool

	// Fields are attached to every event.
	Fields map[string]any
}

// DefaultConfig returns the configuration used when nothing is set.
func DefaultConfig() *Config {
	return &Config{
		Level:      "info",
		Format:     "auto",
		Output:     "stderr",
		TimeFormat: "kitchen",
		NoColor:    noColorEnv(),
		Fields:     map[string]any{},
	}
}

// NewLoggerFromConfig builds a logger and sets zerolog's global level to
// match. A nil cfg means DefaultConfig.
func NewLoggerFromConfig(cfg *Config) zerolog.Logger {
	if cfg == nil {
		cfg = DefaultConfig()
	}

	level := ParseLevel(cfg.Level)
	zerolog.SetGlobalLevel(level)

	ctx := zerolog.New(cfg.writer()).Level(level).With().Timestamp()
	if cfg.AddCaller || level <= zerolog.DebugLevel {
		ctx = ctx.Caller()
	}
	for k, v := range cfg.Fields {
		ctx = ctx.Interface(k, v)
	}
	return ctx.Logger()
}

// ConfigureFromEnv rebuilds the default logger from LOG_LEVEL, LOG_FORMAT,
// LOG_OUTPUT, LOG_TIME_FORMAT and LOG_CALLER.
func ConfigureFromEnv() {
	cfg := DefaultConfig()
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Level = v
	}
	if v := os.Getenv("LOG_FORMAT"); v != "" {
		cfg.Format = v
	}
	if v := os.Getenv("LOG_OUTPUT"); v != "" {
		cfg.Output = v
	}
	if v := os.Getenv("LOG_TIME_FORMAT"); v != "" {
		cfg.TimeFormat = v
	}
	cfg.AddCaller = os.Getenv("LOG_CALLER") == "true"
	SetDefault(NewLoggerFromConfig(cfg))
}

// ParseLevel maps a level name onto zerolog. Unknown names are info.
func ParseLevel(level string) zerolog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "warning":
		return zerolog.WarnLevel
	case "none", "off":
		return zerolog.Disabled
	}
	l, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil || l == zerolog.NoLevel {
		return zerolog.InfoLevel
	}
	return l
}

func (c *Config) writer() io.Writer {
	var out *os.File
	switch strings.ToLower(c.Output) {
	case "discard", "none":
		return io.Discard
	case "stdout":
		out = os.Stdout
	case "", "stderr":
		out = os.Stderr
	default:
		f, err := os.OpenFile(c.Output, os.O_CREATE|os.O_APPEND|os.O_WRONLY, constants.FilePermissions)
		if err != nil {
			out = os.Stderr
		} else {
			out = f
		}
	}
	return consoleOrJSON(out, strings.ToLower(c.Format), timeLayout(c.TimeFormat), c.NoColor)
}

func timeLayout(format string) string {
	switch strings.ToLower(format) {
	case "", "kitchen":
		return time.Kitchen
	case "rfc3339":
		return time.RFC3339
	case "rfc3339nano":
		return time.RFC3339Nano
	case "unix", "epoch":
		return ""
	}
	if strings.Contains(format, "2006") || strings.Contains(format, "15:04") {
		return format
	}
	return time.Kitchen
}

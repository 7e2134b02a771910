package application

import (
	"github.com/rs/zerolog"

	"github.com/carebridge/nutrimap"
	"github.com/carebridge/nutrimap/internal/store"
	"github.com/carebridge/nutrimap/pkg/needs"
)

// Mock is a fixed Application for tests. Zero fields fall back to a nil
// client and journal, the Mifflin-St Jeor calculator, a no-op logger and
// "dev" build metadata.
type Mock struct {
	NutritionClient nutrimap.Client
	ClientErr       error
	JournalStore    store.Journal
	JournalErr      error
	Needs           needs.Calculator
	Log             *zerolog.Logger
	Format          string
	Build           BuildInfo
}

// BuildInfo is the build metadata reported by a Mock.
type BuildInfo struct {
	Version, Commit, Date, BuiltBy string
}

var _ Application = (*Mock)(nil)

func (m *Mock) Client() (nutrimap.Client, error) { return m.NutritionClient, m.ClientErr }

func (m *Mock) Journal() (store.Journal, error) { return m.JournalStore, m.JournalErr }

func (m *Mock) Calculator() needs.Calculator {
	if m.Needs == nil {
		return needs.Default
	}
	return m.Needs
}

func (m *Mock) Logger() *zerolog.Logger {
	if m.Log == nil {
		nop := zerolog.Nop()
		return &nop
	}
	return m.Log
}

func (m *Mock) OutputFormat() string {
	if m.Format == "" {
		return "table"
	}
	return m.Format
}

func (m *Mock) Version() string { return or(m.Build.Version, "dev") }
func (m *Mock) Commit() string  { return or(m.Build.Commit, "unknown") }
func (m *Mock) Date() string    { return or(m.Build.Date, "unknown") }
func (m *Mock) BuiltBy() string { return or(m.Build.BuiltBy, "test") }

func or(v, def string) string {
	if v == "" {
		return def
	}
	return v
}

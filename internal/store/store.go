// Package store persists the consumption journal and body profiles in SQLite.
package store

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite" // registers the "sqlite" driver

	"github.com/carebridge/nutrimap/internal/utils/paths"
	"github.com/carebridge/nutrimap/pkg/constants"
	"github.com/carebridge/nutrimap/pkg/errors"
	"github.com/carebridge/nutrimap/pkg/logging"
	"github.com/carebridge/nutrimap/pkg/needs"
)

// Journal records consumed foods and the profile used to size a day.
type Journal interface {
	AddEntry(ctx context.Context, entry NewEntry) (*Entry, error)
	Entries(ctx context.Context, day string) ([]Entry, error)
	SaveProfile(ctx context.Context, profile needs.Profile, assessment needs.Assessment) (*ProfileRecord, error)
	LatestProfile(ctx context.Context) (*ProfileRecord, error)
	Summary(ctx context.Context, day string) (*Summary, error)
	Close() error
}

var _ Journal = (*Store)(nil)

// Store is the SQLite implementation of Journal.
type Store struct {
	db       *sqlx.DB
	path     string
	now      func() time.Time
	location *time.Location
}

// Option configures a Store.
type Option func(*Store)

// WithClock overrides the clock used to timestamp entries.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		if now != nil {
			s.now = now
		}
	}
}

// WithLocation sets the time zone that decides an entry's day.
func WithLocation(loc *time.Location) Option {
	return func(s *Store) {
		if loc != nil {
			s.location = loc
		}
	}
}

const schema = `
CREATE TABLE IF NOT EXISTS journal_entries (
    id                TEXT PRIMARY KEY,
    fdc_id            INTEGER NOT NULL,
    description       TEXT NOT NULL,
    grams             REAL NOT NULL,
    calories_per_100g REAL NOT NULL,
    calories          REAL NOT NULL,
    confidence        TEXT NOT NULL,
    sources           TEXT NOT NULL,
    consumed_at       TEXT NOT NULL,
    day               TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_journal_entries_day ON journal_entries(day);

CREATE TABLE IF NOT EXISTS profiles (
    id                    INTEGER PRIMARY KEY AUTOINCREMENT,
    height_cm             REAL NOT NULL,
    weight_kg             REAL NOT NULL,
    age                   INTEGER NOT NULL,
    gender                TEXT NOT NULL,
    bmi                   REAL NOT NULL,
    daily_calories_needed REAL NOT NULL,
    created_at            TEXT NOT NULL
);
`

// Open opens or creates the journal database at path. A leading ~ is
// expanded and missing parent directories are created.
func Open(ctx context.Context, path string, opts ...Option) (*Store, error) {
	if path == "" {
		path = constants.DefaultJournalPath
	}
	path = paths.Expand(path)

	if err := os.MkdirAll(filepath.Dir(path), constants.DirPermissions); err != nil {
		return nil, errors.NewIOError("create", filepath.Dir(path), err)
	}

	db, err := sqlx.Open("sqlite", path)
	if err != nil {
		return nil, errors.NewIOError("open", path, err)
	}
	// SQLite allows a single writer.
	db.SetMaxOpenConns(1)

	s := &Store{db: db, path: path, now: time.Now, location: time.Local}
	for _, opt := range opts {
		opt(s)
	}

	if _, err := db.ExecContext(ctx, schema); err != nil {
		_ = db.Close()
		return nil, errors.NewIOError("migrate", path, err)
	}

	logging.FromContext(ctx).Debug().Str("path", path).Msg("Journal opened")
	return s, nil
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// dayOf returns the journal day of t.
func (s *Store) dayOf(t time.Time) string {
	return t.In(s.location).Format(constants.DayFormat)
}

// today returns the current journal day.
func (s *Store) today() string {
	return s.dayOf(s.now())
}

// ParseDay validates a YYYY-MM-DD day. An empty day is accepted and means
// today.
func ParseDay(day string) error {
	if day == "" {
		return nil
	}
	if _, err := time.Parse(constants.DayFormat, day); err != nil {
		return errors.NewValidationError("date", day, "must be YYYY-MM-DD")
	}
	return nil
}

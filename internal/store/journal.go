package store

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/carebridge/nutrimap/pkg/constants"
	"github.com/carebridge/nutrimap/pkg/errors"
	"github.com/carebridge/nutrimap/pkg/logging"
	"github.com/carebridge/nutrimap/pkg/nutrition"
	"github.com/carebridge/nutrimap/pkg/types"
)

// NewEntry is a consumed food to record.
type NewEntry struct {
	FdcID           int64                `json:"fdc_id" yaml:"fdc_id"`
	Description     string               `json:"description" yaml:"description"`
	Grams           float64              `json:"grams" yaml:"grams"`
	CaloriesPer100g float64              `json:"calories_per_100g" yaml:"calories_per_100g"`
	Confidence      nutrition.Confidence `json:"confidence,omitempty" yaml:"confidence,omitempty"`
	Sources         []types.ProviderID   `json:"sources,omitempty" yaml:"sources,omitempty"`
	ConsumedAt      time.Time            `json:"consumed_at,omitempty" yaml:"consumed_at,omitempty"`
}

// Validate checks the entry before it is stored.
func (e NewEntry) Validate() error {
	switch {
	case strings.TrimSpace(e.Description) == "":
		return errors.NewValidationError("description", e.Description, "is required")
	case e.Grams <= 0:
		return errors.NewValidationError("grams", e.Grams, "must be positive")
	case e.CaloriesPer100g < 0:
		return errors.NewValidationError("calories_per_100g", e.CaloriesPer100g, "must not be negative")
	}
	return nil
}

// Entry is a stored journal entry.
type Entry struct {
	ID              uuid.UUID            `json:"id" yaml:"id"`
	FdcID           int64                `json:"fdc_id" yaml:"fdc_id"`
	Description     string               `json:"description" yaml:"description"`
	Grams           float64              `json:"grams" yaml:"grams"`
	CaloriesPer100g float64              `json:"calories_per_100g" yaml:"calories_per_100g"`
	Calories        float64              `json:"calories" yaml:"calories"`
	Confidence      nutrition.Confidence `json:"confidence" yaml:"confidence"`
	Sources         []types.ProviderID   `json:"sources" yaml:"sources"`
	ConsumedAt      time.Time            `json:"consumed_at" yaml:"consumed_at"`
	Day             string               `json:"day" yaml:"day"`
}

// entryRow is the database shape of an Entry.
type entryRow struct {
	ID              string  `db:"id"`
	FdcID           int64   `db:"fdc_id"`
	Description     string  `db:"description"`
	Grams           float64 `db:"grams"`
	CaloriesPer100g float64 `db:"calories_per_100g"`
	Calories        float64 `db:"calories"`
	Confidence      string  `db:"confidence"`
	Sources         string  `db:"sources"`
	ConsumedAt      string  `db:"consumed_at"`
	Day             string  `db:"day"`
}

func (r entryRow) entry() (Entry, error) {
	id, err := uuid.Parse(r.ID)
	if err != nil {
		return Entry{}, errors.WrapParse("uuid", r.ID, err)
	}
	consumedAt, err := time.Parse(time.RFC3339Nano, r.ConsumedAt)
	if err != nil {
		return Entry{}, errors.WrapParse("timestamp", r.ConsumedAt, err)
	}
	return Entry{
		ID:              id,
		FdcID:           r.FdcID,
		Description:     r.Description,
		Grams:           r.Grams,
		CaloriesPer100g: r.CaloriesPer100g,
		Calories:        r.Calories,
		Confidence:      nutrition.Confidence(r.Confidence),
		Sources:         splitSources(r.Sources),
		ConsumedAt:      consumedAt,
		Day:             r.Day,
	}, nil
}

// EntryCalories scales a per-100g calorie value to grams.
func EntryCalories(caloriesPer100g, grams float64) float64 {
	return caloriesPer100g * grams / 100
}

// AddEntry implements Journal.
func (s *Store) AddEntry(ctx context.Context, in NewEntry) (*Entry, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}

	consumedAt := in.ConsumedAt
	if consumedAt.IsZero() {
		consumedAt = s.now()
	}
	confidence := in.Confidence
	if confidence == "" {
		confidence = nutrition.ConfidenceLow
	}

	row := entryRow{
		ID:              uuid.New().String(),
		FdcID:           in.FdcID,
		Description:     strings.TrimSpace(in.Description),
		Grams:           in.Grams,
		CaloriesPer100g: in.CaloriesPer100g,
		Calories:        EntryCalories(in.CaloriesPer100g, in.Grams),
		Confidence:      confidence.String(),
		Sources:         joinSources(in.Sources),
		ConsumedAt:      consumedAt.UTC().Format(constants.TimestampFormat),
		Day:             s.dayOf(consumedAt),
	}

	const query = `INSERT INTO journal_entries
		(id, fdc_id, description, grams, calories_per_100g, calories, confidence, sources, consumed_at, day)
		VALUES (:id, :fdc_id, :description, :grams, :calories_per_100g, :calories, :confidence, :sources, :consumed_at, :day)`
	if _, err := s.db.NamedExecContext(ctx, query, row); err != nil {
		return nil, errors.NewResourceError("create", "journal entry", row.ID, err)
	}

	logging.FromContext(ctx).Debug().
		Str("entry_id", row.ID).
		Int64("fdc_id", row.FdcID).
		Float64("calories", row.Calories).
		Msg("Journal entry added")

	entry, err := row.entry()
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

// Entries implements Journal. An empty day means today.
func (s *Store) Entries(ctx context.Context, day string) ([]Entry, error) {
	if err := ParseDay(day); err != nil {
		return nil, err
	}
	if day == "" {
		day = s.today()
	}

	var rows []entryRow
	const query = `SELECT * FROM journal_entries WHERE day = ? ORDER BY consumed_at, id`
	if err := s.db.SelectContext(ctx, &rows, query, day); err != nil {
		return nil, errors.NewResourceError("fetch", "journal entries", day, err)
	}

	entries := make([]Entry, 0, len(rows))
	for _, r := range rows {
		e, err := r.entry()
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, nil
}

func joinSources(sources []types.ProviderID) string {
	parts := make([]string, len(sources))
	for i, s := range sources {
		parts[i] = s.String()
	}
	return strings.Join(parts, ",")
}

func splitSources(s string) []types.ProviderID {
	out := []types.ProviderID{}
	if s == "" {
		return out
	}
	for _, part := range strings.Split(s, ",") {
		out = append(out, types.ProviderID(part))
	}
	return out
}

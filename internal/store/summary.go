package store

import (
	"context"
	"database/sql"

	"github.com/carebridge/nutrimap/pkg/errors"
)

// Summary compares a day's consumption with the latest profile's need.
type Summary struct {
	Day                 string  `json:"day" yaml:"day"`
	DailyCaloriesNeeded float64 `json:"daily_calories_needed" yaml:"daily_calories_needed"`
	TotalConsumed       float64 `json:"total_consumed" yaml:"total_consumed"`
	Remaining           float64 `json:"remaining" yaml:"remaining"`
	Entries             int     `json:"entries" yaml:"entries"`
}

// Summary implements Journal. Without a saved profile both totals are zero.
func (s *Store) Summary(ctx context.Context, day string) (*Summary, error) {
	if err := ParseDay(day); err != nil {
		return nil, err
	}
	if day == "" {
		day = s.today()
	}
	out := &Summary{Day: day}

	profile, err := s.LatestProfile(ctx)
	if err != nil {
		if errors.IsNotFound(err) {
			return out, nil
		}
		return nil, err
	}
	out.DailyCaloriesNeeded = profile.DailyCaloriesNeeded

	var totals struct {
		Total sql.NullFloat64 `db:"total"`
		Count int             `db:"count"`
	}
	const query = `SELECT SUM(calories) AS total, COUNT(*) AS count FROM journal_entries WHERE day = ?`
	if err := s.db.GetContext(ctx, &totals, query, day); err != nil {
		return nil, errors.NewResourceError("summarize", "journal", day, err)
	}
	out.TotalConsumed = totals.Total.Float64
	out.Entries = totals.Count
	out.Remaining = out.DailyCaloriesNeeded - out.TotalConsumed
	return out, nil
}

package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/carebridge/nutrimap/pkg/constants"
	"github.com/carebridge/nutrimap/pkg/errors"
	"github.com/carebridge/nutrimap/pkg/needs"
)

// ProfileRecord is a stored profile with its assessment.
type ProfileRecord struct {
	ID int64 `json:"id" yaml:"id" db:"id"`
	needs.Profile
	needs.Assessment
	CreatedAt time.Time `json:"created_at" yaml:"created_at" db:"-"`
}

type profileRow struct {
	ID                  int64   `db:"id"`
	HeightCM            float64 `db:"height_cm"`
	WeightKG            float64 `db:"weight_kg"`
	Age                 int     `db:"age"`
	Gender              string  `db:"gender"`
	BMI                 float64 `db:"bmi"`
	DailyCaloriesNeeded float64 `db:"daily_calories_needed"`
	CreatedAt           string  `db:"created_at"`
}

// SaveProfile implements Journal. The most recently saved profile is the
// one used by Summary.
func (s *Store) SaveProfile(ctx context.Context, profile needs.Profile, assessment needs.Assessment) (*ProfileRecord, error) {
	if err := profile.Validate(); err != nil {
		return nil, err
	}
	createdAt := s.now().UTC()

	const query = `INSERT INTO profiles
		(height_cm, weight_kg, age, gender, bmi, daily_calories_needed, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`
	res, err := s.db.ExecContext(ctx, query,
		profile.HeightCM, profile.WeightKG, profile.Age, string(profile.Gender),
		assessment.BMI, assessment.DailyCaloriesNeeded, createdAt.Format(constants.TimestampFormat))
	if err != nil {
		return nil, errors.NewResourceError("create", "profile", "", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, errors.NewResourceError("create", "profile", "", err)
	}

	return &ProfileRecord{
		ID:         id,
		Profile:    profile,
		Assessment: assessment,
		CreatedAt:  createdAt,
	}, nil
}

// LatestProfile implements Journal. It returns a NotFoundError when no
// profile has been saved.
func (s *Store) LatestProfile(ctx context.Context) (*ProfileRecord, error) {
	var row profileRow
	err := s.db.GetContext(ctx, &row, `SELECT * FROM profiles ORDER BY id DESC LIMIT 1`)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errors.NewNotFoundError("profile", "latest")
		}
		return nil, errors.NewResourceError("fetch", "profile", "latest", err)
	}

	createdAt, err := time.Parse(time.RFC3339Nano, row.CreatedAt)
	if err != nil {
		return nil, errors.WrapParse("timestamp", row.CreatedAt, err)
	}
	return &ProfileRecord{
		ID: row.ID,
		Profile: needs.Profile{
			HeightCM: row.HeightCM,
			WeightKG: row.WeightKG,
			Age:      row.Age,
			Gender:   needs.Gender(row.Gender),
		},
		Assessment: needs.Assessment{
			BMI:                 row.BMI,
			DailyCaloriesNeeded: row.DailyCaloriesNeeded,
		},
		CreatedAt: createdAt,
	}, nil
}

// Package needs estimates daily calorie requirements from a body profile.
package needs

import (
	"math"
	"strings"

	"github.com/carebridge/nutrimap/pkg/errors"
)

// Gender selects the BMR constant.
type Gender string

// Genders.
const (
	Male   Gender = "male"
	Female Gender = "female"
)

// ParseGender normalizes s. Anything other than "male" is treated as female.
func ParseGender(s string) Gender {
	if strings.EqualFold(strings.TrimSpace(s), string(Male)) {
		return Male
	}
	return Female
}

// ActivityFactor is the sedentary multiplier applied to BMR.
const ActivityFactor = 1.2

// Profile is a person's body measurements.
type Profile struct {
	HeightCM float64 `json:"height_cm" yaml:"height_cm" db:"height_cm"`
	WeightKG float64 `json:"weight_kg" yaml:"weight_kg" db:"weight_kg"`
	Age      int     `json:"age" yaml:"age" db:"age"`
	Gender   Gender  `json:"gender" yaml:"gender" db:"gender"`
}

// Validate checks that every measurement is positive.
func (p Profile) Validate() error {
	switch {
	case p.HeightCM <= 0:
		return errors.NewValidationError("height_cm", p.HeightCM, "must be positive")
	case p.WeightKG <= 0:
		return errors.NewValidationError("weight_kg", p.WeightKG, "must be positive")
	case p.Age <= 0:
		return errors.NewValidationError("age", p.Age, "must be positive")
	}
	return nil
}

// Assessment is the result of assessing a profile.
type Assessment struct {
	BMI                 float64 `json:"bmi" yaml:"bmi" db:"bmi"`
	DailyCaloriesNeeded float64 `json:"daily_calories_needed" yaml:"daily_calories_needed" db:"daily_calories_needed"`
}

// Calculator assesses profiles.
type Calculator interface {
	Assess(profile Profile) (Assessment, error)
}

// MifflinStJeor estimates BMR with the Mifflin-St Jeor equation.
type MifflinStJeor struct{}

var _ Calculator = MifflinStJeor{}

// Default is the calculator used when none is configured.
var Default Calculator = MifflinStJeor{}

// Assess implements Calculator.
func (MifflinStJeor) Assess(p Profile) (Assessment, error) {
	if err := p.Validate(); err != nil {
		return Assessment{}, err
	}
	return Assessment{
		BMI:                 BMI(p.WeightKG, p.HeightCM),
		DailyCaloriesNeeded: round2(BMR(p) * ActivityFactor),
	}, nil
}

// BMI returns the body mass index rounded to two decimals.
func BMI(weightKG, heightCM float64) float64 {
	m := heightCM / 100
	return round2(weightKG / (m * m))
}

// BMR returns the unrounded basal metabolic rate.
func BMR(p Profile) float64 {
	bmr := 10*p.WeightKG + 6.25*p.HeightCM - 5*float64(p.Age)
	if p.Gender == Male {
		return bmr + 5
	}
	return bmr - 161
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

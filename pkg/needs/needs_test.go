package needs_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carebridge/nutrimap/pkg/errors"
	"github.com/carebridge/nutrimap/pkg/needs"
)

func TestAssess(t *testing.T) {
	tests := []struct {
		name    string
		profile needs.Profile
		bmi     float64
		daily   float64
	}{
		{
			name:    "male",
			profile: needs.Profile{HeightCM: 180, WeightKG: 80, Age: 30, Gender: needs.Male},
			// 800 + 1125 - 150 + 5 = 1780
			bmi:   24.69,
			daily: 2136,
		},
		{
			name:    "female",
			profile: needs.Profile{HeightCM: 165, WeightKG: 60, Age: 25, Gender: needs.Female},
			// 600 + 1031.25 - 125 - 161 = 1345.25
			bmi:   22.04,
			daily: 1614.3,
		},
		{
			name:    "unknown gender uses the female constant",
			profile: needs.Profile{HeightCM: 165, WeightKG: 60, Age: 25, Gender: "other"},
			bmi:     22.04,
			daily:   1614.3,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := needs.Default.Assess(tt.profile)
			require.NoError(t, err)
			assert.InDelta(t, tt.bmi, got.BMI, 1e-9)
			assert.InDelta(t, tt.daily, got.DailyCaloriesNeeded, 1e-9)
		})
	}
}

func TestAssessValidation(t *testing.T) {
	for _, p := range []needs.Profile{
		{HeightCM: 0, WeightKG: 60, Age: 25},
		{HeightCM: 165, WeightKG: -1, Age: 25},
		{HeightCM: 165, WeightKG: 60, Age: 0},
	} {
		_, err := needs.Default.Assess(p)
		require.Error(t, err)
		assert.True(t, errors.IsValidationError(err))
	}
}

func TestParseGender(t *testing.T) {
	assert.Equal(t, needs.Male, needs.ParseGender(" Male "))
	assert.Equal(t, needs.Female, needs.ParseGender("female"))
	assert.Equal(t, needs.Female, needs.ParseGender(""))
}

package reconcile

import (
	"fmt"
	"math"

	"github.com/carebridge/nutrimap/pkg/nutrition"
	"github.com/carebridge/nutrimap/pkg/types"
)

// reading is one provider's calorie value; nil when it gave none.
type reading struct {
	provider types.ProviderID
	value    *float64
}

// calorieResult is the outcome of calorie reconciliation.
type calorieResult struct {
	avg           float64
	best          float64
	sources       []types.ProviderID
	used          []types.ProviderID
	confidence    nutrition.Confidence
	discrepancies []string
}

// calories reconciles the calorie readings, which must be in provider order.
func (r *reconciler) calories(readings []reading) calorieResult {
	res := calorieResult{
		sources:       []types.ProviderID{},
		used:          []types.ProviderID{},
		discrepancies: []string{},
	}

	var present, nonzero []float64
	var reference *float64
	for _, rd := range readings {
		if rd.provider == types.USDA {
			reference = rd.value
		}
		if rd.value == nil {
			continue
		}
		present = append(present, *rd.value)
		res.sources = append(res.sources, rd.provider)
		if *rd.value > 0 {
			nonzero = append(nonzero, *rd.value)
			res.used = append(res.used, rd.provider)
		}
	}
	res.avg = mean(present)

	if len(present) > 1 {
		lo, hi := minMax(present)
		if hi-lo > r.threshold*res.avg {
			res.discrepancies = append(res.discrepancies,
				fmt.Sprintf("Calorie discrepancy: %.0f cal difference between sources", math.Round(hi-lo)))
		}
	}

	if len(nonzero) > 0 {
		res.best = math.Round(mean(nonzero))
	} else if reference != nil {
		res.best = math.Round(math.Max(0, *reference))
		res.used = append(res.used, types.USDA)
	}

	switch {
	case len(nonzero) == 3 && len(res.discrepancies) == 0:
		res.confidence = nutrition.ConfidenceHigh
	case len(nonzero) == 2:
		res.confidence = nutrition.ConfidenceMedium
	default:
		res.confidence = nutrition.ConfidenceLow
	}
	return res
}

// score is a secondary provider's 0-100 closeness to the calorie mean.
func score(value *float64, avg float64) float64 {
	if value == nil || avg <= 0 {
		return 0
	}
	deviation := math.Abs(*value-avg) / avg * 100
	return 100 - math.Min(100, math.Max(0, deviation))
}

func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

func minMax(values []float64) (lo, hi float64) {
	lo, hi = values[0], values[0]
	for _, v := range values[1:] {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	return lo, hi
}

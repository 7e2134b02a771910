// Package table converts nutrimap results into rows for CLI tables.
package table

import (
	"strconv"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/carebridge/nutrimap/internal/store"
	"github.com/carebridge/nutrimap/pkg/nutrition"
	"github.com/carebridge/nutrimap/pkg/types"
)

// Align represents column alignment in tables.
type Align int

const (
	// AlignDefault uses the default alignment (skip).
	AlignDefault Align = iota
	// AlignLeft aligns content to the left.
	AlignLeft
	// AlignCenter centers content.
	AlignCenter
	// AlignRight aligns content to the right.
	AlignRight
)

// Data represents table formatting data.
type Data struct {
	Headers         []string
	Rows            [][]string
	ColumnAlignment []Align // Optional: column alignment
}

// missing is shown for values a provider did not report.
const missing = "-"

// titleCase upper-cases the first letter of each word.
func titleCase(s string) string {
	return cases.Title(language.English).String(s)
}

// SearchToTableData converts a search page to table format.
func SearchToTableData(resp *nutrition.SearchResponse, showDetails bool) Data {
	headers := []string{"FDC ID", "Description", "Type"}
	align := []Align{AlignRight, AlignLeft, AlignLeft}
	if showDetails {
		headers = append(headers, "Brand", "Published")
		align = append(align, AlignLeft, AlignLeft)
	}

	rows := make([][]string, 0)
	if resp != nil {
		for _, food := range resp.Foods {
			row := []string{
				strconv.FormatInt(food.ID, 10),
				food.Name,
				orMissing(food.Category),
			}
			if showDetails {
				row = append(row, orMissing(food.BrandOwner), orMissing(food.PublicationDate))
			}
			rows = append(rows, row)
		}
	}

	return Data{Headers: headers, Rows: rows, ColumnAlignment: align}
}

// NutritionToTableData lays out a reconciled record with one row per
// nutrient and one column per provider, followed by the best estimate.
func NutritionToTableData(record *nutrition.ReconciledNutrition) Data {
	providers := types.ProviderIDs()

	headers := []string{"Nutrient"}
	align := []Align{AlignLeft}
	for _, p := range providers {
		headers = append(headers, p.String())
		align = append(align, AlignRight)
	}
	headers = append(headers, "Best")
	align = append(align, AlignRight)

	var rows [][]string
	if record == nil {
		return Data{Headers: headers, ColumnAlignment: align}
	}

	for _, n := range types.Nutrients() {
		row := []string{Label(n)}
		row = append(row, FormatValue(record.Reference.Values.Get(n)))
		for _, p := range types.SecondaryProviderIDs() {
			if rec, ok := record.SecondaryFor(p); ok {
				row = append(row, FormatValue(rec.Value(n)))
			} else {
				row = append(row, missing)
			}
		}
		row = append(row, FormatValue(bestValue(record.Best, n)))
		rows = append(rows, row)
	}

	return Data{Headers: headers, Rows: rows, ColumnAlignment: align}
}

// SummaryLines returns the key facts about a record, printed under the
// nutrient table.
func SummaryLines(record *nutrition.ReconciledNutrition) []string {
	if record == nil {
		return nil
	}
	sources := make([]string, len(record.Best.CaloriesSources))
	for i, s := range record.Best.CaloriesSources {
		sources[i] = s.String()
	}
	lines := []string{
		"Food: " + record.Reference.Description,
		"Serving: " + record.Reference.ServingSize,
		"Confidence: " + titleCase(record.Best.Confidence.String()),
		"Calorie sources: " + strings.Join(sources, ", "),
	}
	if record.Degraded {
		lines = append(lines, "Degraded: reference data only")
	}
	for _, d := range record.Best.Discrepancies {
		lines = append(lines, "Note: "+d)
	}
	return lines
}

// EntriesToTableData converts journal entries to table format.
func EntriesToTableData(entries []store.Entry) Data {
	headers := []string{"Time", "Food", "Grams", "kcal/100g", "Calories", "Confidence"}
	align := []Align{AlignLeft, AlignLeft, AlignRight, AlignRight, AlignRight, AlignLeft}

	rows := make([][]string, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, []string{
			e.ConsumedAt.Format("15:04"),
			e.Description,
			formatFloat(e.Grams),
			formatFloat(e.CaloriesPer100g),
			formatFloat(e.Calories),
			orMissing(e.Confidence.String()),
		})
	}

	return Data{Headers: headers, Rows: rows, ColumnAlignment: align}
}

// Label returns the display name of a nutrient with its unit.
func Label(n types.Nutrient) string {
	return titleCase(n.String()) + " (" + n.Unit() + ")"
}

// FormatValue renders an optional value, using "-" when absent.
func FormatValue(v *float64) string {
	if v == nil {
		return missing
	}
	return formatFloat(*v)
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func bestValue(best nutrition.Best, n types.Nutrient) *float64 {
	switch n {
	case types.Calories:
		v := best.Calories
		return &v
	case types.Protein:
		return best.Protein
	case types.Fat:
		return best.Fat
	case types.Carbs:
		return best.Carbs
	}
	return nil
}

func orMissing(s string) string {
	if strings.TrimSpace(s) == "" {
		return missing
	}
	return s
}

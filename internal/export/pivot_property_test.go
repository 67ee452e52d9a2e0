package export

import (
	"testing"
	"time"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

// The pivot date header must always span the closed interval from start to
// end: exactly one column per calendar day plus the leading Field column,
// regardless of which submissions are passed in.
func TestProperty_PivotDateColumnsInclusive(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	properties := gopter.NewProperties(parameters)

	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	properties.Property("header width equals day span plus one", prop.ForAll(
		func(startOffset, spanDays, startHour, endHour int) bool {
			start := base.AddDate(0, 0, startOffset).Add(time.Duration(startHour) * time.Hour)
			end := start.AddDate(0, 0, spanDays).Add(time.Duration(endHour-startHour) * time.Hour)

			table := Pivot(nil, start, end)

			return len(table.Headers) == spanDays+2
		},
		gen.IntRange(0, 365),
		gen.IntRange(0, 120),
		gen.IntRange(0, 23),
		gen.IntRange(0, 23),
	))

	properties.TestingRun(t)
}

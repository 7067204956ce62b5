package services

import (
	"slices"
	"time"
)

// Sale is a single order contribution to the sales timeline.
type Sale struct {
	CreatedAt  time.Time
	TotalPrice float64
}

// DailyTotal is the summed order value for one calendar day.
type DailyTotal struct {
	Day   time.Time
	Total float64
}

// DailySales groups sales by the calendar date of CreatedAt, taken in the
// timestamp's own location, and returns one total per day in ascending order.
// Day is midnight of that date in the same location. An empty input yields an
// empty, non-nil series.
func DailySales(sales []Sale) []DailyTotal {
	series := make([]DailyTotal, 0)
	index := make(map[string]int)

	for _, s := range sales {
		y, m, d := s.CreatedAt.Date()
		day := time.Date(y, m, d, 0, 0, 0, 0, s.CreatedAt.Location())

		key := day.Format(time.DateOnly)
		if i, ok := index[key]; ok {
			series[i].Total += s.TotalPrice
			continue
		}
		index[key] = len(series)
		series = append(series, DailyTotal{Day: day, Total: s.TotalPrice})
	}

	slices.SortFunc(series, func(a, b DailyTotal) int {
		return a.Day.Compare(b.Day)
	})
	return series
}

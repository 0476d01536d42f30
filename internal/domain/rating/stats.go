// Package rating holds the aggregation arithmetic over star ratings.
package rating

import (
	"github.com/jhoicas/storerating-api/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// Average returns the arithmetic mean of values rounded to one decimal place, or 0 when empty.
// Average([5, 5, 4]) = 4.7
func Average(values []int) float64 {
	if len(values) == 0 {
		return 0
	}
	sum := int64(0)
	for _, v := range values {
		sum += int64(v)
	}
	avg := decimal.NewFromInt(sum).Div(decimal.NewFromInt(int64(len(values)))).Round(1)
	return avg.InexactFloat64()
}

// Distribution counts values per star (1–5). Every star has a key, even with zero count.
// Values outside the range are ignored.
func Distribution(values []int) map[int]int {
	dist := make(map[int]int, entity.MaxRating)
	for star := entity.MinRating; star <= entity.MaxRating; star++ {
		dist[star] = 0
	}
	for _, v := range values {
		if v < entity.MinRating || v > entity.MaxRating {
			continue
		}
		dist[v]++
	}
	return dist
}

// Values extracts the star values of a list of ratings.
func Values(ratings []*entity.Rating) []int {
	out := make([]int, 0, len(ratings))
	for _, r := range ratings {
		out = append(out, r.Value)
	}
	return out
}

// Summary aggregates a set of ratings.
type Summary struct {
	Average      float64
	Total        int
	Distribution map[int]int
}

// Summarize builds the Summary of values.
func Summarize(values []int) Summary {
	return Summary{
		Average:      Average(values),
		Total:        len(values),
		Distribution: Distribution(values),
	}
}

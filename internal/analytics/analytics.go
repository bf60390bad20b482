// Package analytics summarizes the watched history.
package analytics

import (
	"fmt"
	"sort"

	"github.com/mmcdole/filmhub/internal/domain"
)

// TopGenreLimit is how many genres a Summary reports.
const TopGenreLimit = 3

// Summary aggregates a watched history.
type Summary struct {
	Count         int
	TotalMinutes  int
	AverageRating float64 // 0 when there are no records
	TopGenres     []string
}

// Duration renders TotalMinutes.
func (s Summary) Duration() string {
	return FormatDuration(s.TotalMinutes)
}

// Summarize computes every aggregate in one pass over records.
func Summarize(records []domain.WatchedMovie) Summary {
	return Summary{
		Count:         Count(records),
		TotalMinutes:  TotalMinutes(records),
		AverageRating: AverageRating(records),
		TopGenres:     TopGenres(records, TopGenreLimit),
	}
}

// Count is the number of watched records.
func Count(records []domain.WatchedMovie) int { return len(records) }

// TotalMinutes sums runtimes.
func TotalMinutes(records []domain.WatchedMovie) int {
	total := 0
	for _, r := range records {
		total += r.Runtime
	}
	return total
}

// FormatDuration renders minutes only, e.g. "210 minutes".
func FormatDuration(minutes int) string {
	if minutes == 1 {
		return "1 minute"
	}
	return fmt.Sprintf("%d minutes", minutes)
}

// AverageRating is the mean rating, or 0 for an empty history.
func AverageRating(records []domain.WatchedMovie) float64 {
	if len(records) == 0 {
		return 0
	}
	sum := 0.0
	for _, r := range records {
		sum += r.Rating
	}
	return sum / float64(len(records))
}

// TopGenres returns up to n genre names by descending frequency. Ties keep
// the order in which genres were first seen.
func TopGenres(records []domain.WatchedMovie, n int) []string {
	counts := make(map[string]int)
	var order []string
	for _, r := range records {
		for _, g := range domain.DecodeGenres(r.Genres) {
			if counts[g] == 0 {
				order = append(order, g)
			}
			counts[g]++
		}
	}

	sort.SliceStable(order, func(i, j int) bool {
		return counts[order[i]] > counts[order[j]]
	})

	if n >= 0 && len(order) > n {
		order = order[:n]
	}
	return order
}

package search

import (
	"sort"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"
	"github.com/mmcdole/filmhub/internal/domain"
)

// RankGenres returns the genres whose names fuzzily contain query, closest
// first. Prefix matches rank ahead of other matches. An empty query returns
// genres unchanged.
func RankGenres(query string, genres []domain.Genre) []domain.Genre {
	query = strings.TrimSpace(query)
	if query == "" {
		return genres
	}

	names := make([]string, len(genres))
	for i, g := range genres {
		names[i] = g.Name
	}

	ranks := fuzzy.RankFindFold(query, names)
	lowerQuery := strings.ToLower(query)
	sort.SliceStable(ranks, func(i, j int) bool {
		pi := strings.HasPrefix(strings.ToLower(ranks[i].Target), lowerQuery)
		pj := strings.HasPrefix(strings.ToLower(ranks[j].Target), lowerQuery)
		if pi != pj {
			return pi
		}
		return ranks[i].Distance < ranks[j].Distance
	})

	out := make([]domain.Genre, len(ranks))
	for i, r := range ranks {
		out[i] = genres[r.OriginalIndex]
	}
	return out
}

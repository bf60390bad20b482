package search

import (
	"testing"

	"github.com/mmcdole/filmhub/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFilterEmptyQueryKeepsOrder(t *testing.T) {
	entries := FavoriteEntries([]domain.Favorite{
		{MovieID: 1, Title: "Alien"},
		{MovieID: 2, Title: "Brazil"},
	})

	results := Filter("  ", entries)
	require.Len(t, results, 2)
	assert.Equal(t, 1, results[0].MovieID)
	assert.Equal(t, 2, results[1].MovieID)
}

func TestFilterFuzzyMatchesCaseInsensitively(t *testing.T) {
	entries := WatchedEntries([]domain.WatchedMovie{
		{MovieID: 1, Title: "The Empire Strikes Back"},
		{MovieID: 2, Title: "Heat"},
		{MovieID: 3, Title: "Empire of the Sun"},
	})

	results := Filter("EMPIRE", entries)
	require.Len(t, results, 2)

	got := map[int]bool{}
	for _, r := range results {
		got[r.MovieID] = true
		assert.Len(t, r.MatchedIndexes, len("empire"))
	}
	assert.Equal(t, map[int]bool{1: true, 3: true}, got)
}

func TestFilterNoMatch(t *testing.T) {
	results := Filter("zzz", FavoriteEntries([]domain.Favorite{{MovieID: 1, Title: "Heat"}}))
	assert.Empty(t, results)
}

func TestRankGenres(t *testing.T) {
	genres := []domain.Genre{
		{ID: 28, Name: "Action"},
		{ID: 16, Name: "Animation"},
		{ID: 878, Name: "Science Fiction"},
		{ID: 10752, Name: "War"},
	}

	assert.Equal(t, genres, RankGenres("", genres))

	ranked := RankGenres("ani", genres)
	require.NotEmpty(t, ranked)
	assert.Equal(t, 16, ranked[0].ID)

	ranked = RankGenres("fic", genres)
	require.Len(t, ranked, 1)
	assert.Equal(t, 878, ranked[0].ID)

	assert.Empty(t, RankGenres("xyz", genres))
}

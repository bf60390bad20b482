// Package search filters local lists by title and ranks genre names for the
// genre picker.
package search

import (
	"strings"

	"github.com/mmcdole/filmhub/internal/domain"
	"github.com/sahilm/fuzzy"
)

// Entry is one filterable row of a local list.
type Entry struct {
	MovieID int
	Title   string
}

// Result is a matched entry with the matched character positions for highlighting.
type Result struct {
	Entry
	MatchedIndexes []int
	Score          int
}

// index implements fuzzy.Source over pre-lowered titles.
type index struct {
	entries []Entry
	lower   []string
}

func (idx index) String(i int) string { return idx.lower[i] }
func (idx index) Len() int            { return len(idx.entries) }

// Filter returns the entries matching query, best match first. An empty
// query returns every entry in its original order.
func Filter(query string, entries []Entry) []Result {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		results := make([]Result, len(entries))
		for i, e := range entries {
			results[i] = Result{Entry: e}
		}
		return results
	}

	idx := index{entries: entries, lower: make([]string, len(entries))}
	for i, e := range entries {
		idx.lower[i] = strings.ToLower(e.Title)
	}

	matches := fuzzy.FindFrom(query, idx)
	results := make([]Result, len(matches))
	for i, m := range matches {
		results[i] = Result{
			Entry:          entries[m.Index],
			MatchedIndexes: m.MatchedIndexes,
			Score:          m.Score,
		}
	}
	return results
}

// FavoriteEntries adapts favorites for Filter.
func FavoriteEntries(fs []domain.Favorite) []Entry {
	entries := make([]Entry, len(fs))
	for i, f := range fs {
		entries[i] = Entry{MovieID: f.MovieID, Title: f.Title}
	}
	return entries
}

// WatchedEntries adapts watched records for Filter.
func WatchedEntries(ws []domain.WatchedMovie) []Entry {
	entries := make([]Entry, len(ws))
	for i, w := range ws {
		entries[i] = Entry{MovieID: w.MovieID, Title: w.Title}
	}
	return entries
}

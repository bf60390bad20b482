package domain

import (
	"strconv"
	"strings"
)

// GenreSeparator joins genre names in a WatchedMovie's denormalized genre string.
const GenreSeparator = ", "

// EncodeGenres joins genre names for storage on a watched record.
// Blank names are dropped.
func EncodeGenres(names []string) string {
	kept := make([]string, 0, len(names))
	for _, n := range names {
		if n = strings.TrimSpace(n); n != "" {
			kept = append(kept, n)
		}
	}
	return strings.Join(kept, GenreSeparator)
}

// DecodeGenres splits a stored genre string back into names. It accepts
// strings written with or without the space after the comma, and returns
// nil for an empty string.
func DecodeGenres(s string) []string {
	sep := strings.TrimSpace(GenreSeparator)
	var names []string
	for _, part := range strings.Split(s, sep) {
		if part = strings.TrimSpace(part); part != "" {
			names = append(names, part)
		}
	}
	return names
}

// JoinIDs renders genre ids as the comma list the catalog expects.
func JoinIDs(ids []int) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = strconv.Itoa(id)
	}
	return strings.Join(parts, ",")
}

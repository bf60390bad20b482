package domain

import "fmt"

// SortKey selects the ordering of a discover listing.
type SortKey int

const (
	SortPopularity SortKey = iota
	SortRating
	SortReleaseDate
)

// DefaultSort is used when nothing else is configured.
const DefaultSort = SortPopularity

// String returns the display name for the sort key
func (k SortKey) String() string {
	switch k {
	case SortPopularity:
		return "Popularity"
	case SortRating:
		return "Rating"
	case SortReleaseDate:
		return "Release Date"
	default:
		return "Unknown"
	}
}

// Param returns the catalog's sort_by value.
func (k SortKey) Param() string {
	switch k {
	case SortRating:
		return "vote_average.desc"
	case SortReleaseDate:
		return "release_date.desc"
	default:
		return "popularity.desc"
	}
}

// SortOptions returns the sort keys offered to the user, in display order.
func SortOptions() []SortKey {
	return []SortKey{SortPopularity, SortRating, SortReleaseDate}
}

// SortSafelist holds every accepted sort_by value.
var SortSafelist = []string{
	SortPopularity.Param(),
	SortRating.Param(),
	SortReleaseDate.Param(),
}

// ParseSortKey maps a sort_by value back to its key.
func ParseSortKey(param string) (SortKey, error) {
	for _, k := range SortOptions() {
		if k.Param() == param {
			return k, nil
		}
	}
	return DefaultSort, fmt.Errorf("unknown sort key %q", param)
}

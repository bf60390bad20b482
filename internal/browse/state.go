package browse

import (
	"slices"

	"github.com/mmcdole/filmhub/internal/domain"
	"github.com/mmcdole/filmhub/internal/validator"
)

// Status is the outcome of the latest page-1 request.
type Status int

const (
	StatusIdle Status = iota
	StatusLoading
	StatusReady
	StatusFailed
)

func (s Status) String() string {
	switch s {
	case StatusIdle:
		return "idle"
	case StatusLoading:
		return "loading"
	case StatusReady:
		return "ready"
	case StatusFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Mode says which catalog listing feeds the results.
type Mode int

const (
	ModeDiscover Mode = iota
	ModeSearch
)

// Filters narrows discover mode.
type Filters struct {
	Sort     domain.SortKey
	GenreIDs []int
}

func (f Filters) clone() Filters {
	f.GenreIDs = slices.Clone(f.GenreIDs)
	return f
}

// Validate checks the sort key and genre ids.
func (f Filters) Validate() error {
	v := validator.New()
	v.Check(validator.PermittedValue(f.Sort, domain.SortOptions()...), "sort", "invalid sort value")
	for _, id := range f.GenreIDs {
		v.Check(id > 0, "genre_ids", "must be positive")
	}
	v.Check(validator.Unique(f.GenreIDs), "genre_ids", "must not contain duplicates")
	return v.Err()
}

// State is the published view of the result list.
//
// A failed page-1 load has Status StatusFailed and a non-nil Err; a successful
// load with no matches has Status StatusReady and no Movies.
type State struct {
	Movies      []domain.Movie
	Page        int
	TotalPages  int
	Status      Status
	Err         error
	LoadingMore bool
	Filters     Filters
	Query       string
	Generation  uint64
}

// Mode reports whether the list comes from search or discover.
func (s State) Mode() Mode {
	if s.Query != "" {
		return ModeSearch
	}
	return ModeDiscover
}

// Empty is true for a successful load with no results.
func (s State) Empty() bool {
	return s.Status == StatusReady && len(s.Movies) == 0
}

// HasMore is true when another page exists.
func (s State) HasMore() bool {
	return s.Status == StatusReady && s.Page < s.TotalPages
}

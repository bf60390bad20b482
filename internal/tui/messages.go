package tui

import (
	"github.com/mmcdole/filmhub/internal/browse"
	"github.com/mmcdole/filmhub/internal/domain"
	"github.com/mmcdole/filmhub/internal/library"
)

// Message types for the TUI

// ErrMsg represents an error
type ErrMsg struct {
	Err     error
	Context string
}

// Error implements the error interface
func (e ErrMsg) Error() string {
	if e.Context != "" {
		return e.Context + ": " + e.Err.Error()
	}
	return e.Err.Error()
}

// ResultsMsg carries the browse list state
type ResultsMsg struct {
	State browse.State
}

// GenresMsg carries the genre vocabulary
type GenresMsg struct {
	Genres []domain.Genre
}

// GenreErrorMsg signals a failed genre load
type GenreErrorMsg struct {
	Err error
}

// FavoritesMsg carries the favorites list
type FavoritesMsg struct {
	Favorites []domain.Favorite
}

// WatchedMsg carries the watched history
type WatchedMsg struct {
	Watched []domain.WatchedMovie
}

// WriteFailureMsg signals a local store write that did not persist
type WriteFailureMsg struct {
	Failure library.WriteFailure
}

// DetailMsg carries the open movie's catalog record
type DetailMsg struct {
	Detail *domain.MovieDetail
}

// DetailFavoriteMsg carries the open movie's favorite record, nil if none
type DetailFavoriteMsg struct {
	Favorite *domain.Favorite
}

// DetailWatchedMsg carries the open movie's watched record, nil if none
type DetailWatchedMsg struct {
	Watched *domain.WatchedMovie
}

// DetailErrMsg signals a failed detail fetch
type DetailErrMsg struct {
	Err error
}

// ClearStatusMsg clears the status bar message
type ClearStatusMsg struct {
	seq int
}

// StatusMsg sets a temporary status message
type StatusMsg struct {
	Message string
	IsError bool
}

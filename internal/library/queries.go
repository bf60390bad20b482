package library

import (
	"errors"

	"github.com/mmcdole/filmhub/internal/domain"
	"github.com/mmcdole/filmhub/internal/observe"
)

// Favorites is every favorite, ordered by title.
func (s *Service) Favorites() *observe.Value[[]domain.Favorite] {
	return s.favorites
}

// Watched is every watched record, newest first.
func (s *Service) Watched() *observe.Value[[]domain.WatchedMovie] {
	return s.watched
}

// Failures publishes each rejected write.
func (s *Service) Failures() *observe.Value[WriteFailure] {
	return s.failures
}

// Favorite tracks the favorite for movieID; the value is nil while there is none.
// Until the favorites list has loaded, the record is read from the store by key.
// Call cancel when done.
func (s *Service) Favorite(movieID int) (*observe.Value[*domain.Favorite], func()) {
	out, cancel := observe.Derive(s.favorites, func(fs []domain.Favorite) *domain.Favorite {
		for i := range fs {
			if fs[i].MovieID == movieID {
				f := fs[i]
				return &f
			}
		}
		return nil
	})
	if _, ok := out.Get(); !ok {
		// The list never loaded; answer from the store directly.
		f, err := s.store.GetFavorite(movieID)
		switch {
		case errors.Is(err, domain.ErrNotFound):
			out.SetIfEmpty(nil)
		case err != nil:
			s.logger.Error("failed to get favorite", "error", err, "movieID", movieID)
		default:
			out.SetIfEmpty(f)
		}
	}
	return out, cancel
}

// WatchedMovie tracks the watched record for movieID; the value is nil while there is none.
// Call cancel when done.
func (s *Service) WatchedMovie(movieID int) (*observe.Value[*domain.WatchedMovie], func()) {
	out, cancel := observe.Derive(s.watched, func(ws []domain.WatchedMovie) *domain.WatchedMovie {
		for i := range ws {
			if ws[i].MovieID == movieID {
				w := ws[i]
				return &w
			}
		}
		return nil
	})
	if _, ok := out.Get(); !ok {
		w, err := s.store.GetWatched(movieID)
		switch {
		case errors.Is(err, domain.ErrNotFound):
			out.SetIfEmpty(nil)
		case err != nil:
			s.logger.Error("failed to get watched movie", "error", err, "movieID", movieID)
		default:
			out.SetIfEmpty(w)
		}
	}
	return out, cancel
}

// ListFavorites reads favorites straight from the store.
func (s *Service) ListFavorites() ([]domain.Favorite, error) {
	return s.store.ListFavorites()
}

// ListWatched reads watched records straight from the store.
func (s *Service) ListWatched() ([]domain.WatchedMovie, error) {
	return s.store.ListWatched()
}

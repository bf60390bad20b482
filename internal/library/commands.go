package library

import "github.com/mmcdole/filmhub/internal/domain"

// The write methods are fire-and-forget: each returns a buffered channel that
// receives the outcome once the worker has applied the write and republished
// the affected list. Callers may ignore it.

// SaveFavorite inserts or replaces a favorite.
func (s *Service) SaveFavorite(f domain.Favorite) <-chan error {
	return s.enqueue(job{
		op:      "save favorite",
		movieID: f.MovieID,
		run:     func() error { return s.store.UpsertFavorite(f) },
		publish: s.publishFavorites,
	})
}

// RemoveFavorite deletes the favorite for movieID.
func (s *Service) RemoveFavorite(movieID int) <-chan error {
	return s.enqueue(job{
		op:      "remove favorite",
		movieID: movieID,
		run:     func() error { return s.store.DeleteFavorite(movieID) },
		publish: s.publishFavorites,
	})
}

// SaveWatched inserts or replaces the watched record for w.MovieID.
func (s *Service) SaveWatched(w domain.WatchedMovie) <-chan error {
	return s.enqueue(job{
		op:      "save watched",
		movieID: w.MovieID,
		run:     func() error { return s.store.UpsertWatched(w) },
		publish: s.publishWatched,
	})
}

// RemoveWatched deletes the watched record for movieID.
func (s *Service) RemoveWatched(movieID int) <-chan error {
	return s.enqueue(job{
		op:      "remove watched",
		movieID: movieID,
		run:     func() error { return s.store.DeleteWatched(movieID) },
		publish: s.publishWatched,
	})
}

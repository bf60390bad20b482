package domain

import "context"

// CatalogClient is the remote movie catalog.
type CatalogClient interface {
	// Discover lists movies matching the sort and genre filter. Empty genreIDs means all genres.
	Discover(ctx context.Context, sort SortKey, genreIDs []int, page int) (*ResultPage, error)

	// Search lists movies whose title matches query.
	Search(ctx context.Context, query string, page int) (*ResultPage, error)

	// Genres returns the genre vocabulary.
	Genres(ctx context.Context) ([]Genre, error)

	// Detail returns the full record for one movie.
	Detail(ctx context.Context, id int) (*MovieDetail, error)
}

// FavoriteRepository persists favorites. Listing is ordered by title.
type FavoriteRepository interface {
	UpsertFavorite(f Favorite) error
	DeleteFavorite(movieID int) error
	GetFavorite(movieID int) (*Favorite, error)
	ListFavorites() ([]Favorite, error)
}

// WatchedRepository persists watched reviews. Listing is newest first.
type WatchedRepository interface {
	UpsertWatched(w WatchedMovie) error
	DeleteWatched(movieID int) error
	GetWatched(movieID int) (*WatchedMovie, error)
	ListWatched() ([]WatchedMovie, error)
}

// Store is the local persistence backend.
type Store interface {
	FavoriteRepository
	WatchedRepository
	Close() error
}

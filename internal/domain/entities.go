package domain

import (
	"strconv"
	"time"
)

// Movie is a catalog entry as returned by discover and search listings.
type Movie struct {
	ID           int
	Title        string
	Overview     string
	PosterPath   string // relative image path, empty when the catalog has none
	BackdropPath string
	ReleaseDate  string // YYYY-MM-DD
	VoteAverage  float64
	VoteCount    int
	Popularity   float64
	GenreIDs     []int
}

// Year returns the release year, or 0 if the release date is missing or malformed.
func (m Movie) Year() int {
	if len(m.ReleaseDate) < 4 {
		return 0
	}
	y, err := strconv.Atoi(m.ReleaseDate[:4])
	if err != nil {
		return 0
	}
	return y
}

// MovieDetail is the full record for one movie, fetched fresh for each detail view.
type MovieDetail struct {
	Movie
	Tagline string
	Runtime int // minutes
	Genres  []Genre
	Status  string
}

// GenreNames returns the genre names in catalog order.
func (d MovieDetail) GenreNames() []string {
	names := make([]string, 0, len(d.Genres))
	for _, g := range d.Genres {
		names = append(names, g.Name)
	}
	return names
}

// Genre is a catalog genre (filter vocabulary and denormalized label).
type Genre struct {
	ID   int
	Name string
}

// ResultPage is one page of a discover or search listing.
type ResultPage struct {
	Page         int
	TotalPages   int
	TotalResults int
	Movies       []Movie
}

// Favorite is a locally persisted favorite, keyed by MovieID.
type Favorite struct {
	MovieID    int    `json:"movie_id" db:"movie_id"`
	Title      string `json:"title" db:"title"`
	PosterPath string `json:"poster_path" db:"poster_path"`
}

// NewFavorite builds a favorite record from a loaded detail.
func NewFavorite(d MovieDetail) Favorite {
	return Favorite{
		MovieID:    d.ID,
		Title:      d.Title,
		PosterPath: d.PosterPath,
	}
}

// WatchedMovie is a personal review of a movie, keyed by MovieID.
// Saving a second review for the same movie replaces the first.
type WatchedMovie struct {
	MovieID    int       `json:"movie_id"`
	Title      string    `json:"title"`
	PosterPath string    `json:"poster_path"`
	WatchedAt  time.Time `json:"watched_at"`
	Rating     float64   `json:"rating"`
	Review     string    `json:"review"`
	Runtime    int       `json:"runtime"`
	Genres     string    `json:"genres"` // see EncodeGenres
}

// GenreList decodes the denormalized genre string.
func (w WatchedMovie) GenreList() []string {
	return DecodeGenres(w.Genres)
}

// Rating bounds for a watched review.
const (
	MinRating = 0.0
	MaxRating = 5.0
)

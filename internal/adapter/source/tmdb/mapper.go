package tmdb

import (
	"fmt"

	"github.com/mmcdole/filmhub/internal/domain"
)

// MapMovie converts a listing entry to a domain movie
func MapMovie(m MovieDTO) domain.Movie {
	return domain.Movie{
		ID:           m.ID,
		Title:        m.Title,
		Overview:     m.Overview,
		PosterPath:   deref(m.PosterPath),
		BackdropPath: deref(m.BackdropPath),
		ReleaseDate:  m.ReleaseDate,
		VoteAverage:  m.VoteAverage,
		VoteCount:    m.VoteCount,
		Popularity:   m.Popularity,
		GenreIDs:     m.GenreIDs,
	}
}

// MapResultPage converts a listing envelope. A null result list is an error,
// not an empty page.
func MapResultPage(r MovieListResponse) (*domain.ResultPage, error) {
	if r.Results == nil {
		return nil, fmt.Errorf("%w: missing results", domain.ErrInvalidResponse)
	}
	movies := make([]domain.Movie, 0, len(r.Results))
	for _, m := range r.Results {
		movies = append(movies, MapMovie(m))
	}
	totalPages := r.TotalPages
	if totalPages < 1 {
		totalPages = 1
	}
	return &domain.ResultPage{
		Page:         r.Page,
		TotalPages:   totalPages,
		TotalResults: r.TotalResults,
		Movies:       movies,
	}, nil
}

// MapGenres converts genre DTOs
func MapGenres(gs []GenreDTO) []domain.Genre {
	genres := make([]domain.Genre, 0, len(gs))
	for _, g := range gs {
		genres = append(genres, domain.Genre{ID: g.ID, Name: g.Name})
	}
	return genres
}

// MapMovieDetail converts a movie/{id} body
func MapMovieDetail(d MovieDetailsDTO) *domain.MovieDetail {
	runtime := 0
	if d.Runtime != nil {
		runtime = *d.Runtime
	}
	genreIDs := make([]int, 0, len(d.Genres))
	for _, g := range d.Genres {
		genreIDs = append(genreIDs, g.ID)
	}
	return &domain.MovieDetail{
		Movie: domain.Movie{
			ID:           d.ID,
			Title:        d.Title,
			Overview:     d.Overview,
			PosterPath:   deref(d.PosterPath),
			BackdropPath: deref(d.BackdropPath),
			ReleaseDate:  d.ReleaseDate,
			VoteAverage:  d.VoteAverage,
			VoteCount:    d.VoteCount,
			Popularity:   d.Popularity,
			GenreIDs:     genreIDs,
		},
		Tagline: d.Tagline,
		Runtime: runtime,
		Genres:  MapGenres(d.Genres),
		Status:  d.Status,
	}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

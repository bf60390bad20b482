package tmdb

// MovieDTO is one entry of a discover or search listing.
type MovieDTO struct {
	ID           int     `json:"id"`
	Title        string  `json:"title"`
	Overview     string  `json:"overview"`
	PosterPath   *string `json:"poster_path"`
	BackdropPath *string `json:"backdrop_path"`
	ReleaseDate  string  `json:"release_date"`
	VoteAverage  float64 `json:"vote_average"`
	VoteCount    int     `json:"vote_count"`
	Popularity   float64 `json:"popularity"`
	GenreIDs     []int   `json:"genre_ids"`
}

// MovieListResponse is the envelope of discover/movie and search/movie.
// Results is nil when the body carried null or omitted it.
type MovieListResponse struct {
	Page         int        `json:"page"`
	Results      []MovieDTO `json:"results"`
	TotalPages   int        `json:"total_pages"`
	TotalResults int        `json:"total_results"`
}

// GenreDTO is a genre id/name pair.
type GenreDTO struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// GenreListResponse is the envelope of genre/movie/list.
type GenreListResponse struct {
	Genres []GenreDTO `json:"genres"`
}

// MovieDetailsDTO is the body of movie/{id}.
type MovieDetailsDTO struct {
	ID           int        `json:"id"`
	Title        string     `json:"title"`
	Overview     string     `json:"overview"`
	Tagline      string     `json:"tagline"`
	PosterPath   *string    `json:"poster_path"`
	BackdropPath *string    `json:"backdrop_path"`
	ReleaseDate  string     `json:"release_date"`
	Runtime      *int       `json:"runtime"`
	Status       string     `json:"status"`
	VoteAverage  float64    `json:"vote_average"`
	VoteCount    int        `json:"vote_count"`
	Popularity   float64    `json:"popularity"`
	Genres       []GenreDTO `json:"genres"`
}

// ErrorResponse is the body TMDB sends with non-2xx statuses.
type ErrorResponse struct {
	StatusCode    int    `json:"status_code"`
	StatusMessage string `json:"status_message"`
}

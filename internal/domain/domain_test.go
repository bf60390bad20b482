package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenreCodec(t *testing.T) {
	assert.Equal(t, "Action, Drama", EncodeGenres([]string{"Action", " Drama ", ""}))
	assert.Equal(t, "", EncodeGenres(nil))

	assert.Equal(t, []string{"Action", "Drama"}, DecodeGenres("Action, Drama"))
	assert.Equal(t, []string{"Action", "Drama"}, DecodeGenres("Action,Drama,"))
	assert.Nil(t, DecodeGenres(""))
	assert.Nil(t, DecodeGenres(" , "))

	names := []string{"Science Fiction", "War"}
	assert.Equal(t, names, DecodeGenres(EncodeGenres(names)))
}

func TestJoinIDs(t *testing.T) {
	assert.Equal(t, "28,12,16", JoinIDs([]int{28, 12, 16}))
	assert.Equal(t, "", JoinIDs(nil))
}

func TestSortKeys(t *testing.T) {
	for _, k := range SortOptions() {
		parsed, err := ParseSortKey(k.Param())
		require.NoError(t, err)
		assert.Equal(t, k, parsed)
	}
	assert.Equal(t, "popularity.desc", DefaultSort.Param())

	_, err := ParseSortKey("title.asc")
	assert.Error(t, err)
}

func TestImageURL(t *testing.T) {
	assert.Equal(t, "https://image.tmdb.org/t/p/w500/abc.jpg", ImageURL("https://image.tmdb.org/t/p/w500/", "/abc.jpg"))
	assert.Equal(t, "", ImageURL("https://image.tmdb.org/t/p/w500", ""))
	assert.Equal(t, "https://www.themoviedb.org/movie/949", MoviePageURL("https://www.themoviedb.org/movie/", 949))
}

func TestMovieYear(t *testing.T) {
	assert.Equal(t, 2016, Movie{ReleaseDate: "2016-11-10"}.Year())
	assert.Equal(t, 0, Movie{ReleaseDate: ""}.Year())
	assert.Equal(t, 0, Movie{ReleaseDate: "soon"}.Year())
}

package detail

import (
	"context"
	"testing"
	"time"

	"github.com/mmcdole/filmhub/internal/adapter"
	"github.com/mmcdole/filmhub/internal/domain"
	"github.com/mmcdole/filmhub/internal/library"
	"github.com/mmcdole/filmhub/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeCatalog struct {
	details map[int]*domain.MovieDetail
	release chan struct{} // when set, Detail blocks until closed
}

func (f *fakeCatalog) Discover(context.Context, domain.SortKey, []int, int) (*domain.ResultPage, error) {
	return nil, domain.ErrNotFound
}

func (f *fakeCatalog) Search(context.Context, string, int) (*domain.ResultPage, error) {
	return nil, domain.ErrNotFound
}

func (f *fakeCatalog) Genres(context.Context) ([]domain.Genre, error) { return nil, nil }

func (f *fakeCatalog) Detail(ctx context.Context, id int) (*domain.MovieDetail, error) {
	if f.release != nil {
		select {
		case <-f.release:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	d, ok := f.details[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return d, nil
}

var arrival = &domain.MovieDetail{
	Movie:   domain.Movie{ID: 329865, Title: "Arrival", PosterPath: "/arrival.jpg"},
	Runtime: 116,
	Genres:  []domain.Genre{{ID: 18, Name: "Drama"}, {ID: 878, Name: "Science Fiction"}},
}

func setup(t *testing.T, catalog *fakeCatalog) (*Controller, *library.Service) {
	t.Helper()
	st, err := store.NewBoltStore("")
	require.NoError(t, err)
	lib := library.NewService(st, adapter.NullLogger())
	c := New(catalog, lib, time.Second, adapter.NullLogger())
	t.Cleanup(func() {
		c.Close()
		lib.Close()
		st.Close()
	})
	return c, lib
}

func await(t *testing.T, ch <-chan error) {
	t.Helper()
	select {
	case err := <-ch:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("write did not complete")
	}
}

func waitDetail(t *testing.T, c *Controller) *domain.MovieDetail {
	t.Helper()
	require.Eventually(t, func() bool {
		d, ok := c.Detail().Get()
		return ok && d != nil
	}, 2*time.Second, 5*time.Millisecond)
	d, _ := c.Detail().Get()
	return d
}

func TestLoadPublishesIndependently(t *testing.T) {
	catalog := &fakeCatalog{
		details: map[int]*domain.MovieDetail{arrival.ID: arrival},
		release: make(chan struct{}),
	}
	c, _ := setup(t, catalog)

	c.Load(arrival.ID)

	// Local state arrives while the catalog is still blocked
	fav, ok := c.Favorite().Get()
	require.True(t, ok)
	assert.Nil(t, fav)
	watched, ok := c.Watched().Get()
	require.True(t, ok)
	assert.Nil(t, watched)
	_, ok = c.Detail().Get()
	assert.False(t, ok)

	close(catalog.release)
	d := waitDetail(t, c)
	assert.Equal(t, "Arrival", d.Title)
}

func TestLoadFailureIsPublished(t *testing.T) {
	c, _ := setup(t, &fakeCatalog{details: map[int]*domain.MovieDetail{}})

	c.Load(1)
	require.Eventually(t, func() bool {
		err, ok := c.LoadErrors().Get()
		return ok && err != nil
	}, 2*time.Second, 5*time.Millisecond)

	err, _ := c.LoadErrors().Get()
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestToggleFavoriteIgnoredWithoutDetail(t *testing.T) {
	catalog := &fakeCatalog{details: map[int]*domain.MovieDetail{arrival.ID: arrival}, release: make(chan struct{})}
	c, lib := setup(t, catalog)

	c.Load(arrival.ID)
	await(t, c.ToggleFavorite())

	favs, _ := lib.Favorites().Get()
	assert.Empty(t, favs)
	close(catalog.release)
}

func TestToggleFavoriteTwiceRestoresState(t *testing.T) {
	c, lib := setup(t, &fakeCatalog{details: map[int]*domain.MovieDetail{arrival.ID: arrival}})

	c.Load(arrival.ID)
	waitDetail(t, c)

	await(t, c.ToggleFavorite())
	fav, _ := c.Favorite().Get()
	require.NotNil(t, fav)
	assert.Equal(t, domain.Favorite{MovieID: arrival.ID, Title: "Arrival", PosterPath: "/arrival.jpg"}, *fav)

	favs, _ := lib.Favorites().Get()
	assert.Len(t, favs, 1)

	await(t, c.ToggleFavorite())
	fav, _ = c.Favorite().Get()
	assert.Nil(t, fav)
}

func TestSaveWatchedReplacesPreviousReview(t *testing.T) {
	c, lib := setup(t, &fakeCatalog{details: map[int]*domain.MovieDetail{arrival.ID: arrival}})

	first := time.Date(2024, 1, 1, 21, 0, 0, 0, time.UTC)
	second := first.Add(48 * time.Hour)
	c.now = func() time.Time { return first }

	c.Load(arrival.ID)
	waitDetail(t, c)

	assert.Equal(t, Draft{}, c.ReviewDraft())

	ch, err := c.SaveWatched(4, "  quiet and huge  ")
	require.NoError(t, err)
	await(t, ch)

	draft := c.ReviewDraft()
	assert.Equal(t, Draft{Rating: 4, Review: "quiet and huge", Editing: true}, draft)

	c.now = func() time.Time { return second }
	ch, err = c.SaveWatched(5, "even better")
	require.NoError(t, err)
	await(t, ch)

	all, err := lib.ListWatched()
	require.NoError(t, err)
	require.Len(t, all, 1)

	w := all[0]
	assert.Equal(t, 5.0, w.Rating)
	assert.Equal(t, "even better", w.Review)
	assert.True(t, w.WatchedAt.Equal(second))
	assert.Equal(t, 116, w.Runtime)
	assert.Equal(t, "Drama, Science Fiction", w.Genres)
	assert.Equal(t, []string{"Drama", "Science Fiction"}, w.GenreList())
}

func TestSaveWatchedValidatesRating(t *testing.T) {
	c, _ := setup(t, &fakeCatalog{details: map[int]*domain.MovieDetail{arrival.ID: arrival}})
	c.Load(arrival.ID)
	waitDetail(t, c)

	_, err := c.SaveWatched(5.5, "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "rating")

	_, err = c.SaveWatched(-1, "")
	require.Error(t, err)
}

func TestSaveWatchedIgnoredWithoutDetail(t *testing.T) {
	c, lib := setup(t, &fakeCatalog{details: map[int]*domain.MovieDetail{}})
	c.Load(42)

	ch, err := c.SaveWatched(3, "no detail yet")
	require.NoError(t, err)
	await(t, ch)

	all, err := lib.ListWatched()
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestRemoveWatched(t *testing.T) {
	c, lib := setup(t, &fakeCatalog{details: map[int]*domain.MovieDetail{arrival.ID: arrival}})
	c.Load(arrival.ID)
	waitDetail(t, c)

	ch, err := c.SaveWatched(3, "ok")
	require.NoError(t, err)
	await(t, ch)

	await(t, c.RemoveWatched())
	w, _ := c.Watched().Get()
	assert.Nil(t, w)

	all, _ := lib.ListWatched()
	assert.Empty(t, all)
}

func TestExternalWriteReachesController(t *testing.T) {
	c, lib := setup(t, &fakeCatalog{details: map[int]*domain.MovieDetail{arrival.ID: arrival}})
	c.Load(arrival.ID)

	await(t, lib.SaveFavorite(domain.Favorite{MovieID: arrival.ID, Title: "Arrival"}))
	fav, _ := c.Favorite().Get()
	require.NotNil(t, fav)

	// Other movies do not affect this one
	await(t, lib.SaveFavorite(domain.Favorite{MovieID: 1, Title: "Other"}))
	fav, _ = c.Favorite().Get()
	require.NotNil(t, fav)
	assert.Equal(t, arrival.ID, fav.MovieID)
}

func TestCloseStopsUpdates(t *testing.T) {
	c, lib := setup(t, &fakeCatalog{details: map[int]*domain.MovieDetail{arrival.ID: arrival}})
	c.Load(arrival.ID)
	c.Close()

	await(t, lib.SaveFavorite(domain.Favorite{MovieID: arrival.ID}))
	fav, _ := c.Favorite().Get()
	assert.Nil(t, fav)
}

func TestLoadAnotherMovieDropsPreviousDetail(t *testing.T) {
	catalog := &fakeCatalog{details: map[int]*domain.MovieDetail{arrival.ID: arrival}}
	c, lib := setup(t, catalog)

	c.Load(arrival.ID)
	waitDetail(t, c)
	await(t, c.ToggleFavorite())
	ch, err := c.SaveWatched(4, "quiet")
	require.NoError(t, err)
	await(t, ch)
	await(t, lib.SaveFavorite(domain.Favorite{MovieID: 2, Title: "Other"}))

	// Movie 2's detail stays in flight
	catalog.release = make(chan struct{})
	defer close(catalog.release)
	c.Load(2)

	d, ok := c.Detail().Get()
	require.True(t, ok)
	assert.Nil(t, d)
	assert.Equal(t, 2, c.MovieID())

	await(t, c.ToggleFavorite())
	ch, err = c.SaveWatched(1, "wrong movie")
	require.NoError(t, err)
	await(t, ch)
	await(t, c.RemoveWatched())

	favs, err := lib.ListFavorites()
	require.NoError(t, err)
	assert.Len(t, favs, 2)

	watched, err := lib.ListWatched()
	require.NoError(t, err)
	require.Len(t, watched, 1)
	assert.Equal(t, arrival.ID, watched[0].MovieID)
	assert.Equal(t, "quiet", watched[0].Review)
}

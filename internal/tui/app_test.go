package tui

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mmcdole/filmhub/internal/adapter"
	"github.com/mmcdole/filmhub/internal/browse"
	"github.com/mmcdole/filmhub/internal/detail"
	"github.com/mmcdole/filmhub/internal/domain"
	"github.com/mmcdole/filmhub/internal/library"
	"github.com/mmcdole/filmhub/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const pageSize = 20

type fakeCatalog struct {
	discoverErr error
}

func moviePage(page, totalPages int) *domain.ResultPage {
	movies := make([]domain.Movie, pageSize)
	for i := range movies {
		id := page*100 + i
		movies[i] = domain.Movie{
			ID:          id,
			Title:       fmt.Sprintf("Movie %d", id),
			ReleaseDate: "2001-05-04",
			VoteAverage: 7.5,
		}
	}
	return &domain.ResultPage{Page: page, TotalPages: totalPages, TotalResults: totalPages * pageSize, Movies: movies}
}

func (f *fakeCatalog) Discover(_ context.Context, _ domain.SortKey, _ []int, page int) (*domain.ResultPage, error) {
	if f.discoverErr != nil {
		return nil, f.discoverErr
	}
	return moviePage(page, 3), nil
}

func (f *fakeCatalog) Search(_ context.Context, query string, page int) (*domain.ResultPage, error) {
	return &domain.ResultPage{
		Page:         page,
		TotalPages:   1,
		TotalResults: 1,
		Movies:       []domain.Movie{{ID: 949, Title: "Heat", ReleaseDate: "1995-12-15"}},
	}, nil
}

func (f *fakeCatalog) Genres(context.Context) ([]domain.Genre, error) {
	return []domain.Genre{{ID: 28, Name: "Action"}, {ID: 80, Name: "Crime"}}, nil
}

func (f *fakeCatalog) Detail(_ context.Context, id int) (*domain.MovieDetail, error) {
	return &domain.MovieDetail{
		Movie:   domain.Movie{ID: id, Title: fmt.Sprintf("Movie %d", id), Overview: "A film."},
		Runtime: 120,
		Genres:  []domain.Genre{{ID: 80, Name: "Crime"}},
	}, nil
}

type recordingOpener struct {
	urls []string
}

func (o *recordingOpener) Open(url string) error {
	o.urls = append(o.urls, url)
	return nil
}

func newTestModel(t *testing.T, catalog *fakeCatalog) Model {
	t.Helper()

	st, err := store.NewBoltStore("")
	require.NoError(t, err)
	logger := adapter.NullLogger()

	lib := library.NewService(st, logger)
	b := browse.New(catalog, browse.Config{PageTimeout: time.Second, RequestTimeout: time.Second}, logger)
	d := detail.New(catalog, lib, time.Second, logger)

	m := NewModel(Deps{
		Browse:    b,
		Library:   lib,
		Detail:    d,
		Opener:    &recordingOpener{},
		ImageBase: "https://img.test/w500",
		WebBase:   "https://movies.test/movie/",
		Logger:    logger,
	})
	t.Cleanup(func() {
		m.Close()
		d.Close()
		b.Close()
		lib.Close()
		st.Close()
	})

	model, _ := m.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	b.Start()
	return model.(Model)
}

// pump feeds relay updates into the model until cond holds.
func pump(t *testing.T, m Model, cond func(Model) bool) Model {
	t.Helper()
	deadline := time.After(2 * time.Second)
	for !cond(m) {
		next := make(chan tea.Msg, 1)
		go func() { next <- m.relay.Next()() }()
		select {
		case msg := <-next:
			model, _ := m.Update(msg)
			m = model.(Model)
		case <-deadline:
			t.Fatal("model did not reach the expected state")
		}
	}
	return m
}

func press(t *testing.T, m Model, keys ...tea.KeyMsg) (Model, tea.Cmd) {
	t.Helper()
	var cmd tea.Cmd
	for _, k := range keys {
		var model tea.Model
		model, cmd = m.Update(k)
		m = model.(Model)
	}
	return m, cmd
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func typed(s string) []tea.KeyMsg {
	keys := make([]tea.KeyMsg, 0, len(s))
	for _, r := range s {
		keys = append(keys, runes(string(r)))
	}
	return keys
}

func ready(m Model) bool { return m.results.Status == browse.StatusReady }

func TestModelShowsFirstPage(t *testing.T) {
	m := newTestModel(t, &fakeCatalog{})
	m = pump(t, m, func(m Model) bool { return ready(m) && len(m.genres) > 0 })

	assert.Equal(t, pageSize, m.BrowseList.Len())
	assert.Contains(t, m.View(), "Movie 100")
	assert.Contains(t, m.View(), "Discover · Popularity")
}

func TestModelLoadsMoreNearEnd(t *testing.T) {
	m := newTestModel(t, &fakeCatalog{})
	m = pump(t, m, ready)

	m, _ = press(t, m, runes("G"))
	m = pump(t, m, func(m Model) bool {
		return ready(m) && !m.results.LoadingMore && len(m.results.Movies) == 2*pageSize
	})
	assert.Equal(t, 2, m.results.Page)
	assert.Equal(t, 2*pageSize, m.BrowseList.Len())
	assert.Equal(t, pageSize-1, m.BrowseList.Cursor())
}

func TestModelPageOneFailure(t *testing.T) {
	m := newTestModel(t, &fakeCatalog{discoverErr: domain.ErrServerOffline})
	m = pump(t, m, func(m Model) bool { return m.results.Status == browse.StatusFailed })

	assert.Equal(t, 0, m.BrowseList.Len())
	assert.Contains(t, m.View(), "Could not load movies")
}

func TestModelSearch(t *testing.T) {
	m := newTestModel(t, &fakeCatalog{})
	m = pump(t, m, ready)

	m, _ = press(t, m, runes("/"))
	require.True(t, m.SearchInput.IsVisible())
	m, _ = press(t, m, typed("heat")...)
	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	assert.False(t, m.SearchInput.IsVisible())

	m = pump(t, m, func(m Model) bool { return ready(m) && m.results.Query == "heat" })
	assert.Equal(t, 1, m.BrowseList.Len())
	assert.Contains(t, m.View(), "Search: heat")

	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	m = pump(t, m, func(m Model) bool { return ready(m) && m.results.Query == "" })
	assert.Equal(t, pageSize, m.BrowseList.Len())
}

func TestModelGenreFilter(t *testing.T) {
	m := newTestModel(t, &fakeCatalog{})
	m = pump(t, m, func(m Model) bool { return ready(m) && len(m.genres) > 0 })

	m, _ = press(t, m, runes("g"))
	require.True(t, m.GenrePicker.IsVisible())
	m, _ = press(t, m, typed("cri")...)
	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyTab}, tea.KeyMsg{Type: tea.KeyEnter})

	m = pump(t, m, func(m Model) bool { return ready(m) && len(m.results.Filters.GenreIDs) == 1 })
	assert.Equal(t, []int{80}, m.results.Filters.GenreIDs)
	assert.Contains(t, m.View(), "Crime")
}

func TestModelFavoriteAndReview(t *testing.T) {
	m := newTestModel(t, &fakeCatalog{})
	m = pump(t, m, ready)

	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	require.Equal(t, StateDetail, m.State)
	m = pump(t, m, func(m Model) bool { return m.detail != nil && m.favoriteKnown })
	assert.Contains(t, m.View(), "Not in favorites")

	m, cmd := press(t, m, runes("f"))
	require.NotNil(t, cmd)
	assert.Equal(t, StatusMsg{Message: "Added to favorites"}, cmd())
	m = pump(t, m, func(m Model) bool { return m.detailFavorite != nil && len(m.favorites) == 1 })
	assert.Contains(t, m.View(), "In favorites")

	m, _ = press(t, m, runes("w"))
	require.True(t, m.ReviewForm.IsVisible())
	m, _ = press(t, m, runes("4"))
	m, cmd = press(t, m, tea.KeyMsg{Type: tea.KeyCtrlS})
	require.NotNil(t, cmd)
	assert.False(t, m.ReviewForm.IsVisible())
	assert.Equal(t, StatusMsg{Message: "Review saved"}, cmd())

	m = pump(t, m, func(m Model) bool { return m.detailWatched != nil && len(m.watched) == 1 })
	assert.Equal(t, 4.0, m.detailWatched.Rating)
	assert.Equal(t, "Crime", m.detailWatched.Genres)

	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	assert.Equal(t, StateBrowsing, m.State)

	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyShiftTab})
	assert.Equal(t, TabStats, m.Tab)
	view := m.View()
	assert.Contains(t, view, "120 minutes")
	assert.Contains(t, view, "Crime")
}

func TestModelReviewRejectsOutOfRangeRating(t *testing.T) {
	m := newTestModel(t, &fakeCatalog{})
	m = pump(t, m, ready)
	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	m = pump(t, m, func(m Model) bool { return m.detail != nil })

	m, _ = press(t, m, runes("w"))
	m, _ = press(t, m, runes("9"))
	m, cmd := press(t, m, tea.KeyMsg{Type: tea.KeyCtrlS})
	assert.Nil(t, cmd)
	assert.True(t, m.ReviewForm.IsVisible())
	assert.Contains(t, m.View(), "must be between 0 and 5")
}

func TestModelTabs(t *testing.T) {
	m := newTestModel(t, &fakeCatalog{})
	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyTab})
	assert.Equal(t, TabFavorites, m.Tab)
	assert.Contains(t, m.View(), "No favorites yet")

	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyTab})
	assert.Equal(t, TabWatched, m.Tab)

	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyShiftTab}, tea.KeyMsg{Type: tea.KeyShiftTab})
	assert.Equal(t, TabBrowse, m.Tab)
}

func TestModelStatusLine(t *testing.T) {
	m := newTestModel(t, &fakeCatalog{})

	model, cmd := m.Update(WriteFailureMsg{Failure: library.WriteFailure{
		Op: "save favorite", MovieID: 1, Err: fmt.Errorf("disk full"),
	}})
	m = model.(Model)
	require.NotNil(t, cmd)
	assert.True(t, m.StatusIsErr)
	assert.True(t, strings.Contains(m.View(), "Not saved: save favorite: disk full"))

	// A stale clear does not wipe a newer message.
	model, _ = m.Update(StatusMsg{Message: "newer"})
	m = model.(Model)
	model, _ = m.Update(ClearStatusMsg{seq: m.statusSeq - 1})
	m = model.(Model)
	assert.Equal(t, "newer", m.StatusMsg)

	model, _ = m.Update(ClearStatusMsg{seq: m.statusSeq})
	m = model.(Model)
	assert.Empty(t, m.StatusMsg)
}

func TestModelOpensMoviePage(t *testing.T) {
	m := newTestModel(t, &fakeCatalog{})
	m = pump(t, m, ready)
	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyEnter})

	m, cmd := press(t, m, runes("o"))
	require.NotNil(t, cmd)
	assert.Equal(t, StatusMsg{Message: "Opened https://movies.test/movie/100"}, cmd())
	assert.Equal(t, []string{"https://movies.test/movie/100"}, m.opener.(*recordingOpener).urls)
}

func TestModelIgnoresLocalStateOfPreviousMovie(t *testing.T) {
	m := newTestModel(t, &fakeCatalog{})
	m.openDetail(200)

	model, _ := m.Update(DetailFavoriteMsg{Favorite: &domain.Favorite{MovieID: 100, Title: "Movie 100"}})
	m = model.(Model)
	assert.False(t, m.favoriteKnown)
	assert.Nil(t, m.detailFavorite)

	model, _ = m.Update(DetailWatchedMsg{Watched: &domain.WatchedMovie{MovieID: 100, Rating: 4}})
	m = model.(Model)
	assert.Nil(t, m.detailWatched)

	model, _ = m.Update(DetailFavoriteMsg{Favorite: &domain.Favorite{MovieID: 200, Title: "Movie 200"}})
	m = model.(Model)
	assert.True(t, m.favoriteKnown)
	require.NotNil(t, m.detailFavorite)
	assert.Equal(t, 200, m.detailFavorite.MovieID)
}

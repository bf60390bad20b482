// Package detail composes one movie's catalog record with its local favorite
// and watched state.
package detail

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/mmcdole/filmhub/internal/domain"
	"github.com/mmcdole/filmhub/internal/observe"
	"github.com/mmcdole/filmhub/internal/validator"
)

const defaultTimeout = 10 * time.Second

// Library is the local store surface the controller needs.
type Library interface {
	Favorite(movieID int) (*observe.Value[*domain.Favorite], func())
	WatchedMovie(movieID int) (*observe.Value[*domain.WatchedMovie], func())
	SaveFavorite(f domain.Favorite) <-chan error
	RemoveFavorite(movieID int) <-chan error
	SaveWatched(w domain.WatchedMovie) <-chan error
	RemoveWatched(movieID int) <-chan error
}

// Draft pre-fills the review form.
type Draft struct {
	Rating  float64
	Review  string
	Editing bool // an existing review will be replaced
}

// Controller serves one movie's detail screen. Detail, Favorite and Watched
// publish independently, in whatever order their sources answer.
type Controller struct {
	client  domain.CatalogClient
	lib     Library
	logger  *slog.Logger
	timeout time.Duration
	now     func() time.Time

	mu          sync.Mutex
	movieID     int
	seq         uint64
	cancelFetch context.CancelFunc
	unsubscribe []func()
	wg          sync.WaitGroup

	detail     *observe.Value[*domain.MovieDetail]
	favorite   *observe.Value[*domain.Favorite]
	watched    *observe.Value[*domain.WatchedMovie]
	loadErrors *observe.Value[error]
}

// New creates a controller. timeout bounds the detail fetch; zero uses a default.
func New(client domain.CatalogClient, lib Library, timeout time.Duration, logger *slog.Logger) *Controller {
	if logger == nil {
		logger = slog.Default()
	}
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Controller{
		client:     client,
		lib:        lib,
		logger:     logger,
		timeout:    timeout,
		now:        time.Now,
		detail:     observe.NewValue[*domain.MovieDetail](),
		favorite:   observe.NewValue[*domain.Favorite](),
		watched:    observe.NewValue[*domain.WatchedMovie](),
		loadErrors: observe.NewValue[error](),
	}
}

// Detail publishes the catalog record once fetched.
func (c *Controller) Detail() *observe.Value[*domain.MovieDetail] { return c.detail }

// Favorite publishes the favorite record, nil when the movie is not a favorite.
func (c *Controller) Favorite() *observe.Value[*domain.Favorite] { return c.favorite }

// Watched publishes the watched record, nil when the movie has no review.
func (c *Controller) Watched() *observe.Value[*domain.WatchedMovie] { return c.watched }

// LoadErrors publishes a failed detail fetch.
func (c *Controller) LoadErrors() *observe.Value[error] { return c.loadErrors }

// MovieID returns the id passed to Load.
func (c *Controller) MovieID() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.movieID
}

// Load fetches the detail for movieID and starts tracking its local state.
// Calling it again (for a retry, or another id) replaces the previous load.
func (c *Controller) Load(movieID int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.stopLocked()
	if _, had := c.detail.Get(); had && movieID != c.movieID {
		c.detail.Set(nil)
	}
	if _, had := c.loadErrors.Get(); had {
		c.loadErrors.Set(nil)
	}
	c.movieID = movieID
	c.seq++
	seq := c.seq

	fav, cancelFav := c.lib.Favorite(movieID)
	watched, cancelWatched := c.lib.WatchedMovie(movieID)
	c.unsubscribe = []func(){
		fav.Subscribe(c.favorite.Set),
		watched.Subscribe(c.watched.Set),
		cancelFav,
		cancelWatched,
	}

	ctx, cancel := context.WithTimeout(context.Background(), c.timeout)
	c.cancelFetch = cancel

	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		defer cancel()

		d, err := c.client.Detail(ctx, movieID)

		c.mu.Lock()
		defer c.mu.Unlock()
		if seq != c.seq {
			return
		}
		if err != nil {
			c.logger.Error("failed to fetch movie detail", "error", err, "movieID", movieID)
			c.loadErrors.Set(err)
			return
		}
		c.logger.Debug("fetched movie detail", "movieID", movieID)
		c.detail.Set(d)
	}()
}

// Close stops the fetch and local subscriptions.
func (c *Controller) Close() {
	c.mu.Lock()
	c.seq++
	c.stopLocked()
	c.mu.Unlock()
	c.wg.Wait()
}

func (c *Controller) stopLocked() {
	if c.cancelFetch != nil {
		c.cancelFetch()
		c.cancelFetch = nil
	}
	for _, fn := range c.unsubscribe {
		fn()
	}
	c.unsubscribe = nil
}

// ToggleFavorite adds the movie to favorites, or removes it if present.
// It does nothing until both the detail and the favorite state have arrived.
func (c *Controller) ToggleFavorite() <-chan error {
	d, ok := c.loadedDetail()
	if !ok {
		c.logger.Debug("toggle favorite ignored, detail not loaded")
		return done(nil)
	}
	fav, ok := c.favorite.Get()
	if !ok || (fav != nil && fav.MovieID != d.ID) {
		c.logger.Debug("toggle favorite ignored, favorite state not loaded", "movieID", d.ID)
		return done(nil)
	}

	if fav == nil {
		return c.lib.SaveFavorite(domain.NewFavorite(*d))
	}
	return c.lib.RemoveFavorite(d.ID)
}

// SaveWatched stores a review, replacing any earlier one for the movie.
// It does nothing until the detail has loaded. An out-of-range rating is
// rejected with a validation error.
func (c *Controller) SaveWatched(rating float64, review string) (<-chan error, error) {
	v := validator.New()
	v.Check(validator.InRange(rating, domain.MinRating, domain.MaxRating), "rating", "must be between 0 and 5")
	if err := v.Err(); err != nil {
		return nil, err
	}

	d, ok := c.loadedDetail()
	if !ok {
		c.logger.Debug("save review ignored, detail not loaded")
		return done(nil), nil
	}

	return c.lib.SaveWatched(domain.WatchedMovie{
		MovieID:    d.ID,
		Title:      d.Title,
		PosterPath: d.PosterPath,
		WatchedAt:  c.now(),
		Rating:     rating,
		Review:     strings.TrimSpace(review),
		Runtime:    d.Runtime,
		Genres:     domain.EncodeGenres(d.GenreNames()),
	}), nil
}

// RemoveWatched deletes the movie's review, if any.
func (c *Controller) RemoveWatched() <-chan error {
	w, ok := c.watched.Get()
	if !ok || w == nil || w.MovieID != c.MovieID() {
		return done(nil)
	}
	return c.lib.RemoveWatched(w.MovieID)
}

// loadedDetail returns the detail only if it belongs to the movie being shown.
func (c *Controller) loadedDetail() (*domain.MovieDetail, bool) {
	d, ok := c.detail.Get()
	if !ok || d == nil || d.ID != c.MovieID() {
		return nil, false
	}
	return d, true
}

// ReviewDraft returns the values to pre-fill the review form with.
func (c *Controller) ReviewDraft() Draft {
	w, ok := c.watched.Get()
	if !ok || w == nil {
		return Draft{}
	}
	return Draft{Rating: w.Rating, Review: w.Review, Editing: true}
}

func done(err error) <-chan error {
	ch := make(chan error, 1)
	ch <- err
	return ch
}

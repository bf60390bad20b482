// Package browse drives the paginated movie list: discover by sort and genre,
// or search by title, one page at a time.
package browse

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/mmcdole/filmhub/internal/domain"
	"github.com/mmcdole/filmhub/internal/observe"
)

// ErrTimeout marks a page-1 request that exceeded the page timeout.
var ErrTimeout = errors.New("timed out waiting for results")

const (
	defaultPageTimeout    = 15 * time.Second
	defaultRequestTimeout = 10 * time.Second
)

// Config holds controller settings.
type Config struct {
	PageTimeout    time.Duration // page-1 requests fail after this
	RequestTimeout time.Duration // load-more and genre requests
	Sort           domain.SortKey
}

type request struct {
	id         string
	generation uint64
	page       int
	query      string
	filters    Filters
}

// Controller owns the paging, filter and search state of one result list.
//
// Every page-1 request starts a new generation; a response is applied only if
// its generation is still current, so a late answer to an abandoned query
// never reaches the list. Subscribers to Results must not call back into the
// controller synchronously.
type Controller struct {
	client domain.CatalogClient
	cfg    Config
	logger *slog.Logger

	root context.Context
	stop context.CancelFunc
	wg   sync.WaitGroup

	mu         sync.Mutex
	closed     bool
	generation uint64
	genCtx     context.Context // cancelled when the generation is superseded
	genCancel  context.CancelFunc
	page       int
	totalPages int
	loading    bool
	status     Status
	err        error
	filters    Filters
	query      string
	movies     []domain.Movie

	results     *observe.Value[State]
	genres      *observe.Value[[]domain.Genre]
	genreErrors *observe.Value[error]
}

// New creates an idle controller. Call Start to fetch genres and the first page.
func New(client domain.CatalogClient, cfg Config, logger *slog.Logger) *Controller {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.PageTimeout <= 0 {
		cfg.PageTimeout = defaultPageTimeout
	}
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = defaultRequestTimeout
	}

	root, stop := context.WithCancel(context.Background())
	c := &Controller{
		client:      client,
		cfg:         cfg,
		logger:      logger,
		root:        root,
		stop:        stop,
		page:        1,
		totalPages:  1,
		filters:     Filters{Sort: cfg.Sort},
		results:     observe.NewValue[State](),
		genres:      observe.NewValue[[]domain.Genre](),
		genreErrors: observe.NewValue[error](),
	}
	c.results.Set(c.snapshotLocked())
	return c
}

// Results publishes the accumulated list.
func (c *Controller) Results() *observe.Value[State] { return c.results }

// Genres publishes the genre vocabulary once it has loaded.
func (c *Controller) Genres() *observe.Value[[]domain.Genre] { return c.genres }

// GenreErrors publishes each failed genre load.
func (c *Controller) GenreErrors() *observe.Value[error] { return c.genreErrors }

// Start fetches the genres and the first page.
func (c *Controller) Start() {
	c.RetryGenres()
	c.Refresh()
}

// Close cancels in-flight requests and waits for them to finish, including
// catalog calls still running past their deadline. The client must honour
// context cancellation for Close to return promptly.
func (c *Controller) Close() {
	c.mu.Lock()
	c.closed = true
	c.mu.Unlock()
	c.stop()
	c.wg.Wait()
}

// Refresh reloads page 1 of the current mode and replaces the list on success.
func (c *Controller) Refresh() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.refreshLocked()
}

// ApplyFilters switches to discover mode with the given filters and reloads.
// Invalid filters leave the controller untouched.
func (c *Controller) ApplyFilters(f Filters) error {
	if err := f.Validate(); err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.query = ""
	c.filters = f.clone()
	c.refreshLocked()
	return nil
}

// ApplySearch switches to search mode and reloads. A blank query returns to
// discover mode with the current filters.
func (c *Controller) ApplySearch(query string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.query = strings.TrimSpace(query)
	c.refreshLocked()
}

// LoadMore requests the next page and appends it on success. It reports
// whether a request was issued: nothing happens while a request is in flight,
// on the last page, or before page 1 has loaded.
func (c *Controller) LoadMore() bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed || c.loading || c.status != StatusReady || c.page >= c.totalPages {
		return false
	}

	c.page++
	c.loading = true
	req := c.newRequestLocked()
	c.results.Set(c.snapshotLocked())

	ctx, cancel := context.WithTimeout(c.genCtx, c.cfg.RequestTimeout)
	c.dispatch(ctx, cancel, req)
	return true
}

// RetryGenres fetches the genre vocabulary again.
func (c *Controller) RetryGenres() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}

	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		ctx, cancel := context.WithTimeout(c.root, c.cfg.RequestTimeout)
		defer cancel()

		genres, err := c.client.Genres(ctx)
		if err != nil {
			c.logger.Error("failed to fetch genres", "error", err)
			c.genreErrors.Set(err)
			return
		}
		c.logger.Debug("fetched genres", "count", len(genres))
		c.genres.Set(genres)
	}()
}

func (c *Controller) refreshLocked() {
	if c.closed {
		return
	}

	c.generation++
	if c.genCancel != nil {
		c.genCancel()
	}
	c.genCtx, c.genCancel = context.WithCancel(c.root)

	c.page = 1
	c.totalPages = 1
	c.loading = true
	c.status = StatusLoading
	c.err = nil
	req := c.newRequestLocked()
	c.results.Set(c.snapshotLocked())

	ctx, cancel := context.WithTimeout(c.genCtx, c.cfg.PageTimeout)
	c.dispatch(ctx, cancel, req)
}

func (c *Controller) newRequestLocked() request {
	return request{
		id:         uuid.NewString(),
		generation: c.generation,
		page:       c.page,
		query:      c.query,
		filters:    c.filters.clone(),
	}
}

func (c *Controller) dispatch(ctx context.Context, cancel context.CancelFunc, req request) {
	c.logger.Debug("requesting page",
		"request_id", req.id, "generation", req.generation, "page", req.page, "query", req.query)

	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		defer cancel()
		page, err := c.fetch(ctx, req)
		c.complete(req, page, err)
	}()
}

// fetch calls the catalog but gives up at the context deadline even if the
// client does not.
func (c *Controller) fetch(ctx context.Context, req request) (*domain.ResultPage, error) {
	type result struct {
		page *domain.ResultPage
		err  error
	}
	ch := make(chan result, 1)
	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		var r result
		if req.query != "" {
			r.page, r.err = c.client.Search(ctx, req.query, req.page)
		} else {
			r.page, r.err = c.client.Discover(ctx, req.filters.Sort, req.filters.GenreIDs, req.page)
		}
		ch <- r
	}()

	select {
	case r := <-ch:
		if r.err == nil && r.page == nil {
			r.err = domain.ErrInvalidResponse
		}
		if errors.Is(r.err, context.DeadlineExceeded) {
			r.err = ErrTimeout
		}
		return r.page, r.err
	case <-ctx.Done():
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return nil, ErrTimeout
		}
		return nil, ctx.Err()
	}
}

func (c *Controller) complete(req request, page *domain.ResultPage, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return
	}
	if req.generation != c.generation || req.page != c.page {
		c.logger.Debug("discarding stale response",
			"request_id", req.id, "generation", req.generation, "current", c.generation, "page", req.page)
		return
	}

	c.loading = false

	if err != nil {
		if req.page == 1 {
			c.logger.Error("failed to load results", "error", err, "request_id", req.id, "query", req.query)
			c.status = StatusFailed
			c.err = err
			c.movies = nil
		} else {
			// Step back so the next LoadMore asks for the same page again.
			c.logger.Warn("failed to load more results", "error", err, "request_id", req.id, "page", req.page)
			c.page--
		}
		c.results.Set(c.snapshotLocked())
		return
	}

	c.totalPages = max(page.TotalPages, 1)
	if req.page == 1 {
		c.movies = append([]domain.Movie(nil), page.Movies...)
	} else {
		c.movies = append(c.movies, page.Movies...)
	}
	c.status = StatusReady
	c.err = nil

	c.logger.Debug("results loaded",
		"request_id", req.id, "page", req.page, "total_pages", c.totalPages, "count", len(c.movies))
	c.results.Set(c.snapshotLocked())
}

func (c *Controller) snapshotLocked() State {
	return State{
		Movies:      append([]domain.Movie(nil), c.movies...),
		Page:        c.page,
		TotalPages:  c.totalPages,
		Status:      c.status,
		Err:         c.err,
		LoadingMore: c.loading && c.status == StatusReady,
		Filters:     c.filters.clone(),
		Query:       c.query,
		Generation:  c.generation,
	}
}

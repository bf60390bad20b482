package tmdb

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/mmcdole/filmhub/internal/domain"
	"golang.org/x/time/rate"
)

const (
	defaultTimeout = 10 * time.Second
	userAgent      = "FilmHub/1.0"
)

// Config holds the client settings.
type Config struct {
	BaseURL           string
	APIKey            string
	Language          string  // optional, e.g. "en-US"
	RequestsPerSecond float64 // <= 0 disables limiting
	Burst             int
	Timeout           time.Duration
}

// Client implements domain.CatalogClient against the TMDB v3 API
type Client struct {
	baseURL    string
	apiKey     string
	language   string
	httpClient *http.Client
	limiter    *rate.Limiter
	logger     *slog.Logger
}

// NewClient creates a new TMDB API client
func NewClient(cfg Config, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	limiter := rate.NewLimiter(rate.Inf, 0)
	if cfg.RequestsPerSecond > 0 {
		burst := cfg.Burst
		if burst < 1 {
			burst = 1
		}
		limiter = rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), burst)
	}

	return &Client{
		baseURL:  strings.TrimRight(cfg.BaseURL, "/") + "/",
		apiKey:   cfg.APIKey,
		language: cfg.Language,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		limiter: limiter,
		logger:  logger,
	}
}

// doRequest performs a rate-limited GET and returns the body of a 200 response
func (c *Client) doRequest(ctx context.Context, path string, query url.Values) ([]byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter: %w", err)
	}

	if query == nil {
		query = url.Values{}
	}
	query.Set("api_key", c.apiKey)
	if c.language != "" {
		query.Set("language", c.language)
	}
	reqURL := c.baseURL + path + "?" + query.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)

	c.logger.Debug("tmdb request", "path", path, "page", query.Get("page"))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		c.logger.Error("tmdb request failed", "error", err, "path", path)
		return nil, fmt.Errorf("%w: %v", domain.ErrServerOffline, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	switch resp.StatusCode {
	case http.StatusOK:
		return body, nil
	case http.StatusUnauthorized:
		return nil, domain.ErrAuthFailed
	case http.StatusNotFound:
		return nil, domain.ErrNotFound
	}

	var apiErr ErrorResponse
	_ = json.Unmarshal(body, &apiErr)
	c.logger.Error("tmdb request error", "status", resp.StatusCode, "path", path, "message", apiErr.StatusMessage)
	return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
}

func (c *Client) getJSON(ctx context.Context, path string, query url.Values, dest any) error {
	body, err := c.doRequest(ctx, path, query)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, dest); err != nil {
		c.logger.Error("JSON parse error", "error", err, "path", path, "bodyLen", len(body))
		return fmt.Errorf("%w: %v", domain.ErrInvalidResponse, err)
	}
	return nil
}

// Discover lists movies by sort order and genre filter
func (c *Client) Discover(ctx context.Context, sort domain.SortKey, genreIDs []int, page int) (*domain.ResultPage, error) {
	q := url.Values{}
	q.Set("sort_by", sort.Param())
	q.Set("include_adult", "false")
	q.Set("page", strconv.Itoa(page))
	if len(genreIDs) > 0 {
		q.Set("with_genres", domain.JoinIDs(genreIDs))
	}

	var resp MovieListResponse
	if err := c.getJSON(ctx, "discover/movie", q, &resp); err != nil {
		return nil, err
	}
	return MapResultPage(resp)
}

// Search lists movies matching a title query
func (c *Client) Search(ctx context.Context, query string, page int) (*domain.ResultPage, error) {
	q := url.Values{}
	q.Set("query", query)
	q.Set("include_adult", "false")
	q.Set("page", strconv.Itoa(page))

	var resp MovieListResponse
	if err := c.getJSON(ctx, "search/movie", q, &resp); err != nil {
		return nil, err
	}
	return MapResultPage(resp)
}

// Genres returns the movie genre vocabulary
func (c *Client) Genres(ctx context.Context) ([]domain.Genre, error) {
	var resp GenreListResponse
	if err := c.getJSON(ctx, "genre/movie/list", nil, &resp); err != nil {
		return nil, err
	}
	if resp.Genres == nil {
		return nil, fmt.Errorf("%w: missing genres", domain.ErrInvalidResponse)
	}
	return MapGenres(resp.Genres), nil
}

// Detail returns the full record for one movie
func (c *Client) Detail(ctx context.Context, id int) (*domain.MovieDetail, error) {
	var resp MovieDetailsDTO
	if err := c.getJSON(ctx, "movie/"+strconv.Itoa(id), nil, &resp); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("movie %d: %w", id, err)
		}
		return nil, err
	}
	return MapMovieDetail(resp), nil
}

var _ domain.CatalogClient = (*Client)(nil)

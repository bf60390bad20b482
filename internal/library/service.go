// Package library is the local favorites and watched-history store shared by
// every controller. Writes are serialized on one background worker; reads are
// observable cells refreshed after each write.
package library

import (
	"errors"
	"log/slog"
	"sync"

	"github.com/mmcdole/filmhub/internal/domain"
	"github.com/mmcdole/filmhub/internal/observe"
)

// ErrClosed is returned for writes submitted after Close.
var ErrClosed = errors.New("library is closed")

const queueSize = 64

// WriteFailure describes a write the store rejected.
type WriteFailure struct {
	Op      string
	MovieID int
	Err     error
}

func (f WriteFailure) Error() string {
	return f.Op + ": " + f.Err.Error()
}

type job struct {
	op      string
	movieID int
	run     func() error
	publish func()
	done    chan error
}

// Service owns the store and its writer goroutine.
type Service struct {
	store  domain.Store
	logger *slog.Logger

	mu     sync.Mutex // guards closed and sends on jobs
	closed bool
	jobs   chan job
	wg     sync.WaitGroup

	favorites *observe.Value[[]domain.Favorite]
	watched   *observe.Value[[]domain.WatchedMovie]
	failures  *observe.Value[WriteFailure]
}

// NewService loads both record lists and starts the writer.
func NewService(store domain.Store, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Service{
		store:     store,
		logger:    logger,
		jobs:      make(chan job, queueSize),
		favorites: observe.NewValue[[]domain.Favorite](),
		watched:   observe.NewValue[[]domain.WatchedMovie](),
		failures:  observe.NewValue[WriteFailure](),
	}

	s.publishFavorites()
	s.publishWatched()

	s.wg.Add(1)
	go s.run()
	return s
}

func (s *Service) run() {
	defer s.wg.Done()
	for j := range s.jobs {
		err := j.run()
		if err != nil {
			s.logger.Error("store write failed", "error", err, "op", j.op, "movieID", j.movieID)
			s.failures.Set(WriteFailure{Op: j.op, MovieID: j.movieID, Err: err})
		} else {
			s.logger.Debug("store write", "op", j.op, "movieID", j.movieID)
			j.publish()
		}
		j.done <- err
	}
}

func (s *Service) enqueue(j job) <-chan error {
	j.done = make(chan error, 1)

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		j.done <- ErrClosed
		return j.done
	}
	s.jobs <- j
	return j.done
}

// Close stops accepting writes, finishes queued ones, and waits for the worker.
// It does not close the underlying store.
func (s *Service) Close() {
	s.mu.Lock()
	if !s.closed {
		s.closed = true
		close(s.jobs)
	}
	s.mu.Unlock()
	s.wg.Wait()
}

func (s *Service) publishFavorites() {
	favorites, err := s.store.ListFavorites()
	if err != nil {
		s.logger.Error("failed to list favorites", "error", err)
		s.failures.Set(WriteFailure{Op: "list favorites", Err: err})
		return
	}
	s.favorites.Set(favorites)
}

func (s *Service) publishWatched() {
	watched, err := s.store.ListWatched()
	if err != nil {
		s.logger.Error("failed to list watched movies", "error", err)
		s.failures.Set(WriteFailure{Op: "list watched", Err: err})
		return
	}
	s.watched.Set(watched)
}

package store

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/mmcdole/filmhub/internal/domain"
	_ "modernc.org/sqlite"
)

const sqliteFile = "filmhub.sqlite"

// SQLiteStore implements domain.Store on SQLite.
type SQLiteStore struct {
	db *sqlx.DB
	mu sync.Mutex // serializes writes
}

// watchedRow is the table shape of a watched record; time is stored as unix nanoseconds
// so ORDER BY is exact regardless of zone.
type watchedRow struct {
	MovieID    int     `db:"movie_id"`
	Title      string  `db:"title"`
	PosterPath string  `db:"poster_path"`
	WatchedAt  int64   `db:"watched_at"`
	Rating     float64 `db:"rating"`
	Review     string  `db:"review"`
	Runtime    int     `db:"runtime"`
	Genres     string  `db:"genres"`
}

func (r watchedRow) toDomain() domain.WatchedMovie {
	return domain.WatchedMovie{
		MovieID:    r.MovieID,
		Title:      r.Title,
		PosterPath: r.PosterPath,
		WatchedAt:  time.Unix(0, r.WatchedAt),
		Rating:     r.Rating,
		Review:     r.Review,
		Runtime:    r.Runtime,
		Genres:     r.Genres,
	}
}

// NewSQLiteStore opens the database under dir, or an in-memory database if dir is empty.
func NewSQLiteStore(dir string) (*SQLiteStore, error) {
	dsn := ":memory:"
	if dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, err
		}
		dsn = filepath.Join(dir, sqliteFile)
	}

	db, err := sqlx.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite db: %w", err)
	}
	// One connection: an in-memory database exists per connection, and
	// writes are serialized anyway.
	db.SetMaxOpenConns(1)

	if dir != "" {
		if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to set WAL mode: %w", err)
		}
	}

	s := &SQLiteStore{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate: %w", err)
	}
	return s, nil
}

func (s *SQLiteStore) migrate() error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS favorites (
			movie_id    INTEGER PRIMARY KEY,
			title       TEXT NOT NULL DEFAULT '',
			poster_path TEXT NOT NULL DEFAULT ''
		);

		CREATE TABLE IF NOT EXISTS watched_movies (
			movie_id    INTEGER PRIMARY KEY,
			title       TEXT NOT NULL DEFAULT '',
			poster_path TEXT NOT NULL DEFAULT '',
			watched_at  INTEGER NOT NULL,
			rating      REAL NOT NULL DEFAULT 0,
			review      TEXT NOT NULL DEFAULT '',
			runtime     INTEGER NOT NULL DEFAULT 0,
			genres      TEXT NOT NULL DEFAULT ''
		);

		CREATE INDEX IF NOT EXISTS idx_watched_at ON watched_movies(watched_at DESC);
	`)
	return err
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// === Favorites ===

func (s *SQLiteStore) UpsertFavorite(f domain.Favorite) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.NamedExec(`
		INSERT INTO favorites (movie_id, title, poster_path)
		VALUES (:movie_id, :title, :poster_path)
		ON CONFLICT(movie_id) DO UPDATE SET
			title = excluded.title,
			poster_path = excluded.poster_path
	`, f)
	return err
}

func (s *SQLiteStore) DeleteFavorite(movieID int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.Exec(`DELETE FROM favorites WHERE movie_id = ?`, movieID)
	return err
}

func (s *SQLiteStore) GetFavorite(movieID int) (*domain.Favorite, error) {
	var f domain.Favorite
	err := s.db.Get(&f, `SELECT movie_id, title, poster_path FROM favorites WHERE movie_id = ?`, movieID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &f, nil
}

func (s *SQLiteStore) ListFavorites() ([]domain.Favorite, error) {
	favorites := []domain.Favorite{}
	err := s.db.Select(&favorites, `
		SELECT movie_id, title, poster_path FROM favorites
		ORDER BY title COLLATE NOCASE ASC, movie_id ASC
	`)
	if err != nil {
		return nil, err
	}
	return favorites, nil
}

// === Watched ===

func (s *SQLiteStore) UpsertWatched(w domain.WatchedMovie) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	row := watchedRow{
		MovieID:    w.MovieID,
		Title:      w.Title,
		PosterPath: w.PosterPath,
		WatchedAt:  w.WatchedAt.UnixNano(),
		Rating:     w.Rating,
		Review:     w.Review,
		Runtime:    w.Runtime,
		Genres:     w.Genres,
	}
	_, err := s.db.NamedExec(`
		INSERT INTO watched_movies (movie_id, title, poster_path, watched_at, rating, review, runtime, genres)
		VALUES (:movie_id, :title, :poster_path, :watched_at, :rating, :review, :runtime, :genres)
		ON CONFLICT(movie_id) DO UPDATE SET
			title = excluded.title,
			poster_path = excluded.poster_path,
			watched_at = excluded.watched_at,
			rating = excluded.rating,
			review = excluded.review,
			runtime = excluded.runtime,
			genres = excluded.genres
	`, row)
	return err
}

func (s *SQLiteStore) DeleteWatched(movieID int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.Exec(`DELETE FROM watched_movies WHERE movie_id = ?`, movieID)
	return err
}

func (s *SQLiteStore) GetWatched(movieID int) (*domain.WatchedMovie, error) {
	var row watchedRow
	err := s.db.Get(&row, `
		SELECT movie_id, title, poster_path, watched_at, rating, review, runtime, genres
		FROM watched_movies WHERE movie_id = ?
	`, movieID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	w := row.toDomain()
	return &w, nil
}

func (s *SQLiteStore) ListWatched() ([]domain.WatchedMovie, error) {
	var rows []watchedRow
	err := s.db.Select(&rows, `
		SELECT movie_id, title, poster_path, watched_at, rating, review, runtime, genres
		FROM watched_movies
		ORDER BY watched_at DESC, movie_id ASC
	`)
	if err != nil {
		return nil, err
	}
	watched := make([]domain.WatchedMovie, 0, len(rows))
	for _, r := range rows {
		watched = append(watched, r.toDomain())
	}
	return watched, nil
}

var _ domain.Store = (*SQLiteStore)(nil)

package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/mmcdole/filmhub/internal/domain"
	bolt "go.etcd.io/bbolt"
)

// Bucket names
var (
	bucketFavorites = []byte("favorites")
	bucketWatched   = []byte("watched")
)

const boltFile = "filmhub.db"

// BoltStore implements domain.Store using BoltDB.
type BoltStore struct {
	db *bolt.DB
	mu sync.RWMutex // Protects memory cache

	// In-memory cache for hot-path reads (promoted on access).
	// In memory-only mode it is the whole store.
	cache map[string][]byte
}

// NewBoltStore opens (or creates) the database under dir.
// An empty dir keeps everything in memory.
func NewBoltStore(dir string) (*BoltStore, error) {
	if dir == "" {
		// Memory-only mode (no persistence)
		return &BoltStore{cache: make(map[string][]byte)}, nil
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}

	dbPath := filepath.Join(dir, boltFile)
	db, err := bolt.Open(dbPath, 0600, &bolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open bolt db: %w", err)
	}

	// Create buckets
	err = db.Update(func(tx *bolt.Tx) error {
		for _, bucket := range [][]byte{bucketFavorites, bucketWatched} {
			if _, err := tx.CreateBucketIfNotExists(bucket); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		db.Close()
		return nil, err
	}

	return &BoltStore{db: db, cache: make(map[string][]byte)}, nil
}

func (s *BoltStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// === Generic helpers ===

func recordKey(movieID int) string {
	return strconv.Itoa(movieID)
}

func cacheKey(bucket []byte, key string) string {
	return string(bucket) + ":" + key
}

func (s *BoltStore) get(bucket []byte, key string, dest any) (bool, error) {
	ck := cacheKey(bucket, key)

	// Check memory cache first
	s.mu.RLock()
	if data, ok := s.cache[ck]; ok {
		s.mu.RUnlock()
		return true, json.Unmarshal(data, dest)
	}
	s.mu.RUnlock()

	if s.db == nil {
		return false, nil
	}

	var data []byte
	err := s.db.View(func(tx *bolt.Tx) error {
		if v := tx.Bucket(bucket).Get([]byte(key)); v != nil {
			data = make([]byte, len(v))
			copy(data, v)
		}
		return nil
	})
	if err != nil || data == nil {
		return false, err
	}

	// Promote to memory cache
	s.mu.Lock()
	s.cache[ck] = data
	s.mu.Unlock()

	return true, json.Unmarshal(data, dest)
}

func (s *BoltStore) set(bucket []byte, key string, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}

	if s.db != nil {
		err := s.db.Update(func(tx *bolt.Tx) error {
			return tx.Bucket(bucket).Put([]byte(key), data)
		})
		if err != nil {
			return err
		}
	}

	s.mu.Lock()
	s.cache[cacheKey(bucket, key)] = data
	s.mu.Unlock()
	return nil
}

func (s *BoltStore) delete(bucket []byte, key string) error {
	if s.db != nil {
		err := s.db.Update(func(tx *bolt.Tx) error {
			return tx.Bucket(bucket).Delete([]byte(key))
		})
		if err != nil {
			return err
		}
	}

	s.mu.Lock()
	delete(s.cache, cacheKey(bucket, key))
	s.mu.Unlock()
	return nil
}

// each calls fn with every raw value in bucket.
func (s *BoltStore) each(bucket []byte, fn func(data []byte) error) error {
	if s.db == nil {
		prefix := string(bucket) + ":"
		s.mu.RLock()
		values := make([][]byte, 0, len(s.cache))
		for k, v := range s.cache {
			if strings.HasPrefix(k, prefix) {
				values = append(values, v)
			}
		}
		s.mu.RUnlock()

		for _, v := range values {
			if err := fn(v); err != nil {
				return err
			}
		}
		return nil
	}

	return s.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket(bucket).ForEach(func(_, v []byte) error {
			return fn(v)
		})
	})
}

// === Favorites ===

func (s *BoltStore) UpsertFavorite(f domain.Favorite) error {
	return s.set(bucketFavorites, recordKey(f.MovieID), f)
}

func (s *BoltStore) DeleteFavorite(movieID int) error {
	return s.delete(bucketFavorites, recordKey(movieID))
}

func (s *BoltStore) GetFavorite(movieID int) (*domain.Favorite, error) {
	var f domain.Favorite
	ok, err := s.get(bucketFavorites, recordKey(movieID), &f)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &f, nil
}

func (s *BoltStore) ListFavorites() ([]domain.Favorite, error) {
	favorites := []domain.Favorite{}
	err := s.each(bucketFavorites, func(data []byte) error {
		var f domain.Favorite
		if err := json.Unmarshal(data, &f); err != nil {
			return err
		}
		favorites = append(favorites, f)
		return nil
	})
	if err != nil {
		return nil, err
	}
	SortFavorites(favorites)
	return favorites, nil
}

// === Watched ===

func (s *BoltStore) UpsertWatched(w domain.WatchedMovie) error {
	return s.set(bucketWatched, recordKey(w.MovieID), w)
}

func (s *BoltStore) DeleteWatched(movieID int) error {
	return s.delete(bucketWatched, recordKey(movieID))
}

func (s *BoltStore) GetWatched(movieID int) (*domain.WatchedMovie, error) {
	var w domain.WatchedMovie
	ok, err := s.get(bucketWatched, recordKey(movieID), &w)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &w, nil
}

func (s *BoltStore) ListWatched() ([]domain.WatchedMovie, error) {
	watched := []domain.WatchedMovie{}
	err := s.each(bucketWatched, func(data []byte) error {
		var w domain.WatchedMovie
		if err := json.Unmarshal(data, &w); err != nil {
			return err
		}
		watched = append(watched, w)
		return nil
	})
	if err != nil {
		return nil, err
	}
	SortWatched(watched)
	return watched, nil
}

// SortFavorites orders favorites by title, case-insensitively, then by id.
func SortFavorites(fs []domain.Favorite) {
	sort.SliceStable(fs, func(i, j int) bool {
		a, b := strings.ToLower(fs[i].Title), strings.ToLower(fs[j].Title)
		if a != b {
			return a < b
		}
		return fs[i].MovieID < fs[j].MovieID
	})
}

// SortWatched orders watched records newest first, then by id.
func SortWatched(ws []domain.WatchedMovie) {
	sort.SliceStable(ws, func(i, j int) bool {
		if !ws[i].WatchedAt.Equal(ws[j].WatchedAt) {
			return ws[i].WatchedAt.After(ws[j].WatchedAt)
		}
		return ws[i].MovieID < ws[j].MovieID
	})
}

var _ domain.Store = (*BoltStore)(nil)

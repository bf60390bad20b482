package store

import (
	"fmt"

	"github.com/mmcdole/filmhub/internal/adapter"
	"github.com/mmcdole/filmhub/internal/domain"
)

// Open creates the backend selected by cfg.Driver.
func Open(cfg adapter.StoreConfig) (domain.Store, error) {
	switch cfg.Driver {
	case adapter.StoreDriverBolt, "":
		return NewBoltStore(cfg.Path)
	case adapter.StoreDriverSQLite:
		return NewSQLiteStore(cfg.Path)
	default:
		return nil, fmt.Errorf("unknown store driver: %s", cfg.Driver)
	}
}

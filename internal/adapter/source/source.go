package source

import (
	"fmt"
	"log/slog"

	"github.com/mmcdole/filmhub/internal/adapter"
	"github.com/mmcdole/filmhub/internal/adapter/source/tmdb"
	"github.com/mmcdole/filmhub/internal/domain"
)

// NewClientFromConfig creates the catalog client from the application config
func NewClientFromConfig(cfg *adapter.Config, logger *slog.Logger) (domain.CatalogClient, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is nil")
	}
	if cfg.Catalog.BaseURL == "" {
		return nil, fmt.Errorf("catalog base URL is required")
	}
	if cfg.Catalog.APIKey == "" {
		return nil, fmt.Errorf("catalog API key is required")
	}

	return tmdb.NewClient(tmdb.Config{
		BaseURL:           cfg.Catalog.BaseURL,
		APIKey:            cfg.Catalog.APIKey,
		Language:          cfg.Catalog.Language,
		RequestsPerSecond: cfg.Catalog.RequestsPerSecond,
		Burst:             cfg.Catalog.Burst,
		Timeout:           cfg.Catalog.RequestTimeout,
	}, logger), nil
}

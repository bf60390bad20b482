package adapter

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/mmcdole/filmhub/internal/domain"
	"github.com/mmcdole/filmhub/internal/validator"
	"github.com/spf13/viper"
)

// StoreDriver selects the local persistence backend
type StoreDriver string

const (
	StoreDriverBolt   StoreDriver = "bolt"
	StoreDriverSQLite StoreDriver = "sqlite"
)

// Theme preferences
const (
	ThemeLight  = "light"
	ThemeDark   = "dark"
	ThemeSystem = "system"
)

// Config holds all application configuration
type Config struct {
	Catalog CatalogConfig `mapstructure:"catalog"`
	Store   StoreConfig   `mapstructure:"store"`
	UI      UIConfig      `mapstructure:"ui"`
	Logging LoggingConfig `mapstructure:"logging"`
}

// CatalogConfig holds the remote catalog settings
type CatalogConfig struct {
	BaseURL           string        `mapstructure:"base_url"`
	APIKey            string        `mapstructure:"api_key"`
	ImageBase         string        `mapstructure:"image_base"`
	WebBase           string        `mapstructure:"web_base"` // movie pages, opened in the browser
	Language          string        `mapstructure:"language"`
	RequestsPerSecond float64       `mapstructure:"requests_per_second"`
	Burst             int           `mapstructure:"burst"`
	RequestTimeout    time.Duration `mapstructure:"request_timeout"` // per HTTP call
	PageTimeout       time.Duration `mapstructure:"page_timeout"`    // page-1 load, after which the list shows an error
	DefaultSort       string        `mapstructure:"default_sort"`    // catalog sort_by value
}

// StoreConfig holds local persistence settings
type StoreConfig struct {
	Driver StoreDriver `mapstructure:"driver"`
	Path   string      `mapstructure:"path"` // directory; empty keeps everything in memory
}

// UIConfig holds UI configuration
type UIConfig struct {
	Theme   string `mapstructure:"theme"`   // light, dark or system
	Browser string `mapstructure:"browser"` // command for opening links, empty for the system default
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	File       string `mapstructure:"file"`
	Level      string `mapstructure:"level"`
	MaxSizeMB  int    `mapstructure:"max_size_mb"`
	MaxBackups int    `mapstructure:"max_backups"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Catalog: CatalogConfig{
			BaseURL:           "https://api.themoviedb.org/3/",
			ImageBase:         "https://image.tmdb.org/t/p/w500",
			WebBase:           "https://www.themoviedb.org/movie/",
			Language:          "en-US",
			RequestsPerSecond: 20,
			Burst:             5,
			RequestTimeout:    10 * time.Second,
			PageTimeout:       15 * time.Second,
			DefaultSort:       domain.DefaultSort.Param(),
		},
		Store: StoreConfig{
			Driver: StoreDriverBolt,
			Path:   defaultDataPath(),
		},
		UI: UIConfig{
			Theme: ThemeSystem,
		},
		Logging: LoggingConfig{
			File:       filepath.Join(defaultDataPath(), "filmhub.log"),
			Level:      "INFO",
			MaxSizeMB:  10,
			MaxBackups: 3,
		},
	}
}

// defaultDataPath returns the default data directory for the current OS
func defaultDataPath() string {
	switch runtime.GOOS {
	case "windows":
		return filepath.Join(os.Getenv("APPDATA"), "filmhub")
	default:
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".local", "share", "filmhub")
	}
}

// defaultConfigPath returns the default config directory for the current OS
func defaultConfigPath() string {
	switch runtime.GOOS {
	case "windows":
		return filepath.Join(os.Getenv("APPDATA"), "filmhub")
	default:
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".config", "filmhub")
	}
}

// LoadConfig loads configuration from file and environment
func LoadConfig() (*Config, error) {
	return loadConfig(viper.GetViper(), defaultConfigPath(), ".")
}

func loadConfig(v *viper.Viper, paths ...string) (*Config, error) {
	cfg := DefaultConfig()
	setDefaults(v, cfg)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	for _, p := range paths {
		v.AddConfigPath(p)
	}

	// Environment variable overrides, e.g. FILMHUB_CATALOG_API_KEY
	v.SetEnvPrefix("FILMHUB")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found is OK, use defaults
	}

	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("error parsing config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// setDefaults registers every key so AutomaticEnv can override keys absent from the file.
func setDefaults(v *viper.Viper, cfg *Config) {
	for key, val := range configValues(cfg) {
		v.SetDefault(key, val)
	}
}

// configValues flattens cfg into viper keys (snake_case).
func configValues(cfg *Config) map[string]any {
	return map[string]any{
		"catalog.base_url":            cfg.Catalog.BaseURL,
		"catalog.api_key":             cfg.Catalog.APIKey,
		"catalog.image_base":          cfg.Catalog.ImageBase,
		"catalog.web_base":            cfg.Catalog.WebBase,
		"catalog.language":            cfg.Catalog.Language,
		"catalog.requests_per_second": cfg.Catalog.RequestsPerSecond,
		"catalog.burst":               cfg.Catalog.Burst,
		"catalog.request_timeout":     cfg.Catalog.RequestTimeout.String(),
		"catalog.page_timeout":        cfg.Catalog.PageTimeout.String(),
		"catalog.default_sort":        cfg.Catalog.DefaultSort,
		"store.driver":                string(cfg.Store.Driver),
		"store.path":                  cfg.Store.Path,
		"ui.theme":                    cfg.UI.Theme,
		"ui.browser":                  cfg.UI.Browser,
		"logging.file":                cfg.Logging.File,
		"logging.level":               cfg.Logging.Level,
		"logging.max_size_mb":         cfg.Logging.MaxSizeMB,
		"logging.max_backups":         cfg.Logging.MaxBackups,
	}
}

// Validate checks enumerated and numeric settings.
func (c *Config) Validate() error {
	v := validator.New()
	v.Check(validator.PermittedValue(c.Store.Driver, StoreDriverBolt, StoreDriverSQLite), "store.driver", "must be bolt or sqlite")
	v.Check(validator.PermittedValue(c.UI.Theme, ThemeLight, ThemeDark, ThemeSystem), "ui.theme", "must be light, dark or system")
	v.Check(validator.PermittedValue(c.Catalog.DefaultSort, domain.SortSafelist...), "catalog.default_sort", "invalid sort value")
	v.Check(c.Catalog.RequestsPerSecond > 0, "catalog.requests_per_second", "must be greater than zero")
	v.Check(c.Catalog.Burst > 0, "catalog.burst", "must be greater than zero")
	v.Check(c.Catalog.PageTimeout > 0, "catalog.page_timeout", "must be greater than zero")
	v.Check(c.Catalog.RequestTimeout > 0, "catalog.request_timeout", "must be greater than zero")
	return v.Err()
}

// DefaultSortKey returns the configured default sort as a SortKey.
func (c *Config) DefaultSortKey() domain.SortKey {
	k, err := domain.ParseSortKey(c.Catalog.DefaultSort)
	if err != nil {
		return domain.DefaultSort
	}
	return k
}

// SaveConfig saves the current configuration to file
func SaveConfig(cfg *Config) error {
	return saveConfig(viper.GetViper(), cfg, defaultConfigPath())
}

func saveConfig(v *viper.Viper, cfg *Config, configPath string) error {
	// Ensure config directory exists
	if err := os.MkdirAll(configPath, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	// Set fields individually to ensure correct key names (snake_case)
	for key, val := range configValues(cfg) {
		v.Set(key, val)
	}

	configFile := filepath.Join(configPath, "config.yaml")
	if err := v.WriteConfigAs(configFile); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// IsConfigured returns true if the catalog API key is set
func (c *Config) IsConfigured() bool {
	return c.Catalog.APIKey != ""
}

package adapter

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/mmcdole/filmhub/internal/domain"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaultsWhenFileMissing(t *testing.T) {
	cfg, err := loadConfig(viper.New(), t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "https://api.themoviedb.org/3/", cfg.Catalog.BaseURL)
	assert.Equal(t, StoreDriverBolt, cfg.Store.Driver)
	assert.Equal(t, ThemeSystem, cfg.UI.Theme)
	assert.Equal(t, 15*time.Second, cfg.Catalog.PageTimeout)
	assert.Equal(t, domain.SortPopularity, cfg.DefaultSortKey())
	assert.False(t, cfg.IsConfigured())
}

func TestLoadConfigFromFile(t *testing.T) {
	dir := t.TempDir()
	yaml := `
catalog:
  api_key: abc123
  page_timeout: 3s
  default_sort: vote_average.desc
store:
  driver: sqlite
ui:
  theme: dark
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0644))

	cfg, err := loadConfig(viper.New(), dir)
	require.NoError(t, err)

	assert.True(t, cfg.IsConfigured())
	assert.Equal(t, 3*time.Second, cfg.Catalog.PageTimeout)
	assert.Equal(t, domain.SortRating, cfg.DefaultSortKey())
	assert.Equal(t, StoreDriverSQLite, cfg.Store.Driver)
	assert.Equal(t, ThemeDark, cfg.UI.Theme)
	// untouched keys keep defaults
	assert.Equal(t, 5, cfg.Catalog.Burst)
}

func TestLoadConfigEnvOverride(t *testing.T) {
	t.Setenv("FILMHUB_CATALOG_API_KEY", "from-env")

	cfg, err := loadConfig(viper.New(), t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, "from-env", cfg.Catalog.APIKey)
}

func TestLoadConfigRejectsInvalidValues(t *testing.T) {
	dir := t.TempDir()
	yaml := `
store:
  driver: postgres
ui:
  theme: neon
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0644))

	_, err := loadConfig(viper.New(), dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "store.driver")
	assert.Contains(t, err.Error(), "ui.theme")
}

func TestSaveConfigRoundTrip(t *testing.T) {
	dir := t.TempDir()

	cfg := DefaultConfig()
	cfg.Catalog.APIKey = "saved-key"
	cfg.UI.Theme = ThemeLight
	require.NoError(t, saveConfig(viper.New(), cfg, dir))

	loaded, err := loadConfig(viper.New(), dir)
	require.NoError(t, err)
	assert.Equal(t, "saved-key", loaded.Catalog.APIKey)
	assert.Equal(t, ThemeLight, loaded.UI.Theme)
	assert.Equal(t, cfg.Catalog.PageTimeout, loaded.Catalog.PageTimeout)
}

func TestParseLogLevel(t *testing.T) {
	assert.Equal(t, "DEBUG", parseLogLevel("debug").String())
	assert.Equal(t, "WARN", parseLogLevel("warning").String())
	assert.Equal(t, "INFO", parseLogLevel("bogus").String())
}

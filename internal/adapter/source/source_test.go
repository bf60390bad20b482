package source

import (
	"testing"

	"github.com/mmcdole/filmhub/internal/adapter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewClientFromConfigRequiresKey(t *testing.T) {
	cfg := adapter.DefaultConfig()

	_, err := NewClientFromConfig(cfg, adapter.NullLogger())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "API key")

	cfg.Catalog.APIKey = "k"
	c, err := NewClientFromConfig(cfg, adapter.NullLogger())
	require.NoError(t, err)
	assert.NotNil(t, c)
}

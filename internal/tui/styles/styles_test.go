package styles

import (
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"
)

func TestApplyExplicitThemes(t *testing.T) {
	t.Cleanup(func() { Use(Dark) })

	Apply("light")
	assert.Equal(t, Light, Current)

	Apply("dark")
	assert.Equal(t, Dark, Current)
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "", Truncate("Heat", 0))
	assert.Equal(t, "Heat", Truncate("Heat", 10))
	assert.Equal(t, "Bla...", Truncate("Blade Runner", 6))
	assert.Equal(t, "Bl", Truncate("Blade Runner", 2))
	assert.Equal(t, "Amé...", Truncate("Amélie Poulain", 6))
}

func TestPad(t *testing.T) {
	assert.Equal(t, "Up    ", Pad("Up", 6))
	assert.Equal(t, 6, lipgloss.Width(Pad("Up", 6)))
	assert.Equal(t, "Blade...", Pad("Blade Runner", 8))
}

func TestRenderRatingWidth(t *testing.T) {
	assert.Equal(t, 5, lipgloss.Width(RenderRating(0)))
	assert.Equal(t, 5, lipgloss.Width(RenderRating(3.5)))
	assert.Equal(t, 5, lipgloss.Width(RenderRating(5)))
}

package tui

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mmcdole/filmhub/internal/observe"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type intMsg int
type strMsg string

func TestRelayReplaysAndCoalesces(t *testing.T) {
	r := NewRelay()
	defer r.Close()

	nums := observe.NewValueOf(1)
	words := observe.NewValue[string]()

	Watch(r, "nums", nums, func(v int) tea.Msg { return intMsg(v) })
	Watch(r, "words", words, func(v string) tea.Msg { return strMsg(v) })

	nums.Set(2)
	words.Set("a")
	nums.Set(3)

	msg := r.Next()()
	updates, ok := msg.(UpdatesMsg)
	require.True(t, ok)
	assert.Equal(t, []tea.Msg{intMsg(3), strMsg("a")}, updates.Msgs)
}

func TestRelayCloseReleasesNext(t *testing.T) {
	r := NewRelay()
	v := observe.NewValue[int]()
	Watch(r, "v", v, func(n int) tea.Msg { return intMsg(n) })
	require.Equal(t, 1, v.Subscribers())

	r.Close()
	assert.Nil(t, r.Next()())
	assert.Equal(t, 0, v.Subscribers())

	v.Set(1)
	r.Close()
}

func TestRelayWatchAfterClose(t *testing.T) {
	r := NewRelay()
	r.Close()

	v := observe.NewValueOf(1)
	Watch(r, "v", v, func(n int) tea.Msg { return intMsg(n) })
	assert.Equal(t, 0, v.Subscribers())
}

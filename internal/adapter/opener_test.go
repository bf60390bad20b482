package adapter

import (
	"errors"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type startCall struct {
	name string
	args []string
}

func recordingOpener(command string, fail error) (*Opener, *[]startCall) {
	o := NewOpener(command, NullLogger())
	var calls []startCall
	o.start = func(name string, args ...string) error {
		calls = append(calls, startCall{name: name, args: args})
		return fail
	}
	return o, &calls
}

func TestOpenerConfiguredCommand(t *testing.T) {
	o, calls := recordingOpener("firefox --new-tab", nil)

	require.NoError(t, o.Open("https://example.test/movie/1"))
	require.Len(t, *calls, 1)
	assert.Equal(t, "firefox", (*calls)[0].name)
	assert.Equal(t, []string{"--new-tab", "https://example.test/movie/1"}, (*calls)[0].args)

	// configured args are not mutated between calls
	require.NoError(t, o.Open("https://example.test/movie/2"))
	assert.Equal(t, []string{"--new-tab", "https://example.test/movie/2"}, (*calls)[1].args)
}

func TestOpenerSystemDefault(t *testing.T) {
	o, calls := recordingOpener("", nil)
	require.NoError(t, o.Open("https://example.test"))
	require.Len(t, *calls, 1)

	switch runtime.GOOS {
	case "darwin":
		assert.Equal(t, "open", (*calls)[0].name)
	case "windows":
		assert.Equal(t, "cmd", (*calls)[0].name)
	default:
		assert.Equal(t, "xdg-open", (*calls)[0].name)
	}
	assert.Equal(t, "https://example.test", (*calls)[0].args[len((*calls)[0].args)-1])
}

func TestOpenerErrors(t *testing.T) {
	o, calls := recordingOpener("", nil)
	assert.ErrorIs(t, o.Open(""), ErrNoURL)
	assert.Empty(t, *calls)

	boom := errors.New("not found")
	o, _ = recordingOpener("nope", boom)
	assert.ErrorIs(t, o.Open("https://example.test"), boom)
}

package main

import (
	"bytes"
	"testing"
	"time"

	"github.com/mmcdole/filmhub/internal/adapter"
	"github.com/mmcdole/filmhub/internal/domain"
	"github.com/mmcdole/filmhub/internal/library"
	"github.com/mmcdole/filmhub/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrintStats(t *testing.T) {
	st, err := store.NewBoltStore("")
	require.NoError(t, err)
	defer st.Close()

	lib := library.NewService(st, adapter.NullLogger())
	defer lib.Close()

	var out bytes.Buffer
	require.NoError(t, printStats(&out, lib))
	assert.Contains(t, out.String(), "Movies watched:  0")
	assert.Contains(t, out.String(), "Time watched:    0 minutes")
	assert.Contains(t, out.String(), "Top genres:      none")

	require.NoError(t, <-lib.SaveWatched(domain.WatchedMovie{
		MovieID: 1, Title: "Heat", WatchedAt: time.Now(), Rating: 4, Runtime: 170, Genres: "Action, Crime",
	}))

	out.Reset()
	require.NoError(t, printStats(&out, lib))
	assert.Contains(t, out.String(), "Movies watched:  1")
	assert.Contains(t, out.String(), "170 minutes")
	assert.Contains(t, out.String(), "Average rating:  4.0")
	assert.Contains(t, out.String(), "Action, Crime")
}

package domain

import (
	"strconv"
	"strings"
)

// ImageURL joins the configured image base with a catalog image path.
// An empty path yields an empty URL.
func ImageURL(base, path string) string {
	if path == "" {
		return ""
	}
	return strings.TrimRight(base, "/") + "/" + strings.TrimLeft(path, "/")
}

// MoviePageURL is the catalog's public page for a movie.
func MoviePageURL(base string, movieID int) string {
	return strings.TrimRight(base, "/") + "/" + strconv.Itoa(movieID)
}

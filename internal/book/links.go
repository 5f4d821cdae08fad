package book

import (
	"net/url"
	"strings"
)

// Links are catalog lookups derived from title and authors. They are never
// authoritative and can be rebuilt at any time.
type Links struct {
	Goodreads   string `json:"goodreads,omitempty" yaml:"goodreads,omitempty"`
	WorldCat    string `json:"worldcat,omitempty" yaml:"worldcat,omitempty"`
	OpenLibrary string `json:"openLibrary,omitempty" yaml:"open_library,omitempty"`
}

// IsZero reports whether no link is set.
func (l Links) IsZero() bool {
	return l.Goodreads == "" && l.WorldCat == "" && l.OpenLibrary == ""
}

const (
	goodreadsSearch   = "https://www.goodreads.com/search?q="
	worldCatSearch    = "https://search.worldcat.org/search?q="
	openLibrarySearch = "https://openlibrary.org/search?q="
)

// LinksFor builds the catalog links for a title and author list.
func LinksFor(title string, authors []string) Links {
	q := url.QueryEscape(strings.TrimSpace(title + " " + JoinAuthors(authors)))
	return Links{
		Goodreads:   goodreadsSearch + q,
		WorldCat:    worldCatSearch + q,
		OpenLibrary: openLibrarySearch + q,
	}
}

// Package listview derives the displayed list from the collection snapshot,
// the latest search results, the active tab and the filter text.
package listview

import (
	"fmt"
	"sort"
	"strings"

	"github.com/pdxshibaa/BookClub/internal/book"
)

// Tab selects which list is shown.
type Tab string

const (
	TabRead      = Tab(book.StatusRead)
	TabScheduled = Tab(book.StatusScheduled)
	TabSuggested = Tab(book.StatusSuggested)
	TabSearch    Tab = "search"
)

// ParseTab validates a raw tab value; empty means the read list.
func ParseTab(s string) (Tab, error) {
	switch Tab(strings.ToLower(strings.TrimSpace(s))) {
	case "", TabRead:
		return TabRead, nil
	case TabScheduled:
		return TabScheduled, nil
	case TabSuggested:
		return TabSuggested, nil
	case TabSearch:
		return TabSearch, nil
	default:
		return "", fmt.Errorf("invalid tab: %s", s)
	}
}

// Display returns the ordered records for a tab. The search tab returns the
// search results in API order, unfiltered.
func Display(snapshot []book.Record, results []book.SearchResult, tab Tab, filter string) []book.Record {
	if tab == TabSearch {
		out := make([]book.Record, 0, len(results))
		for _, r := range results {
			out = append(out, r.Record())
		}
		return out
	}

	needle := strings.ToLower(filter)
	out := make([]book.Record, 0, len(snapshot))
	for _, r := range snapshot {
		if r.Status != book.Status(tab) {
			continue
		}
		if needle != "" && !matches(r, needle) {
			continue
		}
		out = append(out, r.WithLinks())
	}

	if tab == TabScheduled {
		sort.SliceStable(out, func(i, j int) bool { return out[i].SortDate.Before(out[j].SortDate) })
	} else {
		sort.SliceStable(out, func(i, j int) bool { return out[i].SortDate.After(out[j].SortDate) })
	}
	return out
}

func matches(r book.Record, needle string) bool {
	return strings.Contains(strings.ToLower(r.Title), needle) ||
		strings.Contains(strings.ToLower(r.AuthorText()), needle)
}

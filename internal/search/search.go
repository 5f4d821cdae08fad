package search

import (
	"context"
	"errors"

	"github.com/pdxshibaa/BookClub/internal/platform/googlebooks"
	"github.com/pdxshibaa/BookClub/internal/platform/nytimes"
)

var (
	// ErrTimeout is returned when a search exceeds its time budget.
	ErrTimeout = errors.New("search timed out")
	// ErrRateLimited is returned when an upstream API answers 429.
	ErrRateLimited = errors.New("search rate limit reached, try again in a minute")
	// ErrMissingAPIKey is returned when a curated list is requested without
	// a configured key.
	ErrMissingAPIKey = errors.New("curated lists need an API key")
	// ErrUpstream wraps transport failures and unexpected statuses.
	ErrUpstream = errors.New("search failed")
	// ErrSuperseded is returned when a newer call replaced this one.
	ErrSuperseded = errors.New("search superseded by a newer query")
)

// MaxResults caps book-metadata queries.
const MaxResults = 40

type VolumesClient interface {
	Volumes(ctx context.Context, q string, maxResults int) (*googlebooks.VolumesResponse, error)
}

type ListsClient interface {
	CurrentList(ctx context.Context, listID string) (*nytimes.ListResponse, error)
}

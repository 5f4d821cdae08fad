package collection

//go:generate mockgen -source=ports.go -destination=mock_store_test.go -package=collection

import (
	"context"

	"github.com/pdxshibaa/BookClub/internal/book"
	"github.com/pdxshibaa/BookClub/internal/session"
)

// Store is the remote document store holding the "books" collection.
type Store interface {
	List(ctx context.Context) ([]book.Record, error)
	Create(ctx context.Context, d book.Draft) (book.Record, error)
	Update(ctx context.Context, id string, c book.Changes) error
	Delete(ctx context.Context, id string) error
	// Subscribe delivers the full snapshot, ordered by sort date descending,
	// once immediately and again after every change. The channel closes when
	// ctx is done or the subscription breaks.
	Subscribe(ctx context.Context) (<-chan []book.Record, error)
}

// Authorizer decides admin privilege for an identity.
type Authorizer interface {
	IsAdmin(ident *session.Identity) bool
}

// Package collection keeps the club's book collection in sync with the
// document store and gates every mutation on the caller's identity.
package collection

import (
	"errors"

	"github.com/pdxshibaa/BookClub/internal/book"
)

var (
	// ErrUnauthenticated is returned when a mutation has no signed-in caller.
	ErrUnauthenticated = errors.New("sign in required")
	// ErrForbidden is returned when the caller is not an admin.
	ErrForbidden = errors.New("admin privilege required")
	// ErrNotFound is returned when the target record does not exist.
	ErrNotFound = book.ErrNotFound
	// ErrEmptyTitle is returned when a draft has no title text.
	ErrEmptyTitle = errors.New("title is required")
)

// notifyChannel is the Postgres channel fed by the books trigger.
const notifyChannel = "books_changed"

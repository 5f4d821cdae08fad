package httpx

import (
	"context"
	"net/http"

	"github.com/pdxshibaa/BookClub/internal/session"
)

type contextKey string

const (
	identityKey  contextKey = "identity"
	requestIDKey contextKey = "requestID"
)

// IdentityFrom retrieves the authenticated identity, nil when anonymous.
func IdentityFrom(r *http.Request) *session.Identity {
	if v, ok := r.Context().Value(identityKey).(session.Identity); ok {
		return &v
	}
	return nil
}

// UserIDFrom retrieves the user ID from the request context.
func UserIDFrom(r *http.Request) string {
	if ident := IdentityFrom(r); ident != nil {
		return ident.ID
	}
	return ""
}

// ContextWithIdentity returns a new context carrying the identity.
func ContextWithIdentity(ctx context.Context, ident session.Identity) context.Context {
	return context.WithValue(ctx, identityKey, ident)
}

// RequestIDFrom retrieves the request ID set by RequestIDMiddleware.
func RequestIDFrom(r *http.Request) string {
	if v, ok := r.Context().Value(requestIDKey).(string); ok {
		return v
	}
	return ""
}

func ContextWithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey, requestID)
}

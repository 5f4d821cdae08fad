// Package httpapi assembles the HTTP surface of bookclub.
package httpapi

import (
	"context"
	"net/http"
	"time"

	"github.com/pdxshibaa/BookClub/internal/auth"
	"github.com/pdxshibaa/BookClub/internal/collection"
	"github.com/pdxshibaa/BookClub/internal/httpx"
	"github.com/pdxshibaa/BookClub/internal/importer"
	"github.com/pdxshibaa/BookClub/internal/platform/logger"
	"github.com/pdxshibaa/BookClub/internal/search"
	"github.com/pdxshibaa/BookClub/internal/session"
)

// Pinger reports whether the document store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

type Options struct {
	CORSOrigins    []string
	EnableHSTS     bool
	RateLimitRPS   float64
	RateLimitBurst int
	ImportMaxBytes int64
}

type Deps struct {
	Gate       *session.Gate
	Collection *collection.Service
	Sync       *collection.Sync
	Search     *search.Service
	Importer   *importer.Service
	Store      Pinger
	Log        logger.Logger
}

func NewRouter(d Deps, opts Options) http.Handler {
	authHandler := auth.NewHTTPHandler(d.Gate)
	bookHandler := collection.NewHTTPHandler(d.Collection, d.Sync, d.Log)
	searchHandler := search.NewHTTPHandler(d.Search, search.NewTracker(), d.Log)
	importHandler := importer.NewHTTPHandler(d.Importer, d.Log)

	requireAuth := httpx.AuthMiddleware(d.Gate)
	optionalAuth := httpx.OptionalAuthMiddleware(d.Gate)

	if opts.RateLimitRPS <= 0 {
		opts.RateLimitRPS = 5
	}
	if opts.RateLimitBurst <= 0 {
		opts.RateLimitBurst = 20
	}
	if opts.ImportMaxBytes <= 0 {
		opts.ImportMaxBytes = 1 << 20
	}
	searchLimit := httpx.NewRateLimitMiddleware(opts.RateLimitRPS, opts.RateLimitBurst)

	router := http.NewServeMux()

	router.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	router.HandleFunc("GET /readyz", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 500*time.Millisecond)
		defer cancel()
		if d.Store != nil {
			if err := d.Store.Ping(ctx); err != nil {
				http.Error(w, "db not ready", http.StatusServiceUnavailable)
				return
			}
		}
		select {
		case <-d.Sync.Ready():
		default:
			http.Error(w, "collection not loaded", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ready"))
	})

	router.HandleFunc("POST /auth/login", authHandler.Login)
	router.HandleFunc("POST /auth/logout", authHandler.Logout)
	router.Handle("GET /me", requireAuth(http.HandlerFunc(authHandler.Me)))

	router.HandleFunc("GET /books", bookHandler.List)
	router.HandleFunc("GET /books/stream", bookHandler.Stream)
	router.Handle("POST /books", requireAuth(http.HandlerFunc(bookHandler.Create)))
	router.Handle("PATCH /books/{id}", requireAuth(http.HandlerFunc(bookHandler.Patch)))
	router.Handle("DELETE /books/{id}", requireAuth(http.HandlerFunc(bookHandler.Delete)))

	router.Handle("GET /search", optionalAuth(searchLimit.Middleware(http.HandlerFunc(searchHandler.Search))))
	router.Handle("GET /lists/{list}", searchLimit.Middleware(http.HandlerFunc(searchHandler.CuratedList)))

	router.Handle("POST /import", httpx.Chain(http.HandlerFunc(importHandler.Import),
		httpx.RequestSizeLimitMiddleware(opts.ImportMaxBytes),
		requireAuth,
	))

	return httpx.Chain(router,
		httpx.RequestIDMiddleware,
		httpx.AccessLogMiddleware(d.Log),
		httpx.RecoveryMiddleware(d.Log),
		httpx.SecurityHeadersMiddleware(opts.EnableHSTS),
		httpx.CORSMiddleware(opts.CORSOrigins),
	)
}

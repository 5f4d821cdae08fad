package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/pdxshibaa/BookClub/internal/book"
	"github.com/pdxshibaa/BookClub/internal/collection"
	"github.com/pdxshibaa/BookClub/internal/platform/googlebooks"
	"github.com/pdxshibaa/BookClub/internal/platform/httpclient"
	"github.com/pdxshibaa/BookClub/internal/platform/nytimes"
	"github.com/pdxshibaa/BookClub/internal/search"
	"github.com/pdxshibaa/BookClub/internal/session"
)

const (
	userAgent       = "bookclub/1.0"
	upstreamRetries = 3
	sheetFetchRPS   = 2
	passwordEnvVar  = "BOOKCLUB_PASSWORD"
	dbPingTimeout   = 2 * time.Second
)

// stores are the backing document store and identity provider.
type stores struct {
	books collection.Store
	users session.Repository
	pool  *pgxpool.Pool
}

// openStores connects to Postgres, or builds in-process stores holding seed
// when --memory is set.
func openStores(ctx context.Context, seed ...book.Record) (*stores, error) {
	if flagMemory {
		return &stores{
			books: collection.NewMemoryStore(seed...),
			users: session.NewMemoryRepo(),
		}, nil
	}

	pool, err := openDB(ctx, cfg.DBDSN)
	if err != nil {
		return nil, err
	}
	return &stores{
		books: collection.NewPostgresRepo(pool, cfg.DBTimeout),
		users: session.NewPostgresRepo(pool, cfg.DBTimeout),
		pool:  pool,
	}, nil
}

func needsDatabase(command string) error {
	return fmt.Errorf("%s needs a database, drop --memory", command)
}

func (s *stores) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

func openDB(ctx context.Context, dsn string) (*pgxpool.Pool, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("cannot create db pool: %w", err)
	}
	pingCtx, cancel := context.WithTimeout(ctx, dbPingTimeout)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("cannot ping database (%s): %w", redactDSN(dsn), err)
	}
	log.Printf("database connection OK")
	return pool, nil
}

func redactDSN(dsn string) string {
	const marker = "://"
	start := strings.Index(dsn, marker)
	if start < 0 {
		return dsn
	}
	start += len(marker)
	end := strings.Index(dsn[start:], "@")
	if end < 0 {
		return dsn
	}
	return dsn[:start] + "***" + dsn[start+end:]
}

func newGate(users session.Repository) *session.Gate {
	return session.NewGate(users, cfg.JWTSecret, cfg.TokenTTL, cfg.AdminEmails, log)
}

func newSearchService() *search.Service {
	volumes := googlebooks.NewClient(
		httpclient.New(userAgent, cfg.GoogleBooks.RPS, upstreamRetries),
		cfg.GoogleBooks.BaseURL,
		cfg.GoogleBooks.APIKey,
	)
	lists := nytimes.NewClient(
		httpclient.New(userAgent, cfg.NYT.RPS, upstreamRetries),
		cfg.NYT.BaseURL,
		cfg.NYT.APIKey,
	)
	return search.NewService(volumes, lists, cfg.Search.Timeout)
}

// signIn makes email the gate's current identity. The password falls back
// to BOOKCLUB_PASSWORD so it stays out of shell history.
func signIn(ctx context.Context, gate *session.Gate, email, password string) (*session.Identity, error) {
	if email == "" {
		return nil, errors.New("--email is required")
	}
	if err := cfg.RequireSecret(); err != nil {
		return nil, err
	}
	if password == "" {
		password = os.Getenv(passwordEnvVar)
	}
	ident, err := gate.SignIn(ctx, email, password)
	if err != nil {
		return nil, fmt.Errorf("sign in as %s: %w", email, err)
	}
	return &ident, nil
}

package importer

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/pdxshibaa/BookClub/internal/book"
	"github.com/pdxshibaa/BookClub/internal/collection"
	"github.com/pdxshibaa/BookClub/internal/platform/logger"
	"github.com/pdxshibaa/BookClub/internal/session"
)

// ErrNoSource is returned by ImportFromURL when no sheet URL is configured.
var ErrNoSource = errors.New("import: no sheet URL configured")

const maxConcurrentWrites = 8

type Adder interface {
	Add(ctx context.Context, ident *session.Identity, d book.Draft) (book.Record, error)
}

// TitleSource reports the normalized titles already in the collection.
type TitleSource interface {
	ExistingTitles(ctx context.Context) (map[string]struct{}, error)
}

type Fetcher interface {
	GetText(ctx context.Context, url string) (string, error)
}

// Result summarises one import run.
type Result struct {
	Parsed   int `json:"parsed"`
	Inserted int `json:"inserted"`
	Failed   int `json:"failed"`
}

type Service struct {
	adder  Adder
	authz  collection.Authorizer
	titles TitleSource
	fetch  Fetcher
	csvURL string
	parser Parser
	log    logger.Logger
}

func NewService(adder Adder, authz collection.Authorizer, titles TitleSource, fetch Fetcher, csvURL string, log logger.Logger) *Service {
	return &Service{
		adder:  adder,
		authz:  authz,
		titles: titles,
		fetch:  fetch,
		csvURL: csvURL,
		log:    log,
	}
}

// Import parses raw sheet text and writes every new draft concurrently.
// Writes that succeed stay committed when others fail; the returned error
// joins the individual failures.
func (s *Service) Import(ctx context.Context, ident *session.Identity, raw string) (Result, error) {
	if ident == nil {
		return Result{}, collection.ErrUnauthenticated
	}
	if !s.authz.IsAdmin(ident) {
		return Result{}, collection.ErrForbidden
	}

	existing, err := s.titles.ExistingTitles(ctx)
	if err != nil {
		return Result{}, err
	}
	drafts, n, err := s.parser.Parse(raw, existing)
	if err != nil {
		return Result{}, err
	}

	var (
		mu       sync.Mutex
		failures []error
		inserted int
	)
	var g errgroup.Group
	g.SetLimit(maxConcurrentWrites)
	for _, d := range drafts {
		g.Go(func() error {
			_, err := s.adder.Add(ctx, ident, d)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				failures = append(failures, fmt.Errorf("%q: %w", d.Title, err))
				return nil
			}
			inserted++
			return nil
		})
	}
	g.Wait()

	res := Result{Parsed: n, Inserted: inserted, Failed: len(failures)}
	s.log.Printf("import finished parsed=%d inserted=%d failed=%d user_id=%s", res.Parsed, res.Inserted, res.Failed, ident.ID)
	return res, errors.Join(failures...)
}

// ImportFromURL fetches the configured sheet as CSV and imports it.
func (s *Service) ImportFromURL(ctx context.Context, ident *session.Identity) (Result, error) {
	if ident == nil {
		return Result{}, collection.ErrUnauthenticated
	}
	if !s.authz.IsAdmin(ident) {
		return Result{}, collection.ErrForbidden
	}
	if strings.TrimSpace(s.csvURL) == "" {
		return Result{}, ErrNoSource
	}

	raw, err := s.fetch.GetText(ctx, s.csvURL)
	if err != nil {
		return Result{}, fmt.Errorf("fetch sheet: %w", err)
	}
	return s.Import(ctx, ident, raw)
}

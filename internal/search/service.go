package search

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"
	"unicode"

	"github.com/pdxshibaa/BookClub/internal/book"
	"github.com/pdxshibaa/BookClub/internal/platform/googlebooks"
	"github.com/pdxshibaa/BookClub/internal/platform/httpclient"
	"github.com/pdxshibaa/BookClub/internal/platform/nytimes"
)

const coverServiceURL = "https://covers.openlibrary.org/b/isbn/%s-L.jpg"

type Service struct {
	volumes VolumesClient
	lists   ListsClient
	timeout time.Duration
}

func NewService(volumes VolumesClient, lists ListsClient, timeout time.Duration) *Service {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Service{volumes: volumes, lists: lists, timeout: timeout}
}

// Search queries the book-metadata API. On failure the result is empty and
// the error says why.
func (s *Service) Search(ctx context.Context, q string) ([]book.SearchResult, error) {
	q = strings.TrimSpace(q)
	if q == "" {
		return []book.SearchResult{}, nil
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	res, err := s.volumes.Volumes(ctx, q, MaxResults)
	if err != nil {
		return []book.SearchResult{}, classify(ctx, err)
	}

	out := make([]book.SearchResult, 0, len(res.Items))
	for _, item := range res.Items {
		out = append(out, fromVolume(item.VolumeInfo))
	}
	return out, nil
}

// CuratedList fetches a bestseller list by its identifier, e.g.
// "hardcover-fiction".
func (s *Service) CuratedList(ctx context.Context, listID string) ([]book.SearchResult, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	res, err := s.lists.CurrentList(ctx, listID)
	if err != nil {
		if errors.Is(err, nytimes.ErrMissingAPIKey) {
			return []book.SearchResult{}, ErrMissingAPIKey
		}
		return []book.SearchResult{}, classify(ctx, err)
	}

	out := make([]book.SearchResult, 0, len(res.Results.Books))
	for _, b := range res.Results.Books {
		out = append(out, fromListBook(b))
	}
	return out, nil
}

func classify(ctx context.Context, err error) error {
	if errors.Is(ctx.Err(), context.DeadlineExceeded) || errors.Is(err, context.DeadlineExceeded) {
		return ErrTimeout
	}
	var se *httpclient.StatusError
	if errors.As(err, &se) && se.StatusCode == http.StatusTooManyRequests {
		return ErrRateLimited
	}
	return fmt.Errorf("%w: %v", ErrUpstream, err)
}

func fromVolume(v googlebooks.VolumeInfo) book.SearchResult {
	authors := book.AuthorsOrUnknown(v.Authors)
	r := book.SearchResult{
		Title:   v.Title,
		Authors: authors,
		ISBN:    preferredISBN(v.IndustryIdentifiers),
		Links:   book.LinksFor(v.Title, authors),
	}
	if v.ImageLinks != nil {
		r.CoverURL = book.StringPtr(secureURL(v.ImageLinks.Thumbnail))
	}
	return r
}

func fromListBook(b nytimes.ListBook) book.SearchResult {
	authors := book.AuthorsOrUnknown([]string{b.Author})
	title := titleCase(b.Title)

	cover := b.BookImage
	if cover == "" && b.PrimaryISBN13 != "" {
		cover = fmt.Sprintf(coverServiceURL, b.PrimaryISBN13)
	}

	return book.SearchResult{
		Title:    title,
		Authors:  authors,
		CoverURL: book.StringPtr(secureURL(cover)),
		ISBN:     book.StringPtr(b.PrimaryISBN13),
		Links:    book.LinksFor(title, authors),
	}
}

func preferredISBN(ids []googlebooks.Identifier) *string {
	var isbn10 string
	for _, id := range ids {
		switch id.Type {
		case "ISBN_13":
			return book.StringPtr(id.Identifier)
		case "ISBN_10":
			if isbn10 == "" {
				isbn10 = id.Identifier
			}
		}
	}
	return book.StringPtr(isbn10)
}

func secureURL(u string) string {
	if strings.HasPrefix(u, "http://") {
		return "https://" + strings.TrimPrefix(u, "http://")
	}
	return u
}

// titleCase undoes the all-caps titles of the bestseller API.
func titleCase(s string) string {
	words := strings.Fields(strings.ToLower(s))
	for i, w := range words {
		r := []rune(w)
		r[0] = unicode.ToUpper(r[0])
		words[i] = string(r)
	}
	return strings.Join(words, " ")
}

package collection

import (
	"context"
	"strings"
	"time"

	"github.com/pdxshibaa/BookClub/internal/book"
	"github.com/pdxshibaa/BookClub/internal/dateparse"
	"github.com/pdxshibaa/BookClub/internal/platform/logger"
	"github.com/pdxshibaa/BookClub/internal/session"
)

// Service issues collection mutations after authorizing the caller. The
// store stays the authority for conflicts.
type Service struct {
	store Store
	authz Authorizer
	log   logger.Logger
	now   func() time.Time
}

func NewService(store Store, authz Authorizer, log logger.Logger) *Service {
	return &Service{store: store, authz: authz, log: log, now: time.Now}
}

// List reads the current collection straight from the store.
func (s *Service) List(ctx context.Context) ([]book.Record, error) {
	return s.store.List(ctx)
}

// Add persists a draft. Any signed-in member may suggest a book; every other
// status needs an admin.
func (s *Service) Add(ctx context.Context, ident *session.Identity, d book.Draft) (book.Record, error) {
	if ident == nil {
		return book.Record{}, ErrUnauthenticated
	}
	if d.Status != book.StatusSuggested && !s.authz.IsAdmin(ident) {
		s.log.Warnf("add refused user_id=%s status=%s title=%q", ident.ID, d.Status, d.Title)
		return book.Record{}, ErrForbidden
	}
	d.Title = strings.TrimSpace(d.Title)
	if d.Title == "" {
		return book.Record{}, ErrEmptyTitle
	}

	if d.SortDate.IsZero() {
		if d.DisplayDate != "" {
			d.SortDate = dateparse.Parse(d.DisplayDate)
		} else {
			d.SortDate = s.now().UTC()
		}
	}
	if d.Links.IsZero() {
		d.Links = book.LinksFor(d.Title, d.Authors)
	}

	rec, err := s.store.Create(ctx, d)
	if err != nil {
		return book.Record{}, err
	}
	s.log.Printf("book added id=%s status=%s user_id=%s", rec.ID, rec.Status, ident.ID)
	return rec, nil
}

// Update applies an edit to displayDate, proposer and comments and derives a
// new sort date from the display date. An edit with any field left out is
// declined as a whole: it reports false and writes nothing.
func (s *Service) Update(ctx context.Context, ident *session.Identity, id string, e book.Edit) (bool, error) {
	if err := s.requireAdmin(ident); err != nil {
		return false, err
	}
	if !e.Complete() {
		return false, nil
	}

	changes := book.Changes{
		DisplayDate: *e.DisplayDate,
		Proposer:    *e.Proposer,
		Comments:    *e.Comments,
		SortDate:    dateparse.Parse(*e.DisplayDate),
	}
	if err := s.store.Update(ctx, id, changes); err != nil {
		return false, err
	}
	s.log.Printf("book updated id=%s user_id=%s", id, ident.ID)
	return true, nil
}

// Remove deletes a record.
func (s *Service) Remove(ctx context.Context, ident *session.Identity, id string) error {
	if err := s.requireAdmin(ident); err != nil {
		return err
	}
	if err := s.store.Delete(ctx, id); err != nil {
		return err
	}
	s.log.Printf("book removed id=%s user_id=%s", id, ident.ID)
	return nil
}

func (s *Service) requireAdmin(ident *session.Identity) error {
	if ident == nil {
		return ErrUnauthenticated
	}
	if !s.authz.IsAdmin(ident) {
		return ErrForbidden
	}
	return nil
}

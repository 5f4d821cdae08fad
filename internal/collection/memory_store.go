package collection

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/pdxshibaa/BookClub/internal/book"
)

// MemoryStore is an in-process Store with the same full-snapshot
// subscription behaviour as the Postgres one.
type MemoryStore struct {
	mu      sync.Mutex
	records map[string]book.Record
	subs    map[chan []book.Record]struct{}
}

func NewMemoryStore(seed ...book.Record) *MemoryStore {
	s := &MemoryStore{
		records: make(map[string]book.Record, len(seed)),
		subs:    make(map[chan []book.Record]struct{}),
	}
	for _, rec := range seed {
		if rec.ID == "" {
			rec.ID = uuid.NewString()
		}
		s.records[rec.ID] = rec
	}
	return s
}

func (s *MemoryStore) List(ctx context.Context) ([]book.Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked(), nil
}

func (s *MemoryStore) Create(ctx context.Context, d book.Draft) (book.Record, error) {
	if err := ctx.Err(); err != nil {
		return book.Record{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	rec := d.Record(uuid.NewString())
	s.records[rec.ID] = rec
	s.publishLocked()
	return rec, nil
}

func (s *MemoryStore) Update(ctx context.Context, id string, c book.Changes) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.records[id]
	if !ok {
		return ErrNotFound
	}
	rec.DisplayDate = c.DisplayDate
	rec.Proposer = c.Proposer
	rec.Comments = c.Comments
	rec.SortDate = c.SortDate
	s.records[id] = rec
	s.publishLocked()
	return nil
}

func (s *MemoryStore) Delete(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.records[id]; !ok {
		return ErrNotFound
	}
	delete(s.records, id)
	s.publishLocked()
	return nil
}

func (s *MemoryStore) Subscribe(ctx context.Context) (<-chan []book.Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	ch := make(chan []book.Record, 1)

	s.mu.Lock()
	s.subs[ch] = struct{}{}
	ch <- s.snapshotLocked()
	s.mu.Unlock()

	go func() {
		<-ctx.Done()
		s.mu.Lock()
		delete(s.subs, ch)
		close(ch)
		s.mu.Unlock()
	}()
	return ch, nil
}

func (s *MemoryStore) snapshotLocked() []book.Record {
	out := make([]book.Record, 0, len(s.records))
	for _, rec := range s.records {
		out = append(out, rec)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].SortDate.Equal(out[j].SortDate) {
			return out[i].ID < out[j].ID
		}
		return out[i].SortDate.After(out[j].SortDate)
	})
	return out
}

func (s *MemoryStore) publishLocked() {
	if len(s.subs) == 0 {
		return
	}
	for ch := range s.subs {
		deliver(ch, s.snapshotLocked())
	}
}

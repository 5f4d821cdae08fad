package collection

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/pdxshibaa/BookClub/internal/book"
	"github.com/pdxshibaa/BookClub/internal/platform/logger"
)

const (
	resubscribeDelay = 2 * time.Second
	readyWait        = 3 * time.Second
)

// Sync owns the local copy of the collection. Every push from the store
// replaces the snapshot wholesale and is fanned out to watchers.
type Sync struct {
	store     Store
	log       logger.Logger
	retry     time.Duration
	readyWait time.Duration

	mu       sync.RWMutex
	snapshot []book.Record
	ready    chan struct{}
	loaded   bool
	watchers map[chan []book.Record]struct{}
}

func NewSync(store Store, log logger.Logger) *Sync {
	return &Sync{
		store:    store,
		log:      log,
		retry:     resubscribeDelay,
		readyWait: readyWait,
		ready:     make(chan struct{}),
		watchers:  make(map[chan []book.Record]struct{}),
	}
}

// Run keeps a subscription open until ctx is done, resubscribing after the
// store drops it.
func (s *Sync) Run(ctx context.Context) error {
	for {
		updates, err := s.store.Subscribe(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			s.log.Errorf("collection subscribe failed err=%v", err)
		} else {
			for snapshot := range updates {
				s.apply(snapshot)
			}
			if ctx.Err() != nil {
				return ctx.Err()
			}
			s.log.Warnf("collection subscription closed, resubscribing")
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(s.retry):
		}
	}
}

func (s *Sync) apply(snapshot []book.Record) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.snapshot = snapshot
	if !s.loaded {
		s.loaded = true
		close(s.ready)
	}
	for ch := range s.watchers {
		deliver(ch, cloneRecords(snapshot))
	}
}

// Ready is closed once the first snapshot has arrived.
func (s *Sync) Ready() <-chan struct{} {
	return s.ready
}

// Snapshot returns a copy of the latest snapshot.
func (s *Sync) Snapshot() []book.Record {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneRecords(s.snapshot)
}

// Titles returns the normalized titles in the latest snapshot.
func (s *Sync) Titles() map[string]struct{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return titlesOf(s.snapshot)
}

// ExistingTitles is Titles once the first snapshot is in. Before that it
// waits up to readyWait and then reads the store directly.
func (s *Sync) ExistingTitles(ctx context.Context) (map[string]struct{}, error) {
	timer := time.NewTimer(s.readyWait)
	defer timer.Stop()

	select {
	case <-s.ready:
		return s.Titles(), nil
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-timer.C:
	}

	s.log.Warnf("collection not loaded after %s, reading titles from store", s.readyWait)
	records, err := s.store.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list existing titles: %w", err)
	}
	return titlesOf(records), nil
}

func titlesOf(records []book.Record) map[string]struct{} {
	titles := make(map[string]struct{}, len(records))
	for _, rec := range records {
		titles[book.NormalizeTitle(rec.Title)] = struct{}{}
	}
	return titles
}

// Watch streams snapshots, starting with the current one when loaded, until
// ctx is done. A slow reader only ever sees the newest snapshot.
func (s *Sync) Watch(ctx context.Context) <-chan []book.Record {
	ch := make(chan []book.Record, 1)

	s.mu.Lock()
	s.watchers[ch] = struct{}{}
	if s.loaded {
		ch <- cloneRecords(s.snapshot)
	}
	s.mu.Unlock()

	go func() {
		<-ctx.Done()
		s.mu.Lock()
		delete(s.watchers, ch)
		close(ch)
		s.mu.Unlock()
	}()
	return ch
}

func cloneRecords(in []book.Record) []book.Record {
	if in == nil {
		return nil
	}
	out := make([]book.Record, len(in))
	copy(out, in)
	return out
}

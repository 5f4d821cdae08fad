package search

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/pdxshibaa/BookClub/internal/book"
)

const (
	idleClientTTL     = 5 * time.Minute
	maxTrackedClients = 10000
)

// Latest lets only the most recent call deliver results. Earlier calls keep
// running until their own timeout but their results are dropped.
type Latest struct {
	gen      atomic.Uint64
	inFlight atomic.Int32
	lastSeen time.Time // guarded by Tracker.mu
}

// Do runs fn and returns ErrSuperseded if another Do started meanwhile.
func (l *Latest) Do(ctx context.Context, fn func(context.Context) ([]book.SearchResult, error)) ([]book.SearchResult, error) {
	l.inFlight.Add(1)
	defer l.inFlight.Add(-1)

	mine := l.gen.Add(1)
	results, err := fn(ctx)
	if l.gen.Load() != mine {
		return []book.SearchResult{}, ErrSuperseded
	}
	return results, err
}

// Tracker keeps one Latest per client key. Keys idle for longer than
// idleClientTTL are dropped, and a full tracker drops every key with no call
// in flight.
type Tracker struct {
	mu        sync.Mutex
	clients   map[string]*Latest
	lastSweep time.Time
	now       func() time.Time
}

func NewTracker() *Tracker {
	return &Tracker{
		clients:   make(map[string]*Latest),
		lastSweep: time.Now(),
		now:       time.Now,
	}
}

func (t *Tracker) For(key string) *Latest {
	t.mu.Lock()
	defer t.mu.Unlock()

	now := t.now()
	if _, ok := t.clients[key]; !ok && len(t.clients) >= maxTrackedClients {
		t.sweep(now, 0)
	} else if now.Sub(t.lastSweep) > idleClientTTL {
		t.sweep(now, idleClientTTL)
	}

	l, ok := t.clients[key]
	if !ok {
		l = &Latest{}
		t.clients[key] = l
	}
	l.lastSeen = now
	return l
}

func (t *Tracker) sweep(now time.Time, ttl time.Duration) {
	for k, l := range t.clients {
		if l.inFlight.Load() == 0 && now.Sub(l.lastSeen) >= ttl {
			delete(t.clients, k)
		}
	}
	t.lastSweep = now
}

func (t *Tracker) size() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.clients)
}

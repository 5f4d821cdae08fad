// Package app holds the state a live client renders from.
package app

import (
	"sync"

	"github.com/pdxshibaa/BookClub/internal/book"
	"github.com/pdxshibaa/BookClub/internal/listview"
	"github.com/pdxshibaa/BookClub/internal/session"
)

// View is what a renderer draws after every state change.
type View struct {
	Tab      listview.Tab
	Filter   string
	Identity *session.Identity
	Books    []book.Record
}

// State is the single owner of snapshot, identity, search results, active
// tab and filter. Every setter recomputes the view and renders it.
type State struct {
	mu       sync.Mutex
	snapshot []book.Record
	results  []book.SearchResult
	identity *session.Identity
	tab      listview.Tab
	filter   string
	render   func(View)
}

func NewState(render func(View)) *State {
	if render == nil {
		render = func(View) {}
	}
	return &State{tab: listview.TabRead, render: render}
}

func (s *State) SetSnapshot(snapshot []book.Record) {
	s.update(func() { s.snapshot = snapshot })
}

func (s *State) SetIdentity(ident *session.Identity) {
	s.update(func() { s.identity = ident })
}

func (s *State) SetSearchResults(results []book.SearchResult) {
	s.update(func() { s.results = results })
}

func (s *State) SetTab(tab listview.Tab) {
	s.update(func() { s.tab = tab })
}

func (s *State) SetFilter(filter string) {
	s.update(func() { s.filter = filter })
}

// View returns the current view without rendering.
func (s *State) View() View {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.viewLocked()
}

func (s *State) update(mutate func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	mutate()
	s.render(s.viewLocked())
}

func (s *State) viewLocked() View {
	v := View{
		Tab:    s.tab,
		Filter: s.filter,
		Books:  listview.Display(s.snapshot, s.results, s.tab, s.filter),
	}
	if s.identity != nil {
		ident := *s.identity
		v.Identity = &ident
	}
	return v
}

// Package alerts holds the transient banner notifications shown by the
// panel. Every user-facing success or failure lands here; alerts
// auto-dismiss after a fixed interval and never block interaction.
package alerts

import (
	"sync"
	"time"
)

// DismissAfter is how long a banner stays active.
const DismissAfter = 2500 * time.Millisecond

// Kind distinguishes success banners from error banners.
type Kind string

const (
	KindSuccess Kind = "success"
	KindError   Kind = "error"
)

// Alert is one active banner.
type Alert struct {
	Kind    Kind   `json:"type"`
	Message string `json:"msg"`
}

type entry struct {
	id    uint64
	alert Alert
}

// Store keeps the currently active banners.
type Store struct {
	mu      sync.Mutex
	seq     uint64
	active  []entry
	dismiss time.Duration
}

// NewStore returns a store with the standard dismiss interval.
func NewStore() *Store {
	return &Store{dismiss: DismissAfter}
}

// Success pushes a success banner.
func (s *Store) Success(msg string) {
	s.push(Alert{Kind: KindSuccess, Message: msg})
}

// Error pushes an error banner.
func (s *Store) Error(msg string) {
	s.push(Alert{Kind: KindError, Message: msg})
}

func (s *Store) push(a Alert) {
	s.mu.Lock()
	s.seq++
	id := s.seq
	s.active = append(s.active, entry{id: id, alert: a})
	s.mu.Unlock()

	time.AfterFunc(s.dismiss, func() { s.remove(id) })
}

func (s *Store) remove(id uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, e := range s.active {
		if e.id == id {
			s.active = append(s.active[:i], s.active[i+1:]...)
			return
		}
	}
}

// Active returns the banners currently on screen, oldest first.
func (s *Store) Active() []Alert {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Alert, len(s.active))
	for i, e := range s.active {
		out[i] = e.alert
	}
	return out
}

// Reset drops every active banner.
func (s *Store) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.active = nil
}

package store

import (
	"sort"
	"sync"

	"github.com/google/uuid"

	"planner/internal/clock"
	appLog "planner/internal/log"
	"planner/internal/model"
)

// Store is the in-memory, insertion-ordered event collection for the
// lifetime of the process. Queries are read-only derivations and never
// reorder or mutate the underlying slice.
type Store struct {
	mu     sync.RWMutex
	events []model.Event
	clock  clock.Clock
}

// New returns an empty store. A nil clock falls back to the system clock.
func New(c clock.Clock) *Store {
	if c == nil {
		c = clock.System{}
	}
	return &Store{clock: c}
}

// NewID returns a fresh event identifier.
func NewID() string {
	return uuid.NewString()
}

// Add appends ev without deduplication and returns the new length.
func (s *Store) Add(ev model.Event) int {
	s.mu.Lock()
	s.events = append(s.events, ev)
	n := len(s.events)
	s.mu.Unlock()

	appLog.Info("event added",
		"id", ev.ID,
		"date", ev.Date.String(),
		"type", string(ev.Type),
		"count", n,
	)
	return n
}

// All returns a copy of every event in insertion order.
func (s *Store) All() []model.Event {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]model.Event, len(s.events))
	copy(out, s.events)
	return out
}

func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.events)
}

// EventsOnDate returns the events stored on d, in insertion order.
func (s *Store) EventsOnDate(d model.Date) []model.Event {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]model.Event, 0)
	for _, ev := range s.events {
		if ev.Date == d {
			out = append(out, ev)
		}
	}
	return out
}

// Upcoming returns at most limit events dated today or later, ascending by
// date. Same-day events keep insertion order. "Today" is read from the
// clock on every call, so results can change without any mutation.
func (s *Store) Upcoming(limit int) []model.Event {
	if limit <= 0 {
		return []model.Event{}
	}
	today := model.DateOf(s.clock.Now())

	s.mu.RLock()
	out := make([]model.Event, 0, len(s.events))
	for _, ev := range s.events {
		if !ev.Date.Before(today) {
			out = append(out, ev)
		}
	}
	s.mu.RUnlock()

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Date.Before(out[j].Date)
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out
}

// Clock exposes the store's time source so the presentation layer and the
// controller agree on "today".
func (s *Store) Clock() clock.Clock {
	return s.clock
}

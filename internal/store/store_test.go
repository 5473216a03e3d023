package store_test

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"planner/internal/clock"
	"planner/internal/model"
	"planner/internal/store"
)

var now = time.Date(2025, time.January, 16, 14, 30, 0, 0, time.Local)

func ev(id string, d model.Date) model.Event {
	return model.Event{
		ID:        id,
		Title:     "event " + id,
		Date:      d,
		StartTime: "10:00",
		EndTime:   "11:00",
		Type:      model.TypeWork,
	}
}

func ids(evs []model.Event) []string {
	out := make([]string, 0, len(evs))
	for _, e := range evs {
		out = append(out, e.ID)
	}
	return out
}

func TestAddAppendsInOrder(t *testing.T) {
	s := store.New(clock.Fixed(now))
	assert.Equal(t, 1, s.Add(ev("a", model.NewDate(2025, 1, 20))))
	assert.Equal(t, 2, s.Add(ev("b", model.NewDate(2025, 1, 10))))
	// No dedup.
	assert.Equal(t, 3, s.Add(ev("b", model.NewDate(2025, 1, 10))))

	assert.Equal(t, []string{"a", "b", "b"}, ids(s.All()))
	assert.Equal(t, 3, s.Len())
}

func TestAllReturnsCopy(t *testing.T) {
	s := store.New(clock.Fixed(now))
	s.Add(ev("a", model.NewDate(2025, 1, 20)))

	all := s.All()
	all[0].Title = "changed"
	assert.Equal(t, "event a", s.All()[0].Title)
}

func TestEventsOnDate(t *testing.T) {
	s := store.New(clock.Fixed(now))
	d := model.NewDate(2025, 1, 15)
	s.Add(ev("1", d))
	s.Add(ev("2", model.NewDate(2025, 1, 16)))
	s.Add(ev("3", d))
	s.Add(ev("4", model.NewDate(2024, 1, 15)))
	s.Add(ev("5", d))

	assert.Equal(t, []string{"1", "3", "5"}, ids(s.EventsOnDate(d)))
	assert.Empty(t, s.EventsOnDate(model.NewDate(2025, 2, 1)))
	// Queries leave the collection untouched.
	assert.Equal(t, []string{"1", "2", "3", "4", "5"}, ids(s.All()))
}

func TestUpcoming(t *testing.T) {
	s := store.New(clock.Fixed(now))
	s.Add(ev("past", model.NewDate(2025, 1, 15)))
	s.Add(ev("far", model.NewDate(2025, 3, 1)))
	s.Add(ev("today", model.NewDate(2025, 1, 16)))
	s.Add(ev("tomorrow-1", model.NewDate(2025, 1, 17)))
	s.Add(ev("next-week", model.NewDate(2025, 1, 23)))
	s.Add(ev("tomorrow-2", model.NewDate(2025, 1, 17)))
	s.Add(ev("feb", model.NewDate(2025, 2, 2)))
	s.Add(ev("last-year", model.NewDate(2024, 12, 31)))

	got := s.Upcoming(5)
	require.Len(t, got, 5)
	assert.Equal(t, []string{"today", "tomorrow-1", "tomorrow-2", "next-week", "feb"}, ids(got))

	today := model.DateOf(now)
	for i, e := range got {
		assert.False(t, e.Date.Before(today), e.ID)
		if i > 0 {
			assert.False(t, e.Date.Before(got[i-1].Date), "not sorted at %d", i)
		}
	}

	assert.Len(t, s.Upcoming(100), 6)
	assert.Empty(t, s.Upcoming(0))
	assert.Equal(t, "past", s.All()[0].ID)
}

func TestUpcomingSamplesClockPerCall(t *testing.T) {
	current := now
	s := store.New(clock.Func(func() time.Time { return current }))
	s.Add(ev("soon", model.NewDate(2025, 1, 17)))

	assert.Len(t, s.Upcoming(5), 1)
	current = now.AddDate(0, 0, 2)
	assert.Empty(t, s.Upcoming(5))
}

func TestNewIDUnique(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 1000; i++ {
		id := store.NewID()
		require.False(t, seen[id], "duplicate id %s", id)
		seen[id] = true
	}
}

func TestConcurrentAddAndQuery(t *testing.T) {
	s := store.New(clock.Fixed(now))
	d := model.NewDate(2025, 1, 20)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			s.Add(ev(store.NewID(), d))
		}()
		go func() {
			defer wg.Done()
			_ = s.Upcoming(5)
			_ = s.EventsOnDate(d)
		}()
	}
	wg.Wait()
	assert.Len(t, s.EventsOnDate(d), 20)
}

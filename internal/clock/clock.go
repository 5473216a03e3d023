// Package clock is the injectable source of "now" used for upcoming-event
// queries, today highlighting and the header clock.
package clock

import "time"

type Clock interface {
	Now() time.Time
}

// System reads the wall clock in Location (time.Local when nil).
type System struct {
	Location *time.Location
}

func (s System) Now() time.Time {
	if s.Location == nil {
		return time.Now()
	}
	return time.Now().In(s.Location)
}

// Fixed always returns the same instant.
type Fixed time.Time

func (f Fixed) Now() time.Time {
	return time.Time(f)
}

// Func adapts a plain function, handy for tests that advance time.
type Func func() time.Time

func (f Func) Now() time.Time {
	return f()
}

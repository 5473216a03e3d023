package ics

import (
	"fmt"
	"time"

	ical "github.com/arran4/golang-ical"

	"planner/internal/model"
)

const productID = "-//planner//planner 1.0//EN"

// Export serializes events as an iCalendar document. Wall-clock times are
// interpreted in loc; stamp is written as DTSTAMP on every VEVENT.
func Export(events []model.Event, loc *time.Location, stamp time.Time) (string, error) {
	if loc == nil {
		loc = time.Local
	}

	cal := ical.NewCalendar()
	cal.SetMethod(ical.MethodPublish)
	cal.SetProductId(productID)

	for _, ev := range events {
		start, err := wallClock(ev.Date, ev.StartTime, loc)
		if err != nil {
			return "", fmt.Errorf("event %s: %w", ev.ID, err)
		}
		end, err := wallClock(ev.Date, ev.EndTime, loc)
		if err != nil {
			return "", fmt.Errorf("event %s: %w", ev.ID, err)
		}

		ve := cal.AddEvent(ev.ID)
		ve.SetDtStampTime(stamp)
		ve.SetStartAt(start)
		ve.SetEndAt(end)
		ve.SetSummary(ev.Title)
		if ev.Description != "" {
			ve.SetDescription(ev.Description)
		}
		ve.AddProperty(ical.ComponentPropertyCategories, string(ev.Type))
	}

	return cal.Serialize(), nil
}

func wallClock(d model.Date, hhmm string, loc *time.Location) (time.Time, error) {
	t, err := time.Parse(model.TimeLayout, hhmm)
	if err != nil {
		return time.Time{}, fmt.Errorf("time %q: %w", hhmm, err)
	}
	return time.Date(d.Year, d.Month, d.Day, t.Hour(), t.Minute(), 0, 0, loc), nil
}

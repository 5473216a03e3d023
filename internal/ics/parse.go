package ics

import (
	"bytes"
	"errors"
	"strings"
	"time"

	ical "github.com/arran4/golang-ical"

	appLog "planner/internal/log"
	"planner/internal/model"
)

// ParseSeed turns the VEVENTs of an ICS payload into planner events.
//
//   - SUMMARY becomes the title (VEVENTs without one are skipped).
//   - DTSTART gives the date and start time, DTEND the end time, both
//     converted into loc.
//   - All-day VEVENTs span 00:00-23:59 of their start date.
//   - CATEGORIES selects the event type when it names one; otherwise work.
//   - Recurring VEVENTs (RRULE) are skipped: planner events never recur.
//
// Ids are assigned with newID; the VEVENT UID is not reused so that
// importing the same file twice cannot produce duplicate ids.
func ParseSeed(name string, body []byte, loc *time.Location, newID func() string) ([]model.Event, error) {
	if len(body) == 0 {
		return nil, errors.New("empty ICS body")
	}
	if loc == nil {
		loc = time.Local
	}

	cal, err := ical.ParseCalendar(bytes.NewReader(body))
	if err != nil {
		appLog.Error("ics parse failed", err, "name", name)
		return nil, err
	}

	events := make([]model.Event, 0)
	for _, ve := range cal.Events() {
		ev, perr := parseVEvent(ve, loc)
		if perr != nil {
			// Log and skip this event, but keep parsing others.
			appLog.Error("ics vevent skipped", perr, "name", name, "uid", uidOf(ve))
			continue
		}
		ev.ID = newID()
		events = append(events, ev)
	}

	appLog.Info("ics parse completed", "name", name, "event_count", len(events))
	return events, nil
}

func parseVEvent(ve *ical.VEvent, loc *time.Location) (model.Event, error) {
	var out model.Event

	if p := ve.GetProperty(ical.ComponentPropertyRrule); p != nil && p.Value != "" {
		return out, errors.New("recurring events are not supported")
	}

	if p := ve.GetProperty(ical.ComponentPropertySummary); p != nil {
		out.Title = strings.TrimSpace(p.Value)
	}
	if out.Title == "" {
		return out, errors.New("missing SUMMARY")
	}
	if p := ve.GetProperty(ical.ComponentPropertyDescription); p != nil {
		out.Description = p.Value
	}

	if isAllDay(ve) {
		start, err := ve.GetAllDayStartAt()
		if err != nil {
			return out, err
		}
		out.Date = model.DateOf(start)
		out.StartTime = "00:00"
		out.EndTime = "23:59"
	} else {
		start, err := ve.GetStartAt()
		if err != nil {
			return out, err
		}
		start = start.In(loc)
		out.Date = model.DateOf(start)
		out.StartTime = start.Format(model.TimeLayout)

		end, err := ve.GetEndAt()
		if err != nil {
			// No DTEND: zero-length event.
			end = start
		}
		out.EndTime = end.In(loc).Format(model.TimeLayout)
	}

	out.Type = model.TypeWork
	if p := ve.GetProperty(ical.ComponentPropertyCategories); p != nil {
		for _, c := range strings.Split(p.Value, ",") {
			if t, err := model.ParseEventType(strings.ToLower(strings.TrimSpace(c))); err == nil {
				out.Type = t
				break
			}
		}
	}

	return out, nil
}

// isAllDay inspects DTSTART for VALUE=DATE or a bare YYYYMMDD value.
func isAllDay(ve *ical.VEvent) bool {
	p := ve.GetProperty(ical.ComponentPropertyDtStart)
	if p == nil {
		return false
	}
	if vs, ok := p.ICalParameters["VALUE"]; ok && len(vs) > 0 && strings.EqualFold(vs[0], "DATE") {
		return true
	}
	return !strings.Contains(p.Value, "T")
}

func uidOf(ve *ical.VEvent) string {
	if p := ve.GetProperty(ical.ComponentPropertyUniqueId); p != nil {
		return p.Value
	}
	return ""
}

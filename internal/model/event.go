package model

import "fmt"

// EventType is the fixed category set for events.
type EventType string

const (
	TypeWork          EventType = "work"
	TypeStudy         EventType = "study"
	TypeExercise      EventType = "exercise"
	TypeEntertainment EventType = "entertainment"
)

// EventTypes lists every variant in selector order.
var EventTypes = []EventType{TypeWork, TypeStudy, TypeExercise, TypeEntertainment}

// typeStyles holds the display-only label and color class of each type.
var typeStyles = map[EventType]struct{ label, color string }{
	TypeWork:          {"Work", "type-work"},
	TypeStudy:         {"Study", "type-study"},
	TypeExercise:      {"Exercise", "type-exercise"},
	TypeEntertainment: {"Entertainment", "type-entertainment"},
}

func (t EventType) Valid() bool {
	_, ok := typeStyles[t]
	return ok
}

func (t EventType) Label() string {
	return typeStyles[t].label
}

// Color is the CSS class the presentation layer attaches to badges and chips.
func (t EventType) Color() string {
	return typeStyles[t].color
}

// ParseEventType accepts the lowercase variant names.
func ParseEventType(s string) (EventType, error) {
	t := EventType(s)
	if !t.Valid() {
		return "", fmt.Errorf("unknown event type %q", s)
	}
	return t, nil
}

// Event is a user-created calendar item. It is never mutated after it has
// been added to the store.
type Event struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Date        Date      `json:"date"`
	StartTime   string    `json:"start_time"`
	EndTime     string    `json:"end_time"`
	Type        EventType `json:"type"`
}

// Draft is an unsaved Event being edited in the add dialog.
type Draft struct {
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Date        Date      `json:"date"`
	StartTime   string    `json:"start_time"`
	EndTime     string    `json:"end_time"`
	Type        EventType `json:"type"`
}

// EmptyDraft returns the reset state of the add form seeded with date.
func EmptyDraft(date Date) Draft {
	return Draft{Date: date, Type: TypeWork}
}

// Complete reports whether the draft satisfies the submit precondition.
func (d Draft) Complete() bool {
	return d.Title != "" && d.StartTime != "" && d.EndTime != ""
}

// Event materializes the draft with the given id and date.
func (d Draft) Event(id string, date Date) Event {
	return Event{
		ID:          id,
		Title:       d.Title,
		Description: d.Description,
		Date:        date,
		StartTime:   d.StartTime,
		EndTime:     d.EndTime,
		Type:        d.Type,
	}
}

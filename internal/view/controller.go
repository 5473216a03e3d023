package view

import (
	"errors"
	"fmt"
	"sync"

	"planner/internal/calendar"
	appLog "planner/internal/log"
	"planner/internal/model"
	"planner/internal/store"
)

var (
	ErrDialogClosed    = errors.New("add-event dialog is not open")
	ErrDraftIncomplete = errors.New("title, start time and end time are required")
	ErrInvalidValue    = errors.New("value does not fit the field")
)

// Mode is the display granularity selector. Day mode is selectable but has
// no layout of its own yet.
type Mode string

const (
	ModeMonth Mode = "month"
	ModeDay   Mode = "day"
)

// Field names a draft attribute editable through UpdateDraftField.
type Field string

const (
	FieldTitle       Field = "title"
	FieldDescription Field = "description"
	FieldDate        Field = "date"
	FieldStartTime   Field = "start_time"
	FieldEndTime     Field = "end_time"
	FieldType        Field = "type"
)

// DraftFields lists the fields in form order.
var DraftFields = []Field{FieldTitle, FieldDescription, FieldDate, FieldStartTime, FieldEndTime, FieldType}

// State is a point-in-time copy of everything the page needs besides the
// events themselves.
type State struct {
	CurrentMonth calendar.Month `json:"current_month"`
	SelectedDate *model.Date    `json:"selected_date,omitempty"`
	ViewMode     Mode           `json:"view_mode"`
	DialogOpen   bool           `json:"dialog_open"`
	Draft        model.Draft    `json:"draft"`
}

// Controller owns the UI state and is the only writer to the store.
type Controller struct {
	mu    sync.Mutex
	store *store.Store
	newID func() string
	state State
}

// NewController starts on the month containing "today" with the dialog
// closed.
func NewController(s *store.Store) *Controller {
	today := model.DateOf(s.Clock().Now())
	return &Controller{
		store: s,
		newID: store.NewID,
		state: State{
			CurrentMonth: calendar.MonthOf(today),
			ViewMode:     ModeMonth,
			Draft:        model.EmptyDraft(today),
		},
	}
}

// Snapshot returns a copy of the current state.
func (c *Controller) Snapshot() State {
	c.mu.Lock()
	defer c.mu.Unlock()

	st := c.state
	if st.SelectedDate != nil {
		d := *st.SelectedDate
		st.SelectedDate = &d
	}
	return st
}

// Navigate moves the displayed month by delta; always allowed.
func (c *Controller) Navigate(delta int) calendar.Month {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.state.CurrentMonth = c.state.CurrentMonth.Add(delta)
	appLog.Debug("navigate month", "delta", delta, "month", c.state.CurrentMonth.String())
	return c.state.CurrentMonth
}

func (c *Controller) SetViewMode(m Mode) error {
	if m != ModeMonth && m != ModeDay {
		return fmt.Errorf("view mode %q: %w", m, ErrInvalidValue)
	}
	c.mu.Lock()
	c.state.ViewMode = m
	c.mu.Unlock()
	return nil
}

// OpenForDate selects date, seeds the draft's date with it and opens the
// dialog. Reopening while already open keeps the other draft fields.
func (c *Controller) OpenForDate(date model.Date) {
	c.mu.Lock()
	defer c.mu.Unlock()

	d := date
	c.state.SelectedDate = &d
	c.state.Draft.Date = date
	c.state.DialogOpen = true
	appLog.Debug("add dialog opened", "date", date.String())
}

// UpdateDraftField sets one draft attribute while the dialog is open.
func (c *Controller) UpdateDraftField(field Field, value string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.state.DialogOpen {
		return ErrDialogClosed
	}
	return setField(&c.state.Draft, field, value)
}

func setField(d *model.Draft, field Field, value string) error {
	switch field {
	case FieldTitle:
		d.Title = value
	case FieldDescription:
		d.Description = value
	case FieldDate:
		date, err := model.ParseDate(value)
		if err != nil {
			return fmt.Errorf("%s: %w", field, ErrInvalidValue)
		}
		d.Date = date
	case FieldStartTime, FieldEndTime:
		if value != "" && !model.ValidClock(value) {
			return fmt.Errorf("%s %q: %w", field, value, ErrInvalidValue)
		}
		if field == FieldStartTime {
			d.StartTime = value
		} else {
			d.EndTime = value
		}
	case FieldType:
		t, err := model.ParseEventType(value)
		if err != nil {
			return fmt.Errorf("%s: %w", field, ErrInvalidValue)
		}
		d.Type = t
	default:
		return fmt.Errorf("unknown field %q: %w", field, ErrInvalidValue)
	}
	return nil
}

// Submit turns the draft into an Event, appends it and closes the dialog.
// The event date is the selected grid date when there is one, otherwise the
// draft's own date.
func (c *Controller) Submit() (model.Event, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.state.DialogOpen {
		return model.Event{}, ErrDialogClosed
	}
	draft := c.state.Draft
	if !draft.Complete() {
		return model.Event{}, ErrDraftIncomplete
	}

	date := draft.Date
	if c.state.SelectedDate != nil {
		date = *c.state.SelectedDate
	}
	ev := draft.Event(c.newID(), date)
	c.store.Add(ev)

	c.closeLocked()
	return ev, nil
}

// Cancel discards the draft without touching the store.
func (c *Controller) Cancel() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.state.DialogOpen {
		return ErrDialogClosed
	}
	c.closeLocked()
	appLog.Debug("add dialog canceled")
	return nil
}

func (c *Controller) closeLocked() {
	c.state.DialogOpen = false
	c.state.Draft = model.EmptyDraft(model.DateOf(c.store.Clock().Now()))
}

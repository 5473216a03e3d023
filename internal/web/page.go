package web

import (
	"bytes"
	"net/http"

	"planner/internal/calendar"
	appLog "planner/internal/log"
	"planner/internal/model"
	"planner/internal/view"
)

var weekdayHeaders = []string{"Sun", "Mon", "Tue", "Wed", "Thu", "Fri", "Sat"}

// pageData is everything the page template reads. It is rebuilt from the
// controller snapshot and store queries on every GET.
type pageData struct {
	Title      string
	Clock      string
	Weather    string
	MonthLabel string
	ViewMode   view.Mode
	Weekdays   []string
	Weeks      [][]cellView
	Upcoming   []eventView
	Dialog     dialogView
}

type cellView struct {
	Blank    bool
	Day      int
	Date     string
	Today    bool
	Selected bool
	Events   []eventView
	More     int
}

type eventView struct {
	ID          string
	Title       string
	Description string
	Date        string
	StartTime   string
	EndTime     string
	TypeLabel   string
	TypeClass   string
}

type dialogView struct {
	Open      bool
	Date      string
	Draft     model.Draft
	CanSubmit bool
	Types     []typeOption
}

type typeOption struct {
	Value    string
	Label    string
	Selected bool
}

func newEventView(ev model.Event) eventView {
	return eventView{
		ID:          ev.ID,
		Title:       ev.Title,
		Description: ev.Description,
		Date:        ev.Date.Time(nil).Format("Jan 02"),
		StartTime:   ev.StartTime,
		EndTime:     ev.EndTime,
		TypeLabel:   ev.Type.Label(),
		TypeClass:   ev.Type.Color(),
	}
}

func (s *Server) buildPage() pageData {
	st := s.ctrl.Snapshot()
	now := s.store.Clock().Now()
	today := model.DateOf(now)

	data := pageData{
		Title:      s.cfg.Title,
		Clock:      now.Format(model.TimeLayout),
		Weather:    s.cfg.Weather,
		MonthLabel: st.CurrentMonth.Label(),
		ViewMode:   st.ViewMode,
		Weekdays:   weekdayHeaders,
	}

	for _, row := range calendar.Weeks(calendar.Grid(st.CurrentMonth)) {
		cells := make([]cellView, 0, len(row))
		for _, c := range row {
			cells = append(cells, s.buildCell(c, today, st.SelectedDate))
		}
		data.Weeks = append(data.Weeks, cells)
	}

	for _, ev := range s.store.Upcoming(s.cfg.UpcomingLimit) {
		data.Upcoming = append(data.Upcoming, newEventView(ev))
	}

	data.Dialog = dialogView{
		Open:      st.DialogOpen,
		Date:      st.Draft.Date.String(),
		Draft:     st.Draft,
		CanSubmit: st.Draft.Complete(),
	}
	if st.SelectedDate != nil {
		data.Dialog.Date = st.SelectedDate.String()
	}
	for _, t := range model.EventTypes {
		data.Dialog.Types = append(data.Dialog.Types, typeOption{
			Value:    string(t),
			Label:    t.Label(),
			Selected: t == st.Draft.Type,
		})
	}
	return data
}

func (s *Server) buildCell(c calendar.Cell, today model.Date, selected *model.Date) cellView {
	if c.Blank {
		return cellView{Blank: true}
	}
	cv := cellView{
		Day:      c.Date.Day,
		Date:     c.Date.String(),
		Today:    c.Date == today,
		Selected: selected != nil && *selected == c.Date,
	}
	events := s.store.EventsOnDate(c.Date)
	limit := s.cfg.CellEventLimit
	for i, ev := range events {
		if i == limit {
			cv.More = len(events) - limit
			break
		}
		cv.Events = append(cv.Events, newEventView(ev))
	}
	return cv
}

func (s *Server) handlePage(w http.ResponseWriter, _ *http.Request) {
	var buf bytes.Buffer
	if err := s.page.Execute(&buf, s.buildPage()); err != nil {
		appLog.Error("render page failed", err)
		http.Error(w, "render failed", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}

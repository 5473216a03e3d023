package web

import (
	"net/http"
	"strconv"
	"time"

	"planner/internal/calendar"
	"planner/internal/ics"
	appLog "planner/internal/log"
	"planner/internal/model"
)

// gridCellDTO is a JSON-friendly grid position with all of its events.
type gridCellDTO struct {
	Blank  bool          `json:"blank"`
	Date   *model.Date   `json:"date,omitempty"`
	Events []model.Event `json:"events,omitempty"`
}

type gridResponse struct {
	Month calendar.Month `json:"month"`
	Label string         `json:"label"`
	Cells []gridCellDTO  `json:"cells"`
}

type eventsResponse struct {
	Events []model.Event `json:"events"`
}

func (s *Server) handleState(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.ctrl.Snapshot())
}

// handleGrid returns one month's grid.
//
// GET /api/grid?year=2025&month=1
//   - year/month default to the month currently displayed on the page.
func (s *Server) handleGrid(w http.ResponseWriter, r *http.Request) {
	m := s.ctrl.Snapshot().CurrentMonth
	q := r.URL.Query()
	if v := q.Get("year"); v != "" {
		y, err := strconv.Atoi(v)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid year")
			return
		}
		m.Year = y
	}
	if v := q.Get("month"); v != "" {
		mon, err := strconv.Atoi(v)
		if err != nil || mon < 1 || mon > 12 {
			writeError(w, http.StatusBadRequest, "month must be 1-12")
			return
		}
		m.Month = time.Month(mon)
	}

	cells := calendar.Grid(m)
	resp := gridResponse{
		Month: m,
		Label: m.Label(),
		Cells: make([]gridCellDTO, 0, len(cells)),
	}
	for _, c := range cells {
		if c.Blank {
			resp.Cells = append(resp.Cells, gridCellDTO{Blank: true})
			continue
		}
		d := c.Date
		resp.Cells = append(resp.Cells, gridCellDTO{Date: &d, Events: s.store.EventsOnDate(d)})
	}
	writeJSON(w, http.StatusOK, resp)
}

// handleEvents lists events on one day, or every event without ?date.
func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	v := r.URL.Query().Get("date")
	if v == "" {
		writeJSON(w, http.StatusOK, eventsResponse{Events: s.store.All()})
		return
	}
	d, err := model.ParseDate(v)
	if err != nil {
		writeError(w, http.StatusBadRequest, "date must be YYYY-MM-DD")
		return
	}
	writeJSON(w, http.StatusOK, eventsResponse{Events: s.store.EventsOnDate(d)})
}

// handleUpcoming returns the sidebar list; ?limit overrides the configured
// size.
func (s *Server) handleUpcoming(w http.ResponseWriter, r *http.Request) {
	limit := parseIntDefault(r.URL.Query().Get("limit"), s.cfg.UpcomingLimit)
	if limit <= 0 {
		writeError(w, http.StatusBadRequest, "limit must be positive")
		return
	}
	writeJSON(w, http.StatusOK, eventsResponse{Events: s.store.Upcoming(limit)})
}

func (s *Server) handleICS(w http.ResponseWriter, _ *http.Request) {
	body, err := ics.Export(s.store.All(), s.loc, s.store.Clock().Now())
	if err != nil {
		appLog.Error("ics export failed", err)
		writeError(w, http.StatusInternalServerError, "failed to export calendar")
		return
	}
	w.Header().Set("Content-Type", "text/calendar; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="planner.ics"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(body))
}

func parseIntDefault(s string, def int) int {
	if s == "" {
		return def
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return n
}

package web

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	appLog "planner/internal/log"
	"planner/internal/model"
	"planner/internal/view"
)

// Every action mutates controller state and redirects back to the page, so
// a reload never replays a form post.
func redirectHome(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (s *Server) handleNavigate(w http.ResponseWriter, r *http.Request) {
	delta := 1
	if mux.Vars(r)["dir"] == "prev" {
		delta = -1
	}
	s.ctrl.Navigate(delta)
	redirectHome(w, r)
}

func (s *Server) handleViewMode(w http.ResponseWriter, r *http.Request) {
	mode := view.Mode(mux.Vars(r)["mode"])
	if err := s.ctrl.SetViewMode(mode); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	redirectHome(w, r)
}

func (s *Server) handleOpenDay(w http.ResponseWriter, r *http.Request) {
	date, err := model.ParseDate(mux.Vars(r)["date"])
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	s.ctrl.OpenForDate(date)
	redirectHome(w, r)
}

func (s *Server) handleDraftUpdate(w http.ResponseWriter, r *http.Request) {
	if err := s.applyDraftForm(r); err != nil && !errors.Is(err, view.ErrDialogClosed) {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	redirectHome(w, r)
}

// handleDraftSubmit stores the form fields into the draft and submits it.
// An incomplete draft is not an error from the user's point of view: the
// submit control is disabled in that state, so the dialog simply stays open.
func (s *Server) handleDraftSubmit(w http.ResponseWriter, r *http.Request) {
	if err := s.applyDraftForm(r); err != nil {
		if errors.Is(err, view.ErrDialogClosed) {
			redirectHome(w, r)
			return
		}
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	_, err := s.ctrl.Submit()
	switch {
	case err == nil, errors.Is(err, view.ErrDraftIncomplete), errors.Is(err, view.ErrDialogClosed):
		if err != nil {
			appLog.Debug("submit ignored", "reason", err.Error())
		}
		redirectHome(w, r)
	default:
		appLog.Error("submit failed", err)
		http.Error(w, "submit failed", http.StatusInternalServerError)
	}
}

func (s *Server) handleDraftCancel(w http.ResponseWriter, r *http.Request) {
	if err := s.ctrl.Cancel(); err != nil {
		appLog.Debug("cancel ignored", "reason", err.Error())
	}
	redirectHome(w, r)
}

// applyDraftForm copies every draft field present in the posted form into
// the controller's draft. Fields absent from the form are left untouched.
func (s *Server) applyDraftForm(r *http.Request) error {
	if err := r.ParseForm(); err != nil {
		return err
	}
	for _, f := range view.DraftFields {
		vals, ok := r.PostForm[string(f)]
		if !ok || len(vals) == 0 {
			continue
		}
		if err := s.ctrl.UpdateDraftField(f, vals[0]); err != nil {
			return err
		}
	}
	return nil
}

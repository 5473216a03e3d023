package web

import (
	"context"
	"crypto/subtle"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"planner/internal/config"
	appLog "planner/internal/log"
	"planner/internal/store"
	"planner/internal/view"
)

//go:embed templates/*.html.tmpl
var templateFS embed.FS

// Server serves the planner page, the form actions that drive the view
// controller, and a small read-only JSON/ICS API.
type Server struct {
	cfg    *config.Config
	store  *store.Store
	ctrl   *view.Controller
	loc    *time.Location
	router *mux.Router
	page   *template.Template
}

// NewServer wires routes for the given store and controller. loc is the
// display location used for ICS export; nil means time.Local.
func NewServer(cfg *config.Config, st *store.Store, ctrl *view.Controller, loc *time.Location) (*Server, error) {
	if loc == nil {
		loc = time.Local
	}
	page, err := template.ParseFS(templateFS, "templates/index.html.tmpl")
	if err != nil {
		return nil, fmt.Errorf("parse page template: %w", err)
	}

	s := &Server{
		cfg:    cfg,
		store:  st,
		ctrl:   ctrl,
		loc:    loc,
		router: mux.NewRouter(),
		page:   page,
	}
	s.registerRoutes()
	return s, nil
}

// Handler returns the root http.Handler, wrapped in Basic Auth when
// configured.
func (s *Server) Handler() http.Handler {
	h := http.Handler(s.router)
	if s.basicAuthEnabled() {
		appLog.Info("HTTP basic auth enabled", "listen", "http://"+s.cfg.Listen)
		return s.basicAuthMiddleware(h)
	}
	return h
}

func (s *Server) registerRoutes() {
	r := s.router
	r.Use(recoverMiddleware, requestLogMiddleware)

	r.HandleFunc("/health", s.handleHealth).Methods(http.MethodGet)

	// Page and form actions.
	r.HandleFunc("/", s.handlePage).Methods(http.MethodGet)
	r.HandleFunc("/month/{dir:prev|next}", s.handleNavigate).Methods(http.MethodPost)
	r.HandleFunc("/view/{mode}", s.handleViewMode).Methods(http.MethodPost)
	r.HandleFunc("/days/{date}", s.handleOpenDay).Methods(http.MethodPost)
	r.HandleFunc("/draft", s.handleDraftUpdate).Methods(http.MethodPost)
	r.HandleFunc("/draft/submit", s.handleDraftSubmit).Methods(http.MethodPost)
	r.HandleFunc("/draft/cancel", s.handleDraftCancel).Methods(http.MethodPost)

	// Read-only API.
	r.HandleFunc("/api/state", s.handleState).Methods(http.MethodGet)
	r.HandleFunc("/api/grid", s.handleGrid).Methods(http.MethodGet)
	r.HandleFunc("/api/events", s.handleEvents).Methods(http.MethodGet)
	r.HandleFunc("/api/upcoming", s.handleUpcoming).Methods(http.MethodGet)
	r.HandleFunc("/calendar.ics", s.handleICS).Methods(http.MethodGet)
}

// basicAuthEnabled reports whether HTTP Basic Auth is configured.
func (s *Server) basicAuthEnabled() bool {
	if s.cfg == nil || s.cfg.BasicAuth == nil {
		return false
	}
	// Empty username or password means disabled.
	return s.cfg.BasicAuth.Username != "" && s.cfg.BasicAuth.Password != ""
}

// basicAuthMiddleware wraps all handlers except /health with HTTP Basic Auth.
func (s *Server) basicAuthMiddleware(next http.Handler) http.Handler {
	username := s.cfg.BasicAuth.Username
	password := s.cfg.BasicAuth.Password

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/health" {
			next.ServeHTTP(w, r)
			return
		}

		u, p, ok := r.BasicAuth()
		if !ok || !secureCompare(u, username) || !secureCompare(p, password) {
			w.Header().Set("WWW-Authenticate", `Basic realm="Planner", charset="UTF-8"`)
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// secureCompare compares two strings in constant time.
func secureCompare(a, b string) bool {
	if len(a) != len(b) {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(a), []byte(b)) == 1
}

func requestLogMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		appLog.Debug("http request", "method", r.Method, "path", r.URL.Path, "took", time.Since(start).String())
	})
}

func recoverMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				appLog.Error("panic in handler", fmt.Errorf("%v", rec), "path", r.URL.Path)
				writeError(w, http.StatusInternalServerError, "internal error")
			}
		}()
		next.ServeHTTP(w, r)
	})
}

// Run serves on cfg.Listen until ctx is canceled, then shuts down
// gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Listen,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		appLog.Info("starting HTTP server", "listen", "http://"+s.cfg.Listen)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("http shutdown: %w", err)
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK"))
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		appLog.Error("failed to write JSON response", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	type errResp struct {
		Error string `json:"error"`
	}
	writeJSON(w, status, errResp{Error: msg})
}

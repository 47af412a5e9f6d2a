// Package server exposes the user CRUD pages and the concurrent fetch
// demonstration route over HTTP.
package server

import (
	"context"
	"embed"
	"encoding/json"
	"errors"
	"html/template"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"zenboard/internal/coordinator"
	"zenboard/internal/user"
)

//go:embed templates/*.html
var templateFS embed.FS

const readyCheckTimeout = 5 * time.Second

// Pinger reports backend connectivity, used by the readiness probe.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Server holds the dependencies of the HTTP handlers.
type Server struct {
	store     user.Store
	coord     *coordinator.Coordinator
	pinger    Pinger
	logger    *slog.Logger
	templates *template.Template
}

// New creates a Server. pinger may be nil, in which case the readiness
// probe only reports process liveness.
func New(store user.Store, coord *coordinator.Coordinator, pinger Pinger, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{
		store:     store,
		coord:     coord,
		pinger:    pinger,
		logger:    logger,
		templates: template.Must(template.ParseFS(templateFS, "templates/*.html")),
	}
}

// Handler builds the route table with the logging and metrics middleware
// applied.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /{$}", s.handleIndex)
	mux.HandleFunc("/welcome", s.handleWelcome)
	mux.HandleFunc("GET /users", s.handleUsers)
	mux.HandleFunc("GET /edit/{id}", s.handleEditForm)
	mux.HandleFunc("POST /edit/{id}", s.handleEdit)
	mux.HandleFunc("POST /delete/{id}", s.handleDelete)
	mux.HandleFunc("GET /async-example", s.handleAsyncExample)
	mux.HandleFunc("GET /async-test", s.handleAsyncTest)
	mux.HandleFunc("GET /favicon.ico", s.handleFavicon)
	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET /readyz", s.handleReady)
	mux.Handle("GET /metrics", promhttp.Handler())

	return s.withObservability(mux)
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	s.logger.InfoContext(r.Context(), "accessed homepage")
	s.render(w, "index.html", nil)
}

func (s *Server) handleWelcome(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Redirect(w, r, "/", http.StatusFound)
		return
	}

	name := r.PostFormValue("name")
	if name == "" {
		s.logger.WarnContext(r.Context(), "create user requested without a name")
		http.Redirect(w, r, "/", http.StatusFound)
		return
	}

	u, err := s.store.Create(r.Context(), name)
	if err != nil {
		s.logger.ErrorContext(r.Context(), "failed to create user", "error", err)
		http.Error(w, "failed to create user", http.StatusInternalServerError)
		return
	}

	s.logger.InfoContext(r.Context(), "new user added", "id", u.ID, "name", u.Name)
	s.render(w, "welcome.html", u)
}

func (s *Server) handleUsers(w http.ResponseWriter, r *http.Request) {
	users, err := s.store.List(r.Context())
	if err != nil {
		s.logger.ErrorContext(r.Context(), "failed to list users", "error", err)
		http.Error(w, "failed to list users", http.StatusInternalServerError)
		return
	}

	s.logger.InfoContext(r.Context(), "fetched users", "count", len(users))
	s.render(w, "users.html", users)
}

func (s *Server) handleEditForm(w http.ResponseWriter, r *http.Request) {
	id, ok := s.pathID(w, r)
	if !ok {
		return
	}

	u, err := s.store.Get(r.Context(), id)
	if errors.Is(err, user.ErrNotFound) {
		http.NotFound(w, r)
		return
	}
	if err != nil {
		s.logger.ErrorContext(r.Context(), "failed to load user", "id", id, "error", err)
		http.Error(w, "failed to load user", http.StatusInternalServerError)
		return
	}

	s.render(w, "edit.html", u)
}

func (s *Server) handleEdit(w http.ResponseWriter, r *http.Request) {
	id, ok := s.pathID(w, r)
	if !ok {
		return
	}

	u, err := s.store.Get(r.Context(), id)
	if errors.Is(err, user.ErrNotFound) {
		http.NotFound(w, r)
		return
	}
	if err != nil {
		s.logger.ErrorContext(r.Context(), "failed to load user", "id", id, "error", err)
		http.Error(w, "failed to load user", http.StatusInternalServerError)
		return
	}

	newName := r.PostFormValue("name")
	if err := s.store.Update(r.Context(), id, newName); err != nil {
		s.logger.ErrorContext(r.Context(), "failed to update user", "id", id, "error", err)
		http.Error(w, "failed to update user", http.StatusInternalServerError)
		return
	}

	s.logger.InfoContext(r.Context(), "edited user",
		"id", id, "old_name", u.Name, "new_name", newName)
	http.Redirect(w, r, "/users", http.StatusFound)
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := s.pathID(w, r)
	if !ok {
		return
	}

	err := s.store.Delete(r.Context(), id)
	if errors.Is(err, user.ErrNotFound) {
		http.NotFound(w, r)
		return
	}
	if err != nil {
		s.logger.ErrorContext(r.Context(), "failed to delete user", "id", id, "error", err)
		http.Error(w, "failed to delete user", http.StatusInternalServerError)
		return
	}

	s.logger.InfoContext(r.Context(), "deleted user", "id", id)
	http.Redirect(w, r, "/users", http.StatusFound)
}

// handleAsyncExample runs the two-task fan-out and returns the report as
// JSON. The response is always 200: outbound failures are absorbed into the
// github_message field so the demonstration never fails.
func (s *Server) handleAsyncExample(w http.ResponseWriter, r *http.Request) {
	report, err := s.coord.Run(r.Context())
	if err != nil {
		s.logger.ErrorContext(r.Context(), "fan-out failed", "error", err)
		http.Error(w, "fan-out failed", http.StatusInternalServerError)
		return
	}

	s.writeJSON(w, report)
}

func (s *Server) handleAsyncTest(w http.ResponseWriter, r *http.Request) {
	s.logger.InfoContext(r.Context(), "accessed async test dashboard")
	s.render(w, "async_test.html", nil)
}

func (s *Server) handleFavicon(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	if s.pinger == nil {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), readyCheckTimeout)
	defer cancel()

	if err := s.pinger.Ping(ctx); err != nil {
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte("record store unhealthy: " + err.Error()))
		return
	}

	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

// pathID parses the {id} path segment, replying 404 on garbage ids the same
// way a missing record would.
func (s *Server) pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		http.NotFound(w, r)
		return 0, false
	}
	return id, true
}

func (s *Server) render(w http.ResponseWriter, name string, data any) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := s.templates.ExecuteTemplate(w, name, data); err != nil {
		s.logger.Error("failed to render template", "template", name, "error", err)
	}
}

func (s *Server) writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("failed to write json response", "error", err)
	}
}

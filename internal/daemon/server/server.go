// Package server provides the HTTP API of the watchers daemon over a unix
// socket.
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/grovetools/watchers/errors"
	"github.com/grovetools/watchers/internal/daemon/engine"
	"github.com/grovetools/watchers/pkg/models"
	"github.com/grovetools/watchers/version"
	"github.com/sirupsen/logrus"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"
)

// Server manages the daemon's HTTP server over a Unix socket.
type Server struct {
	logger    *logrus.Entry
	server    *http.Server
	engine    *engine.Engine
	startedAt time.Time
	now       func() time.Time
}

// New creates a new Server instance.
func New(logger *logrus.Entry, eng *engine.Engine) *Server {
	return &Server{
		logger:    logger,
		engine:    eng,
		startedAt: time.Now(),
		now:       time.Now,
	}
}

// Handler returns the API routes. It is exported so tests can mount it on
// httptest servers.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	mux.HandleFunc("GET /api/version", s.handleVersion)
	mux.HandleFunc("GET /api/time", s.handleTime)

	mux.HandleFunc("GET /api/watchers", s.handleListWatchers)
	mux.HandleFunc("POST /api/watchers", s.handleSaveWatcher)
	mux.HandleFunc("GET /api/watchers/new", s.handleNewWatcher)
	mux.HandleFunc("GET /api/watchers/{id}", s.handleGetWatcher)
	mux.HandleFunc("PUT /api/watchers/{id}", s.handleSaveWatcher)
	mux.HandleFunc("DELETE /api/watchers/{id}", s.handleDeleteWatcher)
	mux.HandleFunc("POST /api/watchers/{id}/play", s.handlePlayWatcher)

	mux.HandleFunc("GET /api/templates/{category}", s.handleListTemplates)
	mux.HandleFunc("POST /api/templates/{category}", s.handleSaveTemplate)

	mux.HandleFunc("GET /api/stream", s.handleStream)

	return mux
}

// ListenAndServe starts the daemon on the given unix socket path.
// It blocks until the server stops or fails.
func (s *Server) ListenAndServe(socketPath string) error {
	if _, err := os.Stat(socketPath); err == nil {
		if err := os.Remove(socketPath); err != nil {
			return fmt.Errorf("failed to remove stale socket: %w", err)
		}
	}

	if err := os.MkdirAll(filepath.Dir(socketPath), 0755); err != nil {
		return fmt.Errorf("failed to create socket directory: %w", err)
	}

	listener, err := net.Listen("unix", socketPath)
	if err != nil {
		return fmt.Errorf("failed to listen on socket: %w", err)
	}

	if err := os.Chmod(socketPath, 0600); err != nil {
		_ = listener.Close()
		return fmt.Errorf("failed to set socket permissions: %w", err)
	}

	s.server = &http.Server{
		Handler: h2c.NewHandler(s.Handler(), &http2.Server{}),
	}

	s.logger.WithField("socket", socketPath).Info("Daemon listening")
	return s.server.Serve(listener)
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("Shutting down server...")
	if s.server != nil {
		return s.server.Shutdown(ctx)
	}
	return nil
}

// TimeResponse is the body of GET /api/time.
type TimeResponse struct {
	Now       time.Time `json:"now"`
	StartedAt time.Time `json:"started_at"`
}

// IDResponse is the body returned by save and delete.
type IDResponse struct {
	ID string `json:"id"`
}

func (s *Server) handleVersion(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, version.GetInfo())
}

func (s *Server) handleTime(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, TimeResponse{Now: s.now(), StartedAt: s.startedAt})
}

func (s *Server) handleListWatchers(w http.ResponseWriter, r *http.Request) {
	watchers, err := s.engine.Store().List(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, watchers)
}

func (s *Server) handleGetWatcher(w http.ResponseWriter, r *http.Request) {
	watcher, err := s.engine.Store().Get(r.Context(), r.PathValue("id"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, watcher)
}

func (s *Server) handleNewWatcher(w http.ResponseWriter, r *http.Request) {
	t, err := models.ParseWatcherType(r.URL.Query().Get("type"))
	if err != nil {
		s.writeError(w, errors.InvalidInput("type", err.Error()))
		return
	}
	writeJSON(w, http.StatusOK, s.engine.Store().Scaffold(t))
}

func (s *Server) handleSaveWatcher(w http.ResponseWriter, r *http.Request) {
	var watcher models.Watcher
	if err := json.NewDecoder(r.Body).Decode(&watcher); err != nil {
		s.writeError(w, errors.InvalidInput("body", err.Error()))
		return
	}
	if id := r.PathValue("id"); id != "" {
		if watcher.ID != "" && watcher.ID != id {
			s.writeError(w, errors.InvalidInput("id", fmt.Sprintf("body id %q does not match path id %q", watcher.ID, id)))
			return
		}
		watcher.ID = id
	}

	id, err := s.engine.Store().Save(r.Context(), watcher)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.logger.WithField("watcher", id).Debug("Watcher saved")
	writeJSON(w, http.StatusOK, IDResponse{ID: id})
}

func (s *Server) handleDeleteWatcher(w http.ResponseWriter, r *http.Request) {
	id, err := s.engine.Store().Delete(r.Context(), r.PathValue("id"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.logger.WithField("watcher", id).Debug("Watcher deleted")
	writeJSON(w, http.StatusOK, IDResponse{ID: id})
}

func (s *Server) handlePlayWatcher(w http.ResponseWriter, r *http.Request) {
	res, err := s.engine.Play(r.Context(), r.PathValue("id"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) handleListTemplates(w http.ResponseWriter, r *http.Request) {
	category, err := models.ParseTemplateCategory(r.PathValue("category"))
	if err != nil {
		s.writeError(w, errors.InvalidInput("category", err.Error()))
		return
	}
	templates, err := s.engine.Store().ListTemplates(r.Context(), category)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, templates)
}

func (s *Server) handleSaveTemplate(w http.ResponseWriter, r *http.Request) {
	var t models.Template
	if err := json.NewDecoder(r.Body).Decode(&t); err != nil {
		s.writeError(w, errors.InvalidInput("body", err.Error()))
		return
	}
	t.Category = models.TemplateCategory(r.PathValue("category"))

	if err := s.engine.Store().SaveTemplate(r.Context(), t); err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, IDResponse{ID: t.ID})
}

// handleStream provides Server-Sent Events (SSE) for store changes.
func (s *Server) handleStream(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming not supported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	ch := s.engine.Store().Subscribe()
	defer s.engine.Store().Unsubscribe(ch)

	// Initial comment confirms the subscription is live.
	fmt.Fprintf(w, ": connected\n\n")
	flusher.Flush()

	s.logger.Debug("SSE client connected")

	for {
		select {
		case <-r.Context().Done():
			s.logger.Debug("SSE client disconnected")
			return
		case event, ok := <-ch:
			if !ok {
				return
			}
			data, err := json.Marshal(event)
			if err != nil {
				s.logger.WithError(err).Error("Failed to marshal event")
				continue
			}
			fmt.Fprintf(w, "data: %s\n\n", data)
			flusher.Flush()
		}
	}
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeError renders err as a WatcherError body with a matching status.
func (s *Server) writeError(w http.ResponseWriter, err error) {
	var status int
	switch errors.GetCode(err) {
	case errors.ErrCodeWatcherNotFound:
		status = http.StatusNotFound
	case errors.ErrCodeInvalidInput:
		status = http.StatusBadRequest
	case errors.ErrCodeStoreUnavailable:
		status = http.StatusServiceUnavailable
	default:
		status = http.StatusInternalServerError
		s.logger.WithError(err).Error("Request failed")
	}

	body, ok := err.(*errors.WatcherError)
	if !ok {
		body = errors.Wrap(err, errors.ErrCodeInternal, err.Error())
	}
	writeJSON(w, status, body)
}

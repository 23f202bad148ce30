// Package web serves 2048 over HTTP: a REST API, a websocket feed of state
// changes, an MCP tool endpoint and a small embedded page.
package web

import (
	"embed"
	"encoding/json"
	"errors"
	"io"
	"io/fs"
	"net/http"
	"strconv"

	"github.com/charmbracelet/log"
	"github.com/gorilla/mux"
	"github.com/mark3labs/mcp-go/server"

	"github.com/vovakirdan/tui-2048/internal/engine"
	"github.com/vovakirdan/tui-2048/internal/registry"
	"github.com/vovakirdan/tui-2048/internal/storage"
)

//go:embed static
var staticFiles embed.FS

// Event names pushed over the websocket.
const (
	EventState   = "state_update"
	EventOver    = "game_over"
	EventDeleted = "session_deleted"
)

// Server is the HTTP handler for the web surface.
type Server struct {
	sessions *Manager
	hub      *Hub
	store    *storage.Store
	mcp      *server.MCPServer
	router   *mux.Router
	logger   *log.Logger
}

// NewServer wires the routes. hub and store may be nil.
func NewServer(sessions *Manager, hub *Hub, store *storage.Store, logger *log.Logger) *Server {
	s := &Server{
		sessions: sessions,
		hub:      hub,
		store:    store,
		router:   mux.NewRouter(),
		logger:   logger,
	}
	s.mcp = NewMCPServer(sessions, s.publish)
	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	api := s.router.PathPrefix("/api").Subrouter()

	api.HandleFunc("/sessions", s.handleCreateSession).Methods(http.MethodPost)
	api.HandleFunc("/sessions", s.handleListSessions).Methods(http.MethodGet)
	api.HandleFunc("/sessions/{id}", s.handleGetSession).Methods(http.MethodGet)
	api.HandleFunc("/sessions/{id}", s.handleDeleteSession).Methods(http.MethodDelete)
	api.HandleFunc("/sessions/{id}/move", s.handleMove).Methods(http.MethodPost)
	api.HandleFunc("/sessions/{id}/reset", s.handleReset).Methods(http.MethodPost)
	api.HandleFunc("/sessions/{id}/hint", s.handleHint).Methods(http.MethodGet)
	api.HandleFunc("/scores", s.handleScores).Methods(http.MethodGet)

	s.router.HandleFunc("/ws", s.handleWebSocket)
	s.router.HandleFunc("/mcp", s.handleMCP).Methods(http.MethodPost)

	static, err := fs.Sub(staticFiles, "static")
	if err != nil {
		panic(err) // embedded at build time
	}
	s.router.PathPrefix("/").Handler(http.FileServer(http.FS(static)))

	s.router.Use(s.logRequests)
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.logger.Debug("request", "method", r.Method, "path", r.URL.Path)
		next.ServeHTTP(w, r)
	})
}

func (s *Server) publish(id, event string, data any) {
	if s.hub != nil {
		s.hub.Publish(id, event, data)
	}
}

func respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data) //nolint:errcheck
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}

// statusFor maps domain errors to HTTP statuses.
func statusFor(err error) int {
	switch {
	case errors.Is(err, ErrSessionNotFound):
		return http.StatusNotFound
	case errors.Is(err, engine.ErrInvalidDirection):
		return http.StatusBadRequest
	case errors.Is(err, engine.ErrGameOver):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	st := s.sessions.Create()
	respondJSON(w, http.StatusCreated, st)
}

func (s *Server) handleListSessions(w http.ResponseWriter, r *http.Request) {
	all := s.sessions.List()
	respondJSON(w, http.StatusOK, map[string]any{
		"count":    len(all),
		"sessions": all,
	})
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	st, err := s.sessions.State(mux.Vars(r)["id"])
	if err != nil {
		respondError(w, statusFor(err), err.Error())
		return
	}
	respondJSON(w, http.StatusOK, st)
}

func (s *Server) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	if err := s.sessions.Delete(id); err != nil {
		respondError(w, statusFor(err), err.Error())
		return
	}
	s.publish(id, EventDeleted, nil)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleMove(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	var req struct {
		Direction string `json:"direction"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	dir, err := engine.ParseDirection(req.Direction)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	res, err := s.sessions.Move(id, dir)
	if err != nil {
		respondError(w, statusFor(err), err.Error())
		return
	}

	s.publish(id, EventState, res.SessionState)
	if res.Over {
		s.publish(id, EventOver, res.SessionState)
	}
	s.logger.Debug("move", "session", id, "dir", dir, "changed", res.Changed, "score", res.Score)
	respondJSON(w, http.StatusOK, res)
}

func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	st, err := s.sessions.Reset(id)
	if err != nil {
		respondError(w, statusFor(err), err.Error())
		return
	}
	s.publish(id, EventState, st)
	respondJSON(w, http.StatusOK, st)
}

func (s *Server) handleHint(w http.ResponseWriter, r *http.Request) {
	dir, ok, err := s.sessions.Hint(mux.Vars(r)["id"])
	if err != nil {
		respondError(w, statusFor(err), err.Error())
		return
	}
	if !ok {
		respondError(w, http.StatusConflict, engine.ErrGameOver.Error())
		return
	}
	respondJSON(w, http.StatusOK, map[string]engine.Direction{"direction": dir})
}

func (s *Server) handleScores(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		respondError(w, http.StatusServiceUnavailable, "scores are disabled")
		return
	}

	q := r.URL.Query()
	mode := q.Get("mode")
	if mode == "" {
		mode = ScoreGameID
	}
	if !registry.Exists(mode) {
		respondError(w, http.StatusBadRequest, "unknown mode "+strconv.Quote(mode))
		return
	}
	limit := 10
	if v := q.Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			respondError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = n
	}

	scores, err := s.store.TopScores(mode, limit)
	if err != nil {
		s.logger.Error("cannot load scores", "mode", mode, "err", err)
		respondError(w, http.StatusInternalServerError, "cannot load scores")
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"mode":   mode,
		"scores": scores,
	})
}

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	if s.hub == nil {
		respondError(w, http.StatusServiceUnavailable, "websocket is disabled")
		return
	}
	id := r.URL.Query().Get("session")
	if id == "" {
		respondError(w, http.StatusBadRequest, "session parameter required")
		return
	}
	if _, err := s.sessions.State(id); err != nil {
		respondError(w, statusFor(err), err.Error())
		return
	}
	s.hub.ServeWS(w, r, id)
}

func (s *Server) handleMCP(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		respondError(w, http.StatusBadRequest, "cannot read request")
		return
	}
	resp := s.mcp.HandleMessage(r.Context(), body)
	if resp == nil {
		// Notifications get no reply.
		w.WriteHeader(http.StatusAccepted)
		return
	}
	respondJSON(w, http.StatusOK, resp)
}

package server

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
	"github.com/kilupskalvis/gitsim/internal/models"
	"github.com/kilupskalvis/gitsim/internal/render"
	"github.com/kilupskalvis/gitsim/internal/shell"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// ServerConfig holds configurable limits for the server.
type ServerConfig struct {
	MaxRequestBody    int64 // bytes, for JSON endpoints
	RequestsPerMinute int   // per-client rate limit on /api
}

// DefaultServerConfig returns reasonable defaults.
func DefaultServerConfig() *ServerConfig {
	return &ServerConfig{
		MaxRequestBody:    64 * 1024,
		RequestsPerMinute: 300,
	}
}

// commandRequest is the body of POST /api/session/{id}/command.
type commandRequest struct {
	Command string `json:"command"`
}

// commandResponse is returned for every executed line, over REST and WebSocket.
type commandResponse struct {
	Output    string                 `json:"output"`
	Error     string                 `json:"error"`
	Events    []models.EventEnvelope `json:"events"`
	Selection *models.Selection      `json:"selection"`
	Clear     bool                   `json:"clear"`
}

func newCommandResponse(res shell.Result) commandResponse {
	resp := commandResponse{
		Events:    models.Envelope(res.Events),
		Selection: res.Selection,
		Clear:     res.ClearLog,
	}
	if res.Err != nil {
		resp.Error = res.Err.Error()
	} else {
		resp.Output = res.Output
	}
	return resp
}

type api struct {
	sm       *SessionManager
	cfg      *ServerConfig
	metrics  *Metrics
	limiter  *rateLimiter
	logger   *slog.Logger
	upgrader websocket.Upgrader
}

// Handler creates the HTTP handler with all routes and middleware. Metrics
// are registered on reg and served from it.
// The returned cleanup function stops background goroutines and should be
// called on server shutdown.
func Handler(sm *SessionManager, cfg *ServerConfig, reg *prometheus.Registry, logger *slog.Logger) (http.Handler, func()) {
	if cfg == nil {
		cfg = DefaultServerConfig()
	}
	if logger == nil {
		logger = slog.Default()
	}

	a := &api{
		sm:      sm,
		cfg:     cfg,
		metrics: NewMetrics(reg, sm.Len),
		logger:  logger,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true // Allow all origins
			},
		},
	}
	rl := newRateLimiter(cfg.RequestsPerMinute)
	a.limiter = rl

	r := chi.NewRouter()
	r.Use(requestIDMiddleware, loggingMiddleware(logger), recoveryMiddleware(logger), a.metrics.middleware)

	r.Get("/healthz", handleHealthz)
	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))

	r.Route("/api/session", func(r chi.Router) {
		r.Use(rl.middleware)
		r.Post("/", a.handleCreateSession)
		r.Route("/{id}", func(r chi.Router) {
			r.Delete("/", a.handleDeleteSession)
			r.Post("/command", a.handleCommand)
			r.Get("/graph", a.handleGraph)
			r.Get("/svg", a.handleSVG)
			r.Get("/terminal", a.handleTerminal)
		})
	})

	cleanup := func() {
		rl.Stop()
	}
	return r, cleanup
}

func handleHealthz(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ok"))
}

// session resolves {id} or writes a 404.
func (a *api) session(w http.ResponseWriter, r *http.Request) *Session {
	session := a.sm.GetSession(chi.URLParam(r, "id"))
	if session == nil {
		writeJSON(w, http.StatusNotFound, errorBody("not_found", "session not found"))
	}
	return session
}

func (a *api) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	session, err := a.sm.CreateSession()
	if errors.Is(err, ErrTooManySessions) {
		writeJSON(w, http.StatusServiceUnavailable, errorBody("too_many_sessions", err.Error()))
		return
	}
	if err != nil {
		a.logger.Error("create session failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, errorBody("internal_error", "internal server error"))
		return
	}

	writeJSON(w, http.StatusCreated, map[string]string{"sessionId": session.ID})
}

func (a *api) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	if !a.sm.DeleteSession(chi.URLParam(r, "id")) {
		writeJSON(w, http.StatusNotFound, errorBody("not_found", "session not found"))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (a *api) handleCommand(w http.ResponseWriter, r *http.Request) {
	session := a.session(w, r)
	if session == nil {
		return
	}

	var req commandRequest
	if err := json.NewDecoder(io.LimitReader(r.Body, a.cfg.MaxRequestBody)).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("bad_request", "invalid JSON body"))
		return
	}

	res, err := a.sm.Execute(session, req.Command)
	if err != nil {
		writeJSON(w, http.StatusNotFound, errorBody("not_found", "session not found"))
		return
	}
	a.metrics.ObserveCommand(res)
	writeJSON(w, http.StatusOK, newCommandResponse(res))
}

func (a *api) handleGraph(w http.ResponseWriter, r *http.Request) {
	session := a.session(w, r)
	if session == nil {
		return
	}
	writeJSON(w, http.StatusOK, a.sm.Snapshot(session))
}

func (a *api) handleSVG(w http.ResponseWriter, r *http.Request) {
	session := a.session(w, r)
	if session == nil {
		return
	}

	doc, err := render.SVG(a.sm.Snapshot(session), a.sm.Params())
	if err != nil {
		a.logger.Error("render svg failed", "error", err, "session", session.ID)
		writeJSON(w, http.StatusInternalServerError, errorBody("internal_error", "internal server error"))
		return
	}
	w.Header().Set("Content-Type", "image/svg+xml")
	w.WriteHeader(http.StatusOK)
	w.Write(doc)
}

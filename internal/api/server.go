// internal/api/server.go
package api

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/techdisc-bridge/internal/coordinator"
	"github.com/techdisc-bridge/internal/readings"
	"github.com/techdisc-bridge/internal/techdisc"
)

// Source is the read surface the API serves from. The coordinator satisfies
// it; every accessor returns a consistent view without coordination.
type Source interface {
	Snapshot() *techdisc.Throw
	State() coordinator.State
	Cursor() (int64, bool)
	LastError() error
}

// Server exposes the HTTP transport for the bridge.
type Server struct {
	router chi.Router
}

// NewServer constructs a chi based HTTP server over the coordinator's read
// surface. hub may be nil to disable the event stream.
func NewServer(src Source, hub *Hub) *Server {
	router := chi.NewRouter()
	h := &handler{src: src, hub: hub}

	router.Get("/healthz", h.handleHealthz)
	router.Get("/status", h.handleStatus)
	router.Get("/readings", h.handleReadings)
	router.Get("/readings/{name}", h.handleReading)
	router.Get("/throws/latest", h.handleLatestThrow)
	router.Method(http.MethodGet, "/metrics", promhttp.Handler())
	if hub != nil {
		router.Get("/events", h.handleEvents)
	}

	return &Server{router: router}
}

// Router returns the configured chi router for reuse in tests or external
// HTTP servers.
func (s *Server) Router() http.Handler {
	return s.router
}

// ServeHTTP allows Server to satisfy the http.Handler interface directly.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

type handler struct {
	src Source
	hub *Hub
}

type statusResponse struct {
	State     string `json:"state"`
	Cursor    *int64 `json:"cursor,omitempty"`
	HasThrow  bool   `json:"has_throw"`
	LastError string `json:"last_error,omitempty"`
}

type errorResponse struct {
	Error string `json:"error"`
	Code  int    `json:"code"`
}

func (h *handler) handleHealthz(w http.ResponseWriter, r *http.Request) {
	// The one case that blocks availability: no success yet and the most
	// recent cycle failed, so there is nothing meaningful to serve.
	if h.src.Snapshot() == nil && h.src.LastError() != nil {
		h.writeError(w, http.StatusServiceUnavailable, "no throw data available")
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *handler) handleStatus(w http.ResponseWriter, r *http.Request) {
	resp := statusResponse{
		State:    h.src.State().String(),
		HasThrow: h.src.Snapshot() != nil,
	}
	if cur, ok := h.src.Cursor(); ok {
		resp.Cursor = &cur
	}
	if err := h.src.LastError(); err != nil {
		resp.LastError = err.Error()
	}
	h.writeJSON(w, http.StatusOK, resp)
}

func (h *handler) handleReadings(w http.ResponseWriter, r *http.Request) {
	t := h.src.Snapshot()
	if t == nil {
		h.writeError(w, http.StatusNotFound, "no throw observed yet")
		return
	}
	h.writeJSON(w, http.StatusOK, readings.All(t))
}

func (h *handler) handleReading(w http.ResponseWriter, r *http.Request) {
	t := h.src.Snapshot()
	if t == nil {
		h.writeError(w, http.StatusNotFound, "no throw observed yet")
		return
	}
	v, ok := readings.Lookup(chi.URLParam(r, "name"), t)
	if !ok {
		h.writeError(w, http.StatusNotFound, "unknown reading")
		return
	}
	h.writeJSON(w, http.StatusOK, v)
}

func (h *handler) handleLatestThrow(w http.ResponseWriter, r *http.Request) {
	t := h.src.Snapshot()
	if t == nil {
		h.writeError(w, http.StatusNotFound, "no throw observed yet")
		return
	}
	h.writeJSON(w, http.StatusOK, t)
}

func (h *handler) writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func (h *handler) writeError(w http.ResponseWriter, status int, msg string) {
	h.writeJSON(w, status, errorResponse{Error: msg, Code: status})
}

// Package httpapi exposes the tool dispatcher over HTTP. One POST per tool
// invocation; the engine's response shape is returned verbatim so callers
// see the same {sql, result} contract everywhere.
package httpapi

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"sales-engine/internal/engine"
)

type toolRequest struct {
	Operation string         `json:"operation"`
	Args      map[string]any `json:"args"`
}

type Handler struct {
	eng *engine.Engine
	log *zap.Logger
}

func NewHandler(eng *engine.Engine, log *zap.Logger) *Handler {
	return &Handler{eng: eng, log: log}
}

func SetupRouter(h *Handler) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", h.Health)
	r.Get("/tools", h.ListTools)
	r.Post("/tools/{tool}", h.CallTool)
	r.Get("/pending-syncs", h.PendingSyncs)

	return r
}

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) ListTools(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, engine.Tools())
}

// PendingSyncs exposes the propagation backlog for operators reconciling
// the stores by hand.
func (h *Handler) PendingSyncs(w http.ResponseWriter, r *http.Request) {
	rows, err := h.eng.PendingSyncs(r.Context())
	if err != nil {
		h.log.Error("listing pending syncs", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "could not list pending syncs"})
		return
	}
	writeJSON(w, http.StatusOK, rows)
}

func (h *Handler) CallTool(w http.ResponseWriter, r *http.Request) {
	tool := chi.URLParam(r, "tool")

	var req toolRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "malformed request body"})
		return
	}
	if req.Operation == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "operation is required"})
		return
	}

	// engine failures come back as failure-shaped results, not HTTP errors
	resp := h.eng.Call(r.Context(), tool, req.Operation, req.Args)
	writeJSON(w, http.StatusOK, resp)
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

// Package api provides the HTTP API handlers for session data.
package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/ayusman/rehand/internal/store"
)

// SessionsHandler handles HTTP requests for session resources. Sessions are
// created by the capture pipeline, never over HTTP; the API reads and prunes.
type SessionsHandler struct {
	store *store.Store
}

// NewSessionsHandler creates a SessionsHandler with the given store.
func NewSessionsHandler(s *store.Store) *SessionsHandler {
	return &SessionsHandler{store: s}
}

// ServeHTTP routes requests. Expected paths: /api/sessions or
// /api/sessions/{id}.
func (h *SessionsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, "/api/sessions")
	path = strings.TrimPrefix(path, "/")

	if path == "" {
		switch r.Method {
		case http.MethodGet:
			h.list(w, r)
		default:
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		}
		return
	}

	id := path
	switch r.Method {
	case http.MethodGet:
		h.get(w, r, id)
	case http.MethodDelete:
		h.delete(w, r, id)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

type sessionResponse struct {
	ID              string          `json:"id"`
	Game            string          `json:"game"`
	Score           int             `json:"score"`
	StartedAt       string          `json:"started_at"`
	DurationSeconds float64         `json:"duration_seconds"`
	Metrics         json.RawMessage `json:"metrics,omitempty"`
}

type listSessionsResponse struct {
	Sessions []sessionResponse `json:"sessions"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// toResponse converts a store.SessionRecord. The metrics document is only
// included when full is set; lists stay light.
func toResponse(rec *store.SessionRecord, full bool) sessionResponse {
	resp := sessionResponse{
		ID:              rec.ID,
		Game:            rec.Game,
		Score:           rec.Score,
		StartedAt:       rec.StartedAt.Format("2006-01-02T15:04:05Z07:00"),
		DurationSeconds: rec.DurationSeconds,
	}
	if full {
		resp.Metrics = rec.Metrics
	}
	return resp
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		json.NewEncoder(w).Encode(data)
	}
}

// list handles GET /api/sessions. Supports ?game= and ?limit= filters.
func (h *SessionsHandler) list(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid limit"})
			return
		}
		limit = n
	}

	var records []*store.SessionRecord
	var err error
	if game := r.URL.Query().Get("game"); game != "" {
		records, err = h.store.Sessions().ListByGame(game, limit)
	} else {
		records, err = h.store.Sessions().List(limit)
	}
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "failed to list sessions"})
		return
	}

	resp := listSessionsResponse{Sessions: make([]sessionResponse, 0, len(records))}
	for _, rec := range records {
		resp.Sessions = append(resp.Sessions, toResponse(rec, false))
	}

	writeJSON(w, http.StatusOK, resp)
}

// get handles GET /api/sessions/{id}, returning the full metrics document.
func (h *SessionsHandler) get(w http.ResponseWriter, r *http.Request, id string) {
	rec, err := h.store.Sessions().GetByID(id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeJSON(w, http.StatusNotFound, errorResponse{Error: "session not found"})
			return
		}
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "failed to get session"})
		return
	}

	writeJSON(w, http.StatusOK, toResponse(rec, true))
}

// delete handles DELETE /api/sessions/{id}.
func (h *SessionsHandler) delete(w http.ResponseWriter, r *http.Request, id string) {
	err := h.store.Sessions().Delete(id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeJSON(w, http.StatusNotFound, errorResponse{Error: "session not found"})
			return
		}
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "failed to delete session"})
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

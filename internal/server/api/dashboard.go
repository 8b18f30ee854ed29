package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/ayusman/rehand/internal/dashboard"
	"github.com/ayusman/rehand/internal/store"
)

// DashboardHandler serves the aggregated progress report.
type DashboardHandler struct {
	store *store.Store
}

// NewDashboardHandler creates a DashboardHandler with the given store.
func NewDashboardHandler(s *store.Store) *DashboardHandler {
	return &DashboardHandler{store: s}
}

// ServeHTTP handles GET /api/dashboard. ?days=N limits the window, default
// 30 days.
func (h *DashboardHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	days := 30
	if raw := r.URL.Query().Get("days"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid days"})
			return
		}
		days = n
	}

	since := time.Now().AddDate(0, 0, -days)
	records, err := h.store.Sessions().ListSince(since)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "failed to load sessions"})
		return
	}

	writeJSON(w, http.StatusOK, dashboard.Build(records))
}

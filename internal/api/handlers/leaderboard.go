package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/dpark/spacehub/internal/service"
	"go.uber.org/zap"
)

type LeaderboardHandler struct {
	leaderboardService *service.LeaderboardService
	logger             *zap.Logger
}

func NewLeaderboardHandler(leaderboardService *service.LeaderboardService, logger *zap.Logger) *LeaderboardHandler {
	return &LeaderboardHandler{leaderboardService: leaderboardService, logger: logger}
}

// Get computes the weekly ranking for the week containing the optional
// ?date= reference (RFC 3339 or YYYY-MM-DD), defaulting to now.
func (h *LeaderboardHandler) Get(w http.ResponseWriter, r *http.Request) {
	ref := time.Now()
	if raw := r.URL.Query().Get("date"); raw != "" {
		parsed, err := parseDateParam(raw)
		if err != nil {
			http.Error(w, "date must be RFC 3339 or YYYY-MM-DD", http.StatusBadRequest)
			return
		}
		ref = parsed
	}

	board, err := h.leaderboardService.ComputeWeekly(r.Context(), ref)
	if err != nil {
		h.logger.Error("leaderboard computation failed", zap.Error(err))
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(board)
}

func parseDateParam(raw string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t, nil
	}
	return time.ParseInLocation("2006-01-02", raw, time.Local)
}

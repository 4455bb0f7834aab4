package handlers

import (
	"net/http"
	"time"

	"helmetmonitor/internal/logger"
	"helmetmonitor/internal/services/snapshot"
)

// DashboardHandler returns aggregated statistics for the dashboard page.
func DashboardHandler(service *snapshot.Service, log *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			writeError(w, http.StatusMethodNotAllowed, "method not allowed")
			return
		}

		stats, err := service.DashboardStats(time.Now().UTC())
		if err != nil {
			log.Error("Failed to compute dashboard stats: %v", err)
			writeError(w, http.StatusInternalServerError, "internal server error")
			return
		}

		writeJSON(w, http.StatusOK, stats)
	}
}

package handlers

import (
	"encoding/json"
	"net/http"

	"helmetmonitor/internal/dto"
	"helmetmonitor/internal/logger"
	"helmetmonitor/internal/services/snapshot"
)

// ClearDataHandler purges every event row and, unless the body says
// otherwise, the stored snapshot files. Irreversible.
func ClearDataHandler(service *snapshot.Service, log *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			writeError(w, http.StatusMethodNotAllowed, "method not allowed")
			return
		}

		var req dto.ClearRequest
		json.NewDecoder(r.Body).Decode(&req)

		deleteFiles := true
		if req.DeleteFiles != nil {
			deleteFiles = *req.DeleteFiles
		}

		if err := service.ClearAll(deleteFiles); err != nil {
			log.Error("Failed to clear data: %v", err)
			writeError(w, http.StatusInternalServerError, "internal server error")
			return
		}

		writeJSON(w, http.StatusOK, dto.StatusResponse{Status: "cleared"})
	}
}

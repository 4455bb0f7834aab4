package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"helmetmonitor/internal/dto"
	"helmetmonitor/internal/logger"
	"helmetmonitor/internal/services/snapshot"
	"helmetmonitor/internal/services/websocket"
)

// PredictHandler ingests one snapshot: decode, classify, persist, respond
// with the stored event. The persisted event is also broadcast to dashboard
// viewers.
func PredictHandler(service *snapshot.Service, hub *websocket.HubService, log *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			writeError(w, http.StatusMethodNotAllowed, "method not allowed")
			return
		}

		var req dto.PredictRequest
		// A missing or malformed body falls through to the empty-image check.
		json.NewDecoder(r.Body).Decode(&req)

		record, err := service.Process(req.Image, req.Site)
		if err != nil {
			switch {
			case errors.Is(err, snapshot.ErrImageRequired):
				writeError(w, http.StatusBadRequest, "image is required")
			case errors.Is(err, snapshot.ErrInvalidImage):
				writeError(w, http.StatusBadRequest, "invalid image payload")
			default:
				log.Error("Snapshot processing failed (site=%s, payload=%d bytes): %v",
					req.Site, len(req.Image), err)
				writeError(w, http.StatusInternalServerError, "internal server error")
			}
			return
		}

		broadcastEvent(hub, record)
		writeJSON(w, http.StatusOK, record)
	}
}

func broadcastEvent(hub *websocket.HubService, record dto.EventRecord) {
	if hub == nil {
		return
	}
	if msg, err := json.Marshal(record); err == nil {
		hub.Broadcast(msg)
	}
}

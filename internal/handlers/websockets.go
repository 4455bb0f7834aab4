package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"helmetmonitor/internal/dto"
	"helmetmonitor/internal/logger"
	"helmetmonitor/internal/services/snapshot"
	"helmetmonitor/internal/services/throttle"
	ws "helmetmonitor/internal/services/websocket"
)

var Upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// StreamWebsocketHandler accepts a camera's frame stream. Every frame is
// classified and answered; the rate limiter decides which frames are also
// persisted as events. Per-frame errors are reported on the socket without
// closing it.
func StreamWebsocketHandler(service *snapshot.Service, hub *ws.HubService, limiter *throttle.Limiter, log *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		connection, err := Upgrader.Upgrade(w, r, nil)
		if err != nil {
			log.Error("WebSocket upgrade error: %v", err)
			return
		}
		defer connection.Close()

		log.Info("Camera stream connected: %s", r.RemoteAddr)

		for {
			_, msg, err := connection.ReadMessage()
			if err != nil {
				log.Info("Camera stream disconnected: %v", err)
				break
			}

			var req dto.PredictRequest
			if err := json.Unmarshal(msg, &req); err != nil {
				connection.WriteJSON(dto.ErrorResponse{Error: "invalid frame payload"})
				continue
			}

			result, err := handleFrame(service, hub, limiter, req)
			if err != nil {
				switch {
				case errors.Is(err, snapshot.ErrImageRequired):
					connection.WriteJSON(dto.ErrorResponse{Error: "image is required"})
				case errors.Is(err, snapshot.ErrInvalidImage):
					connection.WriteJSON(dto.ErrorResponse{Error: "invalid image payload"})
				default:
					log.Error("Stream frame processing failed: %v", err)
					connection.WriteJSON(dto.ErrorResponse{Error: "prediction failed"})
				}
				continue
			}

			connection.WriteJSON(result)
		}
	}
}

func handleFrame(service *snapshot.Service, hub *ws.HubService, limiter *throttle.Limiter, req dto.PredictRequest) (dto.StreamResult, error) {
	if !limiter.Allow(time.Now()) {
		prediction, err := service.Classify(req.Image)
		if err != nil {
			return dto.StreamResult{}, err
		}
		return dto.StreamResult{
			Label:      prediction.Label,
			Confidence: prediction.Confidence,
			Stored:     false,
		}, nil
	}

	record, err := service.Process(req.Image, req.Site)
	if err != nil {
		return dto.StreamResult{}, err
	}

	broadcastEvent(hub, record)

	return dto.StreamResult{
		Label:      record.Label,
		Confidence: record.Confidence,
		Stored:     true,
		Event:      &record,
	}, nil
}

// ViewWebsocketHandler registers a dashboard viewer on the hub; it receives
// every persisted event until it disconnects.
func ViewWebsocketHandler(hub *ws.HubService, log *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		connection, err := Upgrader.Upgrade(w, r, nil)
		if err != nil {
			log.Error("WebSocket upgrade error: %v", err)
			return
		}
		connection.SetReadLimit(512)
		defer connection.Close()

		hub.Register(connection)
		defer hub.Unregister(connection)

		for {
			if _, _, err := connection.ReadMessage(); err != nil {
				break
			}
		}
	}
}

package routes

import (
	"net/http"
	"os"
	"path/filepath"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"helmetmonitor/internal/config"
	"helmetmonitor/internal/handlers"
	"helmetmonitor/internal/logger"
	"helmetmonitor/internal/middleware"
	"helmetmonitor/internal/services/snapshot"
	"helmetmonitor/internal/services/storage"
	"helmetmonitor/internal/services/throttle"
	"helmetmonitor/internal/services/websocket"
)

// pageHandler serves /path as <static>/path.html if the file exists;
// "/" maps to the camera page.
func pageHandler(staticDir string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		path := r.URL.Path
		if path == "/" {
			path = "/camera"
		}

		filePath := filepath.Join(staticDir, path+".html")
		if _, err := os.Stat(filePath); os.IsNotExist(err) {
			http.NotFound(w, r)
			return
		}

		http.ServeFile(w, r, filePath)
	}
}

// SetupRoutes registers API endpoints, websocket endpoints, static file
// serving and metrics, and wraps the mux with request logging.
func SetupRoutes(service *snapshot.Service, hub *websocket.HubService, store *storage.Store, limiter *throttle.Limiter, cfg *config.Config, log *logger.Logger) http.Handler {
	mux := http.NewServeMux()

	// Static assets and stored snapshots
	mux.Handle("/static/", http.StripPrefix("/static/", http.FileServer(http.Dir(cfg.StaticDirectory))))
	mux.HandleFunc("/uploads/", handlers.UploadsHandler(store))

	// API endpoints
	mux.HandleFunc("/api/predict", handlers.PredictHandler(service, hub, log))
	mux.HandleFunc("/api/dashboard", handlers.DashboardHandler(service, log))
	mux.HandleFunc("/api/admin/clear", handlers.ClearDataHandler(service, log))

	// Websocket endpoints
	mux.HandleFunc("/ws/predict", handlers.StreamWebsocketHandler(service, hub, limiter, log))
	mux.HandleFunc("/ws/dashboard", handlers.ViewWebsocketHandler(hub, log))

	// Metrics
	mux.Handle("/metrics", promhttp.Handler())

	// HTML pages: / -> camera.html, /dashboard -> dashboard.html
	mux.HandleFunc("/", pageHandler(cfg.StaticDirectory))

	return middleware.RequestLogger(log)(mux)
}

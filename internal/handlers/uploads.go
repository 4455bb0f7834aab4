package handlers

import (
	"net/http"
	"strings"

	"helmetmonitor/internal/services/storage"
)

// UploadsHandler serves stored snapshot images under /uploads/<filename>.
func UploadsHandler(store *storage.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		name := strings.TrimPrefix(r.URL.Path, "/uploads/")
		if name == "" || strings.Contains(name, "/") {
			http.NotFound(w, r)
			return
		}
		http.ServeFile(w, r, store.Path(name))
	}
}

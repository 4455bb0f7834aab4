package dto

// PredictRequest is the ingestion payload accepted over HTTP and websocket.
type PredictRequest struct {
	Image string `json:"image"`
	Site  string `json:"site"`
}

// ClearRequest controls the admin purge. DeleteFiles defaults to true when
// the body is absent.
type ClearRequest struct {
	DeleteFiles *bool `json:"delete_files"`
}

// ErrorResponse carries a stable client-facing error message.
type ErrorResponse struct {
	Error string `json:"error"`
}

// StatusResponse acknowledges an admin action.
type StatusResponse struct {
	Status string `json:"status"`
}

// StreamResult is the per-frame websocket reply: the prediction always, plus
// the persisted event when the frame was stored.
type StreamResult struct {
	Label      string       `json:"label"`
	Confidence float64      `json:"confidence"`
	Stored     bool         `json:"stored"`
	Event      *EventRecord `json:"event,omitempty"`
}

package dto

import (
	"time"

	"helmetmonitor/internal/model"
)

// EventRecord is the JSON representation of a persisted event, with the
// timestamp rendered as RFC3339 for stable serialization.
type EventRecord struct {
	ID         int64   `json:"id"`
	CreatedAt  string  `json:"created_at"`
	Label      string  `json:"label"`
	Confidence float64 `json:"confidence"`
	Site       string  `json:"site"`
	ImageRef   string  `json:"image_ref,omitempty"`
}

// NewEventRecord converts a stored event into its response form.
func NewEventRecord(e *model.Event) EventRecord {
	return EventRecord{
		ID:         e.ID,
		CreatedAt:  e.CreatedAt.UTC().Format(time.RFC3339),
		Label:      e.Label,
		Confidence: e.Confidence,
		Site:       e.Site,
		ImageRef:   e.ImageRef,
	}
}

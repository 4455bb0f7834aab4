package model

import "time"

// Labels form the closed set of classification outcomes.
const (
	LabelHelmet    = "helmet"
	LabelNoHelmet  = "no_helmet"
	LabelUncertain = "uncertain"
)

// Labels lists every valid label in a stable order.
var Labels = []string{LabelHelmet, LabelNoHelmet, LabelUncertain}

// Event represents one persisted classification outcome for a snapshot.
// Rows are never mutated after insert; the admin purge is the only delete.
type Event struct {
	ID         int64     `json:"id"`
	CreatedAt  time.Time `json:"created_at"`
	Label      string    `json:"label"`
	Confidence float64   `json:"confidence"`
	Site       string    `json:"site"`
	ImageRef   string    `json:"image_ref,omitempty"`
}

// ValidLabel reports whether s belongs to the closed label set.
func ValidLabel(s string) bool {
	for _, l := range Labels {
		if s == l {
			return true
		}
	}
	return false
}

package repository

import (
	"time"

	"helmetmonitor/internal/dto"
	"helmetmonitor/internal/model"
)

// EventRepository defines the interface for classification event storage.
// The ingestion pipeline is the sole writer; the dashboard aggregator and
// the admin purge are the only other accessors.
type EventRepository interface {
	// Create operations
	Insert(e *model.Event) (int64, error)

	// Read operations
	GetByID(id int64) (*model.Event, error)
	CountSince(since time.Time) (int, error)
	CountByLabelSince(label string, since time.Time) (int, error)
	AverageConfidenceSince(since time.Time) (float64, error)
	TrendSince(since time.Time) ([]dto.TrendEntry, error)
	CompositionSince(since time.Time) (map[string]int, error)
	Recent(limit int) ([]model.Event, error)
	ImageRefs() ([]string, error)

	// Delete operations
	DeleteAll() error
}

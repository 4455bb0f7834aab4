package sqlite

import (
	"database/sql"
	"fmt"
	"time"

	"helmetmonitor/internal/dto"
	"helmetmonitor/internal/model"
)

// EventRepository implements repository.EventRepository for SQLite.
type EventRepository struct {
	db *DB
}

// NewEventRepository creates a new SQLite event repository.
func NewEventRepository(db *DB) *EventRepository {
	return &EventRepository{db: db}
}

// Insert adds a new event record and returns its assigned id.
func (r *EventRepository) Insert(e *model.Event) (int64, error) {
	r.db.Lock()
	defer r.db.Unlock()

	result, err := r.db.Conn().Exec(`
		INSERT INTO events (created_at, label, confidence, site, image_ref)
		VALUES (?, ?, ?, ?, ?)
	`, e.CreatedAt.UTC(), e.Label, e.Confidence, e.Site, nullableString(e.ImageRef))
	if err != nil {
		return 0, fmt.Errorf("failed to insert event: %w", err)
	}

	return result.LastInsertId()
}

// GetByID retrieves an event by its ID, or nil when not found.
func (r *EventRepository) GetByID(id int64) (*model.Event, error) {
	r.db.RLock()
	defer r.db.RUnlock()

	var (
		e        model.Event
		imageRef sql.NullString
	)
	err := r.db.Conn().QueryRow(`
		SELECT id, created_at, label, confidence, site, image_ref
		FROM events WHERE id = ?
	`, id).Scan(&e.ID, &e.CreatedAt, &e.Label, &e.Confidence, &e.Site, &imageRef)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get event: %w", err)
	}
	e.ImageRef = imageRef.String
	return &e, nil
}

// CountSince returns the number of events created at or after since.
func (r *EventRepository) CountSince(since time.Time) (int, error) {
	r.db.RLock()
	defer r.db.RUnlock()

	var count int
	err := r.db.Conn().QueryRow(`
		SELECT COUNT(*) FROM events WHERE created_at >= ?
	`, since.UTC()).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count events: %w", err)
	}
	return count, nil
}

// CountByLabelSince returns the number of events with the given label
// created at or after since.
func (r *EventRepository) CountByLabelSince(label string, since time.Time) (int, error) {
	r.db.RLock()
	defer r.db.RUnlock()

	var count int
	err := r.db.Conn().QueryRow(`
		SELECT COUNT(*) FROM events WHERE created_at >= ? AND label = ?
	`, since.UTC(), label).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count events by label: %w", err)
	}
	return count, nil
}

// AverageConfidenceSince returns the mean confidence of events created at or
// after since, or 0 when there are none.
func (r *EventRepository) AverageConfidenceSince(since time.Time) (float64, error) {
	r.db.RLock()
	defer r.db.RUnlock()

	var avg float64
	err := r.db.Conn().QueryRow(`
		SELECT COALESCE(AVG(confidence), 0) FROM events WHERE created_at >= ?
	`, since.UTC()).Scan(&avg)
	if err != nil {
		return 0, fmt.Errorf("failed to average confidence: %w", err)
	}
	return avg, nil
}

// TrendSince returns per-hour-of-day totals and no_helmet counts for events
// created at or after since, sorted ascending by hour label.
func (r *EventRepository) TrendSince(since time.Time) ([]dto.TrendEntry, error) {
	r.db.RLock()
	defer r.db.RUnlock()

	rows, err := r.db.Conn().Query(`
		SELECT strftime('%H', created_at) AS hour,
		       COUNT(*),
		       SUM(CASE WHEN label = ? THEN 1 ELSE 0 END)
		FROM events
		WHERE created_at >= ?
		GROUP BY hour
		ORDER BY hour
	`, model.LabelNoHelmet, since.UTC())
	if err != nil {
		return nil, fmt.Errorf("failed to query trend: %w", err)
	}
	defer rows.Close()

	var trend []dto.TrendEntry
	for rows.Next() {
		var entry dto.TrendEntry
		if err := rows.Scan(&entry.Hour, &entry.Total, &entry.NoHelmet); err != nil {
			return nil, fmt.Errorf("failed to scan trend entry: %w", err)
		}
		trend = append(trend, entry)
	}

	return trend, rows.Err()
}

// CompositionSince returns event counts grouped by label for events created
// at or after since.
func (r *EventRepository) CompositionSince(since time.Time) (map[string]int, error) {
	r.db.RLock()
	defer r.db.RUnlock()

	rows, err := r.db.Conn().Query(`
		SELECT label, COUNT(*) FROM events WHERE created_at >= ? GROUP BY label
	`, since.UTC())
	if err != nil {
		return nil, fmt.Errorf("failed to query composition: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var (
			label string
			count int
		)
		if err := rows.Scan(&label, &count); err != nil {
			return nil, fmt.Errorf("failed to scan composition: %w", err)
		}
		counts[label] = count
	}

	return counts, rows.Err()
}

// Recent returns up to limit events, newest first.
func (r *EventRepository) Recent(limit int) ([]model.Event, error) {
	r.db.RLock()
	defer r.db.RUnlock()

	rows, err := r.db.Conn().Query(`
		SELECT id, created_at, label, confidence, site, image_ref
		FROM events
		ORDER BY created_at DESC, id DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query recent events: %w", err)
	}
	defer rows.Close()

	var events []model.Event
	for rows.Next() {
		var (
			e        model.Event
			imageRef sql.NullString
		)
		if err := rows.Scan(&e.ID, &e.CreatedAt, &e.Label, &e.Confidence, &e.Site, &imageRef); err != nil {
			return nil, fmt.Errorf("failed to scan event: %w", err)
		}
		e.ImageRef = imageRef.String
		events = append(events, e)
	}

	return events, rows.Err()
}

// ImageRefs returns the image references of all events that have one.
func (r *EventRepository) ImageRefs() ([]string, error) {
	r.db.RLock()
	defer r.db.RUnlock()

	rows, err := r.db.Conn().Query(`
		SELECT image_ref FROM events WHERE image_ref IS NOT NULL AND image_ref != ''
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query image refs: %w", err)
	}
	defer rows.Close()

	var refs []string
	for rows.Next() {
		var ref string
		if err := rows.Scan(&ref); err != nil {
			return nil, fmt.Errorf("failed to scan image ref: %w", err)
		}
		refs = append(refs, ref)
	}

	return refs, rows.Err()
}

// DeleteAll removes every event row.
func (r *EventRepository) DeleteAll() error {
	r.db.Lock()
	defer r.db.Unlock()

	if _, err := r.db.Conn().Exec(`DELETE FROM events`); err != nil {
		return fmt.Errorf("failed to delete events: %w", err)
	}
	return nil
}

// nullableString maps an empty string to SQL NULL.
func nullableString(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}

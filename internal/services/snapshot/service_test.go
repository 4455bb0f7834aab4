package snapshot

import (
	"encoding/base64"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"helmetmonitor/internal/logger"
	"helmetmonitor/internal/model"
	"helmetmonitor/internal/repository/sqlite"
	"helmetmonitor/internal/services/ai"
	"helmetmonitor/internal/services/storage"
)

type fixture struct {
	service   *Service
	events    *sqlite.EventRepository
	uploadDir string
}

func setup(t *testing.T) *fixture {
	t.Helper()

	db, err := sqlite.New(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	events := sqlite.NewEventRepository(db)
	uploadDir := t.TempDir()
	store := storage.New(uploadDir, logger.Discard())
	service := NewService(events, ai.NewStubClassifier(), store, logger.Discard(), "Unknown")

	return &fixture{service: service, events: events, uploadDir: uploadDir}
}

// encode wraps raw bytes the way browser clients submit them.
func encode(raw []byte) string {
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(raw)
}

func TestProcess_PersistsEvent(t *testing.T) {
	f := setup(t)

	// Stub prediction for bytes "snapshot" is pinned: helmet / 0.911.
	record, err := f.service.Process(encode([]byte("snapshot")), "Gate A")
	require.NoError(t, err)

	assert.Greater(t, record.ID, int64(0))
	assert.Equal(t, model.LabelHelmet, record.Label)
	assert.Equal(t, 0.911, record.Confidence)
	assert.Equal(t, "Gate A", record.Site)
	assert.NotEmpty(t, record.ImageRef)

	_, err = time.Parse(time.RFC3339, record.CreatedAt)
	assert.NoError(t, err, "created_at must be RFC3339")

	data, err := os.ReadFile(filepath.Join(f.uploadDir, record.ImageRef))
	require.NoError(t, err)
	assert.Equal(t, []byte("snapshot"), data)
}

func TestProcess_DefaultsSite(t *testing.T) {
	f := setup(t)

	record, err := f.service.Process(encode([]byte("snapshot")), "")
	require.NoError(t, err)
	assert.Equal(t, "Unknown", record.Site)

	record, err = f.service.Process(encode([]byte("snapshot")), "   ")
	require.NoError(t, err)
	assert.Equal(t, "Unknown", record.Site)
}

func TestProcess_MissingImage(t *testing.T) {
	f := setup(t)

	_, err := f.service.Process("", "Gate A")
	assert.ErrorIs(t, err, ErrImageRequired)

	_, err = f.service.Process("  ", "Gate A")
	assert.ErrorIs(t, err, ErrImageRequired)
}

func TestProcess_MalformedImage(t *testing.T) {
	f := setup(t)

	_, err := f.service.Process("!!! not base64 !!!", "Gate A")
	assert.ErrorIs(t, err, ErrInvalidImage)
}

func TestProcess_RoundTripThroughRecent(t *testing.T) {
	f := setup(t)

	record, err := f.service.Process(encode([]byte("snapshot")), "Gate B")
	require.NoError(t, err)

	stats, err := f.service.DashboardStats(time.Now().UTC())
	require.NoError(t, err)
	require.Len(t, stats.RecentEvents, 1)

	got := stats.RecentEvents[0]
	assert.Equal(t, record.ID, got.ID)
	assert.Equal(t, record.Label, got.Label)
	assert.Equal(t, record.Confidence, got.Confidence)
	assert.Equal(t, record.Site, got.Site)
	assert.Equal(t, record.ImageRef, got.ImageRef)
}

func TestClassify_DoesNotPersist(t *testing.T) {
	f := setup(t)

	prediction, err := f.service.Classify(encode([]byte("snapshot")))
	require.NoError(t, err)
	assert.Equal(t, model.LabelHelmet, prediction.Label)

	count, err := f.events.CountSince(time.Now().UTC().Add(-time.Hour))
	require.NoError(t, err)
	assert.Equal(t, 0, count)

	entries, err := os.ReadDir(f.uploadDir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestDashboardStats_EmptyStore(t *testing.T) {
	f := setup(t)

	stats, err := f.service.DashboardStats(time.Now().UTC())
	require.NoError(t, err)

	assert.Equal(t, 0, stats.TotalEvents)
	assert.Equal(t, 0.0, stats.NoHelmetRatio)
	assert.Equal(t, 0.0, stats.AverageConfidence)
	assert.Empty(t, stats.Trend)
	assert.Empty(t, stats.Composition)
	assert.Empty(t, stats.RecentEvents)
}

func TestDashboardStats_Aggregation(t *testing.T) {
	f := setup(t)
	now := time.Now().UTC()

	insert := func(offset time.Duration, label string, confidence float64) {
		_, err := f.events.Insert(&model.Event{
			CreatedAt:  now.Add(offset),
			Label:      label,
			Confidence: confidence,
			Site:       "Gate A",
		})
		require.NoError(t, err)
	}

	// Within the week window: 3 helmet, 1 no_helmet.
	insert(-time.Hour, model.LabelHelmet, 0.9)
	insert(-2*time.Hour, model.LabelHelmet, 0.8)
	insert(-3*24*time.Hour, model.LabelHelmet, 0.7)
	insert(-2*24*time.Hour, model.LabelNoHelmet, 0.6)
	// Outside the week window; must not count.
	insert(-8*24*time.Hour, model.LabelNoHelmet, 0.99)

	stats, err := f.service.DashboardStats(now)
	require.NoError(t, err)

	assert.Equal(t, 4, stats.TotalEvents)
	assert.Equal(t, 0.25, stats.NoHelmetRatio)
	assert.Equal(t, 0.75, stats.AverageConfidence)
	assert.Equal(t, map[string]float64{
		model.LabelHelmet:   0.75,
		model.LabelNoHelmet: 0.25,
	}, stats.Composition)

	// Only the two events inside the day window contribute to the trend.
	var trendTotal int
	for _, entry := range stats.Trend {
		trendTotal += entry.Total
	}
	assert.Equal(t, 2, trendTotal)
}

func TestDashboardStats_RecentLimit(t *testing.T) {
	f := setup(t)
	now := time.Now().UTC()

	for i := 0; i < 12; i++ {
		_, err := f.events.Insert(&model.Event{
			CreatedAt:  now.Add(time.Duration(-i) * time.Minute),
			Label:      model.LabelHelmet,
			Confidence: 0.9,
			Site:       "Gate A",
		})
		require.NoError(t, err)
	}

	stats, err := f.service.DashboardStats(now)
	require.NoError(t, err)
	require.Len(t, stats.RecentEvents, 10)

	for i := 1; i < len(stats.RecentEvents); i++ {
		assert.LessOrEqual(t, stats.RecentEvents[i].CreatedAt, stats.RecentEvents[i-1].CreatedAt,
			"recent events must be newest first")
	}
}

func TestClearAll_WithFiles(t *testing.T) {
	f := setup(t)

	record, err := f.service.Process(encode([]byte("snapshot")), "")
	require.NoError(t, err)

	require.NoError(t, f.service.ClearAll(true))

	count, err := f.events.CountSince(time.Now().UTC().Add(-time.Hour))
	require.NoError(t, err)
	assert.Equal(t, 0, count)
	assert.NoFileExists(t, filepath.Join(f.uploadDir, record.ImageRef))
}

func TestClearAll_KeepFiles(t *testing.T) {
	f := setup(t)

	record, err := f.service.Process(encode([]byte("snapshot")), "")
	require.NoError(t, err)

	require.NoError(t, f.service.ClearAll(false))

	count, err := f.events.CountSince(time.Now().UTC().Add(-time.Hour))
	require.NoError(t, err)
	assert.Equal(t, 0, count)
	assert.FileExists(t, filepath.Join(f.uploadDir, record.ImageRef))
}

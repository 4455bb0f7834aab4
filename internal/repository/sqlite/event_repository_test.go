package sqlite

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"helmetmonitor/internal/model"
)

func setupRepo(t *testing.T) *EventRepository {
	t.Helper()

	db, err := New(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	return NewEventRepository(db)
}

func insertEvent(t *testing.T, repo *EventRepository, createdAt time.Time, label string, confidence float64, site, imageRef string) int64 {
	t.Helper()

	id, err := repo.Insert(&model.Event{
		CreatedAt:  createdAt,
		Label:      label,
		Confidence: confidence,
		Site:       site,
		ImageRef:   imageRef,
	})
	require.NoError(t, err)
	return id
}

func TestEventRepository_InsertAndGet(t *testing.T) {
	repo := setupRepo(t)

	createdAt := time.Date(2025, 3, 1, 10, 30, 0, 0, time.UTC)
	id := insertEvent(t, repo, createdAt, model.LabelHelmet, 0.911, "Gate A", "snapshot_1.png")
	assert.Greater(t, id, int64(0))

	got, err := repo.GetByID(id)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, model.LabelHelmet, got.Label)
	assert.Equal(t, 0.911, got.Confidence)
	assert.Equal(t, "Gate A", got.Site)
	assert.Equal(t, "snapshot_1.png", got.ImageRef)
	assert.True(t, got.CreatedAt.Equal(createdAt))
}

func TestEventRepository_GetByID_NotFound(t *testing.T) {
	repo := setupRepo(t)

	got, err := repo.GetByID(42)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestEventRepository_MonotonicIDs(t *testing.T) {
	repo := setupRepo(t)

	now := time.Now().UTC()
	first := insertEvent(t, repo, now, model.LabelHelmet, 0.9, "A", "")
	second := insertEvent(t, repo, now, model.LabelHelmet, 0.9, "A", "")
	assert.Greater(t, second, first)
}

func TestEventRepository_CountSince(t *testing.T) {
	repo := setupRepo(t)

	now := time.Now().UTC()
	insertEvent(t, repo, now.Add(-8*24*time.Hour), model.LabelHelmet, 0.9, "A", "")
	insertEvent(t, repo, now.Add(-2*time.Hour), model.LabelHelmet, 0.9, "A", "")
	insertEvent(t, repo, now.Add(-time.Hour), model.LabelNoHelmet, 0.8, "A", "")

	count, err := repo.CountSince(now.Add(-7 * 24 * time.Hour))
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	count, err = repo.CountByLabelSince(model.LabelNoHelmet, now.Add(-7*24*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestEventRepository_AverageConfidenceSince(t *testing.T) {
	repo := setupRepo(t)

	now := time.Now().UTC()

	avg, err := repo.AverageConfidenceSince(now.Add(-time.Hour))
	require.NoError(t, err)
	assert.Equal(t, 0.0, avg, "empty store averages to zero")

	insertEvent(t, repo, now, model.LabelHelmet, 0.8, "A", "")
	insertEvent(t, repo, now, model.LabelNoHelmet, 0.6, "A", "")

	avg, err = repo.AverageConfidenceSince(now.Add(-time.Hour))
	require.NoError(t, err)
	assert.InDelta(t, 0.7, avg, 1e-9)
}

func TestEventRepository_TrendSince(t *testing.T) {
	repo := setupRepo(t)

	base := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	insertEvent(t, repo, base.Add(8*time.Hour+15*time.Minute), model.LabelHelmet, 0.9, "A", "")
	insertEvent(t, repo, base.Add(8*time.Hour+45*time.Minute), model.LabelNoHelmet, 0.8, "A", "")
	insertEvent(t, repo, base.Add(14*time.Hour), model.LabelNoHelmet, 0.7, "A", "")

	trend, err := repo.TrendSince(base)
	require.NoError(t, err)
	require.Len(t, trend, 2)

	assert.Equal(t, "08", trend[0].Hour)
	assert.Equal(t, 2, trend[0].Total)
	assert.Equal(t, 1, trend[0].NoHelmet)

	assert.Equal(t, "14", trend[1].Hour)
	assert.Equal(t, 1, trend[1].Total)
	assert.Equal(t, 1, trend[1].NoHelmet)
}

func TestEventRepository_CompositionSince(t *testing.T) {
	repo := setupRepo(t)

	now := time.Now().UTC()
	insertEvent(t, repo, now, model.LabelHelmet, 0.9, "A", "")
	insertEvent(t, repo, now, model.LabelHelmet, 0.9, "A", "")
	insertEvent(t, repo, now, model.LabelUncertain, 0.5, "A", "")

	counts, err := repo.CompositionSince(now.Add(-time.Hour))
	require.NoError(t, err)
	assert.Equal(t, map[string]int{
		model.LabelHelmet:    2,
		model.LabelUncertain: 1,
	}, counts)
}

func TestEventRepository_Recent(t *testing.T) {
	repo := setupRepo(t)

	base := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 12; i++ {
		insertEvent(t, repo, base.Add(time.Duration(i)*time.Minute), model.LabelHelmet, 0.9, "A", "")
	}

	recent, err := repo.Recent(10)
	require.NoError(t, err)
	require.Len(t, recent, 10)

	for i := 1; i < len(recent); i++ {
		assert.False(t, recent[i].CreatedAt.After(recent[i-1].CreatedAt),
			"recent events must be sorted newest first")
	}
	assert.True(t, recent[0].CreatedAt.Equal(base.Add(11*time.Minute)))
}

func TestEventRepository_ImageRefs(t *testing.T) {
	repo := setupRepo(t)

	now := time.Now().UTC()
	insertEvent(t, repo, now, model.LabelHelmet, 0.9, "A", "snapshot_1.png")
	insertEvent(t, repo, now, model.LabelHelmet, 0.9, "A", "")
	insertEvent(t, repo, now, model.LabelHelmet, 0.9, "A", "snapshot_2.png")

	refs, err := repo.ImageRefs()
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"snapshot_1.png", "snapshot_2.png"}, refs)
}

func TestEventRepository_DeleteAll(t *testing.T) {
	repo := setupRepo(t)

	now := time.Now().UTC()
	insertEvent(t, repo, now, model.LabelHelmet, 0.9, "A", "")
	insertEvent(t, repo, now, model.LabelNoHelmet, 0.8, "A", "")

	require.NoError(t, repo.DeleteAll())

	count, err := repo.CountSince(now.Add(-time.Hour))
	require.NoError(t, err)
	assert.Equal(t, 0, count)
}

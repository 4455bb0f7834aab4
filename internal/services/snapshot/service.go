package snapshot

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"helmetmonitor/internal/dto"
	"helmetmonitor/internal/logger"
	"helmetmonitor/internal/metrics"
	"helmetmonitor/internal/model"
	"helmetmonitor/internal/repository"
	"helmetmonitor/internal/services/ai"
	"helmetmonitor/internal/services/imaging"
	"helmetmonitor/internal/services/storage"
)

const (
	weekWindow  = 7 * 24 * time.Hour
	dayWindow   = 24 * time.Hour
	recentLimit = 10
)

var (
	// ErrImageRequired is returned when the ingestion payload has no image.
	ErrImageRequired = errors.New("image is required")
	// ErrInvalidImage is returned when the payload cannot be decoded.
	ErrInvalidImage = errors.New("invalid image payload")
)

// Service runs the snapshot ingestion pipeline and computes dashboard
// statistics from the event store.
type Service struct {
	events      repository.EventRepository
	classifier  ai.Classifier
	store       *storage.Store
	logger      *logger.Logger
	defaultSite string
}

// NewService wires the pipeline dependencies.
func NewService(events repository.EventRepository, classifier ai.Classifier, store *storage.Store, log *logger.Logger, defaultSite string) *Service {
	return &Service{
		events:      events,
		classifier:  classifier,
		store:       store,
		logger:      log,
		defaultSite: defaultSite,
	}
}

// Process decodes, classifies and persists one snapshot, returning the
// stored event. Classification never fails the pipeline; a file or database
// write failure is fatal for the request.
func (s *Service) Process(imageB64, site string) (dto.EventRecord, error) {
	started := time.Now()

	if strings.TrimSpace(imageB64) == "" {
		return dto.EventRecord{}, ErrImageRequired
	}

	raw, ext, err := imaging.Decode(imageB64)
	if err != nil {
		return dto.EventRecord{}, fmt.Errorf("%w: %v", ErrInvalidImage, err)
	}

	prediction := s.classifier.Predict(raw)

	filename, err := s.store.Save(raw, ext)
	if err != nil {
		return dto.EventRecord{}, fmt.Errorf("failed to store snapshot: %w", err)
	}

	event := &model.Event{
		CreatedAt:  time.Now().UTC(),
		Label:      prediction.Label,
		Confidence: prediction.Confidence,
		Site:       s.siteOrDefault(site),
		ImageRef:   filename,
	}

	id, err := s.events.Insert(event)
	if err != nil {
		// The written file is orphaned here; cmd/migrate can re-import it.
		return dto.EventRecord{}, fmt.Errorf("failed to persist event: %w", err)
	}
	event.ID = id

	metrics.SnapshotsProcessed.WithLabelValues(event.Label).Inc()
	metrics.ProcessingSeconds.Observe(time.Since(started).Seconds())
	s.logger.Info("Processed snapshot: %d bytes, site=%s, label=%s, confidence=%.3f",
		len(raw), event.Site, event.Label, event.Confidence)

	return dto.NewEventRecord(event), nil
}

// Classify decodes and classifies a snapshot without persisting anything.
// Used for streamed frames that the rate limiter holds back.
func (s *Service) Classify(imageB64 string) (dto.Prediction, error) {
	if strings.TrimSpace(imageB64) == "" {
		return dto.Prediction{}, ErrImageRequired
	}

	raw, _, err := imaging.Decode(imageB64)
	if err != nil {
		return dto.Prediction{}, fmt.Errorf("%w: %v", ErrInvalidImage, err)
	}

	return s.classifier.Predict(raw), nil
}

// DashboardStats aggregates the trailing week (totals, ratio, confidence,
// composition) and trailing day (hourly trend) relative to now.
func (s *Service) DashboardStats(now time.Time) (dto.DashboardStats, error) {
	weekStart := now.Add(-weekWindow)
	dayStart := now.Add(-dayWindow)

	total, err := s.events.CountSince(weekStart)
	if err != nil {
		return dto.DashboardStats{}, err
	}

	noHelmet, err := s.events.CountByLabelSince(model.LabelNoHelmet, weekStart)
	if err != nil {
		return dto.DashboardStats{}, err
	}

	avgConfidence, err := s.events.AverageConfidenceSince(weekStart)
	if err != nil {
		return dto.DashboardStats{}, err
	}

	trend, err := s.events.TrendSince(dayStart)
	if err != nil {
		return dto.DashboardStats{}, err
	}
	if trend == nil {
		trend = []dto.TrendEntry{}
	}

	counts, err := s.events.CompositionSince(weekStart)
	if err != nil {
		return dto.DashboardStats{}, err
	}

	composition := make(map[string]float64, len(counts))
	for label, count := range counts {
		composition[label] = round3(float64(count) / float64(total))
	}

	recent, err := s.events.Recent(recentLimit)
	if err != nil {
		return dto.DashboardStats{}, err
	}

	records := make([]dto.EventRecord, 0, len(recent))
	for i := range recent {
		records = append(records, dto.NewEventRecord(&recent[i]))
	}

	stats := dto.DashboardStats{
		TotalEvents:       total,
		AverageConfidence: 0,
		NoHelmetRatio:     0,
		Trend:             trend,
		Composition:       composition,
		RecentEvents:      records,
	}
	if total > 0 {
		stats.NoHelmetRatio = round3(float64(noHelmet) / float64(total))
		stats.AverageConfidence = round3(avgConfidence)
	}

	return stats, nil
}

// ClearAll deletes every event row; with deleteFiles it also best-effort
// removes the referenced snapshot files. Irreversible.
func (s *Service) ClearAll(deleteFiles bool) error {
	var refs []string
	if deleteFiles {
		var err error
		refs, err = s.events.ImageRefs()
		if err != nil {
			return err
		}
	}

	if err := s.events.DeleteAll(); err != nil {
		return err
	}

	if deleteFiles {
		s.store.RemoveAll(refs)
	}

	s.logger.Info("Cleared all events (deleteFiles=%t, files=%d)", deleteFiles, len(refs))
	return nil
}

func (s *Service) siteOrDefault(site string) string {
	if strings.TrimSpace(site) == "" {
		return s.defaultSite
	}
	return site
}

func round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}

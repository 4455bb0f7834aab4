package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// SnapshotsProcessed counts persisted snapshots partitioned by label.
	SnapshotsProcessed = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "helmet_monitor_snapshots_processed_total",
		Help: "Number of snapshots processed and persisted, by label.",
	}, []string{"label"})

	// ClassifierFallbacks counts delegated inference failures answered by the stub.
	ClassifierFallbacks = promauto.NewCounter(prometheus.CounterOpts{
		Name: "helmet_monitor_classifier_fallbacks_total",
		Help: "Number of times model inference failed and the stub answered instead.",
	})

	// ProcessingSeconds observes end-to-end ingestion pipeline latency.
	ProcessingSeconds = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "helmet_monitor_snapshot_processing_seconds",
		Help:    "Time spent decoding, classifying and persisting one snapshot.",
		Buckets: prometheus.DefBuckets,
	})

	// ViewerClients tracks connected dashboard websocket viewers.
	ViewerClients = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "helmet_monitor_viewer_clients",
		Help: "Number of connected dashboard websocket clients.",
	})
)

package ai

import (
	"crypto/sha1"
	"encoding/binary"
	"math"

	"helmetmonitor/internal/dto"
	"helmetmonitor/internal/logger"
	"helmetmonitor/internal/model"
)

// Score thresholds for the stub strategy. Strict inequalities: a score of
// exactly 0.7 or 0.3 maps to uncertain.
const (
	positiveThreshold = 0.7
	negativeThreshold = 0.3
)

// Classifier maps raw image bytes to a label and a confidence in [0,1].
// Predict never fails: implementations fall back internally.
type Classifier interface {
	Predict(image []byte) dto.Prediction
}

// New selects the classification strategy. With a model path it attempts to
// load the pretrained network; a missing or unloadable model is non-fatal
// and yields the deterministic stub.
func New(modelPath string, log *logger.Logger) Classifier {
	if modelPath == "" {
		log.Info("No model configured, using stub classifier")
		return NewStubClassifier()
	}

	net, err := NewNetClassifier(modelPath, log)
	if err != nil {
		log.Warning("Could not load model %s: %v; using stub classifier", modelPath, err)
		return NewStubClassifier()
	}

	log.Info("Loaded classification model from %s", modelPath)
	return net
}

// StubClassifier derives a deterministic prediction from a SHA-1 hash of the
// image bytes, so identical inputs always yield identical results.
type StubClassifier struct{}

// NewStubClassifier creates the hash-based stub strategy.
func NewStubClassifier() *StubClassifier {
	return &StubClassifier{}
}

// Predict hashes the bytes, normalizes the first two digest bytes onto [0,1]
// and applies the fixed thresholds.
func (c *StubClassifier) Predict(image []byte) dto.Prediction {
	digest := sha1.Sum(image)
	score := float64(binary.BigEndian.Uint16(digest[:2])) / 65535
	return classifyScore(score)
}

// classifyScore maps a normalized score onto the label set.
func classifyScore(score float64) dto.Prediction {
	switch {
	case score > positiveThreshold:
		return dto.Prediction{Label: model.LabelHelmet, Confidence: round3(score)}
	case score < negativeThreshold:
		return dto.Prediction{Label: model.LabelNoHelmet, Confidence: round3(1 - score)}
	default:
		return dto.Prediction{Label: model.LabelUncertain, Confidence: 0.5}
	}
}

// round3 rounds to three decimals for stable serialization.
func round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}

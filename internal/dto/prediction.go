package dto

// Prediction is the classifier's output for a single image.
type Prediction struct {
	Label      string  `json:"label"`
	Confidence float64 `json:"confidence"`
}

package ai

import (
	"fmt"
	"image"
	"math"
	"os"
	"sync"

	"gocv.io/x/gocv"

	"helmetmonitor/internal/dto"
	"helmetmonitor/internal/logger"
	"helmetmonitor/internal/metrics"
	"helmetmonitor/internal/model"
)

// inputSize is the spatial size the network expects.
const inputSize = 224

// NetClassifier delegates prediction to a pretrained network loaded through
// OpenCV's DNN module. Every failure path falls back to the stub so callers
// never see an inference error.
type NetClassifier struct {
	net    gocv.Net
	stub   *StubClassifier
	logger *logger.Logger
	mu     sync.Mutex // gocv.Net forward passes are not concurrency-safe
}

// NewNetClassifier loads the model once at construction time.
func NewNetClassifier(modelPath string, log *logger.Logger) (*NetClassifier, error) {
	if _, err := os.Stat(modelPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("model file not found: %s", modelPath)
	}

	net := gocv.ReadNet(modelPath, "")
	if net.Empty() {
		return nil, fmt.Errorf("failed to load network from %s", modelPath)
	}

	if err := net.SetPreferableBackend(gocv.NetBackendDefault); err != nil {
		return nil, fmt.Errorf("failed to set network backend: %w", err)
	}
	if err := net.SetPreferableTarget(gocv.NetTargetCPU); err != nil {
		return nil, fmt.Errorf("failed to set network target: %w", err)
	}

	return &NetClassifier{
		net:    net,
		stub:   NewStubClassifier(),
		logger: log,
	}, nil
}

// Predict runs forward inference and maps the arg-max class onto the label
// set. Inference failures are logged and answered by the stub.
func (c *NetClassifier) Predict(img []byte) dto.Prediction {
	pred, err := c.infer(img)
	if err != nil {
		c.logger.Warning("Model inference failed (%v); using stub prediction", err)
		metrics.ClassifierFallbacks.Inc()
		return c.stub.Predict(img)
	}
	return pred
}

func (c *NetClassifier) infer(img []byte) (dto.Prediction, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	mat, err := gocv.IMDecode(img, gocv.IMReadColor)
	if err != nil {
		return dto.Prediction{}, fmt.Errorf("failed to decode image: %w", err)
	}
	defer mat.Close()

	if mat.Empty() {
		return dto.Prediction{}, fmt.Errorf("decoded image is empty")
	}

	blob := gocv.BlobFromImage(mat, 1.0/255.0, image.Pt(inputSize, inputSize),
		gocv.NewScalar(0, 0, 0, 0), true, false)
	defer blob.Close()

	c.net.SetInput(blob, "")

	output := c.net.Forward("")
	defer output.Close()

	classes := output.Total()
	if classes == 0 {
		return dto.Prediction{}, fmt.Errorf("network produced no output")
	}

	scores := make([]float64, classes)
	for i := 0; i < classes; i++ {
		scores[i] = float64(output.GetFloatAt(0, i))
	}

	probs := softmax(scores)
	idx, confidence := argmax(probs)

	label := model.LabelUncertain
	if idx < len(model.Labels) {
		label = model.Labels[idx]
	}

	return dto.Prediction{Label: label, Confidence: round3(confidence)}, nil
}

// Close releases the underlying network.
func (c *NetClassifier) Close() error {
	return c.net.Close()
}

func softmax(scores []float64) []float64 {
	max := scores[0]
	for _, s := range scores[1:] {
		if s > max {
			max = s
		}
	}

	var sum float64
	probs := make([]float64, len(scores))
	for i, s := range scores {
		probs[i] = math.Exp(s - max)
		sum += probs[i]
	}
	for i := range probs {
		probs[i] /= sum
	}
	return probs
}

func argmax(probs []float64) (int, float64) {
	best := 0
	for i, p := range probs {
		if p > probs[best] {
			best = i
		}
	}
	return best, probs[best]
}

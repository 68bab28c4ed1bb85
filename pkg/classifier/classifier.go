package classifier

import (
	"context"
	"fmt"
	"math"

	"food-recognizer/domain"
)

const (
	BackendModelServer = "http"
	BackendRekognition = "rekognition"
)

type (
	Prediction struct {
		Label      string
		Confidence float64
	}

	// Classifier maps an uploaded image to one label of a fixed set.
	Classifier interface {
		Classify(ctx context.Context, image []byte) (Prediction, error)
		Labels() []string
	}
)

// topPrediction applies softmax to logits and returns the most probable label.
// Equal probabilities resolve to the lowest index.
func topPrediction(logits []float64, labels []string) (Prediction, error) {
	if len(logits) == 0 {
		return Prediction{}, fmt.Errorf("%w: empty model output", domain.ErrClassificationFailure)
	}
	if len(logits) != len(labels) {
		return Prediction{}, fmt.Errorf("%w: model returned %d scores for %d labels", domain.ErrClassificationFailure, len(logits), len(labels))
	}

	maxLogit := math.Inf(-1)
	best := 0
	for i, v := range logits {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return Prediction{}, fmt.Errorf("%w: score %d is not finite", domain.ErrClassificationFailure, i)
		}
		if v > maxLogit {
			maxLogit, best = v, i
		}
	}

	var sum float64
	for _, v := range logits {
		sum += math.Exp(v - maxLogit)
	}

	return Prediction{
		Label:      labels[best],
		Confidence: 1 / sum,
	}, nil
}

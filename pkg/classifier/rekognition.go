package classifier

import (
	"context"
	"fmt"

	"food-recognizer/domain"
	"food-recognizer/pkg/nutrition"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/rekognition"
	"github.com/aws/aws-sdk-go-v2/service/rekognition/types"
	"github.com/gofiber/fiber/v2/log"
)

const (
	rekognitionMaxLabels     = 10
	rekognitionMinConfidence = 50
)

type (
	// LabelDetector is the part of the Rekognition client this package calls.
	LabelDetector interface {
		DetectLabels(ctx context.Context, params *rekognition.DetectLabelsInput, optFns ...func(*rekognition.Options)) (*rekognition.DetectLabelsOutput, error)
	}

	// RekognitionClassifier maps generic Rekognition labels onto the
	// configured label set by fuzzy matching.
	RekognitionClassifier struct {
		api    LabelDetector
		labels []string
		names  []string
	}
)

func NewRekognitionClassifier(ctx context.Context, region string, labels []string) (*RekognitionClassifier, error) {
	opts := []func(*config.LoadOptions) error{}
	if region != "" {
		opts = append(opts, config.WithRegion(region))
	}
	cfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	return newRekognitionClassifier(rekognition.NewFromConfig(cfg), labels)
}

func newRekognitionClassifier(api LabelDetector, labels []string) (*RekognitionClassifier, error) {
	if len(labels) == 0 {
		return nil, fmt.Errorf("label set is empty")
	}
	names := make([]string, len(labels))
	for i, l := range labels {
		names[i] = nutrition.Normalize(l)
	}
	return &RekognitionClassifier{api: api, labels: labels, names: names}, nil
}

func (c *RekognitionClassifier) Labels() []string {
	return c.labels
}

func (c *RekognitionClassifier) Classify(ctx context.Context, image []byte) (Prediction, error) {
	// undecodable uploads never reach the API
	if _, err := Preprocess(image); err != nil {
		return Prediction{}, err
	}

	out, err := c.api.DetectLabels(ctx, &rekognition.DetectLabelsInput{
		Image:         &types.Image{Bytes: image},
		MaxLabels:     aws.Int32(rekognitionMaxLabels),
		MinConfidence: aws.Float32(rekognitionMinConfidence),
	})
	if err != nil {
		return Prediction{}, fmt.Errorf("%w: %v", domain.ErrClassificationFailure, err)
	}
	if out == nil || len(out.Labels) == 0 {
		return Prediction{}, fmt.Errorf("%w: no labels detected", domain.ErrClassificationFailure)
	}

	var (
		best      Prediction
		bestScore = -1.0
	)
	for _, detected := range out.Labels {
		name := aws.ToString(detected.Name)
		if name == "" {
			continue
		}
		query := nutrition.Normalize(name)
		for i, candidate := range c.names {
			score := nutrition.Score(query, candidate)
			if score > bestScore {
				bestScore = score
				best = Prediction{
					Label:      c.labels[i],
					Confidence: float64(aws.ToFloat32(detected.Confidence)) / 100,
				}
			}
		}
	}
	if bestScore < 0 {
		return Prediction{}, fmt.Errorf("%w: no usable labels detected", domain.ErrClassificationFailure)
	}

	log.Debugf("rekognition mapped to %s (score %.1f)", best.Label, bestScore)
	return best, nil
}

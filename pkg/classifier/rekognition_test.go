package classifier

import (
	"context"
	"errors"
	"testing"

	"food-recognizer/domain"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/rekognition"
	"github.com/aws/aws-sdk-go-v2/service/rekognition/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeLabelDetector struct {
	labels []types.Label
	err    error
	calls  int
	input  *rekognition.DetectLabelsInput
}

func (f *fakeLabelDetector) DetectLabels(ctx context.Context, params *rekognition.DetectLabelsInput, optFns ...func(*rekognition.Options)) (*rekognition.DetectLabelsOutput, error) {
	f.calls++
	f.input = params
	if f.err != nil {
		return nil, f.err
	}
	return &rekognition.DetectLabelsOutput{Labels: f.labels}, nil
}

func TestRekognitionClassifier_MapsToLabelSet(t *testing.T) {
	api := &fakeLabelDetector{labels: []types.Label{
		{Name: aws.String("Food"), Confidence: aws.Float32(99)},
		{Name: aws.String("Pizza"), Confidence: aws.Float32(92.5)},
	}}
	c, err := newRekognitionClassifier(api, Food101Labels)
	require.NoError(t, err)

	p, err := c.Classify(context.Background(), encodePNG(t, 64, 64))
	require.NoError(t, err)
	assert.Equal(t, "pizza", p.Label)
	assert.InDelta(t, 0.925, p.Confidence, 1e-6)

	require.NotNil(t, api.input)
	assert.Equal(t, int32(rekognitionMaxLabels), aws.ToInt32(api.input.MaxLabels))
	assert.NotEmpty(t, api.input.Image.Bytes)
}

func TestRekognitionClassifier_Errors(t *testing.T) {
	api := &fakeLabelDetector{}
	c, err := newRekognitionClassifier(api, Food101Labels)
	require.NoError(t, err)

	_, err = c.Classify(context.Background(), encodePNG(t, 32, 32))
	assert.ErrorIs(t, err, domain.ErrClassificationFailure)

	api.err = errors.New("throttled")
	_, err = c.Classify(context.Background(), encodePNG(t, 32, 32))
	assert.ErrorIs(t, err, domain.ErrClassificationFailure)

	calls := api.calls
	_, err = c.Classify(context.Background(), []byte("garbage"))
	assert.ErrorIs(t, err, domain.ErrInvalidImage)
	assert.Equal(t, calls, api.calls)

	_, err = newRekognitionClassifier(api, nil)
	assert.Error(t, err)
}

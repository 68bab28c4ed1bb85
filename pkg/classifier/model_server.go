package classifier

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"food-recognizer/domain"
)

const defaultInputName = "input"

type (
	tensorMetadata struct {
		Name     string  `json:"name"`
		Datatype string  `json:"datatype"`
		Shape    []int64 `json:"shape"`
	}

	modelMetadata struct {
		Name     string           `json:"name"`
		Versions []string         `json:"versions"`
		Platform string           `json:"platform"`
		Inputs   []tensorMetadata `json:"inputs"`
		Outputs  []tensorMetadata `json:"outputs"`
	}

	inferTensor struct {
		Name     string    `json:"name"`
		Shape    []int     `json:"shape"`
		Datatype string    `json:"datatype"`
		Data     []float32 `json:"data"`
	}

	inferRequest struct {
		Inputs []inferTensor `json:"inputs"`
	}

	inferResponse struct {
		ModelName string `json:"model_name"`
		Outputs   []struct {
			Name     string    `json:"name"`
			Shape    []int     `json:"shape"`
			Datatype string    `json:"datatype"`
			Data     []float64 `json:"data"`
		} `json:"outputs"`
	}

	// ModelServerClassifier talks to a model server implementing the
	// KServe / Triton v2 inference protocol.
	ModelServerClassifier struct {
		baseURL    string
		model      string
		inputName  string
		labels     []string
		httpClient *http.Client
	}
)

// NewModelServerClassifier checks that the model is ready and that its output
// width matches the label set before returning.
func NewModelServerClassifier(ctx context.Context, baseURL, model string, labels []string, httpClient *http.Client) (*ModelServerClassifier, error) {
	if baseURL == "" || model == "" {
		return nil, fmt.Errorf("model server url and model name are required")
	}
	if len(labels) == 0 {
		return nil, fmt.Errorf("label set is empty")
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}

	c := &ModelServerClassifier{
		baseURL:    strings.TrimRight(baseURL, "/"),
		model:      model,
		inputName:  defaultInputName,
		labels:     labels,
		httpClient: httpClient,
	}

	if err := c.checkReady(ctx); err != nil {
		return nil, err
	}

	meta, err := c.metadata(ctx)
	if err != nil {
		return nil, err
	}
	if len(meta.Inputs) > 0 && meta.Inputs[0].Name != "" {
		c.inputName = meta.Inputs[0].Name
	}
	if len(meta.Outputs) > 0 {
		shape := meta.Outputs[0].Shape
		if n := len(shape); n > 0 && shape[n-1] > 0 && int(shape[n-1]) != len(labels) {
			return nil, fmt.Errorf("model %s outputs %d classes, label set has %d", model, shape[n-1], len(labels))
		}
	}

	return c, nil
}

func (c *ModelServerClassifier) Labels() []string {
	return c.labels
}

func (c *ModelServerClassifier) Classify(ctx context.Context, image []byte) (Prediction, error) {
	tensor, err := Preprocess(image)
	if err != nil {
		return Prediction{}, err
	}

	body, err := json.Marshal(inferRequest{
		Inputs: []inferTensor{{
			Name:     c.inputName,
			Shape:    tensor.Shape,
			Datatype: "FP32",
			Data:     tensor.Data,
		}},
	})
	if err != nil {
		return Prediction{}, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.modelURL()+"/infer", bytes.NewReader(body))
	if err != nil {
		return Prediction{}, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return Prediction{}, fmt.Errorf("%w: %v", domain.ErrClassificationFailure, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		bodyBytes, _ := io.ReadAll(resp.Body)
		return Prediction{}, fmt.Errorf("%w: model server error: %s - %s", domain.ErrClassificationFailure, resp.Status, string(bodyBytes))
	}

	var out inferResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return Prediction{}, fmt.Errorf("%w: decode model output: %v", domain.ErrClassificationFailure, err)
	}
	if len(out.Outputs) == 0 {
		return Prediction{}, fmt.Errorf("%w: model returned no outputs", domain.ErrClassificationFailure)
	}

	return topPrediction(out.Outputs[0].Data, c.labels)
}

func (c *ModelServerClassifier) modelURL() string {
	return fmt.Sprintf("%s/v2/models/%s", c.baseURL, c.model)
}

func (c *ModelServerClassifier) checkReady(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.modelURL()+"/ready", nil)
	if err != nil {
		return err
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("model server unreachable: %w", err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("model %s not ready: %s", c.model, resp.Status)
	}
	return nil
}

func (c *ModelServerClassifier) metadata(ctx context.Context) (modelMetadata, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.modelURL(), nil)
	if err != nil {
		return modelMetadata{}, err
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return modelMetadata{}, fmt.Errorf("model metadata: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		bodyBytes, _ := io.ReadAll(resp.Body)
		return modelMetadata{}, fmt.Errorf("model metadata: %s - %s", resp.Status, string(bodyBytes))
	}

	var meta modelMetadata
	if err := json.NewDecoder(resp.Body).Decode(&meta); err != nil {
		return modelMetadata{}, fmt.Errorf("decode model metadata: %w", err)
	}
	return meta, nil
}

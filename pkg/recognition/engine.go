package recognition

import (
	"context"
	"fmt"
	"net/http"

	"food-recognizer/domain"
	"food-recognizer/pkg/classifier"
	"food-recognizer/pkg/nutrition"

	"github.com/gofiber/fiber/v2/log"
)

type (
	EngineConfig struct {
		Backend            string
		ModelURL           string
		ModelName          string
		LabelsPath         string
		NutritionTablePath string
		RekognitionRegion  string
		HTTPClient         *http.Client
	}

	// Engine holds everything recognition needs that is loaded once at
	// startup. It is read-only after construction.
	Engine struct {
		classifier classifier.Classifier
		calculator *nutrition.Calculator
		initErr    error
	}
)

func NewEngine(c classifier.Classifier, table *nutrition.Table) *Engine {
	return &Engine{
		classifier: c,
		calculator: nutrition.NewCalculator(table),
	}
}

// FailedEngine records a startup failure. Every recognition against it
// returns domain.ErrInitializationFailure.
func FailedEngine(err error) *Engine {
	if err == nil {
		err = fmt.Errorf("engine not initialized")
	}
	return &Engine{initErr: err}
}

// LoadEngine builds the classifier and loads the nutrition table. It never
// returns nil: a load failure is kept inside the engine.
func LoadEngine(ctx context.Context, cfg EngineConfig) *Engine {
	labels, err := classifier.LoadLabels(cfg.LabelsPath)
	if err != nil {
		log.Errorf("loading labels: %v", err)
		return FailedEngine(err)
	}

	table, err := nutrition.LoadTable(cfg.NutritionTablePath)
	if err != nil {
		log.Errorf("loading nutrition table: %v", err)
		return FailedEngine(err)
	}

	var c classifier.Classifier
	switch cfg.Backend {
	case classifier.BackendRekognition:
		c, err = classifier.NewRekognitionClassifier(ctx, cfg.RekognitionRegion, labels)
	case classifier.BackendModelServer, "":
		c, err = classifier.NewModelServerClassifier(ctx, cfg.ModelURL, cfg.ModelName, labels, cfg.HTTPClient)
	default:
		err = fmt.Errorf("unknown classifier backend %q", cfg.Backend)
	}
	if err != nil {
		log.Errorf("loading classifier: %v", err)
		return FailedEngine(err)
	}

	log.Infof("recognition engine ready: backend=%s labels=%d nutrition rows=%d", cfg.Backend, len(labels), table.Len())
	return NewEngine(c, table)
}

// Ready reports the startup failure, if any, wrapped in
// domain.ErrInitializationFailure.
func (e *Engine) Ready() error {
	if e == nil {
		return domain.ErrInitializationFailure
	}
	if e.initErr != nil {
		return fmt.Errorf("%w: %v", domain.ErrInitializationFailure, e.initErr)
	}
	if e.classifier == nil || e.calculator == nil {
		return domain.ErrInitializationFailure
	}
	return nil
}

func (e *Engine) Classify(ctx context.Context, image []byte) (classifier.Prediction, error) {
	if err := e.Ready(); err != nil {
		return classifier.Prediction{}, err
	}
	return e.classifier.Classify(ctx, image)
}

func (e *Engine) Estimate(label string, weight float64) domain.Nutrition {
	return e.calculator.Estimate(label, weight)
}

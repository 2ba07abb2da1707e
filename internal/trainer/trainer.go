package trainer

import (
	"fmt"

	"github.com/sjwhitworth/golearn/base"
	"github.com/sjwhitworth/golearn/ensemble"
	mleval "github.com/sjwhitworth/golearn/evaluation"
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/smilewatch/internal/common"
	"github.com/ternarybob/smilewatch/internal/models"
)

// Result holds a freshly fitted classifier and its holdout evaluation. The
// model lives in memory only; it is rebuilt from persisted feedback whenever
// retraining triggers.
type Result struct {
	Model        *ensemble.RandomForest
	SampleSize   int
	TestAccuracy float64
}

// Trainer fits the random-forest smile classifier
type Trainer struct {
	config common.OptimizerConfig
	logger arbor.ILogger
}

// NewTrainer creates a new Trainer instance
func NewTrainer(logger arbor.ILogger, config common.OptimizerConfig) *Trainer {
	return &Trainer{
		config: config,
		logger: logger,
	}
}

// MaybeRetrain fits a classifier over the verified records, or returns
// (nil, nil) when fewer labeled samples exist than the retrain gate requires
func (t *Trainer) MaybeRetrain(records []*models.Prediction) (*Result, error) {
	labeled := make([]*models.Prediction, 0, len(records))
	for _, r := range records {
		if r.Verified() && models.ValidSmileLabel(r.ActualLabel) {
			labeled = append(labeled, r)
		}
	}

	if len(labeled) < t.config.RetrainMinSamples {
		t.logger.Debug().
			Int("labeled", len(labeled)).
			Int("required", t.config.RetrainMinSamples).
			Msg("Not enough labeled samples to retrain")
		return nil, nil
	}

	instances, err := t.buildInstances(labeled)
	if err != nil {
		return nil, err
	}

	trainData, testData := base.InstancesTrainTestSplit(instances, t.config.TestFraction)

	forest := ensemble.NewRandomForest(t.config.ForestSize, t.config.ForestFeatures)
	if err := forest.Fit(trainData); err != nil {
		return nil, fmt.Errorf("failed to fit random forest: %w", err)
	}

	predictions, err := forest.Predict(testData)
	if err != nil {
		return nil, fmt.Errorf("failed to evaluate random forest: %w", err)
	}

	confusion, err := mleval.GetConfusionMatrix(testData, predictions)
	if err != nil {
		return nil, fmt.Errorf("failed to build confusion matrix: %w", err)
	}
	accuracy := mleval.GetAccuracy(confusion)

	t.logger.Info().
		Int("samples", len(labeled)).
		Float64("test_accuracy", accuracy).
		Msg("Classifier retrained")

	return &Result{
		Model:        forest,
		SampleSize:   len(labeled),
		TestAccuracy: accuracy,
	}, nil
}

// buildInstances lays the labeled records out as a golearn dense grid with
// one float attribute per feature slot and the actual label as class
func (t *Trainer) buildInstances(records []*models.Prediction) (*base.DenseInstances, error) {
	attrs := make([]base.Attribute, FeatureCount+1)
	for i := 0; i < FeatureCount; i++ {
		attrs[i] = base.NewFloatAttribute(fmt.Sprintf("f%02d", i))
	}
	classAttr := new(base.CategoricalAttribute)
	classAttr.SetName("smile")
	attrs[FeatureCount] = classAttr

	instances := base.NewDenseInstances()
	specs := make([]base.AttributeSpec, len(attrs))
	for i, attr := range attrs {
		specs[i] = instances.AddAttribute(attr)
	}
	if err := instances.AddClassAttribute(classAttr); err != nil {
		return nil, fmt.Errorf("failed to set class attribute: %w", err)
	}
	if err := instances.Extend(len(records)); err != nil {
		return nil, fmt.Errorf("failed to size training grid: %w", err)
	}

	for row, record := range records {
		vector := ExtractFeatures(&record.Signal)
		for col, value := range vector {
			instances.Set(specs[col], row, base.PackFloatToBytes(value))
		}
		instances.Set(specs[FeatureCount], row, classAttr.GetSysValFromString(string(record.ActualLabel)))
	}

	return instances, nil
}

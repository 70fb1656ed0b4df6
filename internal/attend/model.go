package attend

import (
	"fmt"
	"image"
)

// DefaultThreshold is the confidence below which a prediction counts as a match.
const DefaultThreshold = 70.0

// TrainedModel pairs a classifier with the label index it was trained with.
// Generation tags the pair; labels from one generation mean nothing to another.
type TrainedModel struct {
	Generation string
	Labels     *LabelIndex
	Samples    int

	model FaceModel
}

// NewTrainedModel binds a classifier to its label index.
func NewTrainedModel(generation string, model FaceModel, labels *LabelIndex, samples int) *TrainedModel {
	return &TrainedModel{
		Generation: generation,
		Labels:     labels,
		Samples:    samples,
		model:      model,
	}
}

// Match is the decision for one detected face.
type Match struct {
	Box        image.Rectangle
	Label      int
	Confidence float64
	Recognized bool
	Identity   Identity
}

// Classify predicts the face and applies the decision rule: recognized iff
// confidence < threshold and the label exists in this model's index.
func (m *TrainedModel) Classify(face *image.Gray, threshold float64) (Match, error) {
	label, confidence, err := m.model.Predict(face)
	if err != nil {
		return Match{}, fmt.Errorf("predicting face: %w", err)
	}
	match := Match{Label: label, Confidence: confidence}
	if confidence < threshold {
		if id, ok := m.Labels.Lookup(label); ok {
			match.Recognized = true
			match.Identity = id
		}
	}
	return match, nil
}

// Close releases the underlying classifier.
func (m *TrainedModel) Close() error {
	if m.model == nil {
		return nil
	}
	return m.model.Close()
}

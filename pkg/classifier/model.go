// Package classifier loads the pre-trained student risk model and scores
// feature vectors with it. Training happens elsewhere; this package only reads
// the serialized artifact.
package classifier

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os"
)

// NumFeatures is the fixed width of every input row.
const NumFeatures = 3

// FeatureNames is the column order the model was trained with.
var FeatureNames = [NumFeatures]string{"exam_avg", "assignment_avg", "attendance_pct"}

// Class codes produced by the model.
const (
	ClassLow     = 0
	ClassRegular = 1
	ClassGood    = 2
)

var (
	// ErrUnavailable marks every prediction once the artifact failed to load.
	ErrUnavailable = errors.New("risk model unavailable")
	// ErrInvalidInput rejects non-finite feature values.
	ErrInvalidInput = errors.New("invalid feature vector")
)

// Features is one input row: exam average, assignment average and attendance
// ratio, in that order.
type Features [NumFeatures]float64

// Prediction is the model output for one row.
type Prediction struct {
	Class         int       `json:"class"`
	Confidence    float64   `json:"confidence"`
	Probabilities []float64 `json:"probabilities,omitempty"`
}

// Model scores a single feature row.
type Model interface {
	Predict(x Features) (Prediction, error)
}

const (
	kindDecisionTree = "decision_tree"
	kindLogistic     = "logistic"
)

type artifact struct {
	Kind         string      `json:"kind"`
	Version      string      `json:"version"`
	Features     []string    `json:"features"`
	Classes      []int       `json:"classes"`
	Tree         *treeNode   `json:"tree,omitempty"`
	Coefficients [][]float64 `json:"coefficients,omitempty"`
	Intercepts   []float64   `json:"intercepts,omitempty"`
}

// LoadFile reads and validates a JSON model artifact.
func LoadFile(path string) (Model, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read model %s: %w", path, err)
	}
	return Parse(raw)
}

// Parse decodes a JSON model artifact.
func Parse(raw []byte) (Model, error) {
	var a artifact
	if err := json.Unmarshal(raw, &a); err != nil {
		return nil, fmt.Errorf("decode model: %w", err)
	}
	if len(a.Features) != NumFeatures {
		return nil, fmt.Errorf("model expects %d features, want %d", len(a.Features), NumFeatures)
	}
	for i, name := range a.Features {
		if name != FeatureNames[i] {
			return nil, fmt.Errorf("feature %d is %q, want %q", i, name, FeatureNames[i])
		}
	}
	if len(a.Classes) == 0 {
		return nil, fmt.Errorf("model declares no classes")
	}

	switch a.Kind {
	case kindDecisionTree:
		if a.Tree == nil {
			return nil, fmt.Errorf("decision tree model without tree")
		}
		if err := a.Tree.validate(len(a.Classes)); err != nil {
			return nil, err
		}
		return &treeModel{root: a.Tree, classes: a.Classes}, nil
	case kindLogistic:
		if len(a.Coefficients) != len(a.Classes) || len(a.Intercepts) != len(a.Classes) {
			return nil, fmt.Errorf("logistic model needs one coefficient row and intercept per class")
		}
		for i, row := range a.Coefficients {
			if len(row) != NumFeatures {
				return nil, fmt.Errorf("coefficient row %d has %d values, want %d", i, len(row), NumFeatures)
			}
		}
		return &logisticModel{coef: a.Coefficients, intercept: a.Intercepts, classes: a.Classes}, nil
	default:
		return nil, fmt.Errorf("unsupported model kind %q", a.Kind)
	}
}

func checkInput(x Features) error {
	for i, v := range x {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("%w: %s=%v", ErrInvalidInput, FeatureNames[i], v)
		}
	}
	return nil
}

// fromScores picks the class with the highest probability. Ties resolve to
// the lowest index so results stay deterministic.
func fromScores(probs []float64, classes []int) Prediction {
	best := 0
	for i := 1; i < len(probs); i++ {
		if probs[i] > probs[best] {
			best = i
		}
	}
	return Prediction{Class: classes[best], Confidence: probs[best], Probabilities: probs}
}

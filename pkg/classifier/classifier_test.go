package classifier

import (
	"errors"
	"math"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const treeArtifact = `{
  "kind": "decision_tree",
  "features": ["exam_avg", "assignment_avg", "attendance_pct"],
  "classes": [0, 1, 2],
  "tree": {
    "feature": 0, "threshold": 50,
    "left": {"value": [8, 2, 0]},
    "right": {
      "feature": 2, "threshold": 0.8,
      "left": {"value": [1, 6, 3]},
      "right": {"value": [0, 1, 9]}
    }
  }
}`

func TestDecisionTreePredict(t *testing.T) {
	model, err := Parse([]byte(treeArtifact))
	require.NoError(t, err)

	cases := []struct {
		name       string
		x          Features
		class      int
		confidence float64
	}{
		{"low exams", Features{40, 90, 1}, ClassLow, 0.8},
		{"threshold goes left", Features{50, 90, 1}, ClassLow, 0.8},
		{"poor attendance", Features{75, 80, 0.7}, ClassRegular, 0.6},
		{"good", Features{75, 80, 0.9}, ClassGood, 0.9},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p, err := model.Predict(tc.x)
			require.NoError(t, err)
			assert.Equal(t, tc.class, p.Class)
			assert.InDelta(t, tc.confidence, p.Confidence, 1e-9)
		})
	}
}

func TestPredictIsDeterministic(t *testing.T) {
	model, err := Parse([]byte(treeArtifact))
	require.NoError(t, err)
	first, err := model.Predict(Features{60, 70, 0.75})
	require.NoError(t, err)
	for i := 0; i < 50; i++ {
		again, err := model.Predict(Features{60, 70, 0.75})
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
}

func TestLogisticPredict(t *testing.T) {
	model, err := Parse([]byte(`{
	  "kind": "logistic",
	  "features": ["exam_avg", "assignment_avg", "attendance_pct"],
	  "classes": [0, 1, 2],
	  "coefficients": [[-0.2, -0.1, -2], [0, 0, 0], [0.2, 0.1, 2]],
	  "intercepts": [12, 0, -14]
	}`))
	require.NoError(t, err)

	low, err := model.Predict(Features{20, 20, 0.2})
	require.NoError(t, err)
	assert.Equal(t, ClassLow, low.Class)

	good, err := model.Predict(Features{95, 95, 1})
	require.NoError(t, err)
	assert.Equal(t, ClassGood, good.Class)

	var sum float64
	for _, p := range good.Probabilities {
		sum += p
	}
	assert.InDelta(t, 1, sum, 1e-9)
}

func TestParseRejectsBadArtifacts(t *testing.T) {
	cases := map[string]string{
		"wrong order":   `{"kind":"decision_tree","features":["assignment_avg","exam_avg","attendance_pct"],"classes":[0,1,2],"tree":{"value":[1,1,1]}}`,
		"two features":  `{"kind":"decision_tree","features":["exam_avg","assignment_avg"],"classes":[0,1,2],"tree":{"value":[1,1,1]}}`,
		"leaf width":    `{"kind":"decision_tree","features":["exam_avg","assignment_avg","attendance_pct"],"classes":[0,1,2],"tree":{"value":[1,1]}}`,
		"half split":    `{"kind":"decision_tree","features":["exam_avg","assignment_avg","attendance_pct"],"classes":[0,1,2],"tree":{"feature":0,"threshold":1,"left":{"value":[1,1,1]}}}`,
		"unknown kind":  `{"kind":"pickle","features":["exam_avg","assignment_avg","attendance_pct"],"classes":[0,1,2]}`,
		"logistic rows": `{"kind":"logistic","features":["exam_avg","assignment_avg","attendance_pct"],"classes":[0,1,2],"coefficients":[[1,2,3]],"intercepts":[0]}`,
		"not json":      `garbage`,
	}
	for name, raw := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Parse([]byte(raw))
			assert.Error(t, err)
		})
	}
}

func TestPredictRejectsNaN(t *testing.T) {
	model, err := Parse([]byte(treeArtifact))
	require.NoError(t, err)
	_, err = model.Predict(Features{math.NaN(), 1, 1})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestLazyLoadsOnceUnderConcurrency(t *testing.T) {
	var loads int32
	lazy := NewLazyFunc(func() (Model, error) {
		atomic.AddInt32(&loads, 1)
		return Parse([]byte(treeArtifact))
	})

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := lazy.Predict(Features{80, 80, 0.9})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()
	assert.EqualValues(t, 1, atomic.LoadInt32(&loads))
}

func TestLazyLoadFailureIsPermanent(t *testing.T) {
	var loads int32
	lazy := NewLazyFunc(func() (Model, error) {
		atomic.AddInt32(&loads, 1)
		return nil, errors.New("missing artifact")
	})

	for i := 0; i < 3; i++ {
		_, err := lazy.Predict(Features{1, 1, 1})
		assert.ErrorIs(t, err, ErrUnavailable)
	}
	assert.EqualValues(t, 1, atomic.LoadInt32(&loads))
}

func TestLoadFileShippedModel(t *testing.T) {
	model, err := LoadFile(filepath.Join("..", "..", "models", "risk_model.json"))
	require.NoError(t, err)

	p, err := model.Predict(Features{90, 85, 0.95})
	require.NoError(t, err)
	assert.Equal(t, ClassGood, p.Class)

	p, err = model.Predict(Features{30, 40, 0.5})
	require.NoError(t, err)
	assert.Equal(t, ClassLow, p.Class)
}

func TestNewLazyMissingFile(t *testing.T) {
	lazy := NewLazy(filepath.Join(t.TempDir(), "absent.json"))

	err := lazy.Ready()
	assert.ErrorIs(t, err, ErrUnavailable)
	assert.True(t, strings.Contains(err.Error(), "absent.json"))
}

package classifier

import "math"

// logisticModel is a multinomial logistic regression: softmax over one
// linear score per class.
type logisticModel struct {
	coef      [][]float64
	intercept []float64
	classes   []int
}

func (m *logisticModel) Predict(x Features) (Prediction, error) {
	if err := checkInput(x); err != nil {
		return Prediction{}, err
	}
	scores := make([]float64, len(m.coef))
	maxScore := math.Inf(-1)
	for k, row := range m.coef {
		s := m.intercept[k]
		for i, w := range row {
			s += w * x[i]
		}
		scores[k] = s
		if s > maxScore {
			maxScore = s
		}
	}
	var sum float64
	for k, s := range scores {
		scores[k] = math.Exp(s - maxScore)
		sum += scores[k]
	}
	for k := range scores {
		scores[k] /= sum
	}
	return fromScores(scores, m.classes), nil
}

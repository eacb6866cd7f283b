package classifier

import "fmt"

// treeNode follows the usual CART layout: rows with x[feature] <= threshold
// go left. Leaves carry per-class sample counts.
type treeNode struct {
	Feature   int       `json:"feature"`
	Threshold float64   `json:"threshold"`
	Left      *treeNode `json:"left,omitempty"`
	Right     *treeNode `json:"right,omitempty"`
	Value     []float64 `json:"value,omitempty"`
}

func (n *treeNode) leaf() bool {
	return n.Left == nil && n.Right == nil
}

func (n *treeNode) validate(numClasses int) error {
	if n.leaf() {
		if len(n.Value) != numClasses {
			return fmt.Errorf("leaf has %d class counts, want %d", len(n.Value), numClasses)
		}
		var total float64
		for _, v := range n.Value {
			if v < 0 {
				return fmt.Errorf("leaf has negative class count")
			}
			total += v
		}
		if total == 0 {
			return fmt.Errorf("leaf has no samples")
		}
		return nil
	}
	if n.Left == nil || n.Right == nil {
		return fmt.Errorf("split on feature %d is missing a branch", n.Feature)
	}
	if n.Feature < 0 || n.Feature >= NumFeatures {
		return fmt.Errorf("split on unknown feature %d", n.Feature)
	}
	if err := n.Left.validate(numClasses); err != nil {
		return err
	}
	return n.Right.validate(numClasses)
}

type treeModel struct {
	root    *treeNode
	classes []int
}

func (m *treeModel) Predict(x Features) (Prediction, error) {
	if err := checkInput(x); err != nil {
		return Prediction{}, err
	}
	node := m.root
	for !node.leaf() {
		if x[node.Feature] <= node.Threshold {
			node = node.Left
		} else {
			node = node.Right
		}
	}
	var total float64
	for _, v := range node.Value {
		total += v
	}
	probs := make([]float64, len(node.Value))
	for i, v := range node.Value {
		probs[i] = v / total
	}
	return fromScores(probs, m.classes), nil
}

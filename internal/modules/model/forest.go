package model

import (
	"fmt"
	"math"

	"github.com/aristath/salary-predictor/internal/domain"
)

// TreeNode is one node of a flattened decision tree.
// Split nodes send v[Feature] <= Threshold to Left and everything else to Right.
type TreeNode struct {
	Feature   int     `msgpack:"feature" json:"feature"`
	Threshold float64 `msgpack:"threshold" json:"threshold"`
	Left      int     `msgpack:"left" json:"left"`
	Right     int     `msgpack:"right" json:"right"`
	Leaf      bool    `msgpack:"leaf" json:"leaf"`
	Class     int     `msgpack:"class" json:"class"`
}

// DecisionTree stores nodes in a flat slice rooted at index 0.
type DecisionTree struct {
	Nodes []TreeNode `msgpack:"nodes" json:"nodes"`
}

func (t *DecisionTree) predict(v domain.FeatureVector) (int, error) {
	idx := 0
	// A well-formed tree visits each node at most once on any path.
	for steps := 0; steps <= len(t.Nodes); steps++ {
		node := t.Nodes[idx]
		if node.Leaf {
			return node.Class, nil
		}
		if v[node.Feature] <= node.Threshold {
			idx = node.Left
		} else {
			idx = node.Right
		}
	}
	return 0, fmt.Errorf("decision tree did not reach a leaf after %d steps", len(t.Nodes)+1)
}

func (t *DecisionTree) validate(width int) error {
	if len(t.Nodes) == 0 {
		return fmt.Errorf("tree has no nodes")
	}
	for i, node := range t.Nodes {
		if node.Leaf {
			if !domain.IncomeClass(node.Class).Valid() {
				return fmt.Errorf("node %d has class %d", i, node.Class)
			}
			continue
		}
		if node.Feature < 0 || node.Feature >= width {
			return fmt.Errorf("node %d splits on feature %d of %d", i, node.Feature, width)
		}
		if node.Left < 0 || node.Left >= len(t.Nodes) || node.Right < 0 || node.Right >= len(t.Nodes) {
			return fmt.Errorf("node %d has child outside [0, %d)", i, len(t.Nodes))
		}
		if math.IsNaN(node.Threshold) {
			return fmt.Errorf("node %d has NaN threshold", i)
		}
	}
	return nil
}

// RandomForest is a majority vote over decision trees. Ties go to class 0.
type RandomForest struct {
	NFeatures int            `msgpack:"n_features" json:"n_features"`
	Trees     []DecisionTree `msgpack:"trees" json:"trees"`
}

// Predict implements domain.Classifier.
func (f *RandomForest) Predict(v domain.FeatureVector) (int, error) {
	if len(v) != f.NFeatures {
		return 0, fmt.Errorf("random forest expects %d features, got %d", f.NFeatures, len(v))
	}
	if err := checkFinite(v); err != nil {
		return 0, err
	}

	var votes [2]int
	for i := range f.Trees {
		class, err := f.Trees[i].predict(v)
		if err != nil {
			return 0, fmt.Errorf("tree %d: %w", i, err)
		}
		votes[class]++
	}

	if votes[domain.ClassAbove50K] > votes[domain.ClassAtMost50K] {
		return int(domain.ClassAbove50K), nil
	}
	return int(domain.ClassAtMost50K), nil
}

// Width returns the number of input features.
func (f *RandomForest) Width() int {
	return f.NFeatures
}

func (f *RandomForest) validate() error {
	if f.NFeatures <= 0 {
		return fmt.Errorf("random forest declares %d features", f.NFeatures)
	}
	if len(f.Trees) == 0 {
		return fmt.Errorf("random forest has no trees")
	}
	for i := range f.Trees {
		if err := f.Trees[i].validate(f.NFeatures); err != nil {
			return fmt.Errorf("tree %d: %w", i, err)
		}
	}
	return nil
}

package model

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/aristath/salary-predictor/internal/domain"
)

// LogisticRegression is a binary linear classifier over scaled features.
type LogisticRegression struct {
	Weights   []float64 `msgpack:"weights" json:"weights"`
	Intercept float64   `msgpack:"intercept" json:"intercept"`
	// Threshold on the positive-class probability. Zero means 0.5.
	Threshold float64 `msgpack:"threshold" json:"threshold"`
}

// Probability returns P(class 1 | v).
func (m *LogisticRegression) Probability(v domain.FeatureVector) (float64, error) {
	if len(v) != len(m.Weights) {
		return 0, fmt.Errorf("logistic regression expects %d features, got %d", len(m.Weights), len(v))
	}
	if err := checkFinite(v); err != nil {
		return 0, err
	}

	z := floats.Dot(m.Weights, v) + m.Intercept
	return 1 / (1 + math.Exp(-z)), nil
}

// Predict implements domain.Classifier.
func (m *LogisticRegression) Predict(v domain.FeatureVector) (int, error) {
	p, err := m.Probability(v)
	if err != nil {
		return 0, err
	}

	threshold := m.Threshold
	if threshold == 0 {
		threshold = 0.5
	}
	if p > threshold {
		return int(domain.ClassAbove50K), nil
	}
	return int(domain.ClassAtMost50K), nil
}

// Width returns the number of input features.
func (m *LogisticRegression) Width() int {
	return len(m.Weights)
}

func (m *LogisticRegression) validate() error {
	if len(m.Weights) == 0 {
		return fmt.Errorf("logistic regression has no weights")
	}
	if m.Threshold < 0 || m.Threshold >= 1 {
		return fmt.Errorf("logistic regression threshold %v outside [0, 1)", m.Threshold)
	}
	if math.IsNaN(m.Intercept) || math.IsInf(m.Intercept, 0) {
		return fmt.Errorf("logistic regression intercept is %v", m.Intercept)
	}
	return checkFinite(m.Weights)
}

package testing

import (
	"sync"

	"github.com/aristath/salary-predictor/internal/domain"
)

// MockScaler is a Scaler returning a configured vector or error and recording calls.
type MockScaler struct {
	mu     sync.Mutex
	output domain.FeatureVector
	err    error
	calls  []domain.FeatureVector
}

// NewMockScaler creates a scaler that returns its input unchanged (copied).
func NewMockScaler() *MockScaler {
	return &MockScaler{}
}

// SetOutput fixes the vector returned by Transform.
func (m *MockScaler) SetOutput(v domain.FeatureVector) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.output = v
}

// SetError sets the error to return
func (m *MockScaler) SetError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}

// Transform implements domain.Scaler
func (m *MockScaler) Transform(v domain.FeatureVector) (domain.FeatureVector, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, v.Clone())
	if m.err != nil {
		return nil, m.err
	}
	if m.output != nil {
		return m.output.Clone(), nil
	}
	return v.Clone(), nil
}

// Calls returns copies of every vector passed to Transform.
func (m *MockScaler) Calls() []domain.FeatureVector {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]domain.FeatureVector, len(m.calls))
	copy(out, m.calls)
	return out
}

// MockClassifier returns a fixed class and counts calls.
type MockClassifier struct {
	mu    sync.Mutex
	class int
	err   error
	calls []domain.FeatureVector
}

// NewMockClassifier creates a classifier fixture that always answers class.
func NewMockClassifier(class int) *MockClassifier {
	return &MockClassifier{class: class}
}

// SetError sets the error to return
func (m *MockClassifier) SetError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}

// Predict implements domain.Classifier
func (m *MockClassifier) Predict(v domain.FeatureVector) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, v.Clone())
	if m.err != nil {
		return 0, m.err
	}
	return m.class, nil
}

// CallCount returns how many times Predict ran.
func (m *MockClassifier) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.calls)
}

// Calls returns copies of every vector passed to Predict.
func (m *MockClassifier) Calls() []domain.FeatureVector {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]domain.FeatureVector, len(m.calls))
	copy(out, m.calls)
	return out
}

// Package model loads and stores the serialized classifier, its scaler and the
// ordered feature names the classifier was trained on.
package model

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/aristath/salary-predictor/internal/domain"
)

// FormatVersion tags artifacts written by Save.
const FormatVersion = "salary-predictor/v1"

// Required artifact keys.
const (
	KeyModel        = "model"
	KeyScaler       = "scaler"
	KeyFeatureNames = "feature_names"
)

// ErrMissingKey is wrapped by Load when a required key is absent or empty.
var ErrMissingKey = errors.New("model artifact is missing a required key")

// Kind names a supported classifier family.
type Kind string

const (
	KindLogisticRegression Kind = "logistic_regression"
	KindRandomForest       Kind = "random_forest"
)

// Spec holds exactly one classifier, selected by Kind.
type Spec struct {
	Kind     Kind                `msgpack:"kind" json:"kind"`
	Logistic *LogisticRegression `msgpack:"logistic,omitempty" json:"logistic,omitempty"`
	Forest   *RandomForest       `msgpack:"forest,omitempty" json:"forest,omitempty"`
}

// Metadata describes how the artifact was produced. It is informational only.
type Metadata struct {
	Dataset   string  `msgpack:"dataset" json:"dataset"`
	Algorithm string  `msgpack:"algorithm" json:"algorithm"`
	Accuracy  float64 `msgpack:"accuracy" json:"accuracy"`
	CreatedAt string  `msgpack:"created_at" json:"created_at"`
	Notes     string  `msgpack:"notes" json:"notes,omitempty"`
}

// Artifact is the deployed model bundle. Loaded once at startup and never mutated.
type Artifact struct {
	Format       string          `msgpack:"format" json:"format"`
	Model        *Spec           `msgpack:"model" json:"model"`
	Scaler       *StandardScaler `msgpack:"scaler" json:"scaler"`
	FeatureNames []string        `msgpack:"feature_names" json:"feature_names"`
	Metadata     Metadata        `msgpack:"metadata" json:"metadata"`
}

// Load reads and decodes the artifact at path.
//
// Any failure here is a startup failure: the file must exist, decode, and carry
// non-empty model, scaler and feature_names entries.
func Load(path string) (*Artifact, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read model artifact %s: %w", path, err)
	}
	return Decode(data)
}

// Decode parses an artifact from its msgpack encoding.
func Decode(data []byte) (*Artifact, error) {
	var raw map[string]msgpack.RawMessage
	if err := msgpack.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to decode model artifact: %w", err)
	}

	for _, key := range []string{KeyModel, KeyScaler, KeyFeatureNames} {
		value, ok := raw[key]
		if !ok || isNil(value) {
			return nil, fmt.Errorf("%w: %s", ErrMissingKey, key)
		}
	}

	var a Artifact
	if err := msgpack.Unmarshal(data, &a); err != nil {
		return nil, fmt.Errorf("failed to decode model artifact: %w", err)
	}
	if err := a.Check(); err != nil {
		return nil, err
	}
	return &a, nil
}

// Save encodes a to path, replacing any existing file atomically.
func Save(path string, a *Artifact) error {
	if err := a.Check(); err != nil {
		return err
	}
	if a.Format == "" {
		a.Format = FormatVersion
	}

	data, err := msgpack.Marshal(a)
	if err != nil {
		return fmt.Errorf("failed to encode model artifact: %w", err)
	}

	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create artifact directory: %w", err)
		}
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("failed to write model artifact: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("failed to move model artifact into place: %w", err)
	}
	return nil
}

// Check verifies that the required parts are present and well formed.
func (a *Artifact) Check() error {
	if a.Model == nil {
		return fmt.Errorf("%w: %s", ErrMissingKey, KeyModel)
	}
	if a.Scaler == nil || a.Scaler.Width() == 0 {
		return fmt.Errorf("%w: %s", ErrMissingKey, KeyScaler)
	}
	if len(a.FeatureNames) == 0 {
		return fmt.Errorf("%w: %s", ErrMissingKey, KeyFeatureNames)
	}
	if err := a.Scaler.validate(); err != nil {
		return fmt.Errorf("invalid scaler: %w", err)
	}
	if _, err := a.Model.classifier(); err != nil {
		return err
	}
	return nil
}

// Consistency reports whether the scaler and classifier widths agree with the
// feature names. A mismatch is not a load failure: it surfaces per request as a
// prediction failure, so callers only log it.
func (a *Artifact) Consistency() error {
	n := len(a.FeatureNames)
	if w := a.Scaler.Width(); w != n {
		return fmt.Errorf("scaler expects %d features but artifact lists %d", w, n)
	}
	c, err := a.Model.classifier()
	if err != nil {
		return err
	}
	if w := c.Width(); w != n {
		return fmt.Errorf("classifier expects %d features but artifact lists %d", w, n)
	}
	return nil
}

// Classifier returns the configured classifier.
func (a *Artifact) Classifier() (domain.Classifier, error) {
	return a.Model.classifier()
}

// Schema returns a copy of the ordered feature names.
func (a *Artifact) Schema() []string {
	out := make([]string, len(a.FeatureNames))
	copy(out, a.FeatureNames)
	return out
}

type sizedClassifier interface {
	domain.Classifier
	Width() int
}

func (s *Spec) classifier() (sizedClassifier, error) {
	switch s.Kind {
	case KindLogisticRegression:
		if s.Logistic == nil {
			return nil, fmt.Errorf("%w: %s.logistic", ErrMissingKey, KeyModel)
		}
		if err := s.Logistic.validate(); err != nil {
			return nil, fmt.Errorf("invalid classifier: %w", err)
		}
		return s.Logistic, nil
	case KindRandomForest:
		if s.Forest == nil {
			return nil, fmt.Errorf("%w: %s.forest", ErrMissingKey, KeyModel)
		}
		if err := s.Forest.validate(); err != nil {
			return nil, fmt.Errorf("invalid classifier: %w", err)
		}
		return s.Forest, nil
	default:
		return nil, fmt.Errorf("unsupported classifier kind %q", s.Kind)
	}
}

// isNil reports whether a raw msgpack value is the nil marker.
func isNil(raw msgpack.RawMessage) bool {
	return len(raw) == 0 || (len(raw) == 1 && raw[0] == 0xc0)
}

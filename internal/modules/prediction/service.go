// Package prediction turns an encoded feature vector into a PredictionResult.
package prediction

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/aristath/salary-predictor/internal/domain"
)

// Monthly figures shown for each class. These are presentation constants,
// not model output.
const (
	MonthlyAbove50K  = 60000
	MonthlyAtMost50K = 25000
)

// EstimateBasis labels how MonthlyEstimate was derived.
const EstimateBasis = "class-constant"

// Service runs the scaler and classifier of the loaded artifact.
// It holds no per-request state and is safe for concurrent use.
type Service struct {
	scaler     domain.Scaler
	classifier domain.Classifier
	log        zerolog.Logger
}

// NewService creates a new prediction service
func NewService(scaler domain.Scaler, classifier domain.Classifier, log zerolog.Logger) *Service {
	return &Service{
		scaler:     scaler,
		classifier: classifier,
		log:        log.With().Str("service", "prediction").Logger(),
	}
}

// Predict scales vector, classifies it and derives the displayed figures.
//
// vector is not modified. Scaler or classifier failures, and classes other
// than 0 or 1, are returned as *domain.PredictionError. There is no retry and
// no fallback result.
func (s *Service) Predict(vector domain.FeatureVector) (*domain.PredictionResult, error) {
	scaled, err := s.scaler.Transform(vector.Clone())
	if err != nil {
		return nil, &domain.PredictionError{Stage: domain.StageScale, Cause: err}
	}

	raw, err := s.classifier.Predict(scaled)
	if err != nil {
		return nil, &domain.PredictionError{Stage: domain.StageClassify, Cause: err}
	}

	class := domain.IncomeClass(raw)
	if !class.Valid() {
		return nil, &domain.PredictionError{
			Stage: domain.StageClassify,
			Cause: fmt.Errorf("classifier returned class %d, expected 0 or 1", raw),
		}
	}

	monthly := MonthlyForClass(class)
	s.log.Debug().
		Int("class", raw).
		Int("monthly", monthly).
		Msg("Prediction complete")

	return &domain.PredictionResult{
		Class:           class,
		Label:           class.Label(),
		MonthlyEstimate: monthly,
		AnnualEstimate:  monthly * 12,
	}, nil
}

// MonthlyForClass returns the fixed monthly figure for class.
func MonthlyForClass(class domain.IncomeClass) int {
	if class == domain.ClassAbove50K {
		return MonthlyAbove50K
	}
	return MonthlyAtMost50K
}

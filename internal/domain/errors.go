package domain

import (
	"errors"
	"fmt"
	"strings"
)

// ValidationError reports a submitted value outside its allowed range or label set.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

// ValidationErrors collects every violation of one submission.
type ValidationErrors []*ValidationError

func (e ValidationErrors) Error() string {
	messages := make([]string, 0, len(e))
	for _, err := range e {
		messages = append(messages, err.Error())
	}
	return strings.Join(messages, "; ")
}

// FeatureMismatchError is raised when the encoded vector length differs from
// the model's feature list. Vectors are never padded or truncated.
type FeatureMismatchError struct {
	Expected int
	Actual   int
}

func (e *FeatureMismatchError) Error() string {
	return fmt.Sprintf("feature mismatch: expected %d features, got %d", e.Expected, e.Actual)
}

// LookupError means a categorical label has no code in its table.
// The collector's closed option lists make this unreachable for form input.
type LookupError struct {
	Attribute Field
	Label     string
}

func (e *LookupError) Error() string {
	return fmt.Sprintf("no %s code for label %q", e.Attribute, e.Label)
}

// PredictionStage identifies which model call failed.
type PredictionStage string

const (
	StageScale    PredictionStage = "scale"
	StageClassify PredictionStage = "classify"
)

// PredictionError wraps a scaler or classifier failure.
type PredictionError struct {
	Stage PredictionStage
	Cause error
}

func (e *PredictionError) Error() string {
	return fmt.Sprintf("prediction failed during %s: %v", e.Stage, e.Cause)
}

func (e *PredictionError) Unwrap() error {
	return e.Cause
}

// ErrorKind is the taxonomy name reported to API clients.
type ErrorKind string

const (
	KindValidation      ErrorKind = "ValidationError"
	KindFeatureMismatch ErrorKind = "FeatureMismatch"
	KindLookup          ErrorKind = "LookupFailure"
	KindPrediction      ErrorKind = "PredictionFailure"
	KindInternal        ErrorKind = "InternalError"
)

// KindOf classifies err, looking through wrapping.
func KindOf(err error) ErrorKind {
	var (
		validation  *ValidationError
		validations ValidationErrors
		mismatch    *FeatureMismatchError
		lookup      *LookupError
		prediction  *PredictionError
	)
	switch {
	case err == nil:
		return ""
	case errors.As(err, &validations), errors.As(err, &validation):
		return KindValidation
	case errors.As(err, &mismatch):
		return KindFeatureMismatch
	case errors.As(err, &lookup):
		return KindLookup
	case errors.As(err, &prediction):
		return KindPrediction
	default:
		return KindInternal
	}
}

package prediction

import (
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aristath/salary-predictor/internal/domain"
	testingpkg "github.com/aristath/salary-predictor/internal/testing"
)

func TestPredict_AboveFiftyK(t *testing.T) {
	scaler := testingpkg.NewMockScaler()
	classifier := testingpkg.NewMockClassifier(1)
	service := NewService(scaler, classifier, zerolog.Nop())

	result, err := service.Predict(testingpkg.ScenarioVector.Clone())
	require.NoError(t, err)

	assert.Equal(t, domain.ClassAbove50K, result.Class)
	assert.Equal(t, ">50K", result.Label)
	assert.Equal(t, 60000, result.MonthlyEstimate)
	assert.Equal(t, 720000, result.AnnualEstimate)
}

func TestPredict_AtMostFiftyK(t *testing.T) {
	service := NewService(testingpkg.NewMockScaler(), testingpkg.NewMockClassifier(0), zerolog.Nop())

	result, err := service.Predict(testingpkg.ScenarioVector.Clone())
	require.NoError(t, err)

	assert.Equal(t, domain.ClassAtMost50K, result.Class)
	assert.Equal(t, "<=50K", result.Label)
	assert.Equal(t, 25000, result.MonthlyEstimate)
	assert.Equal(t, 300000, result.AnnualEstimate)
}

func TestPredict_ClassifierSeesScaledVector(t *testing.T) {
	scaler := testingpkg.NewMockScaler()
	scaled := domain.FeatureVector{0.1, 0.2}
	scaler.SetOutput(scaled)
	classifier := testingpkg.NewMockClassifier(0)
	service := NewService(scaler, classifier, zerolog.Nop())

	_, err := service.Predict(domain.FeatureVector{10, 20})
	require.NoError(t, err)

	require.Len(t, scaler.Calls(), 1)
	assert.Equal(t, domain.FeatureVector{10, 20}, scaler.Calls()[0])
	require.Len(t, classifier.Calls(), 1)
	assert.Equal(t, scaled, classifier.Calls()[0])
}

func TestPredict_DeterministicAndDoesNotMutate(t *testing.T) {
	service := NewService(testingpkg.NewMockScaler(), testingpkg.NewMockClassifier(1), zerolog.Nop())
	vector := testingpkg.ScenarioVector.Clone()

	first, err := service.Predict(vector)
	require.NoError(t, err)
	second, err := service.Predict(vector)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, testingpkg.ScenarioVector, vector)
}

func TestPredict_AnnualIsTwelveTimesMonthly(t *testing.T) {
	for _, class := range []int{0, 1} {
		service := NewService(testingpkg.NewMockScaler(), testingpkg.NewMockClassifier(class), zerolog.Nop())
		result, err := service.Predict(testingpkg.ScenarioVector)
		require.NoError(t, err)
		assert.Equal(t, result.MonthlyEstimate*12, result.AnnualEstimate)
	}
}

func TestPredict_ScalerFailure(t *testing.T) {
	scaler := testingpkg.NewMockScaler()
	cause := errors.New("scaler expects 14 features, got 5")
	scaler.SetError(cause)
	classifier := testingpkg.NewMockClassifier(1)
	service := NewService(scaler, classifier, zerolog.Nop())

	result, err := service.Predict(domain.FeatureVector{1, 2, 3, 4, 5})
	assert.Nil(t, result)

	var predictionErr *domain.PredictionError
	require.ErrorAs(t, err, &predictionErr)
	assert.Equal(t, domain.StageScale, predictionErr.Stage)
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, 0, classifier.CallCount())
}

func TestPredict_ClassifierFailure(t *testing.T) {
	classifier := testingpkg.NewMockClassifier(1)
	cause := errors.New("model exploded")
	classifier.SetError(cause)
	service := NewService(testingpkg.NewMockScaler(), classifier, zerolog.Nop())

	result, err := service.Predict(testingpkg.ScenarioVector)
	assert.Nil(t, result)

	var predictionErr *domain.PredictionError
	require.ErrorAs(t, err, &predictionErr)
	assert.Equal(t, domain.StageClassify, predictionErr.Stage)
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, domain.KindPrediction, domain.KindOf(err))
}

func TestPredict_UnexpectedClass(t *testing.T) {
	service := NewService(testingpkg.NewMockScaler(), testingpkg.NewMockClassifier(2), zerolog.Nop())

	result, err := service.Predict(testingpkg.ScenarioVector)
	assert.Nil(t, result)

	var predictionErr *domain.PredictionError
	require.ErrorAs(t, err, &predictionErr)
	assert.Equal(t, domain.StageClassify, predictionErr.Stage)
}

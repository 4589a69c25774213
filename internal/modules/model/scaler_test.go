package model

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aristath/salary-predictor/internal/domain"
)

func TestFitStandardScaler(t *testing.T) {
	scaler, err := FitStandardScaler([][]float64{
		{1, 10, 0},
		{3, 10, 4},
	})
	require.NoError(t, err)

	assert.Equal(t, []float64{2, 10, 2}, scaler.Mean)
	// Population variance: column 0 is 1, column 1 is constant, column 2 is 4.
	assert.Equal(t, []float64{1, 1, 2}, scaler.Scale)
	assert.Equal(t, 3, scaler.Width())
}

func TestFitStandardScaler_Errors(t *testing.T) {
	_, err := FitStandardScaler(nil)
	assert.Error(t, err)

	_, err = FitStandardScaler([][]float64{{}})
	assert.Error(t, err)

	_, err = FitStandardScaler([][]float64{{1, 2}, {3}})
	assert.Error(t, err)
}

func TestStandardScaler_Transform(t *testing.T) {
	scaler := &StandardScaler{Mean: []float64{2, 10}, Scale: []float64{0.5, 1}}
	input := domain.FeatureVector{3, 10}

	out, err := scaler.Transform(input)
	require.NoError(t, err)

	assert.Equal(t, domain.FeatureVector{2, 0}, out)
	assert.Equal(t, domain.FeatureVector{3, 10}, input, "input must not be modified")
}

func TestStandardScaler_TransformRejectsBadInput(t *testing.T) {
	scaler := &StandardScaler{Mean: []float64{0, 0}, Scale: []float64{1, 1}}

	_, err := scaler.Transform(domain.FeatureVector{1})
	assert.Error(t, err)

	_, err = scaler.Transform(domain.FeatureVector{1, math.NaN()})
	assert.Error(t, err)

	_, err = scaler.Transform(domain.FeatureVector{math.Inf(1), 0})
	assert.Error(t, err)
}

func TestStandardScaler_Validate(t *testing.T) {
	assert.NoError(t, (&StandardScaler{Mean: []float64{1}, Scale: []float64{1}}).validate())
	assert.Error(t, (&StandardScaler{}).validate())
	assert.Error(t, (&StandardScaler{Mean: []float64{1, 2}, Scale: []float64{1}}).validate())
	assert.Error(t, (&StandardScaler{Mean: []float64{1}, Scale: []float64{0}}).validate())
}

package model

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/aristath/salary-predictor/internal/domain"
)

// StandardScaler centres each feature on its training mean and divides by the
// population standard deviation.
type StandardScaler struct {
	Mean  []float64 `msgpack:"mean" json:"mean"`
	Scale []float64 `msgpack:"scale" json:"scale"`
}

// FitStandardScaler computes per-column statistics over rows.
// Columns with zero variance get a scale of 1 so they transform to 0.
func FitStandardScaler(rows [][]float64) (*StandardScaler, error) {
	if len(rows) == 0 {
		return nil, fmt.Errorf("cannot fit scaler on zero rows")
	}

	width := len(rows[0])
	if width == 0 {
		return nil, fmt.Errorf("cannot fit scaler on zero-width rows")
	}

	s := &StandardScaler{
		Mean:  make([]float64, width),
		Scale: make([]float64, width),
	}

	column := make([]float64, len(rows))
	for j := 0; j < width; j++ {
		for i, row := range rows {
			if len(row) != width {
				return nil, fmt.Errorf("row %d has %d values, expected %d", i, len(row), width)
			}
			column[i] = row[j]
		}

		mean, variance := stat.PopMeanVariance(column, nil)
		s.Mean[j] = mean
		s.Scale[j] = 1
		if variance > 0 {
			s.Scale[j] = math.Sqrt(variance)
		}
	}

	return s, nil
}

// Width returns the number of features the scaler was fitted on.
func (s *StandardScaler) Width() int {
	return len(s.Mean)
}

// Transform implements domain.Scaler.
func (s *StandardScaler) Transform(v domain.FeatureVector) (domain.FeatureVector, error) {
	if len(v) != len(s.Mean) {
		return nil, fmt.Errorf("scaler expects %d features, got %d", len(s.Mean), len(v))
	}
	if err := checkFinite(v); err != nil {
		return nil, err
	}

	out := v.Clone()
	floats.Sub(out, s.Mean)
	floats.Div(out, s.Scale)
	return out, nil
}

func (s *StandardScaler) validate() error {
	if len(s.Mean) == 0 {
		return fmt.Errorf("scaler has no statistics")
	}
	if len(s.Mean) != len(s.Scale) {
		return fmt.Errorf("scaler mean has %d values but scale has %d", len(s.Mean), len(s.Scale))
	}
	for i, scale := range s.Scale {
		if scale == 0 || math.IsNaN(scale) || math.IsInf(scale, 0) {
			return fmt.Errorf("scaler scale[%d] is %v", i, scale)
		}
	}
	return nil
}

func checkFinite(v []float64) error {
	for i, x := range v {
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return fmt.Errorf("feature %d is not finite (%v)", i, x)
		}
	}
	return nil
}

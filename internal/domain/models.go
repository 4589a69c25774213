// Package domain provides the core types shared by the collector, encoder and prediction service.
package domain

// Field names a RawInputs attribute that a model feature can be bound to.
type Field string

const (
	FieldAge           Field = "age"
	FieldGender        Field = "gender"
	FieldEducation     Field = "education"
	FieldOccupation    Field = "occupation"
	FieldHoursPerWeek  Field = "hours_per_week"
	FieldCapitalGain   Field = "capital_gain"
	FieldCapitalLoss   Field = "capital_loss"
	FieldNativeCountry Field = "native_country"
)

// NumericFields are passed through to the feature vector unchanged.
var NumericFields = []Field{FieldAge, FieldHoursPerWeek, FieldCapitalGain, FieldCapitalLoss}

// CategoricalFields are encoded through a CategoryTable.
var CategoricalFields = []Field{FieldGender, FieldEducation, FieldOccupation, FieldNativeCountry}

// IsNumeric reports whether the field carries a raw number.
func (f Field) IsNumeric() bool {
	for _, n := range NumericFields {
		if n == f {
			return true
		}
	}
	return false
}

// IsCategorical reports whether the field carries a label.
func (f Field) IsCategorical() bool {
	for _, c := range CategoricalFields {
		if c == f {
			return true
		}
	}
	return false
}

// Known reports whether the field exists on RawInputs.
func (f Field) Known() bool {
	return f.IsNumeric() || f.IsCategorical()
}

// RawInputs is one complete form submission.
// Name is free text and never reaches the model.
type RawInputs struct {
	Name          string `json:"name"`
	Age           int    `json:"age"`
	Gender        string `json:"gender"`
	Education     string `json:"education"`
	Occupation    string `json:"occupation"`
	HoursPerWeek  int    `json:"hours_per_week"`
	CapitalGain   int    `json:"capital_gain"`
	CapitalLoss   int    `json:"capital_loss"`
	NativeCountry string `json:"native_country"`
}

// Numeric returns the value of a numeric field.
func (r RawInputs) Numeric(f Field) (float64, bool) {
	switch f {
	case FieldAge:
		return float64(r.Age), true
	case FieldHoursPerWeek:
		return float64(r.HoursPerWeek), true
	case FieldCapitalGain:
		return float64(r.CapitalGain), true
	case FieldCapitalLoss:
		return float64(r.CapitalLoss), true
	}
	return 0, false
}

// Category returns the label of a categorical field.
func (r RawInputs) Category(f Field) (string, bool) {
	switch f {
	case FieldGender:
		return r.Gender, true
	case FieldEducation:
		return r.Education, true
	case FieldOccupation:
		return r.Occupation, true
	case FieldNativeCountry:
		return r.NativeCountry, true
	}
	return "", false
}

// FeatureVector is the ordered numeric input the classifier was trained on.
type FeatureVector []float64

// Clone returns an independent copy.
func (v FeatureVector) Clone() FeatureVector {
	if v == nil {
		return nil
	}
	out := make(FeatureVector, len(v))
	copy(out, v)
	return out
}

// IncomeClass is the binary classifier output.
type IncomeClass int

const (
	ClassAtMost50K IncomeClass = 0
	ClassAbove50K  IncomeClass = 1
)

// Valid reports whether the class is one of the two trained labels.
func (c IncomeClass) Valid() bool {
	return c == ClassAtMost50K || c == ClassAbove50K
}

// Label returns the human-readable income bracket.
func (c IncomeClass) Label() string {
	if c == ClassAbove50K {
		return ">50K"
	}
	return "<=50K"
}

// PredictionResult is what a successful submission renders.
//
// MonthlyEstimate is NOT produced by the model: it is a fixed presentation
// figure selected by Class alone, and AnnualEstimate is always MonthlyEstimate*12.
type PredictionResult struct {
	Class           IncomeClass `json:"class"`
	Label           string      `json:"label"`
	MonthlyEstimate int         `json:"monthly_estimate"`
	AnnualEstimate  int         `json:"annual_estimate"`
}

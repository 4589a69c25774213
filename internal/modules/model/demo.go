package model

import (
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/aristath/salary-predictor/internal/domain"
	"github.com/aristath/salary-predictor/internal/modules/catalog"
	"github.com/aristath/salary-predictor/internal/modules/encoding"
)

// DemoSchema is the census training order used by demo artifacts.
var DemoSchema = []string{
	"age", "workclass", "fnlwgt", "educational-num", "marital-status", "occupation",
	"relationship", "race", "gender", "capital-gain", "capital-loss", "hours-per-week",
	"native-country", "extra",
}

// Weights in standardized units. Features absent here get weight 0.
var demoWeights = map[string]float64{
	"age":             0.9,
	"educational-num": 1.1,
	"occupation":      0.5,
	"gender":          0.4,
	"capital-gain":    1.6,
	"capital-loss":    0.3,
	"hours-per-week":  0.7,
}

const demoIntercept = -0.5

var (
	demoAges  = []int{25, 40, 55}
	demoHours = []int{20, 40, 60}
	demoGains = []int{0, 15000}
	// Spans the accepted capital loss range so the scaler never sees a constant column.
	demoLosses = []int{0, 50000, 100000}
)

// BuildDemoArtifact produces a runnable artifact without external training.
//
// The scaler is fitted on every category combination crossed with a few
// representative numeric points, encoded through the catalog. The classifier is
// a logistic regression with fixed weights. The result is illustrative and is
// labelled as such in its metadata.
func BuildDemoArtifact(c *catalog.Catalog, now time.Time) (*Artifact, error) {
	enc, err := encoding.NewFromCatalog(c, zerolog.Nop())
	if err != nil {
		return nil, fmt.Errorf("failed to create encoder: %w", err)
	}

	rows, err := demoRows(c, enc)
	if err != nil {
		return nil, err
	}

	scaler, err := FitStandardScaler(rows)
	if err != nil {
		return nil, fmt.Errorf("failed to fit scaler: %w", err)
	}

	weights := make([]float64, len(DemoSchema))
	for i, name := range DemoSchema {
		weights[i] = demoWeights[name]
	}

	schema := make([]string, len(DemoSchema))
	copy(schema, DemoSchema)

	return &Artifact{
		Format: FormatVersion,
		Model: &Spec{
			Kind:     KindLogisticRegression,
			Logistic: &LogisticRegression{Weights: weights, Intercept: demoIntercept},
		},
		Scaler:       scaler,
		FeatureNames: schema,
		Metadata: Metadata{
			Dataset:   "Modeled after Indian Census Income Data",
			Algorithm: "Logistic Regression",
			CreatedAt: now.UTC().Format(time.RFC3339),
			Notes:     "demo weights, not trained",
		},
	}, nil
}

func demoRows(c *catalog.Catalog, enc *encoding.Encoder) ([][]float64, error) {
	options := c.Options()
	var rows [][]float64

	for _, gender := range options[domain.FieldGender] {
		for _, education := range options[domain.FieldEducation] {
			for _, occupation := range options[domain.FieldOccupation] {
				for _, country := range options[domain.FieldNativeCountry] {
					for _, age := range demoAges {
						for _, hours := range demoHours {
							for _, gain := range demoGains {
								for _, loss := range demoLosses {
									raw := domain.RawInputs{
										Age:           age,
										Gender:        gender,
										Education:     education,
										Occupation:    occupation,
										HoursPerWeek:  hours,
										CapitalGain:   gain,
										CapitalLoss:   loss,
										NativeCountry: country,
									}
									vector, err := enc.Encode(raw, DemoSchema)
									if err != nil {
										return nil, fmt.Errorf("failed to encode demo row: %w", err)
									}
									rows = append(rows, vector)
								}
							}
						}
					}
				}
			}
		}
	}

	if len(rows) == 0 {
		return nil, fmt.Errorf("catalog has no category options")
	}
	return rows, nil
}

package testing

import (
	"testing"

	"github.com/aristath/salary-predictor/internal/domain"
	"github.com/aristath/salary-predictor/internal/modules/catalog"
)

// CensusSchema is the 14-feature training order of the deployed census model.
var CensusSchema = []string{
	"age", "workclass", "fnlwgt", "educational-num", "marital-status", "occupation",
	"relationship", "race", "gender", "capital-gain", "capital-loss", "hours-per-week",
	"native-country", "extra",
}

// CensusSchemaCopy returns a fresh copy of CensusSchema.
func CensusSchemaCopy() []string {
	out := make([]string, len(CensusSchema))
	copy(out, CensusSchema)
	return out
}

// CensusTables builds the category tables seeded into config.db.
func CensusTables(t *testing.T) domain.CategoryTables {
	t.Helper()

	build := func(field domain.Field, entries ...domain.CategoryEntry) *domain.CategoryTable {
		table, err := domain.NewCategoryTable(field, entries)
		if err != nil {
			t.Fatalf("Failed to build %s table: %v", field, err)
		}
		return table
	}

	return domain.CategoryTables{
		domain.FieldGender: build(domain.FieldGender,
			domain.CategoryEntry{Label: "Male", Code: 1},
			domain.CategoryEntry{Label: "Female", Code: 0},
		),
		domain.FieldEducation: build(domain.FieldEducation,
			domain.CategoryEntry{Label: "10th", Code: 6},
			domain.CategoryEntry{Label: "12th", Code: 8},
			domain.CategoryEntry{Label: "Bachelors", Code: 13},
			domain.CategoryEntry{Label: "Masters", Code: 14},
			domain.CategoryEntry{Label: "PhD", Code: 16},
		),
		domain.FieldOccupation: build(domain.FieldOccupation,
			domain.CategoryEntry{Label: "Clerical", Code: 2},
			domain.CategoryEntry{Label: "Technical", Code: 1},
			domain.CategoryEntry{Label: "Managerial", Code: 4},
			domain.CategoryEntry{Label: "Sales", Code: 3},
			domain.CategoryEntry{Label: "Other", Code: 0},
		),
		domain.FieldNativeCountry: build(domain.FieldNativeCountry,
			domain.CategoryEntry{Label: "India", Code: 39},
			domain.CategoryEntry{Label: "USA", Code: 0},
			domain.CategoryEntry{Label: "Canada", Code: 1},
			domain.CategoryEntry{Label: "Germany", Code: 2},
			domain.CategoryEntry{Label: "Other", Code: 3},
		),
	}
}

// CensusDefaults returns the constant features fixed at training time.
func CensusDefaults() map[string]float64 {
	return map[string]float64{
		"workclass":      4,
		"fnlwgt":         200000,
		"marital-status": 2,
		"relationship":   1,
		"race":           1,
		"extra":          1,
	}
}

// CensusBindings returns the feature → input field bindings.
func CensusBindings() map[string]domain.Field {
	return map[string]domain.Field{
		"age":             domain.FieldAge,
		"educational-num": domain.FieldEducation,
		"occupation":      domain.FieldOccupation,
		"gender":          domain.FieldGender,
		"capital-gain":    domain.FieldCapitalGain,
		"capital-loss":    domain.FieldCapitalLoss,
		"hours-per-week":  domain.FieldHoursPerWeek,
		"native-country":  domain.FieldNativeCountry,
	}
}

// CensusRoles returns the static role salary table.
func CensusRoles() []catalog.RoleSalary {
	return []catalog.RoleSalary{
		{Role: "Clerical", Monthly: 22000},
		{Role: "Technical", Monthly: 35000},
		{Role: "Managerial", Monthly: 65000},
		{Role: "Sales", Monthly: 30000},
		{Role: "Other", Monthly: 28000},
	}
}

// CensusCatalog assembles the catalog without touching a database.
func CensusCatalog(t *testing.T) *catalog.Catalog {
	t.Helper()
	c, err := catalog.New(CensusTables(t), CensusDefaults(), CensusBindings(), CensusRoles())
	if err != nil {
		t.Fatalf("Failed to build census catalog: %v", err)
	}
	return c
}

// ScenarioInputs is the reference submission: a 30 year old male technical
// worker from India with a bachelor's degree working 40 hours a week.
func ScenarioInputs() domain.RawInputs {
	return domain.RawInputs{
		Name:          "Test Employee",
		Age:           30,
		Gender:        "Male",
		Education:     "Bachelors",
		Occupation:    "Technical",
		HoursPerWeek:  40,
		CapitalGain:   0,
		CapitalLoss:   0,
		NativeCountry: "India",
	}
}

// ScenarioVector is ScenarioInputs encoded against CensusSchema.
var ScenarioVector = domain.FeatureVector{30, 4, 200000, 13, 2, 1, 1, 1, 1, 0, 0, 40, 39, 1}

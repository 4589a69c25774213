package catalog

import (
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aristath/salary-predictor/internal/database"
	"github.com/aristath/salary-predictor/internal/domain"
)

func setupConfigDB(t *testing.T) *database.DB {
	t.Helper()
	db, err := database.New(database.Config{
		Path: filepath.Join(t.TempDir(), "config.db"),
		Name: "config",
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, db.Migrate())
	return db
}

func TestRepository_LoadSeededCatalog(t *testing.T) {
	db := setupConfigDB(t)

	c, err := NewRepository(db.Conn(), zerolog.Nop()).Load()
	require.NoError(t, err)

	gender, ok := c.Table(domain.FieldGender)
	require.True(t, ok)
	assert.Equal(t, []string{"Male", "Female"}, gender.Labels())

	education, ok := c.Table(domain.FieldEducation)
	require.True(t, ok)
	assert.Equal(t, []string{"10th", "12th", "Bachelors", "Masters", "PhD"}, education.Labels())
	code, _ := education.Code("PhD")
	assert.Equal(t, 16, code)

	occupation, _ := c.Table(domain.FieldOccupation)
	assert.Equal(t, []string{"Clerical", "Technical", "Managerial", "Sales", "Other"}, occupation.Labels())

	country, _ := c.Table(domain.FieldNativeCountry)
	code, _ = country.Code("India")
	assert.Equal(t, 39, code)

	assert.Equal(t, map[string]float64{
		"workclass":      4,
		"fnlwgt":         200000,
		"marital-status": 2,
		"relationship":   1,
		"race":           1,
		"extra":          1,
	}, c.Defaults())

	assert.Equal(t, domain.FieldEducation, c.Bindings()["educational-num"])
	assert.Equal(t, domain.FieldHoursPerWeek, c.Bindings()["hours-per-week"])
	assert.Len(t, c.Bindings(), 8)

	assert.Equal(t, []RoleSalary{
		{Role: "Clerical", Monthly: 22000},
		{Role: "Technical", Monthly: 35000},
		{Role: "Managerial", Monthly: 65000},
		{Role: "Sales", Monthly: 30000},
		{Role: "Other", Monthly: 28000},
	}, c.Roles())
}

func TestRepository_RejectsInconsistentRows(t *testing.T) {
	db := setupConfigDB(t)

	_, err := db.Conn().Exec("INSERT INTO feature_inputs (feature, field) VALUES ('salary', 'salary')")
	require.NoError(t, err)

	_, err = NewRepository(db.Conn(), zerolog.Nop()).Load()
	assert.Error(t, err)
}

func TestRepository_QueryFailure(t *testing.T) {
	db, err := database.New(database.Config{
		Path: filepath.Join(t.TempDir(), "empty.db"),
		Name: "empty",
	})
	require.NoError(t, err)
	defer db.Close()

	_, err = NewRepository(db.Conn(), zerolog.Nop()).Load()
	assert.Error(t, err, "tables were never created")
}

package model

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/aristath/salary-predictor/internal/domain"
	"github.com/aristath/salary-predictor/internal/modules/encoding"
	testingpkg "github.com/aristath/salary-predictor/internal/testing"
)

func smallArtifact() *Artifact {
	return &Artifact{
		Model: &Spec{
			Kind:     KindLogisticRegression,
			Logistic: &LogisticRegression{Weights: []float64{1, -1}, Intercept: 0.25},
		},
		Scaler:       &StandardScaler{Mean: []float64{0, 0}, Scale: []float64{1, 1}},
		FeatureNames: []string{"age", "hours-per-week"},
		Metadata:     Metadata{Dataset: "unit", Algorithm: "Logistic Regression", Accuracy: 0.9},
	}
}

func TestSaveAndLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "models", "artifact.msgpack")

	require.NoError(t, Save(path, smallArtifact()))
	assert.NoFileExists(t, path+".tmp")

	loaded, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, FormatVersion, loaded.Format)
	assert.Equal(t, []string{"age", "hours-per-week"}, loaded.Schema())
	assert.Equal(t, smallArtifact().Scaler, loaded.Scaler)
	assert.Equal(t, smallArtifact().Model, loaded.Model)
	assert.Equal(t, 0.9, loaded.Metadata.Accuracy)
	assert.NoError(t, loaded.Consistency())

	classifier, err := loaded.Classifier()
	require.NoError(t, err)
	class, err := classifier.Predict(domain.FeatureVector{2, 1})
	require.NoError(t, err)
	assert.Equal(t, 1, class)
}

func TestSaveAndLoad_RandomForest(t *testing.T) {
	path := filepath.Join(t.TempDir(), "forest.msgpack")
	a := smallArtifact()
	a.Model = &Spec{
		Kind:   KindRandomForest,
		Forest: &RandomForest{NFeatures: 2, Trees: []DecisionTree{stump(0, 5), stump(1, 0)}},
	}

	require.NoError(t, Save(path, a))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, a.Model, loaded.Model)

	classifier, err := loaded.Classifier()
	require.NoError(t, err)
	class, err := classifier.Predict(domain.FeatureVector{6, 1})
	require.NoError(t, err)
	assert.Equal(t, 1, class)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.msgpack"))
	assert.Error(t, err)
}

func TestDecode_Garbage(t *testing.T) {
	_, err := Decode([]byte("not msgpack"))
	assert.Error(t, err)
}

func TestDecode_MissingKeys(t *testing.T) {
	a := smallArtifact()

	tests := []struct {
		name    string
		payload map[string]interface{}
		key     string
	}{
		{
			name:    "no feature names",
			payload: map[string]interface{}{"model": a.Model, "scaler": a.Scaler},
			key:     KeyFeatureNames,
		},
		{
			name:    "nil scaler",
			payload: map[string]interface{}{"model": a.Model, "scaler": nil, "feature_names": a.FeatureNames},
			key:     KeyScaler,
		},
		{
			name:    "no model",
			payload: map[string]interface{}{"scaler": a.Scaler, "feature_names": a.FeatureNames},
			key:     KeyModel,
		},
		{
			name:    "empty feature names",
			payload: map[string]interface{}{"model": a.Model, "scaler": a.Scaler, "feature_names": []string{}},
			key:     KeyFeatureNames,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := msgpack.Marshal(tt.payload)
			require.NoError(t, err)

			_, err = Decode(data)
			require.ErrorIs(t, err, ErrMissingKey)
			assert.Contains(t, err.Error(), tt.key)
		})
	}
}

func TestCheck_RejectsUnsupportedKind(t *testing.T) {
	a := smallArtifact()
	a.Model = &Spec{Kind: "svm"}
	assert.Error(t, a.Check())

	a.Model = &Spec{Kind: KindRandomForest}
	assert.ErrorIs(t, a.Check(), ErrMissingKey)
}

func TestSave_RefusesIncompleteArtifact(t *testing.T) {
	path := filepath.Join(t.TempDir(), "artifact.msgpack")
	a := smallArtifact()
	a.Scaler = nil

	assert.ErrorIs(t, Save(path, a), ErrMissingKey)
	_, err := os.Stat(path)
	assert.True(t, os.IsNotExist(err))
}

func TestConsistency(t *testing.T) {
	a := smallArtifact()
	a.FeatureNames = append(a.FeatureNames, "capital-gain")
	assert.Error(t, a.Consistency())

	a = smallArtifact()
	a.Model.Logistic.Weights = []float64{1, 2, 3}
	assert.Error(t, a.Consistency())
}

func TestBuildDemoArtifact(t *testing.T) {
	c := testingpkg.CensusCatalog(t)
	created := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	a, err := BuildDemoArtifact(c, created)
	require.NoError(t, err)

	require.NoError(t, a.Check())
	require.NoError(t, a.Consistency())
	assert.Equal(t, testingpkg.CensusSchema, a.FeatureNames)
	assert.Equal(t, "2024-03-01T12:00:00Z", a.Metadata.CreatedAt)

	// Constant features transform to zero.
	workclass := 1
	assert.Equal(t, 4.0, a.Scaler.Mean[workclass])
	assert.Equal(t, 1.0, a.Scaler.Scale[workclass])

	classifier, err := a.Classifier()
	require.NoError(t, err)

	predict := func(v domain.FeatureVector) int {
		scaled, err := a.Scaler.Transform(v)
		require.NoError(t, err)
		class, err := classifier.Predict(scaled)
		require.NoError(t, err)
		return class
	}

	assert.Equal(t, 0, predict(testingpkg.ScenarioVector))

	// 55 year old male PhD manager from India, 60 hours, 15000 capital gain.
	senior := domain.FeatureVector{55, 4, 200000, 16, 2, 4, 1, 1, 1, 15000, 0, 60, 39, 1}
	assert.Equal(t, 1, predict(senior))
}

func TestBuildDemoArtifact_CapitalLossDoesNotDecideClass(t *testing.T) {
	c := testingpkg.CensusCatalog(t)
	a, err := BuildDemoArtifact(c, time.Now())
	require.NoError(t, err)

	lossIndex := 10
	require.Equal(t, "capital-loss", a.FeatureNames[lossIndex])
	assert.Greater(t, a.Scaler.Scale[lossIndex], 1.0)

	enc, err := encoding.NewFromCatalog(c, zerolog.Nop())
	require.NoError(t, err)
	classifier, err := a.Classifier()
	require.NoError(t, err)

	for _, loss := range []int{0, 5, 100, 2000, 50000, 100000} {
		raw := domain.RawInputs{
			Age:           18,
			Gender:        "Male",
			Education:     "10th",
			Occupation:    "Managerial",
			HoursPerWeek:  10,
			CapitalLoss:   loss,
			NativeCountry: "India",
		}
		vector, err := enc.Encode(raw, a.FeatureNames)
		require.NoError(t, err)
		scaled, err := a.Scaler.Transform(vector)
		require.NoError(t, err)
		class, err := classifier.Predict(scaled)
		require.NoError(t, err)
		assert.Equal(t, 0, class, "capital loss %d", loss)
	}
}

func TestBuildDemoArtifact_RoundTrip(t *testing.T) {
	a, err := BuildDemoArtifact(testingpkg.CensusCatalog(t), time.Now())
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "demo.msgpack")
	require.NoError(t, Save(path, a))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, a.Scaler, loaded.Scaler)
	assert.Equal(t, a.Metadata, loaded.Metadata)
}

package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aristath/salary-predictor/internal/database"
	"github.com/aristath/salary-predictor/internal/modules/model"
	testingpkg "github.com/aristath/salary-predictor/internal/testing"
)

func newSystemHandlers(t *testing.T, db *database.DB, artifact *model.Artifact) *SystemHandlers {
	t.Helper()
	h := NewSystemHandlers(zerolog.Nop(), db, artifact, time.Now().Add(-2*time.Hour))
	h.stats = func() (float64, float64) { return 12.5, 40 }
	return h
}

func getStatus(t *testing.T, h *SystemHandlers) SystemStatusResponse {
	t.Helper()
	rec := httptest.NewRecorder()
	h.HandleSystemStatus(rec, httptest.NewRequest(http.MethodGet, "/api/system/status", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var response SystemStatusResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &response))
	return response
}

func TestSystemHandlers_HandleSystemStatus(t *testing.T) {
	db := testingpkg.NewTestDB(t, "config")
	artifact, err := model.BuildDemoArtifact(testingpkg.CensusCatalog(t), time.Now())
	require.NoError(t, err)

	response := getStatus(t, newSystemHandlers(t, db, artifact))

	assert.Equal(t, "healthy", response.Status)
	assert.InDelta(t, 2.0, response.UptimeHours, 0.01)
	assert.Equal(t, 12.5, response.CPUPercent)
	assert.Equal(t, 40.0, response.RAMPercent)
	assert.Positive(t, response.Goroutines)
	assert.Equal(t, "ok", response.ConfigDB)

	require.NotNil(t, response.Artifact)
	assert.Equal(t, model.FormatVersion, response.Artifact.Format)
	assert.Equal(t, string(model.KindLogisticRegression), response.Artifact.Kind)
	assert.Equal(t, "Logistic Regression", response.Artifact.Algorithm)
	assert.Equal(t, testingpkg.CensusSchema, response.Artifact.Features)
	assert.True(t, response.Artifact.Consistent)
	assert.Empty(t, response.Artifact.Warning)
}

func TestSystemHandlers_InconsistentArtifact(t *testing.T) {
	db := testingpkg.NewTestDB(t, "config")
	artifact, err := model.BuildDemoArtifact(testingpkg.CensusCatalog(t), time.Now())
	require.NoError(t, err)
	artifact.FeatureNames = artifact.FeatureNames[:5]

	response := getStatus(t, newSystemHandlers(t, db, artifact))

	require.NotNil(t, response.Artifact)
	assert.False(t, response.Artifact.Consistent)
	assert.NotEmpty(t, response.Artifact.Warning)
}

func TestSystemHandlers_DegradedWithoutDatabase(t *testing.T) {
	response := getStatus(t, newSystemHandlers(t, nil, nil))

	assert.Equal(t, "degraded", response.Status)
	assert.Equal(t, "unavailable", response.ConfigDB)
	assert.Nil(t, response.Artifact)
}

func TestSystemHandlers_ClosedDatabase(t *testing.T) {
	db := testingpkg.NewTestDB(t, "config")
	require.NoError(t, db.Close())

	response := getStatus(t, newSystemHandlers(t, db, nil))

	assert.Equal(t, "degraded", response.Status)
	assert.NotEqual(t, "ok", response.ConfigDB)
}

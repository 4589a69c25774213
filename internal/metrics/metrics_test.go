package metrics

import (
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObserveSubmission(t *testing.T) {
	m := New()

	m.ObserveSubmission("rendered", 2*time.Millisecond)
	m.ObserveSubmission("rendered", time.Millisecond)
	m.ObserveSubmission("ValidationError", time.Millisecond)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.submissions.WithLabelValues("rendered")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.submissions.WithLabelValues("ValidationError")))
}

func TestObservePrediction(t *testing.T) {
	m := New()

	m.ObservePrediction(">50K")
	m.ObservePrediction("<=50K")
	m.ObservePrediction(">50K")

	assert.Equal(t, 2.0, testutil.ToFloat64(m.predictions.WithLabelValues(">50K")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.predictions.WithLabelValues("<=50K")))
}

func TestSetArtifact_ReplacesPreviousLabels(t *testing.T) {
	m := New()

	m.SetArtifact("salary-predictor/v1", "Random Forest", 14)
	m.SetArtifact("salary-predictor/v1", "Logistic Regression", 14)

	assert.Equal(t, 1, testutil.CollectAndCount(m.artifact))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.artifact.WithLabelValues("salary-predictor/v1", "Logistic Regression", "14")))
}

func TestHandler(t *testing.T) {
	m := New()
	m.ObserveSubmission("rendered", time.Millisecond)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	require.Equal(t, 200, rec.Code)
	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `salary_predictor_submissions_total{outcome="rendered"} 1`)
	assert.Contains(t, string(body), "go_goroutines")
}

func TestRegistry_GathersDomainMetrics(t *testing.T) {
	m := New()
	m.ObservePrediction(">50K")
	m.ObservePrediction("<=50K")

	count, err := testutil.GatherAndCount(m.Registry(), "salary_predictor_predictions_total")
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	families, err := m.Registry().Gather()
	require.NoError(t, err)
	names := make([]string, 0, len(families))
	for _, f := range families {
		names = append(names, f.GetName())
	}
	assert.Contains(t, names, "salary_predictor_artifact_info")
	assert.Contains(t, names, "process_start_time_seconds")
}

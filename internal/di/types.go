// Package di provides dependency injection wiring and initialization.
package di

import (
	"encoding/json"

	"github.com/aristath/salary-predictor/internal/clients/animation"
	"github.com/aristath/salary-predictor/internal/database"
	"github.com/aristath/salary-predictor/internal/metrics"
	"github.com/aristath/salary-predictor/internal/modules/catalog"
	"github.com/aristath/salary-predictor/internal/modules/charts"
	"github.com/aristath/salary-predictor/internal/modules/collector"
	"github.com/aristath/salary-predictor/internal/modules/encoding"
	"github.com/aristath/salary-predictor/internal/modules/model"
	"github.com/aristath/salary-predictor/internal/modules/prediction"
	"github.com/aristath/salary-predictor/internal/modules/submission"
)

// Container holds every long-lived dependency. Everything in it is read-only
// after Wire returns and shared across requests.
type Container struct {
	// Databases
	ConfigDB *database.DB // Encoding catalog (category codes, defaults, bindings, role salaries)

	// Repositories
	CatalogRepo *catalog.Repository

	// Immutable startup state
	Catalog  *catalog.Catalog // Loaded once from config.db
	Artifact *model.Artifact  // Classifier, scaler and feature names

	// Services
	Collector         *collector.Collector
	Encoder           *encoding.Encoder
	PredictionService *prediction.Service
	ChartsService     *charts.Service
	Pipeline          *submission.Pipeline
	Metrics           *metrics.Metrics

	// Clients
	AnimationClient *animation.Client
	Animation       json.RawMessage // nil when unavailable
}

// Close releases the databases held by the container.
func (c *Container) Close() error {
	if c.ConfigDB != nil {
		return c.ConfigDB.Close()
	}
	return nil
}

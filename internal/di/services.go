package di

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/aristath/salary-predictor/internal/clients/animation"
	"github.com/aristath/salary-predictor/internal/config"
	"github.com/aristath/salary-predictor/internal/metrics"
	"github.com/aristath/salary-predictor/internal/modules/charts"
	"github.com/aristath/salary-predictor/internal/modules/collector"
	"github.com/aristath/salary-predictor/internal/modules/encoding"
	"github.com/aristath/salary-predictor/internal/modules/model"
	"github.com/aristath/salary-predictor/internal/modules/prediction"
	"github.com/aristath/salary-predictor/internal/modules/submission"
)

// InitializeServices loads the model artifact and builds the submission pipeline
func InitializeServices(container *Container, cfg *config.Config, log zerolog.Logger) error {
	artifact, err := model.Load(cfg.ModelPath)
	if err != nil {
		return fmt.Errorf("failed to load model artifact: %w", err)
	}
	container.Artifact = artifact

	if err := artifact.Consistency(); err != nil {
		// Requests fail with PredictionFailure until the artifact is replaced.
		log.Warn().Err(err).Msg("Model artifact dimensions disagree")
	}
	log.Info().
		Str("path", cfg.ModelPath).
		Str("format", artifact.Format).
		Str("algorithm", artifact.Metadata.Algorithm).
		Int("features", len(artifact.FeatureNames)).
		Msg("Model artifact loaded")

	classifier, err := artifact.Classifier()
	if err != nil {
		return fmt.Errorf("failed to build classifier: %w", err)
	}

	container.Metrics = metrics.New()
	container.Metrics.SetArtifact(artifact.Format, artifact.Metadata.Algorithm, len(artifact.FeatureNames))

	encoder, err := encoding.NewFromCatalog(container.Catalog, log)
	if err != nil {
		return fmt.Errorf("failed to create feature encoder: %w", err)
	}
	container.Encoder = encoder

	container.Collector = collector.New(container.Catalog.Tables())
	container.PredictionService = prediction.NewService(artifact.Scaler, classifier, log)
	container.ChartsService = charts.NewService(container.Catalog.Roles(), nil, log)

	container.Pipeline = submission.NewPipeline(
		container.Collector,
		container.Encoder,
		container.PredictionService,
		container.ChartsService,
		artifact.Schema(),
		container.Metrics,
		log,
	)

	container.AnimationClient = animation.NewClient(cfg.AnimationURL, cfg.AnimationTimeout, log)
	ctx, cancel := context.WithTimeout(context.Background(), cfg.AnimationTimeout)
	defer cancel()
	container.Animation = container.AnimationClient.Load(ctx)

	return nil
}

package main

import (
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/aristath/salary-predictor/internal/database"
	"github.com/aristath/salary-predictor/internal/modules/catalog"
	"github.com/aristath/salary-predictor/internal/modules/model"
)

func demoCmd(newLogger func(*cobra.Command) zerolog.Logger) *cobra.Command {
	var (
		out    string
		dbPath string
	)

	cmd := &cobra.Command{
		Use:   "demo",
		Short: "Write the demo artifact",
		Long: `Write a logistic regression artifact with hand-set weights over the
committed feature schema. The scaler is fitted on a synthetic grid encoded
with the catalog stored in config.db.`,
		Args: cobra.NoArgs,
		RunE: func(c *cobra.Command, _ []string) error {
			log := newLogger(c)

			db, err := database.New(database.Config{Path: dbPath, Name: "config"})
			if err != nil {
				return fmt.Errorf("failed to open config database: %w", err)
			}
			defer db.Close()

			if err := db.Migrate(); err != nil {
				return fmt.Errorf("failed to migrate config database: %w", err)
			}

			cat, err := catalog.NewRepository(db.Conn(), log).Load()
			if err != nil {
				return fmt.Errorf("failed to load encoding catalog: %w", err)
			}

			artifact, err := model.BuildDemoArtifact(cat, time.Now())
			if err != nil {
				return err
			}
			if err := model.Save(out, artifact); err != nil {
				return err
			}

			log.Info().
				Str("path", out).
				Str("kind", string(artifact.Model.Kind)).
				Int("features", len(artifact.FeatureNames)).
				Msg("Demo artifact written")
			fmt.Fprintln(c.OutOrStdout(), out)
			return nil
		},
	}

	cmd.Flags().StringVar(&out, "out", "salary_predictor.msgpack", "artifact output path")
	cmd.Flags().StringVar(&dbPath, "db", "data/config.db", "config database holding the encoding catalog")

	return cmd
}

package main

import (
	"encoding/json"

	"github.com/spf13/cobra"

	"github.com/aristath/salary-predictor/internal/modules/model"
)

type inspectSummary struct {
	Path         string         `json:"path"`
	Format       string         `json:"format"`
	Kind         model.Kind     `json:"kind"`
	FeatureNames []string       `json:"feature_names"`
	ScalerWidth  int            `json:"scaler_width"`
	Metadata     model.Metadata `json:"metadata"`
	Consistent   bool           `json:"consistent"`
	Warning      string         `json:"warning,omitempty"`
}

func inspectCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "inspect <path>",
		Short: "Print an artifact summary as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			artifact, err := model.Load(args[0])
			if err != nil {
				return err
			}

			summary := inspectSummary{
				Path:         args[0],
				Format:       artifact.Format,
				Kind:         artifact.Model.Kind,
				FeatureNames: artifact.Schema(),
				ScalerWidth:  artifact.Scaler.Width(),
				Metadata:     artifact.Metadata,
				Consistent:   true,
			}
			if err := artifact.Consistency(); err != nil {
				summary.Consistent = false
				summary.Warning = err.Error()
			}

			enc := json.NewEncoder(c.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(summary)
		},
	}
}

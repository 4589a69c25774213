// Package main provides the artifact tool: it writes the demo model artifact
// and inspects existing ones.
package main

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/aristath/salary-predictor/pkg/logger"
)

func newRootCmd() *cobra.Command {
	var logLevel string

	cmd := &cobra.Command{
		Use:           "artifact",
		Short:         "Build and inspect salary predictor model artifacts",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")

	newLogger := func(c *cobra.Command) zerolog.Logger {
		return logger.New(logger.Config{
			Level:  logLevel,
			Pretty: true,
			Output: c.ErrOrStderr(),
		})
	}

	cmd.AddCommand(demoCmd(newLogger))
	cmd.AddCommand(inspectCmd())

	return cmd
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

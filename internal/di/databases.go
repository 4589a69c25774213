package di

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/aristath/salary-predictor/internal/config"
	"github.com/aristath/salary-predictor/internal/database"
)

// InitializeDatabases opens config.db and applies its embedded schema
func InitializeDatabases(cfg *config.Config, log zerolog.Logger) (*Container, error) {
	container := &Container{}

	configDB, err := database.New(database.Config{
		Path: cfg.ConfigDBPath(),
		Name: "config",
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize config database: %w", err)
	}
	container.ConfigDB = configDB

	if err := configDB.Migrate(); err != nil {
		configDB.Close()
		return nil, fmt.Errorf("failed to migrate config database: %w", err)
	}

	log.Info().Str("path", configDB.Path()).Msg("Config database ready")
	return container, nil
}

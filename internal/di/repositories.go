package di

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/aristath/salary-predictor/internal/modules/catalog"
)

// InitializeRepositories creates repositories and loads the encoding catalog
func InitializeRepositories(container *Container, log zerolog.Logger) error {
	container.CatalogRepo = catalog.NewRepository(container.ConfigDB.Conn(), log)

	c, err := container.CatalogRepo.Load()
	if err != nil {
		return fmt.Errorf("failed to load encoding catalog: %w", err)
	}
	container.Catalog = c

	return nil
}

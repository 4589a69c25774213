package catalog

import (
	"database/sql"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/aristath/salary-predictor/internal/domain"
)

// Repository reads the encoding catalog from config.db.
//
// Database: config.db (category_codes, feature_inputs, feature_defaults, role_salaries)
type Repository struct {
	db  *sql.DB        // config.db
	log zerolog.Logger // Structured logger
}

// NewRepository creates a new catalog repository.
//
// Parameters:
//   - db: Database connection to config.db
//   - log: Structured logger
//
// Returns:
//   - *Repository: Initialized repository instance
func NewRepository(db *sql.DB, log zerolog.Logger) *Repository {
	return &Repository{
		db:  db,
		log: log.With().Str("repository", "catalog").Logger(),
	}
}

// Load reads every catalog table and assembles an immutable Catalog.
//
// Returns:
//   - *Catalog: Validated catalog
//   - error: Error if a query fails or the stored rows are inconsistent
func (r *Repository) Load() (*Catalog, error) {
	tables, err := r.loadTables()
	if err != nil {
		return nil, err
	}

	bindings, err := r.loadBindings()
	if err != nil {
		return nil, err
	}

	defaults, err := r.loadDefaults()
	if err != nil {
		return nil, err
	}

	roles, err := r.loadRoles()
	if err != nil {
		return nil, err
	}

	c, err := New(tables, defaults, bindings, roles)
	if err != nil {
		return nil, fmt.Errorf("invalid encoding catalog: %w", err)
	}

	r.log.Info().
		Int("tables", len(tables)).
		Int("bindings", len(bindings)).
		Int("defaults", len(defaults)).
		Int("roles", len(roles)).
		Msg("Encoding catalog loaded")

	return c, nil
}

func (r *Repository) loadTables() (domain.CategoryTables, error) {
	rows, err := r.db.Query(`
		SELECT attribute, label, code
		FROM category_codes
		ORDER BY attribute, position, label
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query category codes: %w", err)
	}
	defer rows.Close()

	entries := make(map[domain.Field][]domain.CategoryEntry)
	var order []domain.Field
	for rows.Next() {
		var attribute string
		var entry domain.CategoryEntry
		if err := rows.Scan(&attribute, &entry.Label, &entry.Code); err != nil {
			return nil, fmt.Errorf("failed to scan category code: %w", err)
		}
		field := domain.Field(attribute)
		if _, seen := entries[field]; !seen {
			order = append(order, field)
		}
		entries[field] = append(entries[field], entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate category codes: %w", err)
	}

	tables := make(domain.CategoryTables, len(order))
	for _, field := range order {
		table, err := domain.NewCategoryTable(field, entries[field])
		if err != nil {
			return nil, fmt.Errorf("failed to build category table: %w", err)
		}
		tables[field] = table
	}
	return tables, nil
}

func (r *Repository) loadBindings() (map[string]domain.Field, error) {
	rows, err := r.db.Query("SELECT feature, field FROM feature_inputs")
	if err != nil {
		return nil, fmt.Errorf("failed to query feature inputs: %w", err)
	}
	defer rows.Close()

	bindings := make(map[string]domain.Field)
	for rows.Next() {
		var feature, field string
		if err := rows.Scan(&feature, &field); err != nil {
			return nil, fmt.Errorf("failed to scan feature input: %w", err)
		}
		bindings[feature] = domain.Field(field)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate feature inputs: %w", err)
	}
	return bindings, nil
}

func (r *Repository) loadDefaults() (map[string]float64, error) {
	rows, err := r.db.Query("SELECT feature, value FROM feature_defaults")
	if err != nil {
		return nil, fmt.Errorf("failed to query feature defaults: %w", err)
	}
	defer rows.Close()

	defaults := make(map[string]float64)
	for rows.Next() {
		var feature string
		var value float64
		if err := rows.Scan(&feature, &value); err != nil {
			return nil, fmt.Errorf("failed to scan feature default: %w", err)
		}
		defaults[feature] = value
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate feature defaults: %w", err)
	}
	return defaults, nil
}

func (r *Repository) loadRoles() ([]RoleSalary, error) {
	rows, err := r.db.Query("SELECT role, monthly FROM role_salaries ORDER BY position, role")
	if err != nil {
		return nil, fmt.Errorf("failed to query role salaries: %w", err)
	}
	defer rows.Close()

	var roles []RoleSalary
	for rows.Next() {
		var role RoleSalary
		if err := rows.Scan(&role.Role, &role.Monthly); err != nil {
			return nil, fmt.Errorf("failed to scan role salary: %w", err)
		}
		roles = append(roles, role)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate role salaries: %w", err)
	}
	return roles, nil
}

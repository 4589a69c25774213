// Package catalog holds the immutable encoding configuration the model was trained with:
// category code tables, constant feature defaults, feature-to-input bindings and the
// static role salary table shown next to a prediction.
package catalog

import (
	"fmt"
	"sort"

	"github.com/aristath/salary-predictor/internal/domain"
)

// RoleSalary is one row of the static average-salary-by-role table.
type RoleSalary struct {
	Role    string `json:"role"`
	Monthly int    `json:"monthly"`
}

// Catalog is loaded once at startup and never mutated.
// Accessors return copies so callers cannot alter shared state.
type Catalog struct {
	tables   domain.CategoryTables
	defaults map[string]float64
	bindings map[string]domain.Field
	roles    []RoleSalary
}

// New validates and assembles a catalog.
//
// A feature may be bound to an input or carry a default, never both. Every
// categorical binding needs a table for its field.
func New(
	tables domain.CategoryTables,
	defaults map[string]float64,
	bindings map[string]domain.Field,
	roles []RoleSalary,
) (*Catalog, error) {
	c := &Catalog{
		tables:   make(domain.CategoryTables, len(tables)),
		defaults: make(map[string]float64, len(defaults)),
		bindings: make(map[string]domain.Field, len(bindings)),
		roles:    make([]RoleSalary, len(roles)),
	}

	for field, table := range tables {
		if table == nil || table.Attribute() != field {
			return nil, fmt.Errorf("category table for %q is missing or mislabeled", field)
		}
		c.tables[field] = table
	}

	for feature, field := range bindings {
		if !field.Known() {
			return nil, fmt.Errorf("feature %q is bound to unknown input %q", feature, field)
		}
		if field.IsCategorical() && c.tables[field] == nil {
			return nil, fmt.Errorf("feature %q is bound to %q which has no category table", feature, field)
		}
		if _, clash := defaults[feature]; clash {
			return nil, fmt.Errorf("feature %q has both an input binding and a default", feature)
		}
		c.bindings[feature] = field
	}

	for feature, value := range defaults {
		c.defaults[feature] = value
	}
	copy(c.roles, roles)

	return c, nil
}

// Table returns the code table for a categorical field.
func (c *Catalog) Table(field domain.Field) (*domain.CategoryTable, bool) {
	t, ok := c.tables[field]
	return t, ok
}

// Tables returns every category table keyed by field.
func (c *Catalog) Tables() domain.CategoryTables {
	out := make(domain.CategoryTables, len(c.tables))
	for k, v := range c.tables {
		out[k] = v
	}
	return out
}

// Defaults returns the constant feature values fixed at training time.
func (c *Catalog) Defaults() map[string]float64 {
	out := make(map[string]float64, len(c.defaults))
	for k, v := range c.defaults {
		out[k] = v
	}
	return out
}

// Bindings returns the feature name → input field map.
func (c *Catalog) Bindings() map[string]domain.Field {
	out := make(map[string]domain.Field, len(c.bindings))
	for k, v := range c.bindings {
		out[k] = v
	}
	return out
}

// Roles returns the static role salary table in display order.
func (c *Catalog) Roles() []RoleSalary {
	out := make([]RoleSalary, len(c.roles))
	copy(out, c.roles)
	return out
}

// Options returns the selectable labels for every categorical field.
func (c *Catalog) Options() map[domain.Field][]string {
	out := make(map[domain.Field][]string, len(c.tables))
	for field, table := range c.tables {
		out[field] = table.Labels()
	}
	return out
}

// DefaultFeatures lists the features that are never collected from the user, sorted.
func (c *Catalog) DefaultFeatures() []string {
	names := make([]string, 0, len(c.defaults))
	for name := range c.defaults {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Package encoding builds the model's feature vector from a submission.
//
// Construction is schema-driven: every slot is resolved by looking its feature
// name up in the bindings and defaults, in the order the model declares. Source
// code never relies on positional layout.
package encoding

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/aristath/salary-predictor/internal/domain"
	"github.com/aristath/salary-predictor/internal/modules/catalog"
)

// Source tells where a feature value came from.
type Source string

const (
	SourceInput      Source = "input"
	SourceDefault    Source = "default"
	SourceUnresolved Source = "unresolved"
)

// Provenance describes one schema slot after resolution.
type Provenance struct {
	Feature string       `json:"feature"`
	Value   float64      `json:"value"`
	Source  Source       `json:"source"`
	Field   domain.Field `json:"field,omitempty"`
	Label   string       `json:"label,omitempty"`
}

// Encoder maps RawInputs plus constant defaults onto a model schema.
// It holds only read-only tables and is safe for concurrent use.
type Encoder struct {
	tables   domain.CategoryTables
	defaults map[string]float64
	bindings map[string]domain.Field
	log      zerolog.Logger
}

// NewEncoder validates the bindings against the tables and copies all inputs.
func NewEncoder(
	tables domain.CategoryTables,
	defaults map[string]float64,
	bindings map[string]domain.Field,
	log zerolog.Logger,
) (*Encoder, error) {
	e := &Encoder{
		tables:   make(domain.CategoryTables, len(tables)),
		defaults: make(map[string]float64, len(defaults)),
		bindings: make(map[string]domain.Field, len(bindings)),
		log:      log.With().Str("component", "encoder").Logger(),
	}

	for field, table := range tables {
		e.tables[field] = table
	}
	for feature, field := range bindings {
		if !field.Known() {
			return nil, fmt.Errorf("feature %q is bound to unknown input %q", feature, field)
		}
		if field.IsCategorical() && e.tables[field] == nil {
			return nil, fmt.Errorf("feature %q is bound to %q which has no category table", feature, field)
		}
		e.bindings[feature] = field
	}
	for feature, value := range defaults {
		e.defaults[feature] = value
	}

	return e, nil
}

// NewFromCatalog creates an encoder over the loaded encoding catalog.
func NewFromCatalog(c *catalog.Catalog, log zerolog.Logger) (*Encoder, error) {
	return NewEncoder(c.Tables(), c.Defaults(), c.Bindings(), log)
}

// Encode returns the feature vector for schema.
//
// A label missing from its table yields *domain.LookupError. A result whose
// length differs from the schema yields *domain.FeatureMismatchError; the
// vector is never padded or truncated.
func (e *Encoder) Encode(raw domain.RawInputs, schema []string) (domain.FeatureVector, error) {
	slots, err := e.resolve(raw, schema)
	if err != nil {
		return nil, err
	}

	vector := make(domain.FeatureVector, 0, len(schema))
	for _, slot := range slots {
		if slot.Source != SourceUnresolved {
			vector = append(vector, slot.Value)
		}
	}

	if len(vector) != len(schema) {
		return nil, &domain.FeatureMismatchError{Expected: len(schema), Actual: len(vector)}
	}
	return vector, nil
}

// Describe resolves every slot and reports where each value came from.
// On a length mismatch the provenance is returned together with the error.
func (e *Encoder) Describe(raw domain.RawInputs, schema []string) ([]Provenance, error) {
	slots, err := e.resolve(raw, schema)
	if err != nil {
		return nil, err
	}

	resolved := 0
	for _, slot := range slots {
		if slot.Source != SourceUnresolved {
			resolved++
		}
	}
	if resolved != len(schema) {
		return slots, &domain.FeatureMismatchError{Expected: len(schema), Actual: resolved}
	}
	return slots, nil
}

func (e *Encoder) resolve(raw domain.RawInputs, schema []string) ([]Provenance, error) {
	slots := make([]Provenance, 0, len(schema))

	for _, feature := range schema {
		if field, ok := e.bindings[feature]; ok {
			slot, err := e.fromInput(raw, feature, field)
			if err != nil {
				return nil, err
			}
			slots = append(slots, slot)
			continue
		}

		if value, ok := e.defaults[feature]; ok {
			slots = append(slots, Provenance{Feature: feature, Value: value, Source: SourceDefault})
			continue
		}

		e.log.Debug().Str("feature", feature).Msg("Feature has neither an input binding nor a default")
		slots = append(slots, Provenance{Feature: feature, Source: SourceUnresolved})
	}

	return slots, nil
}

func (e *Encoder) fromInput(raw domain.RawInputs, feature string, field domain.Field) (Provenance, error) {
	if field.IsNumeric() {
		v, _ := raw.Numeric(field)
		return Provenance{Feature: feature, Value: v, Source: SourceInput, Field: field}, nil
	}

	label, _ := raw.Category(field)
	code, ok := e.tables[field].Code(label)
	if !ok {
		return Provenance{}, &domain.LookupError{Attribute: field, Label: label}
	}
	return Provenance{
		Feature: feature,
		Value:   float64(code),
		Source:  SourceInput,
		Field:   field,
		Label:   label,
	}, nil
}

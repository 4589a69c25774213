package domain

import "fmt"

// CategoryEntry is one label→code row of an encoding table.
type CategoryEntry struct {
	Label string
	Code  int
}

// CategoryTable maps the closed label set of one categorical field to the
// integer codes used at training time. Immutable after construction.
type CategoryTable struct {
	attribute Field
	labels    []string
	codes     map[string]int
}

// NewCategoryTable builds a table preserving entry order for display.
func NewCategoryTable(attribute Field, entries []CategoryEntry) (*CategoryTable, error) {
	if !attribute.IsCategorical() {
		return nil, fmt.Errorf("field %q is not categorical", attribute)
	}
	if len(entries) == 0 {
		return nil, fmt.Errorf("category table %q has no entries", attribute)
	}

	t := &CategoryTable{
		attribute: attribute,
		labels:    make([]string, 0, len(entries)),
		codes:     make(map[string]int, len(entries)),
	}
	for _, e := range entries {
		if e.Label == "" {
			return nil, fmt.Errorf("category table %q has an empty label", attribute)
		}
		if _, dup := t.codes[e.Label]; dup {
			return nil, fmt.Errorf("category table %q has duplicate label %q", attribute, e.Label)
		}
		t.codes[e.Label] = e.Code
		t.labels = append(t.labels, e.Label)
	}
	return t, nil
}

// Attribute returns the field this table encodes.
func (t *CategoryTable) Attribute() Field {
	return t.attribute
}

// Labels returns the selectable labels in display order.
func (t *CategoryTable) Labels() []string {
	out := make([]string, len(t.labels))
	copy(out, t.labels)
	return out
}

// Code looks up the training-time code for label.
func (t *CategoryTable) Code(label string) (int, bool) {
	code, ok := t.codes[label]
	return code, ok
}

// Contains reports whether label is selectable.
func (t *CategoryTable) Contains(label string) bool {
	_, ok := t.codes[label]
	return ok
}

// CategoryTables indexes tables by the field they encode.
type CategoryTables map[Field]*CategoryTable

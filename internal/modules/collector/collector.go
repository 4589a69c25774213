// Package collector turns a submitted form into RawInputs, enforcing the closed
// ranges and label sets the form widgets are built from.
package collector

import (
	"errors"
	"fmt"
	"net/url"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/aristath/salary-predictor/internal/domain"
)

// ErrNotSubmitted is returned until the user explicitly confirms the form.
var ErrNotSubmitted = errors.New("form not submitted")

// SubmitAction is the value of the "action" field carried by the submit button.
const SubmitAction = "predict"

// Range is the closed interval a numeric widget allows.
type Range struct {
	Field   domain.Field `json:"field"`
	Label   string       `json:"label"`
	Min     int          `json:"min"`
	Max     int          `json:"max"`
	Default int          `json:"default"`
	Step    int          `json:"step"`
}

// DefaultRanges are the numeric constraints of the employee form.
var DefaultRanges = []Range{
	{Field: domain.FieldAge, Label: "Age", Min: 18, Max: 65, Default: 30, Step: 1},
	{Field: domain.FieldHoursPerWeek, Label: "Hours/Week", Min: 10, Max: 80, Default: 40, Step: 1},
	{Field: domain.FieldCapitalGain, Label: "Capital Gain", Min: 0, Max: 100000, Default: 0, Step: 1},
	{Field: domain.FieldCapitalLoss, Label: "Capital Loss", Min: 0, Max: 100000, Default: 0, Step: 1},
}

// formInputs carries the validator rules of every collected field. Struct
// order is the order violations are reported in.
type formInputs struct {
	Age           int    `form:"age" validate:"min=18,max=65"`
	HoursPerWeek  int    `form:"hours_per_week" validate:"min=10,max=80"`
	CapitalGain   int    `form:"capital_gain" validate:"min=0,max=100000"`
	CapitalLoss   int    `form:"capital_loss" validate:"min=0,max=100000"`
	Gender        string `form:"gender" validate:"required"`
	Education     string `form:"education" validate:"required"`
	Occupation    string `form:"occupation" validate:"required"`
	NativeCountry string `form:"native_country" validate:"required"`
}

// fieldOrder is the reporting order of violations, matching formInputs.
var fieldOrder = []domain.Field{
	domain.FieldAge,
	domain.FieldHoursPerWeek,
	domain.FieldCapitalGain,
	domain.FieldCapitalLoss,
	domain.FieldGender,
	domain.FieldEducation,
	domain.FieldOccupation,
	domain.FieldNativeCountry,
}

// Collector validates submissions against the ranges and the category tables.
// Option lists are derived from the tables, so every selectable label has a code.
type Collector struct {
	ranges   []Range
	tables   domain.CategoryTables
	validate *validator.Validate
}

// New creates a collector over the given category tables.
func New(tables domain.CategoryTables) *Collector {
	ranges := make([]Range, len(DefaultRanges))
	copy(ranges, DefaultRanges)

	validate := validator.New(validator.WithRequiredStructEnabled())
	validate.RegisterTagNameFunc(func(f reflect.StructField) string {
		return f.Tag.Get("form")
	})

	return &Collector{
		ranges:   ranges,
		tables:   tables,
		validate: validate,
	}
}

// Constraints returns the numeric widget ranges in form order.
func (c *Collector) Constraints() []Range {
	out := make([]Range, len(c.ranges))
	copy(out, c.ranges)
	return out
}

// Options returns the selectable labels of every categorical field.
func (c *Collector) Options() map[domain.Field][]string {
	out := make(map[domain.Field][]string, len(domain.CategoricalFields))
	for _, field := range domain.CategoricalFields {
		if table, ok := c.tables[field]; ok {
			out[field] = table.Labels()
		}
	}
	return out
}

// Collect decodes a full form submission and reports every violation at once.
// Returns ErrNotSubmitted when the submit action is absent; there is no partial submission.
func (c *Collector) Collect(form url.Values) (*domain.RawInputs, error) {
	if form.Get("action") != SubmitAction {
		return nil, ErrNotSubmitted
	}

	found := make(map[domain.Field]string)
	number := func(field domain.Field) int {
		raw := strings.TrimSpace(form.Get(string(field)))
		v, err := strconv.Atoi(raw)
		if err != nil {
			found[field] = "must be a whole number"
		}
		return v
	}

	raw := &domain.RawInputs{
		Name:          strings.TrimSpace(form.Get("name")),
		Age:           number(domain.FieldAge),
		Gender:        form.Get(string(domain.FieldGender)),
		Education:     form.Get(string(domain.FieldEducation)),
		Occupation:    form.Get(string(domain.FieldOccupation)),
		HoursPerWeek:  number(domain.FieldHoursPerWeek),
		CapitalGain:   number(domain.FieldCapitalGain),
		CapitalLoss:   number(domain.FieldCapitalLoss),
		NativeCountry: form.Get(string(domain.FieldNativeCountry)),
	}

	c.check(*raw, found)
	if err := ordered(found); err != nil {
		return nil, err
	}
	return raw, nil
}

// Validate applies the form constraints to inputs that did not come through
// the form widgets (JSON API submissions).
func (c *Collector) Validate(raw domain.RawInputs) error {
	found := make(map[domain.Field]string)
	c.check(raw, found)
	return ordered(found)
}

// check records one reason per failing field. Fields already present in found
// (unparseable numbers) keep their reason.
func (c *Collector) check(raw domain.RawInputs, found map[domain.Field]string) {
	record := func(field domain.Field, reason string) {
		if _, seen := found[field]; !seen {
			found[field] = reason
		}
	}

	inputs := formInputs{
		Age:           raw.Age,
		HoursPerWeek:  raw.HoursPerWeek,
		CapitalGain:   raw.CapitalGain,
		CapitalLoss:   raw.CapitalLoss,
		Gender:        raw.Gender,
		Education:     raw.Education,
		Occupation:    raw.Occupation,
		NativeCountry: raw.NativeCountry,
	}

	if err := c.validate.Struct(inputs); err != nil {
		var fieldErrs validator.ValidationErrors
		if !errors.As(err, &fieldErrs) {
			record(domain.FieldAge, err.Error())
			return
		}
		for _, fe := range fieldErrs {
			field := domain.Field(fe.Field())
			if fe.Tag() == "required" {
				record(field, "is required")
				continue
			}
			if r, ok := c.rangeFor(field); ok {
				record(field, fmt.Sprintf("must be between %d and %d", r.Min, r.Max))
				continue
			}
			record(field, fmt.Sprintf("failed %s=%s", fe.Tag(), fe.Param()))
		}
	}

	for _, field := range domain.CategoricalFields {
		label, _ := raw.Category(field)
		if label == "" {
			continue
		}
		table, ok := c.tables[field]
		if !ok || !table.Contains(label) {
			var allowed []string
			if ok {
				allowed = table.Labels()
			}
			record(field, fmt.Sprintf("must be one of [%s]", strings.Join(allowed, ", ")))
		}
	}
}

func (c *Collector) rangeFor(field domain.Field) (Range, bool) {
	for _, r := range c.ranges {
		if r.Field == field {
			return r, true
		}
	}
	return Range{}, false
}

func ordered(found map[domain.Field]string) error {
	if len(found) == 0 {
		return nil
	}
	errs := make(domain.ValidationErrors, 0, len(found))
	for _, field := range fieldOrder {
		if reason, ok := found[field]; ok {
			errs = append(errs, &domain.ValidationError{Field: string(field), Reason: reason})
		}
	}
	return errs
}

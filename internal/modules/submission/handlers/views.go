package handlers

import (
	"errors"
	"fmt"
	"html/template"
	"net/url"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/aristath/salary-predictor/internal/domain"
	"github.com/aristath/salary-predictor/internal/modules/catalog"
	"github.com/aristath/salary-predictor/internal/modules/charts"
	"github.com/aristath/salary-predictor/internal/modules/collector"
	"github.com/aristath/salary-predictor/internal/modules/submission"
)

// ModelDetails is the informational panel shown beside the form.
type ModelDetails struct {
	Dataset   string   `json:"dataset"`
	Algorithm string   `json:"algorithm"`
	Accuracy  float64  `json:"accuracy,omitempty"`
	Features  []string `json:"features"`
	Notes     string   `json:"notes,omitempty"`
}

// formOrder is the top-to-bottom order of the employee form.
var formOrder = []domain.Field{
	domain.FieldAge,
	domain.FieldGender,
	domain.FieldEducation,
	domain.FieldOccupation,
	domain.FieldHoursPerWeek,
	domain.FieldCapitalGain,
	domain.FieldCapitalLoss,
	domain.FieldNativeCountry,
}

var selectLabels = map[domain.Field]string{
	domain.FieldGender:        "Gender",
	domain.FieldEducation:     "Education",
	domain.FieldOccupation:    "Occupation",
	domain.FieldNativeCountry: "Native Country",
}

// sliderSpan is the widest range still rendered as a slider.
const sliderSpan = 100

type fieldView struct {
	Field   string
	Label   string
	Widget  string // range, number or select
	Min     int
	Max     int
	Step    int
	Value   string
	Options []string
}

type resultView struct {
	Name    string
	Label   string
	Monthly string
	Annual  string
}

type errorView struct {
	Kind     string
	Title    string
	Message  string
	Expected int
	Actual   int
}

type barView struct {
	Label   string
	Value   string
	Percent int
}

type pageData struct {
	Name        string
	Fields      []fieldView
	FieldErrors map[string]string
	Details     ModelDetails
	Result      *resultView
	Error       *errorView
	Trend       []barView
	Roles       []barView
	Animation   interface{}
}

var templateFuncs = template.FuncMap{
	"join": strings.Join,
	"percent": func(v float64) string {
		return strconv.FormatFloat(v*100, 'f', 1, 64) + "%"
	},
}

// FormatCurrency renders an integer amount with thousands separators.
func FormatCurrency(symbol string, amount int) string {
	return symbol + humanize.Comma(int64(amount))
}

// buildFields lays out the form widgets. Posted values win over defaults so a
// rejected submission is shown as entered.
func buildFields(c *collector.Collector, posted url.Values) []fieldView {
	ranges := make(map[domain.Field]collector.Range)
	for _, r := range c.Constraints() {
		ranges[r.Field] = r
	}
	options := c.Options()

	fields := make([]fieldView, 0, len(formOrder))
	for _, field := range formOrder {
		name := string(field)
		value := posted.Get(name)

		if r, ok := ranges[field]; ok {
			widget := "number"
			if r.Max-r.Min <= sliderSpan {
				widget = "range"
			}
			if value == "" {
				value = strconv.Itoa(r.Default)
			}
			fields = append(fields, fieldView{
				Field:  name,
				Label:  r.Label,
				Widget: widget,
				Min:    r.Min,
				Max:    r.Max,
				Step:   r.Step,
				Value:  value,
			})
			continue
		}

		opts := options[field]
		if value == "" && len(opts) > 0 {
			value = opts[0]
		}
		fields = append(fields, fieldView{
			Field:   name,
			Label:   selectLabels[field],
			Widget:  "select",
			Value:   value,
			Options: opts,
		})
	}
	return fields
}

func newResultView(name, currency string, result *domain.PredictionResult) *resultView {
	if strings.TrimSpace(name) == "" {
		name = "Employee"
	}
	return &resultView{
		Name:    name,
		Label:   result.Label,
		Monthly: FormatCurrency(currency, result.MonthlyEstimate),
		Annual:  FormatCurrency(currency, result.AnnualEstimate),
	}
}

func newErrorView(err error) (*errorView, map[string]string) {
	kind := domain.KindOf(err)
	view := &errorView{Kind: string(kind), Message: err.Error()}
	fieldErrors := map[string]string{}

	var (
		validations domain.ValidationErrors
		validation  *domain.ValidationError
		mismatch    *domain.FeatureMismatchError
	)
	switch {
	case errors.As(err, &validations):
		view.Title = "Please correct the highlighted fields."
		for _, v := range validations {
			fieldErrors[v.Field] = v.Reason
		}
	case errors.As(err, &validation):
		view.Title = "Please correct the highlighted fields."
		fieldErrors[validation.Field] = validation.Reason
	case errors.As(err, &mismatch):
		view.Title = "Feature mismatch!"
		view.Expected = mismatch.Expected
		view.Actual = mismatch.Actual
	case kind == domain.KindLookup:
		view.Title = "Encoding failed."
	case kind == domain.KindPrediction:
		view.Title = "Prediction failed."
	default:
		view.Title = "Something went wrong."
	}
	return view, fieldErrors
}

func barsFromTrend(points []charts.ChartDataPoint, currency string) []barView {
	max := 0
	for _, p := range points {
		if p.Value > max {
			max = p.Value
		}
	}
	bars := make([]barView, 0, len(points))
	for _, p := range points {
		bars = append(bars, barView{
			Label:   fmt.Sprintf("Month %d", p.Month),
			Value:   FormatCurrency(currency, p.Value),
			Percent: percentOf(p.Value, max),
		})
	}
	return bars
}

func barsFromRoles(roles []catalog.RoleSalary, currency string) []barView {
	max := 0
	for _, r := range roles {
		if r.Monthly > max {
			max = r.Monthly
		}
	}
	bars := make([]barView, 0, len(roles))
	for _, r := range roles {
		bars = append(bars, barView{
			Label:   r.Role,
			Value:   FormatCurrency(currency, r.Monthly),
			Percent: percentOf(r.Monthly, max),
		})
	}
	return bars
}

func percentOf(v, max int) int {
	if max <= 0 || v <= 0 {
		return 0
	}
	return v * 100 / max
}

func (h *Handler) page(posted url.Values, outcome *submission.Outcome) pageData {
	data := pageData{
		Name:        strings.TrimSpace(posted.Get("name")),
		Fields:      buildFields(h.collector, posted),
		FieldErrors: map[string]string{},
		Details:     h.details,
	}
	data.Animation = h.animation
	if outcome == nil {
		return data
	}

	switch outcome.State {
	case submission.Rendered:
		name := data.Name
		if outcome.Inputs != nil {
			name = outcome.Inputs.Name
		}
		data.Result = newResultView(name, h.currency, outcome.Result)
		if outcome.Charts != nil {
			data.Trend = barsFromTrend(outcome.Charts.Trend, h.currency)
			data.Roles = barsFromRoles(outcome.Charts.Roles, h.currency)
		}
	case submission.ErrorDisplayed:
		data.Error, data.FieldErrors = newErrorView(outcome.Err)
	}
	return data
}

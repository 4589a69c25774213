// Package handlers provides HTTP handlers for the employee form and the prediction API.
package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/aristath/salary-predictor/internal/domain"
	"github.com/aristath/salary-predictor/internal/modules/charts"
	"github.com/aristath/salary-predictor/internal/modules/collector"
	"github.com/aristath/salary-predictor/internal/modules/encoding"
	"github.com/aristath/salary-predictor/internal/modules/prediction"
	"github.com/aristath/salary-predictor/internal/modules/submission"
	"github.com/aristath/salary-predictor/pkg/embedded"
)

// maxBodyBytes caps JSON request bodies.
const maxBodyBytes = 64 << 10

// Options carries the collaborators a Handler renders from.
type Options struct {
	Pipeline       *submission.Pipeline
	Collector      *collector.Collector
	Encoder        *encoding.Encoder
	Decorator      charts.Decorator
	Details        ModelDetails
	Defaults       map[string]float64
	CurrencySymbol string
	Animation      json.RawMessage
}

// Handler handles form and prediction HTTP requests
type Handler struct {
	pipeline  *submission.Pipeline
	collector *collector.Collector
	encoder   *encoding.Encoder
	decorator charts.Decorator
	details   ModelDetails
	defaults  map[string]float64
	currency  string
	animation interface{}
	templates *template.Template
	log       zerolog.Logger
}

// NewHandler creates a new submission handler and parses the embedded templates.
func NewHandler(opts Options, log zerolog.Logger) (*Handler, error) {
	templates, err := template.New("").Funcs(templateFuncs).ParseFS(embedded.Files, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}

	h := &Handler{
		pipeline:  opts.Pipeline,
		collector: opts.Collector,
		encoder:   opts.Encoder,
		decorator: opts.Decorator,
		details:   opts.Details,
		defaults:  opts.Defaults,
		currency:  opts.CurrencySymbol,
		templates: templates,
		log:       log.With().Str("handler", "submission").Logger(),
	}

	// Decoded so the template escapes it in the script context.
	if len(opts.Animation) > 0 {
		if err := json.Unmarshal(opts.Animation, &h.animation); err != nil {
			h.log.Warn().Err(err).Msg("Ignoring malformed animation asset")
			h.animation = nil
		}
	}

	return h, nil
}

// StatusFor maps an error kind to its HTTP status.
func StatusFor(kind domain.ErrorKind) int {
	switch kind {
	case domain.KindValidation:
		return http.StatusBadRequest
	case domain.KindFeatureMismatch:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

// HandleIndex handles GET /
func (h *Handler) HandleIndex(w http.ResponseWriter, r *http.Request) {
	h.render(w, http.StatusOK, h.page(nil, nil))
}

// HandlePredictForm handles POST /predict
func (h *Handler) HandlePredictForm(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.render(w, http.StatusBadRequest, h.page(nil, &submission.Outcome{
			State: submission.ErrorDisplayed,
			Err:   &domain.ValidationError{Field: "form", Reason: "could not be parsed"},
		}))
		return
	}

	outcome := h.pipeline.SubmitForm(r.PostForm)

	status := http.StatusOK
	if outcome.State == submission.ErrorDisplayed {
		status = StatusFor(domain.KindOf(outcome.Err))
	}
	h.render(w, status, h.page(r.PostForm, outcome))
}

type predictResponse struct {
	SubmissionID    string             `json:"submission_id"`
	Name            string             `json:"name"`
	Class           domain.IncomeClass `json:"class"`
	Label           string             `json:"label"`
	MonthlyEstimate int                `json:"monthly_estimate"`
	AnnualEstimate  int                `json:"annual_estimate"`
	EstimateBasis   string             `json:"estimate_basis"`
	MonthlyDisplay  string             `json:"monthly_display"`
	AnnualDisplay   string             `json:"annual_display"`
	Charts          *submission.Charts `json:"charts,omitempty"`
	Trail           []submission.State `json:"trail"`
}

type fieldError struct {
	Field  string `json:"field"`
	Reason string `json:"reason"`
}

type errorResponse struct {
	Error        string             `json:"error"`
	Kind         domain.ErrorKind   `json:"kind"`
	SubmissionID string             `json:"submission_id,omitempty"`
	Fields       []fieldError       `json:"fields,omitempty"`
	Expected     int                `json:"expected,omitempty"`
	Actual       *int               `json:"actual,omitempty"`
	Trail        []submission.State `json:"trail,omitempty"`
}

// HandlePredict handles POST /api/predict
func (h *Handler) HandlePredict(w http.ResponseWriter, r *http.Request) {
	raw, ok := h.decodeInputs(w, r)
	if !ok {
		return
	}

	outcome := h.pipeline.SubmitInputs(raw)
	if outcome.State != submission.Rendered {
		h.writeOutcomeError(w, outcome)
		return
	}

	result := outcome.Result
	h.writeJSON(w, http.StatusOK, predictResponse{
		SubmissionID:    outcome.ID,
		Name:            outcome.Inputs.Name,
		Class:           result.Class,
		Label:           result.Label,
		MonthlyEstimate: result.MonthlyEstimate,
		AnnualEstimate:  result.AnnualEstimate,
		EstimateBasis:   prediction.EstimateBasis,
		MonthlyDisplay:  FormatCurrency(h.currency, result.MonthlyEstimate),
		AnnualDisplay:   FormatCurrency(h.currency, result.AnnualEstimate),
		Charts:          outcome.Charts,
		Trail:           outcome.Trail,
	})
}

// HandleEncode handles POST /api/encode
func (h *Handler) HandleEncode(w http.ResponseWriter, r *http.Request) {
	raw, ok := h.decodeInputs(w, r)
	if !ok {
		return
	}

	if err := h.collector.Validate(raw); err != nil {
		h.writeDomainError(w, err, "", nil)
		return
	}

	schema := h.pipeline.Schema()
	slots, err := h.encoder.Describe(raw, schema)
	var mismatch *domain.FeatureMismatchError
	if err != nil && !errors.As(err, &mismatch) {
		h.writeDomainError(w, err, "", nil)
		return
	}

	status := http.StatusOK
	if mismatch != nil {
		status = StatusFor(domain.KindFeatureMismatch)
	}

	vector := make([]float64, 0, len(slots))
	for _, slot := range slots {
		if slot.Source != encoding.SourceUnresolved {
			vector = append(vector, slot.Value)
		}
	}

	response := map[string]interface{}{
		"expected": len(schema),
		"actual":   len(vector),
		"features": slots,
		"vector":   vector,
	}
	if mismatch != nil {
		response["error"] = mismatch.Error()
		response["kind"] = domain.KindFeatureMismatch
	}
	h.writeJSON(w, status, response)
}

// HandleGetSchema handles GET /api/schema
func (h *Handler) HandleGetSchema(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"feature_names": h.pipeline.Schema(),
		"constraints":   h.collector.Constraints(),
		"options":       h.collector.Options(),
		"defaults":      h.defaults,
		"model":         h.details,
	})
}

// HandleGetRoles handles GET /api/charts/roles
func (h *Handler) HandleGetRoles(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"roles": h.decorator.RoleSalaries(),
	})
}

func (h *Handler) decodeInputs(w http.ResponseWriter, r *http.Request) (domain.RawInputs, bool) {
	var raw domain.RawInputs

	decoder := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&raw); err != nil {
		h.writeError(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return raw, false
	}
	return raw, true
}

func (h *Handler) writeOutcomeError(w http.ResponseWriter, outcome *submission.Outcome) {
	h.writeDomainError(w, outcome.Err, outcome.ID, outcome.Trail)
}

func (h *Handler) writeDomainError(w http.ResponseWriter, err error, id string, trail []submission.State) {
	kind := domain.KindOf(err)
	response := errorResponse{
		Error:        err.Error(),
		Kind:         kind,
		SubmissionID: id,
		Trail:        trail,
	}

	var (
		validations domain.ValidationErrors
		validation  *domain.ValidationError
		mismatch    *domain.FeatureMismatchError
	)
	switch {
	case errors.As(err, &validations):
		for _, v := range validations {
			response.Fields = append(response.Fields, fieldError{Field: v.Field, Reason: v.Reason})
		}
	case errors.As(err, &validation):
		response.Fields = []fieldError{{Field: validation.Field, Reason: validation.Reason}}
	case errors.As(err, &mismatch):
		actual := mismatch.Actual
		response.Expected = mismatch.Expected
		response.Actual = &actual
	}

	h.writeJSON(w, StatusFor(kind), response)
}

func (h *Handler) render(w http.ResponseWriter, status int, data pageData) {
	var buf bytes.Buffer
	if err := h.templates.ExecuteTemplate(&buf, "index", data); err != nil {
		h.log.Error().Err(err).Msg("Failed to render page")
		http.Error(w, "Failed to render page", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if _, err := buf.WriteTo(w); err != nil {
		h.log.Debug().Err(err).Msg("Failed to write page")
	}
}

// writeJSON writes a JSON response
func (h *Handler) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.log.Error().Err(err).Msg("Failed to encode JSON response")
	}
}

// writeError writes an error response
func (h *Handler) writeError(w http.ResponseWriter, status int, message string) {
	h.writeJSON(w, status, map[string]string{
		"error": message,
	})
}

package submission

import (
	"errors"
	"net/url"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/aristath/salary-predictor/internal/domain"
	"github.com/aristath/salary-predictor/internal/modules/catalog"
	"github.com/aristath/salary-predictor/internal/modules/charts"
	"github.com/aristath/salary-predictor/internal/modules/collector"
	"github.com/aristath/salary-predictor/internal/modules/encoding"
)

// Predictor produces a result from an encoded vector.
type Predictor interface {
	Predict(vector domain.FeatureVector) (*domain.PredictionResult, error)
}

// Recorder receives submission outcomes for instrumentation.
type Recorder interface {
	ObserveSubmission(outcome string, elapsed time.Duration)
	ObservePrediction(label string)
}

// Charts is the decorative data rendered with a successful prediction.
type Charts struct {
	Trend []charts.ChartDataPoint `json:"trend"`
	Roles []catalog.RoleSalary    `json:"roles"`
}

// Outcome is everything known about one submission once it stops.
// Result and Charts are set only when State is Rendered, Err only when State
// is ErrorDisplayed.
type Outcome struct {
	ID     string
	State  State
	Trail  []State
	Inputs *domain.RawInputs
	Vector domain.FeatureVector
	Result *domain.PredictionResult
	Charts *Charts
	Err    error
}

// Pipeline runs Collector → Encoder → Predictor synchronously for each submission.
// All collaborators are read-only, so one Pipeline serves concurrent requests.
type Pipeline struct {
	collector *collector.Collector
	encoder   *encoding.Encoder
	predictor Predictor
	decorator charts.Decorator
	schema    []string
	recorder  Recorder
	log       zerolog.Logger
}

// NewPipeline creates a new submission pipeline.
// schema is the artifact's ordered feature names. recorder may be nil.
func NewPipeline(
	c *collector.Collector,
	enc *encoding.Encoder,
	predictor Predictor,
	decorator charts.Decorator,
	schema []string,
	recorder Recorder,
	log zerolog.Logger,
) *Pipeline {
	copied := make([]string, len(schema))
	copy(copied, schema)

	return &Pipeline{
		collector: c,
		encoder:   enc,
		predictor: predictor,
		decorator: decorator,
		schema:    copied,
		recorder:  recorder,
		log:       log.With().Str("component", "submission").Logger(),
	}
}

// Schema returns the feature names vectors are encoded against.
func (p *Pipeline) Schema() []string {
	out := make([]string, len(p.schema))
	copy(out, p.schema)
	return out
}

// SubmitForm handles a posted form. Without the submit action the outcome
// stays in AwaitingInput and nothing runs.
func (p *Pipeline) SubmitForm(form url.Values) *Outcome {
	raw, err := p.collector.Collect(form)
	if errors.Is(err, collector.ErrNotSubmitted) {
		return &Outcome{State: AwaitingInput, Trail: []State{AwaitingInput}}
	}

	run := p.start()
	run.lifecycle.Advance(Validating)
	if err != nil {
		return p.fail(run, err)
	}
	return p.proceed(run, *raw)
}

// SubmitInputs handles inputs that were decoded elsewhere, such as the JSON API.
func (p *Pipeline) SubmitInputs(raw domain.RawInputs) *Outcome {
	run := p.start()
	run.lifecycle.Advance(Validating)
	if err := p.collector.Validate(raw); err != nil {
		return p.fail(run, err)
	}
	return p.proceed(run, raw)
}

type runState struct {
	lifecycle *Lifecycle
	outcome   *Outcome
	started   time.Time
	log       zerolog.Logger
}

func (p *Pipeline) start() *runState {
	id := uuid.New().String()
	return &runState{
		lifecycle: NewLifecycle(),
		outcome:   &Outcome{ID: id},
		started:   time.Now(),
		log:       p.log.With().Str("submission_id", id).Logger(),
	}
}

func (p *Pipeline) proceed(run *runState, raw domain.RawInputs) *Outcome {
	inputs := raw
	run.outcome.Inputs = &inputs

	run.lifecycle.Advance(Encoding)
	vector, err := p.encoder.Encode(raw, p.schema)
	if err != nil {
		return p.fail(run, err)
	}
	run.outcome.Vector = vector

	run.lifecycle.Advance(Predicting)
	result, err := p.predictor.Predict(vector)
	if err != nil {
		return p.fail(run, err)
	}

	run.lifecycle.Advance(Rendered)
	run.outcome.Result = result
	if p.decorator != nil {
		run.outcome.Charts = &Charts{
			Trend: p.decorator.SalaryTrend(result.MonthlyEstimate),
			Roles: p.decorator.RoleSalaries(),
		}
	}

	run.log.Info().
		Str("label", result.Label).
		Dur("elapsed", time.Since(run.started)).
		Msg("Submission rendered")

	if p.recorder != nil {
		p.recorder.ObservePrediction(result.Label)
	}
	return p.finish(run, "rendered")
}

func (p *Pipeline) fail(run *runState, err error) *Outcome {
	run.lifecycle.Advance(ErrorDisplayed)
	run.outcome.Err = err

	kind := domain.KindOf(err)
	event := run.log.Warn()
	if kind == domain.KindLookup || kind == domain.KindInternal {
		event = run.log.Error()
	}
	event.Err(err).Str("kind", string(kind)).Msg("Submission failed")

	return p.finish(run, string(kind))
}

func (p *Pipeline) finish(run *runState, outcome string) *Outcome {
	run.outcome.State = run.lifecycle.State()
	run.outcome.Trail = run.lifecycle.Trail()
	if p.recorder != nil {
		p.recorder.ObserveSubmission(outcome, time.Since(run.started))
	}
	return run.outcome
}

// Package pipeline drives the create→analyze request sequence that turns a
// submitted calculator form into a displayed recommendation.
package pipeline

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/universiq/uvq/internal/domain"
)

// GenericFailureMessage the only error text shown to the user for a failed
// run; the concrete cause goes to the log.
const GenericFailureMessage = "Could not get a recommendation right now. Please try again."

// Backend is the subset of the backend client the pipeline needs.
type Backend interface {
	CreateScenario(ctx context.Context, req domain.ScenarioRequest) (string, error)
	AnalyzeScenario(ctx context.Context, scenarioID string) (domain.Recommendation, error)
}

// PriceSource exposes the current BTC price for USD conversion.
type PriceSource interface {
	Price() (decimal.Decimal, bool)
}

// Journal persists received recommendations. Optional; journaling failures
// never fail a run.
type Journal interface {
	Save(event domain.RecommendationEvent) error
}

// Phase of the pipeline's run state machine.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseSubmitting
	PhaseSuccess
	PhaseFailed
)

// ValidationError rejected form input; nothing was sent to the backend.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return e.Reason
}

var (
	// ErrRunInFlight a submission is already running; the submit action
	// should have been disabled.
	ErrRunInFlight = errors.New("a submission is already in flight")
	// ErrPipeline the create or analyze call failed and the run was aborted.
	ErrPipeline = errors.New("recommendation request failed")
)

// FormInput raw calculator form values, exactly as the user typed them.
type FormInput struct {
	ScenarioType  domain.ScenarioType
	AmountUSD     string
	TargetDate    string // YYYY-MM-DD, empty when flexible
	RiskTolerance domain.RiskTolerance
	InflationRate string // empty falls back to the backend default
}

// Result of a successful run: the recommendation plus its USD equivalent
// at the price current when the run finished.
type Result struct {
	ScenarioID     string
	Recommendation domain.Recommendation
	USDEquivalent  decimal.Decimal
	PriceKnown     bool
}

// State read-only projection of the pipeline for rendering. Result is the
// last successful run's outcome and survives later failed attempts.
type State struct {
	Phase   Phase
	Result  *Result
	Message string
}

// Pipeline one per process. A generation counter ties each run to the
// calculator screen that started it, so a completion that outlives its
// screen is discarded instead of leaking into another calculator's view.
type Pipeline struct {
	backend Backend
	prices  PriceSource
	journal Journal
	logger  *zap.Logger

	mu       sync.Mutex
	gen      uint64
	owner    domain.ScenarioType
	inFlight bool
	phase    Phase
	result   *Result
	message  string
}

// New creates a pipeline. journal may be nil.
func New(backend Backend, prices PriceSource, journal Journal, logger *zap.Logger) *Pipeline {
	return &Pipeline{
		backend: backend,
		prices:  prices,
		journal: journal,
		logger:  logger,
	}
}

// Activate binds the pipeline to a freshly opened calculator screen. A run
// still in flight keeps executing, but its completion will be dropped.
func (p *Pipeline) Activate(scenarioType domain.ScenarioType) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.gen++
	p.owner = scenarioType
	p.inFlight = false
	p.phase = PhaseIdle
	p.result = nil
	p.message = ""
}

// Deactivate detaches the pipeline when the calculator screen closes.
func (p *Pipeline) Deactivate() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.gen++
	p.owner = ""
	p.inFlight = false
	p.phase = PhaseIdle
	p.result = nil
	p.message = ""
}

// ParseForm turns raw form strings into a validated ScenarioRequest. It
// returns a *ValidationError when the input is malformed; nothing may be
// sent to the backend in that case.
func ParseForm(input FormInput) (domain.ScenarioRequest, error) {
	amount, err := decimal.NewFromString(strings.TrimSpace(input.AmountUSD))
	if err != nil {
		return domain.ScenarioRequest{}, &ValidationError{Reason: "amount must be a number"}
	}
	if !amount.IsPositive() {
		return domain.ScenarioRequest{}, &ValidationError{Reason: "amount must be greater than zero"}
	}

	inflation := domain.DefaultInflationRate
	if raw := strings.TrimSpace(input.InflationRate); raw != "" {
		inflation, err = decimal.NewFromString(raw)
		if err != nil {
			return domain.ScenarioRequest{}, &ValidationError{Reason: "inflation rate must be a number"}
		}
	}

	risk := input.RiskTolerance
	if risk == "" {
		risk = domain.RiskMedium
	}

	req := domain.ScenarioRequest{
		ScenarioType:  input.ScenarioType,
		AmountUSD:     amount,
		TargetDate:    strings.TrimSpace(input.TargetDate),
		RiskTolerance: risk,
		InflationRate: inflation,
	}
	if req.ScenarioType == domain.ScenarioDaily {
		// the daily form never collects a date
		req.TargetDate = ""
	}

	if err := req.Validate(); err != nil {
		return domain.ScenarioRequest{}, &ValidationError{Reason: err.Error()}
	}
	return req, nil
}

// Submit validates the form and, when it parses, runs create→analyze
// strictly in that order. Callers run it off the UI goroutine and read
// state back through State. Only one run may be in flight; the loading
// flag is cleared on a single path regardless of outcome.
func (p *Pipeline) Submit(ctx context.Context, input FormInput) error {
	req, err := ParseForm(input)
	if err != nil {
		p.mu.Lock()
		p.message = err.Error()
		p.mu.Unlock()
		return err
	}

	p.mu.Lock()
	if p.inFlight {
		p.mu.Unlock()
		return ErrRunInFlight
	}
	gen := p.gen
	p.inFlight = true
	p.phase = PhaseSubmitting
	p.message = ""
	p.mu.Unlock()

	result, runErr := p.run(ctx, req)

	p.mu.Lock()
	defer p.mu.Unlock()
	if gen != p.gen {
		// the owning screen is gone; Activate/Deactivate already reset the
		// flags, so the completion is dropped wholesale
		return nil
	}
	p.inFlight = false
	if runErr != nil {
		p.phase = PhaseFailed
		p.message = GenericFailureMessage
		return runErr
	}
	p.phase = PhaseSuccess
	p.result = result
	p.message = ""
	return nil
}

func (p *Pipeline) run(ctx context.Context, req domain.ScenarioRequest) (*Result, error) {
	scenarioID, err := p.backend.CreateScenario(ctx, req)
	if err != nil {
		p.logger.Warn("scenario creation failed",
			zap.String("scenario_type", req.ScenarioType.String()),
			zap.Error(err))
		return nil, errors.Wrap(ErrPipeline, err.Error())
	}

	rec, err := p.backend.AnalyzeScenario(ctx, scenarioID)
	if err != nil {
		p.logger.Warn("scenario analysis failed",
			zap.String("scenario_id", scenarioID),
			zap.Error(err))
		return nil, errors.Wrap(ErrPipeline, err.Error())
	}

	result := &Result{ScenarioID: scenarioID, Recommendation: rec}
	if price, ok := p.prices.Price(); ok {
		result.USDEquivalent = rec.RecommendedBTCAmount.Mul(price)
		result.PriceKnown = true
	}

	if p.journal != nil {
		event := domain.RecommendationEvent{
			ReceivedAt:     time.Now().UTC(),
			ScenarioID:     scenarioID,
			ScenarioType:   req.ScenarioType,
			Recommendation: rec,
		}
		if err := p.journal.Save(event); err != nil {
			p.logger.Warn("failed to journal recommendation", zap.Error(err))
		}
	}

	p.logger.Info("recommendation received",
		zap.String("scenario_id", scenarioID),
		zap.String("timing", rec.OptimalTiming))
	return result, nil
}

// State returns a copy of the pipeline's renderable state.
func (p *Pipeline) State() State {
	p.mu.Lock()
	defer p.mu.Unlock()
	return State{Phase: p.phase, Result: p.result, Message: p.message}
}

// InFlight reports whether a run is currently executing; the submit action
// stays disabled while it is.
func (p *Pipeline) InFlight() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.inFlight
}

// Owner returns the scenario type of the calculator the pipeline currently
// serves, empty when detached.
func (p *Pipeline) Owner() domain.ScenarioType {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.owner
}

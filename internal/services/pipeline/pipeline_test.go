package pipeline

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/universiq/uvq/internal/domain"
	"github.com/universiq/uvq/internal/services/format"
)

type fakeBackend struct {
	mu           sync.Mutex
	createCalls  int
	analyzeCalls int
	createErr    error
	analyzeErr   error
	scenarioID   string
	lastRequest  domain.ScenarioRequest
	rec          domain.Recommendation
	createGate   chan struct{} // when set, CreateScenario blocks until closed
}

func (b *fakeBackend) CreateScenario(ctx context.Context, req domain.ScenarioRequest) (string, error) {
	b.mu.Lock()
	b.createCalls++
	b.lastRequest = req
	gate := b.createGate
	b.mu.Unlock()

	if gate != nil {
		<-gate
	}
	if b.createErr != nil {
		return "", b.createErr
	}
	return b.scenarioID, nil
}

func (b *fakeBackend) AnalyzeScenario(ctx context.Context, scenarioID string) (domain.Recommendation, error) {
	b.mu.Lock()
	b.analyzeCalls++
	b.mu.Unlock()

	if b.analyzeErr != nil {
		return domain.Recommendation{}, b.analyzeErr
	}
	rec := b.rec
	rec.ScenarioID = scenarioID
	return rec, nil
}

func (b *fakeBackend) calls() (int, int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.createCalls, b.analyzeCalls
}

type fixedPrice struct {
	price decimal.Decimal
	known bool
}

func (p fixedPrice) Price() (decimal.Decimal, bool) {
	return p.price, p.known
}

type capturingJournal struct {
	mu     sync.Mutex
	events []domain.RecommendationEvent
}

func (j *capturingJournal) Save(event domain.RecommendationEvent) error {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.events = append(j.events, event)
	return nil
}

func newTestPipeline(backend *fakeBackend, prices PriceSource, journal Journal) *Pipeline {
	return New(backend, prices, journal, zap.NewNop())
}

func dailyInput(amount string) FormInput {
	return FormInput{
		ScenarioType:  domain.ScenarioDaily,
		AmountUSD:     amount,
		RiskTolerance: domain.RiskMedium,
		InflationRate: "0.07",
	}
}

func TestSubmitRejectsMalformedAmountWithoutNetworkCalls(t *testing.T) {
	backend := &fakeBackend{scenarioID: "abc123"}
	pipe := newTestPipeline(backend, fixedPrice{}, nil)
	pipe.Activate(domain.ScenarioDaily)

	err := pipe.Submit(context.Background(), dailyInput(""))

	var validationErr *ValidationError
	require.ErrorAs(t, err, &validationErr)

	creates, analyzes := backend.calls()
	assert.Zero(t, creates, "malformed input must never reach the backend")
	assert.Zero(t, analyzes)

	state := pipe.State()
	assert.Equal(t, PhaseIdle, state.Phase)
	assert.NotEmpty(t, state.Message)
}

func TestSubmitRejectsNonPositiveAmount(t *testing.T) {
	backend := &fakeBackend{scenarioID: "abc123"}
	pipe := newTestPipeline(backend, fixedPrice{}, nil)
	pipe.Activate(domain.ScenarioDaily)

	for _, amount := range []string{"0", "-10", "abc"} {
		err := pipe.Submit(context.Background(), dailyInput(amount))
		var validationErr *ValidationError
		require.ErrorAs(t, err, &validationErr, "amount %q", amount)
	}

	creates, _ := backend.calls()
	assert.Zero(t, creates)
}

func TestSubmitCreateFailureNeverAnalyzes(t *testing.T) {
	backend := &fakeBackend{createErr: errors.New("boom")}
	pipe := newTestPipeline(backend, fixedPrice{}, nil)
	pipe.Activate(domain.ScenarioDaily)

	err := pipe.Submit(context.Background(), dailyInput("500"))
	require.ErrorIs(t, err, ErrPipeline)

	creates, analyzes := backend.calls()
	assert.Equal(t, 1, creates)
	assert.Zero(t, analyzes, "analyze must not run after a failed create")

	state := pipe.State()
	assert.Equal(t, PhaseFailed, state.Phase)
	assert.Equal(t, GenericFailureMessage, state.Message)
	assert.False(t, pipe.InFlight(), "the loading flag clears on failure too")
}

func TestSubmitFailureKeepsPreviousResult(t *testing.T) {
	backend := &fakeBackend{
		scenarioID: "abc123",
		rec: domain.Recommendation{
			RecommendedBTCAmount: decimal.RequireFromString("0.005"),
			OptimalTiming:        "lump_sum",
			ConfidenceScore:      decimal.RequireFromString("0.8"),
			RiskAssessment:       domain.RiskMedium,
		},
	}
	pipe := newTestPipeline(backend, fixedPrice{price: decimal.NewFromInt(100000), known: true}, nil)
	pipe.Activate(domain.ScenarioDaily)

	require.NoError(t, pipe.Submit(context.Background(), dailyInput("500")))
	first := pipe.State()
	require.NotNil(t, first.Result)

	backend.createErr = errors.New("boom")
	err := pipe.Submit(context.Background(), dailyInput("500"))
	require.ErrorIs(t, err, ErrPipeline)

	state := pipe.State()
	assert.Equal(t, PhaseFailed, state.Phase)
	require.NotNil(t, state.Result, "a failed attempt must not clear the previous recommendation")
	assert.Equal(t, first.Result.ScenarioID, state.Result.ScenarioID)
}

func TestSubmitEndToEndDailyScenario(t *testing.T) {
	backend := &fakeBackend{
		scenarioID: "abc123",
		rec: domain.Recommendation{
			RecommendedBTCAmount: decimal.RequireFromString("0.005"),
			OptimalTiming:        "lump_sum",
			ConfidenceScore:      decimal.RequireFromString("0.8"),
			Reasoning:            "volatility is low",
			RiskAssessment:       domain.RiskMedium,
			VolatilityForecast:   decimal.RequireFromString("0.02"),
		},
	}
	journal := &capturingJournal{}
	pipe := newTestPipeline(backend, fixedPrice{price: decimal.NewFromInt(100000), known: true}, journal)
	pipe.Activate(domain.ScenarioDaily)

	input := FormInput{
		ScenarioType:  domain.ScenarioDaily,
		AmountUSD:     "500",
		RiskTolerance: domain.RiskMedium,
		InflationRate: "0.07",
	}
	require.NoError(t, pipe.Submit(context.Background(), input))

	sent := backend.lastRequest
	assert.Equal(t, domain.ScenarioDaily, sent.ScenarioType)
	assert.Empty(t, sent.TargetDate, "daily scenarios carry no target date")
	assert.True(t, sent.AmountUSD.Equal(decimal.NewFromInt(500)))
	assert.True(t, sent.InflationRate.Equal(decimal.RequireFromString("0.07")))

	state := pipe.State()
	assert.Equal(t, PhaseSuccess, state.Phase)
	assert.Empty(t, state.Message)
	require.NotNil(t, state.Result)
	assert.Equal(t, "abc123", state.Result.ScenarioID)

	// 0.005 BTC at $100,000 is exactly $500.00 through the formatter
	require.True(t, state.Result.PriceKnown)
	assert.Equal(t, "$500.00", format.Currency(state.Result.USDEquivalent))
	assert.Equal(t, "₿0.00500000", format.BTC(state.Result.Recommendation.RecommendedBTCAmount))

	require.Len(t, journal.events, 1)
	assert.Equal(t, "abc123", journal.events[0].ScenarioID)
	assert.Equal(t, domain.ScenarioDaily, journal.events[0].ScenarioType)
}

func TestSubmitRejectsSecondRunWhileInFlight(t *testing.T) {
	gate := make(chan struct{})
	backend := &fakeBackend{scenarioID: "abc123", createGate: gate}
	pipe := newTestPipeline(backend, fixedPrice{}, nil)
	pipe.Activate(domain.ScenarioDaily)

	done := make(chan error, 1)
	go func() {
		done <- pipe.Submit(context.Background(), dailyInput("500"))
	}()

	require.Eventually(t, pipe.InFlight, time.Second, 5*time.Millisecond)

	err := pipe.Submit(context.Background(), dailyInput("500"))
	require.ErrorIs(t, err, ErrRunInFlight)

	close(gate)
	require.NoError(t, <-done)

	creates, _ := backend.calls()
	assert.Equal(t, 1, creates, "double submission must not create two scenarios")
}

func TestStaleCompletionDoesNotLeakIntoNextScreen(t *testing.T) {
	gate := make(chan struct{})
	backend := &fakeBackend{scenarioID: "abc123", createGate: gate}
	pipe := newTestPipeline(backend, fixedPrice{}, nil)
	pipe.Activate(domain.ScenarioDaily)

	done := make(chan error, 1)
	go func() {
		done <- pipe.Submit(context.Background(), dailyInput("500"))
	}()

	require.Eventually(t, pipe.InFlight, time.Second, 5*time.Millisecond)

	// user backs out and opens a different calculator while the run hangs
	pipe.Deactivate()
	pipe.Activate(domain.ScenarioRetirement)

	close(gate)
	require.NoError(t, <-done)

	state := pipe.State()
	assert.Equal(t, PhaseIdle, state.Phase)
	assert.Nil(t, state.Result, "a completion from a closed screen must not surface elsewhere")
	assert.Equal(t, domain.ScenarioRetirement, pipe.Owner())
}

func TestParseForm(t *testing.T) {
	tests := []struct {
		name    string
		input   FormInput
		wantErr bool
		check   func(t *testing.T, req domain.ScenarioRequest)
	}{
		{
			name: "defaults applied",
			input: FormInput{
				ScenarioType: domain.ScenarioRetirement,
				AmountUSD:    "1000",
			},
			check: func(t *testing.T, req domain.ScenarioRequest) {
				assert.Equal(t, domain.RiskMedium, req.RiskTolerance)
				assert.True(t, req.InflationRate.Equal(domain.DefaultInflationRate))
			},
		},
		{
			name: "target date kept for dated scenarios",
			input: FormInput{
				ScenarioType:  domain.ScenarioUniversity,
				AmountUSD:     "2500.50",
				TargetDate:    "2030-09-01",
				RiskTolerance: domain.RiskLow,
			},
			check: func(t *testing.T, req domain.ScenarioRequest) {
				assert.Equal(t, "2030-09-01", req.TargetDate)
			},
		},
		{
			name: "target date stripped for daily",
			input: FormInput{
				ScenarioType: domain.ScenarioDaily,
				AmountUSD:    "50",
				TargetDate:   "2030-09-01",
			},
			check: func(t *testing.T, req domain.ScenarioRequest) {
				assert.Empty(t, req.TargetDate)
			},
		},
		{
			name:    "whitespace amount rejected",
			input:   FormInput{ScenarioType: domain.ScenarioDaily, AmountUSD: "   "},
			wantErr: true,
		},
		{
			name:    "garbage inflation rejected",
			input:   FormInput{ScenarioType: domain.ScenarioDaily, AmountUSD: "50", InflationRate: "x"},
			wantErr: true,
		},
		{
			name:    "inflation above one rejected",
			input:   FormInput{ScenarioType: domain.ScenarioDaily, AmountUSD: "50", InflationRate: "1.5"},
			wantErr: true,
		},
		{
			name:    "malformed date rejected",
			input:   FormInput{ScenarioType: domain.ScenarioUniversity, AmountUSD: "50", TargetDate: "soon"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, err := ParseForm(tt.input)
			if tt.wantErr {
				var validationErr *ValidationError
				require.ErrorAs(t, err, &validationErr)
				return
			}
			require.NoError(t, err)
			if tt.check != nil {
				tt.check(t, req)
			}
		})
	}
}

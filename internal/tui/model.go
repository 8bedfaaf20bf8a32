package tui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/universiq/uvq/internal/domain"
	"github.com/universiq/uvq/internal/services/market"
	"github.com/universiq/uvq/internal/services/pipeline"
)

// refreshInterval cadence at which the UI re-reads the snapshot store and
// pipeline state. Polling the store is cheap; the poller itself runs on
// its own schedule.
const refreshInterval = time.Second

type focusField int

const (
	focusAmount focusField = iota
	focusDate
	focusRisk
	focusInflation
)

// calculatorForm raw form state for the active calculator. Values stay
// strings until the pipeline parses them on submit.
type calculatorForm struct {
	amount    string
	date      string
	risk      domain.RiskTolerance
	inflation string
	focus     focusField
}

func newCalculatorForm() calculatorForm {
	return calculatorForm{
		risk:      domain.RiskMedium,
		inflation: "0.07",
		focus:     focusAmount,
	}
}

type (
	tickMsg       time.Time
	submitDoneMsg struct{ err error }
)

func tick() tea.Cmd {
	return tea.Tick(refreshInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// Model is the bubbletea program backing the terminal UI. It renders
// read-only projections: the snapshot store, the pipeline state, and the
// navigator; it owns none of them except the cursor and form buffers.
type Model struct {
	nav      *Navigator
	store    *market.Store
	pipeline *pipeline.Pipeline
	logger   *zap.Logger

	cursor int
	form   calculatorForm
	width  int
	height int
}

// NewModel wires the UI to its collaborators.
func NewModel(nav *Navigator, store *market.Store, pipe *pipeline.Pipeline, logger *zap.Logger) Model {
	return Model{
		nav:      nav,
		store:    store,
		pipeline: pipe,
		logger:   logger,
		form:     newCalculatorForm(),
	}
}

// Init starts the refresh ticker.
func (m Model) Init() tea.Cmd {
	return tick()
}

// Update handles UI events.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	case tickMsg:
		return m, tick()
	case submitDoneMsg:
		// state already lives in the pipeline; the next render picks it up
		return m, nil
	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyCtrlC {
		return m, tea.Quit
	}
	if m.nav.View() == ViewDashboard {
		return m.handleDashboardKey(msg)
	}
	return m.handleCalculatorKey(msg)
}

func (m Model) handleDashboardKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q":
		return m, tea.Quit
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(domain.ScenarioTypes)-1 {
			m.cursor++
		}
	case "enter":
		scenarioType := domain.ScenarioTypes[m.cursor]
		if m.nav.Open(scenarioType) {
			m.pipeline.Activate(scenarioType)
			m.form = newCalculatorForm()
			m.logger.Debug("opened calculator", zap.String("scenario_type", scenarioType.String()))
		}
	}
	return m, nil
}

func (m Model) handleCalculatorKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		if m.nav.Back() {
			m.pipeline.Deactivate()
		}
		return m, nil
	case "enter":
		return m, m.submit()
	case "tab", "down":
		m.form.focus = m.nextFocus(m.form.focus, 1)
		return m, nil
	case "shift+tab", "up":
		m.form.focus = m.nextFocus(m.form.focus, -1)
		return m, nil
	case "left":
		if m.form.focus == focusRisk {
			m.form.risk = cycleRisk(m.form.risk, -1)
		}
		return m, nil
	case "right":
		if m.form.focus == focusRisk {
			m.form.risk = cycleRisk(m.form.risk, 1)
		}
		return m, nil
	case "backspace":
		m.editFocused(func(s string) string {
			if s == "" {
				return s
			}
			runes := []rune(s)
			return string(runes[:len(runes)-1])
		})
		return m, nil
	}
	if msg.Type == tea.KeyRunes {
		text := string(msg.Runes)
		m.editFocused(func(s string) string {
			return s + text
		})
	}
	return m, nil
}

// nextFocus steps through the form fields, skipping the date field for
// daily scenarios, which never collect one.
func (m Model) nextFocus(current focusField, dir int) focusField {
	fields := []focusField{focusAmount, focusDate, focusRisk, focusInflation}
	if m.nav.Scenario() == domain.ScenarioDaily {
		fields = []focusField{focusAmount, focusRisk, focusInflation}
	}
	idx := 0
	for i, f := range fields {
		if f == current {
			idx = i
			break
		}
	}
	idx = (idx + dir + len(fields)) % len(fields)
	return fields[idx]
}

func (m *Model) editFocused(edit func(string) string) {
	switch m.form.focus {
	case focusAmount:
		m.form.amount = edit(m.form.amount)
	case focusDate:
		m.form.date = edit(m.form.date)
	case focusInflation:
		m.form.inflation = edit(m.form.inflation)
	}
}

func cycleRisk(current domain.RiskTolerance, dir int) domain.RiskTolerance {
	levels := []domain.RiskTolerance{domain.RiskLow, domain.RiskMedium, domain.RiskHigh}
	idx := 1
	for i, level := range levels {
		if level == current {
			idx = i
			break
		}
	}
	idx = (idx + dir + len(levels)) % len(levels)
	return levels[idx]
}

// submit hands the form to the pipeline off the UI goroutine. While a run
// is in flight the action is a no-op, so double-submission cannot create
// two scenarios.
func (m Model) submit() tea.Cmd {
	if m.pipeline.InFlight() {
		return nil
	}
	input := pipeline.FormInput{
		ScenarioType:  m.nav.Scenario(),
		AmountUSD:     m.form.amount,
		TargetDate:    m.form.date,
		RiskTolerance: m.form.risk,
		InflationRate: m.form.inflation,
	}
	pipe := m.pipeline
	return func() tea.Msg {
		err := pipe.Submit(context.Background(), input)
		return submitDoneMsg{err: err}
	}
}

// View renders the screen the navigator selects.
func (m Model) View() string {
	if m.nav.View() == ViewCalculator {
		return m.viewCalculator()
	}
	return m.viewDashboard()
}

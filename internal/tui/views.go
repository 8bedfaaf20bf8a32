package tui

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/universiq/uvq/internal/domain"
	"github.com/universiq/uvq/internal/services/classifier"
	"github.com/universiq/uvq/internal/services/format"
	"github.com/universiq/uvq/internal/services/pipeline"
)

// hundred converts the backend's 0..1 confidence score to a percentage.
var hundred = decimal.NewFromInt(100)

func (m Model) viewDashboard() string {
	var b strings.Builder
	b.WriteString(headerStyle.Render("UVQ — BITCOIN PAYMENT TIMING"))
	b.WriteString("\n")

	snap := m.store.Snapshot()

	if m.store.FetchFailed() {
		b.WriteString(errorStyle.Render("Market data is temporarily unavailable; showing the last known values."))
		b.WriteString("\n\n")
	}

	b.WriteString(panelStyle.Render(m.renderMarket(snap)))
	b.WriteString("\n\n")

	b.WriteString(labelStyle.Render("Choose a scenario:"))
	b.WriteString("\n")
	for i, scenarioType := range domain.ScenarioTypes {
		line := "  " + scenarioType.Title()
		if i == m.cursor {
			line = selectedStyle.Render("> " + scenarioType.Title())
		}
		b.WriteString(line)
		b.WriteString("\n")
	}

	b.WriteString(infoStyle.Render("↑/↓ select · enter open · q quit"))
	return b.String()
}

func (m Model) renderMarket(snap *domain.MarketSnapshot) string {
	var b strings.Builder

	if snap == nil {
		b.WriteString("Waiting for the first market update...")
		return b.String()
	}

	b.WriteString(fmt.Sprintf("%-16s %s\n", "BTC Price", format.Currency(snap.Price)))
	b.WriteString(fmt.Sprintf("%-16s %s\n", "24h Change", format.Percentage(snap.PriceChange24h)))

	level := classifier.Volatility(snap)
	style := colorStyle(classifier.VolatilityColor(snap))
	b.WriteString(fmt.Sprintf("%-16s %s\n", "Volatility", style.Render(string(level))))

	volume := "Unknown"
	if snap.Volume24h != nil {
		volume = format.Currency(*snap.Volume24h)
	}
	b.WriteString(fmt.Sprintf("%-16s %s\n", "24h Volume", volume))

	fees := classifier.FeeStatus(snap)
	if fee, ok := snap.MediumFee(); ok {
		fees = fmt.Sprintf("%s (%d sat/vB)", fees, fee)
	}
	b.WriteString(fmt.Sprintf("%-16s %s\n", "Network Fees", fees))

	b.WriteString(fmt.Sprintf("%-16s %s\n", "Timing", classifier.Timing(snap)))
	b.WriteString(fmt.Sprintf("%-16s %s", "Strategy", classifier.Strategy(snap)))
	return b.String()
}

func (m Model) viewCalculator() string {
	scenarioType := m.nav.Scenario()

	var b strings.Builder
	b.WriteString(headerStyle.Render(strings.ToUpper(scenarioType.Title())))
	b.WriteString("\n")

	state := m.pipeline.State()
	if state.Message != "" {
		b.WriteString(errorStyle.Render(state.Message))
		b.WriteString("\n\n")
	}

	b.WriteString(panelStyle.Render(m.renderForm(scenarioType, state)))
	b.WriteString("\n")

	if state.Phase == pipeline.PhaseSubmitting {
		b.WriteString(infoStyle.Render("Analyzing your scenario..."))
		b.WriteString("\n")
	}
	if state.Result != nil {
		b.WriteString("\n")
		b.WriteString(panelStyle.Render(renderResult(state.Result)))
		b.WriteString("\n")
	}

	b.WriteString(infoStyle.Render("tab/↑/↓ move · ←/→ risk · enter submit · esc back"))
	return b.String()
}

func (m Model) renderForm(scenarioType domain.ScenarioType, state pipeline.State) string {
	var b strings.Builder

	b.WriteString(m.renderField(focusAmount, "Amount (USD)", m.form.amount))
	if scenarioType != domain.ScenarioDaily {
		b.WriteString(m.renderField(focusDate, "Target date (YYYY-MM-DD, optional)", m.form.date))
	}
	b.WriteString(m.renderField(focusRisk, "Risk tolerance", string(m.form.risk)))
	b.WriteString(m.renderField(focusInflation, "Inflation rate (0-1)", m.form.inflation))

	if state.Phase == pipeline.PhaseSubmitting {
		b.WriteString("\n" + labelStyle.Render("[ submitting... ]"))
	} else {
		b.WriteString("\n" + selectedStyle.Render("[ get recommendation ]"))
	}
	return b.String()
}

func (m Model) renderField(field focusField, label, value string) string {
	style := inputStyle
	marker := "  "
	if m.form.focus == field {
		style = focusedInputStyle
		marker = "> "
	}
	if value == "" {
		value = "_"
	} else if m.form.focus == field {
		value += "│"
	}
	return fmt.Sprintf("%s%-36s %s\n", marker, labelStyle.Render(label), style.Render(value))
}

func renderResult(result *pipeline.Result) string {
	rec := result.Recommendation

	var b strings.Builder
	b.WriteString(selectedStyle.Render("Recommendation"))
	b.WriteString("\n\n")
	b.WriteString(fmt.Sprintf("%-18s %s\n", "Buy", format.BTC(rec.RecommendedBTCAmount)))

	usd := "Unknown"
	if result.PriceKnown {
		usd = format.Currency(result.USDEquivalent)
	}
	b.WriteString(fmt.Sprintf("%-18s %s\n", "USD equivalent", usd))
	b.WriteString(fmt.Sprintf("%-18s %s\n", "Timing", rec.OptimalTiming))
	b.WriteString(fmt.Sprintf("%-18s %s\n", "Confidence", format.Percentage(rec.ConfidenceScore.Mul(hundred))))
	b.WriteString(fmt.Sprintf("%-18s %s\n", "Risk assessment", rec.RiskAssessment))
	if rec.ProjectedSavings != nil {
		b.WriteString(fmt.Sprintf("%-18s %s\n", "Projected savings", format.Currency(*rec.ProjectedSavings)))
	}
	if rec.Reasoning != "" {
		b.WriteString("\n")
		b.WriteString(labelStyle.Render(rec.Reasoning))
	}
	return b.String()
}

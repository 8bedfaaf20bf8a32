// Package tui renders the terminal UI: the market dashboard and the four
// scenario calculators.
package tui

import "github.com/universiq/uvq/internal/domain"

// View identifies the active screen.
type View int

const (
	// ViewDashboard the market overview with the scenario menu.
	ViewDashboard View = iota
	// ViewCalculator a scenario calculator form.
	ViewCalculator
)

// Navigator is the dashboard⇄calculator state machine and the single
// source of truth for which screen is rendered. Calculators never hand off
// to each other directly; every switch passes through the dashboard.
type Navigator struct {
	view     View
	scenario domain.ScenarioType
}

// NewNavigator starts on the dashboard.
func NewNavigator() *Navigator {
	return &Navigator{view: ViewDashboard}
}

// View returns the active screen.
func (n *Navigator) View() View {
	return n.view
}

// Scenario returns the scenario type of the active calculator; empty while
// the dashboard is shown.
func (n *Navigator) Scenario() domain.ScenarioType {
	return n.scenario
}

// Open moves from the dashboard to the calculator for the given scenario.
// It reports false, leaving the state unchanged, from any other screen or
// for an unknown type.
func (n *Navigator) Open(scenarioType domain.ScenarioType) bool {
	if n.view != ViewDashboard || !scenarioType.IsValid() {
		return false
	}
	n.view = ViewCalculator
	n.scenario = scenarioType
	return true
}

// Back returns to the dashboard; reports false when already there.
func (n *Navigator) Back() bool {
	if n.view != ViewCalculator {
		return false
	}
	n.view = ViewDashboard
	n.scenario = ""
	return true
}

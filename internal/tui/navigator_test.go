package tui

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/universiq/uvq/internal/domain"
)

func TestNavigatorStartsOnDashboard(t *testing.T) {
	nav := NewNavigator()
	assert.Equal(t, ViewDashboard, nav.View())
	assert.Empty(t, nav.Scenario())
}

func TestNavigatorOpensEveryCalculator(t *testing.T) {
	for _, scenarioType := range domain.ScenarioTypes {
		nav := NewNavigator()
		require.True(t, nav.Open(scenarioType))
		assert.Equal(t, ViewCalculator, nav.View())
		assert.Equal(t, scenarioType, nav.Scenario())
	}
}

func TestNavigatorRejectsUnknownScenario(t *testing.T) {
	nav := NewNavigator()
	assert.False(t, nav.Open("moonbase"))
	assert.Equal(t, ViewDashboard, nav.View())
}

func TestNavigatorNoCalculatorToCalculator(t *testing.T) {
	nav := NewNavigator()
	require.True(t, nav.Open(domain.ScenarioRetirement))

	assert.False(t, nav.Open(domain.ScenarioHealth), "switching calculators must pass through the dashboard")
	assert.Equal(t, domain.ScenarioRetirement, nav.Scenario(), "a rejected transition leaves the state untouched")
}

func TestNavigatorBack(t *testing.T) {
	nav := NewNavigator()
	require.True(t, nav.Open(domain.ScenarioUniversity))

	require.True(t, nav.Back())
	assert.Equal(t, ViewDashboard, nav.View())
	assert.Empty(t, nav.Scenario())

	assert.False(t, nav.Back(), "back from the dashboard is a no-op")
}

func TestNavigatorRoundTrip(t *testing.T) {
	nav := NewNavigator()

	require.True(t, nav.Open(domain.ScenarioDaily))
	require.True(t, nav.Back())
	require.True(t, nav.Open(domain.ScenarioHealth))
	assert.Equal(t, domain.ScenarioHealth, nav.Scenario())
}

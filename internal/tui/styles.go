package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/universiq/uvq/internal/services/classifier"
)

var (
	subtle    = lipgloss.AdaptiveColor{Light: "#D9DCCF", Dark: "#383838"}
	highlight = lipgloss.AdaptiveColor{Light: "#874BFD", Dark: "#7D56F4"}
	special   = lipgloss.AdaptiveColor{Light: "#43BF6D", Dark: "#73F59F"}

	headerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")).
			Background(highlight).
			Padding(0, 2).
			Bold(true).
			MarginBottom(1)

	panelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(subtle).
			Padding(1, 2)

	labelStyle = lipgloss.NewStyle().
			Foreground(subtle)

	selectedStyle = lipgloss.NewStyle().
			Foreground(special).
			Bold(true)

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")).
			Bold(true)

	infoStyle = lipgloss.NewStyle().
			Foreground(subtle).
			MarginTop(1)

	inputStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252"))

	focusedInputStyle = lipgloss.NewStyle().
				Foreground(special).
				Bold(true)

	greenStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	yellowStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("220"))
	redStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	grayStyle   = lipgloss.NewStyle().Foreground(subtle)
)

// colorStyle maps a classifier color slot to its lipgloss style.
func colorStyle(c classifier.Color) lipgloss.Style {
	switch c {
	case classifier.ColorGreen:
		return greenStyle
	case classifier.ColorYellow:
		return yellowStyle
	case classifier.ColorRed:
		return redStyle
	default:
		return grayStyle
	}
}

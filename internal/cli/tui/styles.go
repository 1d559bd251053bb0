package tui

import (
	"github.com/charmbracelet/lipgloss"
)

// Colors - slate blue dark theme
var (
	primaryColor   = lipgloss.Color("#7dd3fc") // light blue
	secondaryColor = lipgloss.Color("#64748b") // slate gray
	errorColor     = lipgloss.Color("#ef4444") // red
	warningColor   = lipgloss.Color("#eab308") // amber
	accentColor    = lipgloss.Color("#c084fc") // violet

	bgSecondary = lipgloss.Color("#10141c")
)

// Styles defines the visual styles for the panel
type Styles struct {
	UserPrompt    lipgloss.Style
	UserMessage   lipgloss.Style
	Response      lipgloss.Style
	SystemMessage lipgloss.Style
	ContextNote   lipgloss.Style

	InputPrompt    lipgloss.Style
	InputSeparator lipgloss.Style

	StatusBar       lipgloss.Style
	StatusModel     lipgloss.Style
	StatusPersona   lipgloss.Style
	StatusMode      lipgloss.Style
	StatusStreaming lipgloss.Style

	HelpBar  lipgloss.Style
	HelpKey  lipgloss.Style
	HelpDesc lipgloss.Style

	Error lipgloss.Style
}

// DefaultStyles returns the default style configuration
func DefaultStyles() Styles {
	return Styles{
		UserPrompt: lipgloss.NewStyle().
			Bold(true).
			Foreground(accentColor),

		UserMessage: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#e5e7eb")),

		Response: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#d1d5db")),

		SystemMessage: lipgloss.NewStyle().
			Italic(true).
			Foreground(secondaryColor),

		ContextNote: lipgloss.NewStyle().
			Foreground(secondaryColor),

		InputPrompt: lipgloss.NewStyle().
			Bold(true).
			Foreground(primaryColor),

		InputSeparator: lipgloss.NewStyle().
			Foreground(secondaryColor),

		StatusBar: lipgloss.NewStyle().
			Foreground(secondaryColor).
			Background(bgSecondary).
			Padding(0, 1),

		StatusModel: lipgloss.NewStyle().
			Bold(true).
			Foreground(primaryColor),

		StatusPersona: lipgloss.NewStyle().
			Foreground(accentColor),

		StatusMode: lipgloss.NewStyle().
			Foreground(warningColor),

		StatusStreaming: lipgloss.NewStyle().
			Foreground(warningColor).
			Italic(true),

		HelpBar: lipgloss.NewStyle().
			Foreground(secondaryColor).
			Padding(0, 1),

		HelpKey: lipgloss.NewStyle().
			Bold(true).
			Foreground(primaryColor),

		HelpDesc: lipgloss.NewStyle().
			Foreground(secondaryColor),

		Error: lipgloss.NewStyle().
			Bold(true).
			Foreground(errorColor),
	}
}

package style

import (
	"github.com/charmbracelet/lipgloss"
)

// --- Reusable Colors ---
var (
	ColorGreen  = lipgloss.Color("42")
	ColorYellow = lipgloss.Color("220")
	ColorRed    = lipgloss.Color("196")

	colorPink     = lipgloss.Color("205")
	colorDarkGray = lipgloss.Color("240")
	colorGray     = lipgloss.Color("245")
	colorCyan     = lipgloss.Color("45")
	colorBlue     = lipgloss.Color("33")
	colorMagenta  = lipgloss.Color("170")
	colorWhite    = lipgloss.Color("255")
)

// --- General Purpose Styles ---
var (
	ErrorStyle = lipgloss.NewStyle().Foreground(ColorRed)
	HelpStyle  = lipgloss.NewStyle().Faint(true)
	MutedStyle = lipgloss.NewStyle().Foreground(colorGray)
	ValueStyle = lipgloss.NewStyle().Foreground(colorWhite)
)

// --- Panels ---
var (
	PanelStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(colorDarkGray)
	TitleStyle    = lipgloss.NewStyle().Bold(true).Foreground(colorPink)
	SubtitleStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
)

// --- Status view accents ---
var (
	OSPanelStyle       = PanelStyle.BorderForeground(colorBlue)
	HardwarePanelStyle = PanelStyle.BorderForeground(ColorYellow)
	HostStyle          = lipgloss.NewStyle().Bold(true).Foreground(colorWhite)
	AccentStyle        = lipgloss.NewStyle().Foreground(colorMagenta)
)

// --- Tabs ---
var (
	ActiveTabStyle   = lipgloss.NewStyle().Bold(true).Foreground(colorWhite).Background(colorBlue).Padding(0, 1)
	InactiveTabStyle = lipgloss.NewStyle().Foreground(colorGray).Padding(0, 1)
)

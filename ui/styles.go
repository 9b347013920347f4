package ui

import "github.com/charmbracelet/lipgloss"

// Colors.
var (
	normalDim = lipgloss.AdaptiveColor{Light: "#A49FA5", Dark: "#777777"}
	gray      = lipgloss.AdaptiveColor{Light: "#909090", Dark: "#626262"}
	midGray   = lipgloss.AdaptiveColor{Light: "#B2B2B2", Dark: "#4A4A4A"}
	darkGray  = lipgloss.AdaptiveColor{Light: "#DDDADA", Dark: "#3C3C3C"}
	red       = lipgloss.AdaptiveColor{Light: "#FF4672", Dark: "#ED567A"}
	green     = lipgloss.Color("#04B575")
	cream     = lipgloss.AdaptiveColor{Light: "#FFFDF5", Dark: "#FFFDF5"}
	fuchsia   = lipgloss.Color("#EE6FF8")
)

// Ultimately, we'll want to return these as styles so we can set the
// backgrounds, etc.
var (
	errorTitleStyle = lipgloss.NewStyle().
			Foreground(cream).
			Background(red).
			Padding(0, 1)

	subtleStyle = lipgloss.NewStyle().
			Foreground(gray)

	logoStyle = lipgloss.NewStyle().
			Foreground(cream).
			Background(fuchsia).
			Bold(true)

	editorTitleStyle = lipgloss.NewStyle().
				Foreground(normalDim).
				Padding(0, 1)

	dividerStyle = lipgloss.NewStyle().
			Foreground(midGray)

	unmappedStyle = lipgloss.NewStyle().
			Foreground(red)

	editorStatusStyle = lipgloss.NewStyle().
				Foreground(gray).
				Background(darkGray)
)

func brlLogoView() string {
	return logoStyle.Render(" brl ")
}

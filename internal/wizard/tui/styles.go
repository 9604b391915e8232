package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/muurk/trackersetup/internal/version"
)

const (
	AppName    = "TRACKER SETUP WIZARD"
	ProjectURL = "github.com/muurk/trackersetup"
)

// Terminal geometry
const (
	MinTerminalWidth = 72
	MaxContentWidth  = 120
	FormWidth        = 44 // credentials panel, border included
)

// Palette. Dark-terminal first; the teal accent matches the hub's status LED.
var (
	ColorAccent   = lipgloss.Color("#2EC4B6")
	ColorGood     = lipgloss.Color("#8AC926")
	ColorWarn     = lipgloss.Color("#FFB703")
	ColorBad      = lipgloss.Color("#E63946")
	ColorText     = lipgloss.Color("#F1FAEE")
	ColorMuted    = lipgloss.Color("#7A8290")
	ColorEdge     = lipgloss.Color("#2EC4B6")
	ColorSoloEdge = lipgloss.Color("#3D4654")

	buttonBase  = lipgloss.Color("#34495E")
	buttonInert = lipgloss.Color("#23272E")
)

func rounded(edge lipgloss.TerminalColor) lipgloss.Style {
	return lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(edge)
}

var (
	TitleStyle       = lipgloss.NewStyle().Foreground(ColorAccent).Bold(true).Padding(1, 0).MarginBottom(1)
	SubtitleStyle    = lipgloss.NewStyle().Foreground(ColorMuted).Italic(true)
	DescriptionStyle = lipgloss.NewStyle().Foreground(ColorMuted)
	SpinnerStyle     = lipgloss.NewStyle().Foreground(ColorAccent)

	// hub list on the connect screen
	SelectedMenuItemStyle = lipgloss.NewStyle().PaddingLeft(2).Foreground(ColorGood).Bold(true)

	ErrorStyle    = rounded(ColorBad).Foreground(ColorBad).Bold(true).Padding(1, 2)
	ErrorBoxStyle = rounded(ColorBad).Foreground(ColorBad).Bold(true).Padding(0, 1)

	// credentials form
	PanelStyle          = rounded(ColorEdge).Padding(1, 2).Width(FormWidth)
	FieldLabelStyle     = lipgloss.NewStyle().Foreground(ColorText).Bold(true)
	HintStyle           = lipgloss.NewStyle().Foreground(ColorWarn).Italic(true)
	FocusedInputStyle   = rounded(ColorAccent).Padding(0, 1)
	BlurredInputStyle   = rounded(ColorMuted).Padding(0, 1)
	DropdownItemStyle   = lipgloss.NewStyle().PaddingLeft(2).Foreground(ColorText)
	DropdownCursorStyle = lipgloss.NewStyle().Foreground(ColorGood).Bold(true)
	PlaceholderStyle    = lipgloss.NewStyle().Foreground(ColorMuted)

	primaryButton  = lipgloss.NewStyle().Foreground(ColorText).Background(ColorAccent).Bold(true).Padding(0, 2)
	plainButton    = lipgloss.NewStyle().Foreground(ColorText).Background(buttonBase).Padding(0, 2)
	disabledButton = lipgloss.NewStyle().Foreground(ColorMuted).Background(buttonInert).Padding(0, 2)
)

func RenderTitle(text string) string    { return TitleStyle.Render(text) }
func RenderSubtitle(text string) string { return SubtitleStyle.Render(text) }
func RenderError(text string) string    { return ErrorStyle.Render("✗ " + text) }

// RenderDescription renders one muted line per entry.
func RenderDescription(lines []string) string {
	out := make([]string, 0, len(lines))
	for _, l := range lines {
		out = append(out, DescriptionStyle.Render(l))
	}
	return strings.Join(out, "\n")
}

type buttonState int

const (
	buttonEnabled buttonState = iota
	buttonFocused
	buttonDisabled
	buttonReserved // invisible, same width
)

// RenderButton draws a button. A reserved button is blank space of the
// width the visible button would take, so its neighbours stay put.
func RenderButton(label string, primary bool, state buttonState) string {
	style := plainButton
	if primary {
		style = primaryButton
	}
	switch state {
	case buttonReserved:
		return strings.Repeat(" ", lipgloss.Width(style.Render(label)))
	case buttonDisabled:
		style = disabledButton
	case buttonFocused:
		style = style.Underline(true)
	}
	return style.Render(label)
}

// RenderApplicationContainer frames a screen: a title bar, the content and a
// help line, inside a border sized to the terminal. Widths below
// MinTerminalWidth are clamped.
func RenderApplicationContainer(content, help string, width, height int) string {
	width = max(width, MinTerminalWidth)
	if height < 10 {
		height = 24
	}
	inner := width - 4

	bar := lipgloss.JoinHorizontal(lipgloss.Top,
		lipgloss.NewStyle().Foreground(ColorText).Bold(true).Render(AppName+" v"+version.Version),
		" ",
		lipgloss.NewStyle().Foreground(ColorMuted).Render(ProjectURL),
	)
	rule := func(b lipgloss.Border) lipgloss.Style {
		return lipgloss.NewStyle().BorderStyle(b).BorderForeground(ColorEdge).Width(inner).Padding(0, 1)
	}

	body := lipgloss.JoinVertical(lipgloss.Left,
		rule(lipgloss.Border{Bottom: "─"}).Render(bar),
		lipgloss.NewStyle().Width(inner).Render(content),
		rule(lipgloss.Border{Top: "─"}).Render(lipgloss.NewStyle().Foreground(ColorMuted).Render(help)),
	)

	frame := lipgloss.NewStyle().
		Border(lipgloss.NormalBorder()).
		BorderForeground(ColorEdge).
		Width(width - 2).
		Height(height - 2).
		Render(body)
	return lipgloss.Place(width, height, lipgloss.Left, lipgloss.Top, frame)
}

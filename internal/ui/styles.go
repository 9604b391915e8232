package ui

import (
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"
)

// Command output palette, shared with the wizard's teal accent.
var (
	AccentColor = lipgloss.Color("#2EC4B6")
	GoodColor   = lipgloss.Color("#8AC926")
	BadColor    = lipgloss.Color("#E63946")
	WarnColor   = lipgloss.Color("#FFB703")
	MutedColor  = lipgloss.Color("#7A8290")
	TextColor   = lipgloss.Color("#F1FAEE")
)

const (
	MinTerminalWidth = 60
	MaxContentWidth  = 100
)

func fg(c lipgloss.TerminalColor) lipgloss.Style { return lipgloss.NewStyle().Foreground(c) }

// Header
var (
	HeaderTitleStyle      = fg(TextColor).Bold(true).PaddingLeft(2)
	HeaderCommandStyle    = fg(MutedColor).PaddingLeft(2)
	HeaderParamKeyStyle   = fg(MutedColor).PaddingLeft(2)
	HeaderParamValueStyle = fg(TextColor)
)

// Steps
var (
	StepCompleteStyle = fg(GoodColor)
	StepRunningStyle  = fg(WarnColor)
	StepPendingStyle  = fg(MutedColor)
	StepNoteStyle     = fg(MutedColor).Italic(true)
)

// Results and tables
var (
	SuccessTitleStyle = fg(GoodColor).Bold(true)
	ErrorTitleStyle   = fg(BadColor).Bold(true)
	ErrorMessageStyle = fg(BadColor)
	ResultKeyStyle    = fg(MutedColor).Width(15)
	ResultValueStyle  = fg(TextColor)

	TroubleshootingTitleStyle = fg(MutedColor).Bold(true)
	TroubleshootingItemStyle  = fg(MutedColor)

	TableHeaderStyle = fg(AccentColor).Bold(true)
	TableCellStyle   = fg(TextColor)
	// TableNoteStyle marks synthetic rows such as "Other"
	TableNoteStyle = fg(MutedColor).Italic(true)
)

const (
	StepMarkerComplete = "✓"
	StepMarkerRunning  = "●"
	StepMarkerPending  = "·"
	StepMarkerSkipped  = "⊘"
	SuccessMarker      = "✓"
	FailureMarker      = "✗"
)

// GetTerminalWidth returns the stdout width clamped to the supported range.
// Output that is not a terminal is laid out at MinTerminalWidth.
func GetTerminalWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil {
		return MinTerminalWidth
	}
	return clampWidth(width)
}

// IsInteractive reports whether stdin is a terminal.
func IsInteractive() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}

func clampWidth(width int) int {
	return min(max(width, MinTerminalWidth), MaxContentWidth)
}

func HeaderBorderStyle(width int) lipgloss.Style {
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(AccentColor).
		Width(width - 2)
}

func SuccessBoxStyle(width int) lipgloss.Style { return resultBox(width, GoodColor) }
func ErrorBoxStyle(width int) lipgloss.Style   { return resultBox(width, BadColor) }
func WarningBoxStyle(width int) lipgloss.Style { return resultBox(width, WarnColor) }

func resultBox(width int, edge lipgloss.Color) lipgloss.Style {
	return lipgloss.NewStyle().
		Border(lipgloss.DoubleBorder()).
		BorderForeground(edge).
		Width(width-2).
		Padding(0, 2)
}

func TableBoxStyle(width int) lipgloss.Style {
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(MutedColor).
		Width(width-4).
		Padding(0, 1)
}

// TroubleshootingBoxStyle is indented under a result box and never narrower
// than 40 columns.
func TroubleshootingBoxStyle(width int) lipgloss.Style {
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(MutedColor).
		Width(max(width-12, 40)).
		Padding(0, 1).
		MarginLeft(3)
}

// RenderHorizontalDivider repeats char width times in the accent color.
func RenderHorizontalDivider(width int, char string) string {
	return fg(AccentColor).Render(strings.Repeat(char, width))
}

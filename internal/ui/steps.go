package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/lipgloss"
)

// StepStatus represents the current state of a step
type StepStatus int

const (
	StepPending  StepStatus = iota // Not yet started
	StepRunning                    // Currently executing
	StepComplete                   // Successfully completed
	StepFailed                     // Failed
	StepSkipped                    // Skipped
)

// Step represents a single step in a multi-step operation
type Step struct {
	Number  int        // Step number (1-based)
	Name    string     // Step description
	Status  StepStatus // Current status
	Message string     // Optional status message (e.g., "3 networks")
}

// Steps is a numbered checklist with a progress bar
type Steps struct {
	Items   []Step
	Current int     // Current step (1-based)
	Percent float64 // 0.0 - 1.0
	Width   int
	bar     progress.Model
}

// NewSteps creates a checklist with the given step names
func NewSteps(names ...string) *Steps {
	items := make([]Step, len(names))
	for i, name := range names {
		items[i] = Step{Number: i + 1, Name: name, Status: StepPending}
	}
	s := &Steps{Items: items}
	return s.SetWidth(GetTerminalWidth())
}

// SetWidth sets the terminal width for responsive rendering
func (s *Steps) SetWidth(width int) *Steps {
	s.Width = width
	barWidth := width - 20
	if barWidth < 20 {
		barWidth = 20
	}
	if barWidth > 50 {
		barWidth = 50
	}
	s.bar = progress.New(
		progress.WithDefaultGradient(),
		progress.WithWidth(barWidth),
	)
	return s
}

// Total returns the number of steps
func (s *Steps) Total() int {
	return len(s.Items)
}

// Update sets a step's status and optional message
func (s *Steps) Update(number int, status StepStatus, message string) {
	if number < 1 || number > len(s.Items) {
		return
	}
	s.Items[number-1].Status = status
	s.Items[number-1].Message = message

	switch status {
	case StepRunning:
		s.Current = number
	case StepComplete, StepFailed, StepSkipped:
		done := 0
		for _, item := range s.Items {
			if item.Status == StepComplete || item.Status == StepSkipped {
				done++
			}
		}
		s.Percent = float64(done) / float64(len(s.Items))
	}
}

// Render returns the bar followed by the checklist
func (s *Steps) Render() string {
	var b strings.Builder
	b.WriteString(s.RenderBar())
	b.WriteString("\n\n")
	for i, item := range s.Items {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(s.RenderLine(item))
	}
	return b.String()
}

// RenderBar renders the progress bar with percentage and step counter
func (s *Steps) RenderBar() string {
	return lipgloss.NewStyle().
		PaddingLeft(2).
		Render(fmt.Sprintf("%s  %3.0f%%  [%d/%d]", s.bar.ViewAs(s.Percent), s.Percent*100, s.Current, len(s.Items)))
}

// RenderLine renders a single step line
func (s *Steps) RenderLine(step Step) string {
	var (
		marker string
		style  lipgloss.Style
	)
	switch step.Status {
	case StepComplete:
		marker, style = StepMarkerComplete, StepCompleteStyle
	case StepRunning:
		marker, style = StepMarkerRunning, StepRunningStyle
	case StepFailed:
		marker, style = FailureMarker, ErrorTitleStyle
	case StepSkipped:
		marker, style = StepMarkerSkipped, StepPendingStyle
	default:
		marker, style = StepMarkerPending, StepPendingStyle
	}

	var b strings.Builder
	fmt.Fprintf(&b, "  [%d/%d] ", step.Number, len(s.Items))
	b.WriteString(style.Render(step.Name))

	// Align markers in one column
	padding := 45 - lipgloss.Width(step.Name)
	if padding < 1 {
		padding = 1
	}
	b.WriteString(strings.Repeat(" ", padding))
	b.WriteString(style.Render(marker))

	if step.Message != "" {
		b.WriteString("  ")
		b.WriteString(StepNoteStyle.Render("(" + step.Message + ")"))
	}
	return b.String()
}

// String implements fmt.Stringer
func (s *Steps) String() string {
	return s.Render()
}

// StepCallback is the function signature for step progress updates.
type StepCallback func(number int, status StepStatus, message string)

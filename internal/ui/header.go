package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Detail is one "Key: value" line. Order is preserved wherever it is shown.
type Detail struct {
	Key   string
	Value string
}

// Header is the banner at the top of a one-shot command: the upper-cased
// title, the command line that produced it, and optional parameters below a
// divider.
type Header struct {
	Title   string
	Command string
	Params  []Detail
	Width   int
}

func NewHeader(title, command string, params ...Detail) *Header {
	return &Header{Title: title, Command: command, Params: params, Width: GetTerminalWidth()}
}

func (h *Header) SetWidth(width int) *Header {
	h.Width = width
	return h
}

func (h *Header) Render() string {
	width := max(h.Width, MinTerminalWidth)

	parts := []string{
		HeaderTitleStyle.Render(strings.ToUpper(h.Title)),
		HeaderCommandStyle.Render(h.Command),
	}
	if len(h.Params) > 0 {
		parts = append(parts, RenderHorizontalDivider(max(width-6, 10), "─"))
		for _, p := range h.Params {
			parts = append(parts, HeaderParamKeyStyle.Render(p.Key+":")+" "+HeaderParamValueStyle.Render(p.Value))
		}
	}
	return HeaderBorderStyle(width).Render(lipgloss.JoinVertical(lipgloss.Left, parts...))
}

func (h *Header) String() string { return h.Render() }

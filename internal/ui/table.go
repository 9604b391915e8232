package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Table is a titled list of rows rendered in a rounded box
type Table struct {
	Title   string
	Columns []string
	Rows    [][]string
	Notes   map[int]bool // Row indexes rendered with TableNoteStyle
	Empty   string       // Shown instead of rows when there are none
	Width   int
}

// NewTable creates a table with the given column headings
func NewTable(title string, columns ...string) *Table {
	return &Table{
		Title:   title,
		Columns: columns,
		Notes:   make(map[int]bool),
		Width:   GetTerminalWidth(),
	}
}

// AddRow appends a row
func (t *Table) AddRow(cells ...string) *Table {
	t.Rows = append(t.Rows, cells)
	return t
}

// AddNote appends a row rendered in the muted style
func (t *Table) AddNote(cells ...string) *Table {
	t.Notes[len(t.Rows)] = true
	return t.AddRow(cells...)
}

// SetWidth sets the terminal width for responsive rendering
func (t *Table) SetWidth(width int) *Table {
	t.Width = width
	return t
}

// Render returns the styled table
func (t *Table) Render() string {
	widths := make([]int, len(t.Columns))
	for i, c := range t.Columns {
		widths[i] = lipgloss.Width(c)
	}
	for _, row := range t.Rows {
		for i := 0; i < len(row) && i < len(widths); i++ {
			if w := lipgloss.Width(row[i]); w > widths[i] {
				widths[i] = w
			}
		}
	}

	lines := []string{TableHeaderStyle.Render(t.Title), ""}
	lines = append(lines, formatRow(t.Columns, widths, TableHeaderStyle))

	if len(t.Rows) == 0 && t.Empty != "" {
		lines = append(lines, TableNoteStyle.Render(t.Empty))
	}
	for i, row := range t.Rows {
		style := TableCellStyle
		if t.Notes[i] {
			style = TableNoteStyle
		}
		lines = append(lines, formatRow(row, widths, style))
	}

	width := t.Width
	if width < MinTerminalWidth {
		width = MinTerminalWidth
	}
	return TableBoxStyle(width).Render(strings.Join(lines, "\n"))
}

func formatRow(cells []string, widths []int, style lipgloss.Style) string {
	parts := make([]string, 0, len(widths))
	for i, w := range widths {
		cell := ""
		if i < len(cells) {
			cell = cells[i]
		}
		parts = append(parts, style.Render(cell)+strings.Repeat(" ", w-lipgloss.Width(cell)))
	}
	return strings.TrimRight(strings.Join(parts, "  "), " ")
}

// String implements fmt.Stringer
func (t *Table) String() string {
	return t.Render()
}

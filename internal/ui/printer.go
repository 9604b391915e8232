package ui

import (
	"fmt"
	"io"
	"os"
)

// Printer writes headers, tables and result boxes for the one-shot
// commands, all laid out at the width measured when it was created.
type Printer struct {
	out   io.Writer
	width int
}

// NewPrinter writes to w, or to stdout when w is nil.
func NewPrinter(w io.Writer) *Printer {
	if w == nil {
		w = os.Stdout
	}
	return &Printer{out: w, width: GetTerminalWidth()}
}

func (p *Printer) Println(content string) { _, _ = fmt.Fprintln(p.out, content) }
func (p *Printer) Newline()               { _, _ = fmt.Fprintln(p.out) }

// PrintHeader prints the command banner followed by a blank line.
func (p *Printer) PrintHeader(title, command string, params ...Detail) {
	p.Println(NewHeader(title, command, params...).SetWidth(p.width).Render())
	p.Newline()
}

func (p *Printer) PrintTable(t *Table) {
	p.Println(t.SetWidth(p.width).Render())
}

func (p *Printer) PrintSuccess(title string, details ...Detail) {
	p.printResult(NewSuccessResult(title, details...))
}

func (p *Printer) PrintWarning(title string, details ...Detail) {
	p.printResult(NewWarningResult(title, details...))
}

func (p *Printer) PrintError(title string, err error, troubleshooting []string) {
	p.printResult(NewFailureResult(title, err, troubleshooting))
}

func (p *Printer) printResult(r *Result) {
	p.Println(r.SetWidth(p.width).Render())
}

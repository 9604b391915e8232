package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// ResultType selects the banner and border of a Result.
type ResultType int

const (
	ResultSuccess ResultType = iota
	ResultFailure
	ResultWarning
)

type resultLook struct {
	marker, word string
	title        lipgloss.Style
	box          func(int) lipgloss.Style
}

var resultLooks = map[ResultType]resultLook{
	ResultSuccess: {SuccessMarker, "SUCCESS", SuccessTitleStyle, SuccessBoxStyle},
	ResultFailure: {FailureMarker, "FAILED", ErrorTitleStyle, ErrorBoxStyle},
	ResultWarning: {"⚠", "WARNING", fg(WarnColor).Bold(true), WarningBoxStyle},
}

// Result is the boxed outcome printed at the end of a command.
type Result struct {
	Type            ResultType
	Title           string
	Details         []Detail
	Error           error    // failures only
	Troubleshooting []string // failures only
	Width           int
}

func newResult(kind ResultType, title string, details []Detail) *Result {
	return &Result{Type: kind, Title: title, Details: details, Width: GetTerminalWidth()}
}

func NewSuccessResult(title string, details ...Detail) *Result {
	return newResult(ResultSuccess, title, details)
}

func NewWarningResult(title string, details ...Detail) *Result {
	return newResult(ResultWarning, title, details)
}

// NewFailureResult carries the error and a list of things the user can check.
func NewFailureResult(title string, err error, troubleshooting []string) *Result {
	r := newResult(ResultFailure, title, nil)
	r.Error = err
	r.Troubleshooting = troubleshooting
	return r
}

func (r *Result) SetWidth(width int) *Result {
	r.Width = width
	return r
}

func (r *Result) AddDetail(key, value string) *Result {
	r.Details = append(r.Details, Detail{Key: key, Value: value})
	return r
}

func (r *Result) Render() string {
	width := max(r.Width, MinTerminalWidth)
	look, ok := resultLooks[r.Type]
	if !ok {
		look = resultLooks[ResultSuccess]
	}

	var b strings.Builder
	fmt.Fprintf(&b, "\n%s\n\n", look.title.Render(fmt.Sprintf("   %s  %s  ─  %s", look.marker, look.word, r.Title)))
	for _, d := range r.Details {
		b.WriteString(ResultKeyStyle.Render("   "+d.Key+":") + " " + ResultValueStyle.Render(d.Value) + "\n")
	}
	if len(r.Details) > 0 {
		b.WriteString("\n")
	}
	if r.Error != nil {
		b.WriteString(ErrorMessageStyle.Render("   Error: "+r.Error.Error()) + "\n\n")
	}
	if len(r.Troubleshooting) > 0 {
		b.WriteString(renderTips(r.Troubleshooting, width) + "\n\n")
	}
	return look.box(width).Render(strings.TrimSuffix(b.String(), "\n"))
}

func renderTips(tips []string, width int) string {
	lines := make([]string, 0, len(tips)+2)
	lines = append(lines, TroubleshootingTitleStyle.Render("Troubleshooting:"), "")
	for _, tip := range tips {
		lines = append(lines, TroubleshootingItemStyle.Render("  • "+tip))
	}
	return TroubleshootingBoxStyle(width).Render(strings.Join(lines, "\n"))
}

func (r *Result) String() string { return r.Render() }

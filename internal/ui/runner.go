package ui

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"
)

// RunnerConfig holds configuration for a non-interactive command
type RunnerConfig struct {
	Title           string   // Command title (e.g., "Wi-Fi Provisioning")
	Command         string   // Full command (e.g., "tracker-setup set-wifi")
	Params          []Detail // Parameters to display in header
	StepNames       []string // Names for each step
	Troubleshooting []string // Tips shown when the operation fails
	Output          io.Writer
}

// Runner orchestrates header, step list and result for a command.
type Runner struct {
	config RunnerConfig
	header *Header
	steps  *Steps
	output io.Writer
	width  int
}

// NewRunner creates a runner for a command
func NewRunner(config RunnerConfig) *Runner {
	if config.Output == nil {
		config.Output = os.Stdout
	}
	width := GetTerminalWidth()

	return &Runner{
		config: config,
		header: NewHeader(config.Title, config.Command, config.Params...).SetWidth(width),
		steps:  NewSteps(config.StepNames...).SetWidth(width),
		output: config.Output,
		width:  width,
	}
}

// Operation is the work a Runner wraps. It returns extra result details.
type Operation func(ctx context.Context, onStep StepCallback) ([]Detail, error)

// Run prints the header, executes the operation, and prints the result.
func (r *Runner) Run(ctx context.Context, op Operation) error {
	start := time.Now()

	_, _ = fmt.Fprintln(r.output, r.header.Render())
	_, _ = fmt.Fprintln(r.output)

	details, err := op(ctx, r.onStep)
	duration := time.Since(start).Round(time.Millisecond)

	_, _ = fmt.Fprintln(r.output)
	if err != nil {
		result := NewFailureResult(r.config.Title+" failed", err, r.config.Troubleshooting).SetWidth(r.width)
		_, _ = fmt.Fprintln(r.output, result.Render())
		return err
	}

	details = append(details, Detail{Key: "Duration", Value: duration.String()})
	result := NewSuccessResult(r.config.Title+" complete", details...).SetWidth(r.width)
	_, _ = fmt.Fprintln(r.output, result.Render())
	return nil
}

func (r *Runner) onStep(number int, status StepStatus, message string) {
	if number < 1 || number > r.steps.Total() {
		return
	}
	r.steps.Update(number, status, message)

	line := r.steps.RenderLine(r.steps.Items[number-1])
	if status == StepRunning {
		// Overwritten when the step finishes
		_, _ = fmt.Fprint(r.output, line+"\r")
		return
	}
	_, _ = fmt.Fprintln(r.output, line)
}

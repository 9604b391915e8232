// Package ui renders styled output for the non-interactive tracker-setup
// commands (scan, networks, trackers, set-wifi).
//
// Unlike the wizard in internal/wizard/tui, these components follow a "run
// once and exit" pattern: they print and return without taking over the
// terminal.
//
// # Components
//
//   - Header: command banner showing operation name and parameters
//   - Steps: progress bar with a numbered checklist
//   - Result: success, failure and warning boxes
//   - Table: titled list of rows
//   - Runner: header → steps → result orchestration for one operation
//
// Example:
//
//	runner := ui.NewRunner(ui.RunnerConfig{
//	    Title:     "Wi-Fi Provisioning",
//	    Command:   "tracker-setup set-wifi",
//	    StepNames: []string{"Connect to hub", "Validate credentials", "Send to hub"},
//	})
//	err := runner.Run(ctx, func(ctx context.Context, onStep ui.StepCallback) ([]ui.Detail, error) {
//	    onStep(1, ui.StepRunning, "")
//	    // ...
//	    onStep(1, ui.StepComplete, "")
//	    return nil, nil
//	})
//
// # Logging Integration
//
// zap logging is silent unless TRACKERSETUP_LOG_LEVEL is set, so the curated
// output is displayed cleanly.
package ui

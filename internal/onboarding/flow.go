package onboarding

import (
	"context"
	"fmt"
	"math"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/muurk/trackersetup/internal/logging"
)

// Step identifies a page of the onboarding wizard
type Step int

const (
	StepHome Step = iota
	StepWifiCreds
	StepConnectTrackers
	StepCalibrationTutorial
	StepAssignTutorial
	StepDone

	stepCount // sentinel, keep last
)

// WifiCredsProgress is the position of the Wifi Credentials step in the wizard
const WifiCredsProgress = 0.2

var stepNames = [stepCount]string{
	StepHome:                "home",
	StepWifiCreds:           "wifi-creds",
	StepConnectTrackers:     "connect-trackers",
	StepCalibrationTutorial: "calibration-tutorial",
	StepAssignTutorial:      "assign-tutorial",
	StepDone:                "done",
}

// Valid reports whether s is one of the declared steps
func (s Step) Valid() bool {
	return s >= StepHome && s < stepCount
}

// String returns the step's route name (e.g. "wifi-creds")
func (s Step) String() string {
	if !s.Valid() {
		return fmt.Sprintf("Step(%d)", int(s))
	}
	return stepNames[s]
}

// Path returns the step's route (e.g. "/onboarding/wifi-creds")
func (s Step) Path() string {
	return "/onboarding/" + s.String()
}

// ParseStep maps a route name or route path back to its Step
func ParseStep(name string) (Step, error) {
	for i, n := range stepNames {
		if name == n || name == "/onboarding/"+n {
			return Step(i), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownStep, name)
}

// WizardState is the wizard-wide state shared with the views.
// Views receive copies; only Flow mutates it.
type WizardState struct {
	// Progress is the position in the wizard, in [0,1]
	Progress float64

	// Solo is true when a step is shown on its own rather than as part of
	// the previous/next chain (e.g. opened straight from settings)
	Solo bool
}

// Affordance describes how a navigation button is presented
type Affordance int

const (
	// AffordanceVisible renders the button normally
	AffordanceVisible Affordance = iota
	// AffordanceReserved keeps the button's space but draws nothing
	AffordanceReserved
)

// CredentialSubmitter hands credentials to the tracking hub.
// It is a black box to the flow: it may fail, and the flow does not retry.
type CredentialSubmitter interface {
	SubmitCredentials(ctx context.Context, sel CredentialSelection) error
}

// Flow owns wizard progress, the current step and step sequencing
type Flow struct {
	sessionID string
	state     WizardState
	current   Step
	history   []Step
	submitter CredentialSubmitter
}

// FlowOption configures a Flow
type FlowOption func(*Flow)

// WithSolo marks the flow as a solo invocation
func WithSolo(solo bool) FlowOption {
	return func(f *Flow) { f.state.Solo = solo }
}

// WithSubmitter sets the credential submitter used by Advance
func WithSubmitter(s CredentialSubmitter) FlowOption {
	return func(f *Flow) { f.submitter = s }
}

// WithStartStep sets the first step (default StepHome)
func WithStartStep(s Step) FlowOption {
	return func(f *Flow) {
		if s.Valid() {
			f.current = s
		}
	}
}

// NewFlow starts a new wizard session
func NewFlow(opts ...FlowOption) *Flow {
	f := &Flow{
		sessionID: uuid.NewString(),
		current:   StepHome,
	}
	for _, opt := range opts {
		opt(f)
	}
	logging.Debug("Onboarding session started",
		zap.String("session_id", f.sessionID),
		zap.Stringer("step", f.current),
		zap.Bool("solo", f.state.Solo),
	)
	return f
}

// SessionID returns the identifier of this wizard session
func (f *Flow) SessionID() string {
	return f.sessionID
}

// ApplyProgress declares the current step's position in the wizard.
// Values outside [0,1] are ignored.
func (f *Flow) ApplyProgress(fraction float64) {
	if math.IsNaN(fraction) || fraction < 0 || fraction > 1 {
		return
	}
	f.state.Progress = fraction
}

// State returns a copy of the wizard state
func (f *Flow) State() WizardState {
	return f.state
}

// Current returns the active step
func (f *Flow) Current() Step {
	return f.current
}

// Navigate moves to dest, recording the step it leaves
func (f *Flow) Navigate(dest Step) error {
	if !dest.Valid() {
		return fmt.Errorf("%w: %d", ErrUnknownStep, int(dest))
	}
	if dest == f.current {
		return nil
	}
	logging.LogStepTransition(f.sessionID, f.current.String(), dest.String())
	f.history = append(f.history, f.current)
	f.current = dest
	return nil
}

// Back returns to the previously visited step, or StepHome if there is none
func (f *Flow) Back() Step {
	prev := StepHome
	if n := len(f.history); n > 0 {
		prev = f.history[n-1]
		f.history = f.history[:n-1]
	}
	logging.LogStepTransition(f.sessionID, f.current.String(), prev.String())
	f.current = prev
	return prev
}

// Advance submits the selection and, on success, moves to next.
// The submitter's error is returned unchanged and the flow stays put.
func (f *Flow) Advance(ctx context.Context, sel CredentialSelection, next Step) error {
	if !next.Valid() {
		return fmt.Errorf("%w: %d", ErrUnknownStep, int(next))
	}
	if f.submitter == nil {
		return ErrNoSubmitter
	}
	if err := f.submitter.SubmitCredentials(ctx, sel); err != nil {
		logging.Warn("Credential submission failed",
			zap.String("session_id", f.sessionID),
			zap.Error(err),
		)
		return err
	}
	return f.Navigate(next)
}

// BackAffordance returns how the "previous step" button is presented
func (f *Flow) BackAffordance() Affordance {
	return f.soloAffordance()
}

// SkipAffordance returns how the "skip" button is presented
func (f *Flow) SkipAffordance() Affordance {
	return f.soloAffordance()
}

func (f *Flow) soloAffordance() Affordance {
	if f.state.Solo {
		return AffordanceReserved
	}
	return AffordanceVisible
}

// Package onboarding implements the decision logic of the tracker onboarding
// wizard, independent of any rendering.
//
// The package is organised around four collaborators:
//
//   - Flow: owns the wizard-wide state (progress, solo mode), the current
//     step and step sequencing. Navigation targets are Step values, a closed
//     enumeration, never free-form strings.
//   - HasCalibratableIMU / SkipDestination: pick the onward destination from
//     the connected tracking units.
//   - Feed / OptionCache: hold the latest list of discovered wireless
//     networks and project it into dropdown options, memoized on content.
//   - WifiForm: field state, visibility layout, validation and submission
//     for the "Wifi Credentials" step.
//
// # Usage Example
//
//	flow := onboarding.NewFlow(onboarding.WithSubmitter(client))
//	flow.ApplyProgress(onboarding.WifiCredsProgress)
//
//	form := onboarding.NewWifiForm()
//	form.SetNetworks(feed.Snapshot())
//	form.Select(onboarding.OtherValue)
//	form.SetSSID("Garage")
//
//	if form.IsValid() {
//	    err := form.Submit(ctx, flow)
//	}
//
// # Threading
//
// Flow and WifiForm are single-writer types meant to be driven from one
// event loop (the Bubble Tea update loop). Feed is safe for concurrent use;
// it is the hand-off point between the hub connection goroutine and the UI.
package onboarding

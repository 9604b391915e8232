// Package tui implements the terminal user interface for the tracker setup wizard.
//
// Built on Bubble Tea, it follows the Elm architecture: every screen is a
// value model with Update and View, and slow work (mDNS scans, dialing the
// hub, submitting credentials) runs in tea.Cmd functions that report back
// with a message.
//
// # Architecture
//
// AppModel coordinates two screens:
//   - Connect: scan for tracking hubs over mDNS or enter an address by hand
//   - Onboarding: the step the onboarding.Flow is on
//
// Onboarding steps are drawn by WifiCredsModel (the Wifi Credentials form)
// or InfoModel (home, connect trackers, the two tutorials and done). All
// screens use RenderApplicationContainer for the header, content and
// context-sensitive footer.
//
// # Framework Components
//
//   - bubbles/spinner: scanning, connecting and submitting
//   - bubbles/textinput: manual SSID, password (masked) and hub address
//   - bubbles/progress: wizard progress and scan progress
//   - bubbles/list: discovered hubs
//   - bubbles/help: context-aware key help
//   - lipgloss: styling and layout
//
// # Usage Example
//
//	app := tui.NewAppModel(tui.Options{
//	    HubURL:    "ws://192.168.1.20:21110/ws",
//	    Solo:      true,
//	    Localizer: i18n.Default(),
//	})
//	program := tea.NewProgram(app, tea.WithAltScreen())
//	if _, err := program.Run(); err != nil {
//	    log.Fatal(err)
//	}
//
// # Concurrency
//
// Update and View run on the Bubble Tea event loop. The only work that
// touches the flow off the loop is a credential submit; while it runs the
// form ignores keys and holds back network updates, and AppModel caches the
// current step so View never reads the flow.
package tui

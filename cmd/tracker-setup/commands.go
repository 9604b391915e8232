package main

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"os"
	"os/signal"
	"slices"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/muurk/trackersetup/internal/discovery"
	"github.com/muurk/trackersetup/internal/hubclient"
	"github.com/muurk/trackersetup/internal/i18n"
	"github.com/muurk/trackersetup/internal/logging"
	"github.com/muurk/trackersetup/internal/onboarding"
	"github.com/muurk/trackersetup/internal/ui"
	"github.com/muurk/trackersetup/internal/urls"
	"github.com/muurk/trackersetup/internal/wizard/tui"
)

// Command flags
var (
	solo        bool
	askPassword bool
	assumeYes   bool
	submitWait  int
)

var hubTroubleshooting = []string{
	"Ensure the tracking hub is running",
	"Check that this computer is on the same network as the hub",
	"Allow mDNS (UDP port 5353) through your firewall",
	"Pass --hub to connect without discovery",
	"See " + urls.HubDiscovery,
}

func init() {
	rootCmd.AddCommand(wizardCmd)
	rootCmd.AddCommand(scanCmd)
	rootCmd.AddCommand(networksCmd)
	rootCmd.AddCommand(trackersCmd)
	rootCmd.AddCommand(setWifiCmd)
	rootCmd.AddCommand(hubsCmd)
	hubsCmd.AddCommand(hubsRenameCmd)
}

// wizardCmd launches the interactive TUI wizard
var wizardCmd = &cobra.Command{
	Use:   "wizard",
	Short: "Launch the interactive onboarding wizard",
	Long: `Launch the interactive onboarding wizard.

The wizard finds the tracking hub, asks which wireless network the trackers
should join, and guides you through connecting and calibrating them.

With --solo only the Wi-Fi credentials step is shown, without the buttons
that move between steps.`,
	Example: `  # Launch the wizard with hub discovery
  tracker-setup wizard
  # Or simply (wizard is default):
  tracker-setup

  # Change the Wi-Fi network of an existing setup
  tracker-setup wizard --solo --hub 192.168.1.20`,
	RunE: runWizard,
}

func init() {
	wizardCmd.Flags().BoolVar(&solo, "solo", false, "Open only the Wi-Fi credentials step")
}

func runWizard(cmd *cobra.Command, args []string) error {
	if !ui.IsInteractive() {
		return errors.New("the wizard needs an interactive terminal; use 'tracker-setup set-wifi' in scripts")
	}

	opts := tui.Options{
		HubURL:          wizardHubURL(),
		DiscoverTimeout: settings.DiscoverDuration(),
		Solo:            solo,
		RememberedSSIDs: registry.RememberedSSIDs(),
		Localizer:       i18n.Default(),
		OnConnected: func(hubURL string) {
			registry.RecordConnection(hubURL)
			saveRegistry()
		},
		OnCredentialsSent: func(ssid string) {
			registry.RememberNetwork(ssid)
			saveRegistry()
		},
	}

	logging.Info("Starting wizard",
		zap.String("hub", opts.HubURL),
		zap.Bool("solo", opts.Solo),
	)

	p := tea.NewProgram(tui.NewAppModel(opts), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("wizard error: %w", err)
	}
	return nil
}

// wizardHubURL picks the hub the wizard dials straight away: the configured
// one, or the last one used when discovery is turned off
func wizardHubURL() string {
	if settings.HubURL != "" {
		return tui.NormalizeHubURL(settings.HubURL)
	}
	if !settings.AutoDiscover {
		if _, hub := registry.LastHub(); hub != nil {
			return hub.LastURL
		}
	}
	return ""
}

// scanCmd discovers hubs on the network
var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "Scan for tracking hubs on the network",
	Long: `Scan for tracking hubs using mDNS/DNS-SD discovery.

Hubs advertise the _trackhub._tcp service. Every hub found is listed with
the WebSocket address the wizard would connect to, and remembered in the
configuration file.`,
	Example: `  # Scan for 5 seconds (default)
  tracker-setup scan

  # Longer scan for slow networks
  tracker-setup scan --discover-timeout 15`,
	RunE: runScan,
}

func runScan(cmd *cobra.Command, args []string) error {
	p := ui.NewPrinter(cmd.OutOrStdout())
	p.PrintHeader("Hub Discovery", "tracker-setup scan",
		ui.Detail{Key: "Service", Value: discovery.ServiceType},
		ui.Detail{Key: "Timeout", Value: settings.DiscoverDuration().String()},
	)

	hubs, err := discovery.ScanForHubs(settings.DiscoverDuration())
	if err != nil {
		p.PrintError("Scan failed", err, hubTroubleshooting)
		return err
	}

	if len(hubs) == 0 {
		p.PrintWarning("No tracking hub found")
		p.Newline()
		for _, tip := range hubTroubleshooting {
			p.Println("  • " + tip)
		}
		return nil
	}

	t := ui.NewTable(fmt.Sprintf("Found %d hub(s)", len(hubs)), "Name", "Address", "Version", "URL")
	for _, hub := range hubs {
		t.AddRow(hubLabel(hub.Name), fmt.Sprintf("%s:%d", hub.IP, hub.Port), hub.GetMetadata("version"), hub.WebSocketURL())
		registry.UpdateHubLastSeen(hub.Name, hub.WebSocketURL())
	}
	p.PrintTable(t)
	saveRegistry()

	p.Newline()
	p.Println("Use 'tracker-setup wizard --hub <url>' to connect to a specific hub")
	return nil
}

// networksCmd lists the networks the hub can see
var networksCmd = &cobra.Command{
	Use:   "networks",
	Short: "List the Wi-Fi networks the hub can see",
	Long: `Ask the hub for a fresh Wi-Fi scan and print the networks it reports,
in the order the wizard offers them. The last option is always manual entry.`,
	Example: `  tracker-setup networks
  tracker-setup networks --hub 192.168.1.20`,
	RunE: runNetworks,
}

func runNetworks(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	client, _, err := connectHub(ctx, nil)
	if err != nil {
		return err
	}
	defer client.Close()

	networks, err := client.RequestScan(ctx)
	if err != nil {
		return fmt.Errorf("scan failed: %w", err)
	}

	p := ui.NewPrinter(cmd.OutOrStdout())
	t := ui.NewTable("Wi-Fi networks", "#", "Option", "Value")
	t.Empty = "The hub found no networks; enter the network name by hand"
	if len(networks) > 0 {
		for i, opt := range onboarding.DeriveOptions(networks) {
			if opt.Value == onboarding.OtherValue {
				t.AddNote(fmt.Sprint(i+1), opt.Label, opt.Value)
				continue
			}
			t.AddRow(fmt.Sprint(i+1), opt.Label, opt.Value)
		}
	}
	p.PrintTable(t)
	return nil
}

// trackersCmd lists connected tracking units
var trackersCmd = &cobra.Command{
	Use:   "trackers",
	Short: "List trackers connected to the hub",
	Long: `Print the tracking units the hub reports, their sensor, and the
tutorial the wizard continues with: calibration when any unit carries a
BNO08x sensor, tracker assignment otherwise.`,
	RunE: runTrackers,
}

func runTrackers(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	client, _, err := connectHub(ctx, nil)
	if err != nil {
		return err
	}
	defer client.Close()

	units, err := client.Trackers(ctx)
	if err != nil {
		return fmt.Errorf("failed to list trackers: %w", err)
	}

	p := ui.NewPrinter(cmd.OutOrStdout())
	t := ui.NewTable("Connected trackers", "Name", "ID", "Sensor", "Calibration")
	t.Empty = "No trackers connected"
	for _, u := range units {
		if u.IMU.IsBNO() {
			t.AddRow(u.Name, u.ID, u.IMU.String(), "yes")
		} else {
			t.AddNote(u.Name, u.ID, u.IMU.String(), "no")
		}
	}
	p.PrintTable(t)
	p.Newline()
	p.Println("Next step: " + onboarding.SkipDestination(units).String())
	return nil
}

// setWifiCmd provisions credentials without the wizard
var setWifiCmd = &cobra.Command{
	Use:   "set-wifi <ssid> [password]",
	Short: "Send Wi-Fi credentials to the hub",
	Long: `Send Wi-Fi credentials to the hub without the wizard.

The same rules as the wizard apply: the network name is required, and a
password, when given, must be at least 8 bytes long. Networks the hub has
seen are selected from its list; any other name is sent as a manual entry.`,
	Example: `  # Open network
  tracker-setup set-wifi CafeGuest

  # Prompt for the password instead of putting it on the command line
  tracker-setup set-wifi Home --ask-password

  # Open network from a script
  tracker-setup set-wifi CafeGuest --yes`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runSetWifi,
}

func init() {
	setWifiCmd.Flags().BoolVar(&askPassword, "ask-password", false, "Prompt for the password without echo")
	setWifiCmd.Flags().IntVar(&submitWait, "timeout", 30, "Seconds to wait for the hub to answer")
	setWifiCmd.Flags().BoolVarP(&assumeYes, "yes", "y", false, "Do not ask before sending credentials without a password")
}

func runSetWifi(cmd *cobra.Command, args []string) error {
	ssid := args[0]
	password := ""
	if len(args) == 2 {
		password = args[1]
	}
	if askPassword {
		if len(args) == 2 {
			return errors.New("give the password either as an argument or with --ask-password, not both")
		}
		var err error
		password, err = ui.PromptPassword("Password for " + ssid)
		if err != nil {
			return err
		}
	}
	if strings.TrimSpace(ssid) == "" {
		return onboarding.NewValidationError(onboarding.FieldSSID, "network name cannot be empty")
	}
	// Fail before touching the network
	if err := onboarding.ValidatePassword(password); err != nil {
		return err
	}

	if password == "" && !assumeYes && ui.IsInteractive() {
		question := fmt.Sprintf("No password given. Is %q an open network?", ssid)
		if !ui.Confirm(cmd.InOrStdin(), cmd.OutOrStdout(), question) {
			return nil
		}
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	runner := ui.NewRunner(ui.RunnerConfig{
		Title:   "Wi-Fi Provisioning",
		Command: "tracker-setup set-wifi",
		Params: []ui.Detail{
			{Key: "SSID", Value: ssid},
			{Key: "Password", Value: maskPassword(password)},
		},
		StepNames: []string{
			"Connect to hub",
			"Scan for networks",
			"Validate credentials",
			"Submit credentials",
		},
		Troubleshooting: append([]string{
			"Check the password; it is case-sensitive",
			"Make sure the trackers support the network's band and security",
		}, hubTroubleshooting...),
		Output: cmd.OutOrStdout(),
	})

	return runner.Run(ctx, func(ctx context.Context, onStep ui.StepCallback) ([]ui.Detail, error) {
		feed := onboarding.NewFeed()
		defer feed.Close()

		onStep(1, ui.StepRunning, "")
		client, hubURL, err := connectHub(ctx, feed)
		if err != nil {
			onStep(1, ui.StepFailed, err.Error())
			return nil, err
		}
		defer client.Close()
		onStep(1, ui.StepComplete, hubURL)

		onStep(2, ui.StepRunning, "")
		networks, err := client.RequestScan(ctx)
		if err != nil {
			// Manual entry still works without a scan
			onStep(2, ui.StepSkipped, err.Error())
		} else {
			onStep(2, ui.StepComplete, fmt.Sprintf("%d network(s)", len(networks)))
		}

		onStep(3, ui.StepRunning, "")
		form := onboarding.NewWifiForm()
		defer form.Close()
		form.SetNetworks(feed.Snapshot())
		fillForm(form, ssid, password)
		if errs := form.Validate(); len(errs) > 0 {
			err := errors.Join(errs...)
			onStep(3, ui.StepFailed, err.Error())
			return nil, err
		}
		onStep(3, ui.StepComplete, form.Layout().String())

		onStep(4, ui.StepRunning, "")
		flow := onboarding.NewFlow(
			onboarding.WithSolo(true),
			onboarding.WithSubmitter(client),
			onboarding.WithStartStep(onboarding.StepWifiCreds),
		)
		submitCtx, cancel := context.WithTimeout(ctx, time.Duration(submitWait)*time.Second)
		defer cancel()
		if err := form.Submit(submitCtx, flow); err != nil {
			onStep(4, ui.StepFailed, err.Error())
			return nil, err
		}
		onStep(4, ui.StepComplete, "accepted")

		registry.RememberNetwork(ssid)
		saveRegistry()

		return []ui.Detail{
			{Key: "Hub", Value: hubURL},
			{Key: "Network", Value: ssid},
			{Key: "Next step", Value: flow.Current().String()},
		}, nil
	})
}

// fillForm enters ssid the way a user would: picked from the dropdown when
// the hub lists it, typed into the manual field otherwise
func fillForm(form *onboarding.WifiForm, ssid, password string) {
	switch {
	case len(form.Networks()) == 0:
		form.SetSSID(ssid)
	case hasNetwork(form.Networks(), ssid):
		form.Select(ssid)
	default:
		form.Select(onboarding.OtherValue)
		form.SetSSID(ssid)
	}
	form.SetPassword(password)
}

func hasNetwork(networks []onboarding.WirelessNetwork, ssid string) bool {
	for _, n := range networks {
		if n.SSID == ssid {
			return true
		}
	}
	return false
}

func maskPassword(password string) string {
	if password == "" {
		return "(none)"
	}
	return strings.Repeat("•", 8)
}

// connectHub dials the configured hub, or the first one discovery finds,
// falling back to the last hub used
func connectHub(ctx context.Context, feed *onboarding.Feed) (*hubclient.Client, string, error) {
	hubURL, err := locateHub(ctx)
	if err != nil {
		return nil, "", err
	}

	client, err := hubclient.DialWithRetry(ctx, hubURL, feed, hubclient.DefaultRetryOptions())
	if err != nil {
		return nil, "", fmt.Errorf("failed to connect to hub: %w", err)
	}
	registry.RecordConnection(hubURL)
	saveRegistry()
	return client, hubURL, nil
}

func locateHub(ctx context.Context) (string, error) {
	if settings.HubURL != "" {
		return tui.NormalizeHubURL(settings.HubURL), nil
	}

	if settings.AutoDiscover {
		scanner := discovery.NewScanner()
		scanner.Timeout = settings.DiscoverDuration()
		hub, err := scanner.FirstHub(ctx)
		if err == nil {
			registry.UpdateHubLastSeen(hub.Name, hub.WebSocketURL())
			return hub.WebSocketURL(), nil
		}
		logging.Debug("Hub discovery failed", zap.Error(err))
	}

	if name, hub := registry.LastHub(); hub != nil && hub.LastURL != "" {
		logging.Info("Using last known hub", zap.String("hub", name), zap.String("url", hub.LastURL))
		return hub.LastURL, nil
	}
	return "", errors.New("no tracking hub found; use --hub to give its address")
}

// hubsCmd lists hubs remembered in the configuration file
var hubsCmd = &cobra.Command{
	Use:   "hubs",
	Short: "List remembered hubs",
	Long: `List the hubs tracker-setup has found or connected to, most recent
first. With discovery turned off the wizard connects to the first one.`,
	RunE: runHubs,
}

var hubsRenameCmd = &cobra.Command{
	Use:     "rename <hub> <nickname>",
	Short:   "Give a remembered hub a nickname",
	Example: `  tracker-setup hubs rename "Tracking Hub on studio" "Studio PC"`,
	Args:    cobra.ExactArgs(2),
	RunE:    runHubsRename,
}

func runHubs(cmd *cobra.Command, args []string) error {
	p := ui.NewPrinter(cmd.OutOrStdout())
	t := ui.NewTable("Remembered hubs", "Name", "URL", "Last seen")
	t.Empty = "No hubs yet; run 'tracker-setup scan'"

	names := slices.Collect(maps.Keys(registry.Hubs))
	slices.SortFunc(names, func(a, b string) int {
		return registry.Hubs[b].LastSeen.Compare(registry.Hubs[a].LastSeen)
	})
	for _, name := range names {
		hub := registry.Hubs[name]
		seen := "never"
		if !hub.LastSeen.IsZero() {
			seen = hub.LastSeen.Local().Format("2006-01-02 15:04")
		}
		t.AddRow(hubLabel(name), hub.LastURL, seen)
	}
	p.PrintTable(t)
	return nil
}

func runHubsRename(cmd *cobra.Command, args []string) error {
	name, nickname := args[0], args[1]
	if registry.GetHub(name) == nil {
		return fmt.Errorf("unknown hub %q; see 'tracker-setup hubs'", name)
	}
	registry.SetHubNickname(name, nickname)
	if err := registry.Save(); err != nil {
		return fmt.Errorf("failed to save configuration: %w", err)
	}
	ui.NewPrinter(cmd.OutOrStdout()).PrintSuccess("Hub renamed",
		ui.Detail{Key: "Hub", Value: name},
		ui.Detail{Key: "Nickname", Value: nickname},
	)
	return nil
}

// hubLabel shows a hub's nickname next to its name when it has one
func hubLabel(name string) string {
	if hub := registry.GetHub(name); hub != nil && hub.Nickname != "" {
		return fmt.Sprintf("%s (%s)", hub.Nickname, name)
	}
	return name
}

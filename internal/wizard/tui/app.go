package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/muurk/trackersetup/internal/hubclient"
	"github.com/muurk/trackersetup/internal/i18n"
	"github.com/muurk/trackersetup/internal/logging"
	"github.com/muurk/trackersetup/internal/onboarding"
)

// Screen represents the current active screen in the application
type Screen string

const (
	ScreenConnect    Screen = "connect"
	ScreenOnboarding Screen = "onboarding"
)

// HubLink is what the wizard needs from a hub connection.
// *hubclient.Client implements it.
type HubLink interface {
	onboarding.CredentialSubmitter
	RequestScan(ctx context.Context) ([]onboarding.WirelessNetwork, error)
	Units() []onboarding.TrackingUnit
	TrackerUpdates() <-chan []onboarding.TrackingUnit
	Done() <-chan struct{}
	Err() error
	Close() error
}

// Dialer opens a HubLink; networks the hub reports go into feed
type Dialer func(ctx context.Context, url string, feed *onboarding.Feed) (HubLink, error)

// DialHub is the Dialer used outside tests
func DialHub(ctx context.Context, url string, feed *onboarding.Feed) (HubLink, error) {
	client, err := hubclient.DialWithRetry(ctx, url, feed, hubclient.DefaultRetryOptions())
	if err != nil {
		return nil, err
	}
	return client, nil
}

// Options configures the wizard
type Options struct {
	// HubURL skips the connect screen and dials this hub directly
	HubURL string

	// DiscoverTimeout bounds each mDNS scan on the connect screen
	DiscoverTimeout time.Duration

	// Solo opens the Wifi Credentials step on its own
	Solo bool

	// StartStep is the first onboarding step (default StepHome, or
	// StepWifiCreds when Solo is set)
	StartStep *onboarding.Step

	// RememberedSSIDs place the dropdown cursor; they never select a network
	RememberedSSIDs []string

	Localizer i18n.Localizer
	Dial      Dialer
	Scan      ScanFunc

	// OnConnected is called on the event loop after a hub accepts the connection
	OnConnected func(url string)

	// OnCredentialsSent is called on the event loop after the hub accepts credentials
	OnCredentialsSent func(ssid string)
}

// Messages for hub connection
type hubConnectedMsg struct {
	url  string
	link HubLink
}

type hubConnectFailedMsg struct {
	url string
	err error
}

type trackersMsg struct {
	units []onboarding.TrackingUnit
}

type hubLostMsg struct {
	err error
}

// AppModel is the top-level coordinator model that manages screen transitions
type AppModel struct {
	CurrentScreen Screen

	// Screen models
	ConnectModel ConnectModel
	WifiModel    WifiCredsModel
	InfoModel    InfoModel

	// Shared application state
	Flow    *onboarding.Flow
	Feed    *onboarding.Feed
	hub     *linkHolder
	HubURL  string
	Units   []onboarding.TrackingUnit
	HubErr  error
	Options Options

	// step caches Flow.Current() so View never reads the flow
	step     onboarding.Step
	progress float64

	// UI state
	Width       int
	Height      int
	ProgressBar progress.Model
}

// linkHolder lets value copies of AppModel share one connection
type linkHolder struct {
	link HubLink
}

// NewAppModel creates the wizard. It starts on the connect screen unless
// opts.HubURL is set.
func NewAppModel(opts Options) AppModel {
	if opts.Localizer == nil {
		opts.Localizer = i18n.Default()
	}
	if opts.Dial == nil {
		opts.Dial = DialHub
	}

	bar := progress.New(progress.WithDefaultGradient())
	bar.Width = 40

	m := AppModel{
		CurrentScreen: ScreenConnect,
		ConnectModel:  NewConnectModel(opts.Scan, opts.DiscoverTimeout),
		Feed:          onboarding.NewFeed(),
		hub:           &linkHolder{},
		Options:       opts,
		ProgressBar:   bar,
	}
	if opts.HubURL != "" {
		m.ConnectModel.Connecting = true
		m.ConnectModel.Target = opts.HubURL
	}
	return m
}

// Init dials the configured hub, or starts scanning for one
func (m AppModel) Init() tea.Cmd {
	if m.Options.HubURL != "" {
		return tea.Batch(m.dial(m.Options.HubURL), m.ConnectModel.Spinner.Tick)
	}
	return m.ConnectModel.Init()
}

func (m AppModel) dial(url string) tea.Cmd {
	dial, feed := m.Options.Dial, m.Feed
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		link, err := dial(ctx, url, feed)
		if err != nil {
			return hubConnectFailedMsg{url: url, err: err}
		}
		return hubConnectedMsg{url: url, link: link}
	}
}

// waitForTrackers blocks until the hub reports trackers or goes away
func waitForTrackers(link HubLink) tea.Cmd {
	return func() tea.Msg {
		select {
		case units := <-link.TrackerUpdates():
			return trackersMsg{units: units}
		case <-link.Done():
			return hubLostMsg{err: link.Err()}
		}
	}
}

// Update handles all messages and routes them to the appropriate screen
func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.Width = msg.Width
		m.Height = msg.Height
		m.ConnectModel, _ = m.ConnectModel.Update(msg)
		m.WifiModel.Width = msg.Width
		m.WifiModel.Height = msg.Height
		m.InfoModel.Width = msg.Width
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, m.quit()
		}

	case hubChosenMsg:
		return m, m.dial(msg.url)

	case hubConnectedMsg:
		return m.connected(msg)

	case hubConnectFailedMsg:
		logging.Warn("Hub connection failed", zap.String("url", msg.url), zap.Error(msg.err))
		if m.CurrentScreen == ScreenConnect {
			m.ConnectModel.ConnectFailed(fmt.Errorf("could not connect to %s: %w", msg.url, msg.err))
			if m.Options.HubURL != "" && len(m.ConnectModel.HubList.Items()) == 0 {
				// Direct dial failed; fall back to discovery
				m.Options.HubURL = ""
				return m, m.ConnectModel.Init()
			}
		}
		return m, nil

	case trackersMsg:
		m.Units = msg.units
		if m.CurrentScreen == ScreenOnboarding && m.step != onboarding.StepWifiCreds {
			m.InfoModel.Units = msg.units
		}
		return m, waitForTrackers(m.hub.link)

	case hubLostMsg:
		m.HubErr = msg.err
		logging.Warn("Lost connection to hub", zap.Error(msg.err))
		return m, nil

	case stepChangedMsg:
		return m.mountStep()

	case submitDoneMsg:
		var cmd tea.Cmd
		m.WifiModel, cmd = m.WifiModel.Update(msg)
		if msg.err == nil && m.Options.OnCredentialsSent != nil {
			m.Options.OnCredentialsSent(msg.ssid)
		}
		return m, cmd
	}

	return m.updateCurrentScreen(msg)
}

// updateCurrentScreen routes updates to the currently active screen
func (m AppModel) updateCurrentScreen(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch m.CurrentScreen {
	case ScreenConnect:
		m.ConnectModel, cmd = m.ConnectModel.Update(msg)

	case ScreenOnboarding:
		if m.step == onboarding.StepWifiCreds {
			m.WifiModel, cmd = m.WifiModel.Update(msg)
		} else {
			if _, ok := msg.(networksMsg); ok {
				return m, nil
			}
			m.InfoModel, cmd = m.InfoModel.Update(msg)
		}
	}
	return m, cmd
}

// connected starts the onboarding flow on top of the new hub connection
func (m AppModel) connected(msg hubConnectedMsg) (tea.Model, tea.Cmd) {
	m.hub.link = msg.link
	m.HubURL = msg.url
	m.Units = msg.link.Units()
	m.ConnectModel.Connecting = false
	if m.Options.OnConnected != nil {
		m.Options.OnConnected(msg.url)
	}

	start := onboarding.StepHome
	if m.Options.Solo {
		start = onboarding.StepWifiCreds
	}
	if m.Options.StartStep != nil {
		start = *m.Options.StartStep
	}
	m.Flow = onboarding.NewFlow(
		onboarding.WithSolo(m.Options.Solo),
		onboarding.WithSubmitter(msg.link),
		onboarding.WithStartStep(start),
	)
	m.CurrentScreen = ScreenOnboarding

	model, cmd := m.mountStep()
	return model, tea.Batch(cmd, waitForTrackers(msg.link))
}

// mountStep tears down the screen that was showing and builds the one for
// the flow's current step
func (m AppModel) mountStep() (tea.Model, tea.Cmd) {
	if m.step == onboarding.StepWifiCreds && m.WifiModel.Form != nil {
		m.WifiModel.Unmount()
	}
	m.step = m.Flow.Current()

	var cmd tea.Cmd
	if m.step == onboarding.StepWifiCreds {
		m.WifiModel = NewWifiCredsModel(m.Flow, m.Feed, m.hub.link, m.Options.Localizer, m.Options.RememberedSSIDs)
		m.WifiModel.Width = m.Width
		m.WifiModel.Height = m.Height
		cmd = m.WifiModel.Mount()
	} else {
		m.InfoModel = NewInfoModel(m.step, m.Flow, m.Options.Localizer, m.Units)
		m.InfoModel.Width = m.Width
		m.InfoModel.Mount()
	}
	m.progress = m.Flow.State().Progress
	return m, cmd
}

// quit closes the hub connection and ends the program
func (m AppModel) quit() tea.Cmd {
	if m.step == onboarding.StepWifiCreds && m.WifiModel.Form != nil {
		m.WifiModel.Unmount()
	}
	m.Feed.Close()
	if link := m.hub.link; link != nil {
		m.hub.link = nil
		go func() { _ = link.Close() }()
	}
	return tea.Quit
}

// Step returns the onboarding step on screen
func (m AppModel) Step() onboarding.Step {
	return m.step
}

// View renders the current screen
func (m AppModel) View() string {
	if m.CurrentScreen == ScreenConnect {
		return m.ConnectModel.View()
	}

	var content, helpText string
	if m.step == onboarding.StepWifiCreds {
		content = m.WifiModel.View()
		helpText = m.WifiModel.HelpView()
	} else {
		content = m.InfoModel.View()
		helpText = m.InfoModel.HelpView()
	}

	var b strings.Builder
	b.WriteString(m.renderProgress())
	b.WriteString("\n")
	if m.HubErr != nil {
		b.WriteString(RenderError("Lost connection to hub: " + m.HubErr.Error()))
		b.WriteString("\n")
	}
	b.WriteString(content)

	return RenderApplicationContainer(b.String(), helpText, m.Width, m.Height)
}

func (m AppModel) renderProgress() string {
	loc := m.Options.Localizer
	label := loc.Tf("onboarding.progress", map[string]any{"Percent": int(m.progress*100 + 0.5)})
	return m.ProgressBar.ViewAs(m.progress) + "  " + SubtitleStyle.Render(label)
}

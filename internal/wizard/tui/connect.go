package tui

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/muurk/trackersetup/internal/discovery"
	"github.com/muurk/trackersetup/internal/urls"
)

// ScanFunc looks for hubs on the local network
type ScanFunc func(ctx context.Context, timeout time.Duration) ([]*discovery.Hub, error)

// ScanMDNS is the ScanFunc used outside tests
func ScanMDNS(ctx context.Context, timeout time.Duration) ([]*discovery.Hub, error) {
	scanner := discovery.NewScanner()
	scanner.Timeout = timeout
	return scanner.ScanForHubsWithContext(ctx)
}

// Messages for async operations
type scanStartMsg struct{}
type scanCompleteMsg struct {
	hubs []*discovery.Hub
	err  error
}

// hubChosenMsg asks the app to connect to url
type hubChosenMsg struct {
	url string
}

// connectKeyMap defines key bindings for the hub list
type connectKeyMap struct {
	Up     key.Binding
	Down   key.Binding
	Enter  key.Binding
	Rescan key.Binding
	Manual key.Binding
	Quit   key.Binding
}

// ShortHelp returns keybindings to be shown in the mini help view
func (k connectKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Enter, k.Rescan, k.Manual, k.Quit}
}

// FullHelp returns keybindings for the expanded help view
func (k connectKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Enter},
		{k.Rescan, k.Manual, k.Quit},
	}
}

// manualModeKeyMap defines key bindings for manual URL entry mode
type manualModeKeyMap struct {
	Confirm key.Binding
	Cancel  key.Binding
}

// ShortHelp returns keybindings to be shown in the mini help view
func (m manualModeKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{m.Confirm, m.Cancel}
}

// FullHelp returns keybindings for the expanded help view
func (m manualModeKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{{m.Confirm, m.Cancel}}
}

// busyKeyMap is shown while scanning or connecting
type busyKeyMap struct {
	Manual key.Binding
	Quit   key.Binding
}

// ShortHelp returns keybindings to be shown in the mini help view
func (s busyKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{s.Manual, s.Quit}
}

// FullHelp returns keybindings for the expanded help view
func (s busyKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{{s.Manual, s.Quit}}
}

// hubItem wraps a Hub for use with bubbles/list
type hubItem struct {
	hub    *discovery.Hub
	manual bool
	url    string
}

// FilterValue implements list.Item
func (h hubItem) FilterValue() string {
	if h.manual {
		return h.url
	}
	return h.hub.Name + " " + h.hub.IP + " " + h.hub.Hostname
}

// Title returns the hub name for list display
func (h hubItem) Title() string {
	if h.manual {
		return "Manual: " + h.url
	}
	return h.hub.Name
}

// Description returns hub details for list display
func (h hubItem) Description() string {
	if h.manual {
		return h.url
	}
	v := h.hub.GetMetadata("version")
	if v == "" {
		v = "unknown"
	}
	return fmt.Sprintf("%s:%d • Version: %s", h.hub.IP, h.hub.Port, v)
}

// URL returns the WebSocket address to dial
func (h hubItem) URL() string {
	if h.manual {
		return h.url
	}
	return h.hub.WebSocketURL()
}

// hubDelegate renders hub cards
type hubDelegate struct {
	width int
}

func (d hubDelegate) Height() int { return 6 }

func (d hubDelegate) Spacing() int { return 1 }

func (d hubDelegate) Update(msg tea.Msg, m *list.Model) tea.Cmd { return nil }

func (d hubDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	hi, ok := item.(hubItem)
	if !ok {
		return
	}
	selected := index == m.Index()

	var content strings.Builder
	if selected {
		content.WriteString(SelectedMenuItemStyle.Render("→ " + hi.Title()))
	} else {
		content.WriteString("  " + hi.Title())
	}
	content.WriteString("\n\n")
	content.WriteString("  " + hi.Description() + "\n")
	content.WriteString("  " + SubtitleStyle.Render(hi.URL()))

	cardWidth := d.width - 6
	if cardWidth < MinTerminalWidth-6 {
		cardWidth = MinTerminalWidth - 6
	}
	if cardWidth > MaxContentWidth-6 {
		cardWidth = MaxContentWidth - 6
	}

	cardStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorEdge).
		Padding(0, 2).
		MarginLeft(2).
		Width(cardWidth)
	if selected {
		cardStyle = cardStyle.BorderForeground(ColorGood)
	}

	fmt.Fprint(w, cardStyle.Render(content.String()))
}

// ConnectModel is the screen for finding and choosing a tracking hub
type ConnectModel struct {
	// Discovery state
	Scanning bool
	HubList  list.Model
	Err      error

	// Connecting is set while the app dials the chosen hub
	Connecting bool
	Target     string

	// Manual URL entry state
	ManualMode bool
	URLInput   textinput.Model

	// UI state
	Width         int
	Height        int
	Spinner       spinner.Model
	ProgressBar   progress.Model
	ScanStartTime time.Time
	Help          help.Model
	Keys          connectKeyMap
	ManualKeys    manualModeKeyMap
	BusyKeys      busyKeyMap

	scan    ScanFunc
	timeout time.Duration
}

// NewConnectModel creates the hub selection screen
func NewConnectModel(scan ScanFunc, timeout time.Duration) ConnectModel {
	if scan == nil {
		scan = ScanMDNS
	}
	if timeout <= 0 {
		timeout = discovery.DefaultScanTimeout
	}

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = SpinnerStyle

	urlInput := textinput.New()
	urlInput.Placeholder = "ws://192.168.1.20:21110/ws"
	urlInput.CharLimit = 256
	urlInput.Width = 40

	progressBar := progress.New(progress.WithDefaultGradient())
	progressBar.Width = 40

	hubList := list.New([]list.Item{}, hubDelegate{width: MinTerminalWidth}, 0, 0)
	hubList.Title = "Tracking Hubs"
	hubList.SetShowStatusBar(false)
	hubList.SetFilteringEnabled(false)
	hubList.Styles.Title = TitleStyle

	return ConnectModel{
		HubList:     hubList,
		URLInput:    urlInput,
		Spinner:     s,
		ProgressBar: progressBar,
		Help:        help.New(),
		Keys: connectKeyMap{
			Up: key.NewBinding(
				key.WithKeys("up", "k"),
				key.WithHelp("↑/k", "move up"),
			),
			Down: key.NewBinding(
				key.WithKeys("down", "j"),
				key.WithHelp("↓/j", "move down"),
			),
			Enter: key.NewBinding(
				key.WithKeys("enter", " "),
				key.WithHelp("enter", "connect"),
			),
			Rescan: key.NewBinding(
				key.WithKeys("r"),
				key.WithHelp("r", "rescan"),
			),
			Manual: key.NewBinding(
				key.WithKeys("m"),
				key.WithHelp("m", "enter URL"),
			),
			Quit: key.NewBinding(
				key.WithKeys("q", "esc"),
				key.WithHelp("q", "quit"),
			),
		},
		ManualKeys: manualModeKeyMap{
			Confirm: key.NewBinding(
				key.WithKeys("enter"),
				key.WithHelp("enter", "connect"),
			),
			Cancel: key.NewBinding(
				key.WithKeys("esc"),
				key.WithHelp("esc", "cancel"),
			),
		},
		BusyKeys: busyKeyMap{
			Manual: key.NewBinding(
				key.WithKeys("m"),
				key.WithHelp("m", "enter URL"),
			),
			Quit: key.NewBinding(
				key.WithKeys("q"),
				key.WithHelp("q", "quit"),
			),
		},
		scan:    scan,
		timeout: timeout,
	}
}

// Init starts scanning immediately
func (m ConnectModel) Init() tea.Cmd {
	return m.startScan()
}

func (m ConnectModel) startScan() tea.Cmd {
	scan, timeout := m.scan, m.timeout
	return tea.Batch(
		func() tea.Msg { return scanStartMsg{} },
		func() tea.Msg {
			hubs, err := scan(context.Background(), timeout)
			return scanCompleteMsg{hubs: hubs, err: err}
		},
		m.Spinner.Tick,
	)
}

// Update handles messages and updates the model
func (m ConnectModel) Update(msg tea.Msg) (ConnectModel, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.ManualMode {
			return m.updateManualMode(msg)
		}
		return m.updateNormalMode(msg)

	case tea.WindowSizeMsg:
		m.Width = msg.Width
		m.Height = msg.Height
		m.HubList.SetDelegate(hubDelegate{width: msg.Width})
		m.HubList.SetWidth(msg.Width - 4)
		m.HubList.SetHeight(msg.Height - 10)

	case scanStartMsg:
		m.Scanning = true
		m.ScanStartTime = time.Now()

	case scanCompleteMsg:
		m.Scanning = false
		m.Err = msg.err
		items := make([]list.Item, 0, len(msg.hubs)+len(m.HubList.Items()))
		// Manually entered hubs survive a rescan
		for _, it := range m.HubList.Items() {
			if hi, ok := it.(hubItem); ok && hi.manual {
				items = append(items, hi)
			}
		}
		for _, hub := range msg.hubs {
			items = append(items, hubItem{hub: hub})
		}
		m.HubList.SetItems(items)

	case spinner.TickMsg:
		if !m.Scanning && !m.Connecting {
			return m, nil
		}
		m.Spinner, cmd = m.Spinner.Update(msg)
		return m, cmd
	}

	return m, nil
}

// updateNormalMode handles keyboard input in the hub list
func (m ConnectModel) updateNormalMode(msg tea.KeyMsg) (ConnectModel, tea.Cmd) {
	if m.Connecting {
		return m, nil
	}

	switch {
	case key.Matches(msg, m.Keys.Enter):
		if m.Scanning {
			return m, nil
		}
		if hi, ok := m.HubList.SelectedItem().(hubItem); ok {
			return m.choose(hi.URL())
		}
		return m, nil

	case key.Matches(msg, m.Keys.Rescan):
		if m.Scanning {
			return m, nil
		}
		m.Err = nil
		return m, m.startScan()

	case key.Matches(msg, m.Keys.Manual):
		m.ManualMode = true
		m.URLInput.SetValue("")
		return m, m.URLInput.Focus()

	case key.Matches(msg, m.Keys.Quit):
		return m, tea.Quit
	}

	var cmd tea.Cmd
	if !m.Scanning {
		m.HubList, cmd = m.HubList.Update(msg)
	}
	return m, cmd
}

// updateManualMode handles keyboard input in manual URL entry mode
func (m ConnectModel) updateManualMode(msg tea.KeyMsg) (ConnectModel, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.ManualMode = false
		m.URLInput.SetValue("")
		m.URLInput.Blur()
		return m, nil

	case "enter":
		url := NormalizeHubURL(m.URLInput.Value())
		if url == "" {
			return m, nil
		}
		items := append([]list.Item{hubItem{manual: true, url: url}}, m.HubList.Items()...)
		m.HubList.SetItems(items)
		m.HubList.Select(0)
		m.ManualMode = false
		m.URLInput.SetValue("")
		m.URLInput.Blur()
		return m.choose(url)
	}

	var cmd tea.Cmd
	m.URLInput, cmd = m.URLInput.Update(msg)
	return m, cmd
}

func (m ConnectModel) choose(url string) (ConnectModel, tea.Cmd) {
	m.Connecting = true
	m.Target = url
	m.Err = nil
	return m, tea.Batch(
		func() tea.Msg { return hubChosenMsg{url: url} },
		m.Spinner.Tick,
	)
}

// ConnectFailed records a failed dial and returns to the list
func (m *ConnectModel) ConnectFailed(err error) {
	m.Connecting = false
	m.Err = err
}

// NormalizeHubURL turns "host", "host:port" or a full URL into a WebSocket
// URL. Blank input yields "".
func NormalizeHubURL(input string) string {
	input = strings.TrimSpace(input)
	if input == "" {
		return ""
	}
	if strings.HasPrefix(input, "ws://") || strings.HasPrefix(input, "wss://") {
		return input
	}
	input = strings.TrimPrefix(input, "http://")
	if strings.Count(input, ":") > 1 && !strings.HasPrefix(input, "[") {
		input = "[" + input + "]"
	}
	if !strings.Contains(input, "/") {
		if !hasPort(input) {
			input = fmt.Sprintf("%s:%d", input, discovery.DefaultPort)
		}
		input += discovery.DefaultPath
	}
	return "ws://" + input
}

// hasPort reports whether hostport ends in a port. IPv6 hosts are bracketed.
func hasPort(hostport string) bool {
	i := strings.LastIndex(hostport, ":")
	if i < 0 {
		return false
	}
	if strings.Count(hostport, ":") > 1 {
		return strings.HasPrefix(hostport, "[") && strings.Contains(hostport[:i], "]")
	}
	return true
}

// View renders the connect screen
func (m ConnectModel) View() string {
	width := m.Width
	if width == 0 {
		width = MinTerminalWidth
	}

	var content, helpText string
	switch {
	case m.ManualMode:
		content = m.renderManualEntry()
		helpText = m.Help.View(m.ManualKeys)
	case m.Connecting:
		content = m.renderBusy(width, "CONNECTING TO HUB", m.Target)
		helpText = m.Help.View(m.BusyKeys)
	case m.Scanning:
		content = m.renderBusy(width, "SEARCHING FOR HUBS", "Looking for a tracking hub on your network...")
		helpText = m.Help.View(m.BusyKeys)
	default:
		content = m.renderHubResults()
		helpText = m.Help.View(m.Keys)
	}

	return RenderApplicationContainer(content, helpText, m.Width, m.Height)
}

// renderBusy renders a centered progress display
func (m ConnectModel) renderBusy(width int, title, subtitle string) string {
	elapsed := time.Since(m.ScanStartTime)
	fraction := 1.0
	if m.timeout > 0 && !m.Connecting {
		fraction = min(1.0, float64(elapsed)/float64(m.timeout))
	}

	parts := []string{
		"",
		TitleStyle.Render(m.Spinner.View() + " " + title),
		SubtitleStyle.Render(subtitle),
		"",
	}
	if !m.Connecting {
		parts = append(parts,
			m.ProgressBar.ViewAs(fraction),
			"",
			SubtitleStyle.Render(fmt.Sprintf("Elapsed: %ds", int(elapsed.Seconds()))),
		)
	}

	content := lipgloss.JoinVertical(lipgloss.Center, parts...)
	return lipgloss.Place(width, 0, lipgloss.Center, lipgloss.Top, content)
}

// renderHubResults renders the hub list or the troubleshooting hints
func (m ConnectModel) renderHubResults() string {
	var b strings.Builder
	b.WriteString("\n")

	if m.Err != nil {
		b.WriteString(RenderError(m.Err.Error()))
		b.WriteString("\n\n")
	}

	if len(m.HubList.Items()) == 0 {
		if m.Err == nil {
			warningStyle := lipgloss.NewStyle().Foreground(ColorWarn).Bold(true)
			b.WriteString("  ")
			b.WriteString(warningStyle.Render("⚠ No tracking hub found on your network"))
			b.WriteString("\n\n")
		}
		b.WriteString("  Troubleshooting:\n")
		b.WriteString("    • Ensure the hub is running\n")
		b.WriteString("    • Check that this computer is on the same network as the hub\n")
		b.WriteString("    • Allow mDNS (UDP port 5353) through your firewall\n")
		b.WriteString("    • Press 'm' to enter the hub address yourself\n")
		b.WriteString("\n  " + SubtitleStyle.Render(urls.HubDiscovery) + "\n")
		return b.String()
	}

	b.WriteString(m.HubList.View())
	return b.String()
}

// renderManualEntry renders the manual URL entry dialog
func (m ConnectModel) renderManualEntry() string {
	var b strings.Builder
	b.WriteString(RenderSubtitle("Enter the hub address (host, host:port or ws:// URL)"))
	b.WriteString("\n\n")
	b.WriteString("  Hub: ")
	b.WriteString(m.URLInput.View())
	b.WriteString("\n\n")
	return b.String()
}

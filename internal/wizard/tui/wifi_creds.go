package tui

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/muurk/trackersetup/internal/i18n"
	"github.com/muurk/trackersetup/internal/logging"
	"github.com/muurk/trackersetup/internal/onboarding"
	"github.com/muurk/trackersetup/internal/urls"
)

const (
	submitTimeout = 30 * time.Second
	scanTimeout   = 15 * time.Second
)

// wifiFocus is the element of the credentials form that receives keys
type wifiFocus int

const (
	focusDropdown wifiFocus = iota
	focusSSID
	focusPassword
	focusBack
	focusSkip
	focusSubmit
)

// networksMsg delivers a snapshot from the subscription it came from
type networksMsg struct {
	snap onboarding.NetworkSnapshot
	sub  <-chan onboarding.NetworkSnapshot
}

type scanResultMsg struct {
	err error
}

type submitDoneMsg struct {
	ssid string
	err  error
}

// stepChangedMsg tells the app the flow moved to another step
type stepChangedMsg struct{}

func stepChanged() tea.Msg { return stepChangedMsg{} }

// waitForNetworks blocks until the subscription yields a snapshot.
// A closed subscription ends the loop.
func waitForNetworks(sub <-chan onboarding.NetworkSnapshot) tea.Cmd {
	return func() tea.Msg {
		snap, ok := <-sub
		if !ok {
			return nil
		}
		return networksMsg{snap: snap, sub: sub}
	}
}

// wifiKeyMap defines key bindings for the credentials form
type wifiKeyMap struct {
	Next   key.Binding
	Prev   key.Binding
	Select key.Binding
	Rescan key.Binding
	Back   key.Binding
	Quit   key.Binding
}

// ShortHelp returns keybindings to be shown in the mini help view
func (k wifiKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Next, k.Prev, k.Select, k.Rescan, k.Back, k.Quit}
}

// FullHelp returns keybindings for the expanded help view
func (k wifiKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Next, k.Prev, k.Select},
		{k.Rescan, k.Back, k.Quit},
	}
}

// WifiCredsModel is the Wifi Credentials step
type WifiCredsModel struct {
	Form *onboarding.WifiForm

	flow *onboarding.Flow
	feed *onboarding.Feed
	link HubLink
	loc  i18n.Localizer
	sub  <-chan onboarding.NetworkSnapshot

	// Remembered SSIDs, most recent first. The first one the hub can see
	// gets the dropdown cursor while nothing is chosen; it is never selected
	// for the user.
	preferred []string

	SSIDInput     textinput.Model
	PasswordInput textinput.Model

	focus        wifiFocus
	DropdownOpen bool
	cursor       int
	options      []onboarding.Option

	backAffordance onboarding.Affordance
	skipAffordance onboarding.Affordance

	touched     map[string]bool
	Submitting  bool
	SubmitErr   error
	ScanErr     error
	pendingSnap *onboarding.NetworkSnapshot
	unmounted   bool

	Width   int
	Height  int
	Spinner spinner.Model
	Help    help.Model
	Keys    wifiKeyMap
}

// NewWifiCredsModel creates the credentials step. Call Mount before use.
func NewWifiCredsModel(flow *onboarding.Flow, feed *onboarding.Feed, link HubLink, loc i18n.Localizer, preferred []string) WifiCredsModel {
	ssid := textinput.New()
	ssid.Placeholder = loc.T("onboarding.wifi_creds.ssid.placeholder")
	ssid.CharLimit = 32 // 802.11 SSIDs are at most 32 bytes
	ssid.Width = FormWidth - 8

	password := textinput.New()
	password.Placeholder = loc.T("onboarding.wifi_creds.password.placeholder")
	password.EchoMode = textinput.EchoPassword
	password.EchoCharacter = '•'
	password.CharLimit = 63 // longest WPA passphrase
	password.Width = FormWidth - 8

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = SpinnerStyle

	return WifiCredsModel{
		Form:           onboarding.NewWifiForm(),
		flow:           flow,
		feed:           feed,
		link:           link,
		loc:            loc,
		preferred:      preferred,
		SSIDInput:      ssid,
		PasswordInput:  password,
		backAffordance: flow.BackAffordance(),
		skipAffordance: flow.SkipAffordance(),
		touched:        make(map[string]bool),
		Spinner:        s,
		Help:           help.New(),
		Keys: wifiKeyMap{
			Next: key.NewBinding(
				key.WithKeys("tab", "down"),
				key.WithHelp("tab/↓", "next"),
			),
			Prev: key.NewBinding(
				key.WithKeys("shift+tab", "up"),
				key.WithHelp("shift+tab/↑", "previous"),
			),
			Select: key.NewBinding(
				key.WithKeys("enter"),
				key.WithHelp("enter", "select"),
			),
			Rescan: key.NewBinding(
				key.WithKeys("ctrl+r"),
				key.WithHelp("ctrl+r", "rescan"),
			),
			Back: key.NewBinding(
				key.WithKeys("esc"),
				key.WithHelp("esc", "back"),
			),
			Quit: key.NewBinding(
				key.WithKeys("ctrl+c"),
				key.WithHelp("ctrl+c", "quit"),
			),
		},
	}
}

// Mount declares the step's progress, applies the latest known networks,
// subscribes to the feed and asks the hub for a fresh scan.
func (m *WifiCredsModel) Mount() tea.Cmd {
	m.flow.ApplyProgress(onboarding.WifiCredsProgress)

	m.applySnapshot(m.feed.Snapshot())
	m.sub = m.feed.Subscribe()

	m.focus = m.focusOrder()[0]
	cmd := m.applyFocus()
	return tea.Batch(waitForNetworks(m.sub), m.requestScan(), cmd)
}

// Unmount stops network delivery. Messages still in flight are discarded.
func (m *WifiCredsModel) Unmount() {
	if m.unmounted {
		return
	}
	m.unmounted = true
	if m.sub != nil {
		m.feed.Unsubscribe(m.sub)
	}
	m.Form.Close()
}

func (m WifiCredsModel) requestScan() tea.Cmd {
	link := m.link
	if link == nil {
		return nil
	}
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), scanTimeout)
		defer cancel()
		_, err := link.RequestScan(ctx)
		return scanResultMsg{err: err}
	}
}

// applySnapshot hands snap to the form and keeps the open dropdown usable.
// The dropdown stays open only when the option list is the same slice.
func (m *WifiCredsModel) applySnapshot(snap onboarding.NetworkSnapshot) {
	if !m.Form.SetNetworks(snap) {
		return
	}
	opts := m.Form.Options()
	if !sameOptions(m.options, opts) {
		m.options = opts
		m.DropdownOpen = false
		m.cursor = m.cursorStart()
	}
	m.ensureFocus()
}

// cursorStart is where the dropdown cursor rests when it opens: on the
// chosen value, else on the most recent remembered network in range.
func (m WifiCredsModel) cursorStart() int {
	if _, ok := m.Form.Selected(); ok {
		return m.selectionIndex()
	}
	for _, ssid := range m.preferred {
		for i, o := range m.options {
			if o.Value == ssid && o.Value != onboarding.OtherValue {
				return i
			}
		}
	}
	return 0
}

func sameOptions(a, b []onboarding.Option) bool {
	if len(a) != len(b) {
		return false
	}
	return len(a) == 0 || &a[0] == &b[0]
}

// selectionIndex is the option index of the dropdown value, or 0
func (m WifiCredsModel) selectionIndex() int {
	value, ok := m.Form.Selected()
	if !ok {
		return 0
	}
	for i, o := range m.options {
		if o.Value == value {
			return i
		}
	}
	return 0
}

func (m WifiCredsModel) focusOrder() []wifiFocus {
	layout := m.Form.Layout()
	order := make([]wifiFocus, 0, 6)
	if layout.ShowDropdown() {
		order = append(order, focusDropdown)
	}
	if layout.ShowManualSSID() {
		order = append(order, focusSSID)
	}
	order = append(order, focusPassword)
	if m.backAffordance == onboarding.AffordanceVisible {
		order = append(order, focusBack)
	}
	if m.skipAffordance == onboarding.AffordanceVisible {
		order = append(order, focusSkip)
	}
	return append(order, focusSubmit)
}

// ensureFocus moves focus off fields the layout no longer shows
func (m *WifiCredsModel) ensureFocus() {
	for _, f := range m.focusOrder() {
		if f == m.focus {
			return
		}
	}
	m.focus = m.focusOrder()[0]
	m.applyFocus()
}

func (m *WifiCredsModel) moveFocus(delta int) tea.Cmd {
	order := m.focusOrder()
	idx := 0
	for i, f := range order {
		if f == m.focus {
			idx = i
			break
		}
	}
	idx = (idx + delta + len(order)) % len(order)
	m.focus = order[idx]
	return m.applyFocus()
}

func (m *WifiCredsModel) applyFocus() tea.Cmd {
	m.SSIDInput.Blur()
	m.PasswordInput.Blur()
	switch m.focus {
	case focusSSID:
		return m.SSIDInput.Focus()
	case focusPassword:
		return m.PasswordInput.Focus()
	}
	return nil
}

// Update handles messages for the credentials step
func (m WifiCredsModel) Update(msg tea.Msg) (WifiCredsModel, tea.Cmd) {
	switch msg := msg.(type) {
	case networksMsg:
		if m.unmounted || msg.sub != m.sub {
			return m, nil
		}
		if m.Submitting {
			snap := msg.snap
			m.pendingSnap = &snap
		} else {
			m.applySnapshot(msg.snap)
		}
		return m, waitForNetworks(m.sub)

	case scanResultMsg:
		m.ScanErr = msg.err
		if msg.err != nil {
			logging.Warn("Wi-Fi scan failed", zap.Error(msg.err))
		}
		return m, nil

	case submitDoneMsg:
		m.Submitting = false
		if m.pendingSnap != nil {
			m.applySnapshot(*m.pendingSnap)
			m.pendingSnap = nil
		}
		if msg.err != nil {
			m.SubmitErr = msg.err
			return m, nil
		}
		return m, stepChanged

	case spinner.TickMsg:
		if !m.Submitting {
			return m, nil
		}
		var cmd tea.Cmd
		m.Spinner, cmd = m.Spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		if m.Submitting || m.unmounted {
			return m, nil
		}
		return m.handleKey(msg)
	}
	return m, nil
}

func (m WifiCredsModel) handleKey(msg tea.KeyMsg) (WifiCredsModel, tea.Cmd) {
	if m.DropdownOpen {
		return m.handleDropdownKey(msg)
	}

	switch {
	case key.Matches(msg, m.Keys.Rescan):
		m.ScanErr = nil
		return m, m.requestScan()
	case key.Matches(msg, m.Keys.Next):
		return m, m.moveFocus(1)
	case key.Matches(msg, m.Keys.Prev):
		return m, m.moveFocus(-1)
	case key.Matches(msg, m.Keys.Back):
		return m.back()
	}

	switch m.focus {
	case focusDropdown:
		switch msg.String() {
		case "enter", " ", "right":
			m.DropdownOpen = true
			m.cursor = m.cursorStart()
		}
		return m, nil

	case focusSSID, focusPassword:
		if msg.String() == "enter" {
			if m.focus == focusPassword && m.Form.IsValid() {
				return m.submit()
			}
			return m, m.moveFocus(1)
		}
		return m.updateInput(msg)

	case focusBack, focusSkip, focusSubmit:
		switch msg.String() {
		case "enter", " ":
			return m.activate(m.focus)
		case "left":
			return m, m.moveFocus(-1)
		case "right":
			return m, m.moveFocus(1)
		}
	}
	return m, nil
}

func (m WifiCredsModel) handleDropdownKey(msg tea.KeyMsg) (WifiCredsModel, tea.Cmd) {
	switch msg.String() {
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.options)-1 {
			m.cursor++
		}
	case "esc":
		m.DropdownOpen = false
	case "enter", " ":
		m.DropdownOpen = false
		if m.cursor < len(m.options) {
			return m.pick(m.options[m.cursor].Value)
		}
	}
	return m, nil
}

// pick sets the dropdown value and follows it into the manual field when
// the manual-entry option was chosen
func (m WifiCredsModel) pick(value string) (WifiCredsModel, tea.Cmd) {
	m.Form.Select(value)
	m.touched[onboarding.FieldSSIDSelect] = true
	if value == onboarding.OtherValue {
		m.focus = focusSSID
		return m, m.applyFocus()
	}
	m.ensureFocus()
	return m, nil
}

func (m WifiCredsModel) updateInput(msg tea.KeyMsg) (WifiCredsModel, tea.Cmd) {
	var cmd tea.Cmd
	switch m.focus {
	case focusSSID:
		m.SSIDInput, cmd = m.SSIDInput.Update(msg)
		m.Form.SetSSID(m.SSIDInput.Value())
		m.touched[onboarding.FieldSSID] = true
	case focusPassword:
		m.PasswordInput, cmd = m.PasswordInput.Update(msg)
		m.Form.SetPassword(m.PasswordInput.Value())
		m.touched[onboarding.FieldPassword] = true
	}
	return m, cmd
}

func (m WifiCredsModel) activate(f wifiFocus) (WifiCredsModel, tea.Cmd) {
	switch f {
	case focusBack:
		return m.back()
	case focusSkip:
		return m.skip()
	case focusSubmit:
		return m.submit()
	}
	return m, nil
}

func (m WifiCredsModel) back() (WifiCredsModel, tea.Cmd) {
	if m.backAffordance != onboarding.AffordanceVisible {
		return m, nil
	}
	m.flow.Back()
	return m, stepChanged
}

func (m WifiCredsModel) skip() (WifiCredsModel, tea.Cmd) {
	if m.skipAffordance != onboarding.AffordanceVisible {
		return m, nil
	}
	var units []onboarding.TrackingUnit
	if m.link != nil {
		units = m.link.Units()
	}
	m.Form.Skip(m.flow, units)
	return m, stepChanged
}

// submit hands the form to the flow off the event loop. Until the result
// arrives, keys are ignored and network updates are held back, so neither
// the form nor the flow is touched concurrently.
func (m WifiCredsModel) submit() (WifiCredsModel, tea.Cmd) {
	if !m.Form.IsValid() {
		for _, f := range []string{onboarding.FieldSSIDSelect, onboarding.FieldSSID, onboarding.FieldPassword} {
			m.touched[f] = true
		}
		return m, nil
	}
	m.Submitting = true
	m.SubmitErr = nil

	form, flow := m.Form, m.flow
	ssid := form.Selection().EffectiveSSID()
	return m, tea.Batch(
		func() tea.Msg {
			ctx, cancel := context.WithTimeout(context.Background(), submitTimeout)
			defer cancel()
			return submitDoneMsg{ssid: ssid, err: form.Submit(ctx, flow)}
		},
		m.Spinner.Tick,
	)
}

// hint returns the localized message for a touched field's validation error
func (m WifiCredsModel) hint(field string) string {
	if !m.touched[field] {
		return ""
	}
	for _, err := range m.Form.Validate() {
		var ve *onboarding.ValidationError
		if !errors.As(err, &ve) || ve.Field != field {
			continue
		}
		switch field {
		case onboarding.FieldSSIDSelect:
			return m.loc.T("onboarding.wifi_creds.validation.ssid_select.required")
		case onboarding.FieldSSID:
			return m.loc.T("onboarding.wifi_creds.validation.ssid.required")
		case onboarding.FieldPassword:
			return m.loc.Tf("onboarding.wifi_creds.validation.password.too_short",
				map[string]any{"Min": onboarding.MinPasswordBytes})
		}
	}
	return ""
}

// HelpView renders the key help for the footer
func (m WifiCredsModel) HelpView() string {
	return m.Help.View(m.Keys)
}

// View renders the step content
func (m WifiCredsModel) View() string {
	var b strings.Builder

	b.WriteString(RenderTitle(m.loc.T("onboarding.wifi_creds")))
	b.WriteString("\n")
	b.WriteString(RenderDescription(i18n.Lines(m.loc, "onboarding.wifi_creds.description")))
	b.WriteString("\n\n")

	b.WriteString(m.renderPanel())
	b.WriteString("\n\n")
	b.WriteString(m.renderButtons())
	b.WriteString("\n\n")

	switch {
	case m.Submitting:
		b.WriteString(SpinnerStyle.Render(m.Spinner.View() + " " + m.loc.T("onboarding.wifi_creds.submitting")))
		b.WriteString("\n")
	case m.SubmitErr != nil:
		b.WriteString(ErrorBoxStyle.Render(m.loc.Tf("onboarding.wifi_creds.submit_failed",
			map[string]any{"Error": m.SubmitErr.Error()})))
		b.WriteString("\n")
	case m.ScanErr != nil:
		b.WriteString(HintStyle.Render("⚠ " + m.ScanErr.Error()))
		b.WriteString("\n")
	}

	b.WriteString(SubtitleStyle.Render(m.loc.Tf("onboarding.tutorial.docs", map[string]any{"URL": urls.WifiSetup})))
	return b.String()
}

func (m WifiCredsModel) renderPanel() string {
	layout := m.Form.Layout()
	var rows []string

	if layout.ShowDropdown() {
		rows = append(rows, FieldLabelStyle.Render(m.loc.T("onboarding.wifi_creds.ssid_select.label")))
		rows = append(rows, m.renderDropdown())
		if h := m.hint(onboarding.FieldSSIDSelect); h != "" {
			rows = append(rows, HintStyle.Render(h))
		}
		rows = append(rows, "")
	} else {
		rows = append(rows, SubtitleStyle.Render(m.loc.T("onboarding.wifi_creds.no_networks")), "")
	}

	if layout.ShowManualSSID() {
		rows = append(rows, FieldLabelStyle.Render(m.loc.T("onboarding.wifi_creds.ssid.label")))
		rows = append(rows, m.inputStyle(focusSSID).Render(m.SSIDInput.View()))
		if h := m.hint(onboarding.FieldSSID); h != "" {
			rows = append(rows, HintStyle.Render(h))
		}
		rows = append(rows, "")
	}

	rows = append(rows, FieldLabelStyle.Render(m.loc.T("onboarding.wifi_creds.password.label")))
	rows = append(rows, m.inputStyle(focusPassword).Render(m.PasswordInput.View()))
	if h := m.hint(onboarding.FieldPassword); h != "" {
		rows = append(rows, HintStyle.Render(h))
	}

	panel := PanelStyle
	if m.backAffordance == onboarding.AffordanceReserved {
		panel = panel.BorderForeground(ColorSoloEdge)
	}
	return panel.Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

func (m WifiCredsModel) inputStyle(f wifiFocus) lipgloss.Style {
	if m.focus == f {
		return FocusedInputStyle
	}
	return BlurredInputStyle
}

func (m WifiCredsModel) renderDropdown() string {
	current := PlaceholderStyle.Render(m.loc.T("onboarding.wifi_creds.ssid_select.placeholder"))
	if value, ok := m.Form.Selected(); ok {
		current = m.loc.Tf("onboarding.wifi_creds.ssid_select.out_of_range", map[string]any{"SSID": value})
		for _, o := range m.options {
			if o.Value == value {
				current = o.Label
				break
			}
		}
	}
	box := m.inputStyle(focusDropdown).Width(FormWidth - 8).Render(current + " ▾")
	if !m.DropdownOpen {
		return box
	}

	items := make([]string, len(m.options))
	for i, o := range m.options {
		if i == m.cursor {
			items[i] = DropdownCursorStyle.Render("→ " + o.Label)
		} else {
			items[i] = DropdownItemStyle.Render(o.Label)
		}
	}
	return lipgloss.JoinVertical(lipgloss.Left, box, strings.Join(items, "\n"))
}

func (m WifiCredsModel) renderButtons() string {
	state := func(f wifiFocus, aff onboarding.Affordance) buttonState {
		switch {
		case aff == onboarding.AffordanceReserved:
			return buttonReserved
		case m.focus == f:
			return buttonFocused
		}
		return buttonEnabled
	}

	submitState := state(focusSubmit, onboarding.AffordanceVisible)
	if !m.Form.IsValid() || m.Submitting {
		submitState = buttonDisabled
	}

	return lipgloss.JoinHorizontal(lipgloss.Top,
		RenderButton(m.loc.T("onboarding.previous_step"), false, state(focusBack, m.backAffordance)),
		"  ",
		RenderButton(m.loc.T("onboarding.wifi_creds.skip"), false, state(focusSkip, m.skipAffordance)),
		"  ",
		RenderButton(m.loc.T("onboarding.wifi_creds.submit"), true, submitState),
	)
}

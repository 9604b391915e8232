package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/muurk/trackersetup/internal/i18n"
	"github.com/muurk/trackersetup/internal/onboarding"
	"github.com/muurk/trackersetup/internal/ui"
	"github.com/muurk/trackersetup/internal/urls"
)

// stepProgress is each step's position in the wizard
var stepProgress = map[onboarding.Step]float64{
	onboarding.StepHome:                0,
	onboarding.StepWifiCreds:           onboarding.WifiCredsProgress,
	onboarding.StepConnectTrackers:     0.4,
	onboarding.StepCalibrationTutorial: 0.6,
	onboarding.StepAssignTutorial:      0.8,
	onboarding.StepDone:                1,
}

// stepDocs links each tutorial step to its guide
var stepDocs = map[onboarding.Step]string{
	onboarding.StepHome:                urls.GettingStarted,
	onboarding.StepCalibrationTutorial: urls.CalibrationTutorial,
	onboarding.StepAssignTutorial:      urls.AssignTutorial,
}

// infoKeyMap defines key bindings for the informational steps
type infoKeyMap struct {
	Continue key.Binding
	Back     key.Binding
	Quit     key.Binding
}

// ShortHelp returns keybindings to be shown in the mini help view
func (k infoKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Continue, k.Back, k.Quit}
}

// FullHelp returns keybindings for the expanded help view
func (k infoKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{{k.Continue, k.Back, k.Quit}}
}

// InfoModel renders the steps around Wifi Credentials: a title, a
// description and a single way forward.
type InfoModel struct {
	Step  onboarding.Step
	Units []onboarding.TrackingUnit

	flow *onboarding.Flow
	loc  i18n.Localizer

	Width int
	Help  help.Model
	Keys  infoKeyMap
}

// NewInfoModel creates the screen for step
func NewInfoModel(step onboarding.Step, flow *onboarding.Flow, loc i18n.Localizer, units []onboarding.TrackingUnit) InfoModel {
	continueHelp := loc.T("onboarding.continue")
	if step == onboarding.StepHome {
		continueHelp = loc.T("onboarding.home.start")
	} else if step == onboarding.StepDone {
		continueHelp = loc.T("onboarding.done.finish")
	}

	keys := infoKeyMap{
		Continue: key.NewBinding(
			key.WithKeys("enter", " "),
			key.WithHelp("enter", strings.ToLower(continueHelp)),
		),
		Back: key.NewBinding(
			key.WithKeys("esc", "backspace"),
			key.WithHelp("esc", "back"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
	if step == onboarding.StepHome {
		keys.Back.SetEnabled(false)
	}

	return InfoModel{
		Step:  step,
		Units: units,
		flow:  flow,
		loc:   loc,
		Help:  help.New(),
		Keys:  keys,
	}
}

// Mount declares the step's progress
func (m InfoModel) Mount() {
	m.flow.ApplyProgress(stepProgress[m.Step])
}

// next is where "continue" leads. StepDone has no next step.
func (m InfoModel) next() (onboarding.Step, bool) {
	switch m.Step {
	case onboarding.StepHome:
		return onboarding.StepWifiCreds, true
	case onboarding.StepConnectTrackers:
		return onboarding.SkipDestination(m.Units), true
	case onboarding.StepCalibrationTutorial:
		return onboarding.StepAssignTutorial, true
	case onboarding.StepAssignTutorial:
		return onboarding.StepDone, true
	}
	return 0, false
}

// Update handles key presses
func (m InfoModel) Update(msg tea.Msg) (InfoModel, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch {
	case key.Matches(keyMsg, m.Keys.Continue):
		dest, ok := m.next()
		if !ok {
			return m, tea.Quit
		}
		if err := m.flow.Navigate(dest); err != nil {
			return m, nil
		}
		return m, stepChanged

	case key.Matches(keyMsg, m.Keys.Back):
		m.flow.Back()
		return m, stepChanged

	case key.Matches(keyMsg, m.Keys.Quit):
		return m, tea.Quit
	}
	return m, nil
}

// HelpView renders the key help for the footer
func (m InfoModel) HelpView() string {
	return m.Help.View(m.Keys)
}

// View renders the step content
func (m InfoModel) View() string {
	id := "onboarding." + strings.ReplaceAll(m.Step.String(), "-", "_")

	var b strings.Builder
	b.WriteString(RenderTitle(m.loc.T(id)))
	b.WriteString("\n")
	b.WriteString(RenderDescription(i18n.Lines(m.loc, id+".description")))
	b.WriteString("\n\n")

	if m.Step == onboarding.StepConnectTrackers {
		b.WriteString(m.renderUnits())
		b.WriteString("\n\n")
	}

	if url, ok := stepDocs[m.Step]; ok {
		b.WriteString(SubtitleStyle.Render(m.loc.Tf("onboarding.tutorial.docs", map[string]any{"URL": url})))
		b.WriteString("\n")
	}
	return b.String()
}

func (m InfoModel) renderUnits() string {
	t := ui.NewTable(m.loc.T("onboarding.connect_trackers"), "Name", "ID", "Sensor")
	t.Empty = m.loc.T("onboarding.connect_trackers.none")
	if m.Width > 0 {
		t.SetWidth(m.Width - 4)
	}
	for _, u := range m.Units {
		if u.IMU.IsBNO() {
			t.AddRow(u.Name, u.ID, u.IMU.String())
		} else {
			t.AddNote(u.Name, u.ID, u.IMU.String())
		}
	}
	return t.Render()
}

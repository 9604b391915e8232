package tui

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
)

func TestRenderButton_ReservedKeepsWidth(t *testing.T) {
	for _, primary := range []bool{false, true} {
		visible := RenderButton("Skip Wi-Fi settings", primary, buttonEnabled)
		reserved := RenderButton("Skip Wi-Fi settings", primary, buttonReserved)

		if lipgloss.Width(reserved) != lipgloss.Width(visible) {
			t.Errorf("primary=%v: reserved width = %d, want %d", primary, lipgloss.Width(reserved), lipgloss.Width(visible))
		}
		if strings.TrimSpace(reserved) != "" {
			t.Errorf("primary=%v: reserved button = %q, want blank", primary, reserved)
		}
	}
}

func TestRenderButton_States(t *testing.T) {
	for _, state := range []buttonState{buttonEnabled, buttonFocused, buttonDisabled} {
		if got := RenderButton("Submit!", true, state); !strings.Contains(got, "Submit!") {
			t.Errorf("RenderButton(state %d) = %q, want label", state, got)
		}
	}
}

func TestRenderApplicationContainer(t *testing.T) {
	out := RenderApplicationContainer("hello", "q quit", 10, 5)
	if !strings.Contains(out, "hello") || !strings.Contains(out, AppName) {
		t.Error("container should hold the content and the app name")
	}
	for _, line := range strings.Split(out, "\n") {
		if w := lipgloss.Width(line); w > MinTerminalWidth {
			t.Errorf("line width %d exceeds MinTerminalWidth %d", w, MinTerminalWidth)
		}
	}
}

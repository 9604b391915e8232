package tui

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/muurk/trackersetup/internal/discovery"
)

func TestNormalizeHubURL(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"", ""},
		{"   ", ""},
		{"192.168.1.20", "ws://192.168.1.20:21110/ws"},
		{"192.168.1.20:9000", "ws://192.168.1.20:9000/ws"},
		{"studio.local", "ws://studio.local:21110/ws"},
		{"ws://10.0.0.5:8080/hub", "ws://10.0.0.5:8080/hub"},
		{"wss://hub.example.com/ws", "wss://hub.example.com/ws"},
		{"http://10.0.0.5:8080/ws", "ws://10.0.0.5:8080/ws"},
		{"fe80::1", "ws://[fe80::1]:21110/ws"},
		{"[fe80::1]:9000", "ws://[fe80::1]:9000/ws"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := NormalizeHubURL(tt.input); got != tt.want {
				t.Errorf("NormalizeHubURL(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func stubScan(hubs ...*discovery.Hub) ScanFunc {
	return func(ctx context.Context, timeout time.Duration) ([]*discovery.Hub, error) {
		return hubs, nil
	}
}

func TestConnectModel_ScanListsHubs(t *testing.T) {
	hub := &discovery.Hub{Name: "Studio Hub", IP: "192.168.1.20", Port: 21110, Metadata: map[string]string{"version": "1.2.0"}}
	m := NewConnectModel(stubScan(hub), time.Second)

	msgs := collect(m.Init())
	if _, ok := findMsg[scanStartMsg](msgs); !ok {
		t.Fatal("Init() should start a scan")
	}
	m, _ = m.Update(scanStartMsg{})
	if !m.Scanning {
		t.Error("Scanning should be set after scanStartMsg")
	}

	done, ok := findMsg[scanCompleteMsg](msgs)
	if !ok {
		t.Fatal("Init() should complete a scan")
	}
	m, _ = m.Update(done)
	if m.Scanning {
		t.Error("Scanning should be cleared after scanCompleteMsg")
	}
	if n := len(m.HubList.Items()); n != 1 {
		t.Fatalf("HubList has %d items, want 1", n)
	}

	m, cmd := m.Update(press(tea.KeyEnter))
	if !m.Connecting {
		t.Error("enter should start connecting")
	}
	chosen, ok := findMsg[hubChosenMsg](collect(cmd))
	if !ok {
		t.Fatal("enter should produce hubChosenMsg")
	}
	if chosen.url != "ws://192.168.1.20:21110/ws" {
		t.Errorf("chosen url = %q, want %q", chosen.url, "ws://192.168.1.20:21110/ws")
	}
}

func TestConnectModel_ManualEntry(t *testing.T) {
	m := NewConnectModel(stubScan(), time.Second)

	m, _ = m.Update(typed("m"))
	if !m.ManualMode {
		t.Fatal("m should open manual entry")
	}
	m, _ = m.Update(typed("10.0.0.5"))
	m, cmd := m.Update(press(tea.KeyEnter))

	chosen, ok := findMsg[hubChosenMsg](collect(cmd))
	if !ok {
		t.Fatal("enter should produce hubChosenMsg")
	}
	if chosen.url != "ws://10.0.0.5:21110/ws" {
		t.Errorf("chosen url = %q, want %q", chosen.url, "ws://10.0.0.5:21110/ws")
	}

	// Manual entries survive a rescan
	m.ConnectFailed(errors.New("refused"))
	m, _ = m.Update(scanCompleteMsg{})
	if n := len(m.HubList.Items()); n != 1 {
		t.Errorf("HubList has %d items after rescan, want 1", n)
	}
}

func TestConnectModel_ManualEntryCancel(t *testing.T) {
	m := NewConnectModel(stubScan(), time.Second)
	m, _ = m.Update(typed("m"))
	m, _ = m.Update(typed("10.0.0.5"))
	m, cmd := m.Update(press(tea.KeyEsc))

	if m.ManualMode {
		t.Error("esc should close manual entry")
	}
	if cmd != nil {
		t.Error("esc in manual entry should not quit")
	}
	if m.URLInput.Value() != "" {
		t.Errorf("URLInput = %q, want cleared", m.URLInput.Value())
	}
}

func TestConnectModel_ViewStates(t *testing.T) {
	m := NewConnectModel(stubScan(), time.Second)

	m, _ = m.Update(scanCompleteMsg{})
	if !strings.Contains(m.View(), "No tracking hub found") {
		t.Error("View() should say no hub was found")
	}

	m.ConnectFailed(errors.New("could not connect to ws://x/ws"))
	if !strings.Contains(m.View(), "could not connect") {
		t.Error("View() should show the connection error")
	}

	m, _ = m.Update(scanStartMsg{})
	if !strings.Contains(m.View(), "SEARCHING FOR HUBS") {
		t.Error("View() should show the scan progress while scanning")
	}
}

func TestConnectModel_ScanError(t *testing.T) {
	m := NewConnectModel(nil, 0)
	if m.timeout != discovery.DefaultScanTimeout {
		t.Errorf("timeout = %v, want %v", m.timeout, discovery.DefaultScanTimeout)
	}

	m, _ = m.Update(scanCompleteMsg{err: errors.New("no multicast interface")})
	if m.Err == nil {
		t.Fatal("Err should be set after a failed scan")
	}
	if !strings.Contains(m.View(), "no multicast interface") {
		t.Error("View() should show the scan error")
	}
}

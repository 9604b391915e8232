package protocol

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/muurk/trackersetup/internal/onboarding"
)

func TestNewRequest(t *testing.T) {
	env, err := NewRequest(TypeWifiCredentials, WifiCredentialsPayload{SSID: "Home", Password: "correct-horse"})
	if err != nil {
		t.Fatalf("NewRequest() error = %v", err)
	}
	if env.ID == "" {
		t.Error("NewRequest() ID is empty")
	}
	if env.Type != TypeWifiCredentials {
		t.Errorf("Type = %v, want %v", env.Type, TypeWifiCredentials)
	}

	other, _ := NewRequest(TypeWifiCredentials, nil)
	if other.ID == env.ID {
		t.Error("two requests share an ID")
	}
	if other.Payload != nil {
		t.Errorf("nil payload encoded as %s", other.Payload)
	}
}

func TestNewResponse_EchoesID(t *testing.T) {
	req, _ := NewRequest(TypeTrackersRequest, nil)
	resp, err := NewResponse(req, TypeTrackers, TrackersPayload{})
	if err != nil {
		t.Fatalf("NewResponse() error = %v", err)
	}
	if resp.ID != req.ID {
		t.Errorf("ID = %v, want %v", resp.ID, req.ID)
	}

	push, _ := NewPush(TypeWifiNetworks, WifiNetworksPayload{})
	if push.ID != "" {
		t.Errorf("push ID = %q, want empty", push.ID)
	}
}

func TestEnvelope_WireFormat(t *testing.T) {
	env, _ := NewPush(TypeWifiCredentials, WifiCredentialsPayload{SSID: "CafeGuest"})
	data, err := json.Marshal(env)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	want := `{"type":"wifi_credentials","payload":{"ssid":"CafeGuest"}}`
	if string(data) != want {
		t.Errorf("Marshal() = %s, want %s", data, want)
	}
}

func TestParse(t *testing.T) {
	tests := []struct {
		name    string
		data    string
		want    MessageType
		wantErr string
	}{
		{
			name: "networks push",
			data: `{"type":"wifi_networks","payload":{"networks":[{"ssid":"Home","rssi":-40}]}}`,
			want: TypeWifiNetworks,
		},
		{
			name:    "not JSON",
			data:    `hello`,
			wantErr: "malformed",
		},
		{
			name:    "missing type",
			data:    `{"id":"1"}`,
			wantErr: "no type",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env, err := Parse([]byte(tt.data))
			if tt.wantErr != "" {
				if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
					t.Errorf("Parse() error = %v, want containing %q", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Parse() error = %v", err)
			}
			if env.Type != tt.want {
				t.Errorf("Type = %v, want %v", env.Type, tt.want)
			}
		})
	}
}

func TestEnvelope_Decode(t *testing.T) {
	env, _ := Parse([]byte(`{"type":"wifi_networks","payload":{"networks":[{"ssid":"Home"},{"ssid":"Office"}]}}`))
	var p WifiNetworksPayload
	if err := env.Decode(&p); err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if len(p.Networks) != 2 || p.Networks[1].SSID != "Office" {
		t.Errorf("Networks = %v, want [Home Office]", p.Networks)
	}

	empty := &Envelope{Type: TypeTrackers}
	if err := empty.Decode(&TrackersPayload{}); err == nil {
		t.Error("Decode() of an empty payload error = nil")
	}

	bad := &Envelope{Type: TypeTrackers, Payload: json.RawMessage(`{"trackers":"nope"}`)}
	if err := bad.Decode(&TrackersPayload{}); err == nil {
		t.Error("Decode() of a mistyped payload error = nil")
	}
}

func TestToNetworks(t *testing.T) {
	p := WifiNetworksPayload{Networks: []NetworkInfo{{SSID: "Home", RSSI: -40}, {SSID: "Office"}}}
	got := p.ToNetworks()
	if len(got) != 2 || got[0].SSID != "Home" || got[1].SSID != "Office" {
		t.Errorf("ToNetworks() = %v, want [Home Office] in order", got)
	}
}

func TestToUnits(t *testing.T) {
	p := TrackersPayload{Trackers: []TrackerInfo{
		{ID: "t0", Name: "Chest", IMUType: "BNO085"},
		{ID: "t1", Name: "Hip", IMUType: "mystery"},
	}}
	got := p.ToUnits()
	if len(got) != 2 {
		t.Fatalf("ToUnits() = %v, want 2 units", got)
	}
	if got[0].IMU != onboarding.IMUBNO085 {
		t.Errorf("units[0].IMU = %v, want BNO085", got[0].IMU)
	}
	if got[1].IMU != onboarding.IMUUnknown {
		t.Errorf("units[1].IMU = %v, want UNKNOWN", got[1].IMU)
	}
}

func TestCredentialsFromSelection(t *testing.T) {
	other := onboarding.OtherValue
	ssid := "Garage"
	pw := "correct-horse"
	got := CredentialsFromSelection(onboarding.CredentialSelection{SSIDSelect: &other, SSID: &ssid, Password: &pw})
	want := WifiCredentialsPayload{SSID: "Garage", Password: "correct-horse"}
	if got != want {
		t.Errorf("CredentialsFromSelection() = %+v, want %+v", got, want)
	}

	open := CredentialsFromSelection(onboarding.CredentialSelection{SSID: &ssid})
	if open.Password != "" {
		t.Errorf("Password = %q, want empty for an open network", open.Password)
	}
}

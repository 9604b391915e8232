package protocol

import (
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
)

// MessageType identifies the payload carried by an Envelope
type MessageType string

const (
	TypeWifiScanRequest       MessageType = "wifi_scan_request"
	TypeWifiNetworks          MessageType = "wifi_networks"
	TypeTrackersRequest       MessageType = "trackers_request"
	TypeTrackers              MessageType = "trackers"
	TypeWifiCredentials       MessageType = "wifi_credentials"
	TypeWifiCredentialsResult MessageType = "wifi_credentials_result"
	TypeError                 MessageType = "error"
)

// Envelope is the JSON text frame exchanged with the tracking hub.
// Requests carry a fresh ID; responses echo it. Pushes have an empty ID.
type Envelope struct {
	Type    MessageType     `json:"type"`
	ID      string          `json:"id,omitempty"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// WifiNetworksPayload lists scanned networks in the hub's discovery order
type WifiNetworksPayload struct {
	Networks []NetworkInfo `json:"networks"`
}

// NetworkInfo is one scanned network
type NetworkInfo struct {
	SSID string `json:"ssid"`
	RSSI int    `json:"rssi,omitempty"`
}

// TrackersPayload lists the tracking units connected to the hub
type TrackersPayload struct {
	Trackers []TrackerInfo `json:"trackers"`
}

// TrackerInfo describes a connected tracking unit
type TrackerInfo struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	IMUType string `json:"imu_type"`
}

// WifiCredentialsPayload asks the hub to provision Wi-Fi on its units.
// An empty Password means an open network.
type WifiCredentialsPayload struct {
	SSID     string `json:"ssid"`
	Password string `json:"password,omitempty"`
}

// WifiCredentialsResultPayload reports whether provisioning succeeded
type WifiCredentialsResultPayload struct {
	OK    bool   `json:"ok"`
	Error string `json:"error,omitempty"`
}

// ErrorPayload reports a request the hub could not process
type ErrorPayload struct {
	Message string `json:"message"`
}

// NewRequest builds an envelope with a fresh correlation ID
func NewRequest(t MessageType, payload any) (*Envelope, error) {
	env, err := NewPush(t, payload)
	if err != nil {
		return nil, err
	}
	env.ID = uuid.NewString()
	return env, nil
}

// NewPush builds an envelope without correlation ID
func NewPush(t MessageType, payload any) (*Envelope, error) {
	env := &Envelope{Type: t}
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal %s payload: %w", t, err)
		}
		env.Payload = raw
	}
	return env, nil
}

// NewResponse builds a reply to req carrying payload
func NewResponse(req *Envelope, t MessageType, payload any) (*Envelope, error) {
	env, err := NewPush(t, payload)
	if err != nil {
		return nil, err
	}
	env.ID = req.ID
	return env, nil
}

// Decode unmarshals the envelope payload into v
func (e *Envelope) Decode(v any) error {
	if len(e.Payload) == 0 {
		return fmt.Errorf("%s message has no payload", e.Type)
	}
	if err := json.Unmarshal(e.Payload, v); err != nil {
		return fmt.Errorf("failed to decode %s payload: %w", e.Type, err)
	}
	return nil
}

// Parse decodes a text frame into an envelope
func Parse(data []byte) (*Envelope, error) {
	var env Envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("malformed hub message: %w", err)
	}
	if env.Type == "" {
		return nil, fmt.Errorf("hub message has no type")
	}
	return &env, nil
}

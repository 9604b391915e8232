package hub

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/muurk/trackersetup/internal/onboarding"
	"github.com/muurk/trackersetup/internal/protocol"
)

// Fixture describes what the simulated hub reports and how it answers
type Fixture struct {
	Networks    []protocol.NetworkInfo `yaml:"networks"`
	Trackers    []protocol.TrackerInfo `yaml:"trackers"`
	Credentials CredentialPolicy       `yaml:"credentials"`

	// ScanDelay simulates the time a Wi-Fi scan takes
	ScanDelay time.Duration `yaml:"scan_delay"`

	// RescanInterval, when non-zero, pushes the network list periodically
	RescanInterval time.Duration `yaml:"rescan_interval"`
}

// CredentialPolicy decides which credentials the hub accepts
type CredentialPolicy struct {
	// Known maps SSIDs to their passwords. An SSID missing from Known is
	// accepted with any password; an empty map accepts everything.
	Known map[string]string `yaml:"known"`

	// RejectAll makes every submission fail with RejectMessage
	RejectAll     bool   `yaml:"reject_all"`
	RejectMessage string `yaml:"reject_message"`
}

// DefaultFixture is used when no fixture file is given
func DefaultFixture() *Fixture {
	return &Fixture{
		Networks: []protocol.NetworkInfo{
			{SSID: "Home", RSSI: -42},
			{SSID: "Office", RSSI: -67},
		},
		Trackers: []protocol.TrackerInfo{
			{ID: "tracker-0", Name: "Chest", IMUType: "BNO085"},
			{ID: "tracker-1", Name: "Left Thigh", IMUType: "BMI160"},
		},
		ScanDelay: 300 * time.Millisecond,
	}
}

// LoadFixture reads a YAML fixture file
func LoadFixture(path string) (*Fixture, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read fixture: %w", err)
	}
	var f Fixture
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse fixture: %w", err)
	}
	return &f, nil
}

// Check applies the credential policy to a submission
func (p CredentialPolicy) Check(c protocol.WifiCredentialsPayload) error {
	if p.RejectAll {
		msg := p.RejectMessage
		if msg == "" {
			msg = "network rejected the credentials"
		}
		return fmt.Errorf("%s", msg)
	}
	if c.SSID == "" {
		return fmt.Errorf("ssid is required")
	}
	// Units run the same password rule as the wizard
	if err := onboarding.ValidatePassword(c.Password); err != nil {
		return err
	}
	if want, ok := p.Known[c.SSID]; ok && want != c.Password {
		return fmt.Errorf("wrong password for %q", c.SSID)
	}
	return nil
}

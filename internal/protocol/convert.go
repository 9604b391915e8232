package protocol

import "github.com/muurk/trackersetup/internal/onboarding"

// ToNetworks converts scanned networks to the onboarding model.
// RSSI is not part of the model and is dropped.
func (p WifiNetworksPayload) ToNetworks() []onboarding.WirelessNetwork {
	out := make([]onboarding.WirelessNetwork, 0, len(p.Networks))
	for _, n := range p.Networks {
		out = append(out, onboarding.WirelessNetwork{SSID: n.SSID})
	}
	return out
}

// ToUnits converts tracker descriptions to the onboarding model
func (p TrackersPayload) ToUnits() []onboarding.TrackingUnit {
	out := make([]onboarding.TrackingUnit, 0, len(p.Trackers))
	for _, t := range p.Trackers {
		out = append(out, onboarding.TrackingUnit{
			ID:   t.ID,
			Name: t.Name,
			IMU:  onboarding.ParseIMUType(t.IMUType),
		})
	}
	return out
}

// CredentialsFromSelection resolves a form selection into the wire payload
func CredentialsFromSelection(sel onboarding.CredentialSelection) WifiCredentialsPayload {
	return WifiCredentialsPayload{
		SSID:     sel.EffectiveSSID(),
		Password: sel.EffectivePassword(),
	}
}

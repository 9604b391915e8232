package config

import (
	"net/url"
	"slices"
	"time"
)

// CurrentVersion is the registry file format version
const CurrentVersion = 1

// MaxRememberedNetworks bounds the remembered network list
const MaxRememberedNetworks = 10

// Registry represents the entire user configuration file.
// It stores hubs the wizard has talked to, network names the user has
// provisioned, and application preferences.
type Registry struct {
	Version     int                 `yaml:"version"`
	Hubs        map[string]*HubMeta `yaml:"hubs,omitempty"` // See HubKey
	Networks    []*NetworkMeta      `yaml:"networks,omitempty"`
	Preferences *Preferences        `yaml:"preferences,omitempty"`
}

// HubMeta represents what we remember about a tracking hub
type HubMeta struct {
	Nickname string    `yaml:"nickname,omitempty"`  // User-friendly name
	LastURL  string    `yaml:"last_url,omitempty"`  // Last WebSocket URL used
	LastSeen time.Time `yaml:"last_seen,omitempty"` // Last discovery/connection time
}

// NetworkMeta records a network name that was successfully provisioned.
// The password is never stored.
type NetworkMeta struct {
	SSID     string    `yaml:"ssid"`
	LastUsed time.Time `yaml:"last_used,omitempty"`
}

// Preferences represents application-wide user preferences.
type Preferences struct {
	Language        string `yaml:"language,omitempty"`  // UI language tag (e.g. "en", "de")
	HubURL          string `yaml:"hub_url,omitempty"`   // Fixed hub address; skips discovery when set
	AutoDiscover    bool   `yaml:"auto_discover"`       // Enable mDNS hub discovery on startup
	DiscoverTimeout int    `yaml:"discover_timeout"`    // mDNS discovery timeout in seconds
	LogLevel        string `yaml:"log_level,omitempty"` // zap level for the wizard log file
	LogFile         string `yaml:"log_file,omitempty"`  // Where the wizard writes its log
}

func defaultPreferences() *Preferences {
	return &Preferences{
		Language:        "en",
		AutoDiscover:    true,
		DiscoverTimeout: 5,
	}
}

// NewRegistry creates a new Registry with default values.
func NewRegistry() *Registry {
	return &Registry{
		Version:     CurrentVersion,
		Hubs:        make(map[string]*HubMeta),
		Preferences: defaultPreferences(),
	}
}

// GetHub retrieves hub metadata by name.
// Returns nil if the hub doesn't exist in the registry.
func (r *Registry) GetHub(name string) *HubMeta {
	return r.Hubs[name]
}

// EnsureHub ensures a hub entry exists in the registry.
func (r *Registry) EnsureHub(name string) *HubMeta {
	if r.Hubs == nil {
		r.Hubs = make(map[string]*HubMeta)
	}

	if hub, exists := r.Hubs[name]; exists {
		return hub
	}

	hub := &HubMeta{}
	r.Hubs[name] = hub
	return hub
}

// HubKey is the registry key of a hub known only by its address: the
// host:port of its URL. Hubs found by mDNS are keyed by instance name instead.
func HubKey(hubURL string) string {
	u, err := url.Parse(hubURL)
	if err != nil || u.Host == "" {
		return hubURL
	}
	return u.Host
}

// UpdateHubLastSeen records a named sighting of a hub at hubURL. An entry
// stored earlier under HubKey(hubURL) for the same address is folded into
// name, so a hub never appears twice.
func (r *Registry) UpdateHubLastSeen(name, hubURL string) {
	if anon := HubKey(hubURL); anon != name {
		if old, ok := r.Hubs[anon]; ok && old.LastURL == hubURL {
			delete(r.Hubs, anon)
			if hub := r.EnsureHub(name); hub.Nickname == "" {
				hub.Nickname = old.Nickname
			}
		}
	}
	hub := r.EnsureHub(name)
	hub.LastSeen = time.Now()
	hub.LastURL = hubURL
}

// RecordConnection marks the hub at hubURL as just used and returns its key.
// A hub already known by name at that address keeps its name; otherwise the
// entry is HubKey(hubURL).
func (r *Registry) RecordConnection(hubURL string) string {
	anon := HubKey(hubURL)
	name := anon
	for n, hub := range r.Hubs {
		if n != anon && hub.LastURL == hubURL && (name == anon || n < name) {
			name = n
		}
	}
	r.UpdateHubLastSeen(name, hubURL)
	return name
}

// SetHubNickname sets a user-friendly nickname for a hub.
func (r *Registry) SetHubNickname(name, nickname string) {
	r.EnsureHub(name).Nickname = nickname
}

// LastHub returns the most recently seen hub, or "" and nil if none is known.
func (r *Registry) LastHub() (string, *HubMeta) {
	var (
		bestName string
		best     *HubMeta
	)
	for name, hub := range r.Hubs {
		if best == nil || hub.LastSeen.After(best.LastSeen) ||
			(hub.LastSeen.Equal(best.LastSeen) && name < bestName) {
			bestName, best = name, hub
		}
	}
	return bestName, best
}

// RememberNetwork moves ssid to the front of the remembered list.
// Empty names are ignored and the list is capped at MaxRememberedNetworks.
func (r *Registry) RememberNetwork(ssid string) {
	if ssid == "" {
		return
	}
	r.Networks = slices.DeleteFunc(r.Networks, func(n *NetworkMeta) bool {
		return n.SSID == ssid
	})
	r.Networks = append([]*NetworkMeta{{SSID: ssid, LastUsed: time.Now()}}, r.Networks...)
	if len(r.Networks) > MaxRememberedNetworks {
		r.Networks = r.Networks[:MaxRememberedNetworks]
	}
}

// RememberedSSIDs returns the remembered network names, most recent first.
func (r *Registry) RememberedSSIDs() []string {
	out := make([]string, 0, len(r.Networks))
	for _, n := range r.Networks {
		out = append(out, n.SSID)
	}
	return out
}

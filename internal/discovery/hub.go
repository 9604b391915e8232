package discovery

import (
	"fmt"
	"net"
	"strconv"
	"time"
)

// DefaultPath is the WebSocket endpoint used when a hub advertises no "path" record
const DefaultPath = "/ws"

// Hub represents a tracking hub discovered on the network
type Hub struct {
	// Name is the mDNS instance name (e.g., "Tracking Hub on studio-pc")
	Name string

	// Hostname is the mDNS hostname (e.g., "studio-pc.local.")
	Hostname string

	// IP is the address to connect to (IPv4 preferred)
	IP string

	// Port is the WebSocket port
	Port int

	// Metadata contains the mDNS TXT record data
	// Common fields: "path=/ws", "version=v0.4.0"
	Metadata map[string]string

	// DiscoveredAt is when the hub was discovered
	DiscoveredAt time.Time
}

// String returns a human-readable string representation of the hub
func (h *Hub) String() string {
	return fmt.Sprintf("%s (%s) at %s", h.Name, h.Hostname, net.JoinHostPort(h.IP, strconv.Itoa(h.Port)))
}

// WebSocketURL returns the address the wizard dials
func (h *Hub) WebSocketURL() string {
	path := h.GetMetadata("path")
	if path == "" {
		path = DefaultPath
	}
	return fmt.Sprintf("ws://%s%s", net.JoinHostPort(h.IP, strconv.Itoa(h.Port)), path)
}

// GetMetadata retrieves a metadata value by key, or returns empty string if not found
func (h *Hub) GetMetadata(key string) string {
	if h.Metadata == nil {
		return ""
	}
	return h.Metadata[key]
}

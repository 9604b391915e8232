package discovery

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/grandcat/zeroconf"
)

const (
	// ServiceType is the mDNS service type tracking hubs advertise
	ServiceType = "_trackhub._tcp"

	// ServiceDomain is the mDNS domain (typically "local.")
	ServiceDomain = "local."

	// DefaultScanTimeout is the default timeout for hub discovery
	DefaultScanTimeout = 5 * time.Second

	// DefaultPort is the port assumed when an entry carries none
	DefaultPort = 21110
)

// Scanner handles mDNS hub discovery
type Scanner struct {
	// Timeout is the maximum time to wait for hub discovery
	Timeout time.Duration
}

// NewScanner creates a new mDNS scanner with default settings
func NewScanner() *Scanner {
	return &Scanner{
		Timeout: DefaultScanTimeout,
	}
}

// ScanForHubs discovers all tracking hubs on the local network
func (s *Scanner) ScanForHubs() ([]*Hub, error) {
	return s.ScanForHubsWithContext(context.Background())
}

// ScanForHubsWithContext collects every hub that answers before the timeout,
// one entry per WebSocket URL.
func (s *Scanner) ScanForHubsWithContext(ctx context.Context) ([]*Hub, error) {
	ctx, cancel := context.WithTimeout(ctx, s.Timeout)
	defer cancel()

	var (
		mu   sync.Mutex
		hubs []*Hub
		seen = map[string]bool{}
	)
	done, err := browse(ctx, func(hub *Hub) {
		mu.Lock()
		defer mu.Unlock()
		if key := hub.WebSocketURL(); !seen[key] {
			seen[key] = true
			hubs = append(hubs, hub)
		}
	})
	if err != nil {
		return nil, err
	}

	<-ctx.Done()
	select {
	case <-done:
	case <-time.After(time.Second):
	}

	mu.Lock()
	defer mu.Unlock()
	return hubs, nil
}

// FirstHub returns the first hub to answer.
func (s *Scanner) FirstHub(ctx context.Context) (*Hub, error) {
	ctx, cancel := context.WithTimeout(ctx, s.Timeout)
	defer cancel()

	found := make(chan *Hub, 1)
	if _, err := browse(ctx, func(hub *Hub) {
		select {
		case found <- hub:
		default:
		}
		cancel()
	}); err != nil {
		return nil, err
	}

	select {
	case hub := <-found:
		return hub, nil
	case <-ctx.Done():
	}
	select {
	case hub := <-found:
		return hub, nil
	default:
		return nil, fmt.Errorf("no tracking hub found within %s", s.Timeout)
	}
}

// browse starts an mDNS browse for ServiceType and calls onHub for each entry
// with a usable address. The returned channel closes once the resolver has
// delivered its last entry, which happens after ctx ends.
func browse(ctx context.Context, onHub func(*Hub)) (<-chan struct{}, error) {
	resolver, err := zeroconf.NewResolver(nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create mDNS resolver: %w", err)
	}

	entries := make(chan *zeroconf.ServiceEntry)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for entry := range entries {
			if hub := parseServiceEntry(entry); hub != nil {
				onHub(hub)
			}
		}
	}()

	if err := resolver.Browse(ctx, ServiceType, ServiceDomain, entries); err != nil {
		return nil, fmt.Errorf("failed to browse for mDNS services: %w", err)
	}
	return done, nil
}

// parseServiceEntry converts a zeroconf service entry to a Hub.
// Returns nil if the entry has no usable address.
func parseServiceEntry(entry *zeroconf.ServiceEntry) *Hub {
	if entry == nil {
		return nil
	}

	var ip string
	switch {
	case len(entry.AddrIPv4) > 0:
		ip = entry.AddrIPv4[0].String()
	case len(entry.AddrIPv6) > 0:
		ip = entry.AddrIPv6[0].String()
	default:
		return nil
	}

	port := entry.Port
	if port == 0 {
		port = DefaultPort
	}

	metadata := make(map[string]string, len(entry.Text))
	for _, txt := range entry.Text {
		key, value, _ := strings.Cut(txt, "=")
		metadata[key] = value
	}

	return &Hub{
		Name:         entry.Instance,
		Hostname:     entry.HostName,
		IP:           ip,
		Port:         port,
		Metadata:     metadata,
		DiscoveredAt: time.Now(),
	}
}

// ScanForHubs is a convenience function to scan with a custom timeout
func ScanForHubs(timeout time.Duration) ([]*Hub, error) {
	scanner := NewScanner()
	scanner.Timeout = timeout
	return scanner.ScanForHubs()
}

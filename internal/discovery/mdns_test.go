package discovery

import (
	"net"
	"testing"

	"github.com/grandcat/zeroconf"
)

func entry(instance, host string, port int, v4, v6 []net.IP, txt []string) *zeroconf.ServiceEntry {
	return &zeroconf.ServiceEntry{
		ServiceRecord: zeroconf.ServiceRecord{Instance: instance},
		HostName:      host,
		Port:          port,
		AddrIPv4:      v4,
		AddrIPv6:      v6,
		Text:          txt,
	}
}

func TestParseServiceEntry(t *testing.T) {
	tests := []struct {
		name     string
		entry    *zeroconf.ServiceEntry
		wantNil  bool
		wantIP   string
		wantPort int
		wantPath string
	}{
		{
			name:     "IPv4 hub with path record",
			entry:    entry("Hub", "studio.local.", 21110, []net.IP{net.ParseIP("192.168.1.20")}, nil, []string{"path=/ws", "version=v1"}),
			wantIP:   "192.168.1.20",
			wantPort: 21110,
			wantPath: "/ws",
		},
		{
			name:     "no port falls back to default",
			entry:    entry("Hub", "studio.local.", 0, []net.IP{net.ParseIP("10.0.0.5")}, nil, nil),
			wantIP:   "10.0.0.5",
			wantPort: DefaultPort,
		},
		{
			name:     "IPv6 only",
			entry:    entry("Hub", "studio.local.", 9000, nil, []net.IP{net.ParseIP("fe80::1")}, nil),
			wantIP:   "fe80::1",
			wantPort: 9000,
		},
		{
			name:     "prefers IPv4 over IPv6",
			entry:    entry("Hub", "studio.local.", 9000, []net.IP{net.ParseIP("192.168.1.50")}, []net.IP{net.ParseIP("fe80::2")}, nil),
			wantIP:   "192.168.1.50",
			wantPort: 9000,
		},
		{
			name:    "no address",
			entry:   entry("Hub", "studio.local.", 9000, nil, nil, nil),
			wantNil: true,
		},
		{
			name:    "nil entry",
			entry:   nil,
			wantNil: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hub := parseServiceEntry(tt.entry)
			if tt.wantNil {
				if hub != nil {
					t.Errorf("parseServiceEntry() = %v, want nil", hub)
				}
				return
			}
			if hub == nil {
				t.Fatal("parseServiceEntry() = nil, want hub")
			}
			if hub.IP != tt.wantIP {
				t.Errorf("IP = %v, want %v", hub.IP, tt.wantIP)
			}
			if hub.Port != tt.wantPort {
				t.Errorf("Port = %v, want %v", hub.Port, tt.wantPort)
			}
			if got := hub.GetMetadata("path"); got != tt.wantPath {
				t.Errorf("path metadata = %q, want %q", got, tt.wantPath)
			}
			if hub.DiscoveredAt.IsZero() {
				t.Error("DiscoveredAt should be set")
			}
		})
	}
}

func TestParseServiceEntry_MetadataWithoutValue(t *testing.T) {
	hub := parseServiceEntry(entry("Hub", "h.local.", 1, []net.IP{net.ParseIP("10.0.0.1")}, nil, []string{"beta", "a=b=c"}))
	if v, ok := hub.Metadata["beta"]; !ok || v != "" {
		t.Errorf(`Metadata["beta"] = %q, %v; want "", true`, v, ok)
	}
	if got := hub.Metadata["a"]; got != "b=c" {
		t.Errorf(`Metadata["a"] = %q, want "b=c"`, got)
	}
}

func TestHub_WebSocketURL(t *testing.T) {
	tests := []struct {
		name string
		hub  *Hub
		want string
	}{
		{
			name: "default path",
			hub:  &Hub{IP: "192.168.1.20", Port: 21110},
			want: "ws://192.168.1.20:21110/ws",
		},
		{
			name: "advertised path",
			hub:  &Hub{IP: "10.0.0.5", Port: 8080, Metadata: map[string]string{"path": "/hub"}},
			want: "ws://10.0.0.5:8080/hub",
		},
		{
			name: "IPv6 address is bracketed",
			hub:  &Hub{IP: "fe80::1", Port: 9000},
			want: "ws://[fe80::1]:9000/ws",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.hub.WebSocketURL(); got != tt.want {
				t.Errorf("WebSocketURL() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestHub_String(t *testing.T) {
	hub := &Hub{Name: "Hub", Hostname: "studio.local.", IP: "192.168.1.20", Port: 21110}
	want := "Hub (studio.local.) at 192.168.1.20:21110"
	if got := hub.String(); got != want {
		t.Errorf("Hub.String() = %v, want %v", got, want)
	}
}

func TestNewScanner(t *testing.T) {
	if s := NewScanner(); s.Timeout != DefaultScanTimeout {
		t.Errorf("NewScanner().Timeout = %v, want %v", s.Timeout, DefaultScanTimeout)
	}
}

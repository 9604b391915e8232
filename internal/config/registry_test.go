package config

import (
	"os"
	"path/filepath"
	"runtime"
	"slices"
	"strings"
	"testing"
	"time"
)

func TestDir(t *testing.T) {
	t.Setenv(DirEnv, "")
	dir, err := Dir()
	if err != nil {
		t.Skipf("no user config directory: %v", err)
	}
	if filepath.Base(dir) != "trackersetup" {
		t.Errorf("Dir() = %v, want a trackersetup directory", dir)
	}
}

func TestDir_Override(t *testing.T) {
	want := t.TempDir()
	t.Setenv(DirEnv, want)

	got, err := Dir()
	if err != nil {
		t.Fatalf("Dir() error = %v", err)
	}
	if got != want {
		t.Errorf("Dir() = %v, want %v", got, want)
	}
	path, err := Path()
	if err != nil {
		t.Fatalf("Path() error = %v", err)
	}
	if path != filepath.Join(want, "config.yaml") {
		t.Errorf("Path() = %v", path)
	}
}

func TestDir_XDG(t *testing.T) {
	if runtime.GOOS == "windows" || runtime.GOOS == "darwin" || runtime.GOOS == "ios" || runtime.GOOS == "plan9" {
		t.Skip("XDG_CONFIG_HOME only applies on Unix-like systems")
	}
	t.Setenv(DirEnv, "")
	xdg := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", xdg)

	got, err := Dir()
	if err != nil {
		t.Fatalf("Dir() error = %v", err)
	}
	if want := filepath.Join(xdg, "trackersetup"); got != want {
		t.Errorf("Dir() = %v, want %v", got, want)
	}
}

func TestNewRegistry(t *testing.T) {
	reg := NewRegistry()

	if reg.Version != CurrentVersion {
		t.Errorf("NewRegistry().Version = %v, want %v", reg.Version, CurrentVersion)
	}
	if reg.Hubs == nil {
		t.Error("NewRegistry().Hubs should not be nil")
	}
	if reg.Preferences == nil {
		t.Fatal("NewRegistry().Preferences should not be nil")
	}
	if !reg.Preferences.AutoDiscover {
		t.Error("NewRegistry().Preferences.AutoDiscover should be true by default")
	}
	if reg.Preferences.DiscoverTimeout != 5 {
		t.Errorf("NewRegistry().Preferences.DiscoverTimeout = %v, want 5", reg.Preferences.DiscoverTimeout)
	}
	if reg.Preferences.Language != "en" {
		t.Errorf("NewRegistry().Preferences.Language = %v, want en", reg.Preferences.Language)
	}
}

func TestRegistryEnsureHub(t *testing.T) {
	reg := NewRegistry()

	hub1 := reg.EnsureHub("studio")
	if hub1 == nil {
		t.Fatal("EnsureHub() returned nil")
	}

	if hub2 := reg.EnsureHub("studio"); hub1 != hub2 {
		t.Error("EnsureHub() should return same instance for same name")
	}

	if hub3 := reg.EnsureHub("office"); hub1 == hub3 {
		t.Error("EnsureHub() should create new instance for different name")
	}
}

func TestRegistryUpdateHubLastSeen(t *testing.T) {
	reg := NewRegistry()

	before := time.Now()
	reg.UpdateHubLastSeen("studio", "ws://192.168.1.20:21110/ws")
	after := time.Now()

	hub := reg.GetHub("studio")
	if hub == nil {
		t.Fatal("Hub should exist after UpdateHubLastSeen()")
	}
	if hub.LastURL != "ws://192.168.1.20:21110/ws" {
		t.Errorf("LastURL = %v, want ws://192.168.1.20:21110/ws", hub.LastURL)
	}
	if hub.LastSeen.Before(before) || hub.LastSeen.After(after) {
		t.Errorf("LastSeen = %v, should be between %v and %v", hub.LastSeen, before, after)
	}
}

func TestHubKey(t *testing.T) {
	tests := []struct {
		url  string
		want string
	}{
		{"ws://192.168.1.20:21110/ws", "192.168.1.20:21110"},
		{"ws://[fe80::1]:21110/ws", "[fe80::1]:21110"},
		{"not a url", "not a url"},
	}
	for _, tt := range tests {
		if got := HubKey(tt.url); got != tt.want {
			t.Errorf("HubKey(%q) = %v, want %v", tt.url, got, tt.want)
		}
	}
}

func TestRegistryOneEntryPerHub(t *testing.T) {
	const (
		name = "Tracking Hub on studio"
		url  = "ws://192.168.1.20:21110/ws"
	)

	tests := []struct {
		name string
		run  func(reg *Registry)
	}{
		{
			name: "scan then connect",
			run: func(reg *Registry) {
				reg.UpdateHubLastSeen(name, url)
				reg.RecordConnection(url)
			},
		},
		{
			name: "connect then scan",
			run: func(reg *Registry) {
				reg.RecordConnection(url)
				reg.UpdateHubLastSeen(name, url)
			},
		},
		{
			name: "discover, connect, reconnect",
			run: func(reg *Registry) {
				reg.UpdateHubLastSeen(name, url)
				reg.RecordConnection(url)
				reg.RecordConnection(url)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reg := NewRegistry()
			tt.run(reg)
			if len(reg.Hubs) != 1 {
				t.Fatalf("Hubs = %v, want one entry", reg.Hubs)
			}
			if reg.GetHub(name) == nil {
				t.Errorf("Hubs = %v, want the entry under %q", reg.Hubs, name)
			}
			if got, _ := reg.LastHub(); got != name {
				t.Errorf("LastHub() = %q, want %q", got, name)
			}
		})
	}
}

func TestRegistryRecordConnection_NewHub(t *testing.T) {
	reg := NewRegistry()
	if got := reg.RecordConnection("ws://10.0.0.5:8080/hub"); got != "10.0.0.5:8080" {
		t.Errorf("RecordConnection() = %q, want %q", got, "10.0.0.5:8080")
	}
	if hub := reg.GetHub("10.0.0.5:8080"); hub == nil || hub.LastURL != "ws://10.0.0.5:8080/hub" {
		t.Errorf("GetHub() = %v, want the new entry", hub)
	}
}

func TestRegistryUpdateHubLastSeen_KeepsNickname(t *testing.T) {
	reg := NewRegistry()
	key := reg.RecordConnection("ws://192.168.1.20:21110/ws")
	reg.SetHubNickname(key, "Studio PC")

	reg.UpdateHubLastSeen("Tracking Hub on studio", "ws://192.168.1.20:21110/ws")
	if hub := reg.GetHub("Tracking Hub on studio"); hub == nil || hub.Nickname != "Studio PC" {
		t.Errorf("GetHub() = %v, want the nickname carried over", hub)
	}
	if reg.GetHub(key) != nil {
		t.Errorf("address entry %q should be folded into the named one", key)
	}
}

func TestRegistryLastHub(t *testing.T) {
	reg := NewRegistry()
	if name, hub := reg.LastHub(); name != "" || hub != nil {
		t.Errorf("LastHub() on empty registry = %q, %v; want \"\", nil", name, hub)
	}

	now := time.Now()
	reg.Hubs["old"] = &HubMeta{LastURL: "ws://a/ws", LastSeen: now.Add(-time.Hour)}
	reg.Hubs["new"] = &HubMeta{LastURL: "ws://b/ws", LastSeen: now}

	name, hub := reg.LastHub()
	if name != "new" || hub.LastURL != "ws://b/ws" {
		t.Errorf("LastHub() = %q, %v; want new", name, hub)
	}
}

func TestRegistryRememberNetwork(t *testing.T) {
	reg := NewRegistry()

	reg.RememberNetwork("Home")
	reg.RememberNetwork("Office")
	reg.RememberNetwork("")
	reg.RememberNetwork("Home")

	want := []string{"Home", "Office"}
	if got := reg.RememberedSSIDs(); !slices.Equal(got, want) {
		t.Errorf("RememberedSSIDs() = %v, want %v", got, want)
	}

	for i := 0; i < MaxRememberedNetworks+5; i++ {
		reg.RememberNetwork(strings.Repeat("n", i+1))
	}
	if got := len(reg.Networks); got != MaxRememberedNetworks {
		t.Errorf("len(Networks) = %v, want %v", got, MaxRememberedNetworks)
	}
}

func TestRegistrySaveAndLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	reg := NewRegistry()
	reg.SetHubNickname("studio", "Studio PC")
	reg.UpdateHubLastSeen("studio", "ws://192.168.1.20:21110/ws")
	reg.RememberNetwork("Garage")
	reg.Preferences.Language = "de"

	if err := reg.SaveTo(path); err != nil {
		t.Fatalf("SaveTo() error = %v", err)
	}

	if _, err := os.Stat(path + ".tmp"); !os.IsNotExist(err) {
		t.Error("temporary file should not remain after SaveTo()")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	if !strings.HasPrefix(string(data), "# Tracker Setup Configuration File") {
		t.Error("saved file should start with the header comment")
	}

	loaded, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom() error = %v", err)
	}

	hub := loaded.GetHub("studio")
	if hub == nil {
		t.Fatal("Hub should exist in loaded registry")
	}
	if hub.Nickname != "Studio PC" {
		t.Errorf("Loaded nickname = %v, want 'Studio PC'", hub.Nickname)
	}
	if got := loaded.RememberedSSIDs(); !slices.Equal(got, []string{"Garage"}) {
		t.Errorf("Loaded networks = %v, want [Garage]", got)
	}
	if loaded.Preferences.Language != "de" {
		t.Errorf("Loaded language = %v, want de", loaded.Preferences.Language)
	}
}

func TestLoadFrom(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name    string
		content string
		wantErr bool
	}{
		{
			name:    "minimal file gets defaults",
			content: "version: 1\n",
		},
		{
			name:    "unsupported version",
			content: "version: 2\n",
			wantErr: true,
		},
		{
			name:    "malformed yaml",
			content: "version: [1\n",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(dir, strings.ReplaceAll(tt.name, " ", "_")+".yaml")
			if err := os.WriteFile(path, []byte(tt.content), 0600); err != nil {
				t.Fatal(err)
			}
			reg, err := LoadFrom(path)
			if (err != nil) != tt.wantErr {
				t.Fatalf("LoadFrom() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			if reg.Hubs == nil || reg.Preferences == nil {
				t.Error("LoadFrom() should initialize Hubs and Preferences")
			}
		})
	}
}

func TestLoadFrom_PartialPreferences(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := "version: 1\npreferences:\n  language: de\n"
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}

	reg, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom() error = %v", err)
	}
	prefs := reg.Preferences
	if prefs.Language != "de" {
		t.Errorf("Language = %v, want de", prefs.Language)
	}
	if !prefs.AutoDiscover {
		t.Error("AutoDiscover = false, want the default when the key is missing")
	}
	if prefs.DiscoverTimeout != 5 {
		t.Errorf("DiscoverTimeout = %d, want the default 5", prefs.DiscoverTimeout)
	}
}

func TestLoadFrom_ExplicitAutoDiscoverOff(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := "version: 1\npreferences:\n  auto_discover: false\n"
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}

	reg, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom() error = %v", err)
	}
	if reg.Preferences.AutoDiscover {
		t.Error("AutoDiscover = true, want the explicit false kept")
	}
}

func TestLoadFrom_MissingFile(t *testing.T) {
	reg, err := LoadFrom(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("LoadFrom() error = %v", err)
	}
	if reg.Version != CurrentVersion {
		t.Errorf("Version = %v, want %v", reg.Version, CurrentVersion)
	}
}

func TestSavedFileHasNoPassword(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	reg := NewRegistry()
	reg.RememberNetwork("Home")
	if err := reg.SaveTo(path); err != nil {
		t.Fatal(err)
	}
	data, _ := os.ReadFile(path)
	if strings.Contains(string(data), "password:") {
		t.Errorf("config file should not contain a password field:\n%s", data)
	}
}

func BenchmarkRememberNetwork(b *testing.B) {
	reg := NewRegistry()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		reg.RememberNetwork("Home")
	}
}

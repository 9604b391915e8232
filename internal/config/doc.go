// Package config manages the user configuration file of the setup wizard.
//
// The YAML registry remembers tracking hubs the wizard has connected to, the
// names of networks that were provisioned, and application preferences such
// as the UI language and a fixed hub address.
//
// # Configuration File Location
//
// config.yaml lives in "trackersetup" under os.UserConfigDir
// ($XDG_CONFIG_HOME or ~/.config on Linux). Set TRACKERSETUP_CONFIG_DIR to
// use another directory.
//
// # Security
//
// IMPORTANT: Wi-Fi passwords are NEVER stored. Only network names are
// remembered, so the wizard can put them first in its list.
//
// # Usage Example
//
//	registry, err := config.LoadRegistry()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	registry.UpdateHubLastSeen("Tracking Hub on studio", "ws://192.168.1.20:21110/ws")
//	registry.RememberNetwork("Home")
//	if err := registry.Save(); err != nil {
//	    log.Fatal(err)
//	}
//
// LoadRegistry loads once per process. Writes are serialized and replace the
// file atomically.
package config

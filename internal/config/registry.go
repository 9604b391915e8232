package config

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"gopkg.in/yaml.v3"
)

const (
	appDirName   = "trackersetup"
	registryFile = "config.yaml"

	// DirEnv overrides the configuration directory
	DirEnv = "TRACKERSETUP_CONFIG_DIR"
)

var (
	loadOnce  sync.Once
	loaded    *Registry
	loadErr   error
	writeLock sync.Mutex
)

const fileBanner = `# Tracker Setup Configuration File
# Hubs and network names remembered by the setup wizard.
# Wi-Fi passwords are never written here.
`

// Dir returns the directory holding the registry and the log file.
// DirEnv wins; otherwise it is "trackersetup" under os.UserConfigDir, which
// follows XDG_CONFIG_HOME on Linux.
func Dir() (string, error) {
	if dir := os.Getenv(DirEnv); dir != "" {
		return dir, nil
	}
	base, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("cannot locate user config directory: %w", err)
	}
	return filepath.Join(base, appDirName), nil
}

// Path returns the registry file path.
func Path() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, registryFile), nil
}

// LoadRegistry reads the registry at Path once per process. Later calls
// return the same instance.
func LoadRegistry() (*Registry, error) {
	loadOnce.Do(func() {
		var path string
		if path, loadErr = Path(); loadErr == nil {
			loaded, loadErr = LoadFrom(path)
		}
	})
	return loaded, loadErr
}

// LoadFrom reads a registry file. A missing file is not an error and yields
// NewRegistry().
func LoadFrom(path string) (*Registry, error) {
	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return NewRegistry(), nil
	case err != nil:
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// Defaults first, so keys missing from a hand-written file keep them
	reg := &Registry{Preferences: defaultPreferences()}
	if err := yaml.Unmarshal(data, reg); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	if reg.Version != CurrentVersion {
		return nil, fmt.Errorf("unsupported config version %d in %s (expected %d)", reg.Version, path, CurrentVersion)
	}
	if reg.Hubs == nil {
		reg.Hubs = map[string]*HubMeta{}
	}
	if reg.Preferences == nil {
		reg.Preferences = defaultPreferences()
	}
	return reg, nil
}

// Save writes the registry to Path.
func (r *Registry) Save() error {
	path, err := Path()
	if err != nil {
		return err
	}
	return r.SaveTo(path)
}

// SaveTo writes the registry to path through a temporary file and a rename,
// so a crash never leaves a truncated file. Directory and file are user-only.
func (r *Registry) SaveTo(path string) error {
	writeLock.Lock()
	defer writeLock.Unlock()

	var buf bytes.Buffer
	buf.WriteString(fileBanner + "\n")
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(r); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, buf.Bytes(), 0o600); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("failed to replace config: %w", err)
	}
	return nil
}

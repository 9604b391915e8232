package main

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/muurk/trackersetup/internal/config"
	"github.com/muurk/trackersetup/internal/i18n"
	"github.com/muurk/trackersetup/internal/logging"
)

// Flag names double as viper keys and, upper-cased, as TRACKERSETUP_* variables
const (
	flagHub             = "hub"
	flagLang            = "lang"
	flagDiscoverTimeout = "discover-timeout"
	flagLogLevel        = "log-level"
	flagLogFile         = "log-file"

	envPrefix = "trackersetup"
)

// Settings is the effective configuration of one invocation
type Settings struct {
	HubURL          string `mapstructure:"hub"`
	Language        string `mapstructure:"lang"`
	DiscoverTimeout int    `mapstructure:"discover-timeout"`
	AutoDiscover    bool   `mapstructure:"auto-discover"`
	LogLevel        string `mapstructure:"log-level"`
	LogFile         string `mapstructure:"log-file"`
}

// DiscoverDuration returns the discovery timeout as a duration
func (s *Settings) DiscoverDuration() time.Duration {
	return time.Duration(s.DiscoverTimeout) * time.Second
}

// Loaded by loadEnvironment before any command runs
var (
	settings *Settings
	registry *config.Registry
)

// resolveSettings layers flags over TRACKERSETUP_* environment variables
// over the registry preferences over built-in defaults.
func resolveSettings(cmd *cobra.Command, prefs *config.Preferences, defaultLogFile string) (*Settings, error) {
	v := viper.New()

	v.SetDefault(flagHub, "")
	v.SetDefault(flagLang, i18n.DefaultLang)
	v.SetDefault(flagDiscoverTimeout, 5)
	v.SetDefault("auto-discover", true)
	v.SetDefault(flagLogLevel, "")
	v.SetDefault(flagLogFile, defaultLogFile)

	if prefs != nil {
		// Preferences sit between defaults and the environment
		v.SetDefault("auto-discover", prefs.AutoDiscover)
		if prefs.HubURL != "" {
			v.SetDefault(flagHub, prefs.HubURL)
		}
		if prefs.Language != "" {
			v.SetDefault(flagLang, prefs.Language)
		}
		if prefs.DiscoverTimeout > 0 {
			v.SetDefault(flagDiscoverTimeout, prefs.DiscoverTimeout)
		}
		if prefs.LogLevel != "" {
			v.SetDefault(flagLogLevel, prefs.LogLevel)
		}
		if prefs.LogFile != "" {
			v.SetDefault(flagLogFile, prefs.LogFile)
		}
	}

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	for _, name := range []string{flagHub, flagLang, flagDiscoverTimeout, flagLogLevel, flagLogFile} {
		if f := cmd.Flags().Lookup(name); f != nil {
			if err := v.BindPFlag(name, f); err != nil {
				return nil, fmt.Errorf("failed to bind --%s: %w", name, err)
			}
		}
	}

	var s Settings
	if err := v.Unmarshal(&s); err != nil {
		return nil, fmt.Errorf("failed to read settings: %w", err)
	}
	if s.DiscoverTimeout <= 0 {
		s.DiscoverTimeout = 5
	}
	if !i18n.IsAvailable(s.Language) {
		return nil, fmt.Errorf("unsupported language %q (available: %s)", s.Language, strings.Join(i18n.Available(), ", "))
	}
	return &s, nil
}

// loadEnvironment reads the registry, resolves settings and starts logging
// and localization. It runs before every command.
func loadEnvironment(cmd *cobra.Command, args []string) error {
	reg, err := config.LoadRegistry()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	registry = reg

	defaultLogFile := ""
	if dir, err := config.Dir(); err == nil {
		defaultLogFile = filepath.Join(dir, "tracker-setup.log")
	}

	s, err := resolveSettings(cmd, reg.Preferences, defaultLogFile)
	if err != nil {
		return err
	}
	settings = s

	// Logs go to a file so they never draw over the wizard
	if err := logging.InitializeToFile(s.LogLevel, s.LogFile); err != nil {
		return err
	}
	if err := i18n.Init(s.Language); err != nil {
		return err
	}

	logging.Debug("Settings resolved",
		zap.String("command", cmd.CommandPath()),
		zap.String("hub", s.HubURL),
		zap.String("lang", s.Language),
		zap.Int("discover_timeout", s.DiscoverTimeout),
	)
	return nil
}

// saveRegistry persists the registry. Failures are logged, not returned.
func saveRegistry() {
	if registry == nil {
		return
	}
	if err := registry.Save(); err != nil {
		logging.Warn("Failed to save configuration", zap.Error(err))
	}
}

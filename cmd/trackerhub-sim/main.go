// Trackerhub-sim is a simulated tracking hub for developing and demoing the
// onboarding wizard without hardware.
//
// It serves the hub's WebSocket protocol from a YAML fixture: the Wi-Fi
// networks the hub "sees", the trackers connected to it, and which
// credentials it accepts. The hub can advertise itself over mDNS so that
// 'tracker-setup scan' and the wizard find it like a real one.
//
// Usage:
//
//	trackerhub-sim serve [flags]
//
// See 'trackerhub-sim serve --help' for available options.
package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/muurk/trackersetup/internal/hub"
	"github.com/muurk/trackersetup/internal/version"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "trackerhub-sim",
	Short: "Simulated Tracking Hub",
	Long: `A simulated tracking hub speaking the same WebSocket protocol as the real one.

Point the wizard at it with 'tracker-setup --hub localhost' or let it find
the hub over mDNS with --advertise.`,
	Version: version.Version,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(versionCmd)
}

// Serve command and flags
var (
	fixturePath string
	host        string
	port        int
	path        string
	name        string
	advertise   bool
	logLevel    string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the simulated hub",
	Long: `Start the simulated hub and serve until interrupted.

Without --fixture the hub reports a small built-in set of networks and
trackers and accepts any credentials. A fixture file replaces those and can
list the passwords the hub accepts per network.`,
	Example: `  # Built-in fixture on the default port
  trackerhub-sim serve

  # Custom fixture, discoverable by the wizard
  trackerhub-sim serve --fixture studio.yaml --advertise

  # Debug logging on another port
  trackerhub-sim serve --port 9000 --log-level debug`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&fixturePath, "fixture", "", "Path to a YAML fixture (built-in fixture if not specified)")
	serveCmd.Flags().StringVar(&host, "host", "", "Listen address (empty = all interfaces)")
	serveCmd.Flags().IntVar(&port, "port", hub.DefaultPort, "Listen port")
	serveCmd.Flags().StringVar(&path, "path", hub.DefaultPath, "WebSocket endpoint path")
	serveCmd.Flags().StringVar(&name, "name", "", "mDNS instance name (defaults to the host name)")
	serveCmd.Flags().BoolVar(&advertise, "advertise", false, "Advertise the hub over mDNS")
	serveCmd.Flags().StringVar(&logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
}

func runServe(cmd *cobra.Command, args []string) error {
	fixture := hub.DefaultFixture()
	if fixturePath != "" {
		f, err := hub.LoadFixture(fixturePath)
		if err != nil {
			return err
		}
		fixture = f
	}

	srv, err := hub.New(&hub.Config{
		Host:      host,
		Port:      port,
		Path:      path,
		Name:      name,
		LogLevel:  logLevel,
		Fixture:   fixture,
		Advertise: advertise,
	})
	if err != nil {
		return fmt.Errorf("failed to create hub: %w", err)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return srv.Start(ctx)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("trackerhub-sim %s (commit: %s)\n", version.Version, version.Commit)
	},
}

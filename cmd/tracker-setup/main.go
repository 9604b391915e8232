// Tracker-setup provisions Wi-Fi credentials onto motion-tracking units.
//
// It finds the tracking hub on the local network, runs the onboarding
// wizard (Wi-Fi credentials, tracker connection and the tutorials that
// follow), and offers direct commands for scripting the same steps.
//
// Usage:
//
//	tracker-setup [command] [flags]
//
// Running without arguments launches the interactive wizard.
// See 'tracker-setup --help' for available commands.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/muurk/trackersetup/internal/logging"
	"github.com/muurk/trackersetup/internal/version"
)

func main() {
	defer logging.Sync()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "tracker-setup",
	Short: "Tracker Onboarding Utility",
	Long: `Connect motion-tracking units to your wireless network.

Finds the tracking hub over mDNS, hands it the Wi-Fi credentials your
trackers should use, and walks you through connecting and calibrating them.

If no command is specified, the interactive wizard will launch automatically.`,
	Version:           version.Version,
	SilenceUsage:      true,
	PersistentPreRunE: loadEnvironment,
	RunE: func(cmd *cobra.Command, args []string) error {
		// Default behavior: run wizard when no subcommand provided
		return runWizard(cmd, args)
	},
}

func init() {
	rootCmd.CompletionOptions.DisableDefaultCmd = true

	rootCmd.PersistentFlags().String(flagHub, "", "Hub address (host, host:port or ws:// URL); skips discovery")
	rootCmd.PersistentFlags().String(flagLang, "", "Interface language (en, de)")
	rootCmd.PersistentFlags().Int(flagDiscoverTimeout, 0, "mDNS discovery timeout in seconds")
	rootCmd.PersistentFlags().String(flagLogLevel, "", "Log level (debug, info, warn, error); silent when unset")
	rootCmd.PersistentFlags().String(flagLogFile, "", "Write logs to this file")

	rootCmd.AddCommand(versionCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println(version.Product + " " + version.Full())
	},
}

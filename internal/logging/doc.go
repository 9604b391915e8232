// Package logging provides structured logging for tracker-setup.
//
// This package wraps a global zap logger with convenience functions. Logging
// is silent unless a level is passed to Initialize or TRACKERSETUP_LOG_LEVEL
// is set, so the interactive wizard and the CLI output are never interleaved
// with log lines by accident.
//
// # Log Levels
//
//   - Debug: hub message traffic, discarded feed updates
//   - Info: step transitions, connections, credential submissions
//   - Warn: rejected submissions, dropped hub connections
//   - Error: failures that end a command
//
// # Configuration
//
//	if err := logging.InitializeFromEnv(); err != nil {
//	    log.Fatal(err)
//	}
//	defer logging.Sync()
//
// Set TRACKERSETUP_LOG_FILE to redirect output while the wizard is running:
//
//	TRACKERSETUP_LOG_LEVEL=debug TRACKERSETUP_LOG_FILE=/tmp/setup.log tracker-setup
//
// # Sensitive Data
//
// LogHubMessage records message type and id only. Wi-Fi passwords never reach
// the log.
package logging

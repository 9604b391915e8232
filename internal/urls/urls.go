// Package urls holds the documentation links shown by the wizard and the CLI.
// Every link points at https://muurk.github.io/trackersetup/.
package urls

// GettingStarted is the quick start guide for new users.
const GettingStarted = "https://muurk.github.io/trackersetup/getting-started/overview/"

// WifiSetup explains which network the trackers should join
// and what to do when the hub does not list it.
const WifiSetup = "https://muurk.github.io/trackersetup/onboarding/wifi/"

// CalibrationTutorial covers calibrating trackers with a BNO08x sensor.
const CalibrationTutorial = "https://muurk.github.io/trackersetup/onboarding/calibration/"

// AssignTutorial covers assigning trackers to body parts.
const AssignTutorial = "https://muurk.github.io/trackersetup/onboarding/assignment/"

// HubDiscovery describes mDNS requirements and firewall settings
// for finding the tracking hub.
const HubDiscovery = "https://muurk.github.io/trackersetup/troubleshooting/hub-discovery/"

// TroubleshootingGuide provides solutions to common issues
// encountered while provisioning trackers.
const TroubleshootingGuide = "https://muurk.github.io/trackersetup/troubleshooting/"

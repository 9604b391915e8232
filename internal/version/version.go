// Package version reports the build version of the wizard and the simulated hub.
//
// Release builds stamp Version and Commit with ldflags:
//
//	go build -ldflags="-X github.com/muurk/trackersetup/internal/version.Version=v0.4.0 \
//	                   -X github.com/muurk/trackersetup/internal/version.Commit=abc123"
//
// Other builds take the commit and date from the VCS stamp in the build info.
package version

import (
	"fmt"
	"runtime/debug"
	"time"
)

var (
	Version = ""
	Commit  = ""
)

// Product names the client in the WebSocket handshake
const Product = "tracker-setup"

func init() {
	rev, dirty, stamped := vcsStamp()
	if Commit == "" {
		Commit = "unknown"
		if rev != "" {
			Commit = shortRevision(rev, dirty)
		}
	}
	if Version == "" {
		// build info has no tags
		if stamped.IsZero() {
			stamped = time.Now()
		}
		Version = "dev-" + stamped.Format("20060102")
	}
}

func vcsStamp() (rev string, dirty bool, at time.Time) {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return "", false, time.Time{}
	}
	for _, s := range info.Settings {
		switch s.Key {
		case "vcs.revision":
			rev = s.Value
		case "vcs.modified":
			dirty = s.Value == "true"
		case "vcs.time":
			at, _ = time.Parse(time.RFC3339, s.Value)
		}
	}
	return rev, dirty, at
}

func shortRevision(rev string, dirty bool) string {
	rev = rev[:min(len(rev), 7)]
	if dirty {
		rev += "-dirty"
	}
	return rev
}

// Full returns "<version> (commit: <commit>)".
func Full() string {
	return fmt.Sprintf("%s (commit: %s)", Version, Commit)
}

// UserAgent is sent by the hub client when dialing
func UserAgent() string {
	return Product + "/" + Version
}

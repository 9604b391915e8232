package hub

import (
	"fmt"
	"os"

	"github.com/grandcat/zeroconf"
	"go.uber.org/zap"

	"github.com/muurk/trackersetup/internal/discovery"
	"github.com/muurk/trackersetup/internal/logging"
	"github.com/muurk/trackersetup/internal/version"
)

// Advertise registers the hub on mDNS so that discovery.Scanner can find it.
// The returned function withdraws the advertisement.
func Advertise(name string, port int, path string) (func(), error) {
	if name == "" {
		host, err := os.Hostname()
		if err != nil {
			host = "hub"
		}
		name = "Tracking Hub on " + host
	}

	txt := []string{
		"path=" + path,
		"version=" + version.Version,
	}
	server, err := zeroconf.Register(name, discovery.ServiceType, discovery.ServiceDomain, port, txt, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to register mDNS service: %w", err)
	}

	logging.Info("Advertising hub on mDNS",
		zap.String("name", name),
		zap.String("service", discovery.ServiceType),
		zap.Int("port", port),
	)
	return server.Shutdown, nil
}

// Package hub implements a simulated tracking hub.
//
// The real hub is the process tracking units connect to; it scans for Wi-Fi
// networks on their behalf and provisions credentials onto them. This package
// serves the same WebSocket protocol from a YAML fixture so the wizard can be
// developed, demoed and tested without hardware.
//
// # Fixture Format
//
//	networks:
//	  - ssid: Home
//	    rssi: -42
//	  - ssid: Office
//	trackers:
//	  - id: tracker-0
//	    name: Chest
//	    imu_type: BNO085
//	credentials:
//	  known:
//	    Home: correct-horse
//	  reject_all: false
//	scan_delay: 300ms
//	rescan_interval: 10s
//
// # Usage Example
//
//	srv, err := hub.New(&hub.Config{Port: hub.DefaultPort, Advertise: true})
//	if err != nil {
//	    return err
//	}
//	return srv.Start(ctx)
//
// Tests mount Handler() on an httptest.Server instead of calling Start.
package hub

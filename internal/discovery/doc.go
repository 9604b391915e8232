// Package discovery finds tracking hubs on the local network via mDNS.
//
// Hubs advertise the "_trackhub._tcp" service. The TXT record carries the
// WebSocket path ("path=/ws") and the hub version.
//
// # Usage Example
//
//	hubs, err := discovery.ScanForHubs(5 * time.Second)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	for _, hub := range hubs {
//	    fmt.Printf("Found: %s -> %s\n", hub.Name, hub.WebSocketURL())
//	}
//
// # Network Requirements
//
// - Requires multicast support on the network interface
// - The hub must be on the same local network segment
// - Firewall must allow mDNS (UDP port 5353)
package discovery

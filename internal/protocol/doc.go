// Package protocol defines the messages exchanged between tracker-setup and
// the tracking hub.
//
// # Transport
//
// Messages are JSON text frames over a WebSocket connection. Every frame is an
// Envelope:
//
//	{"type":"wifi_credentials","id":"6f0c…","payload":{"ssid":"Home","password":"…"}}
//
// # Message Flow
//
//	client                               hub
//	  │── wifi_scan_request (id) ────────▶│
//	  │◀──────────── wifi_networks (push) │  also sent unprompted on rescans
//	  │── trackers_request (id) ─────────▶│
//	  │◀───────────────── trackers (id)   │  also pushed on (dis)connects
//	  │── wifi_credentials (id) ─────────▶│
//	  │◀── wifi_credentials_result (id) ──│
//
// Requests carry a UUID correlation id; responses echo it. Pushes carry no id.
// Unknown or malformed requests are answered with an "error" message.
package protocol

package onboarding

import (
	"slices"
	"sync"
)

// Manual-entry sentinel appended to every option list
const (
	OtherValue = "other"
	OtherLabel = "Other"
)

// WirelessNetwork is a network seen by the hub's scan
type WirelessNetwork struct {
	SSID string
}

// NetworkSnapshot is one immutable refresh of the discovered networks
type NetworkSnapshot struct {
	// Revision increases with every Publish; zero means "never published"
	Revision uint64
	Networks []WirelessNetwork
}

// Feed holds the latest list of discovered wireless networks.
// Publish may be called from any goroutine; subscribers receive the most
// recent snapshot and never block the publisher.
type Feed struct {
	mu       sync.Mutex
	snapshot NetworkSnapshot
	subs     map[chan NetworkSnapshot]struct{}
	closed   bool
}

// NewFeed creates an empty feed
func NewFeed() *Feed {
	return &Feed{
		subs: make(map[chan NetworkSnapshot]struct{}),
	}
}

// Publish replaces the discovered list. Empty SSIDs and repeated SSIDs are
// dropped; discovery order is kept.
func (f *Feed) Publish(networks []WirelessNetwork) NetworkSnapshot {
	cleaned := make([]WirelessNetwork, 0, len(networks))
	seen := make(map[string]bool, len(networks))
	for _, n := range networks {
		if n.SSID == "" || seen[n.SSID] {
			continue
		}
		seen[n.SSID] = true
		cleaned = append(cleaned, n)
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		return f.snapshot
	}

	f.snapshot = NetworkSnapshot{
		Revision: f.snapshot.Revision + 1,
		Networks: cleaned,
	}
	for ch := range f.subs {
		offerLatest(ch, f.snapshot)
	}
	return f.snapshot
}

// offerLatest replaces whatever is pending in ch with snap
func offerLatest(ch chan NetworkSnapshot, snap NetworkSnapshot) {
	select {
	case <-ch:
	default:
	}
	select {
	case ch <- snap:
	default:
	}
}

func drainAndClose(ch chan NetworkSnapshot) {
	select {
	case <-ch:
	default:
	}
	close(ch)
}

// Snapshot returns the latest published snapshot
func (f *Feed) Snapshot() NetworkSnapshot {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.snapshot
}

// Subscribe returns a channel that receives each new snapshot.
// If a snapshot was already published it is delivered immediately.
func (f *Feed) Subscribe() <-chan NetworkSnapshot {
	ch := make(chan NetworkSnapshot, 1)

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		close(ch)
		return ch
	}
	f.subs[ch] = struct{}{}
	if f.snapshot.Revision > 0 {
		ch <- f.snapshot
	}
	return ch
}

// Unsubscribe stops delivery to ch and closes it.
// Snapshots still pending in ch are dropped.
func (f *Feed) Unsubscribe(sub <-chan NetworkSnapshot) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for ch := range f.subs {
		if ch == sub {
			delete(f.subs, ch)
			drainAndClose(ch)
			return
		}
	}
}

// Close ends all subscriptions; later publishes are ignored
func (f *Feed) Close() {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		return
	}
	f.closed = true
	for ch := range f.subs {
		drainAndClose(ch)
	}
	f.subs = nil
}

// Option is a {label, value} pair for a dropdown
type Option struct {
	Label string
	Value string
}

// DeriveOptions projects the discovered networks into dropdown options:
// one per network, in discovery order, then the manual-entry sentinel.
func DeriveOptions(networks []WirelessNetwork) []Option {
	opts := make([]Option, 0, len(networks)+1)
	for _, n := range networks {
		opts = append(opts, Option{Label: n.SSID, Value: n.SSID})
	}
	return append(opts, Option{Label: OtherLabel, Value: OtherValue})
}

// OptionCache memoizes DeriveOptions on the content of its input, so that an
// unchanged network list yields the very same option slice.
type OptionCache struct {
	key            []WirelessNetwork
	options        []Option
	valid          bool
	recomputations int
}

// Options returns the options for networks, recomputing only when the list
// content differs from the previous call.
func (c *OptionCache) Options(networks []WirelessNetwork) []Option {
	if c.valid && slices.Equal(c.key, networks) {
		return c.options
	}
	c.key = slices.Clone(networks)
	c.options = DeriveOptions(networks)
	c.valid = true
	c.recomputations++
	return c.options
}

// Recomputations returns how many times the options were derived
func (c *OptionCache) Recomputations() int {
	return c.recomputations
}

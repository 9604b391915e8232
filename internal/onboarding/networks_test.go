package onboarding

import (
	"sync"
	"testing"
	"time"
)

func nets(ssids ...string) []WirelessNetwork {
	out := make([]WirelessNetwork, len(ssids))
	for i, s := range ssids {
		out[i] = WirelessNetwork{SSID: s}
	}
	return out
}

func TestDeriveOptions(t *testing.T) {
	got := DeriveOptions(nets("Home", "Office"))
	want := []Option{
		{Label: "Home", Value: "Home"},
		{Label: "Office", Value: "Office"},
		{Label: OtherLabel, Value: OtherValue},
	}
	if len(got) != len(want) {
		t.Fatalf("DeriveOptions() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("DeriveOptions()[%d] = %v, want %v", i, got[i], want[i])
		}
	}

	if got := DeriveOptions(nil); len(got) != 1 || got[0].Value != OtherValue {
		t.Errorf("DeriveOptions(nil) = %v, want only the manual-entry option", got)
	}
}

func TestOptionCache(t *testing.T) {
	var c OptionCache

	first := c.Options(nets("Home", "Office"))
	// Equal content in a fresh slice
	second := c.Options(nets("Home", "Office"))
	if &first[0] != &second[0] {
		t.Error("Options() recomputed for an identical list")
	}
	if c.Recomputations() != 1 {
		t.Errorf("Recomputations() = %d, want 1", c.Recomputations())
	}

	third := c.Options(nets("Office", "Home"))
	if &first[0] == &third[0] {
		t.Error("Options() reused options for a reordered list")
	}
	if third[0].Value != "Office" {
		t.Errorf("Options()[0] = %v, want Office", third[0])
	}
	if c.Recomputations() != 2 {
		t.Errorf("Recomputations() = %d, want 2", c.Recomputations())
	}
}

func TestFeed_PublishCleansList(t *testing.T) {
	f := NewFeed()
	snap := f.Publish(nets("Home", "", "Office", "Home"))

	if snap.Revision != 1 {
		t.Errorf("Revision = %d, want 1", snap.Revision)
	}
	if len(snap.Networks) != 2 || snap.Networks[0].SSID != "Home" || snap.Networks[1].SSID != "Office" {
		t.Errorf("Networks = %v, want [Home Office]", snap.Networks)
	}
	if got := f.Snapshot(); got.Revision != 1 {
		t.Errorf("Snapshot().Revision = %d, want 1", got.Revision)
	}
}

func TestFeed_SubscribeGetsLatest(t *testing.T) {
	f := NewFeed()
	f.Publish(nets("A"))

	sub := f.Subscribe()
	select {
	case snap := <-sub:
		if snap.Revision != 1 {
			t.Errorf("initial snapshot revision = %d, want 1", snap.Revision)
		}
	case <-time.After(time.Second):
		t.Fatal("no initial snapshot")
	}

	// Two publishes without a reader collapse to the latest
	f.Publish(nets("B"))
	f.Publish(nets("C"))
	snap := <-sub
	if snap.Revision != 3 || snap.Networks[0].SSID != "C" {
		t.Errorf("snapshot = %+v, want revision 3 with C", snap)
	}
	select {
	case extra := <-sub:
		t.Errorf("unexpected extra snapshot %+v", extra)
	default:
	}
}

func TestFeed_Unsubscribe(t *testing.T) {
	f := NewFeed()
	sub := f.Subscribe()
	f.Publish(nets("A"))
	f.Unsubscribe(sub)

	if _, ok := <-sub; ok {
		t.Error("channel delivered after Unsubscribe, want closed")
	}
	// Publishing after unsubscribe must not panic on the closed channel
	f.Publish(nets("B"))
}

func TestFeed_Close(t *testing.T) {
	f := NewFeed()
	sub := f.Subscribe()
	f.Close()
	f.Close()

	if _, ok := <-sub; ok {
		t.Error("channel open after Close")
	}
	if snap := f.Publish(nets("A")); snap.Revision != 0 {
		t.Errorf("Publish after Close revision = %d, want 0", snap.Revision)
	}
	if _, ok := <-f.Subscribe(); ok {
		t.Error("Subscribe after Close returned an open channel")
	}
}

func TestFeed_ConcurrentPublish(t *testing.T) {
	f := NewFeed()
	sub := f.Subscribe()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			f.Publish(nets("Home", "Office"))
		}()
	}
	wg.Wait()

	snap := <-sub
	if snap.Revision == 0 || snap.Revision > 20 {
		t.Errorf("Revision = %d, want 1..20", snap.Revision)
	}
	if got := f.Snapshot().Revision; got != 20 {
		t.Errorf("final Revision = %d, want 20", got)
	}
}

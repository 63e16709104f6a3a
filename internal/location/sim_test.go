package location

import (
	"context"
	"testing"
	"time"
)

var simTrack = []GeoFix{
	{Lat: 14.5995, Lng: 120.9842},
	{Lat: 14.6, Lng: 120.985},
	{Lat: 14.6005, Lng: 120.986},
}

func TestSimFeedCurrentFix(t *testing.T) {
	feed := NewSimFeed(simTrack)

	granted, err := feed.RequestPermission(context.Background())
	if err != nil || !granted {
		t.Fatalf("expected permission granted")
	}

	fix, err := feed.CurrentFix(context.Background())
	if err != nil {
		t.Fatalf("current fix: %v", err)
	}
	if fix.Lat != simTrack[0].Lat || fix.Lng != simTrack[0].Lng {
		t.Fatalf("unexpected fix: %+v", fix)
	}
	if fix.RecordedAt.IsZero() {
		t.Fatalf("expected timestamp")
	}
}

func TestSimFeedEmptyTrack(t *testing.T) {
	feed := NewSimFeed(nil)
	if _, err := feed.CurrentFix(context.Background()); err != ErrUnavailable {
		t.Fatalf("expected ErrUnavailable, got %v", err)
	}
	if _, err := feed.Watch(WatchOptions{}, func(GeoFix) {}, nil); err != ErrUnavailable {
		t.Fatalf("expected ErrUnavailable, got %v", err)
	}
}

func TestSimFeedWatchDeliversAndStops(t *testing.T) {
	feed := NewSimFeed(simTrack)

	fixes := make(chan GeoFix, 16)
	sub, err := feed.Watch(WatchOptions{Interval: 5 * time.Millisecond}, func(f GeoFix) {
		fixes <- f
	}, nil)
	if err != nil {
		t.Fatalf("watch: %v", err)
	}

	select {
	case <-fixes:
	case <-time.After(time.Second):
		t.Fatalf("timeout waiting for fix")
	}

	sub.Stop()
	sub.Stop() // idempotent

	time.Sleep(20 * time.Millisecond)
	drained := len(fixes)
	time.Sleep(30 * time.Millisecond)
	if len(fixes) != drained {
		t.Fatalf("watch kept delivering after stop")
	}
}

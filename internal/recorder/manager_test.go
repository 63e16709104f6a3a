package recorder

import (
	"context"
	"errors"
	"testing"
	"time"

	"backend-runtrack/internal/location"
)

func newTestManager(feed location.Feed, store RouteStore) *Manager {
	m := NewManager(func() location.Feed { return feed }, store, nil)
	m.tickInterval = 5 * time.Millisecond
	return m
}

func TestManagerRequiresOpen(t *testing.T) {
	m := newTestManager(&fakeFeed{granted: true}, &fakeStore{})

	if err := m.Start(context.Background(), "user-1"); err != ErrNotOpen {
		t.Fatalf("expected ErrNotOpen, got %v", err)
	}
	if _, err := m.Snapshot("user-1"); err != ErrNotOpen {
		t.Fatalf("expected ErrNotOpen, got %v", err)
	}
	m.Close("user-1") // closing an unopened recorder is a no-op
}

func TestManagerOpenPermissionDenied(t *testing.T) {
	feed := &fakeFeed{granted: false}
	m := newTestManager(feed, &fakeStore{})

	if err := m.Open(context.Background(), "user-1"); err != location.ErrPermissionDenied {
		t.Fatalf("expected ErrPermissionDenied, got %v", err)
	}
	if err := m.Start(context.Background(), "user-1"); err != ErrNotOpen {
		t.Fatalf("denied permission must not register a recorder")
	}
}

func TestManagerOpenIdempotent(t *testing.T) {
	feed := &fakeFeed{granted: true, fixes: []location.GeoFix{fixManila}}
	m := newTestManager(feed, &fakeStore{})

	if err := m.Open(context.Background(), "user-1"); err != nil {
		t.Fatalf("open: %v", err)
	}
	if err := m.Open(context.Background(), "user-1"); err != nil {
		t.Fatalf("reopen: %v", err)
	}
	m.Close("user-1")
	if feed.stopCount() != 1 {
		t.Fatalf("expected one watch release, got %d", feed.stopCount())
	}
}

func TestManagerTickerRunsOnlyWhileRecording(t *testing.T) {
	feed := &fakeFeed{granted: true, fixes: []location.GeoFix{fixManila}}
	m := newTestManager(feed, &fakeStore{})

	if err := m.Open(context.Background(), "user-1"); err != nil {
		t.Fatalf("open: %v", err)
	}
	if err := m.Start(context.Background(), "user-1"); err != nil {
		t.Fatalf("start: %v", err)
	}

	deadline := time.Now().Add(time.Second)
	for {
		snap, err := m.Snapshot("user-1")
		if err != nil {
			t.Fatalf("snapshot: %v", err)
		}
		if snap.ElapsedSec >= 1 {
			break
		}
		if time.Now().After(deadline) {
			t.Fatalf("ticker never advanced elapsed time")
		}
		time.Sleep(time.Millisecond)
	}

	feed.emit(fixMoved)
	if _, err := m.Stop("user-1"); err != nil {
		t.Fatalf("stop: %v", err)
	}

	snap, _ := m.Snapshot("user-1")
	frozen := snap.ElapsedSec
	time.Sleep(40 * time.Millisecond)
	snap, _ = m.Snapshot("user-1")
	if snap.ElapsedSec != frozen {
		t.Fatalf("ticker kept firing after stop: %d -> %d", frozen, snap.ElapsedSec)
	}

	// the watch stays active between recordings
	if feed.stopCount() != 0 {
		t.Fatalf("stop must not release the watch")
	}

	m.Close("user-1")
	if feed.stopCount() != 1 {
		t.Fatalf("close must release the watch")
	}
}

func TestManagerCloseWhileRecording(t *testing.T) {
	feed := &fakeFeed{granted: true, fixes: []location.GeoFix{fixManila}}
	m := newTestManager(feed, &fakeStore{})

	if err := m.Open(context.Background(), "user-1"); err != nil {
		t.Fatalf("open: %v", err)
	}
	if err := m.Start(context.Background(), "user-1"); err != nil {
		t.Fatalf("start: %v", err)
	}

	m.Close("user-1")
	if feed.stopCount() != 1 {
		t.Fatalf("expected watch released on close")
	}
	if _, err := m.Snapshot("user-1"); err != ErrNotOpen {
		t.Fatalf("expected recorder forgotten after close")
	}
}

func TestManagerWatchFeedsSession(t *testing.T) {
	feed := &fakeFeed{granted: true, fixes: []location.GeoFix{fixManila}}
	store := &fakeStore{}
	m := newTestManager(feed, store)

	if err := m.Open(context.Background(), "user-1"); err != nil {
		t.Fatalf("open: %v", err)
	}

	// fixes arriving while idle update the map position only
	feed.emit(fixMoved)
	snap, _ := m.Snapshot("user-1")
	if snap.PointCount != 0 || snap.LastFix == nil {
		t.Fatalf("idle fix handling wrong: %+v", snap)
	}

	if err := m.Start(context.Background(), "user-1"); err != nil {
		t.Fatalf("start: %v", err)
	}
	feed.emit(fixMoved)

	summary, err := m.Stop("user-1")
	if err != nil {
		t.Fatalf("stop: %v", err)
	}
	if summary.DistanceM <= 0 {
		t.Fatalf("expected accumulated distance")
	}

	id, err := m.ConfirmSave(context.Background(), "user-1")
	if err != nil || id == "" {
		t.Fatalf("confirm save: %v", err)
	}
	if store.callCount() != 1 {
		t.Fatalf("expected one save call")
	}
	m.Close("user-1")
}

func TestManagerDiscard(t *testing.T) {
	feed := &fakeFeed{granted: true, fixes: []location.GeoFix{fixManila}}
	store := &fakeStore{}
	m := newTestManager(feed, store)

	if err := m.Open(context.Background(), "user-1"); err != nil {
		t.Fatalf("open: %v", err)
	}
	if err := m.Start(context.Background(), "user-1"); err != nil {
		t.Fatalf("start: %v", err)
	}
	feed.emit(fixMoved)
	if _, err := m.Stop("user-1"); err != nil {
		t.Fatalf("stop: %v", err)
	}
	if err := m.Discard("user-1"); err != nil {
		t.Fatalf("discard: %v", err)
	}
	if store.callCount() != 0 {
		t.Fatalf("discard must not persist")
	}
	m.Close("user-1")
}

func TestManagerPushFix(t *testing.T) {
	feed := location.NewPushFeed(time.Second)
	m := newTestManager(feed, &fakeStore{})

	if err := m.Open(context.Background(), "user-1"); err != nil {
		t.Fatalf("open: %v", err)
	}

	if err := m.PushFix("user-1", fixManila); err != nil {
		t.Fatalf("push: %v", err)
	}
	if err := m.Start(context.Background(), "user-1"); err != nil {
		t.Fatalf("start: %v", err)
	}
	if err := m.PushFix("user-1", fixMoved); err != nil {
		t.Fatalf("push: %v", err)
	}

	snap, _ := m.Snapshot("user-1")
	if snap.DistanceM <= 0 {
		t.Fatalf("pushed fix did not accumulate: %+v", snap)
	}
	m.Close("user-1")
}

func TestManagerPushFixUnsupportedFeed(t *testing.T) {
	feed := &fakeFeed{granted: true, fixes: []location.GeoFix{fixManila}}
	m := newTestManager(feed, &fakeStore{})

	if err := m.Open(context.Background(), "user-1"); err != nil {
		t.Fatalf("open: %v", err)
	}
	if err := m.PushFix("user-1", fixManila); !errors.Is(err, location.ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable, got %v", err)
	}
	m.Close("user-1")
}

package recorder

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"sync"
	"time"

	"backend-runtrack/internal/location"
)

var ErrNotOpen = errors.New("recorder not open")

// Broadcaster fans live snapshots out to connected clients.
type Broadcaster interface {
	Broadcast(userID string, payload []byte)
}

// Manager owns one recorder per user for the lifetime of their recording
// screen. Open acquires permission and the single watch subscription; Close
// releases the watch and any running ticker. The watch outlives individual
// sessions: fixes keep arriving between recordings and the session decides
// whether to act on them.
type Manager struct {
	newFeed func() location.Feed
	store   RouteStore
	hub     Broadcaster

	watchOpts    location.WatchOptions
	tickInterval time.Duration

	mu        sync.Mutex
	recorders map[string]*userRecorder
}

type userRecorder struct {
	feed    location.Feed
	session *Session
	sub     location.Subscription

	mu       sync.Mutex
	stopTick chan struct{}
}

func NewManager(newFeed func() location.Feed, store RouteStore, hub Broadcaster) *Manager {
	return &Manager{
		newFeed:      newFeed,
		store:        store,
		hub:          hub,
		tickInterval: time.Second,
		recorders:    map[string]*userRecorder{},
	}
}

// SetWatchOptions configures the watch started by Open.
func (m *Manager) SetWatchOptions(opts location.WatchOptions) {
	m.watchOpts = opts
}

// Open prepares a user's recorder: permission, session, and the watch
// subscription. Idempotent for an already-open user.
func (m *Manager) Open(ctx context.Context, userID string) error {
	m.mu.Lock()
	if _, ok := m.recorders[userID]; ok {
		m.mu.Unlock()
		return nil
	}
	m.mu.Unlock()

	feed := m.newFeed()
	granted, err := feed.RequestPermission(ctx)
	if err != nil {
		return err
	}
	if !granted {
		return location.ErrPermissionDenied
	}

	rec := &userRecorder{
		feed:    feed,
		session: NewSession(feed, m.store),
	}
	sub, err := feed.Watch(m.watchOpts, func(fix location.GeoFix) {
		rec.session.IngestFix(fix)
		m.publish(userID, rec.session)
	}, func(err error) {
		log.Printf("recorder watch error for %s: %v", userID, err)
	})
	if err != nil {
		return err
	}
	rec.sub = sub

	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.recorders[userID]; ok {
		sub.Stop()
		return nil
	}
	m.recorders[userID] = rec
	return nil
}

// Close tears the recorder down: stops the watch, cancels any running
// ticker, and forgets the session.
func (m *Manager) Close(userID string) {
	m.mu.Lock()
	rec, ok := m.recorders[userID]
	delete(m.recorders, userID)
	m.mu.Unlock()
	if !ok {
		return
	}

	rec.cancelTicker()
	if rec.sub != nil {
		rec.sub.Stop()
	}
}

func (m *Manager) Start(ctx context.Context, userID string) error {
	rec, err := m.recorder(userID)
	if err != nil {
		return err
	}
	if err := rec.session.Start(ctx); err != nil {
		return err
	}
	m.startTicker(userID, rec)
	m.publish(userID, rec.session)
	return nil
}

func (m *Manager) Stop(userID string) (Summary, error) {
	rec, err := m.recorder(userID)
	if err != nil {
		return Summary{}, err
	}
	rec.cancelTicker()
	summary, stopErr := rec.session.Stop()
	m.publish(userID, rec.session)
	return summary, stopErr
}

func (m *Manager) ConfirmSave(ctx context.Context, userID string) (string, error) {
	rec, err := m.recorder(userID)
	if err != nil {
		return "", err
	}
	id, saveErr := rec.session.ConfirmSave(ctx, userID)
	m.publish(userID, rec.session)
	return id, saveErr
}

func (m *Manager) Discard(userID string) error {
	rec, err := m.recorder(userID)
	if err != nil {
		return err
	}
	if err := rec.session.Discard(); err != nil {
		return err
	}
	m.publish(userID, rec.session)
	return nil
}

func (m *Manager) Snapshot(userID string) (Snapshot, error) {
	rec, err := m.recorder(userID)
	if err != nil {
		return Snapshot{}, err
	}
	return rec.session.Snapshot(), nil
}

// PushFix routes a device-posted fix into the user's feed.
func (m *Manager) PushFix(userID string, fix location.GeoFix) error {
	rec, err := m.recorder(userID)
	if err != nil {
		return err
	}
	pusher, ok := rec.feed.(location.Pusher)
	if !ok {
		return location.ErrUnavailable
	}
	pusher.Push(fix)
	return nil
}

func (m *Manager) recorder(userID string) (*userRecorder, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	rec, ok := m.recorders[userID]
	if !ok {
		return nil, ErrNotOpen
	}
	return rec, nil
}

// startTicker runs the once-per-second elapsed counter. The goroutine is
// cancelled the moment the session leaves Recording (Stop, Close) so no
// orphaned timer keeps firing.
func (m *Manager) startTicker(userID string, rec *userRecorder) {
	rec.mu.Lock()
	if rec.stopTick != nil {
		rec.mu.Unlock()
		return
	}
	stop := make(chan struct{})
	rec.stopTick = stop
	rec.mu.Unlock()

	go func() {
		ticker := time.NewTicker(m.tickInterval)
		defer ticker.Stop()
		for {
			select {
			case <-stop:
				return
			case <-ticker.C:
				rec.session.Tick()
				m.publish(userID, rec.session)
			}
		}
	}()
}

func (rec *userRecorder) cancelTicker() {
	rec.mu.Lock()
	defer rec.mu.Unlock()
	if rec.stopTick != nil {
		close(rec.stopTick)
		rec.stopTick = nil
	}
}

func (m *Manager) publish(userID string, session *Session) {
	if m.hub == nil {
		return
	}
	payload, err := json.Marshal(session.Snapshot())
	if err != nil {
		return
	}
	m.hub.Broadcast(userID, payload)
}

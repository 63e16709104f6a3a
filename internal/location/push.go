package location

import (
	"context"
	"sync"
	"time"
)

// PushFeed adapts fixes pushed from outside (a device posting its GPS samples)
// to the Feed contract. Push delivers to watchers synchronously so fixes are
// observed in arrival order.
type PushFeed struct {
	mu         sync.Mutex
	watchers   map[*pushSub]struct{}
	waiters    []chan GeoFix
	last       *GeoFix
	fixTimeout time.Duration
}

func NewPushFeed(fixTimeout time.Duration) *PushFeed {
	if fixTimeout <= 0 {
		fixTimeout = 10 * time.Second
	}
	return &PushFeed{
		watchers:   map[*pushSub]struct{}{},
		fixTimeout: fixTimeout,
	}
}

// Push records the latest fix, wakes any CurrentFix waiters, and fans the fix
// out to active watchers.
func (f *PushFeed) Push(fix GeoFix) {
	if fix.RecordedAt.IsZero() {
		fix.RecordedAt = time.Now()
	}

	f.mu.Lock()
	f.last = &fix
	waiters := f.waiters
	f.waiters = nil
	subs := make([]*pushSub, 0, len(f.watchers))
	for sub := range f.watchers {
		subs = append(subs, sub)
	}
	f.mu.Unlock()

	for _, w := range waiters {
		w <- fix
	}
	for _, sub := range subs {
		sub.deliver(fix)
	}
}

func (f *PushFeed) RequestPermission(_ context.Context) (bool, error) {
	// a device that pushes fixes has already granted permission on its side
	return true, nil
}

func (f *PushFeed) CurrentFix(ctx context.Context) (GeoFix, error) {
	f.mu.Lock()
	if f.last != nil {
		fix := *f.last
		f.mu.Unlock()
		return fix, nil
	}
	wait := make(chan GeoFix, 1)
	f.waiters = append(f.waiters, wait)
	f.mu.Unlock()

	select {
	case fix := <-wait:
		return fix, nil
	case <-ctx.Done():
		f.dropWaiter(wait)
		return GeoFix{}, ErrUnavailable
	case <-time.After(f.fixTimeout):
		f.dropWaiter(wait)
		return GeoFix{}, ErrUnavailable
	}
}

func (f *PushFeed) Watch(opts WatchOptions, onFix func(GeoFix), onErr func(error)) (Subscription, error) {
	sub := &pushSub{
		feed:         f,
		onFix:        onFix,
		minDistanceM: opts.MinDistanceM,
	}
	f.mu.Lock()
	f.watchers[sub] = struct{}{}
	f.mu.Unlock()
	return sub, nil
}

func (f *PushFeed) dropWaiter(wait chan GeoFix) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, w := range f.waiters {
		if w == wait {
			f.waiters = append(f.waiters[:i], f.waiters[i+1:]...)
			return
		}
	}
}

type pushSub struct {
	feed         *PushFeed
	onFix        func(GeoFix)
	minDistanceM float64

	mu      sync.Mutex
	stopped bool
	lastFix *GeoFix
}

func (s *pushSub) deliver(fix GeoFix) {
	s.mu.Lock()
	if s.stopped {
		s.mu.Unlock()
		return
	}
	if s.minDistanceM > 0 && s.lastFix != nil {
		moved := distanceM(*s.lastFix, fix)
		if moved < s.minDistanceM {
			s.mu.Unlock()
			return
		}
	}
	s.lastFix = &fix
	s.mu.Unlock()

	s.onFix(fix)
}

func (s *pushSub) Stop() {
	s.mu.Lock()
	s.stopped = true
	s.mu.Unlock()

	s.feed.mu.Lock()
	delete(s.feed.watchers, s)
	s.feed.mu.Unlock()
}

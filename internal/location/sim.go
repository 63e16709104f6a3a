package location

import (
	"context"
	"sync"
	"time"
)

// SimFeed plays a configured track back as live fixes, looping when it runs
// out of points. Used for local development and demos where no device is
// pushing real GPS data.
type SimFeed struct {
	mu    sync.Mutex
	track []GeoFix
	idx   int
}

func NewSimFeed(track []GeoFix) *SimFeed {
	return &SimFeed{track: track}
}

func (f *SimFeed) RequestPermission(_ context.Context) (bool, error) {
	return true, nil
}

func (f *SimFeed) CurrentFix(_ context.Context) (GeoFix, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.track) == 0 {
		return GeoFix{}, ErrUnavailable
	}
	fix := f.track[f.idx%len(f.track)]
	fix.RecordedAt = time.Now()
	return fix, nil
}

func (f *SimFeed) Watch(opts WatchOptions, onFix func(GeoFix), onErr func(error)) (Subscription, error) {
	f.mu.Lock()
	empty := len(f.track) == 0
	f.mu.Unlock()
	if empty {
		return nil, ErrUnavailable
	}

	interval := opts.Interval
	if interval <= 0 {
		interval = time.Second
	}

	sub := &simSub{done: make(chan struct{})}
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-sub.done:
				return
			case <-ticker.C:
				onFix(f.advance())
			}
		}
	}()
	return sub, nil
}

func (f *SimFeed) advance() GeoFix {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.idx = (f.idx + 1) % len(f.track)
	fix := f.track[f.idx]
	fix.RecordedAt = time.Now()
	return fix
}

type simSub struct {
	once sync.Once
	done chan struct{}
}

func (s *simSub) Stop() {
	s.once.Do(func() { close(s.done) })
}

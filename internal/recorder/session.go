package recorder

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"backend-runtrack/internal/location"
	"backend-runtrack/internal/route"
	"backend-runtrack/internal/shared/geo"
)

type State int

const (
	StateIdle State = iota
	StateRecording
	StateStoppedInvalid
	StatePendingConfirmation
	StateSaving
	StateComplete
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateRecording:
		return "recording"
	case StateStoppedInvalid:
		return "stopped_invalid"
	case StatePendingConfirmation:
		return "pending_confirmation"
	case StateSaving:
		return "saving"
	case StateComplete:
		return "complete"
	}
	return "unknown"
}

var (
	ErrAlreadyRecording = errors.New("recording already in progress")
	ErrNotRecording     = errors.New("no recording in progress")
	ErrNoPendingRoute   = errors.New("no route awaiting confirmation")
	ErrInvalidRoute     = errors.New("no distance recorded, route will not be saved")
	ErrSaveFailed       = errors.New("route save failed")
	ErrPrecondition     = errors.New("missing user or route endpoints")
)

// RouteStore persists a finished session.
type RouteStore interface {
	Save(ctx context.Context, req route.SaveRequest) (string, error)
}

// Session is one start-to-save/discard recording attempt. All session fields
// are mutated only by its own operations; concurrent callers (fix callbacks,
// ticker, user actions) are serialized on the mutex.
type Session struct {
	mu         sync.Mutex
	state      State
	path       []geo.Coordinate
	start      *geo.Coordinate
	end        *geo.Coordinate
	distanceM  float64
	elapsedSec int64
	lastFix    *location.GeoFix
	startedAt  time.Time

	feed  location.Feed
	store RouteStore
}

func NewSession(feed location.Feed, store RouteStore) *Session {
	return &Session{feed: feed, store: store}
}

// Start anchors a new recording on a fresh one-shot fix. The current-fix
// request can resolve after the session has moved on; its result is dropped
// unless the session is still Idle.
func (s *Session) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.state != StateIdle {
		s.mu.Unlock()
		return ErrAlreadyRecording
	}
	s.mu.Unlock()

	fix, err := s.feed.CurrentFix(ctx)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateIdle {
		return ErrAlreadyRecording
	}

	s.resetLocked()
	c := fix.Coordinate()
	s.start = &c
	s.path = append(s.path, c)
	s.lastFix = &fix
	s.startedAt = time.Now()
	s.state = StateRecording
	return nil
}

// IngestFix always refreshes the last known location; it only extends the
// path and running total while Recording.
func (s *Session) IngestFix(fix location.GeoFix) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.lastFix = &fix
	if s.state != StateRecording {
		return
	}

	c := fix.Coordinate()
	if n := len(s.path); n > 0 {
		s.distanceM = geo.AccumulateM(s.distanceM, s.path[n-1], c)
	}
	s.path = append(s.path, c)
}

// Tick advances the elapsed-time counter. Called once per second of
// wall-clock time by the owning manager; a no-op outside Recording.
func (s *Session) Tick() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == StateRecording {
		s.elapsedSec++
	}
}

// Stop ends recording. A session with zero distance or no start point is
// invalid and resets immediately; otherwise the session waits for the user
// to confirm or discard.
func (s *Session) Stop() (Summary, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateRecording {
		return Summary{}, ErrNotRecording
	}

	if n := len(s.path); n > 0 {
		c := s.path[n-1]
		s.end = &c
	}

	if s.distanceM == 0 || s.start == nil {
		s.state = StateStoppedInvalid
		s.resetLocked()
		return Summary{}, ErrInvalidRoute
	}

	s.state = StatePendingConfirmation
	return s.summaryLocked(), nil
}

// ConfirmSave hands the finished session to the route store. On failure the
// session returns to PendingConfirmation with its data intact so the user
// can retry or discard.
func (s *Session) ConfirmSave(ctx context.Context, userID string) (string, error) {
	s.mu.Lock()
	if s.state != StatePendingConfirmation {
		s.mu.Unlock()
		return "", ErrNoPendingRoute
	}
	if userID == "" || s.start == nil || s.end == nil {
		s.mu.Unlock()
		return "", ErrPrecondition
	}

	req := route.SaveRequest{
		UserID:      userID,
		DistanceM:   s.distanceM,
		DurationSec: s.elapsedSec,
		Start:       *s.start,
		End:         *s.end,
		Points:      append([]geo.Coordinate(nil), s.path...),
	}
	s.state = StateSaving
	s.mu.Unlock()

	id, err := s.store.Save(ctx, req)

	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		s.state = StatePendingConfirmation
		return "", fmt.Errorf("%w: %v", ErrSaveFailed, err)
	}

	s.state = StateComplete
	s.resetLocked()
	return id, nil
}

// Discard drops a pending session without persisting anything.
func (s *Session) Discard() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StatePendingConfirmation {
		return ErrNoPendingRoute
	}
	s.resetLocked()
	return nil
}

// resetLocked clears all accumulated fields together so no partial session
// can leak into the next recording. The last known location survives the
// reset for map display.
func (s *Session) resetLocked() {
	s.path = nil
	s.start = nil
	s.end = nil
	s.distanceM = 0
	s.elapsedSec = 0
	s.startedAt = time.Time{}
	s.state = StateIdle
}

type Summary struct {
	DistanceM   float64        `json:"distance_m"`
	DurationSec int64          `json:"duration_sec"`
	Start       geo.Coordinate `json:"start_point"`
	End         geo.Coordinate `json:"end_point"`
	PointCount  int            `json:"point_count"`
}

func (s *Session) summaryLocked() Summary {
	summary := Summary{
		DistanceM:   s.distanceM,
		DurationSec: s.elapsedSec,
		PointCount:  len(s.path),
	}
	if s.start != nil {
		summary.Start = *s.start
	}
	if s.end != nil {
		summary.End = *s.end
	}
	return summary
}

// Snapshot is the UI-facing view of a session.
type Snapshot struct {
	State      string           `json:"state"`
	DistanceM  float64          `json:"distance_m"`
	Distance   string           `json:"distance"`
	ElapsedSec int64            `json:"elapsed_sec"`
	Elapsed    string           `json:"elapsed"`
	PointCount int              `json:"point_count"`
	LastFix    *location.GeoFix `json:"last_fix,omitempty"`
}

func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Snapshot{
		State:      s.state.String(),
		DistanceM:  s.distanceM,
		Distance:   FormatDistance(s.distanceM),
		ElapsedSec: s.elapsedSec,
		Elapsed:    FormatElapsed(s.elapsedSec),
		PointCount: len(s.path),
		LastFix:    s.lastFix,
	}
}

func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// FormatDistance renders meters as "X.XX km".
func FormatDistance(meters float64) string {
	return fmt.Sprintf("%.2f km", meters/1000)
}

// FormatElapsed renders seconds as zero-padded "MM:SS".
func FormatElapsed(sec int64) string {
	return fmt.Sprintf("%02d:%02d", sec/60, sec%60)
}

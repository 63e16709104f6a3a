package location

import (
	"context"
	"errors"
	"time"

	"backend-runtrack/internal/shared/geo"
)

var (
	ErrPermissionDenied = errors.New("location permission denied")
	ErrUnavailable      = errors.New("location unavailable")
)

// GeoFix is a single location sample. Immutable once produced by a feed.
type GeoFix struct {
	Lat        float64   `json:"lat"`
	Lng        float64   `json:"lng"`
	AccuracyM  float64   `json:"accuracy_m,omitempty"`
	AltitudeM  float64   `json:"altitude_m,omitempty"`
	SpeedMps   float64   `json:"speed_mps,omitempty"`
	Heading    float64   `json:"heading,omitempty"`
	RecordedAt time.Time `json:"recorded_at"`
}

func (f GeoFix) Coordinate() geo.Coordinate {
	return geo.Coordinate{Lat: f.Lat, Lng: f.Lng}
}

type WatchOptions struct {
	Interval     time.Duration
	MinDistanceM float64
}

// Subscription releases a watch. Stop is idempotent.
type Subscription interface {
	Stop()
}

// Feed abstracts a device location source. RequestPermission must be awaited
// before CurrentFix or Watch; exactly one watch is expected per screen
// lifetime, with fixes delivered in the order the source emits them.
type Feed interface {
	RequestPermission(ctx context.Context) (bool, error)
	CurrentFix(ctx context.Context) (GeoFix, error)
	Watch(opts WatchOptions, onFix func(GeoFix), onErr func(error)) (Subscription, error)
}

// Pusher is implemented by feeds whose fixes arrive from outside the process.
type Pusher interface {
	Push(GeoFix)
}

func distanceM(a, b GeoFix) float64 {
	return geo.HaversineM(a.Lat, a.Lng, b.Lat, b.Lng)
}

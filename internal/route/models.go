package route

import (
	"time"

	"backend-runtrack/internal/shared/geo"
)

type Route struct {
	ID          string           `json:"id"`
	UserID      string           `json:"user_id"`
	DistanceM   float64          `json:"distance_m"`
	DurationSec int64            `json:"duration_sec"`
	Start       geo.Coordinate   `json:"start_point"`
	End         geo.Coordinate   `json:"end_point"`
	Points      []geo.Coordinate `json:"route_points,omitempty"`
	CreatedAt   time.Time        `json:"created_at"`
}

// SaveRequest is a finished recording session handed over for persistence.
type SaveRequest struct {
	UserID      string           `json:"user_id"`
	DistanceM   float64          `json:"distance_m"`
	DurationSec int64            `json:"duration_sec"`
	Start       geo.Coordinate   `json:"start_point"`
	End         geo.Coordinate   `json:"end_point"`
	Points      []geo.Coordinate `json:"route_points"`
}

type Stats struct {
	UserID           string  `json:"user_id"`
	RouteCount       int     `json:"route_count"`
	TotalDistanceM   float64 `json:"total_distance_m"`
	TotalDurationSec int64   `json:"total_duration_sec"`
}

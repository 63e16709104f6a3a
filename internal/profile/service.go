package profile

import (
	"context"
	"time"

	"backend-runtrack/internal/db"
)

// Dashboard aggregates a runner's activity for the home screen: lifetime
// route totals, checklist completion, and how many challenges they are in.
type Dashboard struct {
	UserID           string        `json:"user_id"`
	Username         string        `json:"username"`
	DisplayName      string        `json:"display_name"`
	RouteCount       int           `json:"route_count"`
	TotalDistanceM   float64       `json:"total_distance_m"`
	TotalDurationSec int64         `json:"total_duration_sec"`
	ChecklistDone    int           `json:"checklist_done"`
	ChecklistTotal   int           `json:"checklist_total"`
	ActiveChallenges int           `json:"active_challenges"`
	RecentRoutes     []RecentRoute `json:"recent_routes"`
}

type RecentRoute struct {
	ID          string    `json:"id"`
	DistanceM   float64   `json:"distance_m"`
	DurationSec int64     `json:"duration_sec"`
	CreatedAt   time.Time `json:"created_at"`
}

type Service struct {
	db db.Querier
}

func NewService(db db.Querier) *Service {
	return &Service{db: db}
}

func (s *Service) Dashboard(ctx context.Context, userID string) (Dashboard, error) {
	d := Dashboard{UserID: userID}

	row := s.db.QueryRow(ctx, `
		SELECT username, COALESCE(display_name,'') FROM users WHERE id=$1
	`, userID)
	if err := row.Scan(&d.Username, &d.DisplayName); err != nil {
		return Dashboard{}, err
	}

	row = s.db.QueryRow(ctx, `
		SELECT COUNT(*), COALESCE(SUM(distance_m),0), COALESCE(SUM(duration_sec),0)
		FROM routes WHERE user_id=$1
	`, userID)
	if err := row.Scan(&d.RouteCount, &d.TotalDistanceM, &d.TotalDurationSec); err != nil {
		return Dashboard{}, err
	}

	row = s.db.QueryRow(ctx, `
		SELECT COUNT(*) FILTER (WHERE done), COUNT(*)
		FROM checklist_items WHERE user_id=$1
	`, userID)
	if err := row.Scan(&d.ChecklistDone, &d.ChecklistTotal); err != nil {
		return Dashboard{}, err
	}

	row = s.db.QueryRow(ctx, `
		SELECT COUNT(*)
		FROM challenge_participants cp
		JOIN challenges c ON c.id = cp.challenge_id
		WHERE cp.user_id=$1 AND c.starts_at <= NOW() AND c.ends_at >= NOW()
	`, userID)
	if err := row.Scan(&d.ActiveChallenges); err != nil {
		return Dashboard{}, err
	}

	rows, err := s.db.Query(ctx, `
		SELECT id, distance_m, duration_sec, created_at
		FROM routes WHERE user_id=$1
		ORDER BY created_at DESC
		LIMIT 5
	`, userID)
	if err != nil {
		return Dashboard{}, err
	}
	defer rows.Close()

	for rows.Next() {
		var r RecentRoute
		if err := rows.Scan(&r.ID, &r.DistanceM, &r.DurationSec, &r.CreatedAt); err != nil {
			return Dashboard{}, err
		}
		d.RecentRoutes = append(d.RecentRoutes, r)
	}
	return d, nil
}

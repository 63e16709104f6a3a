package route

import (
	"context"
	"encoding/json"
	"errors"

	"backend-runtrack/internal/db"

	"github.com/google/uuid"
)

var ErrMissingFields = errors.New("user_id, start_point, end_point required")

type Store struct {
	db db.Querier
}

func NewStore(db db.Querier) *Store {
	return &Store{db: db}
}

// Save persists a finished route and returns its id.
func (s *Store) Save(ctx context.Context, req SaveRequest) (string, error) {
	if req.UserID == "" || len(req.Points) == 0 {
		return "", ErrMissingFields
	}

	points, err := json.Marshal(req.Points)
	if err != nil {
		return "", err
	}

	id := uuid.NewString()
	row := s.db.QueryRow(ctx, `
		INSERT INTO routes (id, user_id, distance_m, duration_sec, start_lat, start_lng, end_lat, end_lng, points)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
		RETURNING id
	`, id, req.UserID, req.DistanceM, req.DurationSec,
		req.Start.Lat, req.Start.Lng, req.End.Lat, req.End.Lng, points)
	if err := row.Scan(&id); err != nil {
		return "", err
	}
	return id, nil
}

func (s *Store) Get(ctx context.Context, id string) (Route, error) {
	row := s.db.QueryRow(ctx, `
		SELECT id, user_id, distance_m, duration_sec, start_lat, start_lng, end_lat, end_lng, points, created_at
		FROM routes WHERE id=$1
	`, id)

	var r Route
	var points []byte
	if err := row.Scan(&r.ID, &r.UserID, &r.DistanceM, &r.DurationSec,
		&r.Start.Lat, &r.Start.Lng, &r.End.Lat, &r.End.Lng, &points, &r.CreatedAt); err != nil {
		return Route{}, err
	}
	if err := json.Unmarshal(points, &r.Points); err != nil {
		return Route{}, err
	}
	return r, nil
}

// ListByUser returns a user's routes newest first, without the point arrays.
func (s *Store) ListByUser(ctx context.Context, userID string) ([]Route, error) {
	rows, err := s.db.Query(ctx, `
		SELECT id, user_id, distance_m, duration_sec, start_lat, start_lng, end_lat, end_lng, created_at
		FROM routes WHERE user_id=$1
		ORDER BY created_at DESC
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var routes []Route
	for rows.Next() {
		var r Route
		if err := rows.Scan(&r.ID, &r.UserID, &r.DistanceM, &r.DurationSec,
			&r.Start.Lat, &r.Start.Lng, &r.End.Lat, &r.End.Lng, &r.CreatedAt); err != nil {
			return nil, err
		}
		routes = append(routes, r)
	}
	return routes, nil
}

func (s *Store) StatsByUser(ctx context.Context, userID string) (Stats, error) {
	row := s.db.QueryRow(ctx, `
		SELECT COUNT(*), COALESCE(SUM(distance_m),0), COALESCE(SUM(duration_sec),0)
		FROM routes WHERE user_id=$1
	`, userID)

	stats := Stats{UserID: userID}
	if err := row.Scan(&stats.RouteCount, &stats.TotalDistanceM, &stats.TotalDurationSec); err != nil {
		return Stats{}, err
	}
	return stats, nil
}

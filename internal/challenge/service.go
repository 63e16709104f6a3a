package challenge

import (
	"context"
	"errors"
	"time"

	"backend-runtrack/internal/db"

	"github.com/google/uuid"
)

var ErrInvalidWindow = errors.New("challenge window invalid")

type Service struct {
	db db.Querier
}

func NewService(db db.Querier) *Service {
	return &Service{db: db}
}

func (s *Service) Create(ctx context.Context, input Challenge) (Challenge, error) {
	if input.Name == "" || input.TargetDistanceM <= 0 {
		return Challenge{}, errors.New("name and target_distance_m required")
	}
	if !input.EndsAt.After(input.StartsAt) {
		return Challenge{}, ErrInvalidWindow
	}

	input.ID = uuid.NewString()
	row := s.db.QueryRow(ctx, `
		INSERT INTO challenges (id, name, description, target_distance_m, starts_at, ends_at, created_by)
		VALUES ($1,$2,$3,$4,$5,$6,$7)
		RETURNING created_at
	`, input.ID, input.Name, input.Description, input.TargetDistanceM, input.StartsAt, input.EndsAt, input.CreatedBy)
	if err := row.Scan(&input.CreatedAt); err != nil {
		return Challenge{}, err
	}
	return input, nil
}

// ListActive returns challenges whose window contains now.
func (s *Service) ListActive(ctx context.Context) ([]Challenge, error) {
	rows, err := s.db.Query(ctx, `
		SELECT id, name, COALESCE(description,''), target_distance_m, starts_at, ends_at, created_by, created_at
		FROM challenges
		WHERE starts_at <= NOW() AND ends_at >= NOW()
		ORDER BY ends_at
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var challenges []Challenge
	for rows.Next() {
		var ch Challenge
		if err := rows.Scan(&ch.ID, &ch.Name, &ch.Description, &ch.TargetDistanceM,
			&ch.StartsAt, &ch.EndsAt, &ch.CreatedBy, &ch.CreatedAt); err != nil {
			return nil, err
		}
		challenges = append(challenges, ch)
	}
	return challenges, nil
}

func (s *Service) Join(ctx context.Context, challengeID, userID string) error {
	_, err := s.db.Exec(ctx, `
		INSERT INTO challenge_participants (challenge_id, user_id)
		VALUES ($1,$2)
		ON CONFLICT DO NOTHING
	`, challengeID, userID)
	return err
}

func (s *Service) Leave(ctx context.Context, challengeID, userID string) error {
	_, err := s.db.Exec(ctx, `
		DELETE FROM challenge_participants WHERE challenge_id=$1 AND user_id=$2
	`, challengeID, userID)
	return err
}

// Progress sums the user's saved routes inside the challenge window. Saved
// routes are the source of truth; nothing is cached on the participant row.
func (s *Service) Progress(ctx context.Context, challengeID, userID string) (Progress, error) {
	var target float64
	var startsAt, endsAt time.Time
	row := s.db.QueryRow(ctx, `
		SELECT target_distance_m, starts_at, ends_at FROM challenges WHERE id=$1
	`, challengeID)
	if err := row.Scan(&target, &startsAt, &endsAt); err != nil {
		return Progress{}, err
	}

	var distance float64
	row = s.db.QueryRow(ctx, `
		SELECT COALESCE(SUM(distance_m),0)
		FROM routes
		WHERE user_id=$1 AND created_at BETWEEN $2 AND $3
	`, userID, startsAt, endsAt)
	if err := row.Scan(&distance); err != nil {
		return Progress{}, err
	}

	progress := Progress{
		ChallengeID:     challengeID,
		UserID:          userID,
		DistanceM:       distance,
		TargetDistanceM: target,
	}
	if target > 0 {
		progress.Percent = distance / target * 100
		if progress.Percent > 100 {
			progress.Percent = 100
		}
	}
	return progress, nil
}

func (s *Service) Leaderboard(ctx context.Context, challengeID string) ([]LeaderboardEntry, error) {
	rows, err := s.db.Query(ctx, `
		SELECT u.id, u.username, COALESCE(SUM(r.distance_m),0) AS total
		FROM challenge_participants cp
		JOIN challenges c ON c.id = cp.challenge_id
		JOIN users u ON u.id = cp.user_id
		LEFT JOIN routes r ON r.user_id = cp.user_id AND r.created_at BETWEEN c.starts_at AND c.ends_at
		WHERE cp.challenge_id=$1
		GROUP BY u.id, u.username
		ORDER BY total DESC
	`, challengeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []LeaderboardEntry
	for rows.Next() {
		var e LeaderboardEntry
		if err := rows.Scan(&e.UserID, &e.Username, &e.DistanceM); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, nil
}

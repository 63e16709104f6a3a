package challenge

import "time"

// Challenge is a time-boxed distance goal users can join.
type Challenge struct {
	ID              string    `json:"id"`
	Name            string    `json:"name"`
	Description     string    `json:"description,omitempty"`
	TargetDistanceM float64   `json:"target_distance_m"`
	StartsAt        time.Time `json:"starts_at"`
	EndsAt          time.Time `json:"ends_at"`
	CreatedBy       string    `json:"created_by"`
	CreatedAt       time.Time `json:"created_at"`
}

type Progress struct {
	ChallengeID     string  `json:"challenge_id"`
	UserID          string  `json:"user_id"`
	DistanceM       float64 `json:"distance_m"`
	TargetDistanceM float64 `json:"target_distance_m"`
	Percent         float64 `json:"percent"`
}

type LeaderboardEntry struct {
	UserID    string  `json:"user_id"`
	Username  string  `json:"username"`
	DistanceM float64 `json:"distance_m"`
}

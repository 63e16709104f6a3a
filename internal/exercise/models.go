package exercise

import "time"

// Exercise is a shared library entry every user can draw from.
type Exercise struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Category    string    `json:"category"`
	Description string    `json:"description,omitempty"`
	DemoURL     string    `json:"demo_url,omitempty"`
	CreatedBy   string    `json:"created_by"`
	CreatedAt   time.Time `json:"created_at"`
}

// ChecklistItem is one library exercise on a user's personal checklist.
type ChecklistItem struct {
	ID         string    `json:"id"`
	UserID     string    `json:"user_id"`
	ExerciseID string    `json:"exercise_id"`
	Done       bool      `json:"done"`
	Name       string    `json:"name,omitempty"`
	Category   string    `json:"category,omitempty"`
	AddedAt    time.Time `json:"added_at"`
}

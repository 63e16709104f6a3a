package exercise

import (
	"context"
	"errors"

	"backend-runtrack/internal/db"

	"github.com/google/uuid"
)

var ErrNameRequired = errors.New("exercise name required")

type Service struct {
	db db.Querier
}

func NewService(db db.Querier) *Service {
	return &Service{db: db}
}

func (s *Service) CreateExercise(ctx context.Context, input Exercise) (Exercise, error) {
	if input.Name == "" {
		return Exercise{}, ErrNameRequired
	}
	input.ID = uuid.NewString()
	row := s.db.QueryRow(ctx, `
		INSERT INTO exercises (id, name, category, description, demo_url, created_by)
		VALUES ($1,$2,$3,$4,$5,$6)
		RETURNING created_at
	`, input.ID, input.Name, input.Category, input.Description, input.DemoURL, input.CreatedBy)
	if err := row.Scan(&input.CreatedAt); err != nil {
		return Exercise{}, err
	}
	return input, nil
}

func (s *Service) ListExercises(ctx context.Context) ([]Exercise, error) {
	rows, err := s.db.Query(ctx, `
		SELECT id, name, category, COALESCE(description,''), COALESCE(demo_url,''), created_by, created_at
		FROM exercises
		ORDER BY category, name
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var exercises []Exercise
	for rows.Next() {
		var e Exercise
		if err := rows.Scan(&e.ID, &e.Name, &e.Category, &e.Description, &e.DemoURL, &e.CreatedBy, &e.CreatedAt); err != nil {
			return nil, err
		}
		exercises = append(exercises, e)
	}
	return exercises, nil
}

// AddToChecklist puts a library exercise on the user's personal checklist.
// Adding the same exercise twice is a no-op.
func (s *Service) AddToChecklist(ctx context.Context, userID, exerciseID string) (ChecklistItem, error) {
	item := ChecklistItem{
		ID:         uuid.NewString(),
		UserID:     userID,
		ExerciseID: exerciseID,
	}
	row := s.db.QueryRow(ctx, `
		INSERT INTO checklist_items (id, user_id, exercise_id)
		VALUES ($1,$2,$3)
		ON CONFLICT (user_id, exercise_id) DO UPDATE SET user_id = checklist_items.user_id
		RETURNING id, added_at
	`, item.ID, item.UserID, item.ExerciseID)
	if err := row.Scan(&item.ID, &item.AddedAt); err != nil {
		return ChecklistItem{}, err
	}
	return item, nil
}

func (s *Service) SetDone(ctx context.Context, userID, itemID string, done bool) error {
	tag, err := s.db.Exec(ctx, `
		UPDATE checklist_items SET done=$3 WHERE id=$1 AND user_id=$2
	`, itemID, userID, done)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return errors.New("checklist item not found")
	}
	return nil
}

func (s *Service) RemoveFromChecklist(ctx context.Context, userID, itemID string) error {
	_, err := s.db.Exec(ctx, `
		DELETE FROM checklist_items WHERE id=$1 AND user_id=$2
	`, itemID, userID)
	return err
}

func (s *Service) Checklist(ctx context.Context, userID string) ([]ChecklistItem, error) {
	rows, err := s.db.Query(ctx, `
		SELECT ci.id, ci.user_id, ci.exercise_id, ci.done, e.name, e.category, ci.added_at
		FROM checklist_items ci
		JOIN exercises e ON e.id = ci.exercise_id
		WHERE ci.user_id=$1
		ORDER BY ci.added_at
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []ChecklistItem
	for rows.Next() {
		var item ChecklistItem
		if err := rows.Scan(&item.ID, &item.UserID, &item.ExerciseID, &item.Done, &item.Name, &item.Category, &item.AddedAt); err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, nil
}

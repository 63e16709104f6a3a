package exercise

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/pashagolub/pgxmock/v3"
)

var errExercise = errors.New("exercise error")

func TestCreateExercise(t *testing.T) {
	mock, err := pgxmock.NewPool(pgxmock.QueryMatcherOption(pgxmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("mock pool: %v", err)
	}
	defer mock.Close()

	mock.ExpectQuery(`INSERT INTO exercises`).
		WithArgs(pgxmock.AnyArg(), "Jumping Jacks", "cardio", "", "", "user-1").
		WillReturnRows(pgxmock.NewRows([]string{"created_at"}).AddRow(time.Now()))

	svc := NewService(mock)
	created, err := svc.CreateExercise(context.Background(), Exercise{
		Name: "Jumping Jacks", Category: "cardio", CreatedBy: "user-1",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if created.ID == "" {
		t.Fatalf("expected id assigned")
	}
}

func TestCreateExerciseRequiresName(t *testing.T) {
	svc := NewService(nil)
	if _, err := svc.CreateExercise(context.Background(), Exercise{}); err != ErrNameRequired {
		t.Fatalf("expected ErrNameRequired, got %v", err)
	}
}

func TestListExercises(t *testing.T) {
	mock, err := pgxmock.NewPool(pgxmock.QueryMatcherOption(pgxmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("mock pool: %v", err)
	}
	defer mock.Close()

	mock.ExpectQuery(`SELECT id, name, category`).
		WillReturnRows(pgxmock.NewRows([]string{"id", "name", "category", "description", "demo_url", "created_by", "created_at"}).
			AddRow("ex-1", "Jumping Jacks", "cardio", "", "", "user-1", time.Now()).
			AddRow("ex-2", "Plank", "core", "hold 60s", "", "user-1", time.Now()))

	svc := NewService(mock)
	exercises, err := svc.ListExercises(context.Background())
	if err != nil || len(exercises) != 2 {
		t.Fatalf("list: %v", err)
	}
}

func TestChecklistFlow(t *testing.T) {
	mock, err := pgxmock.NewPool(pgxmock.QueryMatcherOption(pgxmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("mock pool: %v", err)
	}
	defer mock.Close()

	mock.ExpectQuery(`INSERT INTO checklist_items`).
		WithArgs(pgxmock.AnyArg(), "user-1", "ex-1").
		WillReturnRows(pgxmock.NewRows([]string{"id", "added_at"}).AddRow("item-1", time.Now()))

	mock.ExpectExec(`UPDATE checklist_items SET done`).
		WithArgs("item-1", "user-1", true).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	mock.ExpectQuery(`SELECT ci.id, ci.user_id, ci.exercise_id, ci.done`).
		WithArgs("user-1").
		WillReturnRows(pgxmock.NewRows([]string{"id", "user_id", "exercise_id", "done", "name", "category", "added_at"}).
			AddRow("item-1", "user-1", "ex-1", true, "Jumping Jacks", "cardio", time.Now()))

	mock.ExpectExec(`DELETE FROM checklist_items`).
		WithArgs("item-1", "user-1").
		WillReturnResult(pgxmock.NewResult("DELETE", 1))

	svc := NewService(mock)

	item, err := svc.AddToChecklist(context.Background(), "user-1", "ex-1")
	if err != nil || item.ID != "item-1" {
		t.Fatalf("add: %v", err)
	}

	if err := svc.SetDone(context.Background(), "user-1", "item-1", true); err != nil {
		t.Fatalf("set done: %v", err)
	}

	items, err := svc.Checklist(context.Background(), "user-1")
	if err != nil || len(items) != 1 || !items[0].Done {
		t.Fatalf("checklist: %v %+v", err, items)
	}
	if items[0].Name != "Jumping Jacks" {
		t.Fatalf("expected joined exercise name")
	}

	if err := svc.RemoveFromChecklist(context.Background(), "user-1", "item-1"); err != nil {
		t.Fatalf("remove: %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestSetDoneNotFound(t *testing.T) {
	mock, err := pgxmock.NewPool(pgxmock.QueryMatcherOption(pgxmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("mock pool: %v", err)
	}
	defer mock.Close()

	mock.ExpectExec(`UPDATE checklist_items SET done`).
		WithArgs("missing", "user-1", true).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	svc := NewService(mock)
	if err := svc.SetDone(context.Background(), "user-1", "missing", true); err == nil {
		t.Fatalf("expected not-found error")
	}
}

func TestListExercisesError(t *testing.T) {
	mock, err := pgxmock.NewPool(pgxmock.QueryMatcherOption(pgxmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("mock pool: %v", err)
	}
	defer mock.Close()

	mock.ExpectQuery(`SELECT id, name, category`).WillReturnError(errExercise)

	svc := NewService(mock)
	if _, err := svc.ListExercises(context.Background()); err == nil {
		t.Fatalf("expected error")
	}
}

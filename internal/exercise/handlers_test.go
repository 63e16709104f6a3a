package exercise

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/pashagolub/pgxmock/v3"
)

func exerciseApp(svc *Service) *fiber.App {
	app := fiber.New()
	RegisterRoutes(app.Group("/exercises"), svc, func(c *fiber.Ctx) error {
		c.Locals("user_id", "user-1")
		return c.Next()
	})
	return app
}

func TestExerciseHandlersCreateAndList(t *testing.T) {
	mock, err := pgxmock.NewPool(pgxmock.QueryMatcherOption(pgxmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("mock pool: %v", err)
	}
	defer mock.Close()

	mock.ExpectQuery(`INSERT INTO exercises`).
		WithArgs(pgxmock.AnyArg(), "Plank", "core", "", "", "user-1").
		WillReturnRows(pgxmock.NewRows([]string{"created_at"}).AddRow(time.Now()))

	mock.ExpectQuery(`SELECT id, name, category`).
		WillReturnRows(pgxmock.NewRows([]string{"id", "name", "category", "description", "demo_url", "created_by", "created_at"}).
			AddRow("ex-1", "Plank", "core", "", "", "user-1", time.Now()))

	app := exerciseApp(NewService(mock))

	body, _ := json.Marshal(Exercise{Name: "Plank", Category: "core"})
	req := httptest.NewRequest(http.MethodPost, "/exercises/", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	if err != nil || resp.StatusCode != http.StatusCreated {
		t.Fatalf("create status: %v", err)
	}

	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/exercises/", nil))
	if err != nil || resp.StatusCode != http.StatusOK {
		t.Fatalf("list status: %v", err)
	}
}

func TestExerciseHandlersCreateValidation(t *testing.T) {
	app := exerciseApp(NewService(nil))

	req := httptest.NewRequest(http.MethodPost, "/exercises/", bytes.NewReader([]byte(`{}`)))
	req.Header.Set("Content-Type", "application/json")
	resp, _ := app.Test(req)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected bad request for missing name")
	}
}

func TestExerciseHandlersChecklist(t *testing.T) {
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
			AddRow("item-1", "user-1", "ex-1", true, "Plank", "core", time.Now()))

	mock.ExpectExec(`DELETE FROM checklist_items`).
		WithArgs("item-1", "user-1").
		WillReturnResult(pgxmock.NewResult("DELETE", 1))

	app := exerciseApp(NewService(mock))

	body, _ := json.Marshal(map[string]string{"exercise_id": "ex-1"})
	req := httptest.NewRequest(http.MethodPost, "/exercises/checklist", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	if err != nil || resp.StatusCode != http.StatusCreated {
		t.Fatalf("add status: %v", err)
	}

	body, _ = json.Marshal(map[string]bool{"done": true})
	req = httptest.NewRequest(http.MethodPatch, "/exercises/checklist/item-1", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err = app.Test(req)
	if err != nil || resp.StatusCode != http.StatusOK {
		t.Fatalf("patch status: %v", err)
	}

	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/exercises/checklist", nil))
	if err != nil || resp.StatusCode != http.StatusOK {
		t.Fatalf("checklist status: %v", err)
	}

	resp, err = app.Test(httptest.NewRequest(http.MethodDelete, "/exercises/checklist/item-1", nil))
	if err != nil || resp.StatusCode != http.StatusOK {
		t.Fatalf("delete status: %v", err)
	}
}

func TestExerciseHandlersChecklistValidation(t *testing.T) {
	app := exerciseApp(NewService(nil))

	req := httptest.NewRequest(http.MethodPost, "/exercises/checklist", bytes.NewReader([]byte(`{}`)))
	req.Header.Set("Content-Type", "application/json")
	resp, _ := app.Test(req)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected bad request for missing exercise_id")
	}
}

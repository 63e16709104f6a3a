package exercise

import "github.com/gofiber/fiber/v2"

func RegisterRoutes(r fiber.Router, svc *Service, authMiddleware fiber.Handler) {
	r.Get("/", func(c *fiber.Ctx) error {
		exercises, err := svc.ListExercises(c.Context())
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		return c.JSON(exercises)
	})

	r.Post("/", authMiddleware, func(c *fiber.Ctx) error {
		var req Exercise
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		req.CreatedBy, _ = c.Locals("user_id").(string)
		created, err := svc.CreateExercise(c.Context(), req)
		if err == ErrNameRequired {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		return c.Status(fiber.StatusCreated).JSON(created)
	})

	r.Get("/checklist", authMiddleware, func(c *fiber.Ctx) error {
		userID, _ := c.Locals("user_id").(string)
		items, err := svc.Checklist(c.Context(), userID)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		return c.JSON(items)
	})

	r.Post("/checklist", authMiddleware, func(c *fiber.Ctx) error {
		var body struct {
			ExerciseID string `json:"exercise_id"`
		}
		if err := c.BodyParser(&body); err != nil || body.ExerciseID == "" {
			return fiber.NewError(fiber.StatusBadRequest, "exercise_id required")
		}
		userID, _ := c.Locals("user_id").(string)
		item, err := svc.AddToChecklist(c.Context(), userID, body.ExerciseID)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		return c.Status(fiber.StatusCreated).JSON(item)
	})

	r.Patch("/checklist/:id", authMiddleware, func(c *fiber.Ctx) error {
		var body struct {
			Done bool `json:"done"`
		}
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		userID, _ := c.Locals("user_id").(string)
		if err := svc.SetDone(c.Context(), userID, c.Params("id"), body.Done); err != nil {
			return fiber.NewError(fiber.StatusNotFound, err.Error())
		}
		return c.JSON(fiber.Map{"status": "updated"})
	})

	r.Delete("/checklist/:id", authMiddleware, func(c *fiber.Ctx) error {
		userID, _ := c.Locals("user_id").(string)
		if err := svc.RemoveFromChecklist(c.Context(), userID, c.Params("id")); err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		return c.JSON(fiber.Map{"status": "removed"})
	})
}

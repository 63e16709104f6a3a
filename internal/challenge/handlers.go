package challenge

import "github.com/gofiber/fiber/v2"

func RegisterRoutes(r fiber.Router, svc *Service, authMiddleware fiber.Handler) {
	r.Get("/", func(c *fiber.Ctx) error {
		challenges, err := svc.ListActive(c.Context())
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		return c.JSON(challenges)
	})

	r.Post("/", authMiddleware, func(c *fiber.Ctx) error {
		var req Challenge
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		req.CreatedBy, _ = c.Locals("user_id").(string)
		created, err := svc.Create(c.Context(), req)
		if err == ErrInvalidWindow {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		return c.Status(fiber.StatusCreated).JSON(created)
	})

	r.Post("/:id/join", authMiddleware, func(c *fiber.Ctx) error {
		userID, _ := c.Locals("user_id").(string)
		if err := svc.Join(c.Context(), c.Params("id"), userID); err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		return c.Status(fiber.StatusCreated).JSON(fiber.Map{"status": "joined"})
	})

	r.Delete("/:id/join", authMiddleware, func(c *fiber.Ctx) error {
		userID, _ := c.Locals("user_id").(string)
		if err := svc.Leave(c.Context(), c.Params("id"), userID); err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		return c.JSON(fiber.Map{"status": "left"})
	})

	r.Get("/:id/progress", authMiddleware, func(c *fiber.Ctx) error {
		userID, _ := c.Locals("user_id").(string)
		progress, err := svc.Progress(c.Context(), c.Params("id"), userID)
		if err != nil {
			return fiber.NewError(fiber.StatusNotFound, "challenge not found")
		}
		return c.JSON(progress)
	})

	r.Get("/:id/leaderboard", func(c *fiber.Ctx) error {
		entries, err := svc.Leaderboard(c.Context(), c.Params("id"))
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		return c.JSON(entries)
	})
}

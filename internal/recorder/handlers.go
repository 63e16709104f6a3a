package recorder

import (
	"errors"

	"backend-runtrack/internal/location"

	"github.com/gofiber/fiber/v2"
)

func RegisterRoutes(r fiber.Router, m *Manager, authMiddleware fiber.Handler) {
	r.Post("/open", authMiddleware, func(c *fiber.Ctx) error {
		if err := m.Open(c.Context(), userID(c)); err != nil {
			return httpError(err)
		}
		return c.JSON(fiber.Map{"status": "open"})
	})

	r.Post("/close", authMiddleware, func(c *fiber.Ctx) error {
		m.Close(userID(c))
		return c.JSON(fiber.Map{"status": "closed"})
	})

	r.Post("/start", authMiddleware, func(c *fiber.Ctx) error {
		if err := m.Start(c.Context(), userID(c)); err != nil {
			return httpError(err)
		}
		snapshot, _ := m.Snapshot(userID(c))
		return c.JSON(snapshot)
	})

	r.Post("/stop", authMiddleware, func(c *fiber.Ctx) error {
		summary, err := m.Stop(userID(c))
		if err != nil {
			return httpError(err)
		}
		return c.JSON(summary)
	})

	r.Post("/save", authMiddleware, func(c *fiber.Ctx) error {
		routeID, err := m.ConfirmSave(c.Context(), userID(c))
		if err != nil {
			return httpError(err)
		}
		return c.Status(fiber.StatusCreated).JSON(fiber.Map{"route_id": routeID})
	})

	r.Post("/discard", authMiddleware, func(c *fiber.Ctx) error {
		if err := m.Discard(userID(c)); err != nil {
			return httpError(err)
		}
		return c.JSON(fiber.Map{"status": "discarded"})
	})

	r.Get("/state", authMiddleware, func(c *fiber.Ctx) error {
		snapshot, err := m.Snapshot(userID(c))
		if err != nil {
			return httpError(err)
		}
		return c.JSON(snapshot)
	})

	r.Post("/fixes", authMiddleware, func(c *fiber.Ctx) error {
		var fix location.GeoFix
		if err := c.BodyParser(&fix); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid fix payload")
		}
		if err := m.PushFix(userID(c), fix); err != nil {
			return httpError(err)
		}
		return c.Status(fiber.StatusAccepted).JSON(fiber.Map{"status": "accepted"})
	})
}

func userID(c *fiber.Ctx) string {
	id, _ := c.Locals("user_id").(string)
	return id
}

func httpError(err error) *fiber.Error {
	switch {
	case errors.Is(err, location.ErrPermissionDenied), errors.Is(err, location.ErrUnavailable):
		return fiber.NewError(fiber.StatusServiceUnavailable, err.Error())
	case errors.Is(err, ErrInvalidRoute),
		errors.Is(err, ErrAlreadyRecording),
		errors.Is(err, ErrNotRecording),
		errors.Is(err, ErrNoPendingRoute),
		errors.Is(err, ErrNotOpen):
		return fiber.NewError(fiber.StatusConflict, err.Error())
	case errors.Is(err, ErrPrecondition):
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	case errors.Is(err, ErrSaveFailed):
		return fiber.NewError(fiber.StatusBadGateway, err.Error())
	}
	return fiber.NewError(fiber.StatusInternalServerError, err.Error())
}

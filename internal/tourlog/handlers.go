package tourlog

import (
	"errors"

	"github.com/gofiber/fiber/v2"
)

// RegisterRoutes mounts /tours/:id/logs and /logs on r.
func RegisterRoutes(r fiber.Router, svc *Service, authMiddleware fiber.Handler) {
	r.Get("/tours/:id/logs", func(c *fiber.Ctx) error {
		logs, err := svc.ListLogsForTour(c.UserContext(), c.Params("id"))
		if err != nil {
			return toFiberError(err)
		}
		return c.JSON(logs)
	})

	r.Post("/tours/:id/logs", authMiddleware, func(c *fiber.Ctx) error {
		var req Input
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		l, err := svc.Create(c.UserContext(), c.Params("id"), req)
		if err != nil {
			return toFiberError(err)
		}
		return c.Status(fiber.StatusCreated).JSON(l)
	})

	logs := r.Group("/logs")

	logs.Get("/:id", func(c *fiber.Ctx) error {
		l, err := svc.Get(c.UserContext(), c.Params("id"))
		if err != nil {
			return toFiberError(err)
		}
		return c.JSON(l)
	})

	logs.Put("/:id", authMiddleware, func(c *fiber.Ctx) error {
		var req Input
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		l, err := svc.Update(c.UserContext(), c.Params("id"), req)
		if err != nil {
			return toFiberError(err)
		}
		return c.JSON(l)
	})

	logs.Post("/:id/upvote", authMiddleware, func(c *fiber.Ctx) error {
		l, err := svc.Upvote(c.UserContext(), c.Params("id"))
		if err != nil {
			return toFiberError(err)
		}
		return c.JSON(l)
	})

	logs.Delete("/:id", authMiddleware, func(c *fiber.Ctx) error {
		if err := svc.Delete(c.UserContext(), c.Params("id")); err != nil {
			return toFiberError(err)
		}
		return c.SendStatus(fiber.StatusNoContent)
	})
}

func toFiberError(err error) error {
	switch {
	case errors.Is(err, ErrValidation):
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	case errors.Is(err, ErrNotFound):
		return fiber.NewError(fiber.StatusNotFound, "tour log not found")
	default:
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}
}

package tour

import (
	"errors"

	"github.com/gofiber/fiber/v2"
)

func RegisterRoutes(r fiber.Router, svc *Service, authMiddleware fiber.Handler) {
	r.Get("/", func(c *fiber.Ctx) error {
		tours, err := svc.List(c.UserContext())
		if err != nil {
			return toFiberError(err)
		}
		return c.JSON(tours)
	})

	r.Post("/", authMiddleware, func(c *fiber.Ctx) error {
		var req Input
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		t, err := svc.Create(c.UserContext(), req)
		if err != nil {
			return toFiberError(err)
		}
		return c.Status(fiber.StatusCreated).JSON(t)
	})

	r.Get("/:id", func(c *fiber.Ctx) error {
		t, err := svc.Get(c.UserContext(), c.Params("id"))
		if err != nil {
			return toFiberError(err)
		}
		return c.JSON(t)
	})

	r.Put("/:id", authMiddleware, func(c *fiber.Ctx) error {
		var req Input
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		t, err := svc.Update(c.UserContext(), c.Params("id"), req)
		if err != nil {
			return toFiberError(err)
		}
		return c.JSON(t)
	})

	r.Delete("/:id", authMiddleware, func(c *fiber.Ctx) error {
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
		return fiber.NewError(fiber.StatusNotFound, "tour not found")
	default:
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}
}

package controllers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"

	"smartshala_go/services"
	"smartshala_go/store"
)

// serviceError maps service-layer failures onto HTTP responses. Collaborator
// failures are not retried here; they surface as 500s with the detail kept
// in the server log.
func serviceError(c *fiber.Ctx, err error) error {
	var vErr *services.ValidationError
	switch {
	case errors.As(err, &vErr):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": vErr.Reason,
		})
	case errors.Is(err, services.ErrUnsupportedRole):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid role",
		})
	case errors.Is(err, store.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Not found",
		})
	case errors.Is(err, services.ErrDuplicateEmail):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error": "Email already registered",
		})
	case errors.Is(err, services.ErrDuplicateRoleID):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error": "Role ID already taken",
		})
	}

	logrus.WithError(err).Error("Request failed")
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"error": "Internal Server Error",
	})
}

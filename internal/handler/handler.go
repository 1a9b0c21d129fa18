package handler

import (
	"errors"

	"go-scanner-ws/internal/service"
	"go-scanner-ws/pkg/validator"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// currentUserID reads the authenticated user id placed in locals by the auth
// middleware.
func currentUserID(c *fiber.Ctx) (uuid.UUID, error) {
	id, ok := c.Locals("user_id").(uuid.UUID)
	if !ok || id == uuid.Nil {
		return uuid.Nil, fiber.NewError(fiber.StatusUnauthorized, "not authenticated")
	}
	return id, nil
}

func parseID(c *fiber.Ctx, param string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Params(param))
	if err != nil {
		return uuid.Nil, fiber.NewError(fiber.StatusBadRequest, "invalid "+param)
	}
	return id, nil
}

// fail maps service errors onto HTTP statuses: unknown resources are 404,
// ownership violations 403, state and input violations 400, the rest 500.
func fail(c *fiber.Ctx, err error) error {
	status := fiber.StatusInternalServerError
	switch {
	case errors.Is(err, service.ErrSessionNotFound),
		errors.Is(err, service.ErrRecordNotFound),
		errors.Is(err, service.ErrBOMNotFound),
		errors.Is(err, service.ErrUserNotFound):
		status = fiber.StatusNotFound
	case errors.Is(err, service.ErrNotOwner):
		status = fiber.StatusForbidden
	case errors.Is(err, service.ErrSessionInactive),
		errors.Is(err, service.ErrCategoryRequired),
		errors.Is(err, service.ErrBOMIDRequired),
		errors.Is(err, service.ErrCategoryMismatch),
		errors.Is(err, service.ErrEmailTaken),
		errors.Is(err, validator.ErrValidation):
		status = fiber.StatusBadRequest
	case errors.Is(err, service.ErrInvalidCredentials),
		errors.Is(err, service.ErrUserInactive):
		status = fiber.StatusUnauthorized
	}
	return c.Status(status).JSON(fiber.Map{"error": err.Error()})
}

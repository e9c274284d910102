package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/ecolend-api/internal/application/dto"
	"github.com/jhoicas/ecolend-api/internal/domain"
)

// LocalError guarda el error de un 5xx para que lo registre el logger de peticiones.
const LocalError = "request_error"

// writeError traduce un error de aplicación a status + dto.ErrorResponse.
func writeError(c *fiber.Ctx, err error) error {
	status, code, msg := classify(err)
	if status >= fiber.StatusInternalServerError {
		c.Locals(LocalError, err)
	}
	return c.Status(status).JSON(dto.ErrorResponse{Code: code, Message: msg})
}

func classify(err error) (status int, code, msg string) {
	switch {
	case errors.Is(err, domain.ErrUnknownRole):
		return fiber.StatusBadRequest, "UNKNOWN_ROLE", err.Error()
	case errors.Is(err, domain.ErrInvalidInput):
		return fiber.StatusBadRequest, "VALIDATION", err.Error()
	case errors.Is(err, domain.ErrNotFound):
		return fiber.StatusNotFound, "NOT_FOUND", err.Error()
	case errors.Is(err, domain.ErrUnauthorized):
		return fiber.StatusUnauthorized, "UNAUTHORIZED", "invalid credentials"
	case errors.Is(err, domain.ErrForbidden):
		return fiber.StatusForbidden, "FORBIDDEN", "operation not allowed"
	case errors.Is(err, domain.ErrEmailAlreadyExists):
		return fiber.StatusConflict, "EMAIL_EXISTS", err.Error()
	case errors.Is(err, domain.ErrInsufficientAvailability):
		return fiber.StatusConflict, "INSUFFICIENT_AVAILABILITY", err.Error()
	case errors.Is(err, domain.ErrEquipmentDiscarded):
		return fiber.StatusConflict, "EQUIPMENT_DISCARDED", err.Error()
	case errors.Is(err, domain.ErrLoanNotActive):
		return fiber.StatusConflict, "LOAN_NOT_ACTIVE", err.Error()
	case errors.Is(err, domain.ErrEquipmentHasActiveLoans):
		return fiber.StatusConflict, "EQUIPMENT_HAS_ACTIVE_LOANS", err.Error()
	case errors.Is(err, domain.ErrConflict):
		return fiber.StatusConflict, "CONFLICT", err.Error()
	}
	var fe *fiber.Error
	if errors.As(err, &fe) {
		return fe.Code, "HTTP_ERROR", fe.Message
	}
	return fiber.StatusInternalServerError, "INTERNAL", "internal server error"
}

// ErrorHandler para fiber.Config: rutas inexistentes, cuerpos demasiado grandes, panics recuperados.
func ErrorHandler(c *fiber.Ctx, err error) error {
	return writeError(c, err)
}

func badBody(c *fiber.Ctx) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "invalid request body"})
}

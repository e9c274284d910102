package http

import (
	"context"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/ecolend-api/internal/application/dto"
	"github.com/jhoicas/ecolend-api/internal/domain/entity"
)

// permissionChecker es el contrato mínimo que necesita el middleware; lo implementa *usecase.UserUseCase.
type permissionChecker interface {
	HasPermission(ctx context.Context, userID string, p entity.Permission) (bool, error)
}

// RequirePermission verifica contra la base de datos que el usuario del token conserve el permiso.
// Debe usarse DESPUÉS de AuthMiddleware.
//
// Comportamiento:
//   - 401 Unauthorized → no hay usuario en el contexto.
//   - 403 Forbidden → el usuario no tiene el permiso o está inactivo.
//   - 503 Service Unavailable → fallo al consultar los roles.
func RequirePermission(p entity.Permission, checker permissionChecker) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID := GetUserID(c)
		if userID == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
				Code:    "UNAUTHORIZED",
				Message: "usuario no encontrado en el token",
			})
		}

		ok, err := checker.HasPermission(c.UserContext(), userID, p)
		if err != nil {
			c.Locals(LocalError, err)
			return c.Status(fiber.StatusServiceUnavailable).JSON(dto.ErrorResponse{
				Code:    "PERMISSION_CHECK_FAILED",
				Message: "no se pudo verificar el permiso, intente más tarde",
			})
		}
		if !ok {
			return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{
				Code:    "FORBIDDEN",
				Message: "se requiere el permiso " + string(p),
			})
		}
		return c.Next()
	}
}

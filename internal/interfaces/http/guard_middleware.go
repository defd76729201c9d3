package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/Obras-api/internal/application/auth"
	"github.com/jhoicas/Obras-api/internal/application/dto"
	"github.com/jhoicas/Obras-api/internal/domain"
	"github.com/jhoicas/Obras-api/internal/domain/entity"
)

// RequireSession exige una sesión. Debe usarse DESPUÉS de SessionMiddleware.
func RequireSession() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if err := auth.EnsureSession(GetSession(c)); err != nil {
			return HandleGuardError(c, err)
		}
		return c.Next()
	}
}

// RequireRole exige una sesión cuyo rol esté en roles. Debe usarse DESPUÉS de SessionMiddleware.
//
//   - 401 Unauthorized → no hay sesión.
//   - 403 Forbidden    → el rol no está permitido.
func RequireRole(roles ...entity.Role) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if err := auth.EnsureRole(GetSession(c), roles...); err != nil {
			return HandleGuardError(c, err)
		}
		return c.Next()
	}
}

// HandleGuardError es el único traductor de fallos de autorización a HTTP.
// Ningún handler debe armar estas respuestas a mano.
func HandleGuardError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, domain.ErrUnauthorized):
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Error: "Unauthorized"})
	case errors.Is(err, domain.ErrForbidden):
		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Error: "Forbidden"})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Error: "Server error"})
	}
}

// ErrorHandler para fiber.Config: errores no manejados salen con el mismo cuerpo {"error": ...}.
func ErrorHandler(c *fiber.Ctx, err error) error {
	var fe *fiber.Error
	if errors.As(err, &fe) {
		return c.Status(fe.Code).JSON(dto.ErrorResponse{Error: fe.Message})
	}
	if errors.Is(err, domain.ErrUnauthorized) || errors.Is(err, domain.ErrForbidden) {
		return HandleGuardError(c, err)
	}
	return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Error: "Server error"})
}

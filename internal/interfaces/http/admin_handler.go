package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/Obras-api/internal/application/auth"
	"github.com/jhoicas/Obras-api/internal/application/dto"
	"github.com/jhoicas/Obras-api/internal/domain"
	"github.com/jhoicas/Obras-api/internal/domain/entity"
)

// AdminHandler rutas de diagnóstico de roles.
type AdminHandler struct {
	uc *auth.AuthUseCase
}

// NewAdminHandler construye el handler.
func NewAdminHandler(uc *auth.AuthUseCase) *AdminHandler {
	return &AdminHandler{uc: uc}
}

// UserRole godoc
// @Summary      Rol vigente de un usuario (lo que verá el próximo refresco de sesión)
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Param        email  path  string  true  "Email del usuario"
// @Success      200  {object}  dto.RoleProjectionResponse
// @Failure      401  {object}  dto.ErrorResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/admin/users/{email}/role [get]
//
// El grupo /api/admin ya aplica RequireRole(ADMIN).
func (h *AdminHandler) UserRole(c *fiber.Ctx) error {
	out, err := h.uc.RoleProjection(c.UserContext(), c.Params("email"))
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidInput):
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "email es requerido", Code: "MISSING_EMAIL"})
		case errors.Is(err, domain.ErrNotFound):
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Error: "usuario no encontrado", Code: "NOT_FOUND"})
		default:
			return c.Status(fiber.StatusServiceUnavailable).JSON(dto.ErrorResponse{Error: "no se pudo consultar el store, intente más tarde", Code: "STORE_UNAVAILABLE"})
		}
	}
	return c.JSON(out)
}

// CoordinationPing godoc
// @Summary      Ruta mínima para coordinadores y administradores
// @Tags         coordinacion
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  map[string]interface{}
// @Failure      401  {object}  dto.ErrorResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Router       /api/coordinacion/ping [get]
func (h *AdminHandler) CoordinationPing(c *fiber.Ctx) error {
	s := GetSession(c)
	if err := auth.EnsureRole(s, entity.RoleAdmin, entity.RoleCoordinador); err != nil {
		return HandleGuardError(c, err)
	}
	return c.JSON(fiber.Map{"ok": true, "role": s.User.Role, "approved": s.User.Approved})
}

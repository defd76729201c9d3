package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/Obras-api/internal/application/auth"
	"github.com/jhoicas/Obras-api/internal/application/dto"
	"github.com/jhoicas/Obras-api/internal/domain"
)

// AuthHandler maneja login, logout y consulta de sesión.
type AuthHandler struct {
	uc     *auth.AuthUseCase
	cookie CookieConfig
}

// NewAuthHandler construye el handler de auth.
func NewAuthHandler(uc *auth.AuthUseCase, cookie CookieConfig) *AuthHandler {
	return &AuthHandler{uc: uc, cookie: cookie}
}

// Login godoc
// @Summary      Iniciar sesión
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body  dto.LoginRequest  true  "email, password"
// @Success      200   {object}  dto.LoginResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      401   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Router       /api/auth/login [post]
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var in dto.LoginRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "Datos inválidos", Code: "INVALID_INPUT"})
	}
	out, err := h.uc.Login(c.UserContext(), in)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidInput):
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "Datos inválidos", Code: "INVALID_INPUT"})
		case errors.Is(err, domain.ErrInvalidCredentials):
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Error: "Credenciales inválidas", Code: "INVALID_CREDENTIALS"})
		case errors.Is(err, domain.ErrPendingApproval):
			return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Error: "Cuenta pendiente de aprobación", Code: "PENDING_APPROVAL"})
		default:
			return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Error: "Server error", Code: "INTERNAL"})
		}
	}
	setSessionCookie(c, h.cookie, out.Token)
	return c.JSON(out)
}

// Logout godoc
// @Summary      Cerrar sesión (borra la cookie; el token no se revoca en servidor)
// @Tags         auth
// @Success      204
// @Router       /api/auth/logout [post]
//
// Se registra fuera de SessionMiddleware: cerrar sesión no debe emitir un token renovado.
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	c.Response().Header.Del(HeaderSessionToken)
	clearSessionCookie(c, h.cookie)
	return c.SendStatus(fiber.StatusNoContent)
}

// Session godoc
// @Summary      Sesión actual
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  entity.SessionView
// @Failure      401  {object}  dto.ErrorResponse
// @Router       /api/auth/session [get]
func (h *AuthHandler) Session(c *fiber.Ctx) error {
	s := GetSession(c)
	if err := auth.EnsureSession(s); err != nil {
		return HandleGuardError(c, err)
	}
	return c.JSON(s)
}

package http

import (
	"context"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/Obras-api/internal/application/auth"
	"github.com/jhoicas/Obras-api/internal/domain/entity"
)

// LocalSession key en c.Locals con la vista de sesión (*entity.SessionView).
const LocalSession = "session"

// HeaderSessionToken devuelve el token re-firmado tras cada refresco.
const HeaderSessionToken = "X-Session-Token"

// CookieConfig cookie que transporta el token de sesión.
type CookieConfig struct {
	Name   string
	Secure bool
	MaxAge time.Duration
}

// sessionAuthenticator es el contrato mínimo que necesita el middleware.
// Lo implementa *auth.AuthUseCase.
type sessionAuthenticator interface {
	Authenticate(ctx context.Context, token string) (*auth.Session, error)
}

// SessionMiddleware lee el token (Bearer o cookie), lo refresca contra el store y deja la
// vista de sesión en c.Locals. El refresco termina antes de que corra cualquier guard.
// Sin token, o con token inválido, la petición sigue sin sesión: los guards responden 401.
func SessionMiddleware(a sessionAuthenticator, cookie CookieConfig) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := tokenFromRequest(c, cookie.Name)
		if token == "" {
			return c.Next()
		}
		s, err := a.Authenticate(c.UserContext(), token)
		if err != nil {
			return c.Next()
		}
		c.Locals(LocalSession, &s.View)
		c.Set(HeaderSessionToken, s.Token)
		setSessionCookie(c, cookie, s.Token)
		return c.Next()
	}
}

// GetSession devuelve la sesión del contexto o nil si no hay.
func GetSession(c *fiber.Ctx) *entity.SessionView {
	s, _ := c.Locals(LocalSession).(*entity.SessionView)
	return s
}

// GetRole devuelve el rol de la sesión del contexto ("" sin sesión).
func GetRole(c *fiber.Ctx) entity.Role {
	if s := GetSession(c); s != nil {
		return s.User.Role
	}
	return ""
}

func tokenFromRequest(c *fiber.Ctx, cookieName string) string {
	if h := c.Get(fiber.HeaderAuthorization); h != "" {
		parts := strings.SplitN(h, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
			return strings.TrimSpace(parts[1])
		}
		return ""
	}
	if cookieName == "" {
		return ""
	}
	return c.Cookies(cookieName)
}

func setSessionCookie(c *fiber.Ctx, cfg CookieConfig, token string) {
	if cfg.Name == "" {
		return
	}
	c.Cookie(&fiber.Cookie{
		Name:     cfg.Name,
		Value:    token,
		Path:     "/",
		Expires:  time.Now().Add(cfg.MaxAge),
		Secure:   cfg.Secure,
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
}

// clearSessionCookie expira la cookie con los mismos atributos con que se emitió.
func clearSessionCookie(c *fiber.Ctx, cfg CookieConfig) {
	if cfg.Name == "" {
		return
	}
	c.Cookie(&fiber.Cookie{
		Name:     cfg.Name,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		Secure:   cfg.Secure,
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
}

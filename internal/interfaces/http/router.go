package http

import (
	"net/http"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/jhoicas/Obras-api/internal/application/auth"
	"github.com/jhoicas/Obras-api/internal/domain/entity"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC  *auth.AuthUseCase
	Cookie  CookieConfig
	Metrics http.Handler // opcional: expone /metrics
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	if deps.Metrics != nil {
		app.Get("/metrics", adaptor.HTTPHandler(deps.Metrics))
	}

	authHandler := NewAuthHandler(deps.AuthUC, deps.Cookie)

	// Logout va antes del grupo para que SessionMiddleware no refresque ni re-firme.
	app.Post("/api/auth/logout", authHandler.Logout)

	api := app.Group("/api", SessionMiddleware(deps.AuthUC, deps.Cookie))

	// Auth (público)
	authGroup := api.Group("/auth")
	authGroup.Post("/login", authHandler.Login)
	authGroup.Get("/session", authHandler.Session)

	adminHandler := NewAdminHandler(deps.AuthUC)

	// Admin: todo el grupo exige ADMIN
	admin := api.Group("/admin", RequireRole(entity.RoleAdmin))
	admin.Get("/users/:email/role", adminHandler.UserRole)

	// Coordinación: el handler aplica EnsureRole al inicio
	api.Get("/coordinacion/ping", adminHandler.CoordinationPing)
}

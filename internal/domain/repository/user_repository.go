package repository

import (
	"context"

	"github.com/jhoicas/Obras-api/internal/domain/entity"
)

// CredentialStore puerto de lectura de credenciales y roles (DIP).
// Lo implementan los adaptadores de PostgreSQL y MongoDB con la misma semántica de campos.
// Ambos métodos devuelven (nil, nil) cuando el email no existe.
type CredentialStore interface {
	FindUserByEmail(ctx context.Context, email string) (*entity.User, error)
	FindRoleProjection(ctx context.Context, email string) (*entity.RoleProjection, error)
}

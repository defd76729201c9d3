package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/Obras-api/internal/domain/entity"
	"github.com/jhoicas/Obras-api/internal/domain/repository"
)

var _ repository.CredentialStore = (*UserRepo)(nil)

// UserRepo implementación del CredentialStore sobre PostgreSQL (tabla users).
type UserRepo struct {
	q       Querier
	timeout time.Duration
}

// NewUserRepository construye el adaptador. timeout <= 0 deja el límite al contexto del llamador.
func NewUserRepository(q Querier, timeout time.Duration) *UserRepo {
	return &UserRepo{q: q, timeout: timeout}
}

// FindUserByEmail obtiene el registro de credenciales. (nil, nil) si no existe.
func (r *UserRepo) FindUserByEmail(ctx context.Context, email string) (*entity.User, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	query := `
		SELECT id, name, email, password_hash, role, email_verified, settings
		FROM users WHERE email = $1`
	var (
		u             entity.User
		name, hash    *string
		role          *string
		emailVerified *int
		settings      []byte
	)
	err := r.q.QueryRow(ctx, query, email).Scan(&u.ID, &name, &u.Email, &hash, &role, &emailVerified, &settings)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get user by email: %w", err)
	}
	u.Name = deref(name)
	u.PasswordHash = deref(hash)
	u.Role = entity.Role(deref(role))
	if emailVerified != nil {
		u.EmailVerified = *emailVerified
	}
	if u.Settings, err = decodeSettings(settings); err != nil {
		return nil, fmt.Errorf("get user by email: %w", err)
	}
	return &u, nil
}

// FindRoleProjection relee rol, aprobación, nombre y settings. (nil, nil) si no existe.
func (r *UserRepo) FindRoleProjection(ctx context.Context, email string) (*entity.RoleProjection, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	query := `SELECT name, role, email_verified, settings FROM users WHERE email = $1`
	var (
		name, role    *string
		emailVerified *int
		settings      []byte
	)
	err := r.q.QueryRow(ctx, query, email).Scan(&name, &role, &emailVerified, &settings)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get role projection: %w", err)
	}
	approved := emailVerified != nil && *emailVerified == 1
	p := &entity.RoleProjection{
		Role:     entity.Role(deref(role)),
		Approved: &approved,
		Name:     name,
	}
	if p.Settings, err = decodeSettings(settings); err != nil {
		return nil, fmt.Errorf("get role projection: %w", err)
	}
	return p, nil
}

func (r *UserRepo) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if r.timeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, r.timeout)
}

// decodeSettings interpreta la columna jsonb settings. NULL -> nil (ausente).
func decodeSettings(raw []byte) (map[string]any, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	var m map[string]any
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, fmt.Errorf("decodificar settings: %w", err)
	}
	return m, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

package auth

import (
	"github.com/jhoicas/Obras-api/internal/domain"
	"github.com/jhoicas/Obras-api/internal/domain/entity"
)

// EnsureSession falla con domain.ErrUnauthorized si no hay sesión.
func EnsureSession(s *entity.SessionView) error {
	if s == nil {
		return domain.ErrUnauthorized
	}
	return nil
}

// EnsureRole exige sesión y que su rol esté en allowed. Sin efectos secundarios;
// debe ser lo primero en cada operación protegida, antes de buscar recursos.
func EnsureRole(s *entity.SessionView, allowed ...entity.Role) error {
	if err := EnsureSession(s); err != nil {
		return err
	}
	if !s.HasRole(allowed...) {
		return domain.ErrForbidden
	}
	return nil
}

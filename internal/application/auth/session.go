package auth

import (
	"context"
	"fmt"

	"github.com/jhoicas/Obras-api/internal/domain"
	"github.com/jhoicas/Obras-api/internal/domain/entity"
	"github.com/jhoicas/Obras-api/internal/domain/repository"
	"github.com/jhoicas/Obras-api/pkg/logger"
)

// Recorder recibe los resultados de login y refresco para métricas.
type Recorder interface {
	LoginAttempt(outcome string)
	RefreshFailed()
}

type nopRecorder struct{}

func (nopRecorder) LoginAttempt(string) {}
func (nopRecorder) RefreshFailed()      {}

// SessionManager administra el ciclo de vida de los claims del token de sesión.
type SessionManager struct {
	roles    repository.CredentialStore
	recorder Recorder
	log      *logger.Logger
}

// NewSessionManager construye el gestor de sesión. recorder puede ser nil.
func NewSessionManager(roles repository.CredentialStore, recorder Recorder, log *logger.Logger) *SessionManager {
	if recorder == nil {
		recorder = nopRecorder{}
	}
	if log == nil {
		log = logger.Nop()
	}
	return &SessionManager{roles: roles, recorder: recorder, log: log}
}

// Populate mezcla la identidad del login en el token. Se llama una sola vez, al iniciar sesión.
// Un valor definido nunca se reemplaza por uno ausente.
func (m *SessionManager) Populate(tok entity.SessionToken, id *entity.UserIdentity) entity.SessionToken {
	if id == nil {
		return tok
	}
	if id.ID != "" {
		tok.Subject = id.ID
	}
	if id.Email != "" {
		tok.Email = id.Email
	}
	tok.Role = firstRole(id.Role, tok.Role, entity.DefaultRole)
	if id.Name != "" {
		tok.Name = id.Name
	}
	tok.Settings = firstSettings(id.Settings, tok.Settings)
	return tok
}

// Refresh relee rol, aprobación, nombre y settings desde el store.
// Es best-effort: ante cualquier error conserva el token anterior sin cambios.
func (m *SessionManager) Refresh(ctx context.Context, tok entity.SessionToken) entity.SessionToken {
	next, err := m.TryRefresh(ctx, tok)
	if err != nil {
		m.recorder.RefreshFailed()
		m.log.Debug().Err(err).Str("sub", tok.Subject).Msg("refresco de sesión omitido")
		return tok
	}
	return next
}

// TryRefresh es la variante explícita de Refresh: devuelve error envuelto en
// domain.ErrRefreshFailure en lugar de absorberlo. Tokens sin email se devuelven tal cual.
func (m *SessionManager) TryRefresh(ctx context.Context, tok entity.SessionToken) (entity.SessionToken, error) {
	if tok.Email == "" {
		return tok, nil
	}
	proj, err := m.roles.FindRoleProjection(ctx, tok.Email)
	if err != nil {
		return tok, fmt.Errorf("%w: %v", domain.ErrRefreshFailure, err)
	}
	return mergeProjection(tok, proj), nil
}

// mergeProjection aplica la proyección: proyección -> token -> valor por defecto.
// Una proyección nil (usuario inexistente) es una lectura válida y deja approved=false.
func mergeProjection(tok entity.SessionToken, proj *entity.RoleProjection) entity.SessionToken {
	if proj == nil {
		tok.Role = firstRole(tok.Role, entity.DefaultRole)
		tok.Approved = boolPtr(false)
		tok.Settings = firstSettings(tok.Settings)
		return tok
	}
	tok.Role = firstRole(proj.Role, tok.Role, entity.DefaultRole)
	switch {
	case proj.Approved != nil:
		tok.Approved = boolPtr(*proj.Approved)
	case tok.Approved == nil:
		tok.Approved = boolPtr(false)
	}
	if proj.Name != nil && *proj.Name != "" {
		tok.Name = *proj.Name
	}
	tok.Settings = firstSettings(proj.Settings, tok.Settings)
	return tok
}

// Project construye la vista de sesión a partir del token. Función pura y total.
func (m *SessionManager) Project(tok entity.SessionToken) entity.SessionView {
	view := entity.SessionView{User: entity.SessionUser{
		Email:    tok.Email,
		Role:     firstRole(tok.Role, entity.DefaultRole),
		Settings: firstSettings(tok.Settings),
	}}
	if tok.Approved != nil {
		view.User.Approved = *tok.Approved
	}
	if tok.Name != "" {
		view.User.Name = tok.Name
	}
	return view
}

func firstSettings(candidates ...map[string]any) map[string]any {
	for _, s := range candidates {
		if s != nil {
			return s
		}
	}
	return map[string]any{}
}

func boolPtr(b bool) *bool { return &b }

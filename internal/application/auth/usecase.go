package auth

import (
	"context"
	"errors"

	"github.com/jhoicas/Obras-api/internal/application/dto"
	"github.com/jhoicas/Obras-api/internal/domain"
	"github.com/jhoicas/Obras-api/internal/domain/entity"
	"github.com/jhoicas/Obras-api/internal/domain/repository"
	"github.com/jhoicas/Obras-api/pkg/jwt"
	"github.com/jhoicas/Obras-api/pkg/logger"
)

// Resultados de login para métricas.
const (
	OutcomeSuccess            = "success"
	OutcomeInvalidInput       = "invalid_input"
	OutcomeInvalidCredentials = "invalid_credentials"
	OutcomePendingApproval    = "pending_approval"
	OutcomeError              = "error"
)

// AuthUseCase casos de uso de autenticación: login y validación de sesión por petición.
type AuthUseCase struct {
	store    repository.CredentialStore
	verifier *Verifier
	sessions *SessionManager
	signer   *jwt.Signer
	recorder Recorder
}

// Session sesión autenticada de una petición: vista para los handlers y token re-firmado.
type Session struct {
	View  entity.SessionView
	Token string
}

// NewAuthUseCase construye el caso de uso de auth sobre un único CredentialStore.
func NewAuthUseCase(store repository.CredentialStore, signer *jwt.Signer, recorder Recorder, log *logger.Logger) *AuthUseCase {
	if recorder == nil {
		recorder = nopRecorder{}
	}
	if log == nil {
		log = logger.Nop()
	}
	return &AuthUseCase{
		store:    store,
		verifier: NewVerifier(store, log.Component("verifier")),
		sessions: NewSessionManager(store, recorder, log.Component("session")),
		signer:   signer,
		recorder: recorder,
	}
}

// Login verifica email/password, puebla y refresca los claims, y firma el token.
func (uc *AuthUseCase) Login(ctx context.Context, in dto.LoginRequest) (*dto.LoginResponse, error) {
	id, err := uc.verifier.Verify(ctx, in)
	if err != nil {
		uc.recorder.LoginAttempt(outcomeOf(err))
		return nil, err
	}
	tok := uc.sessions.Populate(entity.SessionToken{}, id)
	tok = uc.sessions.Refresh(ctx, tok)

	signed, err := uc.signer.Generate(toClaims(tok))
	if err != nil {
		uc.recorder.LoginAttempt(OutcomeError)
		return nil, err
	}
	uc.recorder.LoginAttempt(OutcomeSuccess)
	return &dto.LoginResponse{Token: signed, Session: uc.sessions.Project(tok)}, nil
}

// Authenticate valida el token de una petición, lo refresca contra el store y lo re-firma.
// Un token inválido o expirado devuelve domain.ErrUnauthorized.
func (uc *AuthUseCase) Authenticate(ctx context.Context, tokenString string) (*Session, error) {
	claims, err := uc.signer.Parse(tokenString)
	if err != nil {
		return nil, domain.ErrUnauthorized
	}
	tok := uc.sessions.Refresh(ctx, fromClaims(claims))
	signed, err := uc.signer.Generate(toClaims(tok))
	if err != nil {
		return nil, err
	}
	return &Session{View: uc.sessions.Project(tok), Token: signed}, nil
}

// RoleProjection devuelve el rol vigente de un usuario tal como lo ve el refresco de sesión.
func (uc *AuthUseCase) RoleProjection(ctx context.Context, email string) (*dto.RoleProjectionResponse, error) {
	if email == "" {
		return nil, domain.ErrInvalidInput
	}
	proj, err := uc.store.FindRoleProjection(ctx, email)
	if err != nil {
		return nil, err
	}
	if proj == nil {
		return nil, domain.ErrNotFound
	}
	out := &dto.RoleProjectionResponse{
		Email:    email,
		Role:     proj.Role,
		Settings: firstSettings(proj.Settings),
	}
	if proj.Approved != nil {
		out.Approved = *proj.Approved
	}
	if proj.Name != nil {
		out.Name = *proj.Name
	}
	return out, nil
}

func outcomeOf(err error) string {
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		return OutcomeInvalidInput
	case errors.Is(err, domain.ErrInvalidCredentials):
		return OutcomeInvalidCredentials
	case errors.Is(err, domain.ErrPendingApproval):
		return OutcomePendingApproval
	default:
		return OutcomeError
	}
}

func toClaims(tok entity.SessionToken) jwt.Claims {
	c := jwt.Claims{
		Email:    tok.Email,
		Role:     string(tok.Role),
		Name:     tok.Name,
		Settings: tok.Settings,
		Approved: tok.Approved,
	}
	c.Subject = tok.Subject
	return c
}

func fromClaims(c *jwt.Claims) entity.SessionToken {
	return entity.SessionToken{
		Subject:  c.Subject,
		Email:    c.Email,
		Role:     entity.Role(c.Role),
		Name:     c.Name,
		Settings: c.Settings,
		Approved: c.Approved,
	}
}

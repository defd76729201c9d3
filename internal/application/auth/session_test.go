package auth_test

import (
	"context"
	"errors"
	"testing"

	"github.com/jhoicas/Obras-api/internal/application/auth"
	"github.com/jhoicas/Obras-api/internal/domain"
	"github.com/jhoicas/Obras-api/internal/domain/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingRecorder struct {
	logins          map[string]int
	refreshFailures int
}

func newCountingRecorder() *countingRecorder {
	return &countingRecorder{logins: map[string]int{}}
}

func (r *countingRecorder) LoginAttempt(outcome string) { r.logins[outcome]++ }
func (r *countingRecorder) RefreshFailed()              { r.refreshFailures++ }

func TestPopulate_ProjectRoundTrip(t *testing.T) {
	m := auth.NewSessionManager(newStubStore(), nil, nil)

	tok := m.Populate(entity.SessionToken{}, &entity.UserIdentity{Role: entity.RoleCoordinador, Name: "Ana"})
	view := m.Project(tok)

	assert.Equal(t, entity.SessionView{User: entity.SessionUser{
		Role:     entity.RoleCoordinador,
		Name:     "Ana",
		Approved: false,
		Settings: map[string]any{},
	}}, view)
}

func TestPopulate_NoPisaValoresConAusentes(t *testing.T) {
	m := auth.NewSessionManager(newStubStore(), nil, nil)
	prev := entity.SessionToken{
		Email:    "ana@x.com",
		Role:     entity.RoleAdmin,
		Name:     "Ana",
		Settings: map[string]any{"tema": "claro"},
	}

	tok := m.Populate(prev, &entity.UserIdentity{})

	assert.Equal(t, entity.RoleAdmin, tok.Role)
	assert.Equal(t, "Ana", tok.Name)
	assert.Equal(t, map[string]any{"tema": "claro"}, tok.Settings)
	assert.Equal(t, "ana@x.com", tok.Email)
}

func TestPopulate_Defaults(t *testing.T) {
	m := auth.NewSessionManager(newStubStore(), nil, nil)

	tok := m.Populate(entity.SessionToken{}, &entity.UserIdentity{ID: "u1", Email: "ana@x.com"})

	assert.Equal(t, entity.RoleVoluntario, tok.Role)
	assert.Empty(t, tok.Name)
	assert.Equal(t, map[string]any{}, tok.Settings)
	assert.Equal(t, "u1", tok.Subject)
	assert.Nil(t, tok.Approved, "populate no decide la aprobación")
}

func TestRefresh_SobrescribeDesdeProyeccion(t *testing.T) {
	store := newStubStore()
	store.projections["ana@x.com"] = &entity.RoleProjection{
		Role:     entity.RoleAdmin,
		Approved: boolPtr(true),
		Name:     strPtr("Ana María"),
		Settings: map[string]any{"idioma": "es"},
	}
	m := auth.NewSessionManager(store, nil, nil)

	tok := m.Refresh(context.Background(), entity.SessionToken{
		Email: "ana@x.com",
		Role:  entity.RoleVoluntario,
		Name:  "Ana",
	})

	assert.Equal(t, entity.RoleAdmin, tok.Role)
	require.NotNil(t, tok.Approved)
	assert.True(t, *tok.Approved)
	assert.Equal(t, "Ana María", tok.Name)
	assert.Equal(t, map[string]any{"idioma": "es"}, tok.Settings)
}

func TestRefresh_CamposAusentesConservanToken(t *testing.T) {
	store := newStubStore()
	store.projections["ana@x.com"] = &entity.RoleProjection{}
	m := auth.NewSessionManager(store, nil, nil)

	tok := m.Refresh(context.Background(), entity.SessionToken{
		Email:    "ana@x.com",
		Role:     entity.RoleCoordinador,
		Name:     "Ana",
		Settings: map[string]any{"tema": "oscuro"},
		Approved: boolPtr(true),
	})

	assert.Equal(t, entity.RoleCoordinador, tok.Role)
	assert.Equal(t, "Ana", tok.Name)
	assert.Equal(t, map[string]any{"tema": "oscuro"}, tok.Settings)
	require.NotNil(t, tok.Approved)
	assert.True(t, *tok.Approved)
}

func TestRefresh_SinNadaUsaDefaults(t *testing.T) {
	store := newStubStore()
	store.projections["ana@x.com"] = &entity.RoleProjection{}
	m := auth.NewSessionManager(store, nil, nil)

	tok := m.Refresh(context.Background(), entity.SessionToken{Email: "ana@x.com"})

	assert.Equal(t, entity.RoleVoluntario, tok.Role)
	require.NotNil(t, tok.Approved)
	assert.False(t, *tok.Approved)
	assert.Equal(t, map[string]any{}, tok.Settings)
}

func TestRefresh_Idempotente(t *testing.T) {
	store := newStubStore()
	store.addUser(t, "ana@x.com", "secret1", entity.RoleCoordinador, 1)
	m := auth.NewSessionManager(store, nil, nil)
	start := entity.SessionToken{Email: "ana@x.com", Role: entity.RoleVoluntario}

	first := m.Refresh(context.Background(), start)
	second := m.Refresh(context.Background(), first)

	assert.Equal(t, first, second)
	assert.Equal(t, first, m.Refresh(context.Background(), start))
}

func TestRefresh_ErrorDelStore_TokenSinCambios(t *testing.T) {
	store := newStubStore()
	store.projErr = errors.New("connection refused")
	rec := newCountingRecorder()
	m := auth.NewSessionManager(store, rec, nil)
	prev := entity.SessionToken{
		Email:    "ana@x.com",
		Role:     entity.RoleAdmin,
		Approved: boolPtr(true),
		Name:     "Ana",
	}

	tok := m.Refresh(context.Background(), prev)

	assert.Equal(t, prev, tok, "un fallo de refresco no debe desaprobar ni cambiar el token")
	assert.Equal(t, 1, rec.refreshFailures)
}

func TestTryRefresh_ErrorEnvuelto(t *testing.T) {
	store := newStubStore()
	store.projErr = context.DeadlineExceeded
	m := auth.NewSessionManager(store, nil, nil)
	prev := entity.SessionToken{Email: "ana@x.com", Role: entity.RoleAdmin}

	tok, err := m.TryRefresh(context.Background(), prev)

	assert.ErrorIs(t, err, domain.ErrRefreshFailure)
	assert.Equal(t, prev, tok)
}

func TestRefresh_TokenSinEmailPasaSinConsultar(t *testing.T) {
	store := newStubStore()
	m := auth.NewSessionManager(store, nil, nil)
	prev := entity.SessionToken{Role: entity.RoleAdmin}

	tok := m.Refresh(context.Background(), prev)

	assert.Equal(t, prev, tok)
	assert.Zero(t, store.calls())
}

func TestRefresh_UsuarioEliminado_QuedaSinAprobar(t *testing.T) {
	m := auth.NewSessionManager(newStubStore(), nil, nil)

	tok := m.Refresh(context.Background(), entity.SessionToken{
		Email:    "borrado@x.com",
		Role:     entity.RoleCoordinador,
		Approved: boolPtr(true),
	})

	require.NotNil(t, tok.Approved)
	assert.False(t, *tok.Approved)
	assert.Equal(t, entity.RoleCoordinador, tok.Role)
}

func TestProject_Defaults(t *testing.T) {
	m := auth.NewSessionManager(newStubStore(), nil, nil)

	view := m.Project(entity.SessionToken{})

	assert.Equal(t, entity.RoleVoluntario, view.User.Role)
	assert.False(t, view.User.Approved)
	assert.Equal(t, map[string]any{}, view.User.Settings)
	assert.Empty(t, view.User.Name)
}

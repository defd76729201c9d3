package auth_test

import (
	"context"
	"sync"
	"testing"

	"github.com/jhoicas/Obras-api/internal/domain/entity"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

// stubStore CredentialStore en memoria que cuenta las llamadas.
type stubStore struct {
	mu          sync.Mutex
	users       map[string]*entity.User
	projections map[string]*entity.RoleProjection

	userErr error
	projErr error

	userCalls int
	projCalls int
}

func newStubStore() *stubStore {
	return &stubStore{
		users:       map[string]*entity.User{},
		projections: map[string]*entity.RoleProjection{},
	}
}

func (s *stubStore) FindUserByEmail(_ context.Context, email string) (*entity.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.userCalls++
	if s.userErr != nil {
		return nil, s.userErr
	}
	return s.users[email], nil
}

func (s *stubStore) FindRoleProjection(_ context.Context, email string) (*entity.RoleProjection, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.projCalls++
	if s.projErr != nil {
		return nil, s.projErr
	}
	return s.projections[email], nil
}

func (s *stubStore) calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.userCalls + s.projCalls
}

// addUser registra usuario y proyección coherentes, como lo haría el store real.
func (s *stubStore) addUser(t *testing.T, email, password string, role entity.Role, verified int) *entity.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	u := &entity.User{
		ID:            "user-" + email,
		Email:         email,
		PasswordHash:  string(hash),
		Role:          role,
		EmailVerified: verified,
	}
	approved := verified == 1
	s.users[email] = u
	s.projections[email] = &entity.RoleProjection{Role: role, Approved: &approved}
	return u
}

func strPtr(s string) *string { return &s }
func boolPtr(b bool) *bool    { return &b }

package auth

import (
	"context"
	"errors"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/jhoicas/Obras-api/internal/application/dto"
	"github.com/jhoicas/Obras-api/internal/domain"
	"github.com/jhoicas/Obras-api/internal/domain/entity"
	"github.com/jhoicas/Obras-api/internal/domain/repository"
	"github.com/jhoicas/Obras-api/pkg/logger"
	"golang.org/x/crypto/bcrypt"
)

// dummyHash se compara cuando no hay hash real, para que email inexistente y
// password incorrecto cuesten lo mismo.
var dummyHash = sync.OnceValue(func() []byte {
	h, err := bcrypt.GenerateFromPassword([]byte("obras-password-inexistente"), bcrypt.DefaultCost)
	if err != nil {
		panic("generar hash de relleno: " + err.Error())
	}
	return h
})

// Verifier valida email/password contra el CredentialStore.
type Verifier struct {
	store    repository.CredentialStore
	validate *validator.Validate
	compare  func(hash, password []byte) error
	log      *logger.Logger
}

// NewVerifier construye el verificador de credenciales.
func NewVerifier(store repository.CredentialStore, log *logger.Logger) *Verifier {
	if log == nil {
		log = logger.Nop()
	}
	return &Verifier{
		store:    store,
		validate: validator.New(),
		compare:  bcrypt.CompareHashAndPassword,
		log:      log,
	}
}

// Verify comprueba las credenciales y devuelve la identidad del usuario.
//
// Errores:
//   - domain.ErrInvalidInput: forma inválida; no se consulta el store.
//   - domain.ErrInvalidCredentials: email inexistente, sin hash, password incorrecto o fallo del store.
//   - domain.ErrPendingApproval: password correcto pero cuenta no aprobada.
func (v *Verifier) Verify(ctx context.Context, in dto.LoginRequest) (*entity.UserIdentity, error) {
	if err := v.validate.Struct(in); err != nil {
		return nil, domain.ErrInvalidInput
	}

	user, err := v.store.FindUserByEmail(ctx, in.Email)
	if err != nil {
		v.log.Warn().Err(err).Msg("búsqueda de credenciales")
		return nil, domain.ErrInvalidCredentials
	}
	if user == nil || user.PasswordHash == "" {
		_ = v.compare(dummyHash(), []byte(in.Password))
		return nil, domain.ErrInvalidCredentials
	}
	if err := v.compare([]byte(user.PasswordHash), []byte(in.Password)); err != nil {
		if !errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			v.log.Warn().Err(err).Str("user_id", user.ID).Msg("hash de password ilegible")
		}
		return nil, domain.ErrInvalidCredentials
	}
	if !user.Approved() {
		return nil, domain.ErrPendingApproval
	}

	// La proyección es más fresca que el registro; si falla se usa el registro.
	proj, err := v.store.FindRoleProjection(ctx, in.Email)
	if err != nil {
		v.log.Debug().Err(err).Str("user_id", user.ID).Msg("proyección de rol no disponible en login")
		proj = nil
	}
	return identityFrom(user, proj), nil
}

func identityFrom(user *entity.User, proj *entity.RoleProjection) *entity.UserIdentity {
	id := &entity.UserIdentity{
		ID:       user.ID,
		Email:    user.Email,
		Name:     user.Name,
		Role:     firstRole(user.Role, entity.DefaultRole),
		Settings: user.Settings,
	}
	if proj != nil {
		id.Role = firstRole(proj.Role, id.Role)
		if proj.Name != nil {
			id.Name = *proj.Name
		}
		if proj.Settings != nil {
			id.Settings = proj.Settings
		}
	}
	if id.Settings == nil {
		id.Settings = map[string]any{}
	}
	return id
}

func firstRole(roles ...entity.Role) entity.Role {
	for _, r := range roles {
		if r != "" {
			return r
		}
	}
	return ""
}

package entity

// Role rol de un usuario. Conjunto cerrado de tres valores.
type Role string

// Roles válidos para User.
const (
	RoleAdmin       Role = "ADMIN"
	RoleCoordinador Role = "COORDINADOR"
	RoleVoluntario  Role = "VOLUNTARIO"
)

// DefaultRole se asigna cuando ninguna fuente define el rol.
const DefaultRole = RoleVoluntario

// Valid informa si r pertenece al conjunto de roles conocidos.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleCoordinador, RoleVoluntario:
		return true
	}
	return false
}

// User registro de credenciales tal como lo devuelve el store (solo lectura para auth).
type User struct {
	ID            string
	Email         string
	Name          string         // opcional
	PasswordHash  string         // bcrypt; vacío si la cuenta no está aprovisionada
	Role          Role           // vacío si el store no lo tiene
	EmailVerified int            // 1 = aprobado; cualquier otro valor = pendiente
	Settings      map[string]any // opaco para auth
}

// Approved informa si la cuenta puede iniciar sesión.
func (u *User) Approved() bool {
	return u != nil && u.EmailVerified == 1
}

// RoleProjection vista liviana que se relee en cada petición.
// Los campos nil/vacíos significan "el store no lo devolvió".
type RoleProjection struct {
	Role     Role
	Approved *bool
	Name     *string
	Settings map[string]any
}

// UserIdentity resultado de una verificación de credenciales exitosa.
type UserIdentity struct {
	ID       string
	Email    string
	Name     string
	Role     Role
	Settings map[string]any
}

package entity

// SessionToken claims propios del token de sesión firmado.
// Name vacío y Settings nil significan "ausente"; Approved nil significa "nunca refrescado".
type SessionToken struct {
	Subject  string
	Email    string
	Role     Role
	Name     string
	Settings map[string]any
	Approved *bool
}

// SessionUser datos de usuario expuestos a los handlers.
type SessionUser struct {
	Email    string         `json:"email,omitempty"`
	Role     Role           `json:"role"`
	Approved bool           `json:"approved"`
	Name     string         `json:"name,omitempty"`
	Settings map[string]any `json:"settings"`
}

// SessionView vista de solo lectura construida por petición a partir del token.
type SessionView struct {
	User SessionUser `json:"user"`
}

// HasRole informa si la sesión tiene alguno de los roles indicados.
func (s *SessionView) HasRole(roles ...Role) bool {
	if s == nil {
		return false
	}
	for _, r := range roles {
		if s.User.Role == r {
			return true
		}
	}
	return false
}

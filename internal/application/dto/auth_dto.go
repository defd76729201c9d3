package dto

import "github.com/jhoicas/Obras-api/internal/domain/entity"

// LoginRequest entrada para login. Se valida la forma antes de tocar el store.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

// LoginResponse salida con el token de sesión firmado y la vista de sesión.
type LoginResponse struct {
	Token   string             `json:"token"`
	Session entity.SessionView `json:"session"`
}

// RoleProjectionResponse proyección de rol actual de un usuario (diagnóstico admin).
type RoleProjectionResponse struct {
	Email    string         `json:"email"`
	Role     entity.Role    `json:"role,omitempty"`
	Approved bool           `json:"approved"`
	Name     string         `json:"name,omitempty"`
	Settings map[string]any `json:"settings"`
}

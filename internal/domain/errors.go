package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound           = errors.New("recurso no encontrado")
	ErrInvalidInput       = errors.New("datos inválidos")
	ErrInvalidCredentials = errors.New("credenciales inválidas")
	// ErrPendingApproval se distingue de ErrInvalidCredentials a propósito: la UI
	// muestra "cuenta pendiente de aprobación".
	ErrPendingApproval = errors.New("cuenta pendiente de aprobación")
	// ErrRefreshFailure nunca sale del gestor de sesión.
	ErrRefreshFailure = errors.New("no se pudo refrescar la sesión")
	ErrUnauthorized   = errors.New("Unauthorized")
	ErrForbidden      = errors.New("Forbidden")
)

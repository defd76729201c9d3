package dto

// ErrorResponse cuerpo de error HTTP. Error es el mensaje visible; Code es opcional y estable.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

// Package apierror define los sobres de error que la API devuelve a los
// clientes. Todo 4xx/5xx pasa por aquí para no filtrar detalles internos
// (errores de GORM, stack traces, etc.).
package apierror

// APIError es el sobre canónico de error.
type APIError struct {
	Detail string `json:"detail"`
}

func New(msg string) *APIError {
	return &APIError{Detail: msg}
}

func (e *APIError) Error() string { return e.Detail }

// ValidationError agrupa los errores de campo de una petición inválida.
type ValidationError struct {
	Detail string            `json:"detail"`
	Fields map[string]string `json:"fields"`
}

func NewValidation(fields map[string]string) *ValidationError {
	return &ValidationError{Detail: "Error de validacion", Fields: fields}
}

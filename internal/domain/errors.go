package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound             = errors.New("recurso no encontrado")
	ErrInvalidInput         = errors.New("entrada inválida")
	ErrUnauthorized         = errors.New("no autorizado")
	ErrForbidden            = errors.New("acceso denegado")
	ErrTransport            = errors.New("falla de comunicación con el backend")
	ErrRemote               = errors.New("el backend respondió con error")
	ErrMalformedResponse    = errors.New("respuesta del backend con formato inesperado")
	ErrConfirmationRequired = errors.New("confirmación requerida: escriba APAGAR")
)

// RemoteError respuesta no-2xx del backend con el mensaje que envió (campo error o message).
type RemoteError struct {
	Status  int
	Message string
}

func (e *RemoteError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("HTTP %d", e.Status)
	}
	return e.Message
}

// Is permite errors.Is(err, ErrRemote).
func (e *RemoteError) Is(target error) bool { return target == ErrRemote }

// ValidationError falla de validación local; nunca llega a la red.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// Is permite errors.Is(err, ErrInvalidInput).
func (e *ValidationError) Is(target error) bool { return target == ErrInvalidInput }

// NewValidationError construye un ValidationError.
func NewValidationError(msg string) error { return &ValidationError{Message: msg} }

// UserMessage devuelve el texto que se muestra en la vista: el mensaje del servidor
// o de la validación cuando existe, si no el fallback genérico.
func UserMessage(err error, fallback string) string {
	if err == nil {
		return ""
	}
	var remote *RemoteError
	if errors.As(err, &remote) && strings.TrimSpace(remote.Message) != "" {
		return remote.Message
	}
	var invalid *ValidationError
	if errors.As(err, &invalid) && invalid.Message != "" {
		return invalid.Message
	}
	if errors.Is(err, ErrConfirmationRequired) {
		return ErrConfirmationRequired.Error()
	}
	return fallback
}

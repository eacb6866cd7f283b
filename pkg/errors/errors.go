package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Error represents a typed domain error with HTTP awareness.
type Error struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Status  int    `json:"status"`
	Err     error  `json:"-"`
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the wrapped error.
func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// Is matches errors by code so cloned sentinels still compare equal.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) || e == nil || t == nil {
		return false
	}
	return e.Code == t.Code
}

// New creates a new Error instance.
func New(code string, status int, message string) *Error {
	return &Error{Code: code, Status: status, Message: message}
}

// Wrap attaches context to an existing error.
func Wrap(err error, code string, status int, message string) *Error {
	return &Error{Code: code, Status: status, Message: message, Err: err}
}

// Predefined errors for common scenarios.
var (
	ErrInvalidCredentials    = New("INVALID_CREDENTIALS", http.StatusUnauthorized, "credenciales inválidas")
	ErrInactiveAccount       = New("ACCOUNT_INACTIVE", http.StatusForbidden, "cuenta inactiva")
	ErrNotFound              = New("NOT_FOUND", http.StatusNotFound, "recurso no encontrado")
	ErrForbidden             = New("FORBIDDEN", http.StatusForbidden, "No tiene permisos para acceder a esta vista")
	ErrUnauthorized          = New("UNAUTHORIZED", http.StatusUnauthorized, "No autenticado")
	ErrConflict              = New("CONFLICT", http.StatusConflict, "conflicto")
	ErrValidation            = New("VALIDATION_ERROR", http.StatusBadRequest, "datos inválidos")
	ErrInternal              = New("INTERNAL_ERROR", http.StatusInternalServerError, "error interno del servidor")
	ErrCacheMiss             = New("CACHE_MISS", http.StatusNotFound, "cache miss")
	ErrClassifierUnavailable = New("CLASSIFIER_UNAVAILABLE", http.StatusServiceUnavailable, "modelo de predicción no disponible")
)

// FromError normalises any error into an *Error.
func FromError(err error) *Error {
	if err == nil {
		return nil
	}
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return Wrap(err, ErrInternal.Code, ErrInternal.Status, ErrInternal.Message)
}

// Clone returns a copy of the error allowing for message overrides.
func Clone(err *Error, message string) *Error {
	if err == nil {
		return nil
	}
	clone := *err
	if message != "" {
		clone.Message = message
	}
	return &clone
}

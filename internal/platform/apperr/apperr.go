// Package apperr define los tipos de error compartidos entre servicios, storage y handlers.
package apperr

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("conflict")
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
	// ErrBlocked marca una regla de negocio que rechaza la operación (p.ej. borrar con hijos).
	ErrBlocked = errors.New("blocked")
	// ErrReference lo devuelve storage cuando una FK apunta a una fila inexistente.
	ErrReference = errors.New("referenced record does not exist")
)

// Error lleva un mensaje para el cliente de la API y envuelve su tipo.
type Error struct {
	Kind    error
	Message string
}

func (e *Error) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return e.Kind.Error()
}

func (e *Error) Unwrap() error {
	return e.Kind
}

func newf(kind error, format string, args ...any) error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

func Invalid(format string, args ...any) error  { return newf(ErrInvalidInput, format, args...) }
func NotFound(format string, args ...any) error { return newf(ErrNotFound, format, args...) }
func Conflict(format string, args ...any) error { return newf(ErrConflict, format, args...) }
func Blocked(format string, args ...any) error  { return newf(ErrBlocked, format, args...) }

func Reference(format string, args ...any) error {
	return newf(ErrReference, format, args...)
}

func Unauthorized(format string, args ...any) error {
	return newf(ErrUnauthorized, format, args...)
}

func Forbidden(format string, args ...any) error {
	return newf(ErrForbidden, format, args...)
}

// Message devuelve el texto visible para el cliente.
func Message(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Error()
	}
	return err.Error()
}

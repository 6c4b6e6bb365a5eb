package domain

import (
	"errors"
	"fmt"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound                  = errors.New("recurso no encontrado")
	ErrInvalidInput              = errors.New("entrada inválida")
	ErrUnauthorized              = errors.New("no autorizado")
	ErrForbidden                 = errors.New("acceso denegado")
	ErrConflict                  = errors.New("conflicto con el estado actual")
	ErrInvalidTransition         = errors.New("transición de estado inválida")
	ErrAlreadyConfirmed          = errors.New("la orden de trabajo de la semana ya fue confirmada")
	ErrConcurrentConfirmation    = errors.New("confirmación concurrente para la misma semana")
	ErrConcurrentResolution      = errors.New("resolución de faltante en curso para el producto")
	ErrIncompletePicking         = errors.New("hay tiendas con alistamiento incompleto")
	ErrDimensionsExceedFootprint = errors.New("dimensions_exceed_footprint")
)

// ValidationError describe un campo rechazado. errors.Is(err, ErrInvalidInput) es verdadero.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s: %s", ErrInvalidInput.Error(), e.Field, e.Reason)
}

func (e *ValidationError) Unwrap() error { return ErrInvalidInput }

// Invalid construye un ValidationError.
func Invalid(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}

// TransitionError describe una violación de máquina de estados (from -> to).
type TransitionError struct {
	Entity string
	From   string
	To     string
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("%s: %s %s -> %s", ErrInvalidTransition.Error(), e.Entity, e.From, e.To)
}

func (e *TransitionError) Unwrap() error { return ErrInvalidTransition }

// InvalidTransition construye un TransitionError.
func InvalidTransition(entity, from, to string) error {
	return &TransitionError{Entity: entity, From: from, To: to}
}

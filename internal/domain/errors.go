package domain

import (
	"errors"
	"fmt"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound           = errors.New("not found")
	ErrEquipmentNotFound  = fmt.Errorf("equipment %w", ErrNotFound)
	ErrLoanNotFound       = fmt.Errorf("loan %w", ErrNotFound)
	ErrUserNotFound       = fmt.Errorf("user %w", ErrNotFound)
	ErrSupplierNotFound   = fmt.Errorf("supplier %w", ErrNotFound)
	ErrContractNotFound   = fmt.Errorf("contract %w", ErrNotFound)
	ErrInvoiceNotFound    = fmt.Errorf("invoice %w", ErrNotFound)
	ErrEmailAlreadyExists = errors.New("a user with this email already exists")
	ErrInvalidInput       = errors.New("invalid input")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrForbidden          = errors.New("forbidden")
	ErrConflict           = errors.New("conflict with current state")
)

// Reglas de negocio: la entrada tiene forma válida pero el estado actual impide la operación.
// Los mensajes forman parte del contrato visible por el cliente.
var (
	ErrInsufficientAvailability = errors.New("Insufficient equipment available")
	ErrEquipmentDiscarded       = errors.New("Cannot loan discarded equipment")
	ErrLoanNotActive            = errors.New("Loan is not active")
	ErrUnknownRole              = errors.New("Unknown role")
	ErrEquipmentHasActiveLoans  = fmt.Errorf("equipment has active loans: %w", ErrConflict)
)

// ValidationError violación de una invariante de entidad. Siempre recuperable por el caller.
type ValidationError struct {
	Message string
}

// NewValidationError construye un ValidationError con el mensaje dado.
func NewValidationError(msg string) *ValidationError {
	return &ValidationError{Message: msg}
}

func (e *ValidationError) Error() string { return e.Message }

// Is permite errors.Is(err, ErrInvalidInput).
func (e *ValidationError) Is(target error) bool { return target == ErrInvalidInput }

// IsBusinessRule indica si err es un rechazo por regla de negocio.
func IsBusinessRule(err error) bool {
	return errors.Is(err, ErrInsufficientAvailability) ||
		errors.Is(err, ErrEquipmentDiscarded) ||
		errors.Is(err, ErrLoanNotActive) ||
		errors.Is(err, ErrConflict)
}

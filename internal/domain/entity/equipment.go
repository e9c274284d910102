package entity

import (
	"fmt"
	"strings"
	"time"

	"github.com/jhoicas/ecolend-api/internal/domain"
)

// EquipmentStatus estado administrativo del equipo.
type EquipmentStatus string

const (
	EquipmentAvailable   EquipmentStatus = "AVAILABLE"
	EquipmentInUse       EquipmentStatus = "IN_USE"
	EquipmentMaintenance EquipmentStatus = "MAINTENANCE"
	EquipmentDiscarded   EquipmentStatus = "DISCARDED"
)

// Valid indica si el estado es conocido.
func (s EquipmentStatus) Valid() bool {
	switch s {
	case EquipmentAvailable, EquipmentInUse, EquipmentMaintenance, EquipmentDiscarded:
		return true
	}
	return false
}

// Equipment representa un ítem físico del inventario, posiblemente con varias unidades.
// QuantityInUse nunca supera TotalQuantity; la disponibilidad se calcula, no se guarda.
type Equipment struct {
	ID            EquipmentID
	Name          string
	Category      string
	Certification *string
	Status        EquipmentStatus
	TotalQuantity int
	QuantityInUse int
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// NewEquipment valida y construye un Equipment. Se usa al crear y al reconstruir desde la BD.
func NewEquipment(e Equipment) (*Equipment, error) {
	e.Name = strings.TrimSpace(e.Name)
	e.Category = strings.TrimSpace(e.Category)
	e.Certification = trimOptional(e.Certification)
	if e.Name == "" {
		return nil, domain.NewValidationError("Equipment name is required.")
	}
	if e.Category == "" {
		return nil, domain.NewValidationError("Equipment category is required.")
	}
	if !e.Status.Valid() {
		return nil, domain.NewValidationError(fmt.Sprintf("Unknown equipment status: %s", e.Status))
	}
	if e.TotalQuantity < 0 {
		return nil, domain.NewValidationError("Total quantity must be non-negative.")
	}
	if e.QuantityInUse < 0 {
		return nil, domain.NewValidationError("Quantity in use must be non-negative.")
	}
	if e.QuantityInUse > e.TotalQuantity {
		return nil, domain.NewValidationError("Quantity in use cannot exceed total quantity.")
	}
	return &e, nil
}

// QuantityAvailable unidades que no están en préstamos activos.
func (e *Equipment) QuantityAvailable() int {
	return e.TotalQuantity - e.QuantityInUse
}

// CanBeLoanedOut true si no está descartado y queda al menos una unidad.
func (e *Equipment) CanBeLoanedOut() bool {
	return e.Status != EquipmentDiscarded && e.QuantityAvailable() > 0
}

// EquipmentChanges cambios parciales; nil = sin cambio.
// ClearCertification elimina la certificación existente.
type EquipmentChanges struct {
	Name               *string
	Category           *string
	Certification      *string
	ClearCertification bool
	Status             *EquipmentStatus
	TotalQuantity      *int
}

// Update devuelve una copia validada con los cambios aplicados y UpdatedAt = now.
func (e *Equipment) Update(ch EquipmentChanges, now time.Time) (*Equipment, error) {
	next := *e
	if ch.Name != nil {
		next.Name = *ch.Name
	}
	if ch.Category != nil {
		next.Category = *ch.Category
	}
	if ch.ClearCertification {
		next.Certification = nil
	} else if ch.Certification != nil {
		c := *ch.Certification
		next.Certification = &c
	}
	if ch.Status != nil {
		next.Status = *ch.Status
	}
	if ch.TotalQuantity != nil {
		next.TotalQuantity = *ch.TotalQuantity
	}
	next.UpdatedAt = now
	return NewEquipment(next)
}

// Reserve aparta qty unidades para un préstamo. Verifica descarte y disponibilidad.
func (e *Equipment) Reserve(qty int, now time.Time) (*Equipment, error) {
	if qty <= 0 {
		return nil, domain.NewValidationError("Loan quantity must be positive.")
	}
	if e.Status == EquipmentDiscarded {
		return nil, domain.ErrEquipmentDiscarded
	}
	if available := e.QuantityAvailable(); available < qty {
		return nil, fmt.Errorf("%w. Requested: %d, Available: %d", domain.ErrInsufficientAvailability, qty, available)
	}
	next := *e
	next.QuantityInUse += qty
	next.UpdatedAt = now
	return NewEquipment(next)
}

// Release devuelve qty unidades al inventario disponible.
func (e *Equipment) Release(qty int, now time.Time) (*Equipment, error) {
	if qty <= 0 {
		return nil, domain.NewValidationError("Released quantity must be positive.")
	}
	if qty > e.QuantityInUse {
		return nil, domain.NewValidationError(
			fmt.Sprintf("Cannot release %d units: only %d in use.", qty, e.QuantityInUse))
	}
	next := *e
	next.QuantityInUse -= qty
	next.UpdatedAt = now
	return NewEquipment(next)
}

func trimOptional(s *string) *string {
	if s == nil {
		return nil
	}
	t := strings.TrimSpace(*s)
	if t == "" {
		return nil
	}
	return &t
}

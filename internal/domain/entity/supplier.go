package entity

import (
	"fmt"
	"strings"
	"time"

	"github.com/jhoicas/ecolend-api/internal/domain"
)

// SupplierServiceType tipo de servicio prestado por el proveedor.
type SupplierServiceType string

const (
	ServiceEquipment     SupplierServiceType = "EQUIPMENT"
	ServiceMaintenance   SupplierServiceType = "MAINTENANCE"
	ServiceWasteDisposal SupplierServiceType = "WASTE_DISPOSAL"
	ServiceConsulting    SupplierServiceType = "CONSULTING"
)

// SupplierStatus estado del proveedor.
type SupplierStatus string

const (
	SupplierActive   SupplierStatus = "ACTIVE"
	SupplierInactive SupplierStatus = "INACTIVE"
)

// Supplier proveedor de equipos o servicios.
type Supplier struct {
	ID             SupplierID
	Name           string
	ServiceType    SupplierServiceType
	ContactInfo    *string
	Certifications *string
	Status         SupplierStatus
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// NewSupplier valida y normaliza textos.
func NewSupplier(s Supplier) (*Supplier, error) {
	s.Name = strings.TrimSpace(s.Name)
	s.ContactInfo = trimOptional(s.ContactInfo)
	s.Certifications = trimOptional(s.Certifications)
	if s.Name == "" {
		return nil, domain.NewValidationError("Supplier name is required.")
	}
	switch s.ServiceType {
	case ServiceEquipment, ServiceMaintenance, ServiceWasteDisposal, ServiceConsulting:
	default:
		return nil, domain.NewValidationError(fmt.Sprintf("Unknown supplier service type: %s", s.ServiceType))
	}
	if s.Status != SupplierActive && s.Status != SupplierInactive {
		return nil, domain.NewValidationError(fmt.Sprintf("Unknown supplier status: %s", s.Status))
	}
	return &s, nil
}

// SupplierChanges cambios parciales de un proveedor.
type SupplierChanges struct {
	Name           *string
	ServiceType    *SupplierServiceType
	ContactInfo    *string
	Certifications *string
	Status         *SupplierStatus
}

// Update devuelve una copia revalidada con UpdatedAt = now.
func (s *Supplier) Update(ch SupplierChanges, now time.Time) (*Supplier, error) {
	next := *s
	if ch.Name != nil {
		next.Name = *ch.Name
	}
	if ch.ServiceType != nil {
		next.ServiceType = *ch.ServiceType
	}
	if ch.ContactInfo != nil {
		next.ContactInfo = ch.ContactInfo
	}
	if ch.Certifications != nil {
		next.Certifications = ch.Certifications
	}
	if ch.Status != nil {
		next.Status = *ch.Status
	}
	next.UpdatedAt = now
	return NewSupplier(next)
}

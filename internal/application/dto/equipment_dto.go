package dto

import (
	"time"

	"github.com/jhoicas/ecolend-api/internal/domain/entity"
)

// CreateEquipmentRequest alta de equipo. Status vacío = AVAILABLE.
type CreateEquipmentRequest struct {
	Name          string  `json:"name" validate:"required,max=200"`
	Category      string  `json:"category" validate:"required,max=100"`
	Certification *string `json:"certification,omitempty" validate:"omitempty,max=200"`
	Status        string  `json:"status,omitempty" validate:"omitempty,oneof=AVAILABLE IN_USE MAINTENANCE DISCARDED"`
	TotalQuantity int     `json:"total_quantity" validate:"min=0"`
}

// UpdateEquipmentRequest cambios parciales; los campos nil no se tocan.
type UpdateEquipmentRequest struct {
	Name               *string `json:"name,omitempty" validate:"omitempty,max=200"`
	Category           *string `json:"category,omitempty" validate:"omitempty,max=100"`
	Certification      *string `json:"certification,omitempty" validate:"omitempty,max=200"`
	ClearCertification bool    `json:"clear_certification,omitempty"`
	Status             *string `json:"status,omitempty" validate:"omitempty,oneof=AVAILABLE IN_USE MAINTENANCE DISCARDED"`
	TotalQuantity      *int    `json:"total_quantity,omitempty" validate:"omitempty,min=0"`
}

// EquipmentResponse salida de un equipo con la disponibilidad calculada.
type EquipmentResponse struct {
	ID                string    `json:"id"`
	Name              string    `json:"name"`
	Category          string    `json:"category"`
	Certification     *string   `json:"certification,omitempty"`
	Status            string    `json:"status"`
	TotalQuantity     int       `json:"total_quantity"`
	QuantityInUse     int       `json:"quantity_in_use"`
	QuantityAvailable int       `json:"quantity_available"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

// EquipmentFromEntity mapea la entidad a la respuesta.
func EquipmentFromEntity(e *entity.Equipment) EquipmentResponse {
	return EquipmentResponse{
		ID:                string(e.ID),
		Name:              e.Name,
		Category:          e.Category,
		Certification:     optionalString(e.Certification),
		Status:            string(e.Status),
		TotalQuantity:     e.TotalQuantity,
		QuantityInUse:     e.QuantityInUse,
		QuantityAvailable: e.QuantityAvailable(),
		CreatedAt:         e.CreatedAt,
		UpdatedAt:         e.UpdatedAt,
	}
}

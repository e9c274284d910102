package dto

import (
	"time"

	"github.com/jhoicas/ecolend-api/internal/domain/entity"
)

// CreateLoanRequest el prestatario es siempre el usuario autenticado.
type CreateLoanRequest struct {
	EquipmentID string `json:"equipment_id" validate:"required"`
	Quantity    int    `json:"quantity" validate:"required,min=1"`
}

// MarkDamagedRequest comentario obligatorio al reportar daño.
type MarkDamagedRequest struct {
	Comment string `json:"comment" validate:"required,max=1000"`
}

// LoanResponse salida de un préstamo.
type LoanResponse struct {
	ID            string     `json:"id"`
	UserID        string     `json:"user_id"`
	EquipmentID   string     `json:"equipment_id"`
	Quantity      int        `json:"quantity"`
	Status        string     `json:"status"`
	CreatedAt     time.Time  `json:"created_at"`
	ReturnedAt    *time.Time `json:"returned_at,omitempty"`
	DamageComment *string    `json:"damage_comment,omitempty"`
}

// LoanFromEntity mapea la entidad a la respuesta.
func LoanFromEntity(l *entity.Loan) LoanResponse {
	var returnedAt *time.Time
	if l.ReturnedAt != nil {
		t := *l.ReturnedAt
		returnedAt = &t
	}
	return LoanResponse{
		ID:            string(l.ID),
		UserID:        string(l.UserID),
		EquipmentID:   string(l.EquipmentID),
		Quantity:      l.Quantity,
		Status:        string(l.Status),
		CreatedAt:     l.CreatedAt,
		ReturnedAt:    returnedAt,
		DamageComment: optionalString(l.DamageComment),
	}
}

// LoansFromEntities mapea una lista; nunca devuelve nil.
func LoansFromEntities(list []*entity.Loan) []LoanResponse {
	out := make([]LoanResponse, 0, len(list))
	for _, l := range list {
		out = append(out, LoanFromEntity(l))
	}
	return out
}

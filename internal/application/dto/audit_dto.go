package dto

import (
	"time"

	"github.com/jhoicas/ecolend-api/internal/domain/entity"
)

// AuditLogResponse una entrada de auditoría.
type AuditLogResponse struct {
	ID                string         `json:"id"`
	Action            string         `json:"action"`
	EntityType        string         `json:"entity_type"`
	EntityID          *string        `json:"entity_id,omitempty"`
	PerformedByUserID string         `json:"performed_by_user_id"`
	CreatedAt         time.Time      `json:"created_at"`
	Metadata          map[string]any `json:"metadata,omitempty"`
}

// AuditLogListResponse página de auditoría.
type AuditLogListResponse struct {
	Items []AuditLogResponse `json:"items"`
	Page  PageResponse       `json:"page"`
}

// AuditLogFromEntity mapea la entidad.
func AuditLogFromEntity(a *entity.AuditLog) AuditLogResponse {
	return AuditLogResponse{
		ID:                string(a.ID),
		Action:            a.Action,
		EntityType:        a.EntityType,
		EntityID:          optionalString(a.EntityID),
		PerformedByUserID: string(a.PerformedByUserID),
		CreatedAt:         a.CreatedAt,
		Metadata:          a.Metadata,
	}
}

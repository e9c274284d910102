package repository

import (
	"context"

	"github.com/jhoicas/ecolend-api/internal/domain/entity"
)

// AuditLogRepository solo agrega y lista; la auditoría no se modifica ni se borra.
type AuditLogRepository interface {
	Create(ctx context.Context, a *entity.AuditLog) error
	// List ordena por created_at descendente.
	List(ctx context.Context, limit, offset int) ([]*entity.AuditLog, error)
}

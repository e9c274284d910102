package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/ecolend-api/internal/domain/entity"
	"github.com/jhoicas/ecolend-api/internal/domain/repository"
)

var _ repository.AuditLogRepository = (*AuditLogRepo)(nil)

// AuditLogRepo bitácora append-only.
type AuditLogRepo struct {
	db Querier
}

func NewAuditLogRepository(db Querier) *AuditLogRepo {
	return &AuditLogRepo{db: db}
}

// Create inserta la entrada; metadata nil se guarda como NULL.
func (r *AuditLogRepo) Create(ctx context.Context, a *entity.AuditLog) error {
	query := `
		INSERT INTO audit_logs (id, action, entity_type, entity_id, performed_by_user_id, created_at, metadata)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := r.db.Exec(ctx, query,
		string(a.ID), a.Action, a.EntityType, a.EntityID, string(a.PerformedByUserID), a.CreatedAt, a.Metadata,
	)
	if err != nil {
		return fmt.Errorf("insert audit log: %w", err)
	}
	return nil
}

// List entradas más recientes primero.
func (r *AuditLogRepo) List(ctx context.Context, limit, offset int) ([]*entity.AuditLog, error) {
	query := `
		SELECT id, action, entity_type, entity_id, performed_by_user_id, created_at, metadata
		FROM audit_logs
		ORDER BY created_at DESC, id DESC
		LIMIT $1 OFFSET $2`
	rows, err := r.db.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list audit logs: %w", err)
	}
	list, err := collectRows(rows, scanAuditLog)
	if err != nil {
		return nil, fmt.Errorf("scan audit log: %w", err)
	}
	return list, nil
}

func scanAuditLog(row rowScanner) (*entity.AuditLog, error) {
	var (
		id, action, entityType, performedBy string
		entityID                            *string
		createdAt                           time.Time
		metadata                            map[string]any
	)
	if err := row.Scan(&id, &action, &entityType, &entityID, &performedBy, &createdAt, &metadata); err != nil {
		return nil, err
	}
	return entity.NewAuditLog(entity.AuditLog{
		ID:                entity.AuditLogID(id),
		Action:            action,
		EntityType:        entityType,
		EntityID:          entityID,
		PerformedByUserID: entity.UserID(performedBy),
		CreatedAt:         createdAt,
		Metadata:          metadata,
	})
}

// Package audit construye y persiste entradas de la bitácora dentro de la transacción del caso de uso.
package audit

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/ecolend-api/internal/domain/entity"
	"github.com/jhoicas/ecolend-api/internal/domain/repository"
	"github.com/jhoicas/ecolend-api/pkg/ids"
)

// Entry datos de una acción auditada.
type Entry struct {
	Action     string
	EntityType string
	EntityID   string
	By         entity.UserID
	At         time.Time
	Metadata   map[string]any
}

// Record valida y guarda la entrada. Un fallo aquí debe abortar la transacción que la contiene.
func Record(ctx context.Context, repo repository.AuditLogRepository, e Entry) error {
	var entityID *string
	if e.EntityID != "" {
		id := e.EntityID
		entityID = &id
	}
	log, err := entity.NewAuditLog(entity.AuditLog{
		ID:                entity.AuditLogID(ids.NewULID(e.At)),
		Action:            e.Action,
		EntityType:        e.EntityType,
		EntityID:          entityID,
		PerformedByUserID: e.By,
		CreatedAt:         e.At,
		Metadata:          e.Metadata,
	})
	if err != nil {
		return fmt.Errorf("audit %s: %w", e.Action, err)
	}
	return repo.Create(ctx, log)
}

package repository

import (
	"context"

	"github.com/jhoicas/ecolend-api/internal/domain/entity"
)

// EquipmentRepository define el puerto de persistencia para Equipment (DIP).
type EquipmentRepository interface {
	Create(ctx context.Context, e *entity.Equipment) error
	GetByID(ctx context.Context, id entity.EquipmentID) (*entity.Equipment, error)
	// GetByIDForUpdate bloquea la fila (SELECT ... FOR UPDATE). Solo tiene sentido dentro de una transacción.
	GetByIDForUpdate(ctx context.Context, id entity.EquipmentID) (*entity.Equipment, error)
	List(ctx context.Context) ([]*entity.Equipment, error)
	Update(ctx context.Context, e *entity.Equipment) error
	Delete(ctx context.Context, id entity.EquipmentID) error
}

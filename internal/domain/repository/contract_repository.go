package repository

import (
	"context"
	"time"

	"github.com/jhoicas/ecolend-api/internal/domain/entity"
)

type ContractRepository interface {
	Create(ctx context.Context, c *entity.Contract) error
	GetByID(ctx context.Context, id entity.ContractID) (*entity.Contract, error)
	// List filtra por proveedor cuando supplierID no es nil.
	List(ctx context.Context, supplierID *entity.SupplierID) ([]*entity.Contract, error)
	// ExpireEnded marca EXPIRED los contratos ACTIVE cuyo último día terminó antes de now.
	// Devuelve cuántas filas cambiaron.
	ExpireEnded(ctx context.Context, now time.Time) (int64, error)
}

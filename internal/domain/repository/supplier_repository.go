package repository

import (
	"context"

	"github.com/jhoicas/ecolend-api/internal/domain/entity"
)

type SupplierRepository interface {
	Create(ctx context.Context, s *entity.Supplier) error
	GetByID(ctx context.Context, id entity.SupplierID) (*entity.Supplier, error)
	List(ctx context.Context) ([]*entity.Supplier, error)
	Update(ctx context.Context, s *entity.Supplier) error
}

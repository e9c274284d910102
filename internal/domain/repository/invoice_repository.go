package repository

import (
	"context"
	"time"

	"github.com/jhoicas/ecolend-api/internal/domain/entity"
)

// InvoiceRepository define el puerto de persistencia para facturas de proveedor.
type InvoiceRepository interface {
	Create(ctx context.Context, i *entity.Invoice) error
	GetByID(ctx context.Context, id entity.InvoiceID) (*entity.Invoice, error)
	List(ctx context.Context) ([]*entity.Invoice, error)
	// ListRecentOpen últimas `limit` facturas no pagadas, por created_at descendente.
	ListRecentOpen(ctx context.Context, limit int) ([]*entity.Invoice, error)
	Update(ctx context.Context, i *entity.Invoice) error
	// MarkOverdue pasa a OVERDUE las facturas PENDING vencidas antes de now.
	MarkOverdue(ctx context.Context, now time.Time) (int64, error)
}

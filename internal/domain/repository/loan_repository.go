package repository

import (
	"context"

	"github.com/jhoicas/ecolend-api/internal/domain/entity"
)

// LoanRepository define el puerto de persistencia para Loan.
type LoanRepository interface {
	Create(ctx context.Context, l *entity.Loan) error
	GetByID(ctx context.Context, id entity.LoanID) (*entity.Loan, error)
	// GetByIDForUpdate bloquea la fila del préstamo para evitar devoluciones dobles.
	GetByIDForUpdate(ctx context.Context, id entity.LoanID) (*entity.Loan, error)
	ListByUser(ctx context.Context, userID entity.UserID) ([]*entity.Loan, error)
	ListActive(ctx context.Context) ([]*entity.Loan, error)
	ListActiveByEquipment(ctx context.Context, equipmentID entity.EquipmentID) ([]*entity.Loan, error)
	Update(ctx context.Context, l *entity.Loan) error
}

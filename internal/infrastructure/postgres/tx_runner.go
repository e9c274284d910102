package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/ecolend-api/internal/application/finance"
	"github.com/jhoicas/ecolend-api/internal/application/loan"
	"github.com/jhoicas/ecolend-api/internal/application/usecase"
	"github.com/jhoicas/ecolend-api/internal/domain/repository"
)

var (
	_ loan.TxRunner             = (*TxRunner)(nil)
	_ usecase.EquipmentTxRunner = (*TxRunner)(nil)
	_ usecase.IdentityTxRunner  = (*TxRunner)(nil)
	_ finance.FinanceTxRunner   = (*TxRunner)(nil)
)

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL.
type TxRunner struct {
	db TxBeginner
}

// NewTxRunner construye el runner con el pool.
func NewTxRunner(db TxBeginner) *TxRunner {
	return &TxRunner{db: db}
}

// inTx inicia la transacción, ejecuta fn y hace Commit; cualquier error deja el Rollback diferido.
func (r *TxRunner) inTx(ctx context.Context, fn func(tx pgx.Tx) error) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// Run transacción del ciclo de préstamo: equipos, préstamos, prestatario y auditoría.
func (r *TxRunner) Run(ctx context.Context, fn func(
	equipmentRepo repository.EquipmentRepository,
	loanRepo repository.LoanRepository,
	userRepo repository.UserRepository,
	auditRepo repository.AuditLogRepository,
) error) error {
	return r.inTx(ctx, func(tx pgx.Tx) error {
		return fn(NewEquipmentRepository(tx), NewLoanRepository(tx), NewUserRepository(tx), NewAuditLogRepository(tx))
	})
}

// RunEquipment transacción del catálogo de equipos; incluye préstamos para validar el borrado.
func (r *TxRunner) RunEquipment(ctx context.Context, fn func(
	equipmentRepo repository.EquipmentRepository,
	loanRepo repository.LoanRepository,
	auditRepo repository.AuditLogRepository,
) error) error {
	return r.inTx(ctx, func(tx pgx.Tx) error {
		return fn(NewEquipmentRepository(tx), NewLoanRepository(tx), NewAuditLogRepository(tx))
	})
}

// RunIdentity transacción de usuarios y roles.
func (r *TxRunner) RunIdentity(ctx context.Context, fn func(
	userRepo repository.UserRepository,
	auditRepo repository.AuditLogRepository,
) error) error {
	return r.inTx(ctx, func(tx pgx.Tx) error {
		return fn(NewUserRepository(tx), NewAuditLogRepository(tx))
	})
}

// RunFinance transacción del módulo financiero.
func (r *TxRunner) RunFinance(ctx context.Context, fn func(
	supplierRepo repository.SupplierRepository,
	contractRepo repository.ContractRepository,
	invoiceRepo repository.InvoiceRepository,
	expenseRepo repository.ExpenseRepository,
	auditRepo repository.AuditLogRepository,
) error) error {
	return r.inTx(ctx, func(tx pgx.Tx) error {
		return fn(
			NewSupplierRepository(tx), NewContractRepository(tx), NewInvoiceRepository(tx),
			NewExpenseRepository(tx), NewAuditLogRepository(tx),
		)
	})
}

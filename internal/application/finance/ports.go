package finance

import (
	"context"

	"github.com/jhoicas/ecolend-api/internal/domain/repository"
)

// FinanceTxRunner transacción sobre proveedores, contratos, facturas y gastos, con auditoría.
type FinanceTxRunner interface {
	RunFinance(ctx context.Context, fn func(
		supplierRepo repository.SupplierRepository,
		contractRepo repository.ContractRepository,
		invoiceRepo repository.InvoiceRepository,
		expenseRepo repository.ExpenseRepository,
		auditRepo repository.AuditLogRepository,
	) error) error
}

// Repositories lecturas fuera de transacción.
type Repositories struct {
	Suppliers repository.SupplierRepository
	Contracts repository.ContractRepository
	Invoices  repository.InvoiceRepository
	Expenses  repository.ExpenseRepository
}

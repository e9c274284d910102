package finance_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/ecolend-api/internal/application/apptest"
	"github.com/jhoicas/ecolend-api/internal/application/dto"
	"github.com/jhoicas/ecolend-api/internal/application/finance"
	"github.com/jhoicas/ecolend-api/internal/domain"
	"github.com/jhoicas/ecolend-api/internal/domain/entity"
)

var now = time.Date(2025, 7, 1, 9, 0, 0, 0, time.UTC)

func newFacade() (*finance.Facade, *apptest.Store) {
	store := apptest.NewStore()
	store.Now = func() time.Time { return now }
	f := finance.NewFacade(store, finance.Repositories{
		Suppliers: store.Suppliers(),
		Contracts: store.Contracts(),
		Invoices:  store.Invoices(),
		Expenses:  store.Expenses(),
	}).WithClock(func() time.Time { return now })
	return f, store
}

func createSupplier(t *testing.T, f *finance.Facade) string {
	t.Helper()
	s, err := f.CreateSupplier(context.Background(), "admin", dto.CreateSupplierRequest{Name: " Reciclajes del Sur "})
	require.NoError(t, err)
	return s.ID
}

func TestCreateSupplier_ValoresPorDefecto(t *testing.T) {
	f, store := newFacade()
	ctx := context.Background()

	s, err := f.CreateSupplier(ctx, "admin", dto.CreateSupplierRequest{Name: "  EcoMant "})
	require.NoError(t, err)
	assert.Equal(t, "EcoMant", s.Name)
	assert.Equal(t, "EQUIPMENT", s.ServiceType)
	assert.Equal(t, "ACTIVE", s.Status)

	inactive := "INACTIVE"
	updated, err := f.UpdateSupplier(ctx, "admin", s.ID, dto.UpdateSupplierRequest{Status: &inactive})
	require.NoError(t, err)
	assert.Equal(t, "INACTIVE", updated.Status)

	_, err = f.UpdateSupplier(ctx, "admin", "missing", dto.UpdateSupplierRequest{})
	assert.ErrorIs(t, err, domain.ErrSupplierNotFound)

	list, err := f.ListSuppliers(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 1)
	assert.Equal(t, []string{entity.AuditSupplierCreated, entity.AuditSupplierUpdated}, store.AuditActions())
}

func TestCreateContract_EstadoYValidaciones(t *testing.T) {
	f, _ := newFacade()
	ctx := context.Background()
	supplierID := createSupplier(t, f)

	c, err := f.CreateContract(ctx, "admin", dto.CreateContractRequest{
		SupplierID: supplierID, Title: "Mantenimiento", StartDate: "2025-01-01", EndDate: "2025-06-30",
		Value: decimal.RequireFromString("1200.00"), Currency: "cop",
	})
	require.NoError(t, err)
	assert.Equal(t, "EXPIRED", c.Status, "terminó el día anterior")
	assert.Equal(t, "COP", c.Currency)
	assert.Equal(t, "2025-06-30", c.EndDate)

	_, err = f.CreateContract(ctx, "admin", dto.CreateContractRequest{
		SupplierID: "missing", Title: "X", StartDate: "2025-01-01", EndDate: "2025-12-31", Currency: "USD",
	})
	assert.ErrorIs(t, err, domain.ErrSupplierNotFound)

	_, err = f.CreateContract(ctx, "admin", dto.CreateContractRequest{
		SupplierID: supplierID, Title: "X", StartDate: "01/01/2025", EndDate: "2025-12-31", Currency: "USD",
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	list, err := f.ListContracts(ctx, supplierID)
	require.NoError(t, err)
	assert.Len(t, list, 1)
	list, err = f.ListContracts(ctx, "otro")
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestInvoice_CrearYPagar(t *testing.T) {
	f, store := newFacade()
	ctx := context.Background()
	supplierID := createSupplier(t, f)
	c, err := f.CreateContract(ctx, "admin", dto.CreateContractRequest{
		SupplierID: supplierID, Title: "Recolección", StartDate: "2025-01-01", EndDate: "2025-12-31",
		Value: decimal.NewFromInt(500), Currency: "USD",
	})
	require.NoError(t, err)

	inv, err := f.CreateInvoice(ctx, "admin", dto.CreateInvoiceRequest{
		ContractID: c.ID, Amount: decimal.NewFromInt(100), Currency: "usd",
		DueDate: "2025-07-15", DocumentURL: "https://docs.example.com/f-1.pdf",
	})
	require.NoError(t, err)
	assert.Equal(t, supplierID, inv.SupplierID, "el proveedor sale del contrato")
	assert.Equal(t, "PENDING", inv.Status)

	paid, err := f.MarkInvoicePaid(ctx, "admin", inv.ID)
	require.NoError(t, err)
	assert.Equal(t, "PAID", paid.Status)

	_, err = f.MarkInvoicePaid(ctx, "admin", inv.ID)
	assert.ErrorIs(t, err, domain.ErrConflict)
	_, err = f.MarkInvoicePaid(ctx, "admin", "missing")
	assert.ErrorIs(t, err, domain.ErrInvoiceNotFound)

	_, err = f.CreateInvoice(ctx, "admin", dto.CreateInvoiceRequest{
		ContractID: "missing", Amount: decimal.NewFromInt(1), Currency: "USD", DueDate: "2025-07-15", DocumentURL: "https://x",
	})
	assert.ErrorIs(t, err, domain.ErrContractNotFound)

	assert.Contains(t, store.AuditActions(), entity.AuditInvoicePaid)
}

func TestOverview_TotalesPorMoneda(t *testing.T) {
	f, _ := newFacade()
	ctx := context.Background()
	supplierID := createSupplier(t, f)

	for _, v := range []string{"100.50", "200.25"} {
		_, err := f.CreateContract(ctx, "admin", dto.CreateContractRequest{
			SupplierID: supplierID, Title: "C", StartDate: "2025-01-01", EndDate: "2026-01-01",
			Value: decimal.RequireFromString(v), Currency: "COP",
		})
		require.NoError(t, err)
	}
	c, err := f.CreateContract(ctx, "admin", dto.CreateContractRequest{
		SupplierID: supplierID, Title: "D", StartDate: "2025-01-01", EndDate: "2026-01-01",
		Value: decimal.NewFromInt(10), Currency: "USD",
	})
	require.NoError(t, err)

	open, err := f.CreateInvoice(ctx, "admin", dto.CreateInvoiceRequest{ContractID: c.ID, Amount: decimal.NewFromInt(7), Currency: "USD", DueDate: "2025-08-01", DocumentURL: "https://a"})
	require.NoError(t, err)
	paid, err := f.CreateInvoice(ctx, "admin", dto.CreateInvoiceRequest{ContractID: c.ID, Amount: decimal.NewFromInt(3), Currency: "USD", DueDate: "2025-08-01", DocumentURL: "https://b"})
	require.NoError(t, err)
	_, err = f.MarkInvoicePaid(ctx, "admin", paid.ID)
	require.NoError(t, err)

	_, err = f.CreateExpense(ctx, "admin", dto.CreateExpenseRequest{
		SupplierID: supplierID, Category: "transporte", Amount: decimal.NewFromInt(40), Currency: "COP", IncurredAt: now,
	})
	require.NoError(t, err)

	out, err := f.Overview(ctx)
	require.NoError(t, err)
	assert.True(t, decimal.RequireFromString("300.75").Equal(out.ContractsTotalByCurrency["COP"]))
	assert.True(t, decimal.NewFromInt(10).Equal(out.ContractsTotalByCurrency["USD"]))
	assert.True(t, decimal.NewFromInt(40).Equal(out.ExpensesTotalByCurrency["COP"]))
	assert.True(t, decimal.NewFromInt(7).Equal(out.OpenInvoicesTotalByCurrency["USD"]), open.ID)
}

func TestCreateExpense_Validaciones(t *testing.T) {
	f, _ := newFacade()
	ctx := context.Background()
	supplierID := createSupplier(t, f)

	_, err := f.CreateExpense(ctx, "admin", dto.CreateExpenseRequest{SupplierID: supplierID, Category: "x", Currency: "COP"})
	assert.EqualError(t, err, "Expense incurred date is required.")

	_, err = f.CreateExpense(ctx, "admin", dto.CreateExpenseRequest{SupplierID: "missing", Category: "x", Currency: "COP", IncurredAt: now})
	assert.ErrorIs(t, err, domain.ErrSupplierNotFound)

	_, err = f.CreateExpense(ctx, "admin", dto.CreateExpenseRequest{SupplierID: supplierID, Category: "x", Amount: decimal.NewFromInt(-1), Currency: "COP", IncurredAt: now})
	assert.EqualError(t, err, "Expense amount cannot be negative.")
}

func TestRefreshStatuses_PersisteEstadosDerivados(t *testing.T) {
	f, store := newFacade()
	ctx := context.Background()
	supplierID := createSupplier(t, f)

	c, err := f.CreateContract(ctx, "admin", dto.CreateContractRequest{
		SupplierID: supplierID, Title: "Anual", StartDate: "2025-01-01", EndDate: "2025-07-10",
		Value: decimal.NewFromInt(1), Currency: "COP",
	})
	require.NoError(t, err)
	_, err = f.CreateInvoice(ctx, "admin", dto.CreateInvoiceRequest{ContractID: c.ID, Amount: decimal.NewFromInt(1), Currency: "COP", DueDate: "2025-07-05", DocumentURL: "https://a"})
	require.NoError(t, err)

	res, err := f.RefreshStatuses(ctx, now)
	require.NoError(t, err)
	assert.Equal(t, int64(0), res.ContractsExpired)
	assert.Equal(t, int64(0), res.InvoicesOverdue)

	later := time.Date(2025, 7, 11, 0, 0, 1, 0, time.UTC)
	res, err = f.RefreshStatuses(ctx, later)
	require.NoError(t, err)
	assert.Equal(t, int64(1), res.ContractsExpired)
	assert.Equal(t, int64(1), res.InvoicesOverdue)

	res, err = f.RefreshStatuses(ctx, later)
	require.NoError(t, err)
	assert.Equal(t, int64(0), res.ContractsExpired, "idempotente")

	store.Now = func() time.Time { return later }
	invoices, err := f.ListInvoices(ctx)
	require.NoError(t, err)
	require.Len(t, invoices, 1)
	assert.Equal(t, "OVERDUE", invoices[0].Status)
}

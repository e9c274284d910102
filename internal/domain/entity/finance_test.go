package entity_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/ecolend-api/internal/domain"
	"github.com/jhoicas/ecolend-api/internal/domain/entity"
)

func TestNewContract_EstadoDerivadoDeFechas(t *testing.T) {
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	base := entity.Contract{
		ID: "c-1", SupplierID: "s-1", Title: " Mantenimiento anual ",
		StartDate: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC),
		Value:     decimal.RequireFromString("1500.50"), Currency: " cop ",
		Status: entity.ContractActive,
	}

	c, err := entity.NewContract(base, now)
	require.NoError(t, err)
	assert.Equal(t, "Mantenimiento anual", c.Title)
	assert.Equal(t, "COP", c.Currency)
	assert.Equal(t, entity.ContractActive, c.Status, "el último día sigue vigente")

	c, err = entity.NewContract(base, now.Add(24*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, entity.ContractExpired, c.Status)

	terminated := base
	terminated.Status = entity.ContractTerminated
	c, err = entity.NewContract(terminated, now)
	require.NoError(t, err)
	assert.Equal(t, entity.ContractTerminated, c.Status)
}

func TestNewContract_Validaciones(t *testing.T) {
	now := time.Now()
	start := time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC)
	base := entity.Contract{Title: "T", StartDate: start, EndDate: start, Value: decimal.Zero, Currency: "USD"}

	bad := base
	bad.EndDate = start.Add(-24 * time.Hour)
	_, err := entity.NewContract(bad, now)
	assert.EqualError(t, err, "Contract end date cannot be before start date.")

	bad = base
	bad.Value = decimal.NewFromInt(-1)
	_, err = entity.NewContract(bad, now)
	assert.EqualError(t, err, "Contract value cannot be negative.")

	bad = base
	bad.Currency = "  "
	_, err = entity.NewContract(bad, now)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestNewInvoice_Estados(t *testing.T) {
	due := time.Date(2025, 5, 31, 0, 0, 0, 0, time.UTC)
	base := entity.Invoice{ID: "i-1", Amount: decimal.NewFromInt(100), Currency: "eur", DueDate: due, DocumentURL: " https://docs/1.pdf ", Status: entity.InvoicePending}

	inv, err := entity.NewInvoice(base, due.Add(12*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, entity.InvoicePending, inv.Status)
	assert.Equal(t, "EUR", inv.Currency)
	assert.Equal(t, "https://docs/1.pdf", inv.DocumentURL)

	late := due.AddDate(0, 0, 2)
	inv, err = entity.NewInvoice(base, late)
	require.NoError(t, err)
	assert.Equal(t, entity.InvoiceOverdue, inv.Status)
	assert.True(t, inv.IsOpen())

	paid, err := inv.MarkPaid(late)
	require.NoError(t, err)
	assert.Equal(t, entity.InvoicePaid, paid.Status)
	assert.False(t, paid.IsOpen())

	_, err = paid.MarkPaid(late)
	assert.ErrorIs(t, err, domain.ErrConflict)

	noDoc := base
	noDoc.DocumentURL = ""
	_, err = entity.NewInvoice(noDoc, late)
	assert.EqualError(t, err, "Invoice document URL is required.")
}

func TestNewExpenseYSupplier(t *testing.T) {
	_, err := entity.NewExpense(entity.Expense{Amount: decimal.NewFromInt(-5), Category: "x", Currency: "COP"})
	assert.EqualError(t, err, "Expense amount cannot be negative.")

	exp, err := entity.NewExpense(entity.Expense{Amount: decimal.NewFromInt(5), Category: " transporte ", Currency: "cop"})
	require.NoError(t, err)
	assert.Equal(t, "transporte", exp.Category)
	assert.Equal(t, "COP", exp.Currency)

	s, err := entity.NewSupplier(entity.Supplier{Name: " EcoRecicla ", ServiceType: entity.ServiceWasteDisposal, Status: entity.SupplierActive})
	require.NoError(t, err)
	assert.Equal(t, "EcoRecicla", s.Name)

	empty := " "
	_, err = s.Update(entity.SupplierChanges{Name: &empty}, time.Now())
	assert.EqualError(t, err, "Supplier name is required.")

	inactive := entity.SupplierInactive
	updated, err := s.Update(entity.SupplierChanges{Status: &inactive}, time.Now())
	require.NoError(t, err)
	assert.Equal(t, entity.SupplierInactive, updated.Status)
	assert.Equal(t, entity.SupplierActive, s.Status)
}

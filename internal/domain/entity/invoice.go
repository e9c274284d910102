package entity

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/ecolend-api/internal/domain"
)

// InvoiceStatus estado derivado de una factura de proveedor.
type InvoiceStatus string

const (
	InvoicePending InvoiceStatus = "PENDING"
	InvoicePaid    InvoiceStatus = "PAID"
	InvoiceOverdue InvoiceStatus = "OVERDUE"
)

// Invoice factura recibida de un proveedor bajo un contrato.
type Invoice struct {
	ID          InvoiceID
	SupplierID  SupplierID
	ContractID  ContractID
	Amount      decimal.Decimal
	Currency    string
	DueDate     time.Time
	Status      InvoiceStatus
	DocumentURL string
	CreatedAt   time.Time
}

// NewInvoice valida y recalcula el estado: PAID se conserva, vencida -> OVERDUE, si no PENDING.
func NewInvoice(i Invoice, now time.Time) (*Invoice, error) {
	i.Currency = normalizeCurrency(i.Currency)
	i.DocumentURL = strings.TrimSpace(i.DocumentURL)
	if i.Amount.IsNegative() {
		return nil, domain.NewValidationError("Invoice amount cannot be negative.")
	}
	if i.Currency == "" {
		return nil, domain.NewValidationError("Invoice currency is required.")
	}
	if i.DocumentURL == "" {
		return nil, domain.NewValidationError("Invoice document URL is required.")
	}
	i.Status = invoiceStatusAt(i.Status, i.DueDate, now)
	return &i, nil
}

func invoiceStatusAt(stored InvoiceStatus, due, now time.Time) InvoiceStatus {
	if stored == InvoicePaid {
		return InvoicePaid
	}
	if endOfDayUTC(due).Before(now) {
		return InvoiceOverdue
	}
	return InvoicePending
}

// IsOpen true mientras no esté pagada.
func (i *Invoice) IsOpen() bool { return i.Status != InvoicePaid }

// MarkPaid devuelve una copia en estado PAID.
func (i *Invoice) MarkPaid(now time.Time) (*Invoice, error) {
	if !i.IsOpen() {
		return nil, domain.ErrConflict
	}
	next := *i
	next.Status = InvoicePaid
	return NewInvoice(next, now)
}

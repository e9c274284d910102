package entity

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/ecolend-api/internal/domain"
)

// Expense gasto incurrido con un proveedor.
type Expense struct {
	ID          ExpenseID
	ProjectID   *ProjectID
	SupplierID  SupplierID
	Category    string
	Amount      decimal.Decimal
	Currency    string
	IncurredAt  time.Time
	Description *string
	CreatedAt   time.Time
}

// NewExpense valida y normaliza.
func NewExpense(e Expense) (*Expense, error) {
	e.Category = strings.TrimSpace(e.Category)
	e.Description = trimOptional(e.Description)
	e.Currency = normalizeCurrency(e.Currency)
	if e.Amount.IsNegative() {
		return nil, domain.NewValidationError("Expense amount cannot be negative.")
	}
	if e.Category == "" {
		return nil, domain.NewValidationError("Expense category is required.")
	}
	if e.Currency == "" {
		return nil, domain.NewValidationError("Expense currency is required.")
	}
	return &e, nil
}

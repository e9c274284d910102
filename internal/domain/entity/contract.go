package entity

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/ecolend-api/internal/domain"
)

// ContractStatus estado derivado del contrato.
type ContractStatus string

const (
	ContractActive     ContractStatus = "ACTIVE"
	ContractExpired    ContractStatus = "EXPIRED"
	ContractTerminated ContractStatus = "TERMINATED"
)

// Contract contrato con un proveedor, opcionalmente asociado a un proyecto.
type Contract struct {
	ID          ContractID
	SupplierID  SupplierID
	ProjectID   *ProjectID
	Title       string
	Description *string
	StartDate   time.Time
	EndDate     time.Time
	Value       decimal.Decimal
	Currency    string
	Status      ContractStatus
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// NewContract valida, normaliza moneda y recalcula el estado contra now.
// TERMINATED se conserva; si el último día ya pasó queda EXPIRED; si no, ACTIVE.
func NewContract(c Contract, now time.Time) (*Contract, error) {
	c.Title = strings.TrimSpace(c.Title)
	c.Description = trimOptional(c.Description)
	c.Currency = normalizeCurrency(c.Currency)
	if c.Title == "" {
		return nil, domain.NewValidationError("Contract title is required.")
	}
	if c.EndDate.Before(c.StartDate) {
		return nil, domain.NewValidationError("Contract end date cannot be before start date.")
	}
	if c.Value.IsNegative() {
		return nil, domain.NewValidationError("Contract value cannot be negative.")
	}
	if c.Currency == "" {
		return nil, domain.NewValidationError("Contract currency is required.")
	}
	c.Status = contractStatusAt(c.Status, c.EndDate, now)
	return &c, nil
}

func contractStatusAt(stored ContractStatus, end, now time.Time) ContractStatus {
	if stored == ContractTerminated {
		return ContractTerminated
	}
	if endOfDayUTC(end).Before(now) {
		return ContractExpired
	}
	return ContractActive
}

// endOfDayUTC último instante del día (UTC) de t.
func endOfDayUTC(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 23, 59, 59, int(999*time.Millisecond), time.UTC)
}

func normalizeCurrency(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}

package entity

import (
	"fmt"
	"strings"
	"time"

	"github.com/jhoicas/ecolend-api/internal/domain"
)

// LoanStatus estados del préstamo. ACTIVE es el inicial; RETURNED y DAMAGED son terminales.
type LoanStatus string

const (
	LoanActive   LoanStatus = "ACTIVE"
	LoanReturned LoanStatus = "RETURNED"
	LoanDamaged  LoanStatus = "DAMAGED"
)

// Valid indica si el estado es conocido.
func (s LoanStatus) Valid() bool {
	return s == LoanActive || s == LoanReturned || s == LoanDamaged
}

// Loan registro de un usuario que toma N unidades de un equipo.
type Loan struct {
	ID            LoanID
	UserID        UserID
	EquipmentID   EquipmentID
	Quantity      int
	Status        LoanStatus
	CreatedAt     time.Time
	ReturnedAt    *time.Time
	DamageComment *string
}

// NewLoan valida las invariantes del préstamo, también al reconstruir desde la BD.
func NewLoan(l Loan) (*Loan, error) {
	if l.Quantity <= 0 {
		return nil, domain.NewValidationError("Loan quantity must be positive.")
	}
	if !l.Status.Valid() {
		return nil, domain.NewValidationError(fmt.Sprintf("Unknown loan status: %s", l.Status))
	}
	l.DamageComment = trimOptional(l.DamageComment)
	if l.Status == LoanDamaged && l.DamageComment == nil {
		return nil, domain.NewValidationError("Damage comment is required when status is DAMAGED.")
	}
	if l.Status != LoanActive && l.ReturnedAt == nil {
		return nil, domain.NewValidationError("Returned loans must have a returnedAt timestamp.")
	}
	if l.Status == LoanActive && l.ReturnedAt != nil {
		return nil, domain.NewValidationError("Active loans cannot have a returnedAt timestamp.")
	}
	return &l, nil
}

// IsActive true mientras el préstamo no se haya cerrado.
func (l *Loan) IsActive() bool { return l.Status == LoanActive }

// MarkAsReturned ACTIVE -> RETURNED.
func (l *Loan) MarkAsReturned(now time.Time) (*Loan, error) {
	if !l.IsActive() {
		return nil, domain.ErrLoanNotActive
	}
	next := *l
	next.Status = LoanReturned
	next.ReturnedAt = &now
	return NewLoan(next)
}

// MarkAsDamaged ACTIVE -> DAMAGED; el comentario es obligatorio y se guarda recortado.
func (l *Loan) MarkAsDamaged(comment string, now time.Time) (*Loan, error) {
	comment = strings.TrimSpace(comment)
	if comment == "" {
		return nil, domain.NewValidationError("Damage comment is required.")
	}
	if !l.IsActive() {
		return nil, domain.ErrLoanNotActive
	}
	next := *l
	next.Status = LoanDamaged
	next.ReturnedAt = &now
	next.DamageComment = &comment
	return NewLoan(next)
}

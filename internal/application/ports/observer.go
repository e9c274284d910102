package ports

import "github.com/jhoicas/ecolend-api/internal/domain/entity"

// LoanObserver recibe eventos del ciclo de préstamo después del commit.
type LoanObserver interface {
	LoanCreated(l *entity.Loan)
	LoanSettled(l *entity.Loan)
	// LoanRejected op = create|return|damage; reason = clasificación corta del error.
	LoanRejected(op, reason string)
}

// NoopLoanObserver descarta los eventos.
type NoopLoanObserver struct{}

func (NoopLoanObserver) LoanCreated(*entity.Loan)    {}
func (NoopLoanObserver) LoanSettled(*entity.Loan)    {}
func (NoopLoanObserver) LoanRejected(string, string) {}

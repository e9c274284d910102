package entity_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/ecolend-api/internal/domain"
	"github.com/jhoicas/ecolend-api/internal/domain/entity"
)

func activeLoan(t *testing.T) *entity.Loan {
	t.Helper()
	l, err := entity.NewLoan(entity.Loan{
		ID:          "loan-1",
		UserID:      "user-1",
		EquipmentID: "eq-1",
		Quantity:    2,
		Status:      entity.LoanActive,
		CreatedAt:   t0,
	})
	require.NoError(t, err)
	return l
}

func strPtr(s string) *string { return &s }

func TestNewLoan_Invariantes(t *testing.T) {
	returned := t1
	cases := []struct {
		name string
		loan entity.Loan
		msg  string
	}{
		{"cantidad cero", entity.Loan{Quantity: 0, Status: entity.LoanActive}, "Loan quantity must be positive."},
		{"dañado sin comentario", entity.Loan{Quantity: 1, Status: entity.LoanDamaged, ReturnedAt: &returned}, "Damage comment is required when status is DAMAGED."},
		{"dañado con comentario en blanco", entity.Loan{Quantity: 1, Status: entity.LoanDamaged, ReturnedAt: &returned, DamageComment: strPtr("  ")}, "Damage comment is required when status is DAMAGED."},
		{"devuelto sin fecha", entity.Loan{Quantity: 1, Status: entity.LoanReturned}, "Returned loans must have a returnedAt timestamp."},
		{"dañado sin fecha", entity.Loan{Quantity: 1, Status: entity.LoanDamaged, DamageComment: strPtr("roto")}, "Returned loans must have a returnedAt timestamp."},
		{"activo con fecha", entity.Loan{Quantity: 1, Status: entity.LoanActive, ReturnedAt: &returned}, "Active loans cannot have a returnedAt timestamp."},
		{"estado desconocido", entity.Loan{Quantity: 1, Status: "LOST"}, "Unknown loan status: LOST"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			_, err := entity.NewLoan(c.loan)
			assert.ErrorIs(t, err, domain.ErrInvalidInput)
			assert.EqualError(t, err, c.msg)
		})
	}
}

func TestLoan_MarkAsReturned(t *testing.T) {
	l := activeLoan(t)

	returned, err := l.MarkAsReturned(t1)
	require.NoError(t, err)
	assert.Equal(t, entity.LoanReturned, returned.Status)
	require.NotNil(t, returned.ReturnedAt)
	assert.Equal(t, t1, *returned.ReturnedAt)
	assert.False(t, returned.IsActive())

	assert.True(t, l.IsActive(), "el préstamo original sigue activo")
	assert.Nil(t, l.ReturnedAt)
}

func TestLoan_MarkAsDamaged(t *testing.T) {
	l := activeLoan(t)

	damaged, err := l.MarkAsDamaged("  pantalla rota  ", t1)
	require.NoError(t, err)
	assert.Equal(t, entity.LoanDamaged, damaged.Status)
	require.NotNil(t, damaged.DamageComment)
	assert.Equal(t, "pantalla rota", *damaged.DamageComment)
	require.NotNil(t, damaged.ReturnedAt)
}

func TestLoan_MarkAsDamaged_ComentarioObligatorio(t *testing.T) {
	l := activeLoan(t)
	_, err := l.MarkAsDamaged("   ", t1)
	assert.EqualError(t, err, "Damage comment is required.")
}

func TestLoan_EstadosTerminalesNoTransicionan(t *testing.T) {
	l := activeLoan(t)
	returned, err := l.MarkAsReturned(t1)
	require.NoError(t, err)

	_, err = returned.MarkAsReturned(t1)
	assert.ErrorIs(t, err, domain.ErrLoanNotActive)
	_, err = returned.MarkAsDamaged("golpe", t1)
	assert.ErrorIs(t, err, domain.ErrLoanNotActive)

	damaged, err := l.MarkAsDamaged("golpe", t1)
	require.NoError(t, err)
	_, err = damaged.MarkAsReturned(t1)
	assert.EqualError(t, err, "Loan is not active")
}

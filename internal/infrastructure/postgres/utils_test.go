package postgres

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v3"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/ecolend-api/internal/domain"
	"github.com/jhoicas/ecolend-api/internal/domain/entity"
)

// ──────────────────────────────────────────────────────────────────────────────
// Ids que no son UUID
// ──────────────────────────────────────────────────────────────────────────────

func TestAdaptadores_IDMalFormadoEsInexistenteSinConsultar(t *testing.T) {
	mock := newMock(t)
	ctx := context.Background()
	const bad = "no-existe"

	e, err := NewEquipmentRepository(mock).GetByID(ctx, bad)
	assert.NoError(t, err)
	assert.Nil(t, e)
	e, err = NewEquipmentRepository(mock).GetByIDForUpdate(ctx, bad)
	assert.NoError(t, err)
	assert.Nil(t, e)

	l, err := NewLoanRepository(mock).GetByIDForUpdate(ctx, bad)
	assert.NoError(t, err)
	assert.Nil(t, l)

	u, err := NewUserRepository(mock).GetByID(ctx, bad)
	assert.NoError(t, err)
	assert.Nil(t, u)

	s, err := NewSupplierRepository(mock).GetByID(ctx, bad)
	assert.NoError(t, err)
	assert.Nil(t, s)

	c, err := NewContractRepository(mock).GetByID(ctx, bad)
	assert.NoError(t, err)
	assert.Nil(t, c)

	i, err := NewInvoiceRepository(mock).GetByID(ctx, bad)
	assert.NoError(t, err)
	assert.Nil(t, i)

	// Ninguna consulta llegó a Postgres (habría fallado con 22P02).
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAdaptadores_IDMalFormadoEnEscriturasYListados(t *testing.T) {
	mock := newMock(t)
	ctx := context.Background()
	const bad = "no-existe"

	assert.ErrorIs(t, NewEquipmentRepository(mock).Delete(ctx, bad), domain.ErrEquipmentNotFound)
	assert.ErrorIs(t, NewEquipmentRepository(mock).Update(ctx, &entity.Equipment{ID: bad}), domain.ErrEquipmentNotFound)
	assert.ErrorIs(t, NewLoanRepository(mock).Update(ctx, &entity.Loan{ID: bad}), domain.ErrLoanNotFound)
	assert.ErrorIs(t, NewUserRepository(mock).Update(ctx, &entity.User{ID: bad}), domain.ErrUserNotFound)
	assert.ErrorIs(t, NewUserRepository(mock).AssignRole(ctx, bad, entity.RoleAdmin), domain.ErrUserNotFound)
	assert.ErrorIs(t, NewSupplierRepository(mock).Update(ctx, &entity.Supplier{ID: bad}), domain.ErrSupplierNotFound)
	assert.ErrorIs(t, NewInvoiceRepository(mock).Update(ctx, &entity.Invoice{ID: bad}), domain.ErrInvoiceNotFound)

	loans, err := NewLoanRepository(mock).ListByUser(ctx, bad)
	require.NoError(t, err)
	assert.Empty(t, loans)
	loans, err = NewLoanRepository(mock).ListActiveByEquipment(ctx, bad)
	require.NoError(t, err)
	assert.Empty(t, loans)

	roles, err := NewUserRepository(mock).GetRoles(ctx, bad)
	require.NoError(t, err)
	assert.Empty(t, roles)

	supplier := entity.SupplierID(bad)
	contracts, err := NewContractRepository(mock).List(ctx, &supplier)
	require.NoError(t, err)
	assert.Empty(t, contracts)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestContractRepo_CreateReferenciaMalFormadaEsProveedorInexistente(t *testing.T) {
	mock := newMock(t)
	mock.ExpectExec(`INSERT INTO contracts`).
		WithArgs("c-1", "no-existe", pgxmock.AnyArg(), "Mantenimiento", pgxmock.AnyArg(),
			pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), "COP", "ACTIVE", pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnError(&pgconn.PgError{Code: "22P02"})

	err := NewContractRepository(mock).Create(context.Background(), &entity.Contract{
		ID: "c-1", SupplierID: "no-existe", Title: "Mantenimiento",
		StartDate: testTime, EndDate: testTime.AddDate(1, 0, 0),
		Value: decimal.NewFromInt(1000), Currency: "COP", Status: entity.ContractActive,
		CreatedAt: testTime, UpdatedAt: testTime,
	})
	assert.ErrorIs(t, err, domain.ErrSupplierNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// ──────────────────────────────────────────────────────────────────────────────
// Códigos SQLSTATE
// ──────────────────────────────────────────────────────────────────────────────

func TestHasCode_SoloErroresDePostgres(t *testing.T) {
	pgErr := fmt.Errorf("insert user: %w", &pgconn.PgError{Code: "23505"})
	assert.True(t, isUniqueViolation(pgErr))
	assert.False(t, isForeignKeyViolation(pgErr))

	// Un mensaje que menciona el código no es una violación.
	assert.False(t, isUniqueViolation(errors.New("value 23505 out of range")))
	assert.False(t, isInvalidText(errors.New("bad input 22P02")))

	assert.True(t, isInvalidText(&pgconn.PgError{Code: "22P02"}))
	assert.False(t, isInvalidText(nil))
}

func TestIsUUID(t *testing.T) {
	assert.True(t, isUUID(testEquipmentID))
	assert.False(t, isUUID("no-existe"))
	assert.False(t, isUUID(""))
}

package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/ecolend-api/internal/domain"
	"github.com/jhoicas/ecolend-api/internal/domain/entity"
)

var testTime = time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)

// Las claves primarias son UUID; los adaptadores rechazan otros formatos sin consultar.
const (
	testEquipmentID = "3f0c6a52-8d1e-4b7a-9c44-1e2f5a6b7c01"
	testLoanID      = "3f0c6a52-8d1e-4b7a-9c44-1e2f5a6b7c02"
	testUserID      = "3f0c6a52-8d1e-4b7a-9c44-1e2f5a6b7c03"
	testSupplierID  = "3f0c6a52-8d1e-4b7a-9c44-1e2f5a6b7c04"
	testInvoiceID   = "3f0c6a52-8d1e-4b7a-9c44-1e2f5a6b7c05"
	testMissingID   = "3f0c6a52-8d1e-4b7a-9c44-1e2f5a6b7cff"
)

func newMock(t *testing.T) pgxmock.PgxPoolIface {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)
	return mock
}

func equipmentRows() *pgxmock.Rows {
	return pgxmock.NewRows([]string{
		"id", "name", "category", "certification", "status", "total_quantity", "quantity_in_use", "created_at", "updated_at",
	})
}

func TestEquipmentRepo_GetByIDForUpdateBloqueaFila(t *testing.T) {
	mock := newMock(t)
	cert := "ISO 14001"
	mock.ExpectQuery(`SELECT (.+) FROM equipment WHERE id = \$1 FOR UPDATE`).
		WithArgs(testEquipmentID).
		WillReturnRows(equipmentRows().AddRow(testEquipmentID, "Taladro", "Herramientas", &cert, "AVAILABLE", 5, 2, testTime, testTime))

	e, err := NewEquipmentRepository(mock).GetByIDForUpdate(context.Background(), testEquipmentID)
	require.NoError(t, err)
	require.NotNil(t, e)
	assert.Equal(t, entity.EquipmentID(testEquipmentID), e.ID)
	assert.Equal(t, 3, e.QuantityAvailable())
	require.NotNil(t, e.Certification)
	assert.Equal(t, "ISO 14001", *e.Certification)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEquipmentRepo_GetByIDInexistenteDevuelveNil(t *testing.T) {
	mock := newMock(t)
	mock.ExpectQuery(`SELECT (.+) FROM equipment WHERE id = \$1`).
		WithArgs(testMissingID).
		WillReturnRows(equipmentRows())

	e, err := NewEquipmentRepository(mock).GetByID(context.Background(), testMissingID)
	assert.NoError(t, err)
	assert.Nil(t, e)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEquipmentRepo_FilaCorruptaEsError(t *testing.T) {
	mock := newMock(t)
	mock.ExpectQuery(`SELECT (.+) FROM equipment`).
		WithArgs(testEquipmentID).
		WillReturnRows(equipmentRows().AddRow(testEquipmentID, "Taladro", "Herramientas", (*string)(nil), "AVAILABLE", 1, 4, testTime, testTime))

	_, err := NewEquipmentRepository(mock).GetByID(context.Background(), testEquipmentID)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestEquipmentRepo_UpdateSinFilasEsNotFound(t *testing.T) {
	mock := newMock(t)
	mock.ExpectExec(`UPDATE equipment`).
		WithArgs(testEquipmentID, "Taladro", "Herramientas", pgxmock.AnyArg(), "IN_USE", 5, 5, pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	e := &entity.Equipment{ID: testEquipmentID, Name: "Taladro", Category: "Herramientas", Status: entity.EquipmentInUse, TotalQuantity: 5, QuantityInUse: 5, UpdatedAt: testTime}
	err := NewEquipmentRepository(mock).Update(context.Background(), e)
	assert.ErrorIs(t, err, domain.ErrEquipmentNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEquipmentRepo_DeleteConHistorialEsConflicto(t *testing.T) {
	mock := newMock(t)
	mock.ExpectExec(`DELETE FROM equipment WHERE id = \$1`).
		WithArgs(testEquipmentID).
		WillReturnError(&pgconn.PgError{Code: "23503"})

	err := NewEquipmentRepository(mock).Delete(context.Background(), testEquipmentID)
	assert.ErrorIs(t, err, domain.ErrConflict)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEquipmentRepo_List(t *testing.T) {
	mock := newMock(t)
	mock.ExpectQuery(`SELECT (.+) FROM equipment ORDER BY name`).
		WillReturnRows(equipmentRows().
			AddRow(testEquipmentID, "Andamio", "Estructuras", (*string)(nil), "AVAILABLE", 10, 0, testTime, testTime).
			AddRow("eq-2", "Taladro", "Herramientas", (*string)(nil), "MAINTENANCE", 2, 0, testTime, testTime))

	list, err := NewEquipmentRepository(mock).List(context.Background())
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "Andamio", list[0].Name)
	assert.Equal(t, entity.EquipmentMaintenance, list[1].Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

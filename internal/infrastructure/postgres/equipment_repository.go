package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/ecolend-api/internal/domain"
	"github.com/jhoicas/ecolend-api/internal/domain/entity"
	"github.com/jhoicas/ecolend-api/internal/domain/repository"
)

var _ repository.EquipmentRepository = (*EquipmentRepo)(nil)

const equipmentColumns = `id, name, category, certification, status, total_quantity, quantity_in_use, created_at, updated_at`

// EquipmentRepo implementación del puerto EquipmentRepository sobre PostgreSQL.
type EquipmentRepo struct {
	db Querier
}

// NewEquipmentRepository acepta el pool o una tx.
func NewEquipmentRepository(db Querier) *EquipmentRepo {
	return &EquipmentRepo{db: db}
}

// Create persiste un equipo nuevo.
func (r *EquipmentRepo) Create(ctx context.Context, e *entity.Equipment) error {
	query := `
		INSERT INTO equipment (` + equipmentColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.db.Exec(ctx, query,
		string(e.ID), e.Name, e.Category, e.Certification, string(e.Status),
		e.TotalQuantity, e.QuantityInUse, e.CreatedAt, e.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert equipment: %w", err)
	}
	return nil
}

// GetByID obtiene un equipo; (nil, nil) si no existe.
func (r *EquipmentRepo) GetByID(ctx context.Context, id entity.EquipmentID) (*entity.Equipment, error) {
	return r.get(ctx, `SELECT `+equipmentColumns+` FROM equipment WHERE id = $1`, id)
}

// GetByIDForUpdate igual que GetByID pero con SELECT ... FOR UPDATE.
func (r *EquipmentRepo) GetByIDForUpdate(ctx context.Context, id entity.EquipmentID) (*entity.Equipment, error) {
	return r.get(ctx, `SELECT `+equipmentColumns+` FROM equipment WHERE id = $1 FOR UPDATE`, id)
}

func (r *EquipmentRepo) get(ctx context.Context, query string, id entity.EquipmentID) (*entity.Equipment, error) {
	if !isUUID(string(id)) {
		return nil, nil
	}
	e, err := scanEquipment(r.db.QueryRow(ctx, query, string(id)))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get equipment: %w", err)
	}
	return e, nil
}

// List devuelve todos los equipos ordenados por nombre.
func (r *EquipmentRepo) List(ctx context.Context) ([]*entity.Equipment, error) {
	rows, err := r.db.Query(ctx, `SELECT `+equipmentColumns+` FROM equipment ORDER BY name, id`)
	if err != nil {
		return nil, fmt.Errorf("list equipment: %w", err)
	}
	list, err := collectRows(rows, scanEquipment)
	if err != nil {
		return nil, fmt.Errorf("scan equipment: %w", err)
	}
	return list, nil
}

// Update guarda el estado completo del equipo.
func (r *EquipmentRepo) Update(ctx context.Context, e *entity.Equipment) error {
	if !isUUID(string(e.ID)) {
		return domain.ErrEquipmentNotFound
	}
	query := `
		UPDATE equipment
		SET name = $2, category = $3, certification = $4, status = $5,
		    total_quantity = $6, quantity_in_use = $7, updated_at = $8
		WHERE id = $1`
	tag, err := r.db.Exec(ctx, query,
		string(e.ID), e.Name, e.Category, e.Certification, string(e.Status),
		e.TotalQuantity, e.QuantityInUse, e.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update equipment: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrEquipmentNotFound
	}
	return nil
}

// Delete elimina el equipo. Si tiene historial de préstamos la FK lo impide y se devuelve ErrConflict.
func (r *EquipmentRepo) Delete(ctx context.Context, id entity.EquipmentID) error {
	if !isUUID(string(id)) {
		return domain.ErrEquipmentNotFound
	}
	tag, err := r.db.Exec(ctx, `DELETE FROM equipment WHERE id = $1`, string(id))
	if err != nil {
		if isForeignKeyViolation(err) {
			return fmt.Errorf("%w: equipment has loan history, mark it DISCARDED instead", domain.ErrConflict)
		}
		return fmt.Errorf("delete equipment: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrEquipmentNotFound
	}
	return nil
}

func scanEquipment(row rowScanner) (*entity.Equipment, error) {
	var (
		id, name, category, status string
		certification              *string
		total, inUse               int
		createdAt, updatedAt       time.Time
	)
	if err := row.Scan(&id, &name, &category, &certification, &status, &total, &inUse, &createdAt, &updatedAt); err != nil {
		return nil, err
	}
	return entity.NewEquipment(entity.Equipment{
		ID:            entity.EquipmentID(id),
		Name:          name,
		Category:      category,
		Certification: certification,
		Status:        entity.EquipmentStatus(status),
		TotalQuantity: total,
		QuantityInUse: inUse,
		CreatedAt:     createdAt,
		UpdatedAt:     updatedAt,
	})
}

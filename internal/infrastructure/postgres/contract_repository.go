package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/ecolend-api/internal/domain"
	"github.com/jhoicas/ecolend-api/internal/domain/entity"
	"github.com/jhoicas/ecolend-api/internal/domain/repository"
)

var _ repository.ContractRepository = (*ContractRepo)(nil)

const contractColumns = `id, supplier_id, project_id, title, description, start_date, end_date, value, currency, status, created_at, updated_at`

// ContractRepo el estado leído se recalcula contra el reloj: un contrato vencido sale EXPIRED
// aunque el job periódico aún no lo haya persistido.
type ContractRepo struct {
	db  Querier
	now func() time.Time
}

func NewContractRepository(db Querier) *ContractRepo {
	return &ContractRepo{db: db, now: time.Now}
}

func (r *ContractRepo) Create(ctx context.Context, c *entity.Contract) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO contracts (`+contractColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
		string(c.ID), string(c.SupplierID), projectIDArg(c.ProjectID), c.Title, c.Description,
		c.StartDate, c.EndDate, c.Value, c.Currency, string(c.Status), c.CreatedAt, c.UpdatedAt,
	)
	if err != nil {
		if isForeignKeyViolation(err) || isInvalidText(err) {
			return domain.ErrSupplierNotFound
		}
		return fmt.Errorf("insert contract: %w", err)
	}
	return nil
}

func (r *ContractRepo) GetByID(ctx context.Context, id entity.ContractID) (*entity.Contract, error) {
	if !isUUID(string(id)) {
		return nil, nil
	}
	c, err := scanContract(r.db.QueryRow(ctx, `SELECT `+contractColumns+` FROM contracts WHERE id = $1`, string(id)), r.now())
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get contract: %w", err)
	}
	return c, nil
}

// List todos los contratos o solo los del proveedor indicado.
func (r *ContractRepo) List(ctx context.Context, supplierID *entity.SupplierID) ([]*entity.Contract, error) {
	query := `SELECT ` + contractColumns + ` FROM contracts`
	var args []any
	if supplierID != nil {
		if !isUUID(string(*supplierID)) {
			return []*entity.Contract{}, nil
		}
		query += ` WHERE supplier_id = $1`
		args = append(args, string(*supplierID))
	}
	query += ` ORDER BY start_date DESC, id`

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list contracts: %w", err)
	}
	now := r.now()
	list, err := collectRows(rows, func(row rowScanner) (*entity.Contract, error) {
		return scanContract(row, now)
	})
	if err != nil {
		return nil, fmt.Errorf("scan contract: %w", err)
	}
	return list, nil
}

// ExpireEnded persiste EXPIRED en los contratos activos cuyo último día (UTC) ya pasó.
func (r *ContractRepo) ExpireEnded(ctx context.Context, now time.Time) (int64, error) {
	tag, err := r.db.Exec(ctx, `
		UPDATE contracts
		SET status = 'EXPIRED', updated_at = $1
		WHERE status = 'ACTIVE' AND end_date < ($1::timestamptz AT TIME ZONE 'UTC')::date`,
		now,
	)
	if err != nil {
		return 0, fmt.Errorf("expire contracts: %w", err)
	}
	return tag.RowsAffected(), nil
}

func scanContract(row rowScanner, now time.Time) (*entity.Contract, error) {
	var (
		id, supplierID, title, currency, status string
		projectID, description                  *string
		startDate, endDate, createdAt, updated  time.Time
		value                                   decimal.Decimal
	)
	if err := row.Scan(&id, &supplierID, &projectID, &title, &description, &startDate, &endDate,
		&value, &currency, &status, &createdAt, &updated); err != nil {
		return nil, err
	}
	return entity.NewContract(entity.Contract{
		ID:          entity.ContractID(id),
		SupplierID:  entity.SupplierID(supplierID),
		ProjectID:   projectIDFrom(projectID),
		Title:       title,
		Description: description,
		StartDate:   startDate,
		EndDate:     endDate,
		Value:       value,
		Currency:    currency,
		Status:      entity.ContractStatus(status),
		CreatedAt:   createdAt,
		UpdatedAt:   updated,
	}, now)
}

func projectIDArg(p *entity.ProjectID) *string {
	if p == nil {
		return nil
	}
	s := string(*p)
	return &s
}

func projectIDFrom(s *string) *entity.ProjectID {
	if s == nil {
		return nil
	}
	p := entity.ProjectID(*s)
	return &p
}

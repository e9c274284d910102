package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/ecolend-api/internal/domain"
	"github.com/jhoicas/ecolend-api/internal/domain/entity"
	"github.com/jhoicas/ecolend-api/internal/domain/repository"
)

var _ repository.ExpenseRepository = (*ExpenseRepo)(nil)

const expenseColumns = `id, project_id, supplier_id, category, amount, currency, incurred_at, description, created_at`

type ExpenseRepo struct {
	db Querier
}

func NewExpenseRepository(db Querier) *ExpenseRepo {
	return &ExpenseRepo{db: db}
}

func (r *ExpenseRepo) Create(ctx context.Context, e *entity.Expense) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO expenses (`+expenseColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		string(e.ID), projectIDArg(e.ProjectID), string(e.SupplierID), e.Category, e.Amount, e.Currency,
		e.IncurredAt, e.Description, e.CreatedAt,
	)
	if err != nil {
		if isForeignKeyViolation(err) || isInvalidText(err) {
			return domain.ErrSupplierNotFound
		}
		return fmt.Errorf("insert expense: %w", err)
	}
	return nil
}

// ListRecent últimos gastos por fecha de causación.
func (r *ExpenseRepo) ListRecent(ctx context.Context, limit int) ([]*entity.Expense, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+expenseColumns+` FROM expenses ORDER BY incurred_at DESC, id LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("list expenses: %w", err)
	}
	list, err := collectRows(rows, scanExpense)
	if err != nil {
		return nil, fmt.Errorf("scan expense: %w", err)
	}
	return list, nil
}

func scanExpense(row rowScanner) (*entity.Expense, error) {
	var (
		id, supplierID, category, currency string
		projectID, description             *string
		amount                             decimal.Decimal
		incurredAt, createdAt              time.Time
	)
	if err := row.Scan(&id, &projectID, &supplierID, &category, &amount, &currency, &incurredAt, &description, &createdAt); err != nil {
		return nil, err
	}
	return entity.NewExpense(entity.Expense{
		ID:          entity.ExpenseID(id),
		ProjectID:   projectIDFrom(projectID),
		SupplierID:  entity.SupplierID(supplierID),
		Category:    category,
		Amount:      amount,
		Currency:    currency,
		IncurredAt:  incurredAt,
		Description: description,
		CreatedAt:   createdAt,
	})
}

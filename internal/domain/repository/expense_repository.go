package repository

import (
	"context"

	"github.com/jhoicas/ecolend-api/internal/domain/entity"
)

type ExpenseRepository interface {
	Create(ctx context.Context, e *entity.Expense) error
	ListRecent(ctx context.Context, limit int) ([]*entity.Expense, error)
}

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

var _ repository.LoanRepository = (*LoanRepo)(nil)

const loanColumns = `id, user_id, equipment_id, quantity, status, created_at, returned_at, damage_comment`

// LoanRepo implementación del puerto LoanRepository sobre PostgreSQL.
type LoanRepo struct {
	db Querier
}

func NewLoanRepository(db Querier) *LoanRepo {
	return &LoanRepo{db: db}
}

// Create persiste un préstamo. Usuario o equipo inexistente -> ErrNotFound correspondiente.
func (r *LoanRepo) Create(ctx context.Context, l *entity.Loan) error {
	query := `
		INSERT INTO loans (` + loanColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.db.Exec(ctx, query,
		string(l.ID), string(l.UserID), string(l.EquipmentID), l.Quantity, string(l.Status),
		l.CreatedAt, l.ReturnedAt, l.DamageComment,
	)
	if err != nil {
		if isForeignKeyViolation(err) || isInvalidText(err) {
			return fmt.Errorf("insert loan: %w", domain.ErrUserNotFound)
		}
		return fmt.Errorf("insert loan: %w", err)
	}
	return nil
}

func (r *LoanRepo) GetByID(ctx context.Context, id entity.LoanID) (*entity.Loan, error) {
	return r.get(ctx, `SELECT `+loanColumns+` FROM loans WHERE id = $1`, id)
}

// GetByIDForUpdate bloquea la fila del préstamo.
func (r *LoanRepo) GetByIDForUpdate(ctx context.Context, id entity.LoanID) (*entity.Loan, error) {
	return r.get(ctx, `SELECT `+loanColumns+` FROM loans WHERE id = $1 FOR UPDATE`, id)
}

func (r *LoanRepo) get(ctx context.Context, query string, id entity.LoanID) (*entity.Loan, error) {
	if !isUUID(string(id)) {
		return nil, nil
	}
	l, err := scanLoan(r.db.QueryRow(ctx, query, string(id)))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get loan: %w", err)
	}
	return l, nil
}

// ListByUser préstamos del usuario, más recientes primero.
func (r *LoanRepo) ListByUser(ctx context.Context, userID entity.UserID) ([]*entity.Loan, error) {
	if !isUUID(string(userID)) {
		return []*entity.Loan{}, nil
	}
	return r.list(ctx, `SELECT `+loanColumns+` FROM loans WHERE user_id = $1 ORDER BY created_at DESC, id`, string(userID))
}

func (r *LoanRepo) ListActive(ctx context.Context) ([]*entity.Loan, error) {
	return r.list(ctx, `SELECT `+loanColumns+` FROM loans WHERE status = 'ACTIVE' ORDER BY created_at, id`)
}

func (r *LoanRepo) ListActiveByEquipment(ctx context.Context, equipmentID entity.EquipmentID) ([]*entity.Loan, error) {
	if !isUUID(string(equipmentID)) {
		return []*entity.Loan{}, nil
	}
	return r.list(ctx,
		`SELECT `+loanColumns+` FROM loans WHERE equipment_id = $1 AND status = 'ACTIVE' ORDER BY created_at, id`,
		string(equipmentID))
}

func (r *LoanRepo) list(ctx context.Context, query string, args ...any) ([]*entity.Loan, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list loans: %w", err)
	}
	list, err := collectRows(rows, scanLoan)
	if err != nil {
		return nil, fmt.Errorf("scan loan: %w", err)
	}
	return list, nil
}

// Update guarda estado, fecha de devolución y comentario de daño.
func (r *LoanRepo) Update(ctx context.Context, l *entity.Loan) error {
	if !isUUID(string(l.ID)) {
		return domain.ErrLoanNotFound
	}
	tag, err := r.db.Exec(ctx,
		`UPDATE loans SET status = $2, returned_at = $3, damage_comment = $4 WHERE id = $1`,
		string(l.ID), string(l.Status), l.ReturnedAt, l.DamageComment,
	)
	if err != nil {
		return fmt.Errorf("update loan: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrLoanNotFound
	}
	return nil
}

func scanLoan(row rowScanner) (*entity.Loan, error) {
	var (
		id, userID, equipmentID, status string
		quantity                        int
		createdAt                       time.Time
		returnedAt                      *time.Time
		damageComment                   *string
	)
	if err := row.Scan(&id, &userID, &equipmentID, &quantity, &status, &createdAt, &returnedAt, &damageComment); err != nil {
		return nil, err
	}
	return entity.NewLoan(entity.Loan{
		ID:            entity.LoanID(id),
		UserID:        entity.UserID(userID),
		EquipmentID:   entity.EquipmentID(equipmentID),
		Quantity:      quantity,
		Status:        entity.LoanStatus(status),
		CreatedAt:     createdAt,
		ReturnedAt:    returnedAt,
		DamageComment: damageComment,
	})
}

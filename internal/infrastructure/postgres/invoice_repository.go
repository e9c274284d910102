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

var _ repository.InvoiceRepository = (*InvoiceRepo)(nil)

const invoiceColumns = `id, supplier_id, contract_id, amount, currency, due_date, status, document_url, created_at`

// InvoiceRepo facturas de proveedor; igual que los contratos, el estado se recalcula al leer.
type InvoiceRepo struct {
	db  Querier
	now func() time.Time
}

func NewInvoiceRepository(db Querier) *InvoiceRepo {
	return &InvoiceRepo{db: db, now: time.Now}
}

func (r *InvoiceRepo) Create(ctx context.Context, i *entity.Invoice) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO invoices (`+invoiceColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		string(i.ID), string(i.SupplierID), string(i.ContractID), i.Amount, i.Currency,
		i.DueDate, string(i.Status), i.DocumentURL, i.CreatedAt,
	)
	if err != nil {
		if isForeignKeyViolation(err) || isInvalidText(err) {
			return fmt.Errorf("insert invoice: %w", domain.ErrNotFound)
		}
		return fmt.Errorf("insert invoice: %w", err)
	}
	return nil
}

func (r *InvoiceRepo) GetByID(ctx context.Context, id entity.InvoiceID) (*entity.Invoice, error) {
	if !isUUID(string(id)) {
		return nil, nil
	}
	inv, err := scanInvoice(r.db.QueryRow(ctx, `SELECT `+invoiceColumns+` FROM invoices WHERE id = $1`, string(id)), r.now())
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get invoice: %w", err)
	}
	return inv, nil
}

func (r *InvoiceRepo) List(ctx context.Context) ([]*entity.Invoice, error) {
	return r.list(ctx, `SELECT `+invoiceColumns+` FROM invoices ORDER BY due_date DESC, id`)
}

// ListRecentOpen últimas facturas no pagadas.
func (r *InvoiceRepo) ListRecentOpen(ctx context.Context, limit int) ([]*entity.Invoice, error) {
	return r.list(ctx,
		`SELECT `+invoiceColumns+` FROM invoices WHERE status <> 'PAID' ORDER BY created_at DESC, id LIMIT $1`, limit)
}

func (r *InvoiceRepo) list(ctx context.Context, query string, args ...any) ([]*entity.Invoice, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list invoices: %w", err)
	}
	now := r.now()
	list, err := collectRows(rows, func(row rowScanner) (*entity.Invoice, error) {
		return scanInvoice(row, now)
	})
	if err != nil {
		return nil, fmt.Errorf("scan invoice: %w", err)
	}
	return list, nil
}

// Update solo el estado puede cambiar tras la creación.
func (r *InvoiceRepo) Update(ctx context.Context, i *entity.Invoice) error {
	if !isUUID(string(i.ID)) {
		return domain.ErrInvoiceNotFound
	}
	tag, err := r.db.Exec(ctx, `UPDATE invoices SET status = $2 WHERE id = $1`, string(i.ID), string(i.Status))
	if err != nil {
		return fmt.Errorf("update invoice: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrInvoiceNotFound
	}
	return nil
}

// MarkOverdue persiste OVERDUE en las facturas pendientes cuyo vencimiento (UTC) ya pasó.
func (r *InvoiceRepo) MarkOverdue(ctx context.Context, now time.Time) (int64, error) {
	tag, err := r.db.Exec(ctx, `
		UPDATE invoices
		SET status = 'OVERDUE'
		WHERE status = 'PENDING' AND due_date < ($1::timestamptz AT TIME ZONE 'UTC')::date`,
		now,
	)
	if err != nil {
		return 0, fmt.Errorf("mark invoices overdue: %w", err)
	}
	return tag.RowsAffected(), nil
}

func scanInvoice(row rowScanner, now time.Time) (*entity.Invoice, error) {
	var (
		id, supplierID, contractID, currency, status, documentURL string
		amount                                                    decimal.Decimal
		dueDate, createdAt                                        time.Time
	)
	if err := row.Scan(&id, &supplierID, &contractID, &amount, &currency, &dueDate, &status, &documentURL, &createdAt); err != nil {
		return nil, err
	}
	return entity.NewInvoice(entity.Invoice{
		ID:          entity.InvoiceID(id),
		SupplierID:  entity.SupplierID(supplierID),
		ContractID:  entity.ContractID(contractID),
		Amount:      amount,
		Currency:    currency,
		DueDate:     dueDate,
		Status:      entity.InvoiceStatus(status),
		DocumentURL: documentURL,
		CreatedAt:   createdAt,
	}, now)
}

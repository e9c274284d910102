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

var _ repository.SupplierRepository = (*SupplierRepo)(nil)

const supplierColumns = `id, name, service_type, contact_info, certifications, status, created_at, updated_at`

type SupplierRepo struct {
	db Querier
}

func NewSupplierRepository(db Querier) *SupplierRepo {
	return &SupplierRepo{db: db}
}

func (r *SupplierRepo) Create(ctx context.Context, s *entity.Supplier) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO suppliers (`+supplierColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		string(s.ID), s.Name, string(s.ServiceType), s.ContactInfo, s.Certifications, string(s.Status),
		s.CreatedAt, s.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert supplier: %w", err)
	}
	return nil
}

func (r *SupplierRepo) GetByID(ctx context.Context, id entity.SupplierID) (*entity.Supplier, error) {
	if !isUUID(string(id)) {
		return nil, nil
	}
	s, err := scanSupplier(r.db.QueryRow(ctx, `SELECT `+supplierColumns+` FROM suppliers WHERE id = $1`, string(id)))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get supplier: %w", err)
	}
	return s, nil
}

func (r *SupplierRepo) List(ctx context.Context) ([]*entity.Supplier, error) {
	rows, err := r.db.Query(ctx, `SELECT `+supplierColumns+` FROM suppliers ORDER BY name, id`)
	if err != nil {
		return nil, fmt.Errorf("list suppliers: %w", err)
	}
	list, err := collectRows(rows, scanSupplier)
	if err != nil {
		return nil, fmt.Errorf("scan supplier: %w", err)
	}
	return list, nil
}

func (r *SupplierRepo) Update(ctx context.Context, s *entity.Supplier) error {
	if !isUUID(string(s.ID)) {
		return domain.ErrSupplierNotFound
	}
	tag, err := r.db.Exec(ctx, `
		UPDATE suppliers
		SET name = $2, service_type = $3, contact_info = $4, certifications = $5, status = $6, updated_at = $7
		WHERE id = $1`,
		string(s.ID), s.Name, string(s.ServiceType), s.ContactInfo, s.Certifications, string(s.Status), s.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update supplier: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrSupplierNotFound
	}
	return nil
}

func scanSupplier(row rowScanner) (*entity.Supplier, error) {
	var (
		id, name, serviceType, status string
		contactInfo, certifications   *string
		createdAt, updatedAt          time.Time
	)
	if err := row.Scan(&id, &name, &serviceType, &contactInfo, &certifications, &status, &createdAt, &updatedAt); err != nil {
		return nil, err
	}
	return entity.NewSupplier(entity.Supplier{
		ID:             entity.SupplierID(id),
		Name:           name,
		ServiceType:    entity.SupplierServiceType(serviceType),
		ContactInfo:    contactInfo,
		Certifications: certifications,
		Status:         entity.SupplierStatus(status),
		CreatedAt:      createdAt,
		UpdatedAt:      updatedAt,
	})
}

package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/ecolend-api/internal/domain/entity"
	"github.com/jhoicas/ecolend-api/internal/domain/esg"
	"github.com/jhoicas/ecolend-api/internal/domain/repository"
)

var _ repository.ESGAnalyticsRepository = (*ESGAnalyticsRepo)(nil)

// ESGAnalyticsRepo consultas de lectura para métricas ESG y dashboard.
type ESGAnalyticsRepo struct {
	db Querier
}

func NewESGAnalyticsRepository(db Querier) *ESGAnalyticsRepo {
	return &ESGAnalyticsRepo{db: db}
}

// LoanRecords préstamos creados en [from, to]. Solo trae las columnas que usa la agregación.
func (r *ESGAnalyticsRepo) LoanRecords(ctx context.Context, from, to time.Time) ([]esg.LoanRecord, error) {
	query := `
		SELECT created_at, status, quantity
		FROM loans
		WHERE created_at BETWEEN $1 AND $2
		ORDER BY created_at`
	rows, err := r.db.Query(ctx, query, from, to)
	if err != nil {
		return nil, fmt.Errorf("loan records: %w", err)
	}
	defer rows.Close()

	records := make([]esg.LoanRecord, 0)
	for rows.Next() {
		var (
			rec    esg.LoanRecord
			status string
		)
		if err := rows.Scan(&rec.CreatedAt, &status, &rec.Quantity); err != nil {
			return nil, fmt.Errorf("scan loan record: %w", err)
		}
		rec.Status = entity.LoanStatus(status)
		records = append(records, rec)
	}
	return records, rows.Err()
}

// StockOverview suma unidades totales y en uso de los equipos no descartados
// y cuenta los préstamos ACTIVE en la misma consulta.
func (r *ESGAnalyticsRepo) StockOverview(ctx context.Context) (repository.StockOverview, error) {
	query := `
		SELECT COALESCE(SUM(total_quantity), 0), COALESCE(SUM(quantity_in_use), 0),
		       (SELECT COUNT(*) FROM loans WHERE status = 'ACTIVE')
		FROM equipment
		WHERE status <> 'DISCARDED'`
	var out repository.StockOverview
	if err := r.db.QueryRow(ctx, query).Scan(&out.TotalQuantity, &out.QuantityInUse, &out.ActiveLoans); err != nil {
		return repository.StockOverview{}, fmt.Errorf("stock overview: %w", err)
	}
	return out, nil
}

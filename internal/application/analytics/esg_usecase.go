// Package analytics contiene los casos de uso de reportes: métricas ESG, exportación,
// bitácora de auditoría y el dashboard ejecutivo.
package analytics

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/ecolend-api/internal/application/dto"
	"github.com/jhoicas/ecolend-api/internal/domain"
	"github.com/jhoicas/ecolend-api/internal/domain/esg"
	"github.com/jhoicas/ecolend-api/internal/domain/repository"
)

// ESGUseCase calcula métricas ESG sobre el historial de préstamos. Siempre recalcula: no hay caché.
type ESGUseCase struct {
	repo repository.ESGAnalyticsRepository
}

// NewESGUseCase construye el caso de uso.
func NewESGUseCase(repo repository.ESGAnalyticsRepository) *ESGUseCase {
	return &ESGUseCase{repo: repo}
}

// Generate métricas de los préstamos creados en [from, to]. Granularidad vacía = month.
func (uc *ESGUseCase) Generate(ctx context.Context, from, to time.Time, granularity string) (*dto.ESGReportDTO, error) {
	if granularity == "" {
		granularity = string(esg.Month)
	}
	g, err := esg.ParseGranularity(granularity)
	if err != nil {
		return nil, err
	}
	if from.IsZero() || to.IsZero() {
		return nil, domain.NewValidationError("Date range requires both from and to.")
	}
	if from.After(to) {
		return nil, domain.NewValidationError("Invalid date range: from must be before or equal to to.")
	}

	records, err := uc.repo.LoanRecords(ctx, from, to)
	if err != nil {
		return nil, fmt.Errorf("esg: loan records: %w", err)
	}
	metrics, err := esg.Aggregate(records, g)
	if err != nil {
		return nil, err
	}
	return &dto.ESGReportDTO{
		From:        from,
		To:          to,
		Granularity: string(g),
		Metrics:     dto.ESGMetricsFromEntities(metrics),
	}, nil
}

// List mismo cálculo que Generate; existe como consulta separada para el listado de la UI.
func (uc *ESGUseCase) List(ctx context.Context, from, to time.Time, granularity string) ([]dto.ESGMetricDTO, error) {
	report, err := uc.Generate(ctx, from, to, granularity)
	if err != nil {
		return nil, err
	}
	return report.Metrics, nil
}

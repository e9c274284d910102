package analytics

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/jhoicas/ecolend-api/internal/application/dto"
	"github.com/jhoicas/ecolend-api/internal/domain/esg"
	"github.com/jhoicas/ecolend-api/internal/domain/repository"
)

// DashboardUseCase resumen ejecutivo: inventario, préstamos abiertos y ESG del año en curso.
//
// Fuente de datos (solo lectura): ESGAnalyticsRepository.
type DashboardUseCase struct {
	analyticsRepo repository.ESGAnalyticsRepository
}

// NewDashboardUseCase construye el caso de uso.
func NewDashboardUseCase(analyticsRepo repository.ESGAnalyticsRepository) *DashboardUseCase {
	return &DashboardUseCase{analyticsRepo: analyticsRepo}
}

// Executive construye el dashboard para el instante now.
//
// Dos consultas en paralelo:
//  1. StockOverview            → unidades totales / en uso / préstamos abiertos (COUNT)
//  2. LoanRecords(1 ene, now)  → métricas ESG mensuales
func (uc *DashboardUseCase) Executive(ctx context.Context, now time.Time) (*dto.ExecutiveDashboardDTO, error) {
	now = now.UTC()
	yearStart := time.Date(now.Year(), time.January, 1, 0, 0, 0, 0, time.UTC)

	var (
		stock   repository.StockOverview
		records []esg.LoanRecord
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		s, err := uc.analyticsRepo.StockOverview(gctx)
		if err != nil {
			return fmt.Errorf("dashboard: inventario: %w", err)
		}
		stock = s
		return nil
	})
	g.Go(func() error {
		r, err := uc.analyticsRepo.LoanRecords(gctx, yearStart, now)
		if err != nil {
			return fmt.Errorf("dashboard: registros ESG: %w", err)
		}
		records = r
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	metrics, err := esg.Aggregate(records, esg.Month)
	if err != nil {
		return nil, err
	}
	return &dto.ExecutiveDashboardDTO{
		GeneratedAt:    now,
		TotalUnits:     stock.TotalQuantity,
		UnitsInUse:     stock.QuantityInUse,
		UnitsAvailable: stock.TotalQuantity - stock.QuantityInUse,
		UtilizationPct: esg.Percentage(stock.QuantityInUse, stock.TotalQuantity),
		ActiveLoans:    int(stock.ActiveLoans),
		YearToDate:     dto.ESGMetricsFromEntities(metrics),
	}, nil
}

package repository

import (
	"context"
	"time"

	"github.com/jhoicas/ecolend-api/internal/domain/esg"
)

// StockOverview totales agregados del inventario y préstamos abiertos.
type StockOverview struct {
	TotalQuantity int64
	QuantityInUse int64
	ActiveLoans   int64
}

// ESGAnalyticsRepository consultas de solo lectura para las métricas ESG.
type ESGAnalyticsRepository interface {
	// LoanRecords devuelve los préstamos creados en [from, to], ambos inclusive.
	LoanRecords(ctx context.Context, from, to time.Time) ([]esg.LoanRecord, error)
	StockOverview(ctx context.Context) (StockOverview, error)
}

package dto

import "time"

// ExecutiveDashboardDTO respuesta de GET /api/dashboard/executive.
type ExecutiveDashboardDTO struct {
	GeneratedAt time.Time `json:"generated_at"`

	// Inventario (equipos no descartados)
	TotalUnits     int64   `json:"total_units"`
	UnitsInUse     int64   `json:"units_in_use"`
	UnitsAvailable int64   `json:"units_available"`
	UtilizationPct float64 `json:"utilization_pct"` // en uso / total * 100

	ActiveLoans int `json:"active_loans"`

	// Métricas ESG mensuales del año en curso
	YearToDate []ESGMetricDTO `json:"year_to_date"`
}

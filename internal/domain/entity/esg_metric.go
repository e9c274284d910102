package entity

import (
	"fmt"
	"math"
	"strings"

	"github.com/jhoicas/ecolend-api/internal/domain"
)

// ESGMetricType tipos de métrica ESG derivados del historial de préstamos.
type ESGMetricType string

const (
	MetricReuse          ESGMetricType = "REUSE"
	MetricWasteReduction ESGMetricType = "WASTE_REDUCTION"
	MetricIncidentRate   ESGMetricType = "INCIDENT_RATE"
)

// ESGMetricUnit unidad del valor.
type ESGMetricUnit string

const (
	UnitCount      ESGMetricUnit = "COUNT"
	UnitPercentage ESGMetricUnit = "PERCENTAGE"
)

// ESGMetric hecho derivado de solo lectura. Nunca se persiste: siempre se recalcula
// desde los préstamos, por eso ningún repositorio expone un método para guardarla.
type ESGMetric struct {
	ID     string // <period>-<type>
	Type   ESGMetricType
	Value  float64
	Period string
	Unit   ESGMetricUnit
}

// NewESGMetric valida campos obligatorios y rechaza NaN.
func NewESGMetric(m ESGMetric) (*ESGMetric, error) {
	if strings.TrimSpace(m.ID) == "" {
		return nil, domain.NewValidationError("ESG metric id is required.")
	}
	if strings.TrimSpace(m.Period) == "" {
		return nil, domain.NewValidationError("ESG metric period is required.")
	}
	switch m.Type {
	case MetricReuse, MetricWasteReduction, MetricIncidentRate:
	default:
		return nil, domain.NewValidationError(fmt.Sprintf("Unknown ESG metric type: %s", m.Type))
	}
	if m.Unit != UnitCount && m.Unit != UnitPercentage {
		return nil, domain.NewValidationError(fmt.Sprintf("Unknown ESG metric unit: %s", m.Unit))
	}
	if math.IsNaN(m.Value) {
		return nil, domain.NewValidationError("ESG metric value must be a number.")
	}
	return &m, nil
}

package dto

import (
	"time"

	"github.com/jhoicas/ecolend-api/internal/domain/entity"
)

// ESGMetricsRequest filtros de GET /api/esg/metrics y /api/esg/export.
type ESGMetricsRequest struct {
	From        string `query:"from" validate:"required"` // YYYY-MM-DD o RFC3339
	To          string `query:"to" validate:"required"`
	Granularity string `query:"granularity" validate:"omitempty,oneof=month year"`
	Format      string `query:"format" validate:"omitempty,oneof=csv text pdf xml"`
}

// ESGMetricDTO una métrica ESG.
type ESGMetricDTO struct {
	ID     string  `json:"id"`
	Type   string  `json:"type"`
	Period string  `json:"period"`
	Unit   string  `json:"unit"`
	Value  float64 `json:"value"`
}

// ESGReportDTO métricas de un rango, ordenadas por período.
type ESGReportDTO struct {
	From        time.Time      `json:"from"`
	To          time.Time      `json:"to"`
	Granularity string         `json:"granularity"`
	Metrics     []ESGMetricDTO `json:"metrics"`
}

// ExportFile documento generado para descarga.
type ExportFile struct {
	Filename    string
	ContentType string
	Content     []byte
}

// ESGMetricsFromEntities mapea métricas; nunca devuelve nil.
func ESGMetricsFromEntities(list []*entity.ESGMetric) []ESGMetricDTO {
	out := make([]ESGMetricDTO, 0, len(list))
	for _, m := range list {
		out = append(out, ESGMetricDTO{
			ID:     m.ID,
			Type:   string(m.Type),
			Period: m.Period,
			Unit:   string(m.Unit),
			Value:  m.Value,
		})
	}
	return out
}

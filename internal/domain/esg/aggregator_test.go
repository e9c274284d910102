package esg_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/ecolend-api/internal/domain"
	"github.com/jhoicas/ecolend-api/internal/domain/entity"
	"github.com/jhoicas/ecolend-api/internal/domain/esg"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 10, 0, 0, 0, time.UTC)
}

// byID indexa las métricas por ID para aserciones legibles.
func byID(t *testing.T, metrics []*entity.ESGMetric) map[string]*entity.ESGMetric {
	t.Helper()
	out := make(map[string]*entity.ESGMetric, len(metrics))
	for _, m := range metrics {
		out[m.ID] = m
	}
	require.Len(t, out, len(metrics), "los IDs de métrica deben ser únicos")
	return out
}

// ──────────────────────────────────────────────────────────────────────────────
// Escenarios de referencia
// ──────────────────────────────────────────────────────────────────────────────

func TestAggregate_MesConDevueltosYDanados(t *testing.T) {
	records := []esg.LoanRecord{
		{CreatedAt: day(2025, 3, 10), Status: entity.LoanReturned, Quantity: 3},
		{CreatedAt: day(2025, 3, 15), Status: entity.LoanDamaged, Quantity: 1},
	}

	metrics, err := esg.Aggregate(records, esg.Month)
	require.NoError(t, err)
	require.Len(t, metrics, 3)

	m := byID(t, metrics)
	assert.Equal(t, 4.0, m["2025-03-REUSE"].Value)
	assert.Equal(t, entity.UnitCount, m["2025-03-REUSE"].Unit)
	assert.Equal(t, 75.0, m["2025-03-WASTE_REDUCTION"].Value)
	assert.Equal(t, entity.UnitPercentage, m["2025-03-WASTE_REDUCTION"].Unit)
	assert.Equal(t, 25.0, m["2025-03-INCIDENT_RATE"].Value)
	assert.Equal(t, entity.UnitPercentage, m["2025-03-INCIDENT_RATE"].Unit)
	for _, metric := range metrics {
		assert.Equal(t, "2025-03", metric.Period)
	}
}

func TestAggregate_AnioAgrupaEnUnSoloBucket(t *testing.T) {
	records := []esg.LoanRecord{
		{CreatedAt: day(2025, 3, 10), Status: entity.LoanReturned, Quantity: 3},
		{CreatedAt: day(2025, 3, 15), Status: entity.LoanDamaged, Quantity: 1},
	}

	metrics, err := esg.Aggregate(records, esg.Year)
	require.NoError(t, err)
	require.Len(t, metrics, 3)

	m := byID(t, metrics)
	assert.Equal(t, 4.0, m["2025-REUSE"].Value)
	assert.Equal(t, 75.0, m["2025-WASTE_REDUCTION"].Value)
	assert.Equal(t, 25.0, m["2025-INCIDENT_RATE"].Value)
}

func TestAggregate_SoloActivosNoDivideEntreCero(t *testing.T) {
	records := []esg.LoanRecord{
		{CreatedAt: day(2025, 1, 5), Status: entity.LoanActive, Quantity: 5},
	}

	metrics, err := esg.Aggregate(records, esg.Month)
	require.NoError(t, err)

	m := byID(t, metrics)
	assert.Equal(t, 5.0, m["2025-01-REUSE"].Value)
	assert.Equal(t, 0.0, m["2025-01-WASTE_REDUCTION"].Value)
	assert.Equal(t, 0.0, m["2025-01-INCIDENT_RATE"].Value)
}

// ──────────────────────────────────────────────────────────────────────────────
// Propiedades
// ──────────────────────────────────────────────────────────────────────────────

func TestAggregate_PorcentajesComplementarios(t *testing.T) {
	cases := []struct{ returned, damaged int }{
		{1, 2}, {2, 1}, {1, 6}, {7, 3}, {1, 0}, {0, 4}, {13, 17},
	}
	for _, c := range cases {
		var records []esg.LoanRecord
		if c.returned > 0 {
			records = append(records, esg.LoanRecord{CreatedAt: day(2024, 6, 1), Status: entity.LoanReturned, Quantity: c.returned})
		}
		if c.damaged > 0 {
			records = append(records, esg.LoanRecord{CreatedAt: day(2024, 6, 2), Status: entity.LoanDamaged, Quantity: c.damaged})
		}
		records = append(records, esg.LoanRecord{CreatedAt: day(2024, 6, 3), Status: entity.LoanActive, Quantity: 9})

		metrics, err := esg.Aggregate(records, esg.Month)
		require.NoError(t, err)
		m := byID(t, metrics)

		sum := m["2024-06-WASTE_REDUCTION"].Value + m["2024-06-INCIDENT_RATE"].Value
		assert.InDelta(t, 100.0, sum, 0.01, "r=%d d=%d", c.returned, c.damaged)
		assert.Equal(t, float64(c.returned+c.damaged+9), m["2024-06-REUSE"].Value)
	}
}

func TestAggregate_RedondeoADosDecimales(t *testing.T) {
	records := []esg.LoanRecord{
		{CreatedAt: day(2024, 2, 1), Status: entity.LoanReturned, Quantity: 1},
		{CreatedAt: day(2024, 2, 1), Status: entity.LoanDamaged, Quantity: 2},
	}

	metrics, err := esg.Aggregate(records, esg.Month)
	require.NoError(t, err)
	m := byID(t, metrics)
	assert.Equal(t, 33.33, m["2024-02-WASTE_REDUCTION"].Value)
	assert.Equal(t, 66.67, m["2024-02-INCIDENT_RATE"].Value)
}

func TestAggregate_OrdenaPeriodosYUsaUTC(t *testing.T) {
	bogota := time.FixedZone("COT", -5*3600)
	records := []esg.LoanRecord{
		{CreatedAt: day(2025, 2, 3), Status: entity.LoanReturned, Quantity: 1},
		// 31 de diciembre 22:00 en Bogotá = 1 de enero 03:00 UTC
		{CreatedAt: time.Date(2024, 12, 31, 22, 0, 0, 0, bogota), Status: entity.LoanReturned, Quantity: 2},
		{CreatedAt: day(2024, 11, 20), Status: entity.LoanDamaged, Quantity: 1},
	}

	metrics, err := esg.Aggregate(records, esg.Month)
	require.NoError(t, err)
	require.Len(t, metrics, 9)

	var periods []string
	for i := 0; i < len(metrics); i += 3 {
		periods = append(periods, metrics[i].Period)
		assert.Equal(t, entity.MetricReuse, metrics[i].Type)
		assert.Equal(t, entity.MetricWasteReduction, metrics[i+1].Type)
		assert.Equal(t, entity.MetricIncidentRate, metrics[i+2].Type)
	}
	assert.Equal(t, []string{"2024-11", "2025-01", "2025-02"}, periods)
}

func TestAggregate_SinRegistros(t *testing.T) {
	metrics, err := esg.Aggregate(nil, esg.Year)
	require.NoError(t, err)
	assert.Empty(t, metrics)
}

func TestAggregate_RegistroSinFechaFallaCompleto(t *testing.T) {
	records := []esg.LoanRecord{
		{CreatedAt: day(2025, 3, 10), Status: entity.LoanReturned, Quantity: 3},
		{Status: entity.LoanReturned, Quantity: 1},
	}

	metrics, err := esg.Aggregate(records, esg.Month)
	assert.Nil(t, metrics)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestParseGranularity(t *testing.T) {
	g, err := esg.ParseGranularity("month")
	require.NoError(t, err)
	assert.Equal(t, esg.Month, g)

	_, err = esg.ParseGranularity("week")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = esg.Aggregate(nil, esg.Granularity("week"))
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

// Package esg calcula las métricas ESG (reutilización, reducción de residuos y tasa de
// incidentes) a partir del historial de préstamos. Es un servicio de dominio puro: no hace I/O.
package esg

import (
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/ecolend-api/internal/domain"
	"github.com/jhoicas/ecolend-api/internal/domain/entity"
)

// Granularity unidad de agrupación temporal.
type Granularity string

const (
	Month Granularity = "month"
	Year  Granularity = "year"
)

// ParseGranularity valida la granularidad recibida.
func ParseGranularity(s string) (Granularity, error) {
	switch g := Granularity(s); g {
	case Month, Year:
		return g, nil
	}
	return "", domain.NewValidationError(fmt.Sprintf("Unknown granularity: %q (expected month or year)", s))
}

// LoanRecord proyección mínima de un préstamo para la agregación.
type LoanRecord struct {
	CreatedAt time.Time
	Status    entity.LoanStatus
	Quantity  int
}

// BucketKey clave del periodo en UTC: "2006" para año, "2006-01" para mes.
func BucketKey(t time.Time, g Granularity) string {
	if g == Year {
		return t.UTC().Format("2006")
	}
	return t.UTC().Format("2006-01")
}

type bucket struct {
	total    int64
	returned int64
	damaged  int64
}

var hundred = decimal.NewFromInt(100)

// Aggregate agrupa los registros por periodo y emite, por cada periodo,
// REUSE (COUNT), WASTE_REDUCTION y INCIDENT_RATE (PERCENTAGE).
//
// Los préstamos ACTIVE solo suman al total: los porcentajes se calculan sobre
// unidades con disposición conocida (devueltas + dañadas) y valen 0 si no hay ninguna.
// La salida se ordena por periodo ascendente. Un registro sin fecha invalida toda la llamada.
func Aggregate(records []LoanRecord, g Granularity) ([]*entity.ESGMetric, error) {
	if g != Month && g != Year {
		return nil, domain.NewValidationError(fmt.Sprintf("Unknown granularity: %q (expected month or year)", g))
	}

	buckets := make(map[string]*bucket)
	for i, r := range records {
		if r.CreatedAt.IsZero() {
			return nil, domain.NewValidationError(fmt.Sprintf("Loan record %d has no createdAt.", i))
		}
		key := BucketKey(r.CreatedAt, g)
		b, ok := buckets[key]
		if !ok {
			b = &bucket{}
			buckets[key] = b
		}
		qty := int64(r.Quantity)
		b.total += qty
		switch r.Status {
		case entity.LoanReturned:
			b.returned += qty
		case entity.LoanDamaged:
			b.damaged += qty
		}
	}

	periods := make([]string, 0, len(buckets))
	for p := range buckets {
		periods = append(periods, p)
	}
	sort.Strings(periods)

	metrics := make([]*entity.ESGMetric, 0, len(periods)*3)
	for _, period := range periods {
		b := buckets[period]
		handled := b.returned + b.damaged
		values := []struct {
			typ   entity.ESGMetricType
			unit  entity.ESGMetricUnit
			value float64
		}{
			{entity.MetricReuse, entity.UnitCount, float64(b.total)},
			{entity.MetricWasteReduction, entity.UnitPercentage, Percentage(b.returned, handled)},
			{entity.MetricIncidentRate, entity.UnitPercentage, Percentage(b.damaged, handled)},
		}
		for _, v := range values {
			m, err := entity.NewESGMetric(entity.ESGMetric{
				ID:     period + "-" + string(v.typ),
				Type:   v.typ,
				Value:  v.value,
				Period: period,
				Unit:   v.unit,
			})
			if err != nil {
				return nil, err
			}
			metrics = append(metrics, m)
		}
	}
	return metrics, nil
}

// Percentage part/whole*100 redondeado a 2 decimales; 0 si whole es 0.
func Percentage(part, whole int64) float64 {
	if whole == 0 {
		return 0
	}
	return decimal.NewFromInt(part).
		Mul(hundred).
		Div(decimal.NewFromInt(whole)).
		Round(2).
		InexactFloat64()
}

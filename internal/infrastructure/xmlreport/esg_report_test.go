package xmlreport_test

import (
	"testing"
	"time"

	"github.com/beevik/etree"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/ecolend-api/internal/application/dto"
	"github.com/jhoicas/ecolend-api/internal/infrastructure/xmlreport"
)

func TestRender_AgrupaPorPeriodo(t *testing.T) {
	report := dto.ESGReportDTO{
		From:        time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
		To:          time.Date(2025, 2, 28, 0, 0, 0, 0, time.UTC),
		Granularity: "month",
		Metrics: []dto.ESGMetricDTO{
			{ID: "2025-01-REUSE", Type: "REUSE", Period: "2025-01", Unit: "COUNT", Value: 3},
			{ID: "2025-01-INCIDENT_RATE", Type: "INCIDENT_RATE", Period: "2025-01", Unit: "PERCENTAGE", Value: 33.33},
			{ID: "2025-02-REUSE", Type: "REUSE", Period: "2025-02", Unit: "COUNT", Value: 1},
		},
	}
	out, err := xmlreport.NewESGReportRenderer().Render(report)
	require.NoError(t, err)

	doc := etree.NewDocument()
	require.NoError(t, doc.ReadFromBytes(out))
	root := doc.SelectElement("esgReport")
	require.NotNil(t, root)
	assert.Equal(t, xmlreport.Namespace, root.SelectAttrValue("xmlns", ""))
	assert.Equal(t, "month", root.SelectAttrValue("granularity", ""))
	assert.Equal(t, "2025-01-01T00:00:00Z", root.SelectAttrValue("from", ""))

	periods := root.SelectElements("period")
	require.Len(t, periods, 2)
	assert.Equal(t, "2025-01", periods[0].SelectAttrValue("key", ""))

	jan := periods[0].SelectElements("metric")
	require.Len(t, jan, 2)
	assert.Equal(t, "33.33", jan[1].Text())
	assert.Equal(t, "PERCENTAGE", jan[1].SelectAttrValue("unit", ""))
	assert.Equal(t, "1", periods[1].SelectElement("metric").Text())
}

func TestRender_ReporteVacio(t *testing.T) {
	out, err := xmlreport.NewESGReportRenderer().Render(dto.ESGReportDTO{Granularity: "year"})
	require.NoError(t, err)
	assert.Contains(t, string(out), `granularity="year"`)
	assert.NotContains(t, string(out), "<period")
}

// Package pdf genera el reporte ESG en PDF con Maroto v2.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Título + rango de fechas │ Granularidad            │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: Período | Métrica | Valor | Unidad                  │
//	│  ─────────────────────────────────────────────────────────  │
//	│  FOOTER: leyenda de cálculo                                 │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"fmt"
	"strconv"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"

	"github.com/jhoicas/ecolend-api/internal/application/dto"
)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 20, Green: 110, Blue: 60}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
)

var metricLabels = map[string]string{
	"REUSE":           "Reutilización",
	"WASTE_REDUCTION": "Reducción de residuos",
	"INCIDENT_RATE":   "Tasa de incidentes",
}

// ── Renderer ──────────────────────────────────────────────────────────────────

// ESGReportRenderer implementa ports.ESGReportRenderer usando Maroto v2.
type ESGReportRenderer struct {
	author string
}

// NewESGReportRenderer construye el renderer; author aparece en los metadatos del PDF.
func NewESGReportRenderer(author string) *ESGReportRenderer {
	return &ESGReportRenderer{author: author}
}

// Render genera el PDF y devuelve sus bytes.
func (r *ESGReportRenderer) Render(report dto.ESGReportDTO) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(12).WithRightMargin(12).
		WithTopMargin(12).WithBottomMargin(12).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Reporte ESG", true).
		WithAuthor(r.author, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(report))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(tableHeaderRow())
	m.AddRows(metricRows(report.Metrics)...)
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(footerRow())

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

func headerRow(report dto.ESGReportDTO) core.Row {
	rango := fmt.Sprintf("%s al %s", report.From.UTC().Format("02/01/2006"), report.To.UTC().Format("02/01/2006"))
	return row.New(16).Add(
		col.New(8).Add(
			text.New("REPORTE DE IMPACTO ESG", props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New("Préstamos creados del "+rango, props.Text{
				Size: 9, Top: 9, Color: colorGray,
			}),
		),
		col.New(4).Add(
			text.New("Agrupación: "+granularityLabel(report.Granularity), props.Text{
				Size: 9, Align: align.Right, Top: 9, Color: colorGray,
			}),
		),
	)
}

func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a, Color: colorPrimary, Top: 2,
		}))
	}
	return row.New(8).Add(
		h("Período", 3, align.Left),
		h("Métrica", 5, align.Left),
		h("Valor", 2, align.Right),
		h("Unidad", 2, align.Right),
	)
}

// metricRows una fila por métrica; sin métricas se muestra una fila informativa.
func metricRows(metrics []dto.ESGMetricDTO) []core.Row {
	if len(metrics) == 0 {
		return []core.Row{row.New(8).Add(col.New(12).Add(
			text.New("Sin préstamos en el rango seleccionado.", props.Text{
				Size: 9, Align: align.Center, Color: colorGray, Top: 2,
			}),
		))}
	}
	rows := make([]core.Row, 0, len(metrics))
	for _, m := range metrics {
		label := metricLabels[m.Type]
		if label == "" {
			label = m.Type
		}
		rows = append(rows, row.New(6).Add(
			col.New(3).Add(text.New(m.Period, props.Text{Size: 8, Top: 1})),
			col.New(5).Add(text.New(label, props.Text{Size: 8, Top: 1})),
			col.New(2).Add(text.New(strconv.FormatFloat(m.Value, 'f', -1, 64), props.Text{Size: 8, Align: align.Right, Top: 1})),
			col.New(2).Add(text.New(unitLabel(m.Unit), props.Text{Size: 8, Align: align.Right, Top: 1})),
		))
	}
	return rows
}

func footerRow() core.Row {
	return row.New(10).Add(col.New(12).Add(
		text.New(
			"Los porcentajes se calculan sobre unidades con disposición conocida (devueltas + dañadas). "+
				"Los préstamos activos solo cuentan en reutilización.",
			props.Text{Size: 6.5, Color: colorGray, Top: 2},
		),
	))
}

// ── helpers ───────────────────────────────────────────────────────────────────

func granularityLabel(g string) string {
	if g == "year" {
		return "anual"
	}
	return "mensual"
}

func unitLabel(u string) string {
	if u == "PERCENTAGE" {
		return "%"
	}
	return "unidades"
}

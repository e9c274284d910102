package analytics

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/jhoicas/ecolend-api/internal/application/dto"
	"github.com/jhoicas/ecolend-api/internal/application/ports"
	"github.com/jhoicas/ecolend-api/internal/domain"
)

// Formatos de exportación soportados.
const (
	FormatCSV  = "csv"
	FormatText = "text"
	FormatPDF  = "pdf"
	FormatXML  = "xml"
)

// ExportInput parámetros del reporte a exportar. Format vacío = csv.
type ExportInput struct {
	From        time.Time
	To          time.Time
	Granularity string
	Format      string
}

// ExportUseCase genera el reporte ESG como archivo descargable.
type ExportUseCase struct {
	esg       *ESGUseCase
	renderers map[string]renderer
}

type renderer struct {
	filename    string
	contentType string
	render      func(dto.ESGReportDTO) ([]byte, error)
}

// NewExportUseCase construye el caso de uso. pdf y xml pueden ser nil: ese formato queda deshabilitado.
func NewExportUseCase(esg *ESGUseCase, pdf, xml ports.ESGReportRenderer) *ExportUseCase {
	r := map[string]renderer{
		FormatCSV:  {"esg-report.csv", "text/csv", renderCSV},
		FormatText: {"esg-report.txt", "text/plain", renderText},
	}
	if pdf != nil {
		r[FormatPDF] = renderer{"esg-report.pdf", "application/pdf", pdf.Render}
	}
	if xml != nil {
		r[FormatXML] = renderer{"esg-report.xml", "application/xml", xml.Render}
	}
	return &ExportUseCase{esg: esg, renderers: r}
}

// Export calcula las métricas y las serializa en el formato pedido.
func (uc *ExportUseCase) Export(ctx context.Context, in ExportInput) (*dto.ExportFile, error) {
	format := strings.ToLower(strings.TrimSpace(in.Format))
	if format == "" {
		format = FormatCSV
	}
	r, ok := uc.renderers[format]
	if !ok {
		return nil, domain.NewValidationError(fmt.Sprintf("Unsupported export format: %q", in.Format))
	}

	report, err := uc.esg.Generate(ctx, in.From, in.To, in.Granularity)
	if err != nil {
		return nil, err
	}
	content, err := r.render(*report)
	if err != nil {
		return nil, fmt.Errorf("export %s: %w", format, err)
	}
	return &dto.ExportFile{Filename: r.filename, ContentType: r.contentType, Content: content}, nil
}

// FormatValue representación mínima del valor: 12 -> "12", 66.67 -> "66.67".
func FormatValue(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// renderCSV cabecera type,period,unit,value; filas separadas por "\n", sin salto final.
func renderCSV(report dto.ESGReportDTO) ([]byte, error) {
	lines := make([]string, 0, len(report.Metrics)+1)
	lines = append(lines, "type,period,unit,value")
	for _, m := range report.Metrics {
		lines = append(lines, strings.Join([]string{m.Type, m.Period, m.Unit, FormatValue(m.Value)}, ","))
	}
	return []byte(strings.Join(lines, "\n")), nil
}

// renderText una línea por métrica: "<period> <type>: <value> <unit>".
func renderText(report dto.ESGReportDTO) ([]byte, error) {
	lines := make([]string, 0, len(report.Metrics))
	for _, m := range report.Metrics {
		lines = append(lines, fmt.Sprintf("%s %s: %s %s", m.Period, m.Type, FormatValue(m.Value), m.Unit))
	}
	return []byte(strings.Join(lines, "\n")), nil
}

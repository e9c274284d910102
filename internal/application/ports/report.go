package ports

import "github.com/jhoicas/ecolend-api/internal/application/dto"

// ESGReportRenderer genera un documento binario (PDF, XML) a partir del reporte ESG.
type ESGReportRenderer interface {
	Render(report dto.ESGReportDTO) ([]byte, error)
}

package http

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/ecolend-api/internal/application/analytics"
	"github.com/jhoicas/ecolend-api/internal/application/dto"
	"github.com/jhoicas/ecolend-api/internal/domain"
)

// AnalyticsHandler métricas ESG, exportación y bitácora de auditoría.
type AnalyticsHandler struct {
	esg    *analytics.ESGUseCase
	export *analytics.ExportUseCase
	audit  *analytics.AuditLogUseCase
}

// NewAnalyticsHandler construye el handler.
func NewAnalyticsHandler(esg *analytics.ESGUseCase, export *analytics.ExportUseCase, audit *analytics.AuditLogUseCase) *AnalyticsHandler {
	return &AnalyticsHandler{esg: esg, export: export, audit: audit}
}

// Metrics godoc
// @Summary      Métricas ESG del período
// @Description  REUSE (préstamos), WASTE_REDUCTION (% devueltos sin daño) e INCIDENT_RATE (% con daño) por mes o año.
// @Tags         esg
// @Security     Bearer
// @Produce      json
// @Param        from         query  string  true   "Inicio (YYYY-MM-DD o RFC3339)"
// @Param        to           query  string  true   "Fin (YYYY-MM-DD = fin de ese día, o RFC3339)"
// @Param        granularity  query  string  false  "month | year"  default(month)
// @Success      200  {array}   dto.ESGMetricDTO
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/esg/metrics [get]
func (h *AnalyticsHandler) Metrics(c *fiber.Ctx) error {
	req, from, to, err := parseESGQuery(c)
	if err != nil {
		return writeError(c, err)
	}
	out, err := h.esg.List(c.UserContext(), from, to, req.Granularity)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Export godoc
// @Summary      Exportar reporte ESG
// @Tags         esg
// @Security     Bearer
// @Produce      text/csv
// @Produce      text/plain
// @Produce      application/pdf
// @Produce      application/xml
// @Param        from         query  string  true   "Inicio (YYYY-MM-DD o RFC3339)"
// @Param        to           query  string  true   "Fin (YYYY-MM-DD o RFC3339)"
// @Param        granularity  query  string  false  "month | year"
// @Param        format       query  string  false  "csv | text | pdf | xml"  default(csv)
// @Success      200  {file}    file
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/esg/export [get]
func (h *AnalyticsHandler) Export(c *fiber.Ctx) error {
	req, from, to, err := parseESGQuery(c)
	if err != nil {
		return writeError(c, err)
	}
	file, err := h.export.Export(c.UserContext(), analytics.ExportInput{
		From: from, To: to, Granularity: req.Granularity, Format: req.Format,
	})
	if err != nil {
		return writeError(c, err)
	}
	c.Set(fiber.HeaderContentType, file.ContentType)
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+file.Filename+`"`)
	return c.Send(file.Content)
}

// AuditLogs godoc
// @Summary      Bitácora de auditoría
// @Description  Más recientes primero. limit por defecto 100, máximo 500.
// @Tags         audit
// @Security     Bearer
// @Produce      json
// @Param        limit   query  int  false  "Límite"  default(100)
// @Param        offset  query  int  false  "Offset"  default(0)
// @Success      200  {object}  dto.AuditLogListResponse
// @Router       /api/audit-logs [get]
func (h *AnalyticsHandler) AuditLogs(c *fiber.Ctx) error {
	out, err := h.audit.List(c.UserContext(), c.QueryInt("limit", 0), c.QueryInt("offset", 0))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

func parseESGQuery(c *fiber.Ctx) (dto.ESGMetricsRequest, time.Time, time.Time, error) {
	var req dto.ESGMetricsRequest
	if err := c.QueryParser(&req); err != nil {
		return req, time.Time{}, time.Time{}, domain.NewValidationError("Invalid query parameters.")
	}
	if err := validateStruct(req); err != nil {
		return req, time.Time{}, time.Time{}, err
	}
	from, _, err := parseInstant("from", req.From)
	if err != nil {
		return req, time.Time{}, time.Time{}, err
	}
	to, dateOnly, err := parseInstant("to", req.To)
	if err != nil {
		return req, time.Time{}, time.Time{}, err
	}
	if dateOnly {
		to = to.AddDate(0, 0, 1).Add(-time.Nanosecond)
	}
	return req, from, to, nil
}

// parseInstant acepta YYYY-MM-DD (UTC) o RFC3339; dateOnly indica el primer formato.
func parseInstant(field, s string) (t time.Time, dateOnly bool, err error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t, true, nil
	}
	t, err = time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, false, domain.NewValidationError("Invalid '" + field + "' date: " + s)
	}
	return t.UTC(), false, nil
}

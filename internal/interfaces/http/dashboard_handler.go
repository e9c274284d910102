package http

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/ecolend-api/internal/application/analytics"
)

// DashboardHandler expone el dashboard ejecutivo.
type DashboardHandler struct {
	uc  *analytics.DashboardUseCase
	now func() time.Time
}

// NewDashboardHandler construye el handler.
func NewDashboardHandler(uc *analytics.DashboardUseCase) *DashboardHandler {
	return &DashboardHandler{uc: uc, now: func() time.Time { return time.Now().UTC() }}
}

// Executive godoc
// @Summary      Dashboard ejecutivo
// @Description  Stock, préstamos activos y métricas ESG del año en curso.
// @Tags         dashboard
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.ExecutiveDashboardDTO
// @Failure      403  {object}  dto.ErrorResponse
// @Router       /api/dashboard/executive [get]
func (h *DashboardHandler) Executive(c *fiber.Ctx) error {
	out, err := h.uc.Executive(c.UserContext(), h.now())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

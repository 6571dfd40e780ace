package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/stockbill-api/internal/application/analytics"
	"github.com/jhoicas/stockbill-api/internal/application/dto"
)

// DashboardHandler resumen del panel principal y analítica de ventas.
type DashboardHandler struct {
	dashboard *analytics.DashboardUseCase
	analytics *analytics.AnalyticsUseCase
}

// NewDashboardHandler construye el handler.
func NewDashboardHandler(dashboard *analytics.DashboardUseCase, analyticsUC *analytics.AnalyticsUseCase) *DashboardHandler {
	return &DashboardHandler{dashboard: dashboard, analytics: analyticsUC}
}

// Summary godoc
// @Summary      Resumen del panel
// @Tags         dashboard
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.DashboardResponse
// @Router       /api/dashboard [get]
func (h *DashboardHandler) Summary(c *fiber.Ctx) error {
	out, err := h.dashboard.GetSummary(c.UserContext(), GetUserID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Analytics godoc
// @Summary      Analítica de ventas
// @Tags         analytics
// @Security     Bearer
// @Produce      json
// @Param        date_from  query     string  false  "YYYY-MM-DD, RFC3339 o all"
// @Param        date_to    query     string  false  "YYYY-MM-DD, RFC3339 o all"
// @Param        category   query     string  false  "ID de categoría o all"
// @Param        customer   query     string  false  "ID de cliente o all"
// @Success      200        {object}  dto.AnalyticsResponse
// @Failure      400        {object}  dto.ErrorResponse
// @Router       /api/analytics [get]
func (h *DashboardHandler) Analytics(c *fiber.Ctx) error {
	var in dto.AnalyticsRequest
	if ok, err := parseQuery(c, &in); !ok {
		return err
	}
	out, err := h.analytics.GetReport(c.UserContext(), GetUserID(c), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

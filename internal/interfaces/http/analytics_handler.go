package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/gadgetops/resale-api/internal/application/dto"
	"github.com/gadgetops/resale-api/internal/application/usecase"
)

// AnalyticsHandler expone las métricas del negocio.
type AnalyticsHandler struct {
	uc *usecase.AnalyticsUseCase
}

// NewAnalyticsHandler construye el handler.
func NewAnalyticsHandler(uc *usecase.AnalyticsUseCase) *AnalyticsHandler {
	return &AnalyticsHandler{uc: uc}
}

// MonthlyMetrics godoc
// @Summary      Métricas del mes en curso
// @Tags         analytics
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.MonthlyMetricsDTO
// @Router       /api/analytics/monthly [get]
func (h *AnalyticsHandler) MonthlyMetrics(c *fiber.Ctx) error {
	metrics, err := h.uc.GetMonthlyMetrics(c.Context(), GetCompanyID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(metrics)
}

// RevenueInRange godoc
// @Summary      Ingresos en un rango de fechas
// @Tags         analytics
// @Security     Bearer
// @Produce      json
// @Param        start_date  query  string  true  "fecha inicial YYYY-MM-DD"
// @Param        end_date    query  string  true  "fecha final YYYY-MM-DD"
// @Success      200  {object}  dto.RevenueRangeDTO
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/analytics/revenue [get]
func (h *AnalyticsHandler) RevenueInRange(c *fiber.Ctx) error {
	var in dto.RevenueRangeRequest
	if err := c.QueryParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_QUERY", Message: "query inválida"})
	}
	out, err := h.uc.GetRevenueInRange(c.Context(), GetCompanyID(c), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

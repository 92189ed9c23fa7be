package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mlvisio/track-api/internal/service"
	"github.com/mlvisio/track-api/pkg/response"
)

// DashboardHandler serves aggregated stats for the admin dashboard.
type DashboardHandler struct {
	dashboard *service.DashboardService
	metrics   *service.MetricsService
}

// NewDashboardHandler constructs DashboardHandler.
func NewDashboardHandler(dashboard *service.DashboardService, metrics *service.MetricsService) *DashboardHandler {
	return &DashboardHandler{dashboard: dashboard, metrics: metrics}
}

// Stats godoc
// @Summary Aggregated dashboard statistics
// @Tags Dashboard
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /stats/dashboard [get]
func (h *DashboardHandler) Stats(c *gin.Context) {
	stats, cacheHit, err := h.dashboard.Stats(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	if h.metrics != nil {
		h.metrics.ObserveDashboardCache(cacheHit)
	}
	response.JSON(c, http.StatusOK, stats)
}

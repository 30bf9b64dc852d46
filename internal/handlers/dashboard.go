// internal/handlers/dashboard.go
package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/lamaree/lamaree-backend/internal/services"
	"github.com/lamaree/lamaree-backend/internal/utils"
)

type DashboardHandler struct {
	dashboardService *services.DashboardService
}

func NewDashboardHandler(dashboardService *services.DashboardService) *DashboardHandler {
	return &DashboardHandler{dashboardService: dashboardService}
}

// GET /dashboard/stats
func (h *DashboardHandler) GetStats(c *gin.Context) {
	stats, err := h.dashboardService.GetStats()
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.Header("Cache-Control", "private, max-age=60")
	utils.SuccessResponse(c, gin.H{"stats": stats})
}

// GET /dashboard/low-stock
func (h *DashboardHandler) GetLowStockAlerts(c *gin.Context) {
	products, err := h.dashboardService.GetLowStockAlerts()
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{"products": products})
}

package controllers

import (
	"context"
	"net/http"
	"time"

	"go-grocery/services"
	"go-grocery/utils"
)

// DashboardController serves admin dashboard statistics
type DashboardController struct {
	Dashboard *services.DashboardService
}

// NewDashboardController creates a new DashboardController
func NewDashboardController(dashboard *services.DashboardService) *DashboardController {
	return &DashboardController{Dashboard: dashboard}
}

// GetStats returns entity counts, total revenue, and the last seven days of
// sales
func (dc *DashboardController) GetStats(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	stats, err := dc.Dashboard.Stats(ctx)
	if err != nil {
		utils.Fail(w, err)
		return
	}

	utils.OK(w, "Dashboard stats retrieved successfully", stats)
}

package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "dashfinance/internal/errors"
	"dashfinance/internal/services"
)

// DashboardHandler serves derived statistics for the dashboard
type DashboardHandler struct {
	dashboardService services.DashboardServicer
}

// NewDashboardHandler creates a new DashboardHandler
func NewDashboardHandler(dashboardService services.DashboardServicer) *DashboardHandler {
	return &DashboardHandler{dashboardService: dashboardService}
}

type summaryQuery struct {
	Month string `form:"month" binding:"omitempty,ym_month"`
}

// GetSummary returns monthly totals, category breakdown, and trend
// @Summary     Dashboard summary
// @Description Income/expense totals, expense breakdown by category, and a trailing monthly trend
// @Tags        dashboard
// @Produce     json
// @Security    BearerAuth
// @Param       month query string false "Calendar month (YYYY-MM), defaults to the current month"
// @Success     200 {object} services.DashboardSummary "Summary"
// @Failure     400 {object} ErrorResponse "Invalid query"
// @Router      /dashboard/summary [get]
func (h *DashboardHandler) GetSummary(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var query summaryQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	summary, err := h.dashboardService.GetSummary(userID, query.Month)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, summary)
}

package handler

import (
	"net/http"

	"backend/internal/app/dto"
	"backend/internal/app/finance"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// GetDashboardStats returns the financial rollup over the visible set
// @Summary Dashboard statistics
// @Description Financial metrics and per-status counts over the actor's visible projects
// @Tags Dashboard
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.DashboardStatsResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /api/dashboard/stats [get]
func (h *Handler) GetDashboardStats(c *gin.Context) {
	userID, err := h.getUserFromContext(c)
	if err != nil {
		h.errorResponse(c, http.StatusUnauthorized, "authorization required")
		return
	}

	ids, err := h.Resolver.VisibleProjectIDs(userID)
	if err != nil {
		logrus.Error("Error resolving visible projects: ", err)
		h.errorResponse(c, http.StatusInternalServerError, "failed to compute stats")
		return
	}

	projects, err := h.Repository.GetProjectsByIDs(ids)
	if err != nil {
		logrus.Error("Error getting projects: ", err)
		h.errorResponse(c, http.StatusInternalServerError, "failed to compute stats")
		return
	}

	summary := finance.Summarize(projects)

	counts := make(map[string]int)
	for _, p := range projects {
		counts[p.Status]++
	}

	// Full precision internally, rounded only here at the boundary.
	c.JSON(http.StatusOK, dto.DashboardStatsResponse{
		TotalRevenue:        finance.RoundCurrency(summary.TotalRevenue),
		TotalCosts:          finance.RoundCurrency(summary.TotalCosts),
		TotalProfit:         finance.RoundCurrency(summary.TotalProfit),
		ProfitMargin:        finance.RoundPercent(summary.ProfitMargin),
		TotalClientPayments: finance.RoundCurrency(summary.TotalClientPayments),
		TotalOutstanding:    finance.RoundCurrency(summary.TotalOutstanding),
		CollectionRate:      finance.RoundPercent(summary.CollectionRate),
		ProjectCount:        len(projects),
		CountsByStatus:      counts,
	})
}

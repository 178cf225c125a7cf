package handlers

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/rbse-library/library-service/internal/services"
	"github.com/rbse-library/library-service/internal/utils"
)

type AnalyticsHandler struct {
	BaseHandler
	analyticsService services.AnalyticsService
}

func NewAnalyticsHandler(analyticsService services.AnalyticsService, logger utils.Logger) *AnalyticsHandler {
	return &AnalyticsHandler{
		BaseHandler:      NewBaseHandler(logger),
		analyticsService: analyticsService,
	}
}

// Dashboard returns the headline usage numbers.
// GET /api/v1/analytics/dashboard
func (h *AnalyticsHandler) Dashboard(c *gin.Context) {
	stats, err := h.analyticsService.Dashboard(c.Request.Context())
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	h.RespondSuccess(c, http.StatusOK, "Dashboard stats", stats)
}

// PopularResources returns the most accessed resources in a window.
// GET /api/v1/analytics/popular-resources
func (h *AnalyticsHandler) PopularResources(c *gin.Context) {
	limit := parseIntQuery(c, "limit", 10, 100)
	days := parseIntQuery(c, "days", 30, 365)

	resources, err := h.analyticsService.PopularResources(c.Request.Context(), limit, days)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	h.RespondSuccess(c, http.StatusOK, "Popular resources", resources)
}

// DailyEngagement returns per-day access counts and unique users.
// GET /api/v1/analytics/engagement
func (h *AnalyticsHandler) DailyEngagement(c *gin.Context) {
	days := parseIntQuery(c, "days", 30, 365)

	engagement, err := h.analyticsService.DailyEngagement(c.Request.Context(), days)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	h.RespondSuccess(c, http.StatusOK, "Daily engagement", engagement)
}

// TopUsers returns the most active readers in a window.
// GET /api/v1/analytics/top-users
func (h *AnalyticsHandler) TopUsers(c *gin.Context) {
	limit := parseIntQuery(c, "limit", 10, 100)
	days := parseIntQuery(c, "days", 30, 365)

	users, err := h.analyticsService.TopUsers(c.Request.Context(), limit, days)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	h.RespondSuccess(c, http.StatusOK, "Top users", users)
}

// ExportReport streams an xlsx usage report.
// GET /api/v1/analytics/export
func (h *AnalyticsHandler) ExportReport(c *gin.Context) {
	days := parseIntQuery(c, "days", 30, 365)

	h.LogRequest(c, "Exporting usage report", "days", days)

	report, err := h.analyticsService.ExportUsageReport(c.Request.Context(), days)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	filename := fmt.Sprintf("library-usage-%s.xlsx", time.Now().Format("2006-01-02"))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", report)
}

func parseIntQuery(c *gin.Context, name string, def, ceiling int) int {
	if s := c.Query(name); s != "" {
		if v, err := strconv.Atoi(s); err == nil && v > 0 && v <= ceiling {
			return v
		}
	}
	return def
}

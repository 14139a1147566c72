package handler

import (
	"net/http"
	"time"

	"diamondtrade/internal/service"
	"diamondtrade/pkg/response"

	"github.com/gin-gonic/gin"
)

type StatisticsHandler struct {
	statisticsService service.StatisticsService
	now               func() time.Time
}

func NewStatisticsHandler(statisticsService service.StatisticsService) *StatisticsHandler {
	return &StatisticsHandler{statisticsService: statisticsService, now: time.Now}
}

func (h *StatisticsHandler) RegisterRoutes(router *gin.RouterGroup) {
	statsGroup := router.Group("/api/statistics")
	{
		statsGroup.GET("/dashboard", h.GetDashboard)
	}
}

// @Summary      Get dashboard statistics
// @Description  Invoice totals by status, category breakdown, monthly series and top clients for a date range
// @Tags         statistics
// @Produce      json
// @Param        start_date query string false "Start date (RFC3339 or yyyy-MM-dd, default: first day of this month)"
// @Param        end_date   query string false "End date (RFC3339 or yyyy-MM-dd, default: now)"
// @Success      200 {object} response.Response{data=model.DashboardStats}
// @Failure      400 {object} response.Response "Invalid date format"
// @Failure      500 {object} response.Response "Internal server error"
// @Router       /api/statistics/dashboard [get]
func (h *StatisticsHandler) GetDashboard(c *gin.Context) {
	now := h.now()

	startDate := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	if raw := c.Query("start_date"); raw != "" {
		parsed, err := service.ParseDate(raw)
		if err != nil {
			badRequest(c, "invalid start_date format, expected RFC3339 or yyyy-MM-dd")
			return
		}
		startDate = parsed
	}

	endDate := now
	if raw := c.Query("end_date"); raw != "" {
		parsed, err := service.ParseDate(raw)
		if err != nil {
			badRequest(c, "invalid end_date format, expected RFC3339 or yyyy-MM-dd")
			return
		}
		// A bare date covers the whole day.
		if len(raw) == len("2006-01-02") {
			parsed = parsed.Add(24*time.Hour - time.Nanosecond)
		}
		endDate = parsed
	}

	stats, err := h.statisticsService.GetDashboard(c.Request.Context(), startDate, endDate)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, stats))
}

package handler

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/t3-analytics/trucklake/internal/pkg/logger"
	"github.com/t3-analytics/trucklake/internal/pkg/models"
	"github.com/t3-analytics/trucklake/internal/utils"
	"github.com/t3-analytics/trucklake/services/report"
)

// ReportHandler handles HTTP requests for daily reports
type ReportHandler struct {
	reportUC report.ReportUC
}

// NewReportHandler creates a new report handler
func NewReportHandler(reportUC report.ReportUC) *ReportHandler {
	return &ReportHandler{
		reportUC: reportUC,
	}
}

// RegisterRoutes registers the report routes
func (h *ReportHandler) RegisterRoutes(e *echo.Echo) {
	g := e.Group("/api/reports")

	g.GET("/daily", h.GetDailyReport)
}

// GetDailyReport serves the daily report for the requested date,
// defaulting to the previous UTC day.
func (h *ReportHandler) GetDailyReport(c echo.Context) error {
	date := models.Yesterday()
	if raw := c.QueryParam("date"); raw != "" {
		parsed, err := models.ParseDate(raw)
		if err != nil {
			return utils.BadRequestResponse(c, fmt.Sprintf("invalid date %q, expected YYYY-MM-DD", raw))
		}
		date = parsed
	}

	dailyReport, err := h.reportUC.Generate(c.Request().Context(), date)
	if err != nil {
		logger.WithError(err).Error("Daily report generation failed")
		return utils.BadGatewayResponse(c, "Upstream query failed")
	}

	return utils.SuccessResponse(c, http.StatusOK, "Daily report generated", dailyReport)
}

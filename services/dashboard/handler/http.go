package handler

import (
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/t3-analytics/trucklake/internal/pkg/aggregate"
	"github.com/t3-analytics/trucklake/internal/pkg/logger"
	"github.com/t3-analytics/trucklake/internal/pkg/models"
	"github.com/t3-analytics/trucklake/internal/utils"
	"github.com/t3-analytics/trucklake/services/dashboard"
)

// DashboardHandler handles HTTP requests for dashboard views
type DashboardHandler struct {
	dashboardUC dashboard.DashboardUC
}

// NewDashboardHandler creates a new dashboard handler
func NewDashboardHandler(dashboardUC dashboard.DashboardUC) *DashboardHandler {
	return &DashboardHandler{
		dashboardUC: dashboardUC,
	}
}

// RegisterRoutes registers the dashboard routes
func (h *DashboardHandler) RegisterRoutes(e *echo.Echo) {
	g := e.Group("/api/dashboard")

	g.GET("", h.GetDashboard)
	g.GET("/trucks", h.GetTrucks)
}

// GetDashboard serves the aggregated view for the requested filters
func (h *DashboardHandler) GetDashboard(c echo.Context) error {
	query, err := parseDashboardQuery(c)
	if err != nil {
		return utils.BadRequestResponse(c, err.Error())
	}

	view, err := h.dashboardUC.View(c.Request().Context(), query)
	if err != nil {
		logger.WithError(err).Error("Dashboard view failed")
		return utils.BadGatewayResponse(c, "Upstream query failed")
	}

	return utils.SuccessResponse(c, http.StatusOK, "Dashboard view generated", view)
}

// GetTrucks serves the truck selector options for the requested range
func (h *DashboardHandler) GetTrucks(c echo.Context) error {
	start, end, err := parseDateRange(c)
	if err != nil {
		return utils.BadRequestResponse(c, err.Error())
	}
	methods := c.QueryParams()["payment_method"]

	trucks, err := h.dashboardUC.AvailableTrucks(c.Request().Context(), start, end, methods)
	if err != nil {
		logger.WithError(err).Error("Truck selector query failed")
		return utils.BadGatewayResponse(c, "Upstream query failed")
	}

	return utils.SuccessResponse(c, http.StatusOK, "Available trucks", map[string]interface{}{
		"trucks": trucks,
	})
}

// parseDateRange reads optional start/end parameters. A missing bound
// stays zero; the use case substitutes its default range.
func parseDateRange(c echo.Context) (time.Time, time.Time, error) {
	var start, end time.Time
	var err error

	if raw := c.QueryParam("start"); raw != "" {
		if start, err = models.ParseDate(raw); err != nil {
			return start, end, fmt.Errorf("invalid start date %q, expected YYYY-MM-DD", raw)
		}
	}
	if raw := c.QueryParam("end"); raw != "" {
		if end, err = models.ParseDate(raw); err != nil {
			return start, end, fmt.Errorf("invalid end date %q, expected YYYY-MM-DD", raw)
		}
	}
	if !start.IsZero() && !end.IsZero() && start.After(end) {
		return start, end, fmt.Errorf("start date must not be after end date")
	}
	return start, end, nil
}

func parseDashboardQuery(c echo.Context) (models.DashboardQuery, error) {
	var query models.DashboardQuery

	start, end, err := parseDateRange(c)
	if err != nil {
		return query, err
	}
	query.Start = start
	query.End = end

	switch grain := c.QueryParam("grain"); grain {
	case "", aggregate.GrainDay, aggregate.GrainHour:
		query.Grain = grain
	default:
		return query, fmt.Errorf("invalid grain %q, expected day or hour", grain)
	}

	switch sortBy := c.QueryParam("sort_by"); sortBy {
	case "", models.SortByRevenue, models.SortByTransactions, models.SortByAvgTicket:
		query.SortBy = sortBy
	default:
		return query, fmt.Errorf("invalid sort_by %q", sortBy)
	}

	switch compareBy := c.QueryParam("compare_by"); compareBy {
	case "", models.SortByRevenue, models.SortByTransactions, models.SortByAvgTicket, models.CompareByCashShare:
		query.CompareBy = compareBy
	default:
		return query, fmt.Errorf("invalid compare_by %q", compareBy)
	}

	// Repeated parameters, so truck names may contain any character.
	query.PaymentMethods = c.QueryParams()["payment_method"]
	query.Trucks = c.QueryParams()["truck"]

	return query, nil
}

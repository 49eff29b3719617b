package dashboard

import (
	"context"
	"time"

	"github.com/t3-analytics/trucklake/internal/pkg/models"
)

// DashboardUC defines the interface for dashboard views
type DashboardUC interface {
	View(ctx context.Context, query models.DashboardQuery) (*models.DashboardView, error)
	AvailableTrucks(ctx context.Context, start, end time.Time, methods []string) ([]string, error)
}

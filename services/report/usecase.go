package report

import (
	"context"
	"time"

	"github.com/t3-analytics/trucklake/internal/pkg/models"
)

// ReportUC defines the interface for generating the daily report
type ReportUC interface {
	Generate(ctx context.Context, date time.Time) (*models.DailyReport, error)
}

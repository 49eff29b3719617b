package report

import (
	"context"
	"time"

	"github.com/t3-analytics/trucklake/internal/pkg/models"
)

// SalesReader defines the interface for reading the prepared sales
// rows of a single calendar day.
type SalesReader interface {
	SalesForDay(ctx context.Context, day time.Time) ([]models.SalesRow, error)
}

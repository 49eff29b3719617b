package dashboard

import (
	"context"
	"time"

	"github.com/t3-analytics/trucklake/internal/pkg/models"
)

// SalesReader defines the interface for reading prepared sales rows
// over an inclusive date range.
type SalesReader interface {
	SalesBetween(ctx context.Context, start, end time.Time) ([]models.SalesRow, error)
}

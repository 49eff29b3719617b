package repository

import (
	"context"
	"time"

	"github.com/t3-analytics/trucklake/internal/pkg/lakequery"
	"github.com/t3-analytics/trucklake/internal/pkg/models"
)

// SalesRepo reads one day of prepared sales rows from the lake's query
// engine. Reports run once per day, so there is no cache in front.
type SalesRepo struct {
	engine lakequery.Engine
	tables lakequery.Tables
}

// NewSalesRepo creates a new report sales repository
func NewSalesRepo(cfg *models.Config, engine lakequery.Engine) *SalesRepo {
	return &SalesRepo{
		engine: engine,
		tables: lakequery.Tables{
			Database:      cfg.Athena.Database,
			Transaction:   cfg.Athena.TransactionTable,
			Truck:         cfg.Athena.TruckTable,
			PaymentMethod: cfg.Athena.PaymentMethodTable,
		},
	}
}

// SalesForDay returns the prepared rows for one calendar day, the
// degenerate range day..day.
func (r *SalesRepo) SalesForDay(ctx context.Context, day time.Time) ([]models.SalesRow, error) {
	d := models.DateOf(day)
	return lakequery.SalesBetween(ctx, r.engine, r.tables, d, d)
}

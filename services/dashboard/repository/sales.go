package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/t3-analytics/trucklake/internal/pkg/cache"
	"github.com/t3-analytics/trucklake/internal/pkg/constants"
	"github.com/t3-analytics/trucklake/internal/pkg/lakequery"
	"github.com/t3-analytics/trucklake/internal/pkg/logger"
	"github.com/t3-analytics/trucklake/internal/pkg/models"
)

// SalesRepo reads prepared sales rows from the lake's query engine,
// memoizing per date range. The cache is an optimization only; results
// are identical with the no-op cache.
type SalesRepo struct {
	engine lakequery.Engine
	tables lakequery.Tables
	cache  cache.Cache
	ttl    time.Duration
}

// NewSalesRepo creates a new sales repository
func NewSalesRepo(cfg *models.Config, engine lakequery.Engine, rowCache cache.Cache) *SalesRepo {
	return &SalesRepo{
		engine: engine,
		tables: lakequery.Tables{
			Database:      cfg.Athena.Database,
			Transaction:   cfg.Athena.TransactionTable,
			Truck:         cfg.Athena.TruckTable,
			PaymentMethod: cfg.Athena.PaymentMethodTable,
		},
		cache: rowCache,
		ttl:   time.Duration(cfg.Dashboard.RowsCacheTTLSeconds) * time.Second,
	}
}

// SalesBetween returns prepared rows for the inclusive date range.
func (r *SalesRepo) SalesBetween(ctx context.Context, start, end time.Time) ([]models.SalesRow, error) {
	key := fmt.Sprintf(constants.KeySalesRows, models.FormatDate(start), models.FormatDate(end))

	if cached, hit, err := r.cache.Get(ctx, key); err != nil {
		logger.Warn("Sales row cache read failed", logrus.Fields{"key": key, "error": err.Error()})
	} else if hit {
		var rows []models.SalesRow
		if jsonErr := json.Unmarshal([]byte(cached), &rows); jsonErr == nil {
			return rows, nil
		}
		// Corrupt payload, fall through to the engine.
	}

	rows, err := lakequery.SalesBetween(ctx, r.engine, r.tables, start, end)
	if err != nil {
		return nil, err
	}

	if payload, jsonErr := json.Marshal(rows); jsonErr == nil {
		if setErr := r.cache.Set(ctx, key, string(payload), r.ttl); setErr != nil {
			logger.Warn("Sales row cache write failed", logrus.Fields{"key": key, "error": setErr.Error()})
		}
	}
	return rows, nil
}

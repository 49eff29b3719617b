// Package lakequery owns the one denormalized sales query both read
// surfaces use. Keeping the SQL and the row prep in a single place is
// what guarantees dashboard and report totals agree.
package lakequery

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/t3-analytics/trucklake/internal/pkg/athena"
	"github.com/t3-analytics/trucklake/internal/pkg/converter"
	"github.com/t3-analytics/trucklake/internal/pkg/models"
)

// Engine executes SQL against the lake.
type Engine interface {
	Query(ctx context.Context, sql string) (*athena.ResultSet, error)
}

// Tables names the lake tables the sales query joins.
type Tables struct {
	Database      string
	Transaction   string
	Truck         string
	PaymentMethod string
}

var pence = decimal.NewFromInt(100)

// BuildSalesQuery renders the denormalized sales query for a date
// range. A single day is the degenerate range start == end. Day and
// hour timestamps are reconstructed from the partition key parts, and
// only rows with a positive, non-null amount are included; both
// surfaces depend on this filter being identical.
func BuildSalesQuery(t Tables, start, end time.Time) string {
	return fmt.Sprintf(`
    SELECT
      t.transaction_id,
      t.truck_id,
      tr.truck_name,
      t.payment_method_id,
      pm.payment_method,
      CAST(t.total AS DOUBLE) AS total,

      date_parse(concat(t.year, '-', t.month, '-', t.day), '%%Y-%%m-%%d') AS day_dt,
      date_parse(
        concat(t.year, '-', t.month, '-', t.day, ' ', t.hour, ':00:00'),
        '%%Y-%%m-%%d %%H:%%i:%%s'
      ) AS hour_ts

    FROM "%s"."%s" t
    LEFT JOIN "%s"."%s" tr
      ON t.truck_id = tr.truck_id
    LEFT JOIN "%s"."%s" pm
      ON t.payment_method_id = pm.payment_method_id

    WHERE CAST(t.total AS DOUBLE) IS NOT NULL
      AND CAST(t.total AS DOUBLE) > 0
      AND date_parse(concat(t.year, '-', t.month, '-', t.day), '%%Y-%%m-%%d')
          BETWEEN DATE '%s' AND DATE '%s'`,
		t.Database, t.Transaction,
		t.Database, t.Truck,
		t.Database, t.PaymentMethod,
		models.FormatDate(start), models.FormatDate(end),
	)
}

// ParseSalesRows converts a raw result set into prepared sales rows:
// labels trimmed and lowercased, totals converted from pence to
// pounds, timestamps parsed. Rows that fail preparation are dropped,
// mirroring the write-side cleaning policy.
func ParseSalesRows(rs *athena.ResultSet) ([]models.SalesRow, error) {
	idIdx := rs.Index("transaction_id")
	truckIdx := rs.Index("truck_name")
	methodIdx := rs.Index("payment_method")
	totalIdx := rs.Index("total")
	dayIdx := rs.Index("day_dt")
	hourIdx := rs.Index("hour_ts")
	if idIdx < 0 || totalIdx < 0 || dayIdx < 0 || hourIdx < 0 {
		return nil, fmt.Errorf("sales result set is missing required columns: %v", rs.Columns)
	}

	rows := make([]models.SalesRow, 0, len(rs.Rows))
	for _, raw := range rs.Rows {
		id, ok := converter.Int64(cell(raw, idIdx))
		if !ok {
			continue
		}
		totalPence, ok := converter.Float64(cell(raw, totalIdx))
		if !ok || totalPence <= 0 {
			continue
		}
		day, ok := parseAthenaTimestamp(cell(raw, dayIdx))
		if !ok {
			continue
		}
		hour, ok := parseAthenaTimestamp(cell(raw, hourIdx))
		if !ok {
			continue
		}

		rows = append(rows, models.SalesRow{
			TransactionID: id,
			TruckName:     strings.TrimSpace(cell(raw, truckIdx)),
			PaymentMethod: strings.ToLower(strings.TrimSpace(cell(raw, methodIdx))),
			Total:         decimal.NewFromFloat(totalPence).Div(pence).InexactFloat64(),
			Day:           day,
			Hour:          hour,
		})
	}
	return rows, nil
}

// SalesBetween runs the shared query and returns prepared rows.
func SalesBetween(ctx context.Context, engine Engine, t Tables, start, end time.Time) ([]models.SalesRow, error) {
	rs, err := engine.Query(ctx, BuildSalesQuery(t, start, end))
	if err != nil {
		return nil, fmt.Errorf("failed to query sales between %s and %s: %w",
			models.FormatDate(start), models.FormatDate(end), err)
	}
	return ParseSalesRows(rs)
}

func cell(row []*string, idx int) string {
	if idx < 0 || idx >= len(row) || row[idx] == nil {
		return ""
	}
	return *row[idx]
}

// Athena renders timestamps with millisecond precision.
func parseAthenaTimestamp(s string) (time.Time, bool) {
	t := strings.TrimSpace(s)
	if ts, err := time.ParseInLocation("2006-01-02 15:04:05.000", t, time.UTC); err == nil {
		return ts, true
	}
	return converter.Timestamp(t)
}

package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/t3-analytics/trucklake/internal/pkg/athena"
	"github.com/t3-analytics/trucklake/internal/pkg/lakequery"
)

type fakeEngine struct {
	rs     *athena.ResultSet
	err    error
	gotSQL string
}

func (f *fakeEngine) Query(_ context.Context, sql string) (*athena.ResultSet, error) {
	f.gotSQL = sql
	if f.err != nil {
		return nil, f.err
	}
	return f.rs, nil
}

func strPtr(s string) *string { return &s }

func setupSalesRepoTest(engine lakequery.Engine) *SalesRepo {
	return &SalesRepo{
		engine: engine,
		tables: lakequery.Tables{
			Database:      "trucklake",
			Transaction:   "transaction",
			Truck:         "truck",
			PaymentMethod: "payment_method",
		},
	}
}

func TestSalesForDay(t *testing.T) {
	engine := &fakeEngine{rs: &athena.ResultSet{
		Columns: []string{
			"transaction_id", "truck_id", "truck_name", "payment_method_id",
			"payment_method", "total", "day_dt", "hour_ts",
		},
		Rows: [][]*string{
			{strPtr("101"), strPtr("4"), strPtr("Burrito Madness"), strPtr("1"), strPtr("card"), strPtr("525.0"), strPtr("2024-03-05 00:00:00.000"), strPtr("2024-03-05 14:00:00.000")},
		},
	}}
	repo := setupSalesRepoTest(engine)

	// The sub-day part must not widen the range.
	at := time.Date(2024, 3, 5, 14, 30, 0, 0, time.UTC)
	rows, err := repo.SalesForDay(context.Background(), at)
	require.NoError(t, err)

	assert.Contains(t, engine.gotSQL, "BETWEEN DATE '2024-03-05' AND DATE '2024-03-05'")
	require.Len(t, rows, 1)
	assert.Equal(t, int64(101), rows[0].TransactionID)
	assert.Equal(t, 5.25, rows[0].Total)
}

func TestSalesForDayEngineFailure(t *testing.T) {
	engine := &fakeEngine{err: errors.New("workgroup disabled")}
	repo := setupSalesRepoTest(engine)

	rows, err := repo.SalesForDay(context.Background(), time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC))

	assert.Nil(t, rows)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to query sales between 2024-03-05 and 2024-03-05")
}

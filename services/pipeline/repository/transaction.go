package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/t3-analytics/trucklake/internal/pkg/database"
	"github.com/t3-analytics/trucklake/internal/pkg/models"
)

// TransactionRepo reads raw joined transaction rows from the operational
// MySQL store.
type TransactionRepo struct {
	db *sqlx.DB
}

// NewTransactionRepo creates a new transaction repository
func NewTransactionRepo(client *database.MySQLClient) *TransactionRepo {
	return &TransactionRepo{db: client.GetDB()}
}

// Rows are joined against both dimensions at the source so the cleaner
// sees denormalized records. The window keeps each run bounded; obvious
// garbage (null or non-positive totals) is filtered at the source, the
// cleaner re-checks everything it receives.
const extractQuery = `
	SELECT
		ta.transaction_id,
		ta.truck_id,
		tu.truck_name,
		tu.truck_description,
		tu.has_card_reader,
		tu.fsa_rating,
		ta.payment_method_id,
		pm.payment_method,
		ta.total,
		ta.at
	FROM FACT_Transaction AS ta
	INNER JOIN DIM_Payment_Method AS pm
		ON pm.payment_method_id = ta.payment_method_id
	INNER JOIN DIM_Truck AS tu
		ON tu.truck_id = ta.truck_id
	WHERE ta.total IS NOT NULL
		AND ta.total > 0
		AND ta.at >= NOW() - INTERVAL ? HOUR`

// ExtractWindow returns all joined transaction rows from the last
// windowHours hours.
func (r *TransactionRepo) ExtractWindow(ctx context.Context, windowHours int) ([]models.RawTransactionRow, error) {
	rows := []models.RawTransactionRow{}
	if err := r.db.SelectContext(ctx, &rows, extractQuery, windowHours); err != nil {
		return nil, fmt.Errorf("failed to extract transactions: %w", err)
	}
	return rows, nil
}

package pipeline

import (
	"context"

	"github.com/t3-analytics/trucklake/internal/pkg/models"
)

// TransactionExtractor defines the interface for pulling raw joined rows
// from the operational store.
type TransactionExtractor interface {
	ExtractWindow(ctx context.Context, windowHours int) ([]models.RawTransactionRow, error)
}

// LakeWriter defines the interface for staging the columnar lake tree
// on local disk.
type LakeWriter interface {
	WriteLake(ctx context.Context, facts []models.Transaction, trucks []models.TruckDim, methods []models.PaymentMethodDim) (*models.LakeManifest, error)
}

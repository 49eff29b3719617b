package pipeline

import (
	"context"

	"github.com/t3-analytics/trucklake/internal/pkg/models"
)

// PipelineUC defines the interface for driving one extract, clean, load
// cycle. On upload failure the returned run is non-nil and carries the
// keys uploaded before the failure.
type PipelineUC interface {
	RunOnce(ctx context.Context) (*models.PipelineRun, error)
}

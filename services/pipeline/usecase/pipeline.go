package usecase

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/t3-analytics/trucklake/internal/pkg/logger"
	"github.com/t3-analytics/trucklake/internal/pkg/models"
	"github.com/t3-analytics/trucklake/services/pipeline"
)

// PipelineUC implements the pipeline.PipelineUC interface
type PipelineUC struct {
	cfg       *models.Config
	extractor pipeline.TransactionExtractor
	lake      pipeline.LakeWriter
	uploader  pipeline.LakeUploader
}

// NewPipelineUC creates a new pipeline use case
func NewPipelineUC(
	cfg *models.Config,
	extractor pipeline.TransactionExtractor,
	lake pipeline.LakeWriter,
	uploader pipeline.LakeUploader,
) pipeline.PipelineUC {
	return &PipelineUC{
		cfg:       cfg,
		extractor: extractor,
		lake:      lake,
		uploader:  uploader,
	}
}

// RunOnce drives one extract, clean, load cycle. When the upload fails
// partway, the returned run still carries the keys uploaded before the
// failure, alongside the error.
func (uc *PipelineUC) RunOnce(ctx context.Context) (*models.PipelineRun, error) {
	run := &models.PipelineRun{
		RunID:     uuid.New().String(),
		StartedAt: models.Now(),
	}

	rows, err := uc.extractor.ExtractWindow(ctx, uc.cfg.Pipeline.ExtractWindowHours)
	if err != nil {
		return nil, fmt.Errorf("pipeline run %s: %w", run.RunID, err)
	}
	run.RowsExtracted = len(rows)

	facts, report := CleanTransactions(rows)
	run.Clean = report

	trucks := BuildTruckDim(facts)
	methods := BuildPaymentMethodDim(facts)
	run.Trucks = len(trucks)
	run.PaymentMethods = len(methods)

	manifest, err := uc.lake.WriteLake(ctx, facts, trucks, methods)
	if err != nil {
		return nil, fmt.Errorf("pipeline run %s: %w", run.RunID, err)
	}
	run.Partitions = manifest.Partitions
	run.FilesWritten = len(manifest.Files)

	keys, err := uc.uploader.UploadTree(ctx, manifest.StagingDir)
	run.UploadedKeys = keys
	run.FinishedAt = models.Now()
	if err != nil {
		return run, fmt.Errorf("pipeline run %s: %w", run.RunID, err)
	}

	logger.Info("Pipeline run completed", logrus.Fields{
		"run_id":         run.RunID,
		"rows_extracted": run.RowsExtracted,
		"rows_kept":      run.Clean.Kept,
		"rows_dropped":   run.Clean.Dropped,
		"drop_reasons":   run.Clean.Reasons,
		"partitions":     run.Partitions,
		"files_written":  run.FilesWritten,
		"uploaded":       len(run.UploadedKeys),
		"duration":       run.FinishedAt.Sub(run.StartedAt).String(),
	})
	return run, nil
}

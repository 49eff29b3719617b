package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/t3-analytics/trucklake/internal/pkg/models"
)

type fakeExtractor struct {
	rows      []models.RawTransactionRow
	err       error
	gotWindow int
}

func (f *fakeExtractor) ExtractWindow(_ context.Context, windowHours int) ([]models.RawTransactionRow, error) {
	f.gotWindow = windowHours
	return f.rows, f.err
}

type fakeLakeWriter struct {
	manifest  *models.LakeManifest
	err       error
	gotFacts  []models.Transaction
	gotTrucks []models.TruckDim
	gotPMs    []models.PaymentMethodDim
}

func (f *fakeLakeWriter) WriteLake(_ context.Context, facts []models.Transaction, trucks []models.TruckDim, methods []models.PaymentMethodDim) (*models.LakeManifest, error) {
	f.gotFacts = facts
	f.gotTrucks = trucks
	f.gotPMs = methods
	if f.err != nil {
		return nil, f.err
	}
	return f.manifest, nil
}

type fakeUploader struct {
	keys   []string
	err    error
	gotDir string
}

func (f *fakeUploader) UploadTree(_ context.Context, dir string) ([]string, error) {
	f.gotDir = dir
	return f.keys, f.err
}

func pipelineTestConfig() *models.Config {
	return &models.Config{
		Pipeline: models.PipelineConfig{ExtractWindowHours: 3},
		Lake:     models.LakeConfig{StagingDir: "input", Bucket: "trucklake", Prefix: "input"},
	}
}

func TestRunOnce(t *testing.T) {
	voided := validRaw("999")
	voided.Total = ns("VOID")

	extractor := &fakeExtractor{rows: []models.RawTransactionRow{
		validRaw("101"),
		validRaw("102"),
		voided,
	}}
	lake := &fakeLakeWriter{manifest: &models.LakeManifest{
		StagingDir: "input",
		Files: []string{
			"truck/truck.parquet",
			"payment_method/payment_method.parquet",
			"transaction/year=2024/month=03/day=05/hour=14/transaction.parquet",
		},
		Partitions: 1,
	}}
	uploader := &fakeUploader{keys: []string{
		"input/truck/truck.parquet",
		"input/payment_method/payment_method.parquet",
		"input/transaction/year=2024/month=03/day=05/hour=14/transaction.parquet",
	}}

	uc := NewPipelineUC(pipelineTestConfig(), extractor, lake, uploader)
	run, err := uc.RunOnce(context.Background())

	require.NoError(t, err)
	require.NotNil(t, run)

	_, parseErr := uuid.Parse(run.RunID)
	assert.NoError(t, parseErr)
	assert.False(t, run.FinishedAt.Before(run.StartedAt))

	assert.Equal(t, 3, extractor.gotWindow)
	assert.Equal(t, 3, run.RowsExtracted)
	assert.Equal(t, 2, run.Clean.Kept)
	assert.Equal(t, map[string]int{models.DropInvalidTotal: 1}, run.Clean.Reasons)

	assert.Len(t, lake.gotFacts, 2)
	assert.Equal(t, 1, run.Trucks)
	assert.Equal(t, 1, run.PaymentMethods)

	assert.Equal(t, "input", uploader.gotDir)
	assert.Equal(t, 1, run.Partitions)
	assert.Equal(t, 3, run.FilesWritten)
	assert.Len(t, run.UploadedKeys, 3)
}

func TestRunOnceExtractFailure(t *testing.T) {
	extractor := &fakeExtractor{err: errors.New("connection refused")}
	uc := NewPipelineUC(pipelineTestConfig(), extractor, &fakeLakeWriter{}, &fakeUploader{})

	run, err := uc.RunOnce(context.Background())

	assert.Nil(t, run)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "connection refused")
}

func TestRunOnceLakeFailure(t *testing.T) {
	extractor := &fakeExtractor{rows: []models.RawTransactionRow{validRaw("101")}}
	lake := &fakeLakeWriter{err: errors.New("disk full")}
	uc := NewPipelineUC(pipelineTestConfig(), extractor, lake, &fakeUploader{})

	run, err := uc.RunOnce(context.Background())

	assert.Nil(t, run)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk full")
}

func TestRunOnceUploadFailureKeepsPartialKeys(t *testing.T) {
	extractor := &fakeExtractor{rows: []models.RawTransactionRow{validRaw("101")}}
	lake := &fakeLakeWriter{manifest: &models.LakeManifest{
		StagingDir: "input",
		Files:      []string{"truck/truck.parquet", "payment_method/payment_method.parquet"},
	}}
	uploader := &fakeUploader{
		keys: []string{"input/truck/truck.parquet"},
		err:  errors.New("access denied"),
	}

	uc := NewPipelineUC(pipelineTestConfig(), extractor, lake, uploader)
	run, err := uc.RunOnce(context.Background())

	require.Error(t, err)
	require.NotNil(t, run)
	assert.Equal(t, []string{"input/truck/truck.parquet"}, run.UploadedKeys)
}

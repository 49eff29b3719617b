package repository

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/apache/arrow/go/v17/arrow"
	"github.com/apache/arrow/go/v17/arrow/array"
	"github.com/apache/arrow/go/v17/arrow/memory"
	"github.com/apache/arrow/go/v17/parquet"
	"github.com/apache/arrow/go/v17/parquet/compress"
	"github.com/apache/arrow/go/v17/parquet/pqarrow"

	"github.com/t3-analytics/trucklake/internal/pkg/models"
)

// Lake layout. Partition columns live in the directory names only; the
// query engine reconstructs them from the path.
const (
	truckDimPath         = "truck/truck.parquet"
	paymentMethodDimPath = "payment_method/payment_method.parquet"
	transactionDir       = "transaction"
	transactionFile      = "transaction.parquet"
)

var transactionSchema = arrow.NewSchema([]arrow.Field{
	{Name: "transaction_id", Type: arrow.PrimitiveTypes.Int64},
	{Name: "at", Type: &arrow.TimestampType{Unit: arrow.Microsecond, TimeZone: "UTC"}},
	{Name: "truck_name", Type: arrow.BinaryTypes.String},
	{Name: "payment_method", Type: arrow.BinaryTypes.String},
	{Name: "total", Type: arrow.PrimitiveTypes.Float64},
	{Name: "truck_id", Type: arrow.PrimitiveTypes.Int64},
	{Name: "payment_method_id", Type: arrow.PrimitiveTypes.Int64},
	{Name: "fsa_rating", Type: arrow.PrimitiveTypes.Int64},
	{Name: "has_card_reader", Type: arrow.FixedWidthTypes.Boolean},
	{Name: "truck_description", Type: arrow.BinaryTypes.String},
}, nil)

var truckSchema = arrow.NewSchema([]arrow.Field{
	{Name: "truck_id", Type: arrow.PrimitiveTypes.Int64},
	{Name: "truck_name", Type: arrow.BinaryTypes.String},
	{Name: "truck_description", Type: arrow.BinaryTypes.String},
	{Name: "has_card_reader", Type: arrow.FixedWidthTypes.Boolean},
	{Name: "fsa_rating", Type: arrow.PrimitiveTypes.Int64},
}, nil)

var paymentMethodSchema = arrow.NewSchema([]arrow.Field{
	{Name: "payment_method_id", Type: arrow.PrimitiveTypes.Int64},
	{Name: "payment_method", Type: arrow.BinaryTypes.String},
}, nil)

// LakeRepo stages the columnar lake tree under a local directory.
type LakeRepo struct {
	stagingDir string
	mem        memory.Allocator
}

// NewLakeRepo creates a new lake repository
func NewLakeRepo(cfg *models.Config) *LakeRepo {
	return &LakeRepo{
		stagingDir: cfg.Lake.StagingDir,
		mem:        memory.NewGoAllocator(),
	}
}

// WriteLake writes both dimensions and the partitioned fact files under
// a freshly constructed staging directory, so the tree mirrors exactly
// this run's output.
func (r *LakeRepo) WriteLake(ctx context.Context, facts []models.Transaction, trucks []models.TruckDim, methods []models.PaymentMethodDim) (*models.LakeManifest, error) {
	if err := os.RemoveAll(r.stagingDir); err != nil {
		return nil, fmt.Errorf("failed to reset staging dir %s: %w", r.stagingDir, err)
	}

	manifest := &models.LakeManifest{StagingDir: r.stagingDir}

	if err := r.writeParquet(truckDimPath, r.buildTruckTable(trucks)); err != nil {
		return nil, err
	}
	manifest.Files = append(manifest.Files, truckDimPath)

	if err := r.writeParquet(paymentMethodDimPath, r.buildPaymentMethodTable(methods)); err != nil {
		return nil, err
	}
	manifest.Files = append(manifest.Files, paymentMethodDimPath)

	partitionFiles, err := r.writePartitionedFacts(ctx, facts)
	if err != nil {
		return nil, err
	}
	manifest.Files = append(manifest.Files, partitionFiles...)
	manifest.Partitions = len(partitionFiles)

	return manifest, nil
}

type partitionKey struct {
	year  int
	month int
	day   int
	hour  int
}

func (k partitionKey) relPath() string {
	return filepath.Join(
		transactionDir,
		fmt.Sprintf("year=%d", k.year),
		fmt.Sprintf("month=%02d", k.month),
		fmt.Sprintf("day=%02d", k.day),
		fmt.Sprintf("hour=%02d", k.hour),
		transactionFile,
	)
}

// writePartitionedFacts groups facts by truncated event time and writes
// one file per partition leaf, in first-appearance order.
func (r *LakeRepo) writePartitionedFacts(ctx context.Context, facts []models.Transaction) ([]string, error) {
	groups := make(map[partitionKey][]models.Transaction)
	order := make([]partitionKey, 0)
	for _, t := range facts {
		at := t.At.UTC()
		key := partitionKey{year: at.Year(), month: int(at.Month()), day: at.Day(), hour: at.Hour()}
		if _, ok := groups[key]; !ok {
			order = append(order, key)
		}
		groups[key] = append(groups[key], t)
	}

	files := make([]string, 0, len(order))
	for _, key := range order {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("lake write cancelled: %w", err)
		}
		rel := key.relPath()
		if err := r.writeParquet(rel, r.buildTransactionTable(groups[key])); err != nil {
			return nil, err
		}
		files = append(files, rel)
	}
	return files, nil
}

func (r *LakeRepo) buildTransactionTable(facts []models.Transaction) arrow.Table {
	bldr := array.NewRecordBuilder(r.mem, transactionSchema)
	defer bldr.Release()

	for _, t := range facts {
		bldr.Field(0).(*array.Int64Builder).Append(t.TransactionID)
		bldr.Field(1).(*array.TimestampBuilder).Append(arrow.Timestamp(t.At.UTC().UnixMicro()))
		bldr.Field(2).(*array.StringBuilder).Append(t.TruckName)
		bldr.Field(3).(*array.StringBuilder).Append(t.PaymentMethod)
		bldr.Field(4).(*array.Float64Builder).Append(t.Total)
		bldr.Field(5).(*array.Int64Builder).Append(t.TruckID)
		bldr.Field(6).(*array.Int64Builder).Append(t.PaymentMethodID)
		bldr.Field(7).(*array.Int64Builder).Append(t.FSARating)
		bldr.Field(8).(*array.BooleanBuilder).Append(t.HasCardReader)
		bldr.Field(9).(*array.StringBuilder).Append(t.TruckDescription)
	}

	rec := bldr.NewRecord()
	defer rec.Release()
	return array.NewTableFromRecords(transactionSchema, []arrow.Record{rec})
}

func (r *LakeRepo) buildTruckTable(trucks []models.TruckDim) arrow.Table {
	bldr := array.NewRecordBuilder(r.mem, truckSchema)
	defer bldr.Release()

	for _, t := range trucks {
		bldr.Field(0).(*array.Int64Builder).Append(t.TruckID)
		bldr.Field(1).(*array.StringBuilder).Append(t.TruckName)
		bldr.Field(2).(*array.StringBuilder).Append(t.TruckDescription)
		bldr.Field(3).(*array.BooleanBuilder).Append(t.HasCardReader)
		bldr.Field(4).(*array.Int64Builder).Append(t.FSARating)
	}

	rec := bldr.NewRecord()
	defer rec.Release()
	return array.NewTableFromRecords(truckSchema, []arrow.Record{rec})
}

func (r *LakeRepo) buildPaymentMethodTable(methods []models.PaymentMethodDim) arrow.Table {
	bldr := array.NewRecordBuilder(r.mem, paymentMethodSchema)
	defer bldr.Release()

	for _, m := range methods {
		bldr.Field(0).(*array.Int64Builder).Append(m.PaymentMethodID)
		bldr.Field(1).(*array.StringBuilder).Append(m.PaymentMethod)
	}

	rec := bldr.NewRecord()
	defer rec.Release()
	return array.NewTableFromRecords(paymentMethodSchema, []arrow.Record{rec})
}

// writeParquet writes one table as a snappy-compressed parquet file at
// relPath below the staging directory.
func (r *LakeRepo) writeParquet(relPath string, table arrow.Table) error {
	defer table.Release()

	path := filepath.Join(r.stagingDir, relPath)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create partition dir for %s: %w", relPath, err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer f.Close()

	props := parquet.NewWriterProperties(parquet.WithCompression(compress.Codecs.Snappy))
	arrowProps := pqarrow.NewArrowWriterProperties(pqarrow.WithAllocator(r.mem))

	writer, err := pqarrow.NewFileWriter(table.Schema(), f, props, arrowProps)
	if err != nil {
		return fmt.Errorf("failed to open parquet writer for %s: %w", path, err)
	}

	chunkSize := table.NumRows()
	if chunkSize == 0 {
		chunkSize = 1
	}
	if err := writer.WriteTable(table, chunkSize); err != nil {
		writer.Close()
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to close %s: %w", path, err)
	}
	return nil
}

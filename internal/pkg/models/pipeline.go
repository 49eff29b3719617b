package models

import "time"

// Drop reasons reported by the transaction cleaner.
const (
	DropInvalidID            = "invalid_id"
	DropInvalidTotal         = "invalid_total"
	DropNonPositiveTotal     = "non_positive_total"
	DropInvalidTimestamp     = "invalid_timestamp"
	DropInvalidCardReader    = "invalid_card_reader"
	DropRatingOutOfRange     = "rating_out_of_range"
	DropInvalidPaymentMethod = "invalid_payment_method"
	DropDuplicateTransaction = "duplicate_transaction_id"
)

// CleanReport summarizes one cleaning pass over extracted rows.
// Dropped rows are counted per reason rather than reported individually.
type CleanReport struct {
	Input   int            `json:"input"`
	Kept    int            `json:"kept"`
	Dropped int            `json:"dropped"`
	Reasons map[string]int `json:"reasons,omitempty"`
}

// LakeManifest describes the staged lake tree produced by one run.
type LakeManifest struct {
	StagingDir string `json:"staging_dir"`
	// Files holds paths relative to StagingDir, in write order.
	Files      []string `json:"files"`
	Partitions int      `json:"partitions"`
}

// PipelineRun captures the outcome of one extract, clean, load cycle.
type PipelineRun struct {
	RunID          string      `json:"run_id"`
	StartedAt      time.Time   `json:"started_at"`
	FinishedAt     time.Time   `json:"finished_at"`
	RowsExtracted  int         `json:"rows_extracted"`
	Clean          CleanReport `json:"clean"`
	Trucks         int         `json:"trucks"`
	PaymentMethods int         `json:"payment_methods"`
	Partitions     int         `json:"partitions"`
	FilesWritten   int         `json:"files_written"`
	UploadedKeys   []string    `json:"uploaded_keys"`
}

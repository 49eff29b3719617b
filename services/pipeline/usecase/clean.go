package usecase

import (
	"math"
	"strings"

	"github.com/t3-analytics/trucklake/internal/pkg/converter"
	"github.com/t3-analytics/trucklake/internal/pkg/models"
)

// Payment methods allowed after normalization.
var allowedMethods = map[string]struct{}{
	"cash": {},
	"card": {},
}

// CleanTransactions applies the cleaning rules to raw joined rows:
// identifiers, total (with the literal "VOID" treated as missing),
// event timestamp, card-reader flag, rating range, payment method,
// then deduplication on transaction id keeping the first occurrence.
// Rule order matters: a row failing several rules is counted once,
// under the first rule it fails.
func CleanTransactions(rows []models.RawTransactionRow) ([]models.Transaction, models.CleanReport) {
	report := models.CleanReport{Input: len(rows), Reasons: make(map[string]int)}
	cleaned := make([]models.Transaction, 0, len(rows))
	seen := make(map[int64]struct{}, len(rows))

	for _, row := range rows {
		tx, reason := cleanRow(row)
		if reason == "" {
			if _, dup := seen[tx.TransactionID]; dup {
				reason = models.DropDuplicateTransaction
			}
		}
		if reason != "" {
			report.Reasons[reason]++
			continue
		}
		seen[tx.TransactionID] = struct{}{}
		cleaned = append(cleaned, tx)
	}

	report.Kept = len(cleaned)
	report.Dropped = report.Input - report.Kept
	if len(report.Reasons) == 0 {
		report.Reasons = nil
	}
	return cleaned, report
}

func cleanRow(row models.RawTransactionRow) (models.Transaction, string) {
	var tx models.Transaction

	id, ok := converter.Int64(converter.NullString(row.TransactionID))
	if !ok {
		return tx, models.DropInvalidID
	}
	truckID, ok := converter.Int64(converter.NullString(row.TruckID))
	if !ok {
		return tx, models.DropInvalidID
	}
	methodID, ok := converter.Int64(converter.NullString(row.PaymentMethodID))
	if !ok {
		return tx, models.DropInvalidID
	}

	total := converter.NullString(row.Total)
	if strings.EqualFold(total, "VOID") {
		return tx, models.DropInvalidTotal
	}
	amount, ok := converter.Float64(total)
	if !ok {
		return tx, models.DropInvalidTotal
	}
	if amount <= 0 {
		return tx, models.DropNonPositiveTotal
	}

	at, ok := converter.Timestamp(converter.NullString(row.At))
	if !ok {
		return tx, models.DropInvalidTimestamp
	}

	hasCardReader, ok := converter.ZeroOneFlag(converter.NullString(row.HasCardReader))
	if !ok {
		return tx, models.DropInvalidCardReader
	}

	rating, ok := converter.Float64(converter.NullString(row.FSARating))
	if !ok || rating < 0 || rating > 5 || rating != math.Trunc(rating) {
		return tx, models.DropRatingOutOfRange
	}

	method := strings.ToLower(converter.NullString(row.PaymentMethod))
	if _, allowed := allowedMethods[method]; !allowed {
		return tx, models.DropInvalidPaymentMethod
	}

	tx = models.Transaction{
		TransactionID:    id,
		At:               at,
		TruckName:        converter.NullString(row.TruckName),
		PaymentMethod:    method,
		Total:            amount,
		TruckID:          truckID,
		PaymentMethodID:  methodID,
		FSARating:        int64(rating),
		HasCardReader:    hasCardReader,
		TruckDescription: converter.NullString(row.TruckDescription),
	}
	return tx, ""
}

// BuildTruckDim projects the truck dimension from cleaned transactions,
// keeping the first row seen per truck id. No conflict detection when
// later rows disagree on the attributes.
func BuildTruckDim(facts []models.Transaction) []models.TruckDim {
	seen := make(map[int64]struct{})
	dims := make([]models.TruckDim, 0)
	for _, t := range facts {
		if _, ok := seen[t.TruckID]; ok {
			continue
		}
		seen[t.TruckID] = struct{}{}
		dims = append(dims, models.TruckDim{
			TruckID:          t.TruckID,
			TruckName:        t.TruckName,
			TruckDescription: t.TruckDescription,
			HasCardReader:    t.HasCardReader,
			FSARating:        t.FSARating,
		})
	}
	return dims
}

// BuildPaymentMethodDim projects the payment-method dimension from
// cleaned transactions, first occurrence wins.
func BuildPaymentMethodDim(facts []models.Transaction) []models.PaymentMethodDim {
	seen := make(map[int64]struct{})
	dims := make([]models.PaymentMethodDim, 0)
	for _, t := range facts {
		if _, ok := seen[t.PaymentMethodID]; ok {
			continue
		}
		seen[t.PaymentMethodID] = struct{}{}
		dims = append(dims, models.PaymentMethodDim{
			PaymentMethodID: t.PaymentMethodID,
			PaymentMethod:   t.PaymentMethod,
		})
	}
	return dims
}

// Package aggregate computes the analytical summaries. Every function
// is a pure function of its input row set: no mutation, fresh slices,
// deterministic output order.
package aggregate

import (
	"math"
	"sort"
	"time"

	"github.com/t3-analytics/trucklake/internal/pkg/models"
)

// Trend grains.
const (
	GrainDay  = "day"
	GrainHour = "hour"
)

// UnknownLabel buckets rows whose truck or payment method is missing.
const UnknownLabel = "unknown"

type bucketAgg struct {
	at      time.Time
	revenue float64
	rows    int
	ids     map[int64]struct{}
}

// Trend groups rows by day or hour bucket and returns per-bucket
// revenue, distinct transaction count and mean ticket, sorted
// ascending by bucket.
func Trend(rows []models.SalesRow, grain string) []models.TrendPoint {
	buckets := map[int64]*bucketAgg{}
	for _, row := range rows {
		at := row.Day
		if grain == GrainHour {
			at = row.Hour
		}
		key := at.UnixNano()
		b, ok := buckets[key]
		if !ok {
			b = &bucketAgg{at: at, ids: map[int64]struct{}{}}
			buckets[key] = b
		}
		b.revenue += row.Total
		b.rows++
		b.ids[row.TransactionID] = struct{}{}
	}

	points := make([]models.TrendPoint, 0, len(buckets))
	for _, b := range buckets {
		points = append(points, models.TrendPoint{
			Bucket:       b.at,
			Revenue:      b.revenue,
			Transactions: len(b.ids),
			AvgTicket:    b.revenue / float64(b.rows),
		})
	}
	sort.Slice(points, func(i, j int) bool { return points[i].Bucket.Before(points[j].Bucket) })
	return points
}

type truckAgg struct {
	revenue  float64
	rows     int
	cashRows int
	ids      map[int64]struct{}
}

// TruckPerformance groups rows by truck name, bucketing missing names
// under "unknown". Cash share is by transaction count, not value.
// Output is sorted by name; callers apply their own display order.
func TruckPerformance(rows []models.SalesRow) []models.TruckPerformance {
	trucks := map[string]*truckAgg{}
	for _, row := range rows {
		name := row.TruckName
		if name == "" {
			name = UnknownLabel
		}
		t, ok := trucks[name]
		if !ok {
			t = &truckAgg{ids: map[int64]struct{}{}}
			trucks[name] = t
		}
		t.revenue += row.Total
		t.rows++
		if row.PaymentMethod == "cash" {
			t.cashRows++
		}
		t.ids[row.TransactionID] = struct{}{}
	}

	perf := make([]models.TruckPerformance, 0, len(trucks))
	for name, t := range trucks {
		perf = append(perf, models.TruckPerformance{
			TruckName:    name,
			Revenue:      t.revenue,
			Transactions: len(t.ids),
			AvgTicket:    t.revenue / float64(t.rows),
			CashShare:    float64(t.cashRows) / float64(t.rows),
		})
	}
	sort.Slice(perf, func(i, j int) bool { return perf[i].TruckName < perf[j].TruckName })
	return perf
}

// PaymentMix counts distinct transactions per payment method, with
// missing methods bucketed under "unknown". Sorted by count descending,
// then method name for stability.
func PaymentMix(rows []models.SalesRow) []models.PaymentMixEntry {
	methods := map[string]map[int64]struct{}{}
	for _, row := range rows {
		method := row.PaymentMethod
		if method == "" {
			method = UnknownLabel
		}
		ids, ok := methods[method]
		if !ok {
			ids = map[int64]struct{}{}
			methods[method] = ids
		}
		ids[row.TransactionID] = struct{}{}
	}

	mix := make([]models.PaymentMixEntry, 0, len(methods))
	for method, ids := range methods {
		mix = append(mix, models.PaymentMixEntry{
			PaymentMethod: method,
			Transactions:  len(ids),
		})
	}
	sort.Slice(mix, func(i, j int) bool {
		if mix[i].Transactions != mix[j].Transactions {
			return mix[i].Transactions > mix[j].Transactions
		}
		return mix[i].PaymentMethod < mix[j].PaymentMethod
	})
	return mix
}

// Quantile computes the q-th quantile of values using linear
// interpolation between closest ranks, the standard quartile
// convention. Returns NaN for an empty input.
func Quantile(values []float64, q float64) float64 {
	if len(values) == 0 {
		return math.NaN()
	}
	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)

	if q <= 0 {
		return sorted[0]
	}
	if q >= 1 {
		return sorted[len(sorted)-1]
	}

	pos := q * float64(len(sorted)-1)
	lo := int(math.Floor(pos))
	frac := pos - float64(lo)
	if lo+1 >= len(sorted) {
		return sorted[lo]
	}
	return sorted[lo] + frac*(sorted[lo+1]-sorted[lo])
}

package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/t3-analytics/trucklake/internal/pkg/aggregate"
	"github.com/t3-analytics/trucklake/internal/pkg/cache"
	"github.com/t3-analytics/trucklake/internal/pkg/constants"
	"github.com/t3-analytics/trucklake/internal/pkg/logger"
	"github.com/t3-analytics/trucklake/internal/pkg/models"
	"github.com/t3-analytics/trucklake/internal/utils"
	"github.com/t3-analytics/trucklake/services/dashboard"
)

// NoDataMessage is shown when the current filters match nothing. It is
// a defined empty state, distinct from a query failure.
const NoDataMessage = "No transactions match the current filters."

// DashboardUC implements the dashboard.DashboardUC interface
type DashboardUC struct {
	cfg   *models.Config
	sales dashboard.SalesReader
	cache cache.Cache
}

// NewDashboardUC creates a new dashboard use case
func NewDashboardUC(cfg *models.Config, sales dashboard.SalesReader, viewCache cache.Cache) dashboard.DashboardUC {
	return &DashboardUC{
		cfg:   cfg,
		sales: sales,
		cache: viewCache,
	}
}

// View assembles the dashboard for one set of filters. Finished views
// are memoized per parameter fingerprint for a short freshness window.
func (uc *DashboardUC) View(ctx context.Context, query models.DashboardQuery) (*models.DashboardView, error) {
	query = uc.withDefaults(query)

	key := fmt.Sprintf(constants.KeyDashboardView, viewFingerprint(query))
	if cached, hit, err := uc.cache.Get(ctx, key); err != nil {
		logger.Warn("Dashboard view cache read failed", logrus.Fields{"key": key, "error": err.Error()})
	} else if hit {
		var view models.DashboardView
		if json.Unmarshal([]byte(cached), &view) == nil {
			return &view, nil
		}
	}

	rows, err := uc.sales.SalesBetween(ctx, query.Start, query.End)
	if err != nil {
		return nil, err
	}

	view := buildView(query, rows)

	if payload, jsonErr := json.Marshal(view); jsonErr == nil {
		ttl := time.Duration(uc.cfg.Dashboard.ViewCacheTTLSeconds) * time.Second
		if setErr := uc.cache.Set(ctx, key, string(payload), ttl); setErr != nil {
			logger.Warn("Dashboard view cache write failed", logrus.Fields{"key": key, "error": setErr.Error()})
		}
	}
	return view, nil
}

// AvailableTrucks returns the distinct truck names present in the range
// after the payment-method filter, sorted. This feeds the truck
// selector, so it must reflect the method filter but not the truck
// filter itself.
func (uc *DashboardUC) AvailableTrucks(ctx context.Context, start, end time.Time, methods []string) ([]string, error) {
	if start.IsZero() || end.IsZero() {
		start, end = uc.defaultRange()
	}
	rows, err := uc.sales.SalesBetween(ctx, start, end)
	if err != nil {
		return nil, err
	}
	base := filterByMethods(withTruckNames(rows), methods)
	return distinctTrucks(base), nil
}

func (uc *DashboardUC) defaultRange() (time.Time, time.Time) {
	end := models.DateOf(models.Now())
	start := end.AddDate(0, 0, -uc.cfg.Dashboard.DefaultRangeDays)
	return start, end
}

func (uc *DashboardUC) withDefaults(query models.DashboardQuery) models.DashboardQuery {
	if query.Start.IsZero() || query.End.IsZero() {
		query.Start, query.End = uc.defaultRange()
	}
	if query.Grain == "" {
		query.Grain = aggregate.GrainDay
	}
	if query.SortBy == "" {
		query.SortBy = models.SortByRevenue
	}
	if query.CompareBy == "" {
		query.CompareBy = models.SortByRevenue
	}
	return query
}

// viewFingerprint renders the normalized query as a stable cache key
// part. Slices are sorted so filter order never splits cache entries.
func viewFingerprint(query models.DashboardQuery) string {
	methods := append([]string(nil), query.PaymentMethods...)
	for i := range methods {
		methods[i] = strings.ToLower(methods[i])
	}
	sort.Strings(methods)
	trucks := append([]string(nil), query.Trucks...)
	sort.Strings(trucks)

	payload, _ := json.Marshal(struct {
		Start     string   `json:"start"`
		End       string   `json:"end"`
		Grain     string   `json:"grain"`
		SortBy    string   `json:"sort_by"`
		CompareBy string   `json:"compare_by"`
		Methods   []string `json:"methods"`
		Trucks    []string `json:"trucks"`
	}{
		Start:     models.FormatDate(query.Start),
		End:       models.FormatDate(query.End),
		Grain:     query.Grain,
		SortBy:    query.SortBy,
		CompareBy: query.CompareBy,
		Methods:   methods,
		Trucks:    trucks,
	})
	return string(payload)
}

func buildView(query models.DashboardQuery, rows []models.SalesRow) *models.DashboardView {
	view := &models.DashboardView{
		Status:    models.DashboardStatusOK,
		Start:     models.FormatDate(query.Start),
		End:       models.FormatDate(query.End),
		Grain:     query.Grain,
		SortBy:    query.SortBy,
		CompareBy: query.CompareBy,
	}

	// Rows without a truck name never reach the interactive surface.
	base := filterByMethods(withTruckNames(rows), query.PaymentMethods)
	view.AvailableTrucks = distinctTrucks(base)

	filtered := filterByTrucks(base, query.Trucks)
	if len(filtered) == 0 {
		view.Status = models.DashboardStatusNoData
		view.Message = NoDataMessage
		return view
	}

	view.KPIs = computeKPIs(filtered)
	view.Trend = aggregate.Trend(filtered, query.Grain)
	view.PaymentMix = aggregate.PaymentMix(filtered)

	performance := aggregate.TruckPerformance(filtered)
	view.Cues = actionCues(performance)
	view.Highlights = truckHighlights(performance)
	view.Trucks = sortedTruckTable(performance, query.SortBy)

	return view
}

func withTruckNames(rows []models.SalesRow) []models.SalesRow {
	kept := make([]models.SalesRow, 0, len(rows))
	for _, row := range rows {
		if row.TruckName == "" {
			continue
		}
		kept = append(kept, row)
	}
	return kept
}

func filterByMethods(rows []models.SalesRow, methods []string) []models.SalesRow {
	if len(methods) == 0 {
		return rows
	}
	allowed := make(map[string]struct{}, len(methods))
	for _, m := range methods {
		allowed[strings.ToLower(m)] = struct{}{}
	}
	kept := make([]models.SalesRow, 0, len(rows))
	for _, row := range rows {
		if _, ok := allowed[row.PaymentMethod]; ok {
			kept = append(kept, row)
		}
	}
	return kept
}

func filterByTrucks(rows []models.SalesRow, trucks []string) []models.SalesRow {
	if len(trucks) == 0 {
		return rows
	}
	allowed := make(map[string]struct{}, len(trucks))
	for _, name := range trucks {
		allowed[name] = struct{}{}
	}
	kept := make([]models.SalesRow, 0, len(rows))
	for _, row := range rows {
		if _, ok := allowed[row.TruckName]; ok {
			kept = append(kept, row)
		}
	}
	return kept
}

func distinctTrucks(rows []models.SalesRow) []string {
	seen := make(map[string]struct{})
	names := make([]string, 0)
	for _, row := range rows {
		if _, ok := seen[row.TruckName]; ok {
			continue
		}
		seen[row.TruckName] = struct{}{}
		names = append(names, row.TruckName)
	}
	sort.Strings(names)
	return names
}

// computeKPIs summarizes the filtered rows: revenue is summed, the
// transaction count is distinct, mean ticket and cash share are over
// rows. Callers guarantee rows is non-empty.
func computeKPIs(rows []models.SalesRow) *models.DashboardKPIs {
	ids := make(map[int64]struct{}, len(rows))
	var revenue, cashRows float64
	for _, row := range rows {
		revenue += row.Total
		ids[row.TransactionID] = struct{}{}
		if row.PaymentMethod == "cash" {
			cashRows++
		}
	}
	n := float64(len(rows))
	return &models.DashboardKPIs{
		TotalRevenue: revenue,
		Transactions: len(ids),
		AvgTicket:    revenue / n,
		CashShare:    cashRows / n,
	}
}

// sortedTruckTable orders the per-truck aggregate descending by the
// chosen key and rounds the money columns for presentation. Ties keep
// the aggregate's name order.
func sortedTruckTable(performance []models.TruckPerformance, sortBy string) []models.TruckPerformance {
	table := append([]models.TruckPerformance(nil), performance...)
	sort.SliceStable(table, func(i, j int) bool {
		switch sortBy {
		case models.SortByTransactions:
			return table[i].Transactions > table[j].Transactions
		case models.SortByAvgTicket:
			return table[i].AvgTicket > table[j].AvgTicket
		default:
			return table[i].Revenue > table[j].Revenue
		}
	})
	for i := range table {
		table[i].Revenue = utils.RoundPounds(table[i].Revenue)
		table[i].AvgTicket = utils.RoundPounds(table[i].AvgTicket)
	}
	return table
}

// actionCues flags trucks at or below the 25th revenue percentile and
// at or above the 75th cash-share percentile. Thresholds use linear
// interpolation over the truck-level aggregate.
func actionCues(performance []models.TruckPerformance) []models.ActionCue {
	revenues := make([]float64, 0, len(performance))
	shares := make([]float64, 0, len(performance))
	for _, p := range performance {
		revenues = append(revenues, p.Revenue)
		shares = append(shares, p.CashShare)
	}

	revenueThreshold := aggregate.Quantile(revenues, 0.25)
	shareThreshold := aggregate.Quantile(shares, 0.75)

	cues := make([]models.ActionCue, 0)
	for _, p := range performance {
		if p.Revenue <= revenueThreshold {
			cues = append(cues, models.ActionCue{
				TruckName: p.TruckName,
				Cue:       models.CueUnderperforming,
				Value:     p.Revenue,
				Threshold: revenueThreshold,
			})
		}
	}
	for _, p := range performance {
		if p.CashShare >= shareThreshold {
			cues = append(cues, models.ActionCue{
				TruckName: p.TruckName,
				Cue:       models.CueHighCashReliance,
				Value:     p.CashShare,
				Threshold: shareThreshold,
			})
		}
	}
	return cues
}

// truckHighlights picks the standout trucks, each slot independently.
func truckHighlights(performance []models.TruckPerformance) *models.DashboardHighlights {
	if len(performance) == 0 {
		return nil
	}
	top, bottom, busiest := performance[0], performance[0], performance[0]
	for _, p := range performance[1:] {
		if p.Revenue > top.Revenue {
			top = p
		}
		if p.Revenue < bottom.Revenue {
			bottom = p
		}
		if p.Transactions > busiest.Transactions {
			busiest = p
		}
	}
	return &models.DashboardHighlights{
		TopByRevenue:      top.TruckName,
		TopByTransactions: busiest.TruckName,
		BottomByRevenue:   bottom.TruckName,
	}
}

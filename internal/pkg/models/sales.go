package models

import (
	"time"
)

// SalesRow is one denormalized fact row from the analytical reader,
// prepared for aggregation: labels normalized, total in pounds.
type SalesRow struct {
	TransactionID int64     `json:"transaction_id"`
	TruckName     string    `json:"truck_name"`
	PaymentMethod string    `json:"payment_method"`
	Total         float64   `json:"total"`
	Day           time.Time `json:"day"`
	Hour          time.Time `json:"hour"`
}

// TrendPoint is one time bucket of the revenue trend.
type TrendPoint struct {
	Bucket       time.Time `json:"bucket"`
	Revenue      float64   `json:"revenue"`
	Transactions int       `json:"transactions"`
	AvgTicket    float64   `json:"avg_ticket"`
}

// TruckPerformance is the per-truck aggregate.
type TruckPerformance struct {
	TruckName    string  `json:"truck_name"`
	Revenue      float64 `json:"revenue"`
	Transactions int     `json:"transactions"`
	AvgTicket    float64 `json:"avg_ticket"`
	CashShare    float64 `json:"cash_share"`
}

// PaymentMixEntry is the transaction count for one payment method.
type PaymentMixEntry struct {
	PaymentMethod string `json:"payment_method"`
	Transactions  int    `json:"transactions"`
}

// DashboardKPIs are the headline figures over the filtered row set.
type DashboardKPIs struct {
	TotalRevenue float64 `json:"total_revenue"`
	Transactions int     `json:"transactions"`
	AvgTicket    float64 `json:"avg_ticket"`
	CashShare    float64 `json:"cash_share"`
}

// ActionCue flags a truck that crossed a percentile threshold.
type ActionCue struct {
	TruckName string  `json:"truck_name"`
	Cue       string  `json:"cue"`
	Value     float64 `json:"value"`
	Threshold float64 `json:"threshold"`
}

// Dashboard status values.
const (
	DashboardStatusOK     = "ok"
	DashboardStatusNoData = "no_data"
)

// Truck table sort keys and comparison metrics.
const (
	SortByRevenue      = "revenue"
	SortByTransactions = "transactions"
	SortByAvgTicket    = "avg_ticket"
	CompareByCashShare = "cash_share"
)

// DashboardQuery carries the view-state of one dashboard request. All
// fields are filters or presentation choices; nothing is persisted.
type DashboardQuery struct {
	Start          time.Time
	End            time.Time
	Grain          string
	PaymentMethods []string
	Trucks         []string
	SortBy         string
	CompareBy      string
}

// Action cue labels.
const (
	CueUnderperforming  = "underperforming"
	CueHighCashReliance = "high cash reliance"
)

// DashboardHighlights names the standout trucks in the current view.
// The three slots are computed independently, so one truck may hold
// more than one of them.
type DashboardHighlights struct {
	TopByRevenue      string `json:"top_by_revenue"`
	TopByTransactions string `json:"top_by_transactions"`
	BottomByRevenue   string `json:"bottom_by_revenue"`
}

// DashboardView is the full response for one dashboard request.
type DashboardView struct {
	Status          string               `json:"status"`
	Message         string               `json:"message,omitempty"`
	Start           string               `json:"start"`
	End             string               `json:"end"`
	Grain           string               `json:"grain"`
	SortBy          string               `json:"sort_by"`
	CompareBy       string               `json:"compare_by"`
	AvailableTrucks []string             `json:"available_trucks"`
	KPIs            *DashboardKPIs       `json:"kpis,omitempty"`
	Trend           []TrendPoint         `json:"trend,omitempty"`
	Trucks          []TruckPerformance   `json:"trucks,omitempty"`
	PaymentMix      []PaymentMixEntry    `json:"payment_mix,omitempty"`
	Highlights      *DashboardHighlights `json:"highlights,omitempty"`
	Cues            []ActionCue          `json:"cues,omitempty"`
}

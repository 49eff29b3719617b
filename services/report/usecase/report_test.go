package usecase

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/t3-analytics/trucklake/internal/pkg/models"
)

type fakeSalesReader struct {
	rows   []models.SalesRow
	err    error
	gotDay time.Time
}

func (f *fakeSalesReader) SalesForDay(_ context.Context, day time.Time) ([]models.SalesRow, error) {
	f.gotDay = day
	if f.err != nil {
		return nil, f.err
	}
	return f.rows, nil
}

func newTestReportUC(reader *fakeSalesReader) *ReportUC {
	return &ReportUC{
		sales: reader,
		now:   func() time.Time { return time.Date(2024, 3, 6, 9, 0, 0, 0, time.UTC) },
	}
}

func reportRow(id int64, truck, method string, total float64) models.SalesRow {
	return models.SalesRow{
		TransactionID: id,
		TruckName:     truck,
		PaymentMethod: method,
		Total:         total,
	}
}

func reportDate(t *testing.T) time.Time {
	t.Helper()
	d, err := models.ParseDate("2024-03-05")
	require.NoError(t, err)
	return d
}

func TestGenerateDailyReport(t *testing.T) {
	reader := &fakeSalesReader{rows: []models.SalesRow{
		reportRow(1, "Burrito Madness", "card", 5.25),
		reportRow(2, "Burrito Madness", "cash", 10.00),
		reportRow(3, "Kings of Kebabs", "card", 20.50),
		reportRow(4, "", "cash", 1.25),
	}}
	uc := newTestReportUC(reader)

	dailyReport, err := uc.Generate(context.Background(), reportDate(t))
	require.NoError(t, err)

	assert.Equal(t, "2024-03-05", dailyReport.ReportDate)
	assert.Equal(t, "2024-03-06T09:00:00Z", dailyReport.GeneratedAt)
	assert.True(t, reader.gotDay.Equal(reportDate(t)))

	html := dailyReport.HTML
	assert.Contains(t, html, "<title>T3 Daily Report — 2024-03-05</title>")
	assert.Contains(t, html, "<h1>T3 Daily Performance Report — 2024-03-05</h1>")
	assert.Contains(t, html, "Generated at 2024-03-06T09:00:00Z (UTC)")

	// Headline cards: value summed, transactions distinct, spend per row.
	assert.Contains(t, html, "<div class=\"value\">£37.00</div>")
	assert.Contains(t, html, "<div class=\"value\">4</div>")
	assert.Contains(t, html, "<div class=\"value\">£9.25</div>")

	// By-truck table sorted by revenue, unnamed rows kept as "unknown".
	kebabs := strings.Index(html, "<td>Kings of Kebabs</td>")
	burrito := strings.Index(html, "<td>Burrito Madness</td>")
	unknown := strings.Index(html, "<td>unknown</td>")
	require.NotEqual(t, -1, kebabs)
	require.NotEqual(t, -1, burrito)
	require.NotEqual(t, -1, unknown)
	assert.Less(t, kebabs, burrito)
	assert.Less(t, burrito, unknown)
	assert.Contains(t, html, "<td>£20.50</td>")
	assert.Contains(t, html, "<td>£15.25</td>")

	assert.Contains(t, html, "Cash: 2 (50.0%)")
	assert.Contains(t, html, "Card: 2 (50.0%)")

	assert.Contains(t, html, "<b>Top truck by revenue:</b> Kings of Kebabs (£20.50, 1 tx)")
	assert.Contains(t, html, "<b>Lowest truck by revenue:</b> unknown (£1.25, 1 tx)")
	assert.Contains(t, html, "<b>Top truck by transactions:</b> Burrito Madness (£15.25, 2 tx)")
}

func TestGenerateEmptyDay(t *testing.T) {
	reader := &fakeSalesReader{}
	uc := newTestReportUC(reader)

	dailyReport, err := uc.Generate(context.Background(), reportDate(t))
	require.NoError(t, err)

	html := dailyReport.HTML
	assert.Contains(t, html, "<p><em>No transactions recorded for this date.</em></p>")
	assert.NotContains(t, html, "<table>")
	assert.Contains(t, html, "<div class=\"value\">£0.00</div>")
	assert.Contains(t, html, "<div class=\"value\">0</div>")
	assert.Contains(t, html, "Cash: 0 (0.0%)")
	assert.Contains(t, html, "Card: 0 (0.0%)")
	assert.Contains(t, html, "<b>Top truck by revenue:</b> n/a")
	assert.Contains(t, html, "<b>Lowest truck by revenue:</b> n/a")
	assert.Contains(t, html, "<b>Top truck by transactions:</b> n/a")
}

func TestGenerateEscapesTruckNames(t *testing.T) {
	reader := &fakeSalesReader{rows: []models.SalesRow{
		reportRow(1, `<script>alert(1)</script>`, "card", 5.00),
	}}
	uc := newTestReportUC(reader)

	dailyReport, err := uc.Generate(context.Background(), reportDate(t))
	require.NoError(t, err)

	assert.NotContains(t, dailyReport.HTML, "<script>alert(1)</script>")
	assert.Contains(t, dailyReport.HTML, "&lt;script&gt;alert(1)&lt;/script&gt;")
}

func TestGenerateFormatsThousands(t *testing.T) {
	reader := &fakeSalesReader{rows: []models.SalesRow{
		reportRow(1, "Wok Box", "card", 617.25),
		reportRow(2, "Wok Box", "card", 617.25),
	}}
	uc := newTestReportUC(reader)

	dailyReport, err := uc.Generate(context.Background(), reportDate(t))
	require.NoError(t, err)

	assert.Contains(t, dailyReport.HTML, "£1,234.50")
}

func TestGenerateTruncatesToDate(t *testing.T) {
	reader := &fakeSalesReader{}
	uc := newTestReportUC(reader)

	at := time.Date(2024, 3, 5, 14, 30, 12, 0, time.UTC)
	dailyReport, err := uc.Generate(context.Background(), at)
	require.NoError(t, err)

	assert.Equal(t, "2024-03-05", dailyReport.ReportDate)
	assert.True(t, reader.gotDay.Equal(reportDate(t)))
}

func TestGenerateRevenueTieBreaksByTransactions(t *testing.T) {
	reader := &fakeSalesReader{rows: []models.SalesRow{
		reportRow(1, "Tuck Truck", "card", 5.00),
		reportRow(2, "Tuck Truck", "card", 5.00),
		reportRow(3, "Wok Box", "card", 10.00),
	}}
	uc := newTestReportUC(reader)

	dailyReport, err := uc.Generate(context.Background(), reportDate(t))
	require.NoError(t, err)

	tuck := strings.Index(dailyReport.HTML, "<td>Tuck Truck</td>")
	wok := strings.Index(dailyReport.HTML, "<td>Wok Box</td>")
	require.NotEqual(t, -1, tuck)
	require.NotEqual(t, -1, wok)
	assert.Less(t, tuck, wok)
}

func TestGenerateReaderFailure(t *testing.T) {
	reader := &fakeSalesReader{err: errors.New("query engine unavailable")}
	uc := newTestReportUC(reader)

	dailyReport, err := uc.Generate(context.Background(), reportDate(t))

	assert.Nil(t, dailyReport)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "query engine unavailable")
}

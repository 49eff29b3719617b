package usecase

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"sort"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/t3-analytics/trucklake/internal/pkg/aggregate"
	"github.com/t3-analytics/trucklake/internal/pkg/logger"
	"github.com/t3-analytics/trucklake/internal/pkg/models"
	"github.com/t3-analytics/trucklake/internal/utils"
	"github.com/t3-analytics/trucklake/services/report"
)

// ReportUC implements the report.ReportUC interface
type ReportUC struct {
	sales report.SalesReader
	now   func() time.Time
}

// NewReportUC creates a new report use case
func NewReportUC(sales report.SalesReader) report.ReportUC {
	return &ReportUC{
		sales: sales,
		now:   models.Now,
	}
}

// Generate builds the daily report for the given calendar date. The
// sub-day part of date is ignored.
func (uc *ReportUC) Generate(ctx context.Context, date time.Time) (*models.DailyReport, error) {
	day := models.DateOf(date)

	rows, err := uc.sales.SalesForDay(ctx, day)
	if err != nil {
		return nil, err
	}

	data := buildReportData(models.FormatDate(day), models.FormatTime(uc.now()), rows)

	var buf bytes.Buffer
	if err := reportTemplate.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("failed to render daily report for %s: %w", data.ReportDate, err)
	}

	logger.Info("Daily report generated", logrus.Fields{
		"report_date": data.ReportDate,
		"rows":        len(rows),
		"trucks":      len(data.TruckRows),
	})

	return &models.DailyReport{
		ReportDate:  data.ReportDate,
		GeneratedAt: data.GeneratedAt,
		HTML:        buf.String(),
	}, nil
}

type truckRow struct {
	Name     string
	Tx       string
	Total    string
	AvgSpend string
}

type highlight struct {
	Name  string
	Total string
	Tx    string
}

type reportData struct {
	ReportDate   string
	GeneratedAt  string
	TotalValue   string
	Transactions string
	AvgSpend     string

	TruckRows []truckRow

	CashN   string
	CashPct string
	CardN   string
	CardPct string

	TopByRevenue      *highlight
	LowestByRevenue   *highlight
	TopByTransactions *highlight
}

// buildReportData computes the day's figures and pre-formats them for
// the template. Unlike the dashboard, unnamed trucks stay in the
// report, bucketed under "unknown".
func buildReportData(reportDate, generatedAt string, rows []models.SalesRow) reportData {
	ids := make(map[int64]struct{}, len(rows))
	var revenue float64
	for _, row := range rows {
		revenue += row.Total
		ids[row.TransactionID] = struct{}{}
	}
	nTx := len(ids)

	var avg float64
	if len(rows) > 0 {
		avg = revenue / float64(len(rows))
	}

	byTruck := append([]models.TruckPerformance(nil), aggregate.TruckPerformance(rows)...)
	sort.SliceStable(byTruck, func(i, j int) bool {
		if byTruck[i].Revenue != byTruck[j].Revenue {
			return byTruck[i].Revenue > byTruck[j].Revenue
		}
		return byTruck[i].Transactions > byTruck[j].Transactions
	})

	truckRows := make([]truckRow, 0, len(byTruck))
	for _, p := range byTruck {
		truckRows = append(truckRows, truckRow{
			Name:     p.TruckName,
			Tx:       utils.FormatInt(p.Transactions),
			Total:    utils.FormatGBP(p.Revenue),
			AvgSpend: utils.FormatGBP(p.AvgTicket),
		})
	}

	var cashN, cardN int
	for _, entry := range aggregate.PaymentMix(rows) {
		switch entry.PaymentMethod {
		case "cash":
			cashN = entry.Transactions
		case "card":
			cardN = entry.Transactions
		}
	}
	denom := nTx
	if denom < 1 {
		denom = 1
	}

	data := reportData{
		ReportDate:   reportDate,
		GeneratedAt:  generatedAt,
		TotalValue:   utils.FormatGBP(revenue),
		Transactions: utils.FormatInt(nTx),
		AvgSpend:     utils.FormatGBP(avg),
		TruckRows:    truckRows,
		CashN:        utils.FormatInt(cashN),
		CashPct:      utils.FormatPct(float64(cashN) / float64(denom)),
		CardN:        utils.FormatInt(cardN),
		CardPct:      utils.FormatPct(float64(cardN) / float64(denom)),
	}

	if len(byTruck) > 0 {
		data.TopByRevenue = truckHighlight(byTruck[0])
		data.LowestByRevenue = truckHighlight(byTruck[len(byTruck)-1])

		busiest := byTruck[0]
		for _, p := range byTruck[1:] {
			if p.Transactions > busiest.Transactions {
				busiest = p
			}
		}
		data.TopByTransactions = truckHighlight(busiest)
	}

	return data
}

func truckHighlight(p models.TruckPerformance) *highlight {
	return &highlight{
		Name:  p.TruckName,
		Total: utils.FormatGBP(p.Revenue),
		Tx:    utils.FormatInt(p.Transactions),
	}
}

var reportTemplate = template.Must(template.New("daily").Parse(reportHTML))

const reportHTML = `<!doctype html>
<html lang="en">
<head>
  <meta charset="utf-8" />
  <meta name="viewport" content="width=device-width, initial-scale=1" />
  <title>T3 Daily Report — {{.ReportDate}}</title>
  <style>
    body {
      font-family: -apple-system, BlinkMacSystemFont, "Segoe UI", Roboto, Arial, sans-serif;
      margin: 24px;
      color: #111;
      background: #fff;
    }
    .wrap { max-width: 980px; margin: 0 auto; }
    h1 { font-size: 1.6rem; margin-bottom: 0.25rem; }
    .meta { color: #444; margin-bottom: 1.25rem; }
    .cards {
      display: grid;
      grid-template-columns: repeat(3, 1fr);
      gap: 12px;
      margin: 16px 0 18px;
    }
    .card {
      border: 1px solid #e6e6e6;
      border-radius: 12px;
      padding: 14px 14px;
    }
    .label { font-size: 0.9rem; color: #555; }
    .value { font-size: 1.35rem; font-weight: 700; margin-top: 6px; }
    hr { border: none; border-top: 1px solid #eaeaea; margin: 18px 0; }
    table {
      width: 100%;
      border-collapse: collapse;
      margin-top: 10px;
    }
    th, td {
      padding: 10px 10px;
      border-bottom: 1px solid #eee;
      text-align: left;
      font-size: 0.95rem;
    }
    th { background: #fafafa; font-weight: 700; }
    .small { color: #555; font-size: 0.95rem; }
    ul { margin-top: 8px; }
    @media (max-width: 820px) {
      .cards { grid-template-columns: 1fr; }
    }
  </style>
</head>
<body>
  <div class="wrap">
    <h1>T3 Daily Performance Report — {{.ReportDate}}</h1>
    <div class="meta">
      Generated at {{.GeneratedAt}} (UTC)<br/>
      <span class="small">All monetary values reported in GBP.</span>
    </div>

    <div class="cards">
      <div class="card">
        <div class="label">Total transaction value (all trucks)</div>
        <div class="value">{{.TotalValue}}</div>
      </div>
      <div class="card">
        <div class="label">Total transactions</div>
        <div class="value">{{.Transactions}}</div>
      </div>
      <div class="card">
        <div class="label">Avg customer spend</div>
        <div class="value">{{.AvgSpend}}</div>
      </div>
    </div>

    <hr/>

    <h2>By-truck performance</h2>
    <p class="small">Total transaction value and number of transactions per truck.</p>
    {{if .TruckRows}}
    <table>
      <thead><tr><th>Truck</th><th>Transactions</th><th>Total (GBP)</th><th>Avg customer spend (GBP)</th></tr></thead>
      <tbody>
        {{range .TruckRows}}<tr><td>{{.Name}}</td><td>{{.Tx}}</td><td>{{.Total}}</td><td>{{.AvgSpend}}</td></tr>
        {{end}}
      </tbody>
    </table>
    {{else}}
    <p><em>No transactions recorded for this date.</em></p>
    {{end}}

    <hr/>

    <h2>Payment mix</h2>
    <p class="small">
      Cash: {{.CashN}} ({{.CashPct}}) &nbsp;|&nbsp;
      Card: {{.CardN}} ({{.CardPct}})
    </p>

    <hr/>

    <h2>Highlights</h2>
    <ul>
      <li><b>Top truck by revenue:</b> {{if .TopByRevenue}}{{.TopByRevenue.Name}} ({{.TopByRevenue.Total}}, {{.TopByRevenue.Tx}} tx){{else}}n/a{{end}}</li>
      <li><b>Lowest truck by revenue:</b> {{if .LowestByRevenue}}{{.LowestByRevenue.Name}} ({{.LowestByRevenue.Total}}, {{.LowestByRevenue.Tx}} tx){{else}}n/a{{end}}</li>
      <li><b>Top truck by transactions:</b> {{if .TopByTransactions}}{{.TopByTransactions.Name}} ({{.TopByTransactions.Total}}, {{.TopByTransactions.Tx}} tx){{else}}n/a{{end}}</li>
    </ul>
  </div>
</body>
</html>
`

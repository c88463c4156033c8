package reports

import (
	"bytes"
	"fmt"
	"html/template"
)

// ReportDocument is the typed model the HTML renderer consumes. Money fields
// are preformatted so the template stays free of numeric logic.
type ReportDocument struct {
	BusinessName       string
	Period             string
	GeneratedAt        string
	TotalSales         string
	AverageTransaction string
	ReceiptCount       int
	TopItems           []DocumentTopItem
	Days               []DocumentDay
}

// DocumentTopItem is one rendered row of the revenue ranking.
type DocumentTopItem struct {
	Rank     int
	Name     string
	Quantity int
	Revenue  string
}

// DocumentDay is one rendered row of the daily series.
type DocumentDay struct {
	Date  string
	Total string
	Count int
}

// salesReportTmpl renders the printable sales report handed to the PDF
// collaborator. User-controlled fields are auto-escaped by html/template.
var salesReportTmpl = template.Must(template.New("sales-report").Parse(`<!doctype html>
<html>
<head>
  <meta charset="utf-8" />
  <title>Sales Report {{.Period}}</title>
  <style>
    body { font-family: sans-serif; margin: 24px; }
    table { width: 100%; border-collapse: collapse; margin-top: 8px; }
    th, td { border: 1px solid #ddd; padding: 6px; font-size: 13px; }
    h2, h3 { margin-bottom: 4px; }
    .right { text-align: right; }
  </style>
</head>
<body>
  <h2>Sales Report</h2>
  <p>{{.BusinessName}}</p>
  <p>Period: {{.Period}}</p>
  <p>Generated: {{.GeneratedAt}}</p>
  <p>Total Sales: {{.TotalSales}} | Average Transaction: {{.AverageTransaction}} | Receipts: {{.ReceiptCount}}</p>

  <h3>Top Items</h3>
  <table>
    <thead><tr><th>#</th><th>Item</th><th>Quantity</th><th>Revenue</th></tr></thead>
    <tbody>{{range .TopItems}}<tr><td>{{.Rank}}</td><td>{{.Name}}</td><td class="right">{{.Quantity}}</td><td class="right">{{.Revenue}}</td></tr>{{end}}</tbody>
  </table>

  <h3>Daily Sales</h3>
  <table>
    <thead><tr><th>Date</th><th>Receipts</th><th>Total</th></tr></thead>
    <tbody>{{range .Days}}<tr><td>{{.Date}}</td><td class="right">{{.Count}}</td><td class="right">{{.Total}}</td></tr>{{end}}</tbody>
  </table>
</body>
</html>
`))

// RenderHTML executes the report template over the typed document.
func RenderHTML(doc ReportDocument) (string, error) {
	var buf bytes.Buffer
	if err := salesReportTmpl.Execute(&buf, doc); err != nil {
		return "", fmt.Errorf("render sales report: %w", err)
	}
	return buf.String(), nil
}

// FormatMoney renders an amount with the configured currency glyph and two
// decimal places.
func FormatMoney(glyph string, amount float64) string {
	return fmt.Sprintf("%s%.2f", glyph, amount)
}

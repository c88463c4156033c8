package reports

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/nmoralesdev/receiptdesk-backend/pkg/db/models"
)

// TopItem is one row of the revenue ranking. Items are grouped by exact name;
// lines with differing names never merge even when they came from the same
// catalog entry.
type TopItem struct {
	Name     string          `json:"name"`
	Quantity int             `json:"quantity"`
	Revenue  decimal.Decimal `json:"revenue"`
}

// DailyBucket is one calendar day of the report series.
type DailyBucket struct {
	Date  string          `json:"date"`
	Total decimal.Decimal `json:"total"`
	Count int             `json:"count"`
}

// Summary is the full aggregation output. It is a pure function of the input
// receipt set; re-running over the same receipts yields identical results.
type Summary struct {
	TotalSales         decimal.Decimal `json:"totalSales"`
	AverageTransaction decimal.Decimal `json:"averageTransaction"`
	ReceiptCount       int             `json:"receiptCount"`
	TopItems           []TopItem       `json:"topItems"`
	Daily              []DailyBucket   `json:"dailySales"`
}

// Aggregate reduces completed receipts into report metrics. The caller is
// responsible for pre-filtering by status and date range; receipts are bucketed
// into days using loc.
func Aggregate(receipts []models.Receipt, topLimit int, loc *time.Location) Summary {
	if loc == nil {
		loc = time.UTC
	}
	if topLimit <= 0 {
		topLimit = 5
	}

	return Summary{
		TotalSales:         TotalSales(receipts),
		AverageTransaction: AverageTransaction(receipts),
		ReceiptCount:       len(receipts),
		TopItems:           TopItems(receipts, topLimit),
		Daily:              DailySales(receipts, loc),
	}
}

// TotalSales sums receipt totals.
func TotalSales(receipts []models.Receipt) decimal.Decimal {
	total := decimal.Zero
	for i := range receipts {
		total = total.Add(receipts[i].Total)
	}
	return total.Round(2)
}

// AverageTransaction divides total sales by the receipt count. An empty set
// divides by one instead, yielding zero rather than an error.
func AverageTransaction(receipts []models.Receipt) decimal.Decimal {
	count := len(receipts)
	if count < 1 {
		count = 1
	}
	return TotalSales(receipts).Div(decimal.NewFromInt(int64(count))).Round(3)
}

// TopItems groups lines across all receipts by name, accumulates quantity and
// revenue, and returns up to limit rows sorted by revenue descending. Equal
// revenue keeps first-seen order.
func TopItems(receipts []models.Receipt, limit int) []TopItem {
	index := map[string]int{}
	var ranked []TopItem

	for i := range receipts {
		for j := range receipts[i].Items {
			item := &receipts[i].Items[j]
			revenue := item.Price.Mul(decimal.NewFromInt(int64(item.Quantity)))

			pos, ok := index[item.Name]
			if !ok {
				index[item.Name] = len(ranked)
				ranked = append(ranked, TopItem{
					Name:     item.Name,
					Quantity: item.Quantity,
					Revenue:  revenue,
				})
				continue
			}
			ranked[pos].Quantity += item.Quantity
			ranked[pos].Revenue = ranked[pos].Revenue.Add(revenue)
		}
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Revenue.GreaterThan(ranked[j].Revenue)
	})
	if len(ranked) > limit {
		ranked = ranked[:limit]
	}
	for i := range ranked {
		ranked[i].Revenue = ranked[i].Revenue.Round(2)
	}
	return ranked
}

// DailySales buckets receipts by calendar date in loc, keyed YYYY-MM-DD, and
// returns per-day totals and counts sorted ascending by date. Lexicographic
// order is correct because the key format is zero padded.
func DailySales(receipts []models.Receipt, loc *time.Location) []DailyBucket {
	byDate := map[string]*DailyBucket{}
	for i := range receipts {
		day := time.UnixMilli(receipts[i].TimestampMS).In(loc).Format("2006-01-02")
		bucket, ok := byDate[day]
		if !ok {
			bucket = &DailyBucket{Date: day, Total: decimal.Zero}
			byDate[day] = bucket
		}
		bucket.Total = bucket.Total.Add(receipts[i].Total)
		bucket.Count++
	}

	days := make([]string, 0, len(byDate))
	for day := range byDate {
		days = append(days, day)
	}
	sort.Strings(days)

	out := make([]DailyBucket, 0, len(days))
	for _, day := range days {
		bucket := byDate[day]
		bucket.Total = bucket.Total.Round(2)
		out = append(out, *bucket)
	}
	return out
}

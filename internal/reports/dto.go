package reports

// TopItemDTO is one transport row of the revenue ranking.
type TopItemDTO struct {
	Name     string  `json:"name"`
	Quantity int     `json:"quantity"`
	Revenue  float64 `json:"revenue"`
}

// DailySaleDTO is one day of the sales series.
type DailySaleDTO struct {
	Date  string  `json:"date"`
	Total float64 `json:"total"`
}

// DailyCountDTO is one day of the transaction-count series.
type DailyCountDTO struct {
	Date  string `json:"date"`
	Count int    `json:"count"`
}

// SalesReportDTO is the transport shape of a sales report.
type SalesReportDTO struct {
	StartDate          string          `json:"startDate"`
	EndDate            string          `json:"endDate"`
	TotalSales         float64         `json:"totalSales"`
	AverageTransaction float64         `json:"averageTransaction"`
	ReceiptCount       int             `json:"receiptCount"`
	TopItems           []TopItemDTO    `json:"topItems"`
	DailySales         []DailySaleDTO  `json:"dailySales"`
	DailySalesCount    []DailyCountDTO `json:"dailySalesCount"`
}

func reportFromSummary(startDate, endDate string, summary Summary) *SalesReportDTO {
	report := &SalesReportDTO{
		StartDate:          startDate,
		EndDate:            endDate,
		TotalSales:         summary.TotalSales.InexactFloat64(),
		AverageTransaction: summary.AverageTransaction.InexactFloat64(),
		ReceiptCount:       summary.ReceiptCount,
		TopItems:           make([]TopItemDTO, 0, len(summary.TopItems)),
		DailySales:         make([]DailySaleDTO, 0, len(summary.Daily)),
		DailySalesCount:    make([]DailyCountDTO, 0, len(summary.Daily)),
	}
	for _, item := range summary.TopItems {
		report.TopItems = append(report.TopItems, TopItemDTO{
			Name:     item.Name,
			Quantity: item.Quantity,
			Revenue:  item.Revenue.InexactFloat64(),
		})
	}
	for _, day := range summary.Daily {
		report.DailySales = append(report.DailySales, DailySaleDTO{
			Date:  day.Date,
			Total: day.Total.InexactFloat64(),
		})
		report.DailySalesCount = append(report.DailySalesCount, DailyCountDTO{
			Date:  day.Date,
			Count: day.Count,
		})
	}
	return report
}

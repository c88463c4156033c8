package reports

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/nmoralesdev/receiptdesk-backend/pkg/config"
	"github.com/nmoralesdev/receiptdesk-backend/pkg/db/models"
	pkgerrors "github.com/nmoralesdev/receiptdesk-backend/pkg/errors"
)

// Service aggregates completed receipts into sales reports and renders them
// for the PDF collaborator.
type Service interface {
	Sales(ctx context.Context, userID uuid.UUID, start, end time.Time) (*SalesReportDTO, error)
	SalesHTML(ctx context.Context, userID uuid.UUID, start, end time.Time) (string, error)
}

type completedReceiptReader interface {
	FindCompletedInRange(ctx context.Context, userID uuid.UUID, startMS, endMS int64) ([]models.Receipt, error)
}

type businessNameReader interface {
	FindByUserID(ctx context.Context, userID uuid.UUID) (*models.Business, error)
}

type service struct {
	receipts completedReceiptReader
	profiles businessNameReader
	cfg      config.ReportsConfig
	loc      *time.Location
	now      func() time.Time
}

// ServiceParams bundles the report service dependencies. Profiles may be nil;
// rendered reports then omit the business name.
type ServiceParams struct {
	Receipts completedReceiptReader
	Profiles businessNameReader
	Config   config.ReportsConfig
	Now      func() time.Time
}

// NewService builds a reports service.
func NewService(params ServiceParams) (Service, error) {
	if params.Receipts == nil {
		return nil, fmt.Errorf("receipt reader is required")
	}
	loc, err := params.Config.Location()
	if err != nil {
		return nil, err
	}
	now := params.Now
	if now == nil {
		now = time.Now
	}
	return &service{
		receipts: params.Receipts,
		profiles: params.Profiles,
		cfg:      params.Config,
		loc:      loc,
		now:      now,
	}, nil
}

// Sales aggregates completed receipts inside the inclusive date range. The
// range covers startOfDay(start) through endOfDay(end) in the configured
// timezone.
func (s *service) Sales(ctx context.Context, userID uuid.UUID, start, end time.Time) (*SalesReportDTO, error) {
	startMS, endMS, err := s.rangeBounds(userID, start, end)
	if err != nil {
		return nil, err
	}

	receipts, err := s.receipts.FindCompletedInRange(ctx, userID, startMS, endMS)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load completed receipts")
	}

	summary := Aggregate(receipts, s.cfg.TopItemsLimit, s.loc)
	return reportFromSummary(
		start.In(s.loc).Format("2006-01-02"),
		end.In(s.loc).Format("2006-01-02"),
		summary,
	), nil
}

// SalesHTML renders the aggregated report as a printable HTML document.
func (s *service) SalesHTML(ctx context.Context, userID uuid.UUID, start, end time.Time) (string, error) {
	report, err := s.Sales(ctx, userID, start, end)
	if err != nil {
		return "", err
	}

	businessName := ""
	if s.profiles != nil {
		if business, err := s.profiles.FindByUserID(ctx, userID); err == nil {
			businessName = business.Name
		}
	}

	doc := ReportDocument{
		BusinessName:       businessName,
		Period:             fmt.Sprintf("%s to %s", report.StartDate, report.EndDate),
		GeneratedAt:        s.now().In(s.loc).Format("2006-01-02 15:04"),
		TotalSales:         FormatMoney(s.cfg.CurrencyGlyph, report.TotalSales),
		AverageTransaction: FormatMoney(s.cfg.CurrencyGlyph, report.AverageTransaction),
		ReceiptCount:       report.ReceiptCount,
	}
	for i, item := range report.TopItems {
		doc.TopItems = append(doc.TopItems, DocumentTopItem{
			Rank:     i + 1,
			Name:     item.Name,
			Quantity: item.Quantity,
			Revenue:  FormatMoney(s.cfg.CurrencyGlyph, item.Revenue),
		})
	}
	for i, day := range report.DailySales {
		doc.Days = append(doc.Days, DocumentDay{
			Date:  day.Date,
			Total: FormatMoney(s.cfg.CurrencyGlyph, day.Total),
			Count: report.DailySalesCount[i].Count,
		})
	}

	html, err := RenderHTML(doc)
	if err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeInternal, err, "render sales report")
	}
	return html, nil
}

func (s *service) rangeBounds(userID uuid.UUID, start, end time.Time) (int64, int64, error) {
	if userID == uuid.Nil {
		return 0, 0, pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}
	if start.IsZero() || end.IsZero() {
		return 0, 0, pkgerrors.New(pkgerrors.CodeValidation, "start and end dates are required")
	}

	startDay := startOfDay(start, s.loc)
	endDay := endOfDay(end, s.loc)
	if endDay.Before(startDay) {
		return 0, 0, pkgerrors.New(pkgerrors.CodeValidation, "end date must not be before start date")
	}
	if s.cfg.MaxRangeDays > 0 {
		span := int(endDay.Sub(startDay).Hours()/24) + 1
		if span > s.cfg.MaxRangeDays {
			return 0, 0, pkgerrors.New(pkgerrors.CodeValidation,
				fmt.Sprintf("date range exceeds maximum of %d days", s.cfg.MaxRangeDays))
		}
	}
	return startDay.UnixMilli(), endDay.UnixMilli(), nil
}

func startOfDay(t time.Time, loc *time.Location) time.Time {
	local := t.In(loc)
	return time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc)
}

func endOfDay(t time.Time, loc *time.Location) time.Time {
	return startOfDay(t, loc).AddDate(0, 0, 1).Add(-time.Millisecond)
}

package controllers

import (
	"net/http"
	"time"

	"github.com/nmoralesdev/receiptdesk-backend/api/responses"
	"github.com/nmoralesdev/receiptdesk-backend/api/validators"
	"github.com/nmoralesdev/receiptdesk-backend/internal/reports"
	"github.com/nmoralesdev/receiptdesk-backend/pkg/logger"
)

func reportRange(r *http.Request, loc *time.Location) (time.Time, time.Time, error) {
	start, err := validators.ParseQueryDate(r, "startDate", loc)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	end, err := validators.ParseQueryDate(r, "endDate", loc)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	return start, end, nil
}

// SalesReport aggregates completed receipts over an inclusive date range.
func SalesReport(svc reports.Service, loc *time.Location, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		userID, err := userIDFromContext(ctx)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		start, end, err := reportRange(r, loc)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		report, err := svc.Sales(ctx, userID, start, end)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		responses.WriteSuccess(w, report)
	}
}

// SalesReportHTML renders the report as the printable HTML document handed to
// the PDF collaborator.
func SalesReportHTML(svc reports.Service, loc *time.Location, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		userID, err := userIDFromContext(ctx)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		start, end, err := reportRange(r, loc)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		html, err := svc.SalesHTML(ctx, userID, start, end)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(html))
	}
}

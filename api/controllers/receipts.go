package controllers

import (
	"net/http"
	"strings"

	"github.com/nmoralesdev/receiptdesk-backend/api/responses"
	"github.com/nmoralesdev/receiptdesk-backend/api/validators"
	"github.com/nmoralesdev/receiptdesk-backend/internal/receipts"
	"github.com/nmoralesdev/receiptdesk-backend/pkg/logger"
	"github.com/nmoralesdev/receiptdesk-backend/pkg/pagination"
)

// ReceiptCreate composes a draft from a quantity map and persists it active.
func ReceiptCreate(svc receipts.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		userID, err := userIDFromContext(ctx)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		var req receipts.CreateReceiptRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		if err := validators.ValidateStruct(req); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		receipt, err := svc.Create(ctx, userID, req)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, receipt)
	}
}

// ReceiptList returns a cursor page of receipts, optionally filtered by status.
func ReceiptList(svc receipts.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		userID, err := userIDFromContext(ctx)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		limit, err := validators.ParseQueryInt(r, "limit", pagination.DefaultLimit, 1, pagination.MaxLimit)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		result, err := svc.List(ctx, userID, receipts.ListFilter{
			Status: strings.TrimSpace(r.URL.Query().Get("status")),
			Limit:  limit,
			Cursor: strings.TrimSpace(r.URL.Query().Get("cursor")),
		})
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		responses.WriteSuccess(w, result)
	}
}

// ReceiptGet returns one receipt with its lines.
func ReceiptGet(svc receipts.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		userID, err := userIDFromContext(ctx)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		receiptID, err := pathUUID(r, "receiptID")
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		ctx = logg.WithReceiptID(ctx, receiptID.String())

		receipt, err := svc.Get(ctx, userID, receiptID)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		responses.WriteSuccess(w, receipt)
	}
}

// ReceiptAddItem appends a free-form line to an active receipt.
func ReceiptAddItem(svc receipts.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		userID, err := userIDFromContext(ctx)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		receiptID, err := pathUUID(r, "receiptID")
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		ctx = logg.WithReceiptID(ctx, receiptID.String())

		var req receipts.AddItemRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		if err := validators.ValidateStruct(req); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		receipt, err := svc.AddItem(ctx, userID, receiptID, req)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		responses.WriteSuccess(w, receipt)
	}
}

// ReceiptUpdateQuantity sets a line's quantity; zero removes the line.
func ReceiptUpdateQuantity(svc receipts.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		userID, err := userIDFromContext(ctx)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		receiptID, err := pathUUID(r, "receiptID")
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		lineID, err := pathUUID(r, "lineID")
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		ctx = logg.WithReceiptID(ctx, receiptID.String())

		var req receipts.UpdateQuantityRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		if err := validators.ValidateStruct(req); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		receipt, err := svc.UpdateQuantity(ctx, userID, receiptID, lineID, req)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		responses.WriteSuccess(w, receipt)
	}
}

// ReceiptRemoveItem removes a line from an active receipt.
func ReceiptRemoveItem(svc receipts.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		userID, err := userIDFromContext(ctx)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		receiptID, err := pathUUID(r, "receiptID")
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		lineID, err := pathUUID(r, "lineID")
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		ctx = logg.WithReceiptID(ctx, receiptID.String())

		receipt, err := svc.RemoveItem(ctx, userID, receiptID, lineID)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		responses.WriteSuccess(w, receipt)
	}
}

// ReceiptFinalize flips an active receipt to complete.
func ReceiptFinalize(svc receipts.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		userID, err := userIDFromContext(ctx)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		receiptID, err := pathUUID(r, "receiptID")
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		ctx = logg.WithReceiptID(ctx, receiptID.String())

		receipt, err := svc.Finalize(ctx, userID, receiptID)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		responses.WriteSuccess(w, receipt)
	}
}

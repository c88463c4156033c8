package receipts

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/nmoralesdev/receiptdesk-backend/pkg/db/models"
	"github.com/nmoralesdev/receiptdesk-backend/pkg/enums"
	pkgerrors "github.com/nmoralesdev/receiptdesk-backend/pkg/errors"
	"github.com/nmoralesdev/receiptdesk-backend/pkg/pagination"
)

// Service composes drafts into persisted receipts and mutates active ones
// until they are finalized.
type Service interface {
	Create(ctx context.Context, userID uuid.UUID, req CreateReceiptRequest) (*ReceiptDTO, error)
	Get(ctx context.Context, userID, receiptID uuid.UUID) (*ReceiptDTO, error)
	List(ctx context.Context, userID uuid.UUID, filter ListFilter) (*ListResult, error)
	AddItem(ctx context.Context, userID, receiptID uuid.UUID, req AddItemRequest) (*ReceiptDTO, error)
	UpdateQuantity(ctx context.Context, userID, receiptID, lineID uuid.UUID, req UpdateQuantityRequest) (*ReceiptDTO, error)
	RemoveItem(ctx context.Context, userID, receiptID, lineID uuid.UUID) (*ReceiptDTO, error)
	Finalize(ctx context.Context, userID, receiptID uuid.UUID) (*ReceiptDTO, error)
}

type receiptRepository interface {
	Create(ctx context.Context, receipt *models.Receipt) (*models.Receipt, error)
	FindByID(ctx context.Context, userID, id uuid.UUID) (*models.Receipt, error)
	List(ctx context.Context, userID uuid.UUID, filter ListFilter, cursor *pagination.Cursor) ([]models.Receipt, error)
	ReplaceItems(ctx context.Context, receipt *models.Receipt, items []models.ReceiptItem, total decimal.Decimal) error
	Finalize(ctx context.Context, userID, id uuid.UUID) (int64, error)
}

type catalogReader interface {
	FindByIDs(ctx context.Context, userID uuid.UUID, ids []uuid.UUID) (map[uuid.UUID]*models.InventoryItem, error)
}

type service struct {
	repo    receiptRepository
	catalog catalogReader
	now     func() time.Time
}

// ServiceParams bundles the receipt service dependencies.
type ServiceParams struct {
	Repo    receiptRepository
	Catalog catalogReader
	Now     func() time.Time
}

// NewService builds a receipts service.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, fmt.Errorf("receipt repository is required")
	}
	if params.Catalog == nil {
		return nil, fmt.Errorf("catalog reader is required")
	}
	now := params.Now
	if now == nil {
		now = time.Now
	}
	return &service{
		repo:    params.Repo,
		catalog: params.Catalog,
		now:     now,
	}, nil
}

// Create turns a quantity map into a persisted active receipt. Quantities at
// or below zero are dropped before composition; ids not present in the
// caller's catalog are skipped.
func (s *service) Create(ctx context.Context, userID uuid.UUID, req CreateReceiptRequest) (*ReceiptDTO, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}

	composer := NewComposer()
	for rawID, qty := range req.Items {
		itemID, err := uuid.Parse(rawID)
		if err != nil {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid item id %q", rawID))
		}
		composer.SetQuantity(itemID, qty)
	}
	if composer.Empty() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "receipt requires at least one item")
	}

	itemIDs := make([]uuid.UUID, 0, len(composer.quantities))
	for itemID := range composer.quantities {
		itemIDs = append(itemIDs, itemID)
	}
	snapshot, err := s.catalog.FindByIDs(ctx, userID, itemIDs)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load catalog snapshot")
	}

	lines := composer.BuildItems(snapshot)
	if len(lines) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "no known catalog items in selection")
	}

	now := s.now().UTC()
	receipt := &models.Receipt{
		ID:            uuid.New(),
		ReceiptNumber: NewReceiptNumber(now),
		UserID:        userID,
		Total:         composer.CalculateTotal(snapshot),
		Status:        enums.ReceiptStatusActive,
		TimestampMS:   now.UnixMilli(),
		Items:         lines,
	}

	created, err := s.repo.Create(ctx, receipt)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "persist receipt")
	}
	dto := FromModel(created)
	return &dto, nil
}

func (s *service) Get(ctx context.Context, userID, receiptID uuid.UUID) (*ReceiptDTO, error) {
	receipt, err := s.load(ctx, userID, receiptID)
	if err != nil {
		return nil, err
	}
	dto := FromModel(receipt)
	return &dto, nil
}

func (s *service) List(ctx context.Context, userID uuid.UUID, filter ListFilter) (*ListResult, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}
	if filter.Status != "" {
		if _, err := enums.ParseReceiptStatus(filter.Status); err != nil {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid status filter")
		}
	}

	cursor, err := pagination.Decode(filter.Cursor)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cursor")
	}

	rows, err := s.repo.List(ctx, userID, filter, cursor)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list receipts")
	}

	limit := pagination.Clamp(filter.Limit)
	result := &ListResult{Receipts: make([]ReceiptDTO, 0, len(rows))}
	if len(rows) > limit {
		rows = rows[:limit]
		last := rows[len(rows)-1]
		result.NextCursor = pagination.Encode(pagination.Cursor{
			CreatedAt: last.CreatedAt,
			ID:        last.ID,
		})
	}
	for i := range rows {
		result.Receipts = append(result.Receipts, FromModel(&rows[i]))
	}
	return result, nil
}

// AddItem appends a free-form line with quantity one to an active receipt and
// persists the recomputed total.
func (s *service) AddItem(ctx context.Context, userID, receiptID uuid.UUID, req AddItemRequest) (*ReceiptDTO, error) {
	receipt, err := s.loadActive(ctx, userID, receiptID)
	if err != nil {
		return nil, err
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "item name cannot be empty")
	}
	price := decimal.NewFromFloat(req.Price).Round(2)
	if price.IsNegative() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "price cannot be negative")
	}

	items := append(cloneItems(receipt.Items), models.ReceiptItem{
		ID:       uuid.New(),
		Name:     name,
		Price:    price,
		Quantity: 1,
	})
	return s.saveItems(ctx, receipt, items)
}

// UpdateQuantity sets a line's quantity on an active receipt. Quantity zero
// removes the line; a line list can legitimately become empty, which only
// blocks finalize.
func (s *service) UpdateQuantity(ctx context.Context, userID, receiptID, lineID uuid.UUID, req UpdateQuantityRequest) (*ReceiptDTO, error) {
	if req.Quantity < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity cannot be negative")
	}

	receipt, err := s.loadActive(ctx, userID, receiptID)
	if err != nil {
		return nil, err
	}

	items := cloneItems(receipt.Items)
	idx := indexOfLine(items, lineID)
	if idx < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "receipt item not found")
	}
	if req.Quantity == 0 {
		items = append(items[:idx], items[idx+1:]...)
	} else {
		items[idx].Quantity = req.Quantity
	}
	return s.saveItems(ctx, receipt, items)
}

// RemoveItem filters a line out of an active receipt.
func (s *service) RemoveItem(ctx context.Context, userID, receiptID, lineID uuid.UUID) (*ReceiptDTO, error) {
	receipt, err := s.loadActive(ctx, userID, receiptID)
	if err != nil {
		return nil, err
	}

	items := cloneItems(receipt.Items)
	idx := indexOfLine(items, lineID)
	if idx < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "receipt item not found")
	}
	items = append(items[:idx], items[idx+1:]...)
	return s.saveItems(ctx, receipt, items)
}

// Finalize moves an active receipt with at least one line to complete. The
// transition is one way; complete receipts are immutable.
func (s *service) Finalize(ctx context.Context, userID, receiptID uuid.UUID) (*ReceiptDTO, error) {
	receipt, err := s.load(ctx, userID, receiptID)
	if err != nil {
		return nil, err
	}
	if receipt.Status != enums.ReceiptStatusActive {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "receipt is already complete")
	}
	if len(receipt.Items) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cannot finalize a receipt with no items")
	}

	affected, err := s.repo.Finalize(ctx, userID, receiptID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "finalize receipt")
	}
	if affected == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "receipt is already complete")
	}

	receipt.Status = enums.ReceiptStatusComplete
	dto := FromModel(receipt)
	return &dto, nil
}

func (s *service) saveItems(ctx context.Context, receipt *models.Receipt, items []models.ReceiptItem) (*ReceiptDTO, error) {
	total := CalculateTotal(items)
	if err := s.repo.ReplaceItems(ctx, receipt, items, total); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "save receipt items")
	}
	dto := FromModel(receipt)
	return &dto, nil
}

func (s *service) load(ctx context.Context, userID, receiptID uuid.UUID) (*models.Receipt, error) {
	if userID == uuid.Nil || receiptID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id and receipt id are required")
	}
	receipt, err := s.repo.FindByID(ctx, userID, receiptID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "receipt not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load receipt")
	}
	return receipt, nil
}

func (s *service) loadActive(ctx context.Context, userID, receiptID uuid.UUID) (*models.Receipt, error) {
	receipt, err := s.load(ctx, userID, receiptID)
	if err != nil {
		return nil, err
	}
	if receipt.Status != enums.ReceiptStatusActive {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "receipt is not active")
	}
	return receipt, nil
}

// CalculateTotal sums price*quantity over receipt lines, rounded to cents.
func CalculateTotal(items []models.ReceiptItem) decimal.Decimal {
	total := decimal.Zero
	for i := range items {
		total = total.Add(items[i].Price.Mul(decimal.NewFromInt(int64(items[i].Quantity))))
	}
	return total.Round(2)
}

func cloneItems(items []models.ReceiptItem) []models.ReceiptItem {
	out := make([]models.ReceiptItem, len(items))
	copy(out, items)
	return out
}

func indexOfLine(items []models.ReceiptItem, lineID uuid.UUID) int {
	for i := range items {
		if items[i].ID == lineID {
			return i
		}
	}
	return -1
}

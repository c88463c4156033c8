package inventory

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/nmoralesdev/receiptdesk-backend/pkg/db/models"
	"github.com/nmoralesdev/receiptdesk-backend/pkg/enums"
	pkgerrors "github.com/nmoralesdev/receiptdesk-backend/pkg/errors"
	"github.com/nmoralesdev/receiptdesk-backend/pkg/pagination"
)

// Service exposes catalog operations for a single authenticated user.
type Service interface {
	Create(ctx context.Context, userID uuid.UUID, req CreateItemRequest) (*ItemDTO, error)
	Get(ctx context.Context, userID, itemID uuid.UUID) (*ItemDTO, error)
	List(ctx context.Context, userID uuid.UUID, filter ListFilter) (*ListResult, error)
	Update(ctx context.Context, userID, itemID uuid.UUID, req UpdateItemRequest) (*ItemDTO, error)
	Delete(ctx context.Context, userID, itemID uuid.UUID) error
}

type itemRepository interface {
	Create(ctx context.Context, item *models.InventoryItem) (*models.InventoryItem, error)
	FindByID(ctx context.Context, userID, id uuid.UUID) (*models.InventoryItem, error)
	List(ctx context.Context, userID uuid.UUID, filter ListFilter, cursor *pagination.Cursor) ([]models.InventoryItem, error)
	Update(ctx context.Context, userID, id uuid.UUID, updates map[string]any) (int64, error)
	Delete(ctx context.Context, userID, id uuid.UUID) (int64, error)
}

type service struct {
	repo itemRepository
}

// NewService builds an inventory service.
func NewService(repo itemRepository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("inventory repository is required")
	}
	return &service{repo: repo}, nil
}

func (s *service) Create(ctx context.Context, userID uuid.UUID, req CreateItemRequest) (*ItemDTO, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}

	model := req.toModel(userID)
	model.Name = strings.TrimSpace(model.Name)
	if model.Name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "item name cannot be empty")
	}
	if model.Price.IsNegative() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "price cannot be negative")
	}

	created, err := s.repo.Create(ctx, model)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create inventory item")
	}
	dto := FromModel(created)
	return &dto, nil
}

func (s *service) Get(ctx context.Context, userID, itemID uuid.UUID) (*ItemDTO, error) {
	item, err := s.load(ctx, userID, itemID)
	if err != nil {
		return nil, err
	}
	dto := FromModel(item)
	return &dto, nil
}

// List returns a cursor page. The repo fetches one extra row; when present it
// is dropped and its predecessor becomes the next cursor.
func (s *service) List(ctx context.Context, userID uuid.UUID, filter ListFilter) (*ListResult, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}

	cursor, err := pagination.Decode(filter.Cursor)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cursor")
	}

	rows, err := s.repo.List(ctx, userID, filter, cursor)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list inventory items")
	}

	limit := pagination.Clamp(filter.Limit)
	result := &ListResult{Items: make([]ItemDTO, 0, len(rows))}
	if len(rows) > limit {
		rows = rows[:limit]
		last := rows[len(rows)-1]
		result.NextCursor = pagination.Encode(pagination.Cursor{
			CreatedAt: last.CreatedAt,
			ID:        last.ID,
		})
	}
	for i := range rows {
		result.Items = append(result.Items, FromModel(&rows[i]))
	}
	return result, nil
}

func (s *service) Update(ctx context.Context, userID, itemID uuid.UUID, req UpdateItemRequest) (*ItemDTO, error) {
	if _, err := s.load(ctx, userID, itemID); err != nil {
		return nil, err
	}

	updates := map[string]any{}
	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "item name cannot be empty")
		}
		updates["name"] = name
	}
	if req.Category != nil {
		updates["category"] = strings.TrimSpace(*req.Category)
	}
	if req.Price != nil {
		price := decimal.NewFromFloat(*req.Price).Round(2)
		if price.IsNegative() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "price cannot be negative")
		}
		updates["price"] = price
	}
	if req.Availability != nil {
		availability := enums.Availability(*req.Availability)
		if !availability.IsValid() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid availability")
		}
		updates["availability"] = availability
	}
	if req.Tags != nil {
		updates["tags"] = pq.StringArray(*req.Tags)
	}

	if len(updates) > 0 {
		if _, err := s.repo.Update(ctx, userID, itemID, updates); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update inventory item")
		}
	}

	item, err := s.load(ctx, userID, itemID)
	if err != nil {
		return nil, err
	}
	dto := FromModel(item)
	return &dto, nil
}

// Delete removes a catalog item. Receipts keep their copied name and price,
// so existing receipts are unaffected.
func (s *service) Delete(ctx context.Context, userID, itemID uuid.UUID) error {
	if userID == uuid.Nil || itemID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "user id and item id are required")
	}

	affected, err := s.repo.Delete(ctx, userID, itemID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "delete inventory item")
	}
	if affected == 0 {
		return pkgerrors.New(pkgerrors.CodeNotFound, "inventory item not found")
	}
	return nil
}

func (s *service) load(ctx context.Context, userID, itemID uuid.UUID) (*models.InventoryItem, error) {
	if userID == uuid.Nil || itemID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id and item id are required")
	}
	item, err := s.repo.FindByID(ctx, userID, itemID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "inventory item not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load inventory item")
	}
	return item, nil
}

package inventory

import (
	"context"
	"sort"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/nmoralesdev/receiptdesk-backend/pkg/db/models"
	"github.com/nmoralesdev/receiptdesk-backend/pkg/enums"
	pkgerrors "github.com/nmoralesdev/receiptdesk-backend/pkg/errors"
	"github.com/nmoralesdev/receiptdesk-backend/pkg/pagination"
)

type fakeItemRepo struct {
	items map[uuid.UUID]*models.InventoryItem
}

func newFakeItemRepo() *fakeItemRepo {
	return &fakeItemRepo{items: map[uuid.UUID]*models.InventoryItem{}}
}

func (f *fakeItemRepo) Create(_ context.Context, item *models.InventoryItem) (*models.InventoryItem, error) {
	if item.ID == uuid.Nil {
		item.ID = uuid.New()
	}
	if item.CreatedAt.IsZero() {
		item.CreatedAt = time.Now().UTC()
	}
	item.UpdatedAt = item.CreatedAt
	clone := *item
	f.items[item.ID] = &clone
	return item, nil
}

func (f *fakeItemRepo) FindByID(_ context.Context, userID, id uuid.UUID) (*models.InventoryItem, error) {
	item, ok := f.items[id]
	if !ok || item.UserID != userID {
		return nil, gorm.ErrRecordNotFound
	}
	clone := *item
	return &clone, nil
}

func (f *fakeItemRepo) List(_ context.Context, userID uuid.UUID, filter ListFilter, cursor *pagination.Cursor) ([]models.InventoryItem, error) {
	var rows []models.InventoryItem
	for _, item := range f.items {
		if item.UserID != userID {
			continue
		}
		if filter.Category != "" && item.Category != filter.Category {
			continue
		}
		if filter.Availability != "" && string(item.Availability) != filter.Availability {
			continue
		}
		rows = append(rows, *item)
	}
	sort.Slice(rows, func(i, j int) bool {
		if !rows[i].CreatedAt.Equal(rows[j].CreatedAt) {
			return rows[i].CreatedAt.After(rows[j].CreatedAt)
		}
		return rows[i].ID.String() > rows[j].ID.String()
	})
	if cursor != nil {
		var after []models.InventoryItem
		for _, row := range rows {
			if row.CreatedAt.Before(cursor.CreatedAt) ||
				(row.CreatedAt.Equal(cursor.CreatedAt) && row.ID.String() < cursor.ID.String()) {
				after = append(after, row)
			}
		}
		rows = after
	}
	size := pagination.FetchSize(filter.Limit)
	if len(rows) > size {
		rows = rows[:size]
	}
	return rows, nil
}

func (f *fakeItemRepo) Update(_ context.Context, userID, id uuid.UUID, updates map[string]any) (int64, error) {
	item, ok := f.items[id]
	if !ok || item.UserID != userID {
		return 0, nil
	}
	if v, ok := updates["name"]; ok {
		item.Name = v.(string)
	}
	if v, ok := updates["category"]; ok {
		item.Category = v.(string)
	}
	if v, ok := updates["price"]; ok {
		item.Price = v.(decimal.Decimal)
	}
	if v, ok := updates["availability"]; ok {
		item.Availability = v.(enums.Availability)
	}
	item.UpdatedAt = time.Now().UTC()
	return 1, nil
}

func (f *fakeItemRepo) Delete(_ context.Context, userID, id uuid.UUID) (int64, error) {
	item, ok := f.items[id]
	if !ok || item.UserID != userID {
		return 0, nil
	}
	delete(f.items, id)
	return 1, nil
}

func newTestService(t *testing.T) (Service, *fakeItemRepo) {
	t.Helper()
	repo := newFakeItemRepo()
	svc, err := NewService(repo)
	require.NoError(t, err)
	return svc, repo
}

func TestCreateItem(t *testing.T) {
	svc, _ := newTestService(t)
	userID := uuid.New()

	dto, err := svc.Create(context.Background(), userID, CreateItemRequest{
		Name:     "  Apple ",
		Category: "produce",
		Price:    1.5,
		Tags:     []string{"fruit"},
	})
	require.NoError(t, err)

	assert.Equal(t, "Apple", dto.Name)
	assert.Equal(t, 1.5, dto.Price)
	assert.Equal(t, enums.AvailabilityInStock, dto.Availability)
	assert.Equal(t, []string{"fruit"}, dto.Tags)
	assert.NotEqual(t, uuid.Nil, dto.ID)
}

func TestCreateItemRejectsBlankName(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.Create(context.Background(), uuid.New(), CreateItemRequest{Name: "   "})
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeValidation, typed.Code())
}

func TestGetItemScopedToOwner(t *testing.T) {
	svc, _ := newTestService(t)
	owner := uuid.New()

	created, err := svc.Create(context.Background(), owner, CreateItemRequest{Name: "Milk", Price: 2.5})
	require.NoError(t, err)

	got, err := svc.Get(context.Background(), owner, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)

	_, err = svc.Get(context.Background(), uuid.New(), created.ID)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeNotFound, typed.Code())
}

func TestListPagination(t *testing.T) {
	svc, repo := newTestService(t)
	userID := uuid.New()

	base := time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		item := &models.InventoryItem{
			ID:        uuid.New(),
			UserID:    userID,
			Name:      "Item",
			Price:     decimal.NewFromInt(1),
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		}
		repo.items[item.ID] = item
	}

	first, err := svc.List(context.Background(), userID, ListFilter{Limit: 3})
	require.NoError(t, err)
	require.Len(t, first.Items, 3)
	require.NotEmpty(t, first.NextCursor)

	second, err := svc.List(context.Background(), userID, ListFilter{Limit: 3, Cursor: first.NextCursor})
	require.NoError(t, err)
	require.Len(t, second.Items, 2)
	assert.Empty(t, second.NextCursor)

	seen := map[uuid.UUID]bool{}
	for _, dto := range append(first.Items, second.Items...) {
		assert.False(t, seen[dto.ID], "item repeated across pages")
		seen[dto.ID] = true
	}
}

func TestListRejectsBadCursor(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.List(context.Background(), uuid.New(), ListFilter{Cursor: "not-a-cursor"})
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeValidation, typed.Code())
}

func TestUpdateItemPartial(t *testing.T) {
	svc, _ := newTestService(t)
	userID := uuid.New()

	created, err := svc.Create(context.Background(), userID, CreateItemRequest{
		Name:     "Bread",
		Category: "bakery",
		Price:    3.0,
	})
	require.NoError(t, err)

	price := 3.25
	availability := string(enums.AvailabilityOutOfStock)
	updated, err := svc.Update(context.Background(), userID, created.ID, UpdateItemRequest{
		Price:        &price,
		Availability: &availability,
	})
	require.NoError(t, err)

	assert.Equal(t, "Bread", updated.Name)
	assert.Equal(t, 3.25, updated.Price)
	assert.Equal(t, enums.AvailabilityOutOfStock, updated.Availability)
}

func TestUpdateItemRejectsNegativePrice(t *testing.T) {
	svc, _ := newTestService(t)
	userID := uuid.New()

	created, err := svc.Create(context.Background(), userID, CreateItemRequest{Name: "Eggs", Price: 4.0})
	require.NoError(t, err)

	price := -1.0
	_, err = svc.Update(context.Background(), userID, created.ID, UpdateItemRequest{Price: &price})
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeValidation, typed.Code())
}

func TestDeleteItem(t *testing.T) {
	svc, _ := newTestService(t)
	userID := uuid.New()

	created, err := svc.Create(context.Background(), userID, CreateItemRequest{Name: "Juice", Price: 2.0})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(context.Background(), userID, created.ID))

	err = svc.Delete(context.Background(), userID, created.ID)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeNotFound, typed.Code())
}

package inventory

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/nmoralesdev/receiptdesk-backend/pkg/db/models"
	"github.com/nmoralesdev/receiptdesk-backend/pkg/enums"
	"github.com/nmoralesdev/receiptdesk-backend/pkg/pagination"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	// The production schema lives in goose migrations; sqlite only needs the
	// columns the repo touches.
	err = db.Exec(`CREATE TABLE inventory_items (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL,
		name TEXT NOT NULL,
		category TEXT NOT NULL DEFAULT '',
		price TEXT NOT NULL DEFAULT '0',
		availability TEXT NOT NULL DEFAULT 'in_stock',
		tags TEXT NOT NULL DEFAULT '{}',
		created_at DATETIME NOT NULL,
		updated_at DATETIME NOT NULL
	)`).Error
	require.NoError(t, err)

	return db
}

func seedItem(t *testing.T, repo *Repository, userID uuid.UUID, name string, createdAt time.Time) *models.InventoryItem {
	t.Helper()

	item, err := repo.Create(context.Background(), &models.InventoryItem{
		UserID:       userID,
		Name:         name,
		Category:     "general",
		Price:        decimal.NewFromFloat(1.50),
		Availability: enums.AvailabilityInStock,
		Tags:         pq.StringArray{"seed"},
		CreatedAt:    createdAt,
		UpdatedAt:    createdAt,
	})
	require.NoError(t, err)
	return item
}

func TestRepoCreateAndFind(t *testing.T) {
	repo := NewRepository(openTestDB(t))
	userID := uuid.New()

	created := seedItem(t, repo, userID, "Apple", time.Now().UTC())
	require.NotEqual(t, uuid.Nil, created.ID)

	found, err := repo.FindByID(context.Background(), userID, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Apple", found.Name)
	assert.True(t, found.Price.Equal(decimal.NewFromFloat(1.50)))
	assert.Equal(t, pq.StringArray{"seed"}, found.Tags)

	_, err = repo.FindByID(context.Background(), uuid.New(), created.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestRepoFindByIDs(t *testing.T) {
	repo := NewRepository(openTestDB(t))
	userID := uuid.New()
	now := time.Now().UTC()

	apple := seedItem(t, repo, userID, "Apple", now)
	milk := seedItem(t, repo, userID, "Milk", now)

	got, err := repo.FindByIDs(context.Background(), userID, []uuid.UUID{apple.ID, milk.ID, uuid.New()})
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "Apple", got[apple.ID].Name)
	assert.Equal(t, "Milk", got[milk.ID].Name)

	empty, err := repo.FindByIDs(context.Background(), userID, nil)
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestRepoListFiltersAndPages(t *testing.T) {
	repo := NewRepository(openTestDB(t))
	userID := uuid.New()
	base := time.Date(2026, 8, 1, 9, 0, 0, 0, time.UTC)

	for i, name := range []string{"Apple", "Milk", "Bread"} {
		seedItem(t, repo, userID, name, base.Add(time.Duration(i)*time.Minute))
	}
	seedItem(t, repo, uuid.New(), "Other", base)

	rows, err := repo.List(context.Background(), userID, ListFilter{Limit: 2}, nil)
	require.NoError(t, err)
	// limit+1 rows come back so the service can detect the next page
	require.Len(t, rows, 3)
	assert.Equal(t, "Bread", rows[0].Name)

	cursor := &pagination.Cursor{CreatedAt: rows[1].CreatedAt, ID: rows[1].ID}
	next, err := repo.List(context.Background(), userID, ListFilter{Limit: 2}, cursor)
	require.NoError(t, err)
	require.Len(t, next, 1)
	assert.Equal(t, "Apple", next[0].Name)

	filtered, err := repo.List(context.Background(), userID, ListFilter{Category: "general", Limit: 10}, nil)
	require.NoError(t, err)
	assert.Len(t, filtered, 3)
}

func TestRepoUpdateAndDelete(t *testing.T) {
	repo := NewRepository(openTestDB(t))
	userID := uuid.New()

	item := seedItem(t, repo, userID, "Eggs", time.Now().UTC())

	affected, err := repo.Update(context.Background(), userID, item.ID, map[string]any{
		"name":         "Eggs (dozen)",
		"availability": enums.AvailabilityOutOfStock,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1), affected)

	found, err := repo.FindByID(context.Background(), userID, item.ID)
	require.NoError(t, err)
	assert.Equal(t, "Eggs (dozen)", found.Name)
	assert.Equal(t, enums.AvailabilityOutOfStock, found.Availability)

	affected, err = repo.Delete(context.Background(), userID, item.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), affected)

	affected, err = repo.Delete(context.Background(), userID, item.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), affected)
}

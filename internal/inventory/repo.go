package inventory

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/nmoralesdev/receiptdesk-backend/pkg/db/models"
	"github.com/nmoralesdev/receiptdesk-backend/pkg/pagination"
)

// Repository exposes catalog persistence operations. All queries are scoped
// to the owning user.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs an inventory repo bound to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx binds the repository to a transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	if tx == nil {
		return r
	}
	return &Repository{db: tx}
}

// Create inserts a new catalog item and returns the persisted model.
func (r *Repository) Create(ctx context.Context, item *models.InventoryItem) (*models.InventoryItem, error) {
	if item.ID == uuid.Nil {
		item.ID = uuid.New()
	}
	if err := r.db.WithContext(ctx).Create(item).Error; err != nil {
		return nil, err
	}
	return item, nil
}

// FindByID loads one catalog item owned by the user.
func (r *Repository) FindByID(ctx context.Context, userID, id uuid.UUID) (*models.InventoryItem, error) {
	var item models.InventoryItem
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND id = ?", userID, id).
		First(&item).Error
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// FindByIDs loads a batch of catalog items owned by the user, keyed by id.
// Missing ids are simply absent from the result.
func (r *Repository) FindByIDs(ctx context.Context, userID uuid.UUID, ids []uuid.UUID) (map[uuid.UUID]*models.InventoryItem, error) {
	out := make(map[uuid.UUID]*models.InventoryItem, len(ids))
	if len(ids) == 0 {
		return out, nil
	}

	var rows []models.InventoryItem
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND id IN ?", userID, ids).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	for i := range rows {
		item := rows[i]
		out[item.ID] = &item
	}
	return out, nil
}

// List returns one page of catalog items ordered by (created_at DESC, id DESC)
// starting after the cursor. It fetches limit+1 rows so the caller can detect
// whether another page exists.
func (r *Repository) List(ctx context.Context, userID uuid.UUID, filter ListFilter, cursor *pagination.Cursor) ([]models.InventoryItem, error) {
	q := r.db.WithContext(ctx).
		Where("user_id = ?", userID)

	if filter.Category != "" {
		q = q.Where("category = ?", filter.Category)
	}
	if filter.Availability != "" {
		q = q.Where("availability = ?", filter.Availability)
	}
	if filter.Search != "" {
		q = q.Where("name LIKE ?", "%"+filter.Search+"%")
	}
	if cursor != nil {
		q = q.Where(
			"(created_at < ?) OR (created_at = ? AND id < ?)",
			cursor.CreatedAt, cursor.CreatedAt, cursor.ID,
		)
	}

	var items []models.InventoryItem
	err := q.Order("created_at DESC, id DESC").
		Limit(pagination.FetchSize(filter.Limit)).
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

// Update persists the given columns on an item owned by the user and returns
// the number of rows touched.
func (r *Repository) Update(ctx context.Context, userID, id uuid.UUID, updates map[string]any) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&models.InventoryItem{}).
		Where("user_id = ? AND id = ?", userID, id).
		Updates(updates)
	return res.RowsAffected, res.Error
}

// Delete removes an item owned by the user and returns the number of rows
// removed.
func (r *Repository) Delete(ctx context.Context, userID, id uuid.UUID) (int64, error) {
	res := r.db.WithContext(ctx).
		Where("user_id = ? AND id = ?", userID, id).
		Delete(&models.InventoryItem{})
	return res.RowsAffected, res.Error
}

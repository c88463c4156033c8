package receipts

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/nmoralesdev/receiptdesk-backend/pkg/db/models"
	"github.com/nmoralesdev/receiptdesk-backend/pkg/enums"
	"github.com/nmoralesdev/receiptdesk-backend/pkg/pagination"
)

// Repository exposes receipt persistence operations. All queries are scoped
// to the owning user.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a receipts repo bound to the provided GORM DB.
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

// Create inserts a receipt together with its lines.
func (r *Repository) Create(ctx context.Context, receipt *models.Receipt) (*models.Receipt, error) {
	if receipt.ID == uuid.Nil {
		receipt.ID = uuid.New()
	}
	for i := range receipt.Items {
		if receipt.Items[i].ID == uuid.Nil {
			receipt.Items[i].ID = uuid.New()
		}
		receipt.Items[i].ReceiptID = receipt.ID
	}
	if err := r.db.WithContext(ctx).Create(receipt).Error; err != nil {
		return nil, err
	}
	return receipt, nil
}

// FindByID loads one receipt with its lines.
func (r *Repository) FindByID(ctx context.Context, userID, id uuid.UUID) (*models.Receipt, error) {
	var receipt models.Receipt
	err := r.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC, id ASC")
		}).
		Where("user_id = ? AND id = ?", userID, id).
		First(&receipt).Error
	if err != nil {
		return nil, err
	}
	return &receipt, nil
}

// List returns one page of receipts ordered by (created_at DESC, id DESC).
// It fetches limit+1 rows so the caller can detect another page.
func (r *Repository) List(ctx context.Context, userID uuid.UUID, filter ListFilter, cursor *pagination.Cursor) ([]models.Receipt, error) {
	q := r.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC, id ASC")
		}).
		Where("user_id = ?", userID)

	if filter.Status != "" {
		q = q.Where("status = ?", filter.Status)
	}
	if cursor != nil {
		q = q.Where(
			"(created_at < ?) OR (created_at = ? AND id < ?)",
			cursor.CreatedAt, cursor.CreatedAt, cursor.ID,
		)
	}

	var receipts []models.Receipt
	err := q.Order("created_at DESC, id DESC").
		Limit(pagination.FetchSize(filter.Limit)).
		Find(&receipts).Error
	if err != nil {
		return nil, err
	}
	return receipts, nil
}

// ReplaceItems swaps a receipt's lines for the given set and stores the
// recomputed total in one transaction. Status is left untouched.
func (r *Repository) ReplaceItems(ctx context.Context, receipt *models.Receipt, items []models.ReceiptItem, total decimal.Decimal) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("receipt_id = ?", receipt.ID).Delete(&models.ReceiptItem{}).Error; err != nil {
			return err
		}
		for i := range items {
			if items[i].ID == uuid.Nil {
				items[i].ID = uuid.New()
			}
			items[i].ReceiptID = receipt.ID
		}
		if len(items) > 0 {
			if err := tx.Create(&items).Error; err != nil {
				return err
			}
		}
		err := tx.Model(&models.Receipt{}).
			Where("id = ?", receipt.ID).
			UpdateColumn("total", total).Error
		if err != nil {
			return err
		}
		receipt.Items = items
		receipt.Total = total
		return nil
	})
}

// Finalize flips an active receipt to complete. The conditional update makes
// the transition atomic; zero rows affected means the receipt was not active.
func (r *Repository) Finalize(ctx context.Context, userID, id uuid.UUID) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&models.Receipt{}).
		Where("user_id = ? AND id = ? AND status = ?", userID, id, enums.ReceiptStatusActive).
		UpdateColumn("status", enums.ReceiptStatusComplete)
	return res.RowsAffected, res.Error
}

// FindCompletedInRange loads all completed receipts whose stored timestamp
// falls inside [startMS, endMS], with lines preloaded, for aggregation.
func (r *Repository) FindCompletedInRange(ctx context.Context, userID uuid.UUID, startMS, endMS int64) ([]models.Receipt, error) {
	var receipts []models.Receipt
	err := r.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC, id ASC")
		}).
		Where("user_id = ? AND status = ? AND timestamp_ms BETWEEN ? AND ?",
			userID, enums.ReceiptStatusComplete, startMS, endMS).
		Order("timestamp_ms ASC, id ASC").
		Find(&receipts).Error
	if err != nil {
		return nil, err
	}
	return receipts, nil
}

package profile

import (
	"context"

	"github.com/google/uuid"
	"github.com/nmoralesdev/receiptdesk-backend/pkg/db/models"
	"gorm.io/gorm"
)

// Repository persists business profiles.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a profile repository bound to the provided DB.
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

// Create inserts a business profile for the user.
func (r *Repository) Create(ctx context.Context, dto CreateBusinessDTO) (*models.Business, error) {
	business := dto.ToModel()
	if business.ID == uuid.Nil {
		business.ID = uuid.New()
	}
	if err := r.db.WithContext(ctx).Create(business).Error; err != nil {
		return nil, err
	}
	return business, nil
}

// FindByUserID loads the business profile owned by the user.
func (r *Repository) FindByUserID(ctx context.Context, userID uuid.UUID) (*models.Business, error) {
	var business models.Business
	if err := r.db.WithContext(ctx).First(&business, "user_id = ?", userID).Error; err != nil {
		return nil, err
	}
	return &business, nil
}

// Update saves the provided business profile.
func (r *Repository) Update(ctx context.Context, business *models.Business) (*models.Business, error) {
	if err := r.db.WithContext(ctx).Save(business).Error; err != nil {
		return nil, err
	}
	return business, nil
}

// UpdateLogoObject stores the object key of the uploaded logo.
func (r *Repository) UpdateLogoObject(ctx context.Context, userID uuid.UUID, object string) error {
	return r.db.WithContext(ctx).
		Model(&models.Business{}).
		Where("user_id = ?", userID).
		UpdateColumn("logo_object", object).Error
}

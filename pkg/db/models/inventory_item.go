package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"

	"github.com/nmoralesdev/receiptdesk-backend/pkg/enums"
)

// InventoryItem is a user-owned catalog entry with the current sale price.
// Receipts never reference these rows directly; they copy name/price at
// composition time.
type InventoryItem struct {
	ID           uuid.UUID          `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	UserID       uuid.UUID          `gorm:"column:user_id;type:uuid;not null;index"`
	Name         string             `gorm:"column:name;not null"`
	Category     string             `gorm:"column:category;not null"`
	Price        decimal.Decimal    `gorm:"column:price;type:numeric(12,2);not null"`
	Availability enums.Availability `gorm:"column:availability;type:text;not null;default:'in_stock'"`
	Tags         pq.StringArray     `gorm:"column:tags;type:text[];not null;default:ARRAY[]::text[]"`
	CreatedAt    time.Time          `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time          `gorm:"column:updated_at;autoUpdateTime"`
}

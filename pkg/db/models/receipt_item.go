package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ReceiptItem is the snapshot of a sold line. Name and price are copied from
// the catalog when the line is created and never follow later catalog edits.
type ReceiptItem struct {
	ID        uuid.UUID       `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	ReceiptID uuid.UUID       `gorm:"column:receipt_id;type:uuid;not null;index"`
	ItemID    *uuid.UUID      `gorm:"column:item_id;type:uuid"`
	Name      string          `gorm:"column:name;not null"`
	Price     decimal.Decimal `gorm:"column:price;type:numeric(12,2);not null"`
	Quantity  int             `gorm:"column:quantity;not null"`
	CreatedAt time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}

package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/nmoralesdev/receiptdesk-backend/pkg/enums"
)

// Receipt is a sales transaction. While status is active the item list and
// total may change; a complete receipt is immutable and only read by reports.
type Receipt struct {
	ID            uuid.UUID           `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	ReceiptNumber string              `gorm:"column:receipt_number;not null;index"`
	UserID        uuid.UUID           `gorm:"column:user_id;type:uuid;not null;index"`
	Total         decimal.Decimal     `gorm:"column:total;type:numeric(12,2);not null"`
	Status        enums.ReceiptStatus `gorm:"column:status;type:text;not null;default:'active'"`
	TimestampMS   int64               `gorm:"column:timestamp_ms;not null"`
	Items         []ReceiptItem       `gorm:"foreignKey:ReceiptID;constraint:OnDelete:CASCADE"`
	CreatedAt     time.Time           `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time           `gorm:"column:updated_at;autoUpdateTime"`
}

package models

import (
	"time"

	"github.com/google/uuid"
)

// Business is the per-user profile printed onto receipts and reports.
type Business struct {
	ID         uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	UserID     uuid.UUID `gorm:"column:user_id;type:uuid;not null;uniqueIndex"`
	Name       string    `gorm:"column:name;not null"`
	Address    *string   `gorm:"column:address"`
	Phone      *string   `gorm:"column:phone"`
	LogoObject *string   `gorm:"column:logo_object"`
	CreatedAt  time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt  time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

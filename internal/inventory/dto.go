package inventory

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"

	"github.com/nmoralesdev/receiptdesk-backend/pkg/db/models"
	"github.com/nmoralesdev/receiptdesk-backend/pkg/enums"
)

// ItemDTO is the transport shape of a catalog item. Price serializes as a
// plain number to keep the stored contract stable.
type ItemDTO struct {
	ID           uuid.UUID          `json:"id"`
	Name         string             `json:"name"`
	Category     string             `json:"category"`
	Price        float64            `json:"price"`
	Availability enums.Availability `json:"availability"`
	Tags         []string           `json:"tags"`
	CreatedAt    time.Time          `json:"createdAt"`
	UpdatedAt    time.Time          `json:"updatedAt"`
}

// CreateItemRequest is the payload accepted by the create endpoint.
type CreateItemRequest struct {
	Name         string   `json:"name" validate:"required,min=1,max=120"`
	Category     string   `json:"category" validate:"omitempty,max=60"`
	Price        float64  `json:"price" validate:"gte=0"`
	Availability string   `json:"availability" validate:"omitempty,oneof=in_stock out_of_stock"`
	Tags         []string `json:"tags" validate:"omitempty,max=10,dive,min=1,max=40"`
}

// UpdateItemRequest carries partial updates. Nil fields are left untouched.
type UpdateItemRequest struct {
	Name         *string   `json:"name,omitempty" validate:"omitempty,min=1,max=120"`
	Category     *string   `json:"category,omitempty" validate:"omitempty,max=60"`
	Price        *float64  `json:"price,omitempty" validate:"omitempty,gte=0"`
	Availability *string   `json:"availability,omitempty" validate:"omitempty,oneof=in_stock out_of_stock"`
	Tags         *[]string `json:"tags,omitempty" validate:"omitempty,max=10,dive,min=1,max=40"`
}

// ListFilter narrows the catalog listing.
type ListFilter struct {
	Category     string
	Availability string
	Search       string
	Limit        int
	Cursor       string
}

// ListResult is a cursor page of catalog items.
type ListResult struct {
	Items      []ItemDTO `json:"items"`
	NextCursor string    `json:"nextCursor,omitempty"`
}

func FromModel(m *models.InventoryItem) ItemDTO {
	tags := []string(m.Tags)
	if tags == nil {
		tags = []string{}
	}
	return ItemDTO{
		ID:           m.ID,
		Name:         m.Name,
		Category:     m.Category,
		Price:        m.Price.InexactFloat64(),
		Availability: m.Availability,
		Tags:         tags,
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
	}
}

func (r CreateItemRequest) toModel(userID uuid.UUID) *models.InventoryItem {
	availability := enums.AvailabilityInStock
	if r.Availability != "" {
		availability = enums.Availability(r.Availability)
	}
	return &models.InventoryItem{
		UserID:       userID,
		Name:         r.Name,
		Category:     r.Category,
		Price:        decimal.NewFromFloat(r.Price).Round(2),
		Availability: availability,
		Tags:         pq.StringArray(r.Tags),
	}
}

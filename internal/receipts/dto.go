package receipts

import (
	"time"

	"github.com/google/uuid"

	"github.com/nmoralesdev/receiptdesk-backend/pkg/db/models"
	"github.com/nmoralesdev/receiptdesk-backend/pkg/enums"
)

// ReceiptItemDTO is the transport shape of one receipt line. The fields are a
// stored contract; name and price are the snapshot taken at composition time.
type ReceiptItemDTO struct {
	ID       uuid.UUID  `json:"id"`
	ItemID   *uuid.UUID `json:"itemId,omitempty"`
	Name     string     `json:"name"`
	Price    float64    `json:"price"`
	Quantity int        `json:"quantity"`
}

// ReceiptDTO is the transport shape of a receipt. Field names match the
// stored record contract so historical data keeps round-tripping.
type ReceiptDTO struct {
	ID            uuid.UUID           `json:"id"`
	ReceiptNumber string              `json:"receiptNumber"`
	UserID        uuid.UUID           `json:"userId"`
	Items         []ReceiptItemDTO    `json:"items"`
	Total         float64             `json:"total"`
	Status        enums.ReceiptStatus `json:"status"`
	CreatedAt     time.Time           `json:"createdAt"`
	Timestamp     int64               `json:"timestamp"`
}

// CreateReceiptRequest carries the composer's quantity map keyed by catalog
// item id. Zero and negative quantities are dropped before composition.
type CreateReceiptRequest struct {
	Items map[string]int `json:"items" validate:"required"`
}

// AddItemRequest appends a free-form line to an active receipt.
type AddItemRequest struct {
	Name  string  `json:"name" validate:"required,min=1,max=120"`
	Price float64 `json:"price" validate:"gte=0"`
}

// UpdateQuantityRequest sets a line's quantity. Zero removes the line.
type UpdateQuantityRequest struct {
	Quantity int `json:"quantity" validate:"gte=0"`
}

// ListFilter narrows the receipt listing.
type ListFilter struct {
	Status string
	Limit  int
	Cursor string
}

// ListResult is a cursor page of receipts.
type ListResult struct {
	Receipts   []ReceiptDTO `json:"receipts"`
	NextCursor string       `json:"nextCursor,omitempty"`
}

func FromModel(m *models.Receipt) ReceiptDTO {
	items := make([]ReceiptItemDTO, 0, len(m.Items))
	for i := range m.Items {
		items = append(items, itemFromModel(&m.Items[i]))
	}
	return ReceiptDTO{
		ID:            m.ID,
		ReceiptNumber: m.ReceiptNumber,
		UserID:        m.UserID,
		Items:         items,
		Total:         m.Total.InexactFloat64(),
		Status:        m.Status,
		CreatedAt:     m.CreatedAt,
		Timestamp:     m.TimestampMS,
	}
}

func itemFromModel(m *models.ReceiptItem) ReceiptItemDTO {
	return ReceiptItemDTO{
		ID:       m.ID,
		ItemID:   m.ItemID,
		Name:     m.Name,
		Price:    m.Price.InexactFloat64(),
		Quantity: m.Quantity,
	}
}

package receipts

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/nmoralesdev/receiptdesk-backend/pkg/db/models"
)

// Composer accumulates desired quantities per catalog item before a draft is
// persisted. Entries keep insertion order so the resulting line list is
// deterministic.
type Composer struct {
	quantities map[uuid.UUID]int
	order      []uuid.UUID
}

// NewComposer returns an empty draft composer.
func NewComposer() *Composer {
	return &Composer{quantities: map[uuid.UUID]int{}}
}

// AddItem increments the mapped quantity by one, starting from zero for an
// item not yet in the draft.
func (c *Composer) AddItem(itemID uuid.UUID) {
	if _, ok := c.quantities[itemID]; !ok {
		c.order = append(c.order, itemID)
	}
	c.quantities[itemID]++
}

// RemoveItem decrements the mapped quantity. A quantity reaching zero deletes
// the entry rather than keeping it at zero.
func (c *Composer) RemoveItem(itemID uuid.UUID) {
	qty, ok := c.quantities[itemID]
	if !ok {
		return
	}
	if qty <= 1 {
		c.delete(itemID)
		return
	}
	c.quantities[itemID] = qty - 1
}

// SetQuantity overwrites the mapped quantity. Zero or negative values delete
// the entry.
func (c *Composer) SetQuantity(itemID uuid.UUID, quantity int) {
	if quantity <= 0 {
		c.delete(itemID)
		return
	}
	if _, ok := c.quantities[itemID]; !ok {
		c.order = append(c.order, itemID)
	}
	c.quantities[itemID] = quantity
}

// Quantity returns the current mapped quantity, zero when absent.
func (c *Composer) Quantity(itemID uuid.UUID) int {
	return c.quantities[itemID]
}

// Empty reports whether the draft holds no entries.
func (c *Composer) Empty() bool {
	return len(c.quantities) == 0
}

// CalculateTotal sums price*quantity over the draft against the given catalog
// snapshot. Entries whose item is missing from the snapshot contribute zero.
func (c *Composer) CalculateTotal(snapshot map[uuid.UUID]*models.InventoryItem) decimal.Decimal {
	total := decimal.Zero
	for itemID, qty := range c.quantities {
		item, ok := snapshot[itemID]
		if !ok {
			continue
		}
		total = total.Add(item.Price.Mul(decimal.NewFromInt(int64(qty))))
	}
	return total.Round(2)
}

// BuildItems resolves the draft against the catalog snapshot into receipt
// lines, copying name and price so later catalog edits cannot touch them.
// Entries whose item is missing from the snapshot are skipped.
func (c *Composer) BuildItems(snapshot map[uuid.UUID]*models.InventoryItem) []models.ReceiptItem {
	lines := make([]models.ReceiptItem, 0, len(c.order))
	for _, itemID := range c.order {
		qty, ok := c.quantities[itemID]
		if !ok {
			continue
		}
		item, ok := snapshot[itemID]
		if !ok {
			continue
		}
		sourceID := itemID
		lines = append(lines, models.ReceiptItem{
			ID:       uuid.New(),
			ItemID:   &sourceID,
			Name:     item.Name,
			Price:    item.Price,
			Quantity: qty,
		})
	}
	return lines
}

func (c *Composer) delete(itemID uuid.UUID) {
	if _, ok := c.quantities[itemID]; !ok {
		return
	}
	delete(c.quantities, itemID)
	for i, id := range c.order {
		if id == itemID {
			c.order = append(c.order[:i], c.order[i+1:]...)
			break
		}
	}
}

// NewReceiptNumber derives the display number from the draft's creation
// instant. Uniqueness holds per creation millisecond only; the row id is the
// collision-resistant identifier.
func NewReceiptNumber(at time.Time) string {
	return fmt.Sprintf("R-%d", at.UnixMilli())
}

package enums

import "fmt"

// ReceiptStatus tracks whether a receipt is still mutable or closed out.
type ReceiptStatus string

const (
	ReceiptStatusActive   ReceiptStatus = "active"
	ReceiptStatusComplete ReceiptStatus = "complete"
)

var validReceiptStatuses = []ReceiptStatus{
	ReceiptStatusActive,
	ReceiptStatusComplete,
}

// String implements fmt.Stringer.
func (s ReceiptStatus) String() string {
	return string(s)
}

// IsValid reports whether the value is a known ReceiptStatus.
func (s ReceiptStatus) IsValid() bool {
	for _, candidate := range validReceiptStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// ParseReceiptStatus converts raw input into a ReceiptStatus.
func ParseReceiptStatus(value string) (ReceiptStatus, error) {
	for _, candidate := range validReceiptStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid receipt status %q", value)
}

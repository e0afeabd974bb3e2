package enums

import "fmt"

// SupplyOrderStatus tracks the lifecycle of a supplier procurement order.
type SupplyOrderStatus string

const (
	SupplyOrderStatusDraft             SupplyOrderStatus = "draft"
	SupplyOrderStatusOrdered           SupplyOrderStatus = "ordered"
	SupplyOrderStatusPartiallyReceived SupplyOrderStatus = "partially_received"
	SupplyOrderStatusReceived          SupplyOrderStatus = "received"
	SupplyOrderStatusCancelled         SupplyOrderStatus = "cancelled"
)

var validSupplyOrderStatuses = []SupplyOrderStatus{
	SupplyOrderStatusDraft,
	SupplyOrderStatusOrdered,
	SupplyOrderStatusPartiallyReceived,
	SupplyOrderStatusReceived,
	SupplyOrderStatusCancelled,
}

// String implements fmt.Stringer.
func (s SupplyOrderStatus) String() string {
	return string(s)
}

// IsValid reports whether the value is a known SupplyOrderStatus.
func (s SupplyOrderStatus) IsValid() bool {
	for _, candidate := range validSupplyOrderStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// IsTerminal reports whether the workflow accepts further receipts.
func (s SupplyOrderStatus) IsTerminal() bool {
	return s == SupplyOrderStatusReceived || s == SupplyOrderStatusCancelled
}

// ParseSupplyOrderStatus converts raw input into a SupplyOrderStatus.
func ParseSupplyOrderStatus(value string) (SupplyOrderStatus, error) {
	for _, candidate := range validSupplyOrderStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid supply order status %q", value)
}

package enums

import "fmt"

// FulfillmentStatus tracks the kitchen-to-door lifecycle of an order,
// independent of how (or whether) the order has been paid.
type FulfillmentStatus string

const (
	FulfillmentStatusPending   FulfillmentStatus = "Pending"
	FulfillmentStatusPreparing FulfillmentStatus = "Preparing"
	FulfillmentStatusReady     FulfillmentStatus = "Ready"
	FulfillmentStatusCompleted FulfillmentStatus = "Completed"
	FulfillmentStatusCancelled FulfillmentStatus = "Cancelled"
)

var validFulfillmentStatuses = []FulfillmentStatus{
	FulfillmentStatusPending,
	FulfillmentStatusPreparing,
	FulfillmentStatusReady,
	FulfillmentStatusCompleted,
	FulfillmentStatusCancelled,
}

// String implements fmt.Stringer.
func (f FulfillmentStatus) String() string {
	return string(f)
}

// IsValid reports whether the value is a known FulfillmentStatus.
func (f FulfillmentStatus) IsValid() bool {
	for _, candidate := range validFulfillmentStatuses {
		if candidate == f {
			return true
		}
	}
	return false
}

// IsTerminal reports whether no further fulfillment transition is allowed.
func (f FulfillmentStatus) IsTerminal() bool {
	return f == FulfillmentStatusCompleted || f == FulfillmentStatusCancelled
}

// ParseFulfillmentStatus converts raw input into a FulfillmentStatus.
func ParseFulfillmentStatus(value string) (FulfillmentStatus, error) {
	for _, candidate := range validFulfillmentStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid fulfillment status %q", value)
}

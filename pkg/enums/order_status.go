package enums

import "fmt"

// OrderStatus is the combined status enum exposed on the wire. It mixes the
// fulfillment chain with the UPI-flow marker PAYMENT_SUBMITTED for
// compatibility with existing clients; internally the two axes are stored
// separately and projected back to this enum at the interface boundary.
type OrderStatus string

const (
	OrderStatusPending          OrderStatus = "Pending"
	OrderStatusPreparing        OrderStatus = "Preparing"
	OrderStatusReady            OrderStatus = "Ready"
	OrderStatusCompleted        OrderStatus = "Completed"
	OrderStatusCancelled        OrderStatus = "Cancelled"
	OrderStatusPaymentSubmitted OrderStatus = "PAYMENT_SUBMITTED"
)

var validOrderStatuses = []OrderStatus{
	OrderStatusPending,
	OrderStatusPreparing,
	OrderStatusReady,
	OrderStatusCompleted,
	OrderStatusCancelled,
	OrderStatusPaymentSubmitted,
}

// String implements fmt.Stringer.
func (o OrderStatus) String() string {
	return string(o)
}

// IsValid reports whether the value is a known OrderStatus.
func (o OrderStatus) IsValid() bool {
	for _, candidate := range validOrderStatuses {
		if candidate == o {
			return true
		}
	}
	return false
}

// ParseOrderStatus converts raw input into an OrderStatus.
func ParseOrderStatus(value string) (OrderStatus, error) {
	for _, candidate := range validOrderStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid order status %q", value)
}

package enums

import "fmt"

// UPITransactionStatus tracks a single UPI payment attempt. The status only
// ever moves PENDING -> VERIFIED; verified attempts are immutable.
type UPITransactionStatus string

const (
	UPITransactionStatusPending  UPITransactionStatus = "PENDING"
	UPITransactionStatusVerified UPITransactionStatus = "VERIFIED"
)

var validUPITransactionStatuses = []UPITransactionStatus{
	UPITransactionStatusPending,
	UPITransactionStatusVerified,
}

// String implements fmt.Stringer.
func (u UPITransactionStatus) String() string {
	return string(u)
}

// IsValid reports whether the value is a known UPITransactionStatus.
func (u UPITransactionStatus) IsValid() bool {
	for _, candidate := range validUPITransactionStatuses {
		if candidate == u {
			return true
		}
	}
	return false
}

// ParseUPITransactionStatus converts raw input into a UPITransactionStatus.
func ParseUPITransactionStatus(value string) (UPITransactionStatus, error) {
	for _, candidate := range validUPITransactionStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid upi transaction status %q", value)
}

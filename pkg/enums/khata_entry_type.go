package enums

import "fmt"

// KhataEntryType marks a ledger line as money owed (DEBIT) or repaid (CREDIT).
type KhataEntryType string

const (
	KhataEntryTypeDebit  KhataEntryType = "DEBIT"
	KhataEntryTypeCredit KhataEntryType = "CREDIT"
)

var validKhataEntryTypes = []KhataEntryType{KhataEntryTypeDebit, KhataEntryTypeCredit}

// String implements fmt.Stringer.
func (k KhataEntryType) String() string {
	return string(k)
}

// IsValid reports whether the value is a known KhataEntryType.
func (k KhataEntryType) IsValid() bool {
	for _, candidate := range validKhataEntryTypes {
		if candidate == k {
			return true
		}
	}
	return false
}

// ParseKhataEntryType converts raw input into a KhataEntryType.
func ParseKhataEntryType(value string) (KhataEntryType, error) {
	for _, candidate := range validKhataEntryTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid khata entry type %q", value)
}

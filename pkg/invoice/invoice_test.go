package invoice_test

import (
	"regexp"
	"testing"
	"time"

	"github.com/pvsmart/pvsmart-backend/pkg/invoice"
)

func TestOrderNumberFormat(t *testing.T) {
	at := time.Date(2025, time.January, 14, 10, 30, 0, 0, time.UTC)
	got := invoice.OrderNumber(at)

	pattern := regexp.MustCompile(`^ORD-20250114-\d{4}$`)
	if !pattern.MatchString(got) {
		t.Fatalf("OrderNumber = %q, want match for %s", got, pattern)
	}
}

func TestBillNumberFormat(t *testing.T) {
	got := invoice.BillNumber(time.Now())

	pattern := regexp.MustCompile(`^BILL-\d{1,6}-\d{4}$`)
	if !pattern.MatchString(got) {
		t.Fatalf("BillNumber = %q, want match for %s", got, pattern)
	}
}

func TestSKUFormat(t *testing.T) {
	tests := []struct {
		name     string
		category string
		want     string
	}{
		{name: "grocery", category: "Grocery", want: `^PVS-GRO-\d{4}$`},
		{name: "lowercase", category: "dairy", want: `^PVS-DAI-\d{4}$`},
		{name: "short category falls back", category: "oj", want: `^PVS-GEN-\d{4}$`},
		{name: "empty category falls back", category: "", want: `^PVS-GEN-\d{4}$`},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := invoice.SKU(tc.category)
			pattern := regexp.MustCompile(tc.want)
			if !pattern.MatchString(got) {
				t.Fatalf("SKU(%q) = %q, want match for %s", tc.category, got, tc.want)
			}
		})
	}
}

// Package invoice generates human-readable identifiers for orders, counter
// bills, and catalog SKUs. Numbers carry a random suffix; uniqueness is
// enforced by the database, callers retry on collision.
package invoice

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"
	"time"
)

const (
	orderPrefix = "ORD"
	billPrefix  = "BILL"
	skuPrefix   = "PVS"
)

// OrderNumber returns an order invoice number, e.g. ORD-20250114-4821.
func OrderNumber(now time.Time) string {
	return fmt.Sprintf("%s-%s-%04d", orderPrefix, now.Format("20060102"), randomSuffix())
}

// BillNumber returns a counter bill number built from the last six digits of
// the unix millisecond clock, e.g. BILL-583921-4821.
func BillNumber(now time.Time) string {
	millis := fmt.Sprintf("%d", now.UnixMilli())
	if len(millis) > 6 {
		millis = millis[len(millis)-6:]
	}
	return fmt.Sprintf("%s-%s-%04d", billPrefix, millis, randomSuffix())
}

// SKU returns a catalog SKU derived from the category, e.g. PVS-GRO-4821.
// Categories shorter than three characters fall back to GEN.
func SKU(category string) string {
	code := strings.ToUpper(strings.TrimSpace(category))
	if len(code) >= 3 {
		code = code[:3]
	} else {
		code = "GEN"
	}
	return fmt.Sprintf("%s-%s-%04d", skuPrefix, code, randomSuffix())
}

// randomSuffix returns a value in [1000, 9999].
func randomSuffix() int64 {
	n, err := rand.Int(rand.Reader, big.NewInt(9000))
	if err != nil {
		// crypto/rand only fails when the platform source is broken;
		// fall back to the clock rather than aborting billing.
		return 1000 + time.Now().UnixNano()%9000
	}
	return 1000 + n.Int64()
}

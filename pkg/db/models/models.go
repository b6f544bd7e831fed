package models

// All lists every model for GORM auto-migration. Postgres deployments use
// goose migrations instead; this path exists for sqlite and dev bootstraps.
func All() []any {
	return []any{
		&User{},
		&Product{},
		&Order{},
		&OrderItem{},
		&UPITransaction{},
		&OfflineBill{},
		&OfflineBillItem{},
		&KhataEntry{},
		&RecentlyViewed{},
		&AuditLog{},
	}
}

package models

import "time"

// RecentlyViewed tracks storefront browsing per user, one row per
// user/product pair with the timestamp refreshed on every view.
type RecentlyViewed struct {
	ID        int64     `gorm:"column:id;primaryKey;autoIncrement"`
	UserID    int64     `gorm:"column:user_id;not null;uniqueIndex:idx_recently_viewed_user_product"`
	ProductID int64     `gorm:"column:product_id;not null;uniqueIndex:idx_recently_viewed_user_product"`
	ViewedAt  time.Time `gorm:"column:viewed_at;not null;index"`
}

package wish

import "time"

type Wish struct {
	ID          int64     `gorm:"primaryKey"`
	OwnerID     int64     `gorm:"column:owner_id;not null;index"`
	Title       string    `gorm:"column:title;not null"`
	Description string    `gorm:"column:description"`
	URL         *string   `gorm:"column:url"`
	PriceCents  *int64    `gorm:"column:price_cents"`
	CreatedAt   time.Time `gorm:"column:created_at;default:now()"`
	UpdatedAt   time.Time `gorm:"column:updated_at;default:now()"`
}

package reservation

import "time"

// One active reservation per wish, enforced by the unique index.
type Reservation struct {
	ID         int64     `gorm:"primaryKey"`
	WishID     int64     `gorm:"column:wish_id;uniqueIndex;not null"`
	UserID     int64     `gorm:"column:user_id;not null;index"`
	Note       string    `gorm:"column:note"`
	ReservedAt time.Time `gorm:"column:reserved_at;default:now()"`
}

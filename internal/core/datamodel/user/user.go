package user

import "time"

const (
	RoleUser      = "user"
	RoleAdmin     = "admin"
	RoleSuspended = "suspended"
)

type User struct {
	ID           int64      `gorm:"primaryKey"`
	Email        string     `gorm:"column:email;uniqueIndex;not null"`
	Name         string     `gorm:"column:name;not null"`
	PasswordHash string     `gorm:"column:password_hash;not null"`
	IsAdmin      bool       `gorm:"column:is_admin;default:false"`
	Role         string     `gorm:"column:role;default:user"`
	SuspendedAt  *time.Time `gorm:"column:suspended_at"`
	CreatedAt    time.Time  `gorm:"column:created_at;default:now()"`
	UpdatedAt    time.Time  `gorm:"column:updated_at;default:now()"`
}

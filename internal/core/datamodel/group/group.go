package group

import "time"

const (
	MemberRoleMember = "member"
	MemberRoleAdmin  = "admin"
)

type Group struct {
	ID          int64     `gorm:"primaryKey"`
	OwnerID     int64     `gorm:"column:owner_id;not null;index"`
	Name        string    `gorm:"column:name;not null"`
	Description string    `gorm:"column:description"`
	CreatedAt   time.Time `gorm:"column:created_at;default:now()"`
	UpdatedAt   time.Time `gorm:"column:updated_at;default:now()"`
}

type UserGroup struct {
	UserID   int64     `gorm:"column:user_id;primaryKey"`
	GroupID  int64     `gorm:"column:group_id;primaryKey"`
	Role     string    `gorm:"column:role;default:member"`
	JoinedAt time.Time `gorm:"column:joined_at;default:now()"`
}

package list

import "time"

const (
	VisibilityPrivate  = "private"
	VisibilityPublic   = "public"
	VisibilityPassword = "password"
)

type List struct {
	ID           int64     `gorm:"primaryKey"`
	OwnerID      int64     `gorm:"column:owner_id;not null;index"`
	Title        string    `gorm:"column:title;not null"`
	Slug         string    `gorm:"column:slug;uniqueIndex;not null"`
	Description  string    `gorm:"column:description"`
	Visibility   string    `gorm:"column:visibility;default:private"`
	PasswordHash *string   `gorm:"column:password_hash"`
	CreatedAt    time.Time `gorm:"column:created_at;default:now()"`
	UpdatedAt    time.Time `gorm:"column:updated_at;default:now()"`
}

// ListAdmin is a co-manager grant. The composite primary key makes
// concurrent duplicate grants collapse into a single row.
type ListAdmin struct {
	ListID  int64     `gorm:"column:list_id;primaryKey"`
	UserID  int64     `gorm:"column:user_id;primaryKey"`
	AddedBy int64     `gorm:"column:added_by;not null"`
	AddedAt time.Time `gorm:"column:added_at;default:now()"`
}

type ListGroup struct {
	ListID    int64     `gorm:"column:list_id;primaryKey"`
	GroupID   int64     `gorm:"column:group_id;primaryKey"`
	SharedBy  int64     `gorm:"column:shared_by;not null"`
	CreatedAt time.Time `gorm:"column:created_at;default:now()"`
}

type ListWish struct {
	ListID  int64     `gorm:"column:list_id;primaryKey"`
	WishID  int64     `gorm:"column:wish_id;primaryKey"`
	AddedAt time.Time `gorm:"column:added_at;default:now()"`
}

type ListInvitation struct {
	ID        int64     `gorm:"primaryKey"`
	ListID    int64     `gorm:"column:list_id;not null;index"`
	Email     string    `gorm:"column:email;not null"`
	Token     string    `gorm:"column:token;uniqueIndex;not null"`
	InvitedBy int64     `gorm:"column:invited_by;not null"`
	CreatedAt time.Time `gorm:"column:created_at;default:now()"`
	UpdatedAt time.Time `gorm:"column:updated_at;default:now()"`
}

package user

import (
	"time"

	userDatamodel "github.com/frahmantamala/wishlist-management/internal/core/datamodel/user"
)

// User is the domain view of an account. PasswordHash never leaves the
// service layer.
type User struct {
	ID           int64      `json:"id"`
	Email        string     `json:"email"`
	Name         string     `json:"name"`
	PasswordHash string     `json:"-"`
	IsAdmin      bool       `json:"is_admin"`
	Role         string     `json:"role"`
	SuspendedAt  *time.Time `json:"suspended_at,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// Suspended reports whether the account is locked out.
func (u *User) Suspended() bool {
	return u.SuspendedAt != nil || u.Role == userDatamodel.RoleSuspended
}

// Privileged reports whether the account bypasses ownership checks.
func (u *User) Privileged() bool {
	return u.IsAdmin || u.Role == userDatamodel.RoleAdmin
}

func ToDataModel(u *User) *userDatamodel.User {
	return &userDatamodel.User{
		ID:           u.ID,
		Email:        u.Email,
		Name:         u.Name,
		PasswordHash: u.PasswordHash,
		IsAdmin:      u.IsAdmin,
		Role:         u.Role,
		SuspendedAt:  u.SuspendedAt,
		CreatedAt:    u.CreatedAt,
		UpdatedAt:    u.UpdatedAt,
	}
}

func FromDataModel(u *userDatamodel.User) *User {
	return &User{
		ID:           u.ID,
		Email:        u.Email,
		Name:         u.Name,
		PasswordHash: u.PasswordHash,
		IsAdmin:      u.IsAdmin,
		Role:         u.Role,
		SuspendedAt:  u.SuspendedAt,
		CreatedAt:    u.CreatedAt,
		UpdatedAt:    u.UpdatedAt,
	}
}

package group

import (
	"time"

	groupDatamodel "github.com/frahmantamala/wishlist-management/internal/core/datamodel/group"
)

const (
	MemberRoleMember = groupDatamodel.MemberRoleMember
	MemberRoleAdmin  = groupDatamodel.MemberRoleAdmin
)

type Group struct {
	ID          int64     `json:"id"`
	OwnerID     int64     `json:"owner_id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Member is one entry on a group's roster.
type Member struct {
	UserID   int64     `json:"user_id"`
	Email    string    `json:"email"`
	Name     string    `json:"name"`
	Role     string    `json:"role"`
	JoinedAt time.Time `json:"joined_at"`
}

func ToDataModel(g *Group) *groupDatamodel.Group {
	return &groupDatamodel.Group{
		ID:          g.ID,
		OwnerID:     g.OwnerID,
		Name:        g.Name,
		Description: g.Description,
		CreatedAt:   g.CreatedAt,
		UpdatedAt:   g.UpdatedAt,
	}
}

func FromDataModel(dm *groupDatamodel.Group) *Group {
	return &Group{
		ID:          dm.ID,
		OwnerID:     dm.OwnerID,
		Name:        dm.Name,
		Description: dm.Description,
		CreatedAt:   dm.CreatedAt,
		UpdatedAt:   dm.UpdatedAt,
	}
}

func FromDataModelSlice(dms []*groupDatamodel.Group) []*Group {
	groups := make([]*Group, 0, len(dms))
	for _, dm := range dms {
		groups = append(groups, FromDataModel(dm))
	}
	return groups
}

package postgres

import (
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	groupDatamodel "github.com/frahmantamala/wishlist-management/internal/core/datamodel/group"
	listDatamodel "github.com/frahmantamala/wishlist-management/internal/core/datamodel/list"
	userDatamodel "github.com/frahmantamala/wishlist-management/internal/core/datamodel/user"
	"github.com/frahmantamala/wishlist-management/internal/group"
)

type GroupRepository struct {
	db *gorm.DB
}

func NewGroupRepository(db *gorm.DB) group.Repository {
	return &GroupRepository{db: db}
}

// Create writes the group and the owner's admin membership in one
// transaction so a group never exists without its owner on the roster.
func (r *GroupRepository) Create(g *group.Group) error {
	dm := group.ToDataModel(g)
	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(dm).Error; err != nil {
			return err
		}
		membership := groupDatamodel.UserGroup{
			UserID:  g.OwnerID,
			GroupID: dm.ID,
			Role:    groupDatamodel.MemberRoleAdmin,
		}
		return tx.Create(&membership).Error
	})
	if err != nil {
		return err
	}
	g.ID = dm.ID
	g.CreatedAt = dm.CreatedAt
	g.UpdatedAt = dm.UpdatedAt
	return nil
}

func (r *GroupRepository) GetByID(id int64) (*group.Group, error) {
	var dm groupDatamodel.Group
	err := r.db.Where("id = ?", id).First(&dm).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return group.FromDataModel(&dm), nil
}

// Delete removes the group, its roster and any list shares pointing at
// it. Shared lists themselves are untouched.
func (r *GroupRepository) Delete(id int64) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("group_id = ?", id).Delete(&groupDatamodel.UserGroup{}).Error; err != nil {
			return err
		}
		if err := tx.Where("group_id = ?", id).Delete(&listDatamodel.ListGroup{}).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", id).Delete(&groupDatamodel.Group{}).Error
	})
}

func (r *GroupRepository) ListForUser(userID int64) ([]*group.Group, error) {
	var dms []*groupDatamodel.Group
	err := r.db.Model(&groupDatamodel.Group{}).
		Joins("LEFT JOIN user_groups ON user_groups.group_id = groups.id AND user_groups.user_id = ?", userID).
		Where("groups.owner_id = ? OR user_groups.user_id IS NOT NULL", userID).
		Order("groups.created_at DESC").
		Find(&dms).Error
	if err != nil {
		return nil, err
	}
	return group.FromDataModelSlice(dms), nil
}

func (r *GroupRepository) ListMembers(groupID int64) ([]group.Member, error) {
	var members []group.Member
	err := r.db.Model(&groupDatamodel.UserGroup{}).
		Select("user_groups.user_id", "users.email", "users.name", "user_groups.role", "user_groups.joined_at").
		Joins("JOIN users ON users.id = user_groups.user_id").
		Where("user_groups.group_id = ?", groupID).
		Order("user_groups.joined_at ASC").
		Scan(&members).Error
	if err != nil {
		return nil, err
	}
	return members, nil
}

// UpsertMember inserts the membership or, when the user is already on
// the roster, updates the role they hold.
func (r *GroupRepository) UpsertMember(groupID, userID int64, role string) error {
	membership := groupDatamodel.UserGroup{
		UserID:  userID,
		GroupID: groupID,
		Role:    role,
	}
	return r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "group_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"role"}),
	}).Create(&membership).Error
}

// RemoveMember deletes a membership. Of two concurrent removals exactly
// one sees an affected row.
func (r *GroupRepository) RemoveMember(groupID, userID int64) (bool, error) {
	res := r.db.Where("group_id = ? AND user_id = ?", groupID, userID).
		Delete(&groupDatamodel.UserGroup{})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *GroupRepository) UserExists(userID int64) (bool, error) {
	var row struct {
		ID int64
	}
	err := r.db.Model(&userDatamodel.User{}).
		Select("id").
		Where("id = ?", userID).
		Take(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

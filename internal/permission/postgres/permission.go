package postgres

import (
	"errors"

	groupDatamodel "github.com/frahmantamala/wishlist-management/internal/core/datamodel/group"
	listDatamodel "github.com/frahmantamala/wishlist-management/internal/core/datamodel/list"
	reservationDatamodel "github.com/frahmantamala/wishlist-management/internal/core/datamodel/reservation"
	userDatamodel "github.com/frahmantamala/wishlist-management/internal/core/datamodel/user"
	wishDatamodel "github.com/frahmantamala/wishlist-management/internal/core/datamodel/wish"
	"github.com/frahmantamala/wishlist-management/internal/permission"
	"gorm.io/gorm"
)

// PermissionRepository loads decision projections with GORM. Each
// getter selects only the columns the decision needs.
type PermissionRepository struct {
	db *gorm.DB
}

func NewPermissionRepository(db *gorm.DB) permission.Repository {
	return &PermissionRepository{db: db}
}

func (r *PermissionRepository) GetActor(userID int64) (*permission.Actor, error) {
	var actor permission.Actor
	err := r.db.Model(&userDatamodel.User{}).
		Select("id", "is_admin", "role", "suspended_at").
		Where("id = ?", userID).
		Take(&actor).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &actor, nil
}

func (r *PermissionRepository) GetListAccess(listID int64) (*permission.ListAccess, error) {
	var access permission.ListAccess
	err := r.db.Model(&listDatamodel.List{}).
		Select("id", "owner_id", "visibility").
		Where("id = ?", listID).
		Take(&access).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	err = r.db.Model(&listDatamodel.ListAdmin{}).
		Where("list_id = ?", listID).
		Pluck("user_id", &access.CoManagerIDs).Error
	if err != nil {
		return nil, err
	}
	return &access, nil
}

func (r *PermissionRepository) IsListSharedWithUser(listID, userID int64) (bool, error) {
	var count int64
	err := r.db.Model(&listDatamodel.ListGroup{}).
		Joins("JOIN user_groups ON user_groups.group_id = list_groups.group_id").
		Where("list_groups.list_id = ? AND user_groups.user_id = ?", listID, userID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *PermissionRepository) GetWishAccess(wishID int64) (*permission.WishAccess, error) {
	var access permission.WishAccess
	err := r.db.Model(&wishDatamodel.Wish{}).
		Select("id", "owner_id").
		Where("id = ?", wishID).
		Take(&access).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &access, nil
}

func (r *PermissionRepository) ListIDsForWish(wishID int64) ([]int64, error) {
	var listIDs []int64
	err := r.db.Model(&listDatamodel.ListWish{}).
		Where("wish_id = ?", wishID).
		Order("list_id ASC").
		Pluck("list_id", &listIDs).Error
	return listIDs, err
}

func (r *PermissionRepository) GetGroupAccess(groupID int64) (*permission.GroupAccess, error) {
	var access permission.GroupAccess
	err := r.db.Model(&groupDatamodel.Group{}).
		Select("id", "owner_id").
		Where("id = ?", groupID).
		Take(&access).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &access, nil
}

func (r *PermissionRepository) GetGroupMemberRole(groupID, userID int64) (string, bool, error) {
	var membership groupDatamodel.UserGroup
	err := r.db.Where("group_id = ? AND user_id = ?", groupID, userID).
		Take(&membership).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", false, nil
		}
		return "", false, err
	}
	return membership.Role, true, nil
}

func (r *PermissionRepository) GetReservationAccess(reservationID int64) (*permission.ReservationAccess, error) {
	var access permission.ReservationAccess
	err := r.db.Model(&reservationDatamodel.Reservation{}).
		Select("id", "wish_id", "user_id").
		Where("id = ?", reservationID).
		Take(&access).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &access, nil
}

package postgres

import (
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	listDatamodel "github.com/frahmantamala/wishlist-management/internal/core/datamodel/list"
	reservationDatamodel "github.com/frahmantamala/wishlist-management/internal/core/datamodel/reservation"
	"github.com/frahmantamala/wishlist-management/internal/list"
)

type ListRepository struct {
	db *gorm.DB
}

func NewListRepository(db *gorm.DB) list.Repository {
	return &ListRepository{db: db}
}

func (r *ListRepository) Create(l *list.List) error {
	dm := list.ToDataModel(l)
	if err := r.db.Create(dm).Error; err != nil {
		return err
	}
	l.ID = dm.ID
	l.CreatedAt = dm.CreatedAt
	l.UpdatedAt = dm.UpdatedAt
	return nil
}

func (r *ListRepository) GetByID(id int64) (*list.List, error) {
	var dm listDatamodel.List
	err := r.db.Where("id = ?", id).First(&dm).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return list.FromDataModel(&dm), nil
}

func (r *ListRepository) GetBySlug(slug string) (*list.List, error) {
	var dm listDatamodel.List
	err := r.db.Where("slug = ?", slug).First(&dm).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return list.FromDataModel(&dm), nil
}

func (r *ListRepository) GetPasswordHash(id int64) (string, error) {
	var row struct {
		PasswordHash *string
	}
	err := r.db.Model(&listDatamodel.List{}).
		Select("password_hash").
		Where("id = ?", id).
		Take(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", nil
		}
		return "", err
	}
	if row.PasswordHash == nil {
		return "", nil
	}
	return *row.PasswordHash, nil
}

func (r *ListRepository) Update(l *list.List) error {
	return r.db.Model(&listDatamodel.List{}).
		Where("id = ?", l.ID).
		Updates(map[string]interface{}{
			"title":         l.Title,
			"slug":          l.Slug,
			"description":   l.Description,
			"visibility":    l.Visibility,
			"password_hash": l.PasswordHash,
			"updated_at":    gorm.Expr("CURRENT_TIMESTAMP"),
		}).Error
}

// Delete removes the list with everything hanging off it: co-manager
// grants, group shares, standing invitations, wish links and the
// reservations on those wishes. The wish rows themselves survive, they
// belong to their owners.
func (r *ListRepository) Delete(id int64) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		wishIDs := tx.Model(&listDatamodel.ListWish{}).
			Select("wish_id").
			Where("list_id = ?", id)
		if err := tx.Where("wish_id IN (?)", wishIDs).
			Delete(&reservationDatamodel.Reservation{}).Error; err != nil {
			return err
		}
		if err := tx.Where("list_id = ?", id).Delete(&listDatamodel.ListWish{}).Error; err != nil {
			return err
		}
		if err := tx.Where("list_id = ?", id).Delete(&listDatamodel.ListAdmin{}).Error; err != nil {
			return err
		}
		if err := tx.Where("list_id = ?", id).Delete(&listDatamodel.ListGroup{}).Error; err != nil {
			return err
		}
		if err := tx.Where("list_id = ?", id).Delete(&listDatamodel.ListInvitation{}).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", id).Delete(&listDatamodel.List{}).Error
	})
}

func (r *ListRepository) ListForUser(userID int64) ([]*list.List, error) {
	var dms []*listDatamodel.List
	err := r.db.Model(&listDatamodel.List{}).
		Joins("LEFT JOIN list_admins ON list_admins.list_id = lists.id AND list_admins.user_id = ?", userID).
		Where("lists.owner_id = ? OR list_admins.user_id IS NOT NULL", userID).
		Order("lists.created_at DESC").
		Find(&dms).Error
	if err != nil {
		return nil, err
	}
	return list.FromDataModelSlice(dms), nil
}

func (r *ListRepository) ShareWithGroup(listID, groupID, sharedBy int64) (bool, error) {
	share := listDatamodel.ListGroup{
		ListID:   listID,
		GroupID:  groupID,
		SharedBy: sharedBy,
	}
	res := r.db.Clauses(clause.OnConflict{DoNothing: true}).Create(&share)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *ListRepository) UnshareGroup(listID, groupID int64) (bool, error) {
	res := r.db.Where("list_id = ? AND group_id = ?", listID, groupID).
		Delete(&listDatamodel.ListGroup{})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

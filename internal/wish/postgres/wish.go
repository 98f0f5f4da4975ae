package postgres

import (
	"errors"

	"gorm.io/gorm"

	listDatamodel "github.com/frahmantamala/wishlist-management/internal/core/datamodel/list"
	reservationDatamodel "github.com/frahmantamala/wishlist-management/internal/core/datamodel/reservation"
	wishDatamodel "github.com/frahmantamala/wishlist-management/internal/core/datamodel/wish"
	"github.com/frahmantamala/wishlist-management/internal/wish"
)

type WishRepository struct {
	db *gorm.DB
}

func NewWishRepository(db *gorm.DB) wish.Repository {
	return &WishRepository{db: db}
}

// CreateInList writes the wish and its list link in one transaction so
// a wish can never exist half-attached.
func (r *WishRepository) CreateInList(w *wish.Wish, listID int64) error {
	dm := wish.ToDataModel(w)
	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(dm).Error; err != nil {
			return err
		}
		link := listDatamodel.ListWish{ListID: listID, WishID: dm.ID}
		return tx.Create(&link).Error
	})
	if err != nil {
		return err
	}
	w.ID = dm.ID
	w.CreatedAt = dm.CreatedAt
	w.UpdatedAt = dm.UpdatedAt
	return nil
}

func (r *WishRepository) GetByID(id int64) (*wish.Wish, error) {
	var dm wishDatamodel.Wish
	err := r.db.Where("id = ?", id).First(&dm).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return wish.FromDataModel(&dm), nil
}

func (r *WishRepository) Update(w *wish.Wish) error {
	return r.db.Model(&wishDatamodel.Wish{}).
		Where("id = ?", w.ID).
		Updates(map[string]interface{}{
			"title":       w.Title,
			"description": w.Description,
			"url":         w.URL,
			"price_cents": w.PriceCents,
			"updated_at":  gorm.Expr("CURRENT_TIMESTAMP"),
		}).Error
}

// Delete removes the wish together with its reservation and every list
// link pointing at it.
func (r *WishRepository) Delete(id int64) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("wish_id = ?", id).Delete(&reservationDatamodel.Reservation{}).Error; err != nil {
			return err
		}
		if err := tx.Where("wish_id = ?", id).Delete(&listDatamodel.ListWish{}).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", id).Delete(&wishDatamodel.Wish{}).Error
	})
}

func (r *WishRepository) ListForList(listID int64) ([]*wish.Wish, error) {
	var dms []*wishDatamodel.Wish
	err := r.db.Model(&wishDatamodel.Wish{}).
		Joins("JOIN list_wishes ON list_wishes.wish_id = wishes.id").
		Where("list_wishes.list_id = ?", listID).
		Order("list_wishes.added_at ASC").
		Find(&dms).Error
	if err != nil {
		return nil, err
	}
	return wish.FromDataModelSlice(dms), nil
}

func (r *WishRepository) GetListPasswordHash(listID int64) (string, error) {
	var row struct {
		PasswordHash *string
	}
	err := r.db.Model(&listDatamodel.List{}).
		Select("password_hash").
		Where("id = ?", listID).
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

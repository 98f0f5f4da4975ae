package postgres

import (
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	reservationDatamodel "github.com/frahmantamala/wishlist-management/internal/core/datamodel/reservation"
	wishDatamodel "github.com/frahmantamala/wishlist-management/internal/core/datamodel/wish"
	"github.com/frahmantamala/wishlist-management/internal/reservation"
)

type ReservationRepository struct {
	db *gorm.DB
}

func NewReservationRepository(db *gorm.DB) reservation.Repository {
	return &ReservationRepository{db: db}
}

// Create claims the wish. The unique index on wish_id plus ON CONFLICT
// DO NOTHING means that of two concurrent claims exactly one inserts;
// the return value reports whether this call won.
func (r *ReservationRepository) Create(res *reservation.Reservation) (bool, error) {
	dm := reservation.ToDataModel(res)
	result := r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "wish_id"}},
		DoNothing: true,
	}).Create(dm)
	if result.Error != nil {
		return false, result.Error
	}
	if result.RowsAffected == 0 {
		return false, nil
	}
	res.ID = dm.ID
	res.ReservedAt = dm.ReservedAt
	return true, nil
}

func (r *ReservationRepository) GetByID(id int64) (*reservation.Reservation, error) {
	var dm reservationDatamodel.Reservation
	err := r.db.Where("id = ?", id).First(&dm).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return reservation.FromDataModel(&dm), nil
}

func (r *ReservationRepository) Delete(id int64) (bool, error) {
	res := r.db.Where("id = ?", id).Delete(&reservationDatamodel.Reservation{})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *ReservationRepository) ListForUser(userID int64) ([]*reservation.Reservation, error) {
	var dms []*reservationDatamodel.Reservation
	err := r.db.Where("user_id = ?", userID).
		Order("reserved_at DESC").
		Find(&dms).Error
	if err != nil {
		return nil, err
	}
	return reservation.FromDataModelSlice(dms), nil
}

func (r *ReservationRepository) GetWishOwner(wishID int64) (int64, error) {
	var row struct {
		OwnerID int64
	}
	err := r.db.Model(&wishDatamodel.Wish{}).
		Select("owner_id").
		Where("id = ?", wishID).
		Take(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, nil
		}
		return 0, err
	}
	return row.OwnerID, nil
}

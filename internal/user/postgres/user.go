package postgres

import (
	"errors"
	"time"

	"gorm.io/gorm"

	userDatamodel "github.com/frahmantamala/wishlist-management/internal/core/datamodel/user"
	"github.com/frahmantamala/wishlist-management/internal/user"
)

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) user.Repository {
	return &UserRepository{db: db}
}

func (r *UserRepository) GetByID(userID int64) (*user.User, error) {
	var dm userDatamodel.User
	err := r.db.Where("id = ?", userID).First(&dm).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return user.FromDataModel(&dm), nil
}

func (r *UserRepository) GetByEmail(email string) (*user.User, error) {
	var dm userDatamodel.User
	err := r.db.Where("LOWER(email) = LOWER(?)", email).First(&dm).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return user.FromDataModel(&dm), nil
}

func (r *UserRepository) Create(u *user.User) error {
	dm := user.ToDataModel(u)
	if err := r.db.Create(dm).Error; err != nil {
		return err
	}
	u.ID = dm.ID
	u.CreatedAt = dm.CreatedAt
	u.UpdatedAt = dm.UpdatedAt
	return nil
}

func (r *UserRepository) SetSuspension(userID int64, suspendedAt *time.Time, role string) error {
	return r.db.Model(&userDatamodel.User{}).
		Where("id = ?", userID).
		Updates(map[string]interface{}{
			"suspended_at": suspendedAt,
			"role":         role,
			"updated_at":   gorm.Expr("CURRENT_TIMESTAMP"),
		}).Error
}

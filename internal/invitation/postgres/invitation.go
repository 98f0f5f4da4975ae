package postgres

import (
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	listDatamodel "github.com/frahmantamala/wishlist-management/internal/core/datamodel/list"
	userDatamodel "github.com/frahmantamala/wishlist-management/internal/core/datamodel/user"
	"github.com/frahmantamala/wishlist-management/internal/invitation"
)

type InvitationRepository struct {
	db *gorm.DB
}

func NewInvitationRepository(db *gorm.DB) invitation.Repository {
	return &InvitationRepository{db: db}
}

func (r *InvitationRepository) FindAccountByEmail(email string) (*invitation.Account, error) {
	var acct invitation.Account
	err := r.db.Model(&userDatamodel.User{}).
		Select("id", "email").
		Where("LOWER(email) = LOWER(?)", email).
		Take(&acct).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &acct, nil
}

func (r *InvitationRepository) GetAccountEmail(userID int64) (string, error) {
	var row struct {
		Email string
	}
	err := r.db.Model(&userDatamodel.User{}).
		Select("email").
		Where("id = ?", userID).
		Take(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", nil
		}
		return "", err
	}
	return row.Email, nil
}

func (r *InvitationRepository) GetListOwner(listID int64) (int64, error) {
	var row struct {
		OwnerID int64
	}
	err := r.db.Model(&listDatamodel.List{}).
		Select("owner_id").
		Where("id = ?", listID).
		Take(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, nil
		}
		return 0, err
	}
	return row.OwnerID, nil
}

// AddCoManager inserts a grant. The composite primary key plus ON
// CONFLICT DO NOTHING makes concurrent duplicate grants collapse into a
// single row; the return value reports whether this call created it.
func (r *InvitationRepository) AddCoManager(listID, userID, addedBy int64) (bool, error) {
	grant := listDatamodel.ListAdmin{
		ListID:  listID,
		UserID:  userID,
		AddedBy: addedBy,
	}
	res := r.db.Clauses(clause.OnConflict{DoNothing: true}).Create(&grant)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// RemoveCoManager deletes a grant. Of two concurrent removals exactly
// one sees an affected row.
func (r *InvitationRepository) RemoveCoManager(listID, userID int64) (bool, error) {
	res := r.db.Where("list_id = ? AND user_id = ?", listID, userID).
		Delete(&listDatamodel.ListAdmin{})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *InvitationRepository) ListCoManagers(listID int64) ([]invitation.CoManager, error) {
	var coManagers []invitation.CoManager
	err := r.db.Model(&listDatamodel.ListAdmin{}).
		Select("list_admins.user_id", "users.email", "users.name", "list_admins.added_by", "list_admins.added_at").
		Joins("JOIN users ON users.id = list_admins.user_id").
		Where("list_admins.list_id = ?", listID).
		Order("list_admins.added_at ASC").
		Scan(&coManagers).Error
	if err != nil {
		return nil, err
	}
	return coManagers, nil
}

func (r *InvitationRepository) FindInvitation(listID int64, email string) (*invitation.Invitation, error) {
	var dm listDatamodel.ListInvitation
	err := r.db.Where("list_id = ? AND LOWER(email) = LOWER(?)", listID, email).First(&dm).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return toDomain(&dm), nil
}

func (r *InvitationRepository) CreateInvitation(inv *invitation.Invitation) error {
	dm := listDatamodel.ListInvitation{
		ListID:    inv.ListID,
		Email:     inv.Email,
		Token:     inv.Token,
		InvitedBy: inv.InvitedBy,
	}
	if err := r.db.Create(&dm).Error; err != nil {
		return err
	}
	inv.ID = dm.ID
	inv.CreatedAt = dm.CreatedAt
	return nil
}

func (r *InvitationRepository) GetInvitationByToken(token string) (*invitation.Invitation, error) {
	var dm listDatamodel.ListInvitation
	err := r.db.Where("token = ?", token).First(&dm).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return toDomain(&dm), nil
}

// AcceptInvitation converts the invitation into a grant and burns the
// invitation row in one transaction. An already existing grant is left
// alone.
func (r *InvitationRepository) AcceptInvitation(inv *invitation.Invitation, userID int64) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		grant := listDatamodel.ListAdmin{
			ListID:  inv.ListID,
			UserID:  userID,
			AddedBy: inv.InvitedBy,
		}
		if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&grant).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", inv.ID).Delete(&listDatamodel.ListInvitation{}).Error
	})
}

func toDomain(dm *listDatamodel.ListInvitation) *invitation.Invitation {
	return &invitation.Invitation{
		ID:        dm.ID,
		ListID:    dm.ListID,
		Email:     dm.Email,
		Token:     dm.Token,
		InvitedBy: dm.InvitedBy,
		CreatedAt: dm.CreatedAt,
	}
}

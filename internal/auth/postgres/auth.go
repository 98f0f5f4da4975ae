package postgres

import (
	"database/sql"
	"errors"

	"github.com/frahmantamala/wishlist-management/internal/auth"
	"gorm.io/gorm"
)

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{
		db: db,
	}
}

// GetAuthInfoByEmail loads the credential row for login. Suspended
// accounts are included on purpose; permission checks lock them out
// after authentication.
func (r *Repository) GetAuthInfoByEmail(email string) (*auth.AuthInfo, error) {
	var info auth.AuthInfo
	query := `SELECT id, email, name, password_hash FROM users WHERE LOWER(email) = LOWER(?)`

	row := r.db.Raw(query, email).Row()
	if err := row.Scan(&info.ID, &info.Email, &info.Name, &info.PasswordHash); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &info, nil
}

func (r *Repository) GetSessionUser(userID int64) (*auth.User, error) {
	var user auth.User
	query := `SELECT id, email, name, is_admin, role, suspended_at FROM users WHERE id = ?`

	row := r.db.Raw(query, userID).Row()
	if err := row.Scan(&user.ID, &user.Email, &user.Name, &user.IsAdmin, &user.Role, &user.SuspendedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

func (r *Repository) UpdatePasswordHash(userID int64, passwordHash string) error {
	return r.db.Exec(
		`UPDATE users SET password_hash = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`,
		passwordHash, userID,
	).Error
}

package user

import (
	"log/slog"
	"strings"
	"time"

	internal "github.com/frahmantamala/wishlist-management/internal"
	userDatamodel "github.com/frahmantamala/wishlist-management/internal/core/datamodel/user"
)

// Repository defines the data access methods for accounts.
type Repository interface {
	GetByID(userID int64) (*User, error)
	GetByEmail(email string) (*User, error)
	Create(u *User) error
	SetSuspension(userID int64, suspendedAt *time.Time, role string) error
}

// PasswordHasher hashes new passwords at the configured cost.
type PasswordHasher interface {
	Hash(password string) (string, error)
}

// Service handles account business logic.
type Service struct {
	repo   Repository
	hasher PasswordHasher
	logger *slog.Logger
}

func NewService(repo Repository, hasher PasswordHasher, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		hasher: hasher,
		logger: logger,
	}
}

// Register creates a new account with a freshly hashed password.
func (s *Service) Register(dto RegisterDTO) (*User, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	email := strings.ToLower(strings.TrimSpace(dto.Email))

	existing, err := s.repo.GetByEmail(email)
	if err != nil {
		s.logger.Error("failed to look up email", "error", err)
		return nil, err
	}
	if existing != nil {
		return nil, internal.NewConflictError("Email is already registered", internal.ErrCodeEmailTaken)
	}

	hash, err := s.hasher.Hash(dto.Password)
	if err != nil {
		s.logger.Error("failed to hash password", "error", err)
		return nil, err
	}

	u := &User{
		Email:        email,
		Name:         strings.TrimSpace(dto.Name),
		PasswordHash: hash,
		Role:         userDatamodel.RoleUser,
	}
	if err := s.repo.Create(u); err != nil {
		s.logger.Error("failed to create user", "error", err, "email", email)
		return nil, err
	}

	s.logger.Info("user registered", "user_id", u.ID, "email", u.Email)
	return u, nil
}

// GetByID returns one account or a not-found error.
func (s *Service) GetByID(userID int64) (*User, error) {
	u, err := s.repo.GetByID(userID)
	if err != nil {
		s.logger.Error("failed to get user", "error", err, "user_id", userID)
		return nil, err
	}
	if u == nil {
		return nil, internal.NewNotFoundError("User not found", internal.ErrCodeUserNotFound)
	}
	return u, nil
}

// Suspend locks an account out. Only privileged requesters may do this,
// and they cannot lock themselves out.
func (s *Service) Suspend(requesterID, targetID int64) error {
	target, err := s.requirePrivileged(requesterID, targetID)
	if err != nil {
		return err
	}
	if requesterID == targetID {
		return internal.NewValidationError("Cannot suspend your own account", internal.ErrCodeValidationFailed)
	}

	if target.Suspended() {
		return nil
	}

	now := time.Now()
	if err := s.repo.SetSuspension(targetID, &now, userDatamodel.RoleSuspended); err != nil {
		s.logger.Error("failed to suspend user", "error", err, "user_id", targetID)
		return err
	}

	s.logger.Info("user suspended", "user_id", targetID, "requester_id", requesterID)
	return nil
}

// Unsuspend reopens a suspended account. The role falls back to the
// regular one; a prior admin keeps privilege through the is_admin flag.
func (s *Service) Unsuspend(requesterID, targetID int64) error {
	target, err := s.requirePrivileged(requesterID, targetID)
	if err != nil {
		return err
	}

	if !target.Suspended() {
		return nil
	}

	role := target.Role
	if role == userDatamodel.RoleSuspended {
		role = userDatamodel.RoleUser
	}
	if err := s.repo.SetSuspension(targetID, nil, role); err != nil {
		s.logger.Error("failed to unsuspend user", "error", err, "user_id", targetID)
		return err
	}

	s.logger.Info("user unsuspended", "user_id", targetID, "requester_id", requesterID)
	return nil
}

// requirePrivileged loads both sides of a moderation call and checks
// that the requester holds global privilege.
func (s *Service) requirePrivileged(requesterID, targetID int64) (*User, error) {
	requester, err := s.repo.GetByID(requesterID)
	if err != nil {
		s.logger.Error("failed to load requester", "error", err, "user_id", requesterID)
		return nil, err
	}
	if requester == nil || !requester.Privileged() {
		return nil, internal.NewForbiddenError("Insufficient permissions", internal.ErrCodeInsufficientPermissions)
	}

	target, err := s.repo.GetByID(targetID)
	if err != nil {
		s.logger.Error("failed to load target user", "error", err, "user_id", targetID)
		return nil, err
	}
	if target == nil {
		return nil, internal.NewNotFoundError("User not found", internal.ErrCodeUserNotFound)
	}
	return target, nil
}

package wish

import (
	"log/slog"
	"strings"

	"github.com/frahmantamala/wishlist-management/internal"
	"github.com/frahmantamala/wishlist-management/internal/permission"
)

// Repository defines the data access methods for wishes. Lookups return
// nil for absent rows; errors are reserved for infrastructure failure.
type Repository interface {
	CreateInList(w *Wish, listID int64) error
	GetByID(id int64) (*Wish, error)
	Update(w *Wish) error
	Delete(id int64) error
	ListForList(listID int64) ([]*Wish, error)
	GetListPasswordHash(listID int64) (string, error)
}

type PermissionService interface {
	Require(actorID int64, action permission.Action, resource permission.Resource) error
}

type PasswordHasher interface {
	Verify(hash, password string) error
}

type Service struct {
	repo        Repository
	permissions PermissionService
	hasher      PasswordHasher
	logger      *slog.Logger
}

func NewService(repo Repository, permissions PermissionService, hasher PasswordHasher, logger *slog.Logger) *Service {
	return &Service{
		repo:        repo,
		permissions: permissions,
		hasher:      hasher,
		logger:      logger,
	}
}

// CreateWish adds a wish to a list. Anyone with edit rights on the list
// may add one; the wish belongs to whoever created it.
func (s *Service) CreateWish(listID int64, dto CreateWishDTO, actorID int64) (*Wish, error) {
	if err := dto.Validate(); err != nil {
		s.logger.Error("wish validation failed", "error", err, "list_id", listID)
		return nil, err
	}

	if err := s.permissions.Require(actorID, permission.ActionEdit, permission.ListRef{ID: listID}); err != nil {
		return nil, err
	}

	w := &Wish{
		OwnerID:     actorID,
		Title:       strings.TrimSpace(dto.Title),
		Description: dto.Description,
		URL:         dto.URL,
		PriceCents:  dto.PriceCents,
	}

	if err := s.repo.CreateInList(w, listID); err != nil {
		s.logger.Error("failed to create wish", "error", err, "list_id", listID, "actor_id", actorID)
		return nil, err
	}

	s.logger.Info("wish created", "wish_id", w.ID, "list_id", listID, "owner_id", actorID)

	return w, nil
}

func (s *Service) GetWish(wishID, actorID int64) (*Wish, error) {
	if err := s.permissions.Require(actorID, permission.ActionView, permission.WishRef{ID: wishID}); err != nil {
		return nil, err
	}

	w, err := s.repo.GetByID(wishID)
	if err != nil {
		s.logger.Error("failed to get wish", "error", err, "wish_id", wishID)
		return nil, err
	}
	if w == nil {
		return nil, internal.NewNotFoundError("Wish not found", internal.ErrCodeWishNotFound)
	}
	return w, nil
}

func (s *Service) UpdateWish(wishID int64, dto UpdateWishDTO, actorID int64) (*Wish, error) {
	if err := dto.Validate(); err != nil {
		s.logger.Error("wish validation failed", "error", err, "wish_id", wishID)
		return nil, err
	}

	if err := s.permissions.Require(actorID, permission.ActionEdit, permission.WishRef{ID: wishID}); err != nil {
		return nil, err
	}

	w, err := s.repo.GetByID(wishID)
	if err != nil {
		s.logger.Error("failed to get wish", "error", err, "wish_id", wishID)
		return nil, err
	}
	if w == nil {
		return nil, internal.NewNotFoundError("Wish not found", internal.ErrCodeWishNotFound)
	}

	if dto.Title != nil {
		w.Title = strings.TrimSpace(*dto.Title)
	}
	if dto.Description != nil {
		w.Description = *dto.Description
	}
	if dto.URL != nil {
		w.URL = dto.URL
	}
	if dto.PriceCents != nil {
		w.PriceCents = dto.PriceCents
	}

	if err := s.repo.Update(w); err != nil {
		s.logger.Error("failed to update wish", "error", err, "wish_id", wishID)
		return nil, err
	}

	s.logger.Info("wish updated", "wish_id", wishID, "actor_id", actorID)

	return w, nil
}

func (s *Service) DeleteWish(wishID, actorID int64) error {
	if err := s.permissions.Require(actorID, permission.ActionDelete, permission.WishRef{ID: wishID}); err != nil {
		return err
	}

	if err := s.repo.Delete(wishID); err != nil {
		s.logger.Error("failed to delete wish", "error", err, "wish_id", wishID)
		return err
	}

	s.logger.Info("wish deleted", "wish_id", wishID, "actor_id", actorID)

	return nil
}

// ListWishes returns the wishes of a list the actor may view. The
// password unlock works exactly as on the list itself.
func (s *Service) ListWishes(listID, actorID int64, password string) ([]*Wish, error) {
	verified := false
	if password != "" {
		hash, err := s.repo.GetListPasswordHash(listID)
		if err != nil {
			s.logger.Error("password hash lookup failed", "error", err, "list_id", listID)
			return nil, err
		}
		if hash != "" {
			verified = s.hasher.Verify(hash, password) == nil
		}
	}

	ref := permission.ListRef{ID: listID, PasswordVerified: verified}
	if err := s.permissions.Require(actorID, permission.ActionView, ref); err != nil {
		return nil, err
	}

	wishes, err := s.repo.ListForList(listID)
	if err != nil {
		s.logger.Error("failed to list wishes", "error", err, "list_id", listID)
		return nil, err
	}
	return wishes, nil
}

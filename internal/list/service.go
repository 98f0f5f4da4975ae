package list

import (
	"context"
	"log/slog"
	"strings"

	"github.com/frahmantamala/wishlist-management/internal"
	"github.com/frahmantamala/wishlist-management/internal/core/events"
	"github.com/frahmantamala/wishlist-management/internal/permission"
)

// Repository defines the data access methods for lists. Lookups return
// nil for absent rows; errors are reserved for infrastructure failure.
type Repository interface {
	Create(l *List) error
	GetByID(id int64) (*List, error)
	GetBySlug(slug string) (*List, error)
	GetPasswordHash(id int64) (string, error)
	Update(l *List) error
	Delete(id int64) error
	ListForUser(userID int64) ([]*List, error)
	ShareWithGroup(listID, groupID, sharedBy int64) (bool, error)
	UnshareGroup(listID, groupID int64) (bool, error)
}

// PermissionService is the decision core gate every list operation
// passes through.
type PermissionService interface {
	Require(actorID int64, action permission.Action, resource permission.Resource) error
}

type PasswordHasher interface {
	Hash(password string) (string, error)
	Verify(hash, password string) error
}

type Service struct {
	repo        Repository
	permissions PermissionService
	hasher      PasswordHasher
	eventBus    *events.EventBus
	logger      *slog.Logger
}

func NewService(repo Repository, permissions PermissionService, hasher PasswordHasher, eventBus *events.EventBus, logger *slog.Logger) *Service {
	return &Service{
		repo:        repo,
		permissions: permissions,
		hasher:      hasher,
		eventBus:    eventBus,
		logger:      logger,
	}
}

func (s *Service) CreateList(dto CreateListDTO, ownerID int64) (*List, error) {
	if err := dto.Validate(); err != nil {
		s.logger.Error("list validation failed", "error", err, "owner_id", ownerID)
		return nil, err
	}

	visibility := dto.Visibility
	if visibility == "" {
		visibility = VisibilityPrivate
	}

	slug := strings.TrimSpace(dto.Slug)
	if slug == "" {
		slug = Slugify(dto.Title)
	}
	if slug == "" {
		return nil, internal.NewValidationError("title must contain at least one letter or digit", internal.ErrCodeValidationFailed)
	}

	existing, err := s.repo.GetBySlug(slug)
	if err != nil {
		s.logger.Error("slug lookup failed", "error", err, "slug", slug)
		return nil, err
	}
	if existing != nil {
		return nil, internal.NewConflictError("Slug is already taken", internal.ErrCodeSlugTaken)
	}

	l := &List{
		OwnerID:     ownerID,
		Title:       strings.TrimSpace(dto.Title),
		Slug:        slug,
		Description: dto.Description,
		Visibility:  visibility,
	}
	if visibility == VisibilityPassword {
		hash, err := s.hasher.Hash(dto.Password)
		if err != nil {
			s.logger.Error("failed to hash list password", "error", err)
			return nil, internal.NewInternalError("failed to hash list password", err)
		}
		l.PasswordHash = &hash
	}

	if err := s.repo.Create(l); err != nil {
		s.logger.Error("failed to create list", "error", err, "owner_id", ownerID)
		return nil, err
	}

	s.eventBus.Publish(context.Background(), events.NewListEvent(events.EventTypeListCreated, l.ID, ownerID))

	s.logger.Info("list created",
		"list_id", l.ID,
		"owner_id", ownerID,
		"slug", l.Slug,
		"visibility", visibility)

	return l, nil
}

// GetList loads a list for an actor. A caller-supplied password is
// checked against the stored hash first so the decision core sees the
// outcome in ListRef.PasswordVerified; the check never reveals whether
// the list exists.
func (s *Service) GetList(listID, actorID int64, password string) (*List, error) {
	verified := false
	if password != "" {
		hash, err := s.repo.GetPasswordHash(listID)
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

	l, err := s.repo.GetByID(listID)
	if err != nil {
		s.logger.Error("failed to get list", "error", err, "list_id", listID)
		return nil, err
	}
	if l == nil {
		return nil, internal.NewNotFoundError("List not found", internal.ErrCodeListNotFound)
	}
	return l, nil
}

func (s *Service) UpdateList(listID int64, dto UpdateListDTO, actorID int64) (*List, error) {
	if err := dto.Validate(); err != nil {
		s.logger.Error("list validation failed", "error", err, "list_id", listID)
		return nil, err
	}

	if err := s.permissions.Require(actorID, permission.ActionEdit, permission.ListRef{ID: listID}); err != nil {
		return nil, err
	}

	l, err := s.repo.GetByID(listID)
	if err != nil {
		s.logger.Error("failed to get list", "error", err, "list_id", listID)
		return nil, err
	}
	if l == nil {
		return nil, internal.NewNotFoundError("List not found", internal.ErrCodeListNotFound)
	}

	if dto.Title != nil {
		l.Title = strings.TrimSpace(*dto.Title)
	}
	if dto.Slug != nil && *dto.Slug != l.Slug {
		existing, err := s.repo.GetBySlug(*dto.Slug)
		if err != nil {
			s.logger.Error("slug lookup failed", "error", err, "slug", *dto.Slug)
			return nil, err
		}
		if existing != nil {
			return nil, internal.NewConflictError("Slug is already taken", internal.ErrCodeSlugTaken)
		}
		l.Slug = *dto.Slug
	}
	if dto.Description != nil {
		l.Description = *dto.Description
	}

	visibility := l.Visibility
	if dto.Visibility != nil {
		visibility = *dto.Visibility
	}
	if visibility == VisibilityPassword {
		if dto.Password != nil {
			hash, err := s.hasher.Hash(*dto.Password)
			if err != nil {
				s.logger.Error("failed to hash list password", "error", err, "list_id", listID)
				return nil, internal.NewInternalError("failed to hash list password", err)
			}
			l.PasswordHash = &hash
		} else if l.PasswordHash == nil {
			return nil, internal.NewValidationError("password is required for password-protected lists", internal.ErrCodeValidationFailed)
		}
	} else {
		if dto.Password != nil {
			return nil, internal.NewValidationError("password can only be set on password-protected lists", internal.ErrCodeValidationFailed)
		}
		// leaving password visibility drops the stored hash
		l.PasswordHash = nil
	}
	l.Visibility = visibility

	if err := s.repo.Update(l); err != nil {
		s.logger.Error("failed to update list", "error", err, "list_id", listID)
		return nil, err
	}

	s.eventBus.Publish(context.Background(), events.NewListEvent(events.EventTypeListUpdated, listID, actorID))

	s.logger.Info("list updated", "list_id", listID, "actor_id", actorID, "visibility", l.Visibility)

	return l, nil
}

func (s *Service) DeleteList(listID, actorID int64) error {
	if err := s.permissions.Require(actorID, permission.ActionDelete, permission.ListRef{ID: listID}); err != nil {
		return err
	}

	if err := s.repo.Delete(listID); err != nil {
		s.logger.Error("failed to delete list", "error", err, "list_id", listID)
		return err
	}

	s.eventBus.Publish(context.Background(), events.NewListEvent(events.EventTypeListDeleted, listID, actorID))

	s.logger.Info("list deleted", "list_id", listID, "actor_id", actorID)

	return nil
}

func (s *Service) ListMyLists(actorID int64) ([]*List, error) {
	lists, err := s.repo.ListForUser(actorID)
	if err != nil {
		s.logger.Error("failed to list lists", "error", err, "actor_id", actorID)
		return nil, err
	}
	return lists, nil
}

// ShareWithGroup exposes the list to every member of the group. The
// actor needs share rights on the list and must be able to see the
// group they are sharing into.
func (s *Service) ShareWithGroup(listID, groupID, actorID int64) error {
	if err := s.permissions.Require(actorID, permission.ActionShare, permission.ListRef{ID: listID}); err != nil {
		return err
	}
	if err := s.permissions.Require(actorID, permission.ActionView, permission.GroupRef{ID: groupID}); err != nil {
		return err
	}

	added, err := s.repo.ShareWithGroup(listID, groupID, actorID)
	if err != nil {
		s.logger.Error("failed to share list", "error", err, "list_id", listID, "group_id", groupID)
		return err
	}
	if added {
		s.eventBus.Publish(context.Background(), events.NewListSharedEvent(events.EventTypeListShared, listID, groupID, actorID))
		s.logger.Info("list shared", "list_id", listID, "group_id", groupID, "actor_id", actorID)
	}
	return nil
}

func (s *Service) UnshareGroup(listID, groupID, actorID int64) error {
	if err := s.permissions.Require(actorID, permission.ActionShare, permission.ListRef{ID: listID}); err != nil {
		return err
	}

	removed, err := s.repo.UnshareGroup(listID, groupID)
	if err != nil {
		s.logger.Error("failed to unshare list", "error", err, "list_id", listID, "group_id", groupID)
		return err
	}
	if !removed {
		return internal.NewNotFoundError("List is not shared with this group", internal.ErrCodeShareNotFound)
	}

	s.eventBus.Publish(context.Background(), events.NewListSharedEvent(events.EventTypeListUnshared, listID, groupID, actorID))

	s.logger.Info("list unshared", "list_id", listID, "group_id", groupID, "actor_id", actorID)

	return nil
}

package group

import (
	"log/slog"
	"strings"

	"github.com/frahmantamala/wishlist-management/internal"
	"github.com/frahmantamala/wishlist-management/internal/permission"
)

// Repository defines the data access methods for groups. Lookups return
// nil (or false) for absent rows; errors are reserved for infrastructure
// failure.
type Repository interface {
	Create(g *Group) error
	GetByID(id int64) (*Group, error)
	Delete(id int64) error
	ListForUser(userID int64) ([]*Group, error)
	ListMembers(groupID int64) ([]Member, error)
	UpsertMember(groupID, userID int64, role string) error
	RemoveMember(groupID, userID int64) (bool, error)
	UserExists(userID int64) (bool, error)
}

type PermissionService interface {
	Require(actorID int64, action permission.Action, resource permission.Resource) error
}

type Service struct {
	repo        Repository
	permissions PermissionService
	logger      *slog.Logger
}

func NewService(repo Repository, permissions PermissionService, logger *slog.Logger) *Service {
	return &Service{
		repo:        repo,
		permissions: permissions,
		logger:      logger,
	}
}

// CreateGroup creates a group owned by the actor, who joins it as an
// admin member in the same write.
func (s *Service) CreateGroup(dto CreateGroupDTO, actorID int64) (*Group, error) {
	if err := dto.Validate(); err != nil {
		s.logger.Error("group validation failed", "error", err, "actor_id", actorID)
		return nil, err
	}

	g := &Group{
		OwnerID:     actorID,
		Name:        strings.TrimSpace(dto.Name),
		Description: dto.Description,
	}

	if err := s.repo.Create(g); err != nil {
		s.logger.Error("failed to create group", "error", err, "actor_id", actorID)
		return nil, err
	}

	s.logger.Info("group created", "group_id", g.ID, "owner_id", actorID)

	return g, nil
}

func (s *Service) GetGroup(groupID, actorID int64) (*Group, error) {
	if err := s.permissions.Require(actorID, permission.ActionView, permission.GroupRef{ID: groupID}); err != nil {
		return nil, err
	}

	g, err := s.repo.GetByID(groupID)
	if err != nil {
		s.logger.Error("failed to get group", "error", err, "group_id", groupID)
		return nil, err
	}
	if g == nil {
		return nil, internal.NewNotFoundError("Group not found", internal.ErrCodeGroupNotFound)
	}
	return g, nil
}

// ListMyGroups returns the groups the actor belongs to.
func (s *Service) ListMyGroups(actorID int64) ([]*Group, error) {
	groups, err := s.repo.ListForUser(actorID)
	if err != nil {
		s.logger.Error("failed to list groups", "error", err, "actor_id", actorID)
		return nil, err
	}
	return groups, nil
}

func (s *Service) DeleteGroup(groupID, actorID int64) error {
	if err := s.permissions.Require(actorID, permission.ActionDelete, permission.GroupRef{ID: groupID}); err != nil {
		return err
	}

	if err := s.repo.Delete(groupID); err != nil {
		s.logger.Error("failed to delete group", "error", err, "group_id", groupID)
		return err
	}

	s.logger.Info("group deleted", "group_id", groupID, "actor_id", actorID)

	return nil
}

// ListMembers returns the roster. Any member may see who else is in the
// group.
func (s *Service) ListMembers(groupID, actorID int64) ([]Member, error) {
	if err := s.permissions.Require(actorID, permission.ActionView, permission.GroupRef{ID: groupID}); err != nil {
		return nil, err
	}
	return s.repo.ListMembers(groupID)
}

// AddMember puts a user on the roster, or changes the role of someone
// already on it.
func (s *Service) AddMember(groupID int64, dto AddMemberDTO, actorID int64) error {
	if err := dto.Validate(); err != nil {
		s.logger.Error("member validation failed", "error", err, "group_id", groupID)
		return err
	}

	if err := s.permissions.Require(actorID, permission.ActionAdmin, permission.GroupRef{ID: groupID}); err != nil {
		return err
	}

	g, err := s.repo.GetByID(groupID)
	if err != nil {
		s.logger.Error("failed to get group", "error", err, "group_id", groupID)
		return err
	}
	if g == nil {
		return internal.NewNotFoundError("Group not found", internal.ErrCodeGroupNotFound)
	}
	if dto.UserID == g.OwnerID {
		return internal.NewValidationError("Cannot change the role of the group owner", internal.ErrCodeValidationFailed)
	}

	exists, err := s.repo.UserExists(dto.UserID)
	if err != nil {
		s.logger.Error("failed to look up user", "error", err, "user_id", dto.UserID)
		return err
	}
	if !exists {
		return internal.NewNotFoundError("User not found", internal.ErrCodeUserNotFound)
	}

	role := dto.Role
	if role == "" {
		role = MemberRoleMember
	}

	if err := s.repo.UpsertMember(groupID, dto.UserID, role); err != nil {
		s.logger.Error("failed to add member", "error", err, "group_id", groupID, "user_id", dto.UserID)
		return err
	}

	s.logger.Info("member added", "group_id", groupID, "user_id", dto.UserID, "role", role, "added_by", actorID)

	return nil
}

// RemoveMember takes a user off the roster. Admins remove anyone;
// plain members may only remove themselves. The owner stays.
func (s *Service) RemoveMember(groupID, targetUserID, actorID int64) error {
	if targetUserID == actorID {
		if err := s.permissions.Require(actorID, permission.ActionView, permission.GroupRef{ID: groupID}); err != nil {
			return err
		}
	} else {
		if err := s.permissions.Require(actorID, permission.ActionAdmin, permission.GroupRef{ID: groupID}); err != nil {
			return err
		}
	}

	g, err := s.repo.GetByID(groupID)
	if err != nil {
		s.logger.Error("failed to get group", "error", err, "group_id", groupID)
		return err
	}
	if g == nil {
		return internal.NewNotFoundError("Group not found", internal.ErrCodeGroupNotFound)
	}
	if targetUserID == g.OwnerID {
		if targetUserID == actorID {
			return internal.NewValidationError("Cannot leave a group you own", internal.ErrCodeOwnerSelfRemove)
		}
		return internal.NewValidationError("Cannot remove the group owner", internal.ErrCodeValidationFailed)
	}

	removed, err := s.repo.RemoveMember(groupID, targetUserID)
	if err != nil {
		s.logger.Error("failed to remove member", "error", err, "group_id", groupID, "user_id", targetUserID)
		return err
	}
	if !removed {
		return internal.NewNotFoundError("User is not a member of this group", internal.ErrCodeMemberNotFound)
	}

	s.logger.Info("member removed", "group_id", groupID, "user_id", targetUserID, "removed_by", actorID)

	return nil
}

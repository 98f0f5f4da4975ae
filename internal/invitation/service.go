package invitation

import (
	"context"
	"log/slog"
	"strings"

	internal "github.com/frahmantamala/wishlist-management/internal"
	"github.com/frahmantamala/wishlist-management/internal/core/events"
	"github.com/frahmantamala/wishlist-management/internal/permission"
)

// Repository defines the data access the co-manager workflow needs.
// Lookups return nil (or false) for absent rows; errors are reserved for
// infrastructure failure.
type Repository interface {
	FindAccountByEmail(email string) (*Account, error)
	GetAccountEmail(userID int64) (string, error)
	GetListOwner(listID int64) (int64, error)
	AddCoManager(listID, userID, addedBy int64) (bool, error)
	RemoveCoManager(listID, userID int64) (bool, error)
	ListCoManagers(listID int64) ([]CoManager, error)
	FindInvitation(listID int64, email string) (*Invitation, error)
	CreateInvitation(inv *Invitation) error
	GetInvitationByToken(token string) (*Invitation, error)
	AcceptInvitation(inv *Invitation, userID int64) error
}

// PermissionService is the decision core surface the workflow consumes.
type PermissionService interface {
	Require(actorID int64, action permission.Action, resource permission.Resource) error
}

// Mailer delivers invitation emails out of band.
type Mailer interface {
	SendInvitation(email, token string, listID int64) error
}

// Service runs the co-manager workflow for lists.
type Service struct {
	repo        Repository
	permissions PermissionService
	mailer      Mailer
	eventBus    *events.EventBus
	logger      *slog.Logger
}

func NewService(repo Repository, permissions PermissionService, mailer Mailer, eventBus *events.EventBus, logger *slog.Logger) *Service {
	return &Service{
		repo:        repo,
		permissions: permissions,
		mailer:      mailer,
		eventBus:    eventBus,
		logger:      logger,
	}
}

// CreateInvitation grants co-management to the invited address. An
// existing account is added directly; anyone else gets a standing
// invitation delivered by email.
func (s *Service) CreateInvitation(listID int64, dto CreateInvitationDTO, requesterID int64) (*InvitationResult, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	if err := s.permissions.Require(requesterID, permission.ActionAdmin, permission.ListRef{ID: listID}); err != nil {
		return nil, err
	}

	email := strings.ToLower(strings.TrimSpace(dto.Email))

	requesterEmail, err := s.repo.GetAccountEmail(requesterID)
	if err != nil {
		s.logger.Error("failed to load requester email", "error", err, "user_id", requesterID)
		return nil, err
	}
	if strings.EqualFold(requesterEmail, email) {
		return nil, internal.NewValidationError("Cannot invite yourself", internal.ErrCodeSelfInvite)
	}

	target, err := s.repo.FindAccountByEmail(email)
	if err != nil {
		s.logger.Error("failed to look up invited email", "error", err, "list_id", listID)
		return nil, err
	}

	if target != nil {
		added, err := s.repo.AddCoManager(listID, target.ID, requesterID)
		if err != nil {
			s.logger.Error("failed to add co-manager", "error", err, "list_id", listID, "user_id", target.ID)
			return nil, err
		}
		if added {
			s.eventBus.Publish(context.Background(), events.NewCoManagerEvent(events.EventTypeCoManagerAdded, listID, requesterID, target.ID))
			s.logger.Info("co-manager added", "list_id", listID, "user_id", target.ID, "added_by", requesterID)
		}
		return &InvitationResult{DirectlyAdded: true}, nil
	}

	inv, err := s.standingInvitation(listID, email, requesterID)
	if err != nil {
		return nil, err
	}

	// delivery failures only lose the email, never the invitation
	if err := s.mailer.SendInvitation(inv.Email, inv.Token, listID); err != nil {
		s.logger.Error("failed to enqueue invitation email", "error", err, "list_id", listID, "email", email)
	}

	s.eventBus.Publish(context.Background(), events.NewInvitationEvent(events.EventTypeInvitationSent, listID, email, requesterID))
	s.logger.Info("invitation created", "list_id", listID, "email", email, "invited_by", requesterID)
	return &InvitationResult{DirectlyAdded: false, Invitation: inv}, nil
}

// standingInvitation reuses an open invitation for the address when one
// exists, so repeated invites resend the same token.
func (s *Service) standingInvitation(listID int64, email string, requesterID int64) (*Invitation, error) {
	existing, err := s.repo.FindInvitation(listID, email)
	if err != nil {
		s.logger.Error("failed to look up standing invitation", "error", err, "list_id", listID)
		return nil, err
	}
	if existing != nil {
		return existing, nil
	}

	token, err := generateToken()
	if err != nil {
		return nil, internal.NewInternalError("failed to generate invitation token", err)
	}

	inv := &Invitation{
		ListID:    listID,
		Email:     email,
		Token:     token,
		InvitedBy: requesterID,
	}
	if err := s.repo.CreateInvitation(inv); err != nil {
		s.logger.Error("failed to create invitation", "error", err, "list_id", listID)
		return nil, err
	}
	return inv, nil
}

// RemoveCoManager revokes a grant. The owner cannot remove themselves;
// they are not on the roster to begin with.
func (s *Service) RemoveCoManager(listID, targetUserID, requesterID int64) error {
	if err := s.permissions.Require(requesterID, permission.ActionAdmin, permission.ListRef{ID: listID}); err != nil {
		return err
	}

	if targetUserID == requesterID {
		ownerID, err := s.repo.GetListOwner(listID)
		if err != nil {
			s.logger.Error("failed to load list owner", "error", err, "list_id", listID)
			return err
		}
		if ownerID == requesterID {
			return internal.NewValidationError("Cannot remove yourself as owner", internal.ErrCodeOwnerSelfRemove)
		}
	}

	removed, err := s.repo.RemoveCoManager(listID, targetUserID)
	if err != nil {
		s.logger.Error("failed to remove co-manager", "error", err, "list_id", listID, "user_id", targetUserID)
		return err
	}
	if !removed {
		return internal.NewNotFoundError("User is not a co-manager of this list", internal.ErrCodeCoManagerNotFound)
	}

	s.eventBus.Publish(context.Background(), events.NewCoManagerEvent(events.EventTypeCoManagerRemoved, listID, requesterID, targetUserID))
	s.logger.Info("co-manager removed", "list_id", listID, "user_id", targetUserID, "removed_by", requesterID)
	return nil
}

// GetListCoManagers returns the roster. Management surface, so it sits
// behind the same admin gate as the mutations.
func (s *Service) GetListCoManagers(listID, requesterID int64) ([]CoManager, error) {
	if err := s.permissions.Require(requesterID, permission.ActionAdmin, permission.ListRef{ID: listID}); err != nil {
		return nil, err
	}
	return s.repo.ListCoManagers(listID)
}

// AcceptInvitation converts a standing invitation into a grant for the
// signed-in account the invite was addressed to.
func (s *Service) AcceptInvitation(token string, userID int64) error {
	inv, err := s.repo.GetInvitationByToken(token)
	if err != nil {
		s.logger.Error("failed to look up invitation", "error", err)
		return err
	}
	if inv == nil {
		return internal.NewNotFoundError("Invitation not found", internal.ErrCodeInvitationNotFound)
	}

	email, err := s.repo.GetAccountEmail(userID)
	if err != nil {
		s.logger.Error("failed to load accepting user email", "error", err, "user_id", userID)
		return err
	}
	if !strings.EqualFold(email, inv.Email) {
		return internal.NewForbiddenError("Invitation was issued to a different email address", internal.ErrCodeInsufficientPermissions)
	}

	if err := s.repo.AcceptInvitation(inv, userID); err != nil {
		s.logger.Error("failed to accept invitation", "error", err, "invitation_id", inv.ID)
		return err
	}

	s.eventBus.Publish(context.Background(), events.NewCoManagerEvent(events.EventTypeInvitationAccepted, inv.ListID, userID, userID))
	s.logger.Info("invitation accepted", "list_id", inv.ListID, "user_id", userID)
	return nil
}

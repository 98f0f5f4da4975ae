package permission

import (
	"fmt"
	"log/slog"

	"github.com/frahmantamala/wishlist-management/internal"
	groupDatamodel "github.com/frahmantamala/wishlist-management/internal/core/datamodel/group"
)

// Repository loads the minimal projections decisions are made from.
// Absent rows come back as nil without an error; real failures are
// returned as-is and never turned into a denial.
type Repository interface {
	GetActor(userID int64) (*Actor, error)
	GetListAccess(listID int64) (*ListAccess, error)
	IsListSharedWithUser(listID, userID int64) (bool, error)
	GetWishAccess(wishID int64) (*WishAccess, error)
	ListIDsForWish(wishID int64) ([]int64, error)
	GetGroupAccess(groupID int64) (*GroupAccess, error)
	GetGroupMemberRole(groupID, userID int64) (role string, member bool, err error)
	GetReservationAccess(reservationID int64) (*ReservationAccess, error)
}

type Service struct {
	repo   Repository
	logger *slog.Logger
}

func NewService(repo Repository, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		logger: logger,
	}
}

// Can evaluates whether the actor may perform action on the referenced
// resource. Checks run in a fixed order: actor existence, suspension,
// global privilege, then per-resource rules. Suspension is checked
// before privilege so a suspended admin stays locked out. Privileged
// actors are allowed without any resource lookup.
func (s *Service) Can(actorID int64, action Action, resource Resource) (Decision, error) {
	actor, err := s.repo.GetActor(actorID)
	if err != nil {
		s.logger.Error("actor lookup failed", "error", err, "actor_id", actorID)
		return Decision{}, err
	}
	if actor == nil {
		return denyNotFound(ReasonUserNotFound, internal.ErrCodeUserNotFound), nil
	}

	if actor.Suspended() {
		s.logger.Warn("suspended account denied",
			"actor_id", actorID,
			"action", action,
			"resource_kind", resource.Kind())
		return deny(ReasonAccountSuspended, internal.ErrCodeAccountSuspended), nil
	}

	if actor.Privileged() {
		return allow(), nil
	}

	if !actionSupported(resource, action) {
		return deny(ReasonUnsupportedAction, internal.ErrCodeUnknownAction), nil
	}

	switch ref := resource.(type) {
	case ListRef:
		return s.decideList(actor, action, ref)
	case WishRef:
		return s.decideWish(actor, action, ref)
	case GroupRef:
		return s.decideGroup(actor, action, ref)
	case ReservationRef:
		return s.decideReservation(actor, action, ref)
	}

	return Decision{}, fmt.Errorf("unsupported resource type %T", resource)
}

// Require is the enforcing form of Can. Denials that must read as a
// missing resource become NotFoundError, everything else ForbiddenError.
func (s *Service) Require(actorID int64, action Action, resource Resource) error {
	decision, err := s.Can(actorID, action, resource)
	if err != nil {
		return err
	}
	if decision.Allowed {
		return nil
	}
	if decision.NotFound {
		return internal.NewNotFoundError(decision.Reason, decision.Code)
	}
	return internal.NewForbiddenError(decision.Reason, decision.Code)
}

func (s *Service) decideList(actor *Actor, action Action, ref ListRef) (Decision, error) {
	list, err := s.repo.GetListAccess(ref.ID)
	if err != nil {
		s.logger.Error("list lookup failed", "error", err, "list_id", ref.ID)
		return Decision{}, err
	}
	if list == nil {
		return denyNotFound(ReasonListNotFound, internal.ErrCodeListNotFound), nil
	}

	// ownership outranks a stray co-manager grant for the same user
	if list.OwnerID == actor.ID {
		return allow(), nil
	}

	if list.IsCoManager(actor.ID) {
		switch action {
		case ActionView, ActionEdit, ActionShare:
			return allow(), nil
		case ActionDelete:
			return deny(ReasonOwnerOnlyDelete, internal.ErrCodeOwnerOnlyDelete), nil
		case ActionAdmin:
			return deny(ReasonOwnerOnlyAdmin, internal.ErrCodeOwnerOnlyCoManagerAdmin), nil
		default:
			return deny(ReasonCoManagerAction, internal.ErrCodeCoManagerActionDenied), nil
		}
	}

	if action != ActionView {
		// outsiders get the same answer whether or not the list exists
		return denyNotFound(ReasonListNotFound, internal.ErrCodeListNotFound), nil
	}

	if list.IsPublic() {
		return allow(), nil
	}
	if list.IsPasswordProtected() && ref.PasswordVerified {
		return allow(), nil
	}

	shared, err := s.repo.IsListSharedWithUser(ref.ID, actor.ID)
	if err != nil {
		s.logger.Error("group share lookup failed", "error", err, "list_id", ref.ID, "actor_id", actor.ID)
		return Decision{}, err
	}
	if shared {
		return allow(), nil
	}

	return denyNotFound(ReasonListNotFound, internal.ErrCodeListNotFound), nil
}

func (s *Service) decideWish(actor *Actor, action Action, ref WishRef) (Decision, error) {
	wish, err := s.repo.GetWishAccess(ref.ID)
	if err != nil {
		s.logger.Error("wish lookup failed", "error", err, "wish_id", ref.ID)
		return Decision{}, err
	}
	if wish == nil {
		return denyNotFound(ReasonWishNotFound, internal.ErrCodeWishNotFound), nil
	}

	if wish.OwnerID == actor.ID {
		return allow(), nil
	}

	if action != ActionView {
		return deny(ReasonInsufficient, internal.ErrCodeInsufficientPermissions), nil
	}

	// a wish is viewable when any list containing it is viewable
	listIDs, err := s.repo.ListIDsForWish(ref.ID)
	if err != nil {
		s.logger.Error("containing list lookup failed", "error", err, "wish_id", ref.ID)
		return Decision{}, err
	}
	for _, listID := range listIDs {
		decision, err := s.decideList(actor, ActionView, ListRef{ID: listID})
		if err != nil {
			return Decision{}, err
		}
		if decision.Allowed {
			return allow(), nil
		}
	}

	return deny(ReasonInsufficient, internal.ErrCodeInsufficientPermissions), nil
}

func (s *Service) decideGroup(actor *Actor, action Action, ref GroupRef) (Decision, error) {
	group, err := s.repo.GetGroupAccess(ref.ID)
	if err != nil {
		s.logger.Error("group lookup failed", "error", err, "group_id", ref.ID)
		return Decision{}, err
	}
	if group == nil {
		return denyNotFound(ReasonGroupNotFound, internal.ErrCodeGroupNotFound), nil
	}

	if group.OwnerID == actor.ID {
		return allow(), nil
	}

	role, member, err := s.repo.GetGroupMemberRole(ref.ID, actor.ID)
	if err != nil {
		s.logger.Error("group membership lookup failed", "error", err, "group_id", ref.ID, "actor_id", actor.ID)
		return Decision{}, err
	}

	if member && role == groupDatamodel.MemberRoleAdmin {
		return allow(), nil
	}

	if action == ActionView {
		if member {
			return allow(), nil
		}
		return deny(ReasonInsufficient, internal.ErrCodeInsufficientPermissions), nil
	}

	if member {
		return deny(ReasonGroupAdminOnly, internal.ErrCodeGroupAdminOnly), nil
	}
	return deny(ReasonInsufficient, internal.ErrCodeInsufficientPermissions), nil
}

func (s *Service) decideReservation(actor *Actor, action Action, ref ReservationRef) (Decision, error) {
	reservation, err := s.repo.GetReservationAccess(ref.ID)
	if err != nil {
		s.logger.Error("reservation lookup failed", "error", err, "reservation_id", ref.ID)
		return Decision{}, err
	}
	if reservation == nil {
		return denyNotFound(ReasonReservationNotFound, internal.ErrCodeReservationNotFound), nil
	}

	// reservations are visible and mutable only to the user who holds
	// them; list access is never inherited here
	if reservation.UserID == actor.ID {
		return allow(), nil
	}

	return deny(ReasonInsufficient, internal.ErrCodeInsufficientPermissions), nil
}

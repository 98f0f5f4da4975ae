package reservation

import (
	"context"
	"log/slog"

	"github.com/frahmantamala/wishlist-management/internal"
	"github.com/frahmantamala/wishlist-management/internal/core/events"
	"github.com/frahmantamala/wishlist-management/internal/permission"
)

// Repository defines the data access methods for reservations. Lookups
// return nil (or zero) for absent rows; errors are reserved for
// infrastructure failure.
type Repository interface {
	Create(res *Reservation) (bool, error)
	GetByID(id int64) (*Reservation, error)
	Delete(id int64) (bool, error)
	ListForUser(userID int64) ([]*Reservation, error)
	GetWishOwner(wishID int64) (int64, error)
}

type PermissionService interface {
	Require(actorID int64, action permission.Action, resource permission.Resource) error
}

type Service struct {
	repo        Repository
	permissions PermissionService
	eventBus    *events.EventBus
	logger      *slog.Logger
}

func NewService(repo Repository, permissions PermissionService, eventBus *events.EventBus, logger *slog.Logger) *Service {
	return &Service{
		repo:        repo,
		permissions: permissions,
		eventBus:    eventBus,
		logger:      logger,
	}
}

// ReserveWish claims a wish for the actor. Anyone who can view the wish
// may reserve it, except its owner; the first claim wins.
func (s *Service) ReserveWish(wishID int64, dto ReserveWishDTO, actorID int64) (*Reservation, error) {
	if err := dto.Validate(); err != nil {
		s.logger.Error("reservation validation failed", "error", err, "wish_id", wishID)
		return nil, err
	}

	if err := s.permissions.Require(actorID, permission.ActionView, permission.WishRef{ID: wishID}); err != nil {
		return nil, err
	}

	ownerID, err := s.repo.GetWishOwner(wishID)
	if err != nil {
		s.logger.Error("failed to load wish owner", "error", err, "wish_id", wishID)
		return nil, err
	}
	if ownerID == actorID {
		return nil, internal.NewValidationError("Cannot reserve your own wish", internal.ErrCodeValidationFailed)
	}

	res := &Reservation{
		WishID: wishID,
		UserID: actorID,
		Note:   dto.Note,
	}

	created, err := s.repo.Create(res)
	if err != nil {
		s.logger.Error("failed to create reservation", "error", err, "wish_id", wishID, "actor_id", actorID)
		return nil, err
	}
	if !created {
		return nil, internal.NewConflictError("Wish is already reserved", internal.ErrCodeAlreadyReserved)
	}

	s.eventBus.Publish(context.Background(), events.NewReservationEvent(events.EventTypeWishReserved, res.ID, wishID, actorID))
	s.logger.Info("wish reserved", "reservation_id", res.ID, "wish_id", wishID, "user_id", actorID)

	return res, nil
}

// CancelReservation releases a claim. Only the holder may cancel; the
// wish owner never sees who reserved, so they cannot release it either.
func (s *Service) CancelReservation(reservationID, actorID int64) error {
	if err := s.permissions.Require(actorID, permission.ActionDelete, permission.ReservationRef{ID: reservationID}); err != nil {
		return err
	}

	res, err := s.repo.GetByID(reservationID)
	if err != nil {
		s.logger.Error("failed to get reservation", "error", err, "reservation_id", reservationID)
		return err
	}
	if res == nil {
		return internal.NewNotFoundError("Reservation not found", internal.ErrCodeReservationNotFound)
	}

	removed, err := s.repo.Delete(reservationID)
	if err != nil {
		s.logger.Error("failed to delete reservation", "error", err, "reservation_id", reservationID)
		return err
	}
	if !removed {
		return internal.NewNotFoundError("Reservation not found", internal.ErrCodeReservationNotFound)
	}

	s.eventBus.Publish(context.Background(), events.NewReservationEvent(events.EventTypeReservationCanceled, reservationID, res.WishID, actorID))
	s.logger.Info("reservation canceled", "reservation_id", reservationID, "wish_id", res.WishID, "user_id", actorID)

	return nil
}

// ListMyReservations returns the actor's own claims.
func (s *Service) ListMyReservations(actorID int64) ([]*Reservation, error) {
	reservations, err := s.repo.ListForUser(actorID)
	if err != nil {
		s.logger.Error("failed to list reservations", "error", err, "actor_id", actorID)
		return nil, err
	}
	return reservations, nil
}

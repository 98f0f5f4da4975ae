package events

import (
	"time"

	"github.com/google/uuid"
)

const (
	EventTypeListCreated         = "list.created"
	EventTypeListUpdated         = "list.updated"
	EventTypeListDeleted         = "list.deleted"
	EventTypeListShared          = "list.shared"
	EventTypeListUnshared        = "list.unshared"
	EventTypeCoManagerAdded      = "list.co_manager_added"
	EventTypeCoManagerRemoved    = "list.co_manager_removed"
	EventTypeInvitationSent      = "list.invitation_sent"
	EventTypeInvitationAccepted  = "list.invitation_accepted"
	EventTypeWishReserved        = "wish.reserved"
	EventTypeReservationCanceled = "wish.reservation_canceled"
)

type ListEvent struct {
	BaseEvent
	ListID  int64 `json:"list_id"`
	ActorID int64 `json:"actor_id"`
}

func NewListEvent(eventType string, listID, actorID int64) *ListEvent {
	return &ListEvent{
		BaseEvent: BaseEvent{
			ID:        uuid.New().String(),
			Type:      eventType,
			Timestamp: time.Now(),
			Data: map[string]interface{}{
				"list_id":  listID,
				"actor_id": actorID,
			},
		},
		ListID:  listID,
		ActorID: actorID,
	}
}

type ListSharedEvent struct {
	BaseEvent
	ListID  int64 `json:"list_id"`
	GroupID int64 `json:"group_id"`
	ActorID int64 `json:"actor_id"`
}

func NewListSharedEvent(eventType string, listID, groupID, actorID int64) *ListSharedEvent {
	return &ListSharedEvent{
		BaseEvent: BaseEvent{
			ID:        uuid.New().String(),
			Type:      eventType,
			Timestamp: time.Now(),
			Data: map[string]interface{}{
				"list_id":  listID,
				"group_id": groupID,
				"actor_id": actorID,
			},
		},
		ListID:  listID,
		GroupID: groupID,
		ActorID: actorID,
	}
}

type CoManagerEvent struct {
	BaseEvent
	ListID       int64 `json:"list_id"`
	ActorID      int64 `json:"actor_id"`
	TargetUserID int64 `json:"target_user_id"`
}

func NewCoManagerEvent(eventType string, listID, actorID, targetUserID int64) *CoManagerEvent {
	return &CoManagerEvent{
		BaseEvent: BaseEvent{
			ID:        uuid.New().String(),
			Type:      eventType,
			Timestamp: time.Now(),
			Data: map[string]interface{}{
				"list_id":        listID,
				"actor_id":       actorID,
				"target_user_id": targetUserID,
			},
		},
		ListID:       listID,
		ActorID:      actorID,
		TargetUserID: targetUserID,
	}
}

type InvitationEvent struct {
	BaseEvent
	ListID    int64  `json:"list_id"`
	Email     string `json:"email"`
	InvitedBy int64  `json:"invited_by"`
}

func NewInvitationEvent(eventType string, listID int64, email string, invitedBy int64) *InvitationEvent {
	return &InvitationEvent{
		BaseEvent: BaseEvent{
			ID:        uuid.New().String(),
			Type:      eventType,
			Timestamp: time.Now(),
			Data: map[string]interface{}{
				"list_id":    listID,
				"email":      email,
				"invited_by": invitedBy,
			},
		},
		ListID:    listID,
		Email:     email,
		InvitedBy: invitedBy,
	}
}

type ReservationEvent struct {
	BaseEvent
	ReservationID int64 `json:"reservation_id"`
	WishID        int64 `json:"wish_id"`
	UserID        int64 `json:"user_id"`
}

func NewReservationEvent(eventType string, reservationID, wishID, userID int64) *ReservationEvent {
	return &ReservationEvent{
		BaseEvent: BaseEvent{
			ID:        uuid.New().String(),
			Type:      eventType,
			Timestamp: time.Now(),
			Data: map[string]interface{}{
				"reservation_id": reservationID,
				"wish_id":        wishID,
				"user_id":        userID,
			},
		},
		ReservationID: reservationID,
		WishID:        wishID,
		UserID:        userID,
	}
}

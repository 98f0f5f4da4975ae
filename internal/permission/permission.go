// Package permission is the single decision point for resource access.
// Every feature service asks it before reading or mutating lists,
// wishes, groups and reservations.
package permission

import (
	"time"

	"github.com/frahmantamala/wishlist-management/internal"
	listDatamodel "github.com/frahmantamala/wishlist-management/internal/core/datamodel/list"
	userDatamodel "github.com/frahmantamala/wishlist-management/internal/core/datamodel/user"
)

// Action names one operation an actor may attempt against a resource.
type Action string

const (
	ActionView   Action = "view"
	ActionEdit   Action = "edit"
	ActionDelete Action = "delete"
	ActionShare  Action = "share"
	ActionAdmin  Action = "admin"
)

// Resource is the closed set of reference types a decision can be made
// about. The unexported method keeps the set closed to this package.
type Resource interface {
	isResource()
	Kind() string
}

type ListRef struct {
	ID int64
	// PasswordVerified is set by the transport layer after it has
	// checked a caller-supplied password against the list's hash.
	PasswordVerified bool
}

type WishRef struct {
	ID int64
}

type GroupRef struct {
	ID int64
}

type ReservationRef struct {
	ID int64
}

func (ListRef) isResource()        {}
func (WishRef) isResource()        {}
func (GroupRef) isResource()       {}
func (ReservationRef) isResource() {}

func (ListRef) Kind() string        { return "list" }
func (WishRef) Kind() string        { return "wish" }
func (GroupRef) Kind() string       { return "group" }
func (ReservationRef) Kind() string { return "reservation" }

var (
	listActions = map[Action]struct{}{
		ActionView:   {},
		ActionEdit:   {},
		ActionDelete: {},
		ActionShare:  {},
		ActionAdmin:  {},
	}
	wishActions = map[Action]struct{}{
		ActionView:   {},
		ActionEdit:   {},
		ActionDelete: {},
	}
	groupActions = map[Action]struct{}{
		ActionView:   {},
		ActionEdit:   {},
		ActionDelete: {},
		ActionAdmin:  {},
	}
	reservationActions = map[Action]struct{}{
		ActionView:   {},
		ActionEdit:   {},
		ActionDelete: {},
	}
)

func actionSupported(resource Resource, action Action) bool {
	var supported map[Action]struct{}
	switch resource.(type) {
	case ListRef:
		supported = listActions
	case WishRef:
		supported = wishActions
	case GroupRef:
		supported = groupActions
	case ReservationRef:
		supported = reservationActions
	default:
		return false
	}
	_, ok := supported[action]
	return ok
}

// Denial reasons. These are stable strings callers and tests rely on.
const (
	ReasonUserNotFound        = "User not found"
	ReasonAccountSuspended    = "Account suspended"
	ReasonListNotFound        = "List not found"
	ReasonOwnerOnlyDelete     = "Only list owners can delete lists"
	ReasonOwnerOnlyAdmin      = "Only list owners can add/remove co-managers"
	ReasonCoManagerAction     = "Action not allowed for co-managers"
	ReasonInsufficient        = "Insufficient permissions"
	ReasonWishNotFound        = "Wish not found"
	ReasonGroupNotFound       = "Group not found"
	ReasonGroupAdminOnly      = "Only group admins can manage groups"
	ReasonReservationNotFound = "Reservation not found"
	ReasonUnsupportedAction   = "Action not supported for this resource type"
)

// Decision is the outcome of a single access check. NotFound marks
// denials that must read as "resource does not exist" so that private
// lists cannot be probed for existence.
type Decision struct {
	Allowed  bool
	Reason   string
	Code     internal.ErrorCode
	NotFound bool
}

func allow() Decision {
	return Decision{Allowed: true}
}

func deny(reason string, code internal.ErrorCode) Decision {
	return Decision{Reason: reason, Code: code}
}

func denyNotFound(reason string, code internal.ErrorCode) Decision {
	return Decision{Reason: reason, Code: code, NotFound: true}
}

// Actor is the minimal projection of a user needed for a decision.
type Actor struct {
	ID          int64
	IsAdmin     bool
	Role        string
	SuspendedAt *time.Time
}

func (a *Actor) Suspended() bool {
	return a.SuspendedAt != nil || a.Role == userDatamodel.RoleSuspended
}

func (a *Actor) Privileged() bool {
	return a.IsAdmin || a.Role == userDatamodel.RoleAdmin
}

// ListAccess carries everything a list decision needs in one load.
type ListAccess struct {
	ID           int64
	OwnerID      int64
	Visibility   string
	CoManagerIDs []int64
}

func (l *ListAccess) IsCoManager(userID int64) bool {
	for _, id := range l.CoManagerIDs {
		if id == userID {
			return true
		}
	}
	return false
}

func (l *ListAccess) IsPublic() bool {
	return l.Visibility == listDatamodel.VisibilityPublic
}

func (l *ListAccess) IsPasswordProtected() bool {
	return l.Visibility == listDatamodel.VisibilityPassword
}

type WishAccess struct {
	ID      int64
	OwnerID int64
}

type GroupAccess struct {
	ID      int64
	OwnerID int64
}

type ReservationAccess struct {
	ID     int64
	WishID int64
	UserID int64
}

package reservation

import (
	"time"

	reservationDatamodel "github.com/frahmantamala/wishlist-management/internal/core/datamodel/reservation"
)

// Reservation marks a wish as claimed by a user. A wish carries at most
// one active reservation.
type Reservation struct {
	ID         int64     `json:"id"`
	WishID     int64     `json:"wish_id"`
	UserID     int64     `json:"user_id"`
	Note       string    `json:"note,omitempty"`
	ReservedAt time.Time `json:"reserved_at"`
}

func ToDataModel(r *Reservation) *reservationDatamodel.Reservation {
	return &reservationDatamodel.Reservation{
		ID:         r.ID,
		WishID:     r.WishID,
		UserID:     r.UserID,
		Note:       r.Note,
		ReservedAt: r.ReservedAt,
	}
}

func FromDataModel(dm *reservationDatamodel.Reservation) *Reservation {
	return &Reservation{
		ID:         dm.ID,
		WishID:     dm.WishID,
		UserID:     dm.UserID,
		Note:       dm.Note,
		ReservedAt: dm.ReservedAt,
	}
}

func FromDataModelSlice(dms []*reservationDatamodel.Reservation) []*Reservation {
	reservations := make([]*Reservation, 0, len(dms))
	for _, dm := range dms {
		reservations = append(reservations, FromDataModel(dm))
	}
	return reservations
}

package wish

import (
	"time"

	wishDatamodel "github.com/frahmantamala/wishlist-management/internal/core/datamodel/wish"
)

type Wish struct {
	ID          int64     `json:"id"`
	OwnerID     int64     `json:"owner_id"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	URL         *string   `json:"url,omitempty"`
	PriceCents  *int64    `json:"price_cents,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func ToDataModel(w *Wish) *wishDatamodel.Wish {
	return &wishDatamodel.Wish{
		ID:          w.ID,
		OwnerID:     w.OwnerID,
		Title:       w.Title,
		Description: w.Description,
		URL:         w.URL,
		PriceCents:  w.PriceCents,
		CreatedAt:   w.CreatedAt,
		UpdatedAt:   w.UpdatedAt,
	}
}

func FromDataModel(dm *wishDatamodel.Wish) *Wish {
	return &Wish{
		ID:          dm.ID,
		OwnerID:     dm.OwnerID,
		Title:       dm.Title,
		Description: dm.Description,
		URL:         dm.URL,
		PriceCents:  dm.PriceCents,
		CreatedAt:   dm.CreatedAt,
		UpdatedAt:   dm.UpdatedAt,
	}
}

func FromDataModelSlice(dms []*wishDatamodel.Wish) []*Wish {
	result := make([]*Wish, len(dms))
	for i, dm := range dms {
		result[i] = FromDataModel(dm)
	}
	return result
}

package reservation

import (
	errors "github.com/frahmantamala/wishlist-management/internal"
	"github.com/frahmantamala/wishlist-management/internal/core/common/validation"
)

// ReserveWishDTO carries the optional note shown to the other givers.
type ReserveWishDTO struct {
	Note string `json:"note"`
}

func (d ReserveWishDTO) Validate() *errors.AppError {
	validator := validation.NewValidator()
	validator.Field("note", d.Note).MaxLength(500)
	return validator.Validate()
}

package wish

import (
	errors "github.com/frahmantamala/wishlist-management/internal"
	"github.com/frahmantamala/wishlist-management/internal/core/common/validation"
)

type CreateWishDTO struct {
	Title       string  `json:"title"`
	Description string  `json:"description"`
	URL         *string `json:"url"`
	PriceCents  *int64  `json:"price_cents"`
}

func (d CreateWishDTO) Validate() *errors.AppError {
	validator := validation.NewValidator()
	validator.Field("title", d.Title).Required().MaxLength(200)
	validator.Field("description", d.Description).MaxLength(2000)
	if d.URL != nil {
		validator.Field("url", *d.URL).MaxLength(2048)
	}
	if d.PriceCents != nil {
		validator.Field("price_cents", *d.PriceCents).MinInt(0, errors.ErrCodeValidationFailed)
	}
	return validator.Validate()
}

// UpdateWishDTO carries a partial update; nil fields are left untouched.
type UpdateWishDTO struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	URL         *string `json:"url"`
	PriceCents  *int64  `json:"price_cents"`
}

func (d UpdateWishDTO) Validate() *errors.AppError {
	validator := validation.NewValidator()
	if d.Title != nil {
		validator.Field("title", *d.Title).Required().MaxLength(200)
	}
	if d.Description != nil {
		validator.Field("description", *d.Description).MaxLength(2000)
	}
	if d.URL != nil {
		validator.Field("url", *d.URL).MaxLength(2048)
	}
	if d.PriceCents != nil {
		validator.Field("price_cents", *d.PriceCents).MinInt(0, errors.ErrCodeValidationFailed)
	}
	return validator.Validate()
}

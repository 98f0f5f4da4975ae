package list

import (
	errors "github.com/frahmantamala/wishlist-management/internal"
	"github.com/frahmantamala/wishlist-management/internal/core/common/validation"
)

type CreateListDTO struct {
	Title       string `json:"title"`
	Slug        string `json:"slug"`
	Description string `json:"description"`
	Visibility  string `json:"visibility"`
	Password    string `json:"password"`
}

func (d CreateListDTO) Validate() *errors.AppError {
	validator := validation.NewValidator()
	validator.Field("title", d.Title).Required().MaxLength(200)
	validator.Field("slug", d.Slug).MaxLength(200).Slug()
	validator.Field("description", d.Description).MaxLength(2000)
	validator.Field("visibility", d.Visibility).
		OneOf(errors.ErrCodeInvalidVisibility, VisibilityPrivate, VisibilityPublic, VisibilityPassword)
	if d.Visibility == VisibilityPassword {
		validator.Field("password", d.Password).Required().MinLength(4).MaxLength(72)
	}
	return validator.Validate()
}

// UpdateListDTO carries a partial update; nil fields are left untouched.
type UpdateListDTO struct {
	Title       *string `json:"title"`
	Slug        *string `json:"slug"`
	Description *string `json:"description"`
	Visibility  *string `json:"visibility"`
	Password    *string `json:"password"`
}

func (d UpdateListDTO) Validate() *errors.AppError {
	validator := validation.NewValidator()
	if d.Title != nil {
		validator.Field("title", *d.Title).Required().MaxLength(200)
	}
	if d.Slug != nil {
		validator.Field("slug", *d.Slug).Required().MaxLength(200).Slug()
	}
	if d.Description != nil {
		validator.Field("description", *d.Description).MaxLength(2000)
	}
	if d.Visibility != nil {
		validator.Field("visibility", *d.Visibility).
			Required().
			OneOf(errors.ErrCodeInvalidVisibility, VisibilityPrivate, VisibilityPublic, VisibilityPassword)
	}
	if d.Password != nil {
		validator.Field("password", *d.Password).Required().MinLength(4).MaxLength(72)
	}
	return validator.Validate()
}

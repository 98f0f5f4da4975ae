package user

import (
	errors "github.com/frahmantamala/wishlist-management/internal"
	"github.com/frahmantamala/wishlist-management/internal/core/common/validation"
)

type RegisterDTO struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

func (d RegisterDTO) Validate() *errors.AppError {
	validator := validation.NewValidator()
	// bcrypt only hashes the first 72 bytes
	validator.Field("email", d.Email).Required().MaxLength(254).Email()
	validator.Field("password", d.Password).Required().MinLength(8).MaxLength(72)
	validator.Field("name", d.Name).Required().MaxLength(100)
	return validator.Validate()
}

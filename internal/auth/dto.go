package auth

import (
	errors "github.com/frahmantamala/wishlist-management/internal"
	"github.com/frahmantamala/wishlist-management/internal/core/common/validation"
)

// LoginDTO is the transport shape used by the HTTP handler to accept login requests.
type LoginDTO struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// RefreshTokenDTO for refresh token requests
type RefreshTokenDTO struct {
	RefreshToken string `json:"refresh_token"`
}

func (d LoginDTO) Validate() *errors.AppError {
	validator := validation.NewValidator()
	validator.Field("email", d.Email).Required().Email()
	validator.Field("password", d.Password).Required()
	return validator.Validate()
}

func (d RefreshTokenDTO) Validate() *errors.AppError {
	validator := validation.NewValidator()
	validator.Field("refresh_token", d.RefreshToken).Required()
	return validator.Validate()
}

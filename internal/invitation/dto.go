package invitation

import (
	errors "github.com/frahmantamala/wishlist-management/internal"
	"github.com/frahmantamala/wishlist-management/internal/core/common/validation"
)

type CreateInvitationDTO struct {
	Email string `json:"email"`
}

func (d CreateInvitationDTO) Validate() *errors.AppError {
	validator := validation.NewValidator()
	validator.Field("email", d.Email).Required().MaxLength(254).Email()
	return validator.Validate()
}

type AcceptInvitationDTO struct {
	Token string `json:"token"`
}

func (d AcceptInvitationDTO) Validate() *errors.AppError {
	validator := validation.NewValidator()
	validator.Field("token", d.Token).Required()
	return validator.Validate()
}

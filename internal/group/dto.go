package group

import (
	errors "github.com/frahmantamala/wishlist-management/internal"
	"github.com/frahmantamala/wishlist-management/internal/core/common/validation"
)

type CreateGroupDTO struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

func (d CreateGroupDTO) Validate() *errors.AppError {
	validator := validation.NewValidator()
	validator.Field("name", d.Name).Required().MaxLength(200)
	validator.Field("description", d.Description).MaxLength(2000)
	return validator.Validate()
}

// AddMemberDTO adds a user to a group or changes the role they already
// hold. An empty role means plain membership.
type AddMemberDTO struct {
	UserID int64  `json:"user_id"`
	Role   string `json:"role"`
}

func (d AddMemberDTO) Validate() *errors.AppError {
	validator := validation.NewValidator()
	validator.Field("user_id", d.UserID).Required()
	validator.Field("role", d.Role).OneOf(errors.ErrCodeValidationFailed, MemberRoleMember, MemberRoleAdmin)
	return validator.Validate()
}

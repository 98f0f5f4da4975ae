package internal

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

type ErrorType string

const (
	ErrorTypeValidation   ErrorType = "VALIDATION_ERROR"
	ErrorTypeNotFound     ErrorType = "NOT_FOUND"
	ErrorTypeUnauthorized ErrorType = "UNAUTHORIZED"
	ErrorTypeForbidden    ErrorType = "FORBIDDEN"
	ErrorTypeConflict     ErrorType = "CONFLICT"
	ErrorTypeRateLimit    ErrorType = "RATE_LIMIT_EXCEEDED"
	ErrorTypeInternal     ErrorType = "INTERNAL_ERROR"
	ErrorTypeExternal     ErrorType = "EXTERNAL_ERROR"
)

type ErrorCode string

const (
	ErrCodeValidationFailed  ErrorCode = "VALIDATION_FAILED"
	ErrCodeInvalidVisibility ErrorCode = "INVALID_VISIBILITY"
	ErrCodeInvalidEmail      ErrorCode = "INVALID_EMAIL"
	ErrCodeSelfInvite        ErrorCode = "SELF_INVITE"
	ErrCodeOwnerSelfRemove   ErrorCode = "OWNER_SELF_REMOVE"

	ErrCodeUserNotFound        ErrorCode = "USER_NOT_FOUND"
	ErrCodeListNotFound        ErrorCode = "LIST_NOT_FOUND"
	ErrCodeWishNotFound        ErrorCode = "WISH_NOT_FOUND"
	ErrCodeGroupNotFound       ErrorCode = "GROUP_NOT_FOUND"
	ErrCodeReservationNotFound ErrorCode = "RESERVATION_NOT_FOUND"
	ErrCodeCoManagerNotFound   ErrorCode = "CO_MANAGER_NOT_FOUND"
	ErrCodeInvitationNotFound  ErrorCode = "INVITATION_NOT_FOUND"
	ErrCodeShareNotFound       ErrorCode = "SHARE_NOT_FOUND"
	ErrCodeMemberNotFound      ErrorCode = "MEMBER_NOT_FOUND"

	ErrCodeAccountSuspended        ErrorCode = "ACCOUNT_SUSPENDED"
	ErrCodeInsufficientPermissions ErrorCode = "INSUFFICIENT_PERMISSIONS"
	ErrCodeOwnerOnlyDelete         ErrorCode = "OWNER_ONLY_DELETE"
	ErrCodeOwnerOnlyCoManagerAdmin ErrorCode = "OWNER_ONLY_CO_MANAGER_ADMIN"
	ErrCodeCoManagerActionDenied   ErrorCode = "CO_MANAGER_ACTION_DENIED"
	ErrCodeGroupAdminOnly          ErrorCode = "GROUP_ADMIN_ONLY"
	ErrCodeUnknownAction           ErrorCode = "UNKNOWN_ACTION"

	ErrCodeInvalidCredentials ErrorCode = "INVALID_CREDENTIALS"
	ErrCodeInvalidToken       ErrorCode = "INVALID_TOKEN"
	ErrCodeTokenExpired       ErrorCode = "TOKEN_EXPIRED"

	ErrCodeSlugTaken       ErrorCode = "SLUG_TAKEN"
	ErrCodeAlreadyReserved ErrorCode = "ALREADY_RESERVED"
	ErrCodeEmailTaken      ErrorCode = "EMAIL_TAKEN"

	ErrCodeRateLimitExceeded ErrorCode = "RATE_LIMIT_EXCEEDED"
	ErrCodeMailDelivery      ErrorCode = "MAIL_DELIVERY_FAILED"
)

type AppError struct {
	Type       ErrorType   `json:"type"`
	Code       ErrorCode   `json:"code"`
	Message    string      `json:"message"`
	Details    interface{} `json:"details,omitempty"`
	StatusCode int         `json:"-"`
	Cause      error       `json:"-"`
}

func (e *AppError) Error() string {
	if e.Details != nil {
		if validationErrors, ok := e.Details.(ValidationErrors); ok && len(validationErrors.Errors) > 0 {

			return validationErrors.Errors[0].Message
		}
	}
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *AppError) GetDetailedMessage() string {
	if e.Details != nil {
		if validationErrors, ok := e.Details.(ValidationErrors); ok {
			if len(validationErrors.Errors) == 1 {
				return validationErrors.Errors[0].Message
			} else if len(validationErrors.Errors) > 1 {
				messages := make([]string, len(validationErrors.Errors))
				for i, err := range validationErrors.Errors {
					messages[i] = err.Message
				}
				return strings.Join(messages, "; ")
			}
		}
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

func (e *AppError) WithCause(cause error) *AppError {
	e.Cause = cause
	return e
}

func (e *AppError) WithDetails(details interface{}) *AppError {
	e.Details = details
	return e
}

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code"`
}

type ValidationErrors struct {
	Errors []ValidationError `json:"errors"`
}

func NewValidationError(message string, code ErrorCode) *AppError {
	return &AppError{
		Type:       ErrorTypeValidation,
		Code:       code,
		Message:    message,
		StatusCode: http.StatusBadRequest,
	}
}

func NewValidationFieldError(field, message string, code ErrorCode) *AppError {
	return &AppError{
		Type:       ErrorTypeValidation,
		Code:       ErrCodeValidationFailed,
		Message:    "Validation failed",
		StatusCode: http.StatusBadRequest,
		Details: ValidationErrors{
			Errors: []ValidationError{
				{Field: field, Message: message, Code: string(code)},
			},
		},
	}
}

func NewNotFoundError(message string, code ErrorCode) *AppError {
	return &AppError{
		Type:       ErrorTypeNotFound,
		Code:       code,
		Message:    message,
		StatusCode: http.StatusNotFound,
	}
}

func NewUnauthorizedError(message string, code ErrorCode) *AppError {
	return &AppError{
		Type:       ErrorTypeUnauthorized,
		Code:       code,
		Message:    message,
		StatusCode: http.StatusUnauthorized,
	}
}

func NewForbiddenError(message string, code ErrorCode) *AppError {
	return &AppError{
		Type:       ErrorTypeForbidden,
		Code:       code,
		Message:    message,
		StatusCode: http.StatusForbidden,
	}
}

func NewInternalError(message string, cause error) *AppError {
	return &AppError{
		Type:       ErrorTypeInternal,
		Code:       "INTERNAL_ERROR",
		Message:    message,
		StatusCode: http.StatusInternalServerError,
		Cause:      cause,
	}
}

func NewConflictError(message string, code ErrorCode) *AppError {
	return &AppError{
		Type:       ErrorTypeConflict,
		Code:       code,
		Message:    message,
		StatusCode: http.StatusConflict,
	}
}

func NewRateLimitError(message string) *AppError {
	return &AppError{
		Type:       ErrorTypeRateLimit,
		Code:       ErrCodeRateLimitExceeded,
		Message:    message,
		StatusCode: http.StatusTooManyRequests,
	}
}

var (
	ErrInvalidCredentials = NewUnauthorizedError("Invalid email or password", ErrCodeInvalidCredentials)
	ErrInvalidToken       = NewUnauthorizedError("Invalid token", ErrCodeInvalidToken)
	ErrTokenExpired       = NewUnauthorizedError("Token has expired", ErrCodeTokenExpired)
	ErrAccountSuspended   = NewForbiddenError("Account suspended", ErrCodeAccountSuspended)
)

func IsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// MapError is the single place that turns a service error into an HTTP
// status and body code. A Forbidden denial of the list co-manager admin
// action is deliberately surfaced as NOT_FOUND so callers cannot probe
// which lists exist by hitting the co-manager endpoints.
func MapError(err error) (int, ErrorType) {
	appErr, ok := IsAppError(err)
	if !ok {
		return http.StatusInternalServerError, ErrorTypeInternal
	}
	if appErr.Type == ErrorTypeForbidden && appErr.Code == ErrCodeOwnerOnlyCoManagerAdmin {
		return http.StatusNotFound, ErrorTypeNotFound
	}
	switch appErr.Type {
	case ErrorTypeValidation:
		return http.StatusBadRequest, ErrorTypeValidation
	case ErrorTypeNotFound:
		return http.StatusNotFound, ErrorTypeNotFound
	case ErrorTypeUnauthorized:
		return http.StatusUnauthorized, ErrorTypeUnauthorized
	case ErrorTypeForbidden:
		return http.StatusForbidden, ErrorTypeForbidden
	case ErrorTypeConflict:
		return http.StatusConflict, ErrorTypeConflict
	case ErrorTypeRateLimit:
		return http.StatusTooManyRequests, ErrorTypeRateLimit
	default:
		return http.StatusInternalServerError, ErrorTypeInternal
	}
}

type Response struct {
	Error *AppError `json:"error"`
}

func (e *AppError) ToHTTPResponse() (int, interface{}) {
	return e.StatusCode, Response{Error: e}
}

func (e *AppError) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type    ErrorType   `json:"type"`
		Code    ErrorCode   `json:"code"`
		Message string      `json:"message"`
		Details interface{} `json:"details,omitempty"`
	}{
		Type:    e.Type,
		Code:    e.Code,
		Message: e.Message,
		Details: e.Details,
	})
}

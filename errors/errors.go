package errors

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// Validation: rejected immediately, no state change.
	ErrMissingIdentity  = fmt.Errorf("user id is required")
	ErrMissingRecipient = fmt.Errorf("recipient id is required")
	ErrMissingMessageID = fmt.Errorf("message id is required")
	ErrInvalidMessageID = fmt.Errorf("invalid message id format")
	ErrEmptyMessage     = fmt.Errorf("message text is required")
	ErrInvalidPassword  = fmt.Errorf("password does not meet complexity requirements")

	// Not found: unknown identity or message id.
	ErrUserNotFound    = fmt.Errorf("user not found")
	ErrMessageNotFound = fmt.Errorf("message not found")

	// Expected rejections, reflected in the client UI.
	ErrMessagesBlocked     = fmt.Errorf("this user has stopped receiving anonymous messages from you")
	ErrRateLimited         = fmt.Errorf("too many typing events")
	ErrIdentityNotRevealed = fmt.Errorf("identity not revealed")

	// Auth.
	ErrUserAlreadyExists  = fmt.Errorf("user already exists")
	ErrEmailAlreadyExists = fmt.Errorf("email already in use")
	ErrInvalidCredentials = fmt.Errorf("invalid credentials")
	ErrTokenGeneration    = fmt.Errorf("token generation failed")
)

// MapToHTTPStatus translates domain errors into HTTP status codes.
// Anything unrecognized is a collaborator failure and surfaces as a 500;
// the caller may retry, the server never does.
func MapToHTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrMissingIdentity),
		errors.Is(err, ErrMissingRecipient),
		errors.Is(err, ErrMissingMessageID),
		errors.Is(err, ErrInvalidMessageID),
		errors.Is(err, ErrEmptyMessage),
		errors.Is(err, ErrInvalidPassword):
		return http.StatusBadRequest
	case errors.Is(err, ErrUserNotFound),
		errors.Is(err, ErrMessageNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrMessagesBlocked),
		errors.Is(err, ErrIdentityNotRevealed):
		return http.StatusForbidden
	case errors.Is(err, ErrRateLimited):
		return http.StatusTooManyRequests
	case errors.Is(err, ErrUserAlreadyExists),
		errors.Is(err, ErrEmailAlreadyExists):
		return http.StatusConflict
	case errors.Is(err, ErrInvalidCredentials):
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

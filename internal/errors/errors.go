package errors

import (
	"errors"
	"net/http"
)

var (
	// ErrUserExists is returned when registering an email that is already taken.
	ErrUserExists = errors.New("User already exists")
	// ErrDuplicateKey is returned when the store rejects a write on its uniqueness constraint.
	ErrDuplicateKey = errors.New("Duplicate field value entered")
	// ErrInvalidCredentials is returned when email or password is incorrect.
	ErrInvalidCredentials = errors.New("Invalid email or password")
	// ErrEmailNotVerified is returned when correct credentials belong to an unverified user.
	ErrEmailNotVerified = errors.New("Please verify your email address to log in.")
	// ErrInvalidVerificationToken is returned for unknown, consumed or expired verification tokens.
	ErrInvalidVerificationToken = errors.New("Invalid or expired token")
	// ErrNoToken is returned when a private route is called without a bearer token.
	ErrNoToken = errors.New("Not authorized, no token")
	// ErrTokenFailed is returned when a bearer token fails verification for any reason.
	ErrTokenFailed = errors.New("Not authorized, token failed")
	// ErrTokenUserNotFound is returned when a valid token names a user that no longer exists.
	ErrTokenUserNotFound = errors.New("Not authorized, user not found")
	// ErrNotAdmin is returned when an admin-only route is called by a non-admin.
	ErrNotAdmin = errors.New("Not authorized as an admin")
	// ErrUserNotFound is returned when a user id does not resolve.
	ErrUserNotFound = errors.New("User not found")
	// ErrEmailNotSent is returned when the verification email could not be delivered.
	ErrEmailNotSent = errors.New("Email could not be sent")
	// ErrTooManyRequests is returned when a client exceeds the per-IP request rate.
	ErrTooManyRequests = errors.New("Too many requests, please try again later")
)

// ValidationError carries a caller-facing message for malformed input.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// NewValidationError creates a ValidationError.
func NewValidationError(message string) *ValidationError {
	return &ValidationError{Message: message}
}

// ErrorResponse represents a standardized error response.
type ErrorResponse struct {
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
	Stack   string `json:"stack,omitempty"`
}

// HTTPError represents an HTTP error with status code.
type HTTPError struct {
	StatusCode int
	Message    string
	Code       string
}

func (e *HTTPError) Error() string {
	return e.Message
}

// NewHTTPError creates a new HTTP error.
func NewHTTPError(statusCode int, message, code string) *HTTPError {
	return &HTTPError{
		StatusCode: statusCode,
		Message:    message,
		Code:       code,
	}
}

// ToErrorResponse converts an HTTPError to ErrorResponse.
func (e *HTTPError) ToErrorResponse() ErrorResponse {
	return ErrorResponse{
		Message: e.Message,
		Code:    e.Code,
	}
}

// MapErrorToHTTP maps domain errors to HTTP errors.
func MapErrorToHTTP(err error) *HTTPError {
	var validationErr *ValidationError
	if errors.As(err, &validationErr) {
		return NewHTTPError(http.StatusBadRequest, validationErr.Message, "VALIDATION_ERROR")
	}

	switch {
	case errors.Is(err, ErrUserExists):
		return NewHTTPError(http.StatusBadRequest, ErrUserExists.Error(), "USER_EXISTS")
	case errors.Is(err, ErrDuplicateKey):
		return NewHTTPError(http.StatusBadRequest, ErrDuplicateKey.Error(), "DUPLICATE_KEY")
	case errors.Is(err, ErrInvalidVerificationToken):
		return NewHTTPError(http.StatusBadRequest, ErrInvalidVerificationToken.Error(), "INVALID_VERIFICATION_TOKEN")
	case errors.Is(err, ErrInvalidCredentials):
		return NewHTTPError(http.StatusUnauthorized, ErrInvalidCredentials.Error(), "INVALID_CREDENTIALS")
	case errors.Is(err, ErrEmailNotVerified):
		return NewHTTPError(http.StatusUnauthorized, ErrEmailNotVerified.Error(), "EMAIL_NOT_VERIFIED")
	case errors.Is(err, ErrNoToken):
		return NewHTTPError(http.StatusUnauthorized, ErrNoToken.Error(), "NO_TOKEN")
	case errors.Is(err, ErrTokenFailed):
		return NewHTTPError(http.StatusUnauthorized, ErrTokenFailed.Error(), "TOKEN_FAILED")
	case errors.Is(err, ErrTokenUserNotFound):
		return NewHTTPError(http.StatusUnauthorized, ErrTokenUserNotFound.Error(), "TOKEN_USER_NOT_FOUND")
	case errors.Is(err, ErrNotAdmin):
		return NewHTTPError(http.StatusForbidden, ErrNotAdmin.Error(), "NOT_ADMIN")
	case errors.Is(err, ErrUserNotFound):
		return NewHTTPError(http.StatusNotFound, ErrUserNotFound.Error(), "USER_NOT_FOUND")
	case errors.Is(err, ErrTooManyRequests):
		return NewHTTPError(http.StatusTooManyRequests, ErrTooManyRequests.Error(), "RATE_LIMITED")
	case errors.Is(err, ErrEmailNotSent):
		return NewHTTPError(http.StatusInternalServerError, ErrEmailNotSent.Error(), "EMAIL_NOT_SENT")
	default:
		return NewHTTPError(http.StatusInternalServerError, "Internal Server Error", "INTERNAL_ERROR")
	}
}

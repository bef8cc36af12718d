package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Sentinel errors. Constructors below wrap them so callers can match with
// errors.Is regardless of message.
var (
	ErrNotFound       = errors.New("resource not found")
	ErrAlreadyExists  = errors.New("resource already exists")
	ErrInvalidInput   = errors.New("invalid input")
	ErrUnauthorized   = errors.New("unauthorized")
	ErrForbidden      = errors.New("forbidden")
	ErrInternal       = errors.New("internal error")
	ErrConflict       = errors.New("conflict")
	ErrServiceUnavail = errors.New("service unavailable")
)

// Machine-readable codes rendered in error responses.
const (
	CodeNotFound       = "NOT_FOUND"
	CodeAlreadyExists  = "ALREADY_EXISTS"
	CodeConflict       = "CONFLICT"
	CodeInvalidInput   = "INVALID_INPUT"
	CodeUnauthorized   = "UNAUTHORIZED"
	CodeForbidden      = "FORBIDDEN"
	CodeInternal       = "INTERNAL_ERROR"
	CodeUnavailable    = "SERVICE_UNAVAILABLE"
	CodeInvalidParam   = "INVALID_PARAMETER"
	CodeValidation     = "VALIDATION_ERROR"
	CodeRateLimited    = "RATE_LIMITED"
	internalErrMessage = "an internal error occurred"
)

// AppError is an error carrying a stable machine-readable code and the HTTP
// status it should be rendered with.
type AppError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Status  int    `json:"-"`
	Err     error  `json:"-"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func newAppError(code string, status int, cause error, message string) *AppError {
	return &AppError{Code: code, Message: message, Status: status, Err: cause}
}

// NotFound creates a 404 error for the named resource.
func NotFound(resource, id string) *AppError {
	return newAppError(CodeNotFound, http.StatusNotFound, ErrNotFound,
		fmt.Sprintf("%s with id %s not found", resource, id))
}

// AlreadyExists creates a 409 error for a uniqueness clash on a single field.
func AlreadyExists(resource, field, value string) *AppError {
	return newAppError(CodeAlreadyExists, http.StatusConflict, ErrAlreadyExists,
		fmt.Sprintf("%s with %s %q already exists", resource, field, value))
}

// Conflict creates a 409 error for a state clash that is not tied to one field.
func Conflict(message string) *AppError {
	return newAppError(CodeConflict, http.StatusConflict, ErrConflict, message)
}

// InvalidInput creates a 400 error.
func InvalidInput(message string) *AppError {
	return newAppError(CodeInvalidInput, http.StatusBadRequest, ErrInvalidInput, message)
}

// Unauthorized creates a 401 error.
func Unauthorized(message string) *AppError {
	return newAppError(CodeUnauthorized, http.StatusUnauthorized, ErrUnauthorized, message)
}

// Forbidden creates a 403 error.
func Forbidden(message string) *AppError {
	return newAppError(CodeForbidden, http.StatusForbidden, ErrForbidden, message)
}

// Internal creates a 500 error that hides err from clients.
func Internal(err error) *AppError {
	return newAppError(CodeInternal, http.StatusInternalServerError, err, internalErrMessage)
}

// Wrap wraps an error with additional context.
func Wrap(err error, message string) error {
	return fmt.Errorf("%s: %w", message, err)
}

// sentinelResponses maps bare sentinels to the status, code and public
// message used when no AppError is in the chain.
var sentinelResponses = []struct {
	err     error
	status  int
	code    string
	message string
}{
	{ErrNotFound, http.StatusNotFound, CodeNotFound, "resource not found"},
	{ErrAlreadyExists, http.StatusConflict, CodeConflict, "resource already exists"},
	{ErrConflict, http.StatusConflict, CodeConflict, "resource already exists"},
	{ErrInvalidInput, http.StatusBadRequest, CodeInvalidInput, ""},
	{ErrUnauthorized, http.StatusUnauthorized, CodeUnauthorized, "authentication required"},
	{ErrForbidden, http.StatusForbidden, CodeForbidden, "insufficient permissions"},
	{ErrServiceUnavail, http.StatusServiceUnavailable, CodeUnavailable, "service temporarily unavailable"},
}

// Describe returns the HTTP status, code and client-safe message for err.
// Unknown errors are 500 with a generic message; bad-input sentinels expose
// err's own text.
func Describe(err error) (status int, code, message string) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Status, appErr.Code, appErr.Message
	}
	for _, s := range sentinelResponses {
		if errors.Is(err, s.err) {
			if s.message == "" {
				return s.status, s.code, err.Error()
			}
			return s.status, s.code, s.message
		}
	}
	return http.StatusInternalServerError, CodeInternal, internalErrMessage
}

// HTTPStatus returns the HTTP status code for the given error.
func HTTPStatus(err error) int {
	status, _, _ := Describe(err)
	return status
}

// IsNotFound reports whether err is, or wraps, ErrNotFound.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsConflict reports whether err signals a uniqueness or state conflict.
func IsConflict(err error) bool {
	return errors.Is(err, ErrConflict) || errors.Is(err, ErrAlreadyExists)
}

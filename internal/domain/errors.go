package domain

import (
	"errors"
	"net/http"
)

// Error categories carried by AppError.Code.
const (
	CodeNotFound        = 1
	CodeAlreadyExists   = 2
	CodeValidation      = 3
	CodeInternal        = 4
	CodeUnauthorized    = 5
	CodeForbidden       = 6
	CodeInvalidResource = 7
)

// statusByCode is the HTTP status each category is answered with.
// CodeInvalidResource is a well-formed request naming the wrong target,
// such as an admin deleting their own company.
var statusByCode = map[int]int{
	CodeNotFound:        http.StatusNotFound,
	CodeAlreadyExists:   http.StatusConflict,
	CodeValidation:      http.StatusBadRequest,
	CodeInternal:        http.StatusInternalServerError,
	CodeUnauthorized:    http.StatusUnauthorized,
	CodeForbidden:       http.StatusForbidden,
	CodeInvalidResource: http.StatusBadRequest,
}

// FieldError names one rejected input field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// AppError is the error type services return to handlers. Message is safe
// to show to API clients; Err keeps the cause for logs.
type AppError struct {
	Code    int          `json:"code"`
	Message string       `json:"message"`
	Err     error        `json:"-"`
	Fields  []FieldError `json:"errors,omitempty"`
}

func (e *AppError) Error() string {
	if e.Err == nil {
		return e.Message
	}
	return e.Message + ": " + e.Err.Error()
}

func (e *AppError) Unwrap() error { return e.Err }

// Category sentinels. Compare with the IsXxx helpers rather than errors.Is:
// they match on Code, so a NewAppError with a tailored message still counts.
var (
	ErrNotFound        = &AppError{Code: CodeNotFound, Message: "not found"}
	ErrAlreadyExists   = &AppError{Code: CodeAlreadyExists, Message: "already exists"}
	ErrValidation      = &AppError{Code: CodeValidation, Message: "validation error"}
	ErrInternal        = &AppError{Code: CodeInternal, Message: "internal error"}
	ErrUnauthorized    = &AppError{Code: CodeUnauthorized, Message: "unauthorized"}
	ErrForbidden       = &AppError{Code: CodeForbidden, Message: "access denied"}
	ErrInvalidResource = &AppError{Code: CodeInvalidResource, Message: "invalid resource"}
)

// NewAppError returns an AppError of category code wrapping err.
func NewAppError(code int, message string, err error) *AppError {
	return &AppError{Code: code, Message: message, Err: err}
}

// NewValidationError returns a validation AppError listing fields in order.
func NewValidationError(fields ...FieldError) *AppError {
	return &AppError{Code: CodeValidation, Message: "validation error", Fields: fields}
}

func IsNotFound(err error) bool        { return codeOf(err) == CodeNotFound }
func IsAlreadyExists(err error) bool   { return codeOf(err) == CodeAlreadyExists }
func IsValidation(err error) bool      { return codeOf(err) == CodeValidation }
func IsInternal(err error) bool        { return codeOf(err) == CodeInternal }
func IsUnauthorized(err error) bool    { return codeOf(err) == CodeUnauthorized }
func IsForbidden(err error) bool       { return codeOf(err) == CodeForbidden }
func IsInvalidResource(err error) bool { return codeOf(err) == CodeInvalidResource }

// codeOf returns the Code of the first AppError in err's chain, or 0.
func codeOf(err error) int {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return 0
}

// HTTPStatusCode maps err to a response status. Anything that is not an
// AppError of a known category is a 500.
func HTTPStatusCode(err error) int {
	if status, ok := statusByCode[codeOf(err)]; ok {
		return status
	}
	return http.StatusInternalServerError
}

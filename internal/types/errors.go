package types

import (
	"fmt"
	"net/http"
	"strings"
)

// ErrorCode categorizes application errors for consistent HTTP mapping.
type ErrorCode string

const (
	// Validation (400): the user attempted an action without required inputs
	// (no sensor serial, no metric, zero sections to export). Rejected before
	// any request is issued.
	ErrCodeValidationMissingField ErrorCode = "validation_missing_required_field"
	ErrCodeValidationBadRequest   ErrorCode = "validation_bad_request"
	ErrCodeValidationEmptyReport  ErrorCode = "validation_empty_report"

	// Not Found (404)
	ErrCodeNotFoundPanel ErrorCode = "not_found_panel"

	// Upstream (502): backend fetch failures, scoped to the issuing panel.
	ErrCodeUpstreamUnavailable ErrorCode = "upstream_unavailable"
	ErrCodeUpstreamRateLimited ErrorCode = "upstream_rate_limited"

	// Internal (500)
	ErrCodeRenderFailed       ErrorCode = "internal_render_failed"
	ErrCodeInternalUnexpected ErrorCode = "internal_unexpected_error"
)

// HTTPStatus maps an ErrorCode to its HTTP status. Unknown codes map to 500.
func (c ErrorCode) HTTPStatus() int {
	s := string(c)
	switch {
	case strings.HasPrefix(s, "validation_"):
		return http.StatusBadRequest
	case strings.HasPrefix(s, "not_found_"):
		return http.StatusNotFound
	case strings.HasPrefix(s, "upstream_"):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// AppError is the standard error type crossing the panel/handler boundary.
// Errors in one panel never propagate to another panel's state; handlers
// translate an AppError into a scoped inline message for its own panel only.
type AppError struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
	Err     error     `json:"-"`
}

func (e *AppError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error { return e.Err }

// HTTPStatus returns the HTTP status for this error's code.
func (e *AppError) HTTPStatus() int { return e.Code.HTTPStatus() }

// NewAppError creates an AppError with the given code, message, and optional
// underlying error.
func NewAppError(code ErrorCode, message string, err error) *AppError {
	return &AppError{Code: code, Message: message, Err: err}
}

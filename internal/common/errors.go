package common

import (
	"errors"
	"fmt"
)

// Engine error codes. Handlers map these onto HTTP statuses; the sweep logs
// them with tenant identity and moves on.
const (
	CodeValidation    = "validation"
	CodeNotFound      = "not_found"
	CodeConflict      = "conflict"
	CodeQuotaExceeded = "quota_exceeded"
	CodePlanExpired   = "plan_expired"
	CodeInternal      = "internal"
)

// Error is a coded engine error. Op names the operation that failed
// (e.g. "booking.commit") so log lines stay greppable.
type Error struct {
	Code    string
	Op      string
	Message string
	Err     error

	// Used and Limit carry quota context on quota_exceeded errors so the
	// caller can render an upgrade prompt.
	Used  int
	Limit int
}

func (e *Error) Error() string {
	if e.Op != "" {
		return fmt.Sprintf("%s: %s", e.Op, e.Message)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// ErrorCode returns the code of err, or internal for unrecognized errors.
func ErrorCode(err error) string {
	if err == nil {
		return ""
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return CodeInternal
}

// ErrorMessage returns a caller-safe message for err. Internal details are
// never leaked.
func ErrorMessage(err error) string {
	if err == nil {
		return ""
	}
	var e *Error
	if errors.As(err, &e) && e.Code != CodeInternal {
		return e.Message
	}
	return "An internal error occurred. Please try again later."
}

// NotFound creates a not-found error for a resource.
func NotFound(op, resource string) *Error {
	return &Error{Code: CodeNotFound, Op: op, Message: fmt.Sprintf("%s not found", resource)}
}

// Invalid creates a validation error.
func Invalid(op, format string, args ...interface{}) *Error {
	return &Error{Code: CodeValidation, Op: op, Message: fmt.Sprintf(format, args...)}
}

// Conflict creates a booking conflict error.
func Conflict(op, message string) *Error {
	return &Error{Code: CodeConflict, Op: op, Message: message}
}

// QuotaExceeded creates a quota error carrying the current usage for the
// upgrade-prompt UI.
func QuotaExceeded(op string, used, limit int) *Error {
	return &Error{
		Code:    CodeQuotaExceeded,
		Op:      op,
		Message: fmt.Sprintf("monthly appointment limit of %d reached", limit),
		Used:    used,
		Limit:   limit,
	}
}

// PlanExpired creates an expired-plan error.
func PlanExpired(op string) *Error {
	return &Error{Code: CodePlanExpired, Op: op, Message: "subscription period has ended"}
}

// Internal wraps an unexpected error.
func Internal(err error, op, message string) *Error {
	return &Error{Code: CodeInternal, Op: op, Message: message, Err: err}
}

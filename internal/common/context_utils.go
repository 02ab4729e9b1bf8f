package common

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

type contextKey string

const (
	TenantIDKey contextKey = "tenant_id"
)

// ErrorResponse represents a standardized error response
type ErrorResponse struct {
	Error struct {
		Code    string            `json:"code"`
		Message string            `json:"message"`
		Details map[string]string `json:"details,omitempty"`
	} `json:"error"`
}

// CreateErrorResponse creates a standardized error response
func CreateErrorResponse(code string, message string, details map[string]string) *ErrorResponse {
	var resp ErrorResponse
	resp.Error.Code = code
	resp.Error.Message = message
	resp.Error.Details = details
	return &resp
}

// SendEngineError maps a coded engine error onto the HTTP error envelope.
func SendEngineError(c echo.Context, err error) error {
	code := ErrorCode(err)
	status := http.StatusInternalServerError
	var details map[string]string

	switch code {
	case CodeValidation:
		status = http.StatusBadRequest
	case CodeNotFound:
		status = http.StatusNotFound
	case CodeConflict:
		status = http.StatusConflict
	case CodeQuotaExceeded:
		status = http.StatusConflict
		var e *Error
		if errors.As(err, &e) {
			details = map[string]string{
				"used":  fmt.Sprintf("%d", e.Used),
				"limit": fmt.Sprintf("%d", e.Limit),
			}
		}
	case CodePlanExpired:
		status = http.StatusForbidden
	}

	return c.JSON(status, CreateErrorResponse(strings.ToUpper(code), ErrorMessage(err), details))
}

// SendValidationError sends a validation error response
func SendValidationError(c echo.Context, field, message string) error {
	details := map[string]string{
		field: message,
	}
	return c.JSON(http.StatusBadRequest, CreateErrorResponse("VALIDATION_ERROR", "Validation failed", details))
}

// SendServerError sends a server error response
func SendServerError(c echo.Context, message string) error {
	return c.JSON(http.StatusInternalServerError, CreateErrorResponse("SERVER_ERROR", message, nil))
}

// SendUnauthorizedError sends an unauthorized error response
func SendUnauthorizedError(c echo.Context) error {
	return c.JSON(http.StatusUnauthorized, CreateErrorResponse("UNAUTHORIZED", "Unauthorized access", nil))
}

// ValidateUUID validates UUID format
func ValidateUUID(idStr string, fieldName string) (uuid.UUID, error) {
	idStr = strings.TrimSpace(idStr)
	if idStr == "" {
		return uuid.Nil, fmt.Errorf("%s is required", fieldName)
	}
	id, err := uuid.Parse(idStr)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%s is not a valid UUID", fieldName)
	}
	return id, nil
}

// ValidateDate parses a YYYY-MM-DD date string with sanity bounds.
func ValidateDate(dateStr, fieldName string) (time.Time, error) {
	if strings.TrimSpace(dateStr) == "" {
		return time.Time{}, fmt.Errorf("%s is required", fieldName)
	}
	date, err := time.Parse("2006-01-02", dateStr)
	if err != nil {
		return time.Time{}, fmt.Errorf("%s must be in YYYY-MM-DD format", fieldName)
	}
	if date.After(time.Now().AddDate(2, 0, 0)) {
		return time.Time{}, fmt.Errorf("%s cannot be more than 2 years in the future", fieldName)
	}
	return date, nil
}

// ValidateClock parses an HH:MM time-of-day string.
func ValidateClock(clockStr, fieldName string) (string, error) {
	clockStr = strings.TrimSpace(clockStr)
	if clockStr == "" {
		return "", fmt.Errorf("%s is required", fieldName)
	}
	if _, err := time.Parse("15:04", clockStr); err != nil {
		return "", fmt.Errorf("%s must be in HH:MM format", fieldName)
	}
	return clockStr, nil
}

// ValidateWeekday checks a calendar weekday index (0=Monday..6=Sunday).
func ValidateWeekday(weekday int, fieldName string) error {
	if weekday < 0 || weekday > 6 {
		return fmt.Errorf("%s must be between 0 (Monday) and 6 (Sunday)", fieldName)
	}
	return nil
}

// ValidateDuration checks a service duration in minutes.
func ValidateDuration(minutes int, fieldName string) error {
	if minutes <= 0 {
		return fmt.Errorf("%s must be positive", fieldName)
	}
	if minutes > 8*60 {
		return fmt.Errorf("%s cannot exceed 8 hours", fieldName)
	}
	return nil
}

// ValidateRequiredString validates required string fields
func ValidateRequiredString(value, fieldName string) error {
	if strings.TrimSpace(value) == "" {
		return fmt.Errorf("%s is required", fieldName)
	}
	return nil
}

// GetTenantIDFromContext extracts the tenant ID from the request context
func GetTenantIDFromContext(ctx context.Context) (uuid.UUID, bool) {
	tenantID, ok := ctx.Value(TenantIDKey).(uuid.UUID)
	return tenantID, ok
}

// WithTenantID returns a context carrying the tenant ID.
func WithTenantID(ctx context.Context, tenantID uuid.UUID) context.Context {
	return context.WithValue(ctx, TenantIDKey, tenantID)
}

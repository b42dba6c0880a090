package types

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
)

// Error kinds surfaced by the API.
const (
	KindValidation     = "validation"
	KindAuth           = "auth"
	KindNotFound       = "not_found"
	KindDuplicateEmail = "duplicate_email"
	KindServer         = "server"
)

// AppError is the single error currency between services, handlers, and
// the central Fiber error handler.
type AppError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Kind    string `json:"kind"`
}

func (e *AppError) Error() string {
	return fmt.Sprintf("%d: %s [kind: %s]", e.Code, e.Message, e.Kind)
}

// NewValidationError reports bad or missing input.
func NewValidationError(message string) *AppError {
	return &AppError{Code: fiber.StatusBadRequest, Message: message, Kind: KindValidation}
}

// NewAuthError reports a missing, malformed, or invalid credential.
func NewAuthError(message string) *AppError {
	return &AppError{Code: fiber.StatusUnauthorized, Message: message, Kind: KindAuth}
}

// NewNotFoundError reports a scoped lookup miss.
func NewNotFoundError(message string) *AppError {
	return &AppError{Code: fiber.StatusNotFound, Message: message, Kind: KindNotFound}
}

// NewDuplicateEmailError reports an email uniqueness violation, whether it
// was caught by the fast-path check or by the storage constraint.
func NewDuplicateEmailError() *AppError {
	return &AppError{Code: fiber.StatusBadRequest, Message: "Email already registered", Kind: KindDuplicateEmail}
}

// NewServerError reports an unexpected failure with a generic message;
// details belong in the log, never in the response.
func NewServerError(message string) *AppError {
	return &AppError{Code: fiber.StatusInternalServerError, Message: message, Kind: KindServer}
}

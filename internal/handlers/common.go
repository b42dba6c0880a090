package handlers

import (
	"errors"
	"log"

	"github.com/agridata/farmtrack/internal/models"
	"github.com/agridata/farmtrack/internal/services"
	"github.com/agridata/farmtrack/internal/types"
)

// UserPayload is the user shape returned by the auth endpoints. The
// password hash never crosses this boundary.
type UserPayload struct {
	ID     uint        `json:"id"`
	Name   string      `json:"name"`
	Email  string      `json:"email"`
	Role   models.Role `json:"role"`
	FarmID *uint       `json:"farm_id"`
}

// AuthResponse pairs a freshly issued token with its user.
type AuthResponse struct {
	Token string      `json:"token"`
	User  UserPayload `json:"user"`
}

func newUserPayload(user *models.User) UserPayload {
	return UserPayload{
		ID:     user.ID,
		Name:   user.Username,
		Email:  user.Email,
		Role:   user.Role,
		FarmID: user.FarmID,
	}
}

// serverError logs the underlying cause and returns the generic 500.
func serverError(context string, err error) *types.AppError {
	log.Printf("Error %s: %v", context, err)
	return types.NewServerError("Internal server error")
}

// mapAuthServiceError maps the auth service sentinels onto API errors.
func mapAuthServiceError(context string, err error) *types.AppError {
	switch {
	case errors.Is(err, services.ErrDuplicateEmail):
		return types.NewDuplicateEmailError()
	case errors.Is(err, services.ErrFarmIDRequired):
		return types.NewValidationError("Farm ID is required for managers")
	case errors.Is(err, services.ErrInvalidCredentials):
		return types.NewValidationError("Invalid email or password")
	case errors.Is(err, services.ErrNotFound):
		return types.NewNotFoundError("User not found")
	default:
		return serverError(context, err)
	}
}

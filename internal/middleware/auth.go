package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/agridata/farmtrack/internal/auth"
	"github.com/agridata/farmtrack/internal/config"
	"github.com/agridata/farmtrack/internal/types"
)

const identityKey = "identity"

// Protected validates the bearer credential and stores the caller's
// identity in the request context. It is the sole authorization
// checkpoint; downstream handlers trust the identity unconditionally.
func Protected(cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		header := c.Get(fiber.HeaderAuthorization)
		if header == "" {
			return types.NewAuthError("No token provided")
		}

		parts := strings.Split(header, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			return types.NewAuthError("Invalid token format")
		}

		identity, err := auth.VerifyToken(cfg.JWTSecret, parts[1])
		if err != nil {
			return types.NewAuthError("Invalid or expired token")
		}

		c.Locals(identityKey, identity)
		return c.Next()
	}
}

// IdentityFromCtx returns the identity stored by Protected.
func IdentityFromCtx(c *fiber.Ctx) (auth.Identity, error) {
	identity, ok := c.Locals(identityKey).(auth.Identity)
	if !ok {
		return auth.Identity{}, types.NewAuthError("Unauthorized")
	}
	return identity, nil
}

// FarmIDFromCtx returns the caller's farm id, rejecting tokens that carry
// no tenant claim.
func FarmIDFromCtx(c *fiber.Ctx) (uint, error) {
	identity, err := IdentityFromCtx(c)
	if err != nil {
		return 0, err
	}
	if identity.FarmID == nil {
		return 0, types.NewValidationError("Missing farm_id in token")
	}
	return *identity.FarmID, nil
}

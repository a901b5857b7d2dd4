package auth

import (
	"github.com/gofiber/fiber/v2"

	"github.com/mediccare/platform/internal/domain"
	apperrors "github.com/mediccare/platform/pkg/util"
)

// RequireRole ensures the trusted identity has one of the allowed roles.
// It must run after RequireIdentity.
func RequireRole(allowed ...domain.Role) fiber.Handler {
	allowedSet := make(map[domain.Role]struct{}, len(allowed))
	for _, role := range allowed {
		allowedSet[role] = struct{}{}
	}

	return func(c *fiber.Ctx) error {
		identity, ok := IdentityFromContext(c)
		if !ok {
			return apperrors.NewUnauthorized("authentication required")
		}
		if len(allowedSet) == 0 {
			return c.Next()
		}
		if _, exists := allowedSet[identity.Role]; !exists {
			return apperrors.NewForbidden("insufficient role")
		}
		return c.Next()
	}
}

package auth

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/mediccare/platform/internal/domain"
	apperrors "github.com/mediccare/platform/pkg/util"
)

// Headers the gateway injects after verifying a bearer token. Services behind
// the gateway trust them without re-verifying; they must not be reachable
// except through the gateway.
const (
	HeaderLoggedInUser = "loggedInUser"
	HeaderUserRole     = "userRole"
)

const identityKey = "trusted_identity"

// IdentityFromHeaders reads the gateway-injected identity.
func IdentityFromHeaders(c *fiber.Ctx) (*domain.Identity, bool) {
	subject := strings.TrimSpace(c.Get(HeaderLoggedInUser))
	if subject == "" {
		return nil, false
	}
	role, err := domain.ParseRole(c.Get(HeaderUserRole))
	if err != nil {
		return nil, false
	}
	return &domain.Identity{Subject: subject, Role: role}, true
}

// RequireIdentity rejects requests that did not come through the gateway filter.
func RequireIdentity() fiber.Handler {
	return func(c *fiber.Ctx) error {
		identity, ok := IdentityFromHeaders(c)
		if !ok {
			return apperrors.NewUnauthorized("missing trusted identity")
		}
		c.Locals(identityKey, identity)
		return c.Next()
	}
}

// IdentityFromContext returns the identity stored by RequireIdentity.
func IdentityFromContext(c *fiber.Ctx) (*domain.Identity, bool) {
	val := c.Locals(identityKey)
	if val == nil {
		return nil, false
	}
	identity, ok := val.(*domain.Identity)
	return identity, ok
}

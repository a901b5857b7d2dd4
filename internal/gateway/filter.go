package gateway

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/mediccare/platform/internal/auth"
	apperrors "github.com/mediccare/platform/pkg/util"
)

const bearerPrefix = "bearer "

// PublicRoute is a method and exact path reachable without a token.
type PublicRoute struct {
	Method string
	Path   string
}

// DefaultPublicRoutes are the anonymous entry points of the platform.
var DefaultPublicRoutes = []PublicRoute{
	{Method: http.MethodPost, Path: "/auth/register"},
	{Method: http.MethodPost, Path: "/auth/login"},
}

// Filter authenticates every request before it is proxied. Client-supplied
// identity headers are always dropped; on success they are set from the
// verified token.
func Filter(tokens *auth.TokenManager, public []PublicRoute) fiber.Handler {
	open := make(map[string]struct{}, len(public))
	for _, route := range public {
		open[route.Method+" "+route.Path] = struct{}{}
	}

	return func(c *fiber.Ctx) error {
		c.Request().Header.Del(auth.HeaderLoggedInUser)
		c.Request().Header.Del(auth.HeaderUserRole)

		path := strings.TrimRight(c.Path(), "/")
		if _, ok := open[c.Method()+" "+path]; ok || strings.HasPrefix(c.Path(), "/health/") {
			return c.Next()
		}

		header := c.Get(fiber.HeaderAuthorization)
		if header == "" {
			return apperrors.NewUnauthorized("missing authorization header")
		}
		if len(header) <= len(bearerPrefix) || !strings.EqualFold(header[:len(bearerPrefix)], bearerPrefix) {
			return apperrors.NewUnauthorized("authorization header must use the Bearer scheme")
		}
		token := strings.TrimSpace(header[len(bearerPrefix):])
		if token == "" {
			return apperrors.NewUnauthorized("authorization header must use the Bearer scheme")
		}

		identity, err := tokens.Verify(token)
		if err != nil {
			return rejection(err)
		}

		c.Request().Header.Set(auth.HeaderLoggedInUser, identity.Subject)
		c.Request().Header.Set(auth.HeaderUserRole, string(identity.Role))
		return c.Next()
	}
}

func rejection(err error) error {
	var verr *auth.VerificationError
	if !errors.As(err, &verr) {
		return apperrors.NewUnauthorized("invalid token")
	}
	return apperrors.NewDomainError("UNAUTHORIZED", verr.Error(), http.StatusUnauthorized,
		map[string]any{"reason": string(verr.Kind)})
}

package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mediccare/platform/internal/domain"
	apperrors "github.com/mediccare/platform/pkg/util"
)

func guardedApp() *fiber.App {
	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			return c.SendStatus(apperrors.ToDomainError(err).HTTPStatus)
		},
	})
	app.Get("/me", RequireIdentity(), func(c *fiber.Ctx) error {
		identity, _ := IdentityFromContext(c)
		return c.SendString(identity.Subject + ":" + string(identity.Role))
	})
	app.Get("/admin", RequireIdentity(), RequireRole(domain.RoleAdmin), func(c *fiber.Ctx) error {
		return c.SendStatus(http.StatusNoContent)
	})
	return app
}

func TestRequireIdentity(t *testing.T) {
	app := guardedApp()

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/me", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set(HeaderLoggedInUser, "alice")
	req.Header.Set(HeaderUserRole, "patient")
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestRequireRole(t *testing.T) {
	app := guardedApp()

	req := httptest.NewRequest(http.MethodGet, "/admin", nil)
	req.Header.Set(HeaderLoggedInUser, "alice")
	req.Header.Set(HeaderUserRole, "PATIENT")
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	req = httptest.NewRequest(http.MethodGet, "/admin", nil)
	req.Header.Set(HeaderLoggedInUser, "root")
	req.Header.Set(HeaderUserRole, "ADMIN")
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
}

package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/mediccare/platform/internal/api/dto"
	"github.com/mediccare/platform/internal/auth"
	"github.com/mediccare/platform/internal/service"
	apperrors "github.com/mediccare/platform/pkg/util"
)

// AuthHandler exposes registration, login and self-service profile endpoints.
type AuthHandler struct {
	identity *service.IdentityService
}

// NewAuthHandler constructs handler.
func NewAuthHandler(identity *service.IdentityService) *AuthHandler {
	return &AuthHandler{identity: identity}
}

// Register handles POST /auth/register.
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req dto.RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}

	account, err := h.identity.Register(c.UserContext(), service.RegisterInput{
		Username: req.Username,
		Password: req.Password,
		Email:    req.Email,
		Role:     req.Role,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.NewAccountResponse(account)})
}

// Login handles POST /auth/login.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}

	result, err := h.identity.Authenticate(c.UserContext(), req.Username, req.Password)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.LoginResponse{
		Token:     result.Token,
		Username:  result.Username,
		Role:      result.Role,
		ExpiresAt: result.ExpiresAt,
	}})
}

// GetProfile handles GET /auth/profile.
func (h *AuthHandler) GetProfile(c *fiber.Ctx) error {
	identity, ok := auth.IdentityFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	view, err := h.identity.GetProfile(c.UserContext(), identity.Subject)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewProfileResponse(view)})
}

// UpdateProfile handles PUT /auth/profile.
func (h *AuthHandler) UpdateProfile(c *fiber.Ctx) error {
	identity, ok := auth.IdentityFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	fields := map[string]any{}
	if err := c.BodyParser(&fields); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	view, err := h.identity.UpdateProfile(c.UserContext(), identity.Subject, fields)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewProfileResponse(view)})
}

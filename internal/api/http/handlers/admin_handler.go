package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/mediccare/platform/internal/api/dto"
	"github.com/mediccare/platform/internal/domain"
	"github.com/mediccare/platform/internal/service"
)

// AdminHandler exposes account administration endpoints.
type AdminHandler struct {
	identity *service.IdentityService
}

// NewAdminHandler constructs handler.
func NewAdminHandler(identity *service.IdentityService) *AdminHandler {
	return &AdminHandler{identity: identity}
}

// ListAccounts handles GET /api/admin/accounts.
func (h *AdminHandler) ListAccounts(c *fiber.Ctx) error {
	accounts, err := h.identity.ListAccounts(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewAccountListResponse(accounts)})
}

// UpdateAccount handles PUT /api/admin/accounts/:id.
func (h *AdminHandler) UpdateAccount(c *fiber.Ctx) error {
	var req dto.UpdateAccountRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	account, err := h.identity.UpdateAccount(c.UserContext(), c.Params("id"), service.AccountPatch{
		Username: req.Username,
		Email:    req.Email,
		Role:     req.Role,
		Status:   req.Status,
	})
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewAccountResponse(account)})
}

// DeleteAccount handles DELETE /api/admin/accounts/:id.
func (h *AdminHandler) DeleteAccount(c *fiber.Ctx) error {
	if err := h.identity.DeleteAccount(c.UserContext(), c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}

// Suspend handles POST /api/admin/accounts/:id/suspend. An empty body suspends indefinitely.
func (h *AdminHandler) Suspend(c *fiber.Ctx) error {
	var req dto.SuspendRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(http.StatusBadRequest, "invalid payload")
		}
	}
	account, err := h.identity.Suspend(c.UserContext(), c.Params("id"), req.EndDate)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewAccountResponse(account)})
}

// Unsuspend handles POST /api/admin/accounts/:id/unsuspend.
func (h *AdminHandler) Unsuspend(c *fiber.Ctx) error {
	account, err := h.identity.Unsuspend(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewAccountResponse(account)})
}

// Approve handles POST /api/admin/accounts/:id/approve.
func (h *AdminHandler) Approve(c *fiber.Ctx) error {
	account, err := h.identity.ApproveDoctor(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewAccountResponse(account)})
}

// Stats handles GET /api/admin/stats.
func (h *AdminHandler) Stats(c *fiber.Ctx) error {
	stats, err := h.identity.Stats(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": stats})
}

// Roster handles GET /internal/accounts/roster?role=.
func (h *AdminHandler) Roster(c *fiber.Ctx) error {
	var role *domain.Role
	if raw := c.Query("role"); raw != "" {
		parsed, err := domain.ParseRole(raw)
		if err != nil {
			return err
		}
		role = &parsed
	}
	accounts, err := h.identity.Roster(c.UserContext(), role)
	if err != nil {
		return err
	}
	entries := make([]dto.RosterEntry, 0, len(accounts))
	for _, account := range accounts {
		entries = append(entries, dto.RosterEntry{
			Username: account.Username,
			Role:     account.Role,
			Status:   account.Status,
		})
	}
	return c.JSON(fiber.Map{"data": entries})
}

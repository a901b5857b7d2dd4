package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/mediccare/platform/internal/api/dto"
	"github.com/mediccare/platform/internal/auth"
	"github.com/mediccare/platform/internal/service"
	apperrors "github.com/mediccare/platform/pkg/util"
)

// PatientHandler exposes the patient profile service.
type PatientHandler struct {
	patients *service.PatientService
}

// NewPatientHandler constructs handler.
func NewPatientHandler(patients *service.PatientService) *PatientHandler {
	return &PatientHandler{patients: patients}
}

// CreateStub handles POST /internal/patients/stub.
func (h *PatientHandler) CreateStub(c *fiber.Ctx) error {
	var req dto.StubRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	patient, created, err := h.patients.EnsureStub(c.UserContext(), req.Username, req.Email)
	if err != nil {
		return err
	}
	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	return c.Status(status).JSON(fiber.Map{"data": patient.Fields()})
}

// GetByUsername handles GET /internal/patients/username/:username.
func (h *PatientHandler) GetByUsername(c *fiber.Ctx) error {
	patient, err := h.patients.GetByUsername(c.UserContext(), c.Params("username"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": patient.Fields()})
}

// UpdateByUsername handles PUT /internal/patients/username/:username.
func (h *PatientHandler) UpdateByUsername(c *fiber.Ctx) error {
	fields := map[string]any{}
	if err := c.BodyParser(&fields); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	patient, err := h.patients.UpdateByUsername(c.UserContext(), c.Params("username"), fields)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": patient.Fields()})
}

// GetOwnProfile handles GET /api/patients/profile for the caller named by the gateway.
func (h *PatientHandler) GetOwnProfile(c *fiber.Ctx) error {
	identity, ok := auth.IdentityFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	patient, err := h.patients.GetByUsername(c.UserContext(), identity.Subject)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": patient.Fields()})
}

// SaveOwnProfile handles PUT /api/patients/profile.
func (h *PatientHandler) SaveOwnProfile(c *fiber.Ctx) error {
	identity, ok := auth.IdentityFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	fields := map[string]any{}
	if err := c.BodyParser(&fields); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	patient, err := h.patients.SaveProfile(c.UserContext(), identity.Subject, fields)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": patient.Fields()})
}

// Count handles GET /internal/patients/count.
func (h *PatientHandler) Count(c *fiber.Ctx) error {
	n, err := h.patients.Count(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.CountResponse{Count: n}})
}

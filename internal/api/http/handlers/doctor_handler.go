package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/mediccare/platform/internal/api/dto"
	"github.com/mediccare/platform/internal/service"
)

// DoctorHandler exposes the doctor profile service.
type DoctorHandler struct {
	doctors *service.DoctorService
}

// NewDoctorHandler constructs handler.
func NewDoctorHandler(doctors *service.DoctorService) *DoctorHandler {
	return &DoctorHandler{doctors: doctors}
}

// CreateStub handles POST /internal/doctors/stub.
func (h *DoctorHandler) CreateStub(c *fiber.Ctx) error {
	var req dto.StubRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	doctor, created, err := h.doctors.EnsureStub(c.UserContext(), req.Username, req.Email)
	if err != nil {
		return err
	}
	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	return c.Status(status).JSON(fiber.Map{"data": doctor.Fields()})
}

// GetByUsername handles GET /internal/doctors/username/:username.
func (h *DoctorHandler) GetByUsername(c *fiber.Ctx) error {
	doctor, err := h.doctors.GetByUsername(c.UserContext(), c.Params("username"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": doctor.Fields()})
}

// UpdateByUsername handles PUT /internal/doctors/username/:username.
func (h *DoctorHandler) UpdateByUsername(c *fiber.Ctx) error {
	fields := map[string]any{}
	if err := c.BodyParser(&fields); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	doctor, err := h.doctors.UpdateByUsername(c.UserContext(), c.Params("username"), fields)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": doctor.Fields()})
}

// List handles GET /doctors/all.
func (h *DoctorHandler) List(c *fiber.Ctx) error {
	doctors, err := h.doctors.List(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.DoctorList(doctors)})
}

// ListActive handles GET /doctors/active.
func (h *DoctorHandler) ListActive(c *fiber.Ctx) error {
	doctors, err := h.doctors.ListActive(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.DoctorList(doctors)})
}

// Count handles GET /internal/doctors/count.
func (h *DoctorHandler) Count(c *fiber.Ctx) error {
	n, err := h.doctors.Count(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.CountResponse{Count: n}})
}

// Add handles POST /doctors/add. The body carries username plus profile fields.
func (h *DoctorHandler) Add(c *fiber.Ctx) error {
	fields := map[string]any{}
	if err := c.BodyParser(&fields); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	username, _ := fields["username"].(string)
	doctor, err := h.doctors.Create(c.UserContext(), username, fields)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": doctor.Fields()})
}

// Update handles PUT /doctors/update/:id.
func (h *DoctorHandler) Update(c *fiber.Ctx) error {
	fields := map[string]any{}
	if err := c.BodyParser(&fields); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	doctor, err := h.doctors.UpdateByID(c.UserContext(), c.Params("id"), fields)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": doctor.Fields()})
}

// Delete handles DELETE /doctors/delete/:id.
func (h *DoctorHandler) Delete(c *fiber.Ctx) error {
	if err := h.doctors.DeleteByID(c.UserContext(), c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}

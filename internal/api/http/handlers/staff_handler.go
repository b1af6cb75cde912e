package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/saihakukei971/Discord-X-Support-Hub/internal/api/dto"
	"github.com/saihakukei971/Discord-X-Support-Hub/internal/domain"
	"github.com/saihakukei971/Discord-X-Support-Hub/internal/service"
	apperrors "github.com/saihakukei971/Discord-X-Support-Hub/pkg/util"
)

// StaffHandler manages staff authentication endpoints.
type StaffHandler struct {
	auth *service.AuthService
}

// NewStaffHandler constructs handler.
func NewStaffHandler(auth *service.AuthService) *StaffHandler {
	return &StaffHandler{auth: auth}
}

// Login POST /auth/staff/login.
func (h *StaffHandler) Login(c *fiber.Ctx) error {
	var req dto.StaffLoginRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.Email == "" || req.Password == "" {
		return apperrors.NewValidationError("email and password required", nil)
	}

	staff, token, exp, err := h.auth.Login(c.UserContext(), req.Email, req.Password)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.StaffLoginResponse{
		Token:     token,
		ExpiresAt: exp,
		Name:      staff.Name,
		Role:      string(staff.Role),
	}})
}

// Register POST /auth/staff/register. Admin only.
func (h *StaffHandler) Register(c *fiber.Ctx) error {
	var req dto.RegisterStaffRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.Name == "" || req.Email == "" || req.Password == "" {
		return apperrors.NewValidationError("name, email and password required", nil)
	}

	role := domain.StaffRole(req.Role)
	if role != domain.StaffRoleAdmin && role != domain.StaffRoleAgent {
		role = domain.StaffRoleAgent
	}

	staff, err := h.auth.RegisterStaff(c.UserContext(), req.Name, req.Email, req.Password, role)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": fiber.Map{
		"id":    staff.ID,
		"name":  staff.Name,
		"email": staff.Email,
		"role":  staff.Role,
	}})
}

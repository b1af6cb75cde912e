package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/saihakukei971/Discord-X-Support-Hub/internal/api/dto"
	"github.com/saihakukei971/Discord-X-Support-Hub/internal/domain"
	"github.com/saihakukei971/Discord-X-Support-Hub/internal/service"
	apperrors "github.com/saihakukei971/Discord-X-Support-Hub/pkg/util"
)

// TemplatesHandler exposes reply template management.
type TemplatesHandler struct {
	templates *service.TemplateService
	lifecycle *service.LifecycleService
}

// NewTemplatesHandler constructs handler.
func NewTemplatesHandler(templates *service.TemplateService, lifecycle *service.LifecycleService) *TemplatesHandler {
	return &TemplatesHandler{templates: templates, lifecycle: lifecycle}
}

// List GET /templates. An optional category query param filters.
func (h *TemplatesHandler) List(c *fiber.Ctx) error {
	var (
		list []domain.Template
		err  error
	)
	if category := c.Query("category"); category != "" {
		list, err = h.templates.ListByCategory(c.UserContext(), domain.Category(category))
	} else {
		list, err = h.templates.List(c.UserContext())
	}
	if err != nil {
		return err
	}

	items := make([]dto.TemplateResponse, 0, len(list))
	for i := range list {
		items = append(items, dto.TemplateFromDomain(&list[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

// Add POST /templates.
func (h *TemplatesHandler) Add(c *fiber.Ctx) error {
	var req dto.AddTemplateRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	tpl, err := h.templates.Add(c.UserContext(), domain.Category(req.Category), req.Name, req.Body)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.TemplateFromDomain(tpl)})
}

// Delete DELETE /templates/:id.
func (h *TemplatesHandler) Delete(c *fiber.Ctx) error {
	if err := h.templates.Delete(c.UserContext(), c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}

// Apply POST /templates/:id/apply. Returns the template body with
// placeholders filled from the named ticket.
func (h *TemplatesHandler) Apply(c *fiber.Ctx) error {
	var req dto.ApplyTemplateRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.TicketID == "" {
		return apperrors.NewValidationError("ticket_id required", nil)
	}

	ticket, err := h.lifecycle.Get(c.UserContext(), req.TicketID)
	if err != nil {
		return err
	}
	body, err := h.templates.Apply(c.UserContext(), c.Params("id"), ticket)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"body": body}})
}

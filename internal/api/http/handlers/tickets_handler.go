package handlers

import (
	"net/http"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/saihakukei971/Discord-X-Support-Hub/internal/api/dto"
	"github.com/saihakukei971/Discord-X-Support-Hub/internal/auth"
	"github.com/saihakukei971/Discord-X-Support-Hub/internal/domain"
	"github.com/saihakukei971/Discord-X-Support-Hub/internal/service"
	apperrors "github.com/saihakukei971/Discord-X-Support-Hub/pkg/util"
)

// TicketsHandler exposes the staff ticket commands.
type TicketsHandler struct {
	lifecycle *service.LifecycleService
	templates *service.TemplateService
	stats     *service.StatsService
}

// NewTicketsHandler constructs handler.
func NewTicketsHandler(lifecycle *service.LifecycleService, templates *service.TemplateService, stats *service.StatsService) *TicketsHandler {
	return &TicketsHandler{lifecycle: lifecycle, templates: templates, stats: stats}
}

// GetTicket GET /tickets/:id.
func (h *TicketsHandler) GetTicket(c *fiber.Ctx) error {
	ticket, err := h.lifecycle.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.TicketFromDomain(ticket)})
}

// Assign POST /tickets/:id/assign.
func (h *TicketsHandler) Assign(c *fiber.Ctx) error {
	var req dto.AssignRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	ticket, err := h.lifecycle.Assign(c.UserContext(), actorName(c), c.Params("id"), req.Assignee)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.TicketFromDomain(ticket)})
}

// Respond POST /tickets/:id/respond. The body can name a template instead
// of free text; the template is filled from the ticket before recording.
func (h *TicketsHandler) Respond(c *fiber.Ctx) error {
	var req dto.RespondRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.Text == "" && req.TemplateID == "" {
		return apperrors.NewValidationError("text or template_id required", nil)
	}

	text := req.Text
	if req.TemplateID != "" {
		ticket, err := h.lifecycle.Get(c.UserContext(), c.Params("id"))
		if err != nil {
			return err
		}
		text, err = h.templates.Apply(c.UserContext(), req.TemplateID, ticket)
		if err != nil {
			return err
		}
	}

	ticket, err := h.lifecycle.Respond(c.UserContext(), actorName(c), c.Params("id"), text)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.TicketFromDomain(ticket)})
}

// SetStatus POST /tickets/:id/status.
func (h *TicketsHandler) SetStatus(c *fiber.Ctx) error {
	var req dto.StatusRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	ticket, err := h.lifecycle.SetStatus(c.UserContext(), actorName(c), c.Params("id"), domain.TicketStatus(req.Status))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.TicketFromDomain(ticket)})
}

// Resolve POST /tickets/:id/resolve.
func (h *TicketsHandler) Resolve(c *fiber.Ctx) error {
	ticket, err := h.lifecycle.Resolve(c.UserContext(), actorName(c), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.TicketFromDomain(ticket)})
}

// Search GET /tickets/search?q=...&limit=...
func (h *TicketsHandler) Search(c *fiber.Ctx) error {
	keyword := c.Query("q")
	if keyword == "" {
		return apperrors.NewValidationError("query parameter q required", nil)
	}
	limit, _ := strconv.Atoi(c.Query("limit", "20"))

	tickets, err := h.stats.Search(c.UserContext(), keyword, limit)
	if err != nil {
		return err
	}
	items := make([]dto.TicketResponse, 0, len(tickets))
	for i := range tickets {
		items = append(items, dto.TicketFromDomain(&tickets[i]))
	}
	return c.Status(http.StatusOK).JSON(fiber.Map{"data": items})
}

func actorName(c *fiber.Ctx) string {
	if principal, ok := auth.PrincipalFromContext(c); ok && principal.Staff != nil {
		return principal.Staff.Name
	}
	return "staff"
}

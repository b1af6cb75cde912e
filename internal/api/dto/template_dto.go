package dto

import (
	"time"

	"github.com/saihakukei971/Discord-X-Support-Hub/internal/domain"
)

// TemplateResponse is the wire form of a template.
type TemplateResponse struct {
	ID        string    `json:"id"`
	Category  string    `json:"category"`
	Name      string    `json:"name"`
	Body      string    `json:"body"`
	CreatedAt time.Time `json:"created_at"`
}

// TemplateFromDomain converts a domain template for the wire.
func TemplateFromDomain(t *domain.Template) TemplateResponse {
	return TemplateResponse{
		ID:        t.ID,
		Category:  string(t.Category),
		Name:      t.Name,
		Body:      t.Body,
		CreatedAt: t.CreatedAt,
	}
}

// AddTemplateRequest payload.
type AddTemplateRequest struct {
	Category string `json:"category"`
	Name     string `json:"name"`
	Body     string `json:"body"`
}

// ApplyTemplateRequest payload.
type ApplyTemplateRequest struct {
	TicketID string `json:"ticket_id"`
}

package dto

import (
	"time"

	"github.com/saihakukei971/Discord-X-Support-Hub/internal/domain"
)

// TicketResponse is the wire form of a ticket.
type TicketResponse struct {
	ID         string     `json:"id"`
	ReceivedAt time.Time  `json:"received_at"`
	Platform   string     `json:"platform"`
	Author     string     `json:"author"`
	Content    string     `json:"content"`
	Category   string     `json:"category"`
	Status     string     `json:"status"`
	Assignee   *string    `json:"assignee"`
	Response   *string    `json:"response"`
	ResolvedAt *time.Time `json:"resolved_at"`
	SourceURL  string     `json:"source_url"`
}

// TicketFromDomain converts a domain ticket for the wire.
func TicketFromDomain(t *domain.Ticket) TicketResponse {
	return TicketResponse{
		ID:         t.ID,
		ReceivedAt: t.ReceivedAt,
		Platform:   string(t.Platform),
		Author:     t.Author,
		Content:    t.Content,
		Category:   string(t.Category),
		Status:     string(t.Status),
		Assignee:   t.Assignee,
		Response:   t.Response,
		ResolvedAt: t.ResolvedAt,
		SourceURL:  t.SourceURL,
	}
}

// AssignRequest payload.
type AssignRequest struct {
	Assignee string `json:"assignee"`
}

// RespondRequest payload. Exactly one of Text or TemplateID drives the
// response body.
type RespondRequest struct {
	Text       string `json:"text"`
	TemplateID string `json:"template_id"`
}

// StatusRequest payload.
type StatusRequest struct {
	Status string `json:"status"`
}

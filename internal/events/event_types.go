package events

import (
	"time"

	"github.com/saihakukei971/Discord-X-Support-Hub/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventTicketCreated       EventType = "ticket_created"
	EventTicketAssigned      EventType = "ticket_assigned"
	EventTicketStatusChanged EventType = "ticket_status_changed"
	EventTicketResponded     EventType = "ticket_responded"
)

// Event represents a domain event emitted by services and the poller.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	TicketID  string      `json:"ticket_id"`
	Actor     string      `json:"actor"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// ActorSystem marks events raised by the polling worker rather than a
// staff member.
const ActorSystem = "system"

// TicketCreatedPayload payload.
type TicketCreatedPayload struct {
	Ticket *domain.Ticket `json:"ticket"`
}

// TicketAssignedPayload payload.
type TicketAssignedPayload struct {
	Assignee string `json:"assignee"`
}

// TicketStatusChangedPayload payload.
type TicketStatusChangedPayload struct {
	OldStatus domain.TicketStatus `json:"old_status"`
	NewStatus domain.TicketStatus `json:"new_status"`
}

// TicketRespondedPayload payload.
type TicketRespondedPayload struct {
	ResponsePreview string `json:"response_preview"`
}

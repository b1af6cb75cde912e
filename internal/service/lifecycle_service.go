package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/saihakukei971/Discord-X-Support-Hub/internal/domain"
	"github.com/saihakukei971/Discord-X-Support-Hub/internal/events"
	"github.com/saihakukei971/Discord-X-Support-Hub/internal/repository"
	apperrors "github.com/saihakukei971/Discord-X-Support-Hub/pkg/util"
)

// SocialReplier pushes a staff reply back to the source platform.
type SocialReplier interface {
	Reply(ctx context.Context, sourceID, text string) (string, error)
}

// LifecycleService applies staff actions to tickets, enforcing the status
// vocabulary. All mutations go through the storage collaborator; there is
// no in-process ticket cache.
type LifecycleService struct {
	tickets    repository.TicketRepository
	dispatcher events.Dispatcher
	replier    SocialReplier
	logger     *zap.Logger
	now        func() time.Time
}

// LifecycleDependencies bundles collaborators for the service.
type LifecycleDependencies struct {
	TicketRepo repository.TicketRepository
	Dispatcher events.Dispatcher
	Replier    SocialReplier
	Logger     *zap.Logger
	Now        func() time.Time
}

// NewLifecycleService constructs the service. Now may be nil, defaulting
// to time.Now.
func NewLifecycleService(deps LifecycleDependencies) *LifecycleService {
	now := deps.Now
	if now == nil {
		now = time.Now
	}
	return &LifecycleService{
		tickets:    deps.TicketRepo,
		dispatcher: deps.Dispatcher,
		replier:    deps.Replier,
		logger:     deps.Logger,
		now:        now,
	}
}

// Assign sets the assignee and stages the ticket to in_progress unless it
// already reached a terminal status.
func (s *LifecycleService) Assign(ctx context.Context, actor, ticketID, assignee string) (*domain.Ticket, error) {
	assignee = strings.TrimSpace(assignee)
	if assignee == "" {
		return nil, apperrors.NewInvalidArgument("assignee required", nil)
	}

	ticket, err := s.find(ctx, ticketID)
	if err != nil {
		return nil, err
	}

	ticket.Assignee = &assignee
	update := repository.TicketUpdate{Assignee: &assignee}
	if !ticket.Status.IsTerminal() {
		status := domain.TicketStatusInProgress
		ticket.Status = status
		update.Status = &status
	}

	if err := s.tickets.Update(ctx, ticket.ID, update); err != nil {
		return nil, s.mapStorageError(err, ticketID)
	}

	s.publish(ctx, events.Event{
		Type:     events.EventTicketAssigned,
		TicketID: ticket.ID,
		Actor:    actor,
		Payload:  events.TicketAssignedPayload{Assignee: assignee},
	})
	return ticket, nil
}

// Respond records a staff reply on the ticket and, when a social replier
// is wired, pushes it back to the source tweet. A failed push is logged
// but does not undo the recorded response.
func (s *LifecycleService) Respond(ctx context.Context, actor, ticketID, text string) (*domain.Ticket, error) {
	if strings.TrimSpace(text) == "" {
		return nil, apperrors.NewInvalidArgument("response text required", nil)
	}

	ticket, err := s.find(ctx, ticketID)
	if err != nil {
		return nil, err
	}

	ticket.Response = &text
	if err := s.tickets.Update(ctx, ticket.ID, repository.TicketUpdate{Response: &text}); err != nil {
		return nil, s.mapStorageError(err, ticketID)
	}

	if s.replier != nil && ticket.SourceID != "" {
		if _, err := s.replier.Reply(ctx, ticket.SourceID, text); err != nil {
			s.logger.Warn("reply push to source platform failed",
				zap.String("ticket_id", ticket.ID), zap.Error(err))
		}
	}

	s.publish(ctx, events.Event{
		Type:     events.EventTicketResponded,
		TicketID: ticket.ID,
		Actor:    actor,
		Payload:  events.TicketRespondedPayload{ResponsePreview: preview(text, 120)},
	})
	return ticket, nil
}

// SetStatus moves the ticket to the given status. Values outside the
// fixed vocabulary are rejected with an InvalidArgument error and leave
// the ticket unchanged. Transitions into resolved or closed also stamp
// resolved_at.
func (s *LifecycleService) SetStatus(ctx context.Context, actor, ticketID string, status domain.TicketStatus) (*domain.Ticket, error) {
	if !domain.IsValidStatus(status) {
		return nil, apperrors.NewInvalidArgument("invalid status", map[string]any{"status": string(status)})
	}

	ticket, err := s.find(ctx, ticketID)
	if err != nil {
		return nil, err
	}

	oldStatus := ticket.Status
	ticket.Status = status
	update := repository.TicketUpdate{Status: &status}
	if status.IsTerminal() {
		resolvedAt := s.now()
		ticket.ResolvedAt = &resolvedAt
		update.ResolvedAt = &resolvedAt
	}

	if err := s.tickets.Update(ctx, ticket.ID, update); err != nil {
		return nil, s.mapStorageError(err, ticketID)
	}

	s.publish(ctx, events.Event{
		Type:     events.EventTicketStatusChanged,
		TicketID: ticket.ID,
		Actor:    actor,
		Payload:  events.TicketStatusChangedPayload{OldStatus: oldStatus, NewStatus: status},
	})
	return ticket, nil
}

// Resolve is shorthand for SetStatus(resolved).
func (s *LifecycleService) Resolve(ctx context.Context, actor, ticketID string) (*domain.Ticket, error) {
	return s.SetStatus(ctx, actor, ticketID, domain.TicketStatusResolved)
}

// Get fetches a ticket by id.
func (s *LifecycleService) Get(ctx context.Context, ticketID string) (*domain.Ticket, error) {
	return s.find(ctx, ticketID)
}

func (s *LifecycleService) find(ctx context.Context, ticketID string) (*domain.Ticket, error) {
	ticket, err := s.tickets.GetByID(ctx, ticketID)
	if err != nil {
		return nil, s.mapStorageError(err, ticketID)
	}
	return ticket, nil
}

func (s *LifecycleService) mapStorageError(err error, ticketID string) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return apperrors.NewNotFound("ticket", map[string]any{"id": ticketID})
	}
	return err
}

func (s *LifecycleService) publish(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = s.now()
	}
	_ = s.dispatcher.Publish(ctx, event)
}

func preview(body string, max int) string {
	body = strings.TrimSpace(body)
	runes := []rune(body)
	if len(runes) <= max {
		return body
	}
	if max <= 3 {
		return string(runes[:max])
	}
	return string(runes[:max-3]) + "..."
}

package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/saihakukei971/Discord-X-Support-Hub/internal/domain"
	"github.com/saihakukei971/Discord-X-Support-Hub/internal/events"
)

// ChatNotifier is the chat-platform collaborator consumed by the
// notification layer.
type ChatNotifier interface {
	PostTicket(ctx context.Context, ticket *domain.Ticket) error
	Notify(ctx context.Context, text string) error
}

// NotificationService bridges domain events to the team chat tool.
type NotificationService struct {
	dispatcher events.Dispatcher
	chat       ChatNotifier
	logger     *zap.Logger
}

// NewNotificationService creates the service.
func NewNotificationService(dispatcher events.Dispatcher, chat ChatNotifier, logger *zap.Logger) *NotificationService {
	return &NotificationService{dispatcher: dispatcher, chat: chat, logger: logger}
}

// RegisterHandlers subscribes to events.
func (n *NotificationService) RegisterHandlers() {
	if n.dispatcher == nil {
		return
	}
	n.dispatcher.Subscribe(events.EventTicketCreated, n.handleTicketCreated)
	n.dispatcher.Subscribe(events.EventTicketAssigned, n.handleTicketAssigned)
	n.dispatcher.Subscribe(events.EventTicketStatusChanged, n.handleTicketStatusChanged)
	n.dispatcher.Subscribe(events.EventTicketResponded, n.handleTicketResponded)
}

func (n *NotificationService) handleTicketCreated(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.TicketCreatedPayload)
	if !ok || payload.Ticket == nil {
		n.logger.Warn("ticket created event without ticket payload", zap.String("ticket_id", event.TicketID))
		return nil
	}
	if err := n.chat.PostTicket(ctx, payload.Ticket); err != nil {
		n.logger.Error("forwarding ticket to chat failed",
			zap.String("ticket_id", event.TicketID), zap.Error(err))
		return err
	}
	return nil
}

func (n *NotificationService) handleTicketAssigned(ctx context.Context, event events.Event) error {
	payload, _ := event.Payload.(events.TicketAssignedPayload)
	text := fmt.Sprintf("📝 %s が問い合わせ %s を %s にアサインしました。", event.Actor, event.TicketID, payload.Assignee)
	return n.notify(ctx, event, text)
}

func (n *NotificationService) handleTicketStatusChanged(ctx context.Context, event events.Event) error {
	payload, _ := event.Payload.(events.TicketStatusChangedPayload)
	text := fmt.Sprintf("🔄 %s が問い合わせ %s のステータスを「%s」に更新しました。", event.Actor, event.TicketID, payload.NewStatus)
	return n.notify(ctx, event, text)
}

func (n *NotificationService) handleTicketResponded(ctx context.Context, event events.Event) error {
	text := fmt.Sprintf("✉️ %s が問い合わせ %s に返信を記録しました。", event.Actor, event.TicketID)
	return n.notify(ctx, event, text)
}

func (n *NotificationService) notify(ctx context.Context, event events.Event, text string) error {
	if err := n.chat.Notify(ctx, text); err != nil {
		n.logger.Error("chat notification failed",
			zap.String("ticket_id", event.TicketID),
			zap.String("event_type", string(event.Type)),
			zap.Error(err))
		return err
	}
	return nil
}

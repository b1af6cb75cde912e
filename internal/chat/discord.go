package chat

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"

	"github.com/saihakukei971/Discord-X-Support-Hub/internal/config"
	"github.com/saihakukei971/Discord-X-Support-Hub/internal/domain"
	apperrors "github.com/saihakukei971/Discord-X-Support-Hub/pkg/util"
)

// embed colors used by the webhook payloads.
const (
	colorBlue = 0x3498db
	colorGold = 0xf1c40f
)

type embedField struct {
	Name   string `json:"name"`
	Value  string `json:"value"`
	Inline bool   `json:"inline,omitempty"`
}

type embed struct {
	Title       string       `json:"title,omitempty"`
	Description string       `json:"description,omitempty"`
	Color       int          `json:"color,omitempty"`
	Fields      []embedField `json:"fields,omitempty"`
	Footer      *struct {
		Text string `json:"text"`
	} `json:"footer,omitempty"`
}

type webhookPayload struct {
	Content string  `json:"content,omitempty"`
	Embeds  []embed `json:"embeds,omitempty"`
}

// Notifier pushes tickets and staff notifications into the team chat via
// per-category webhooks.
type Notifier struct {
	http   *resty.Client
	cfg    config.ChatConfig
	logger *zap.Logger
}

// NewNotifier constructs the webhook notifier.
func NewNotifier(cfg config.ChatConfig, logger *zap.Logger) *Notifier {
	httpClient := resty.New().
		SetTimeout(time.Duration(cfg.TimeoutSeconds) * time.Second)
	return &Notifier{http: httpClient, cfg: cfg, logger: logger}
}

// PostTicket forwards a freshly triaged ticket to its category channel and
// drops a short line into the notifications channel. Billing and
// complaint tickets ping the channel.
func (n *Notifier) PostTicket(ctx context.Context, ticket *domain.Ticket) error {
	category := domain.NormalizeCategory(ticket.Category)
	webhook := n.webhookFor(category)
	if webhook == "" {
		n.logger.Warn("no chat webhook configured, ticket not forwarded",
			zap.String("ticket_id", ticket.ID), zap.String("category", string(category)))
		return nil
	}

	mention := ""
	if category == domain.CategoryComplaint || category == domain.CategoryBilling {
		mention = "@here"
	}

	fields := []embedField{
		{Name: "プラットフォーム", Value: "X (Twitter)", Inline: true},
		{Name: "ユーザー", Value: ticket.Author, Inline: true},
		{Name: "カテゴリ", Value: domain.CategoryLabels[category], Inline: true},
		{Name: "ステータス", Value: string(ticket.Status), Inline: true},
		{Name: "受信日時", Value: ticket.ReceivedAt.Format("2006-01-02 15:04"), Inline: true},
	}
	if ticket.SourceURL != "" {
		fields = append(fields, embedField{Name: "元ツイートURL", Value: ticket.SourceURL})
	}

	body := embed{
		Title:       fmt.Sprintf("新規問い合わせ: %s", ticket.ID),
		Description: ticket.Content,
		Color:       colorBlue,
		Fields:      fields,
	}
	body.Footer = &struct {
		Text string `json:"text"`
	}{Text: fmt.Sprintf("assign %s で担当者を割り当て", ticket.ID)}

	if err := n.send(ctx, webhook, webhookPayload{Content: mention, Embeds: []embed{body}}); err != nil {
		return err
	}

	notice := fmt.Sprintf("📢 新規問い合わせ %s が %s カテゴリに届きました。", ticket.ID, domain.CategoryLabels[category])
	return n.Notify(ctx, notice)
}

// Notify posts plain text to the notifications channel.
func (n *Notifier) Notify(ctx context.Context, text string) error {
	if n.cfg.NotificationsWebhook == "" {
		return nil
	}
	return n.send(ctx, n.cfg.NotificationsWebhook, webhookPayload{Content: text})
}

func (n *Notifier) webhookFor(category domain.Category) string {
	if url := n.cfg.CategoryWebhooks[string(category)]; url != "" {
		return url
	}
	return n.cfg.CategoryWebhooks[string(domain.CategoryGeneral)]
}

func (n *Notifier) send(ctx context.Context, webhook string, payload webhookPayload) error {
	resp, err := n.http.R().
		SetContext(ctx).
		SetBody(payload).
		Post(webhook)
	if err != nil {
		return apperrors.NewTransportError("chat webhook", err)
	}
	if resp.IsError() {
		return apperrors.NewTransportError("chat webhook", fmt.Errorf("status %d", resp.StatusCode()))
	}
	return nil
}

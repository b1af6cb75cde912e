package triage

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/saihakukei971/Discord-X-Support-Hub/internal/domain"
)

// fallbackAuthor is used when the originator cannot be resolved. Inbound
// message loss is worse than a partially-filled ticket.
const fallbackAuthor = "unknown user"

// AuthorResolver resolves a platform author id to a profile.
type AuthorResolver interface {
	ResolveAuthor(ctx context.Context, authorID string) (domain.AuthorProfile, error)
}

// Pipeline turns raw inbound messages into classified tickets. It performs
// no persistence or forwarding; those belong to the caller.
type Pipeline struct {
	classifier *Classifier
	resolver   AuthorResolver
	logger     *zap.Logger
	now        func() time.Time
}

// NewPipeline constructs the triage pipeline. now may be nil, defaulting
// to time.Now.
func NewPipeline(classifier *Classifier, resolver AuthorResolver, logger *zap.Logger, now func() time.Time) *Pipeline {
	if now == nil {
		now = time.Now
	}
	return &Pipeline{classifier: classifier, resolver: resolver, logger: logger, now: now}
}

// Triage produces a ticket from a raw message. It never fails: resolution
// errors degrade to placeholder fields and classification always yields a
// taxonomy member.
func (p *Pipeline) Triage(ctx context.Context, msg domain.RawMessage) *domain.Ticket {
	author := fallbackAuthor
	if p.resolver != nil && msg.AuthorID != "" {
		profile, err := p.resolver.ResolveAuthor(ctx, msg.AuthorID)
		if err != nil {
			p.logger.Warn("author resolution failed, using placeholder",
				zap.String("author_id", msg.AuthorID), zap.Error(err))
		} else if profile.Username != "" {
			author = "@" + profile.Username
		}
	}

	received := msg.CreatedAt
	if received.IsZero() {
		received = p.now()
	}

	category := p.classifier.Classify(msg.Text)
	if category == domain.CategoryGeneral {
		p.logger.Debug("classification fell back to general", zap.String("message_id", msg.ID))
	}

	sourceURL := ""
	if msg.ID != "" {
		sourceURL = fmt.Sprintf("https://twitter.com/user/status/%s", msg.ID)
	}

	return &domain.Ticket{
		ReceivedAt: received,
		Platform:   domain.PlatformX,
		Author:     author,
		AuthorID:   msg.AuthorID,
		Content:    msg.Text,
		Category:   category,
		Status:     domain.TicketStatusUnassigned,
		SourceID:   msg.ID,
		SourceURL:  sourceURL,
	}
}

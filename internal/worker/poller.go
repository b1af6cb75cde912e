package worker

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/saihakukei971/Discord-X-Support-Hub/internal/domain"
	"github.com/saihakukei971/Discord-X-Support-Hub/internal/events"
	"github.com/saihakukei971/Discord-X-Support-Hub/internal/observability"
)

// MessageSource fetches inbound messages newer than a checkpoint.
type MessageSource interface {
	FetchNewMessages(ctx context.Context, since time.Time) ([]domain.RawMessage, error)
}

// TriagePipeline turns a raw message into a ticket.
type TriagePipeline interface {
	Triage(ctx context.Context, msg domain.RawMessage) *domain.Ticket
}

// TicketStore appends tickets and returns the assigned id.
type TicketStore interface {
	Append(ctx context.Context, ticket *domain.Ticket) (string, error)
}

// StatsRefresher recomputes the daily rollup.
type StatsRefresher interface {
	RefreshStats(ctx context.Context) (*domain.DailyStats, error)
}

// Clock abstracts time for the poller so tests can pin the checkpoint.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// SystemClock returns the wall clock.
func SystemClock() Clock { return systemClock{} }

// Poller drives the ingestion cycle: fetch new mentions since the last
// checkpoint, triage and persist each, then sleep for the configured
// interval. Chat forwarding rides on the ticket created event.
type Poller struct {
	source     MessageSource
	pipeline   TriagePipeline
	store      TicketStore
	stats      StatsRefresher
	dispatcher events.Dispatcher
	metrics    *observability.Metrics
	logger     *zap.Logger
	clock      Clock
	interval   time.Duration

	checkpoint time.Time
}

// PollerDependencies bundles the poller's collaborators.
type PollerDependencies struct {
	Source     MessageSource
	Pipeline   TriagePipeline
	Store      TicketStore
	Stats      StatsRefresher
	Dispatcher events.Dispatcher
	Metrics    *observability.Metrics
	Logger     *zap.Logger
	Clock      Clock
	Interval   time.Duration
}

// NewPoller constructs the poller. Clock may be nil, defaulting to the
// wall clock. The initial checkpoint is construction time, so only
// messages arriving after startup are ingested.
func NewPoller(deps PollerDependencies) *Poller {
	clock := deps.Clock
	if clock == nil {
		clock = SystemClock()
	}
	return &Poller{
		source:     deps.Source,
		pipeline:   deps.Pipeline,
		store:      deps.Store,
		stats:      deps.Stats,
		dispatcher: deps.Dispatcher,
		metrics:    deps.Metrics,
		logger:     deps.Logger,
		clock:      clock,
		interval:   deps.Interval,
		checkpoint: clock.Now(),
	}
}

// Run loops cycles until the context is cancelled.
func (p *Poller) Run(ctx context.Context) {
	p.logger.Info("poller started", zap.Duration("interval", p.interval))
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		p.RunCycle(ctx)
		select {
		case <-ctx.Done():
			p.logger.Info("poller stopped")
			return
		case <-ticker.C:
		}
	}
}

// RunCycle executes one fetch-and-dispatch pass. The checkpoint advances
// to the cycle's start time before fetching, so messages arriving during
// the fetch are picked up by the next cycle rather than skipped.
func (p *Poller) RunCycle(ctx context.Context) {
	since := p.checkpoint
	p.checkpoint = p.clock.Now()

	messages, err := p.source.FetchNewMessages(ctx, since)
	if err != nil {
		p.logger.Warn("fetch cycle failed", zap.Error(err))
		if p.metrics != nil {
			p.metrics.RecordPollCycle(true)
		}
		return
	}
	if p.metrics != nil {
		p.metrics.RecordPollCycle(false)
	}
	if len(messages) == 0 {
		return
	}

	ingested := 0
	for _, msg := range messages {
		if err := p.dispatch(ctx, msg); err != nil {
			p.logger.Error("message dispatch failed",
				zap.String("message_id", msg.ID), zap.Error(err))
			continue
		}
		ingested++
	}
	p.logger.Info("poll cycle complete",
		zap.Int("fetched", len(messages)), zap.Int("ingested", ingested))

	if ingested > 0 && p.stats != nil {
		if _, err := p.stats.RefreshStats(ctx); err != nil {
			p.logger.Warn("stats refresh failed", zap.Error(err))
		}
	}
}

func (p *Poller) dispatch(ctx context.Context, msg domain.RawMessage) error {
	ticket := p.pipeline.Triage(ctx, msg)
	if _, err := p.store.Append(ctx, ticket); err != nil {
		return err
	}
	if p.metrics != nil {
		p.metrics.RecordTicketIngested()
	}

	if p.dispatcher != nil {
		_ = p.dispatcher.Publish(ctx, events.Event{
			ID:        uuid.NewString(),
			Type:      events.EventTicketCreated,
			TicketID:  ticket.ID,
			Actor:     events.ActorSystem,
			Timestamp: p.clock.Now(),
			Payload:   events.TicketCreatedPayload{Ticket: ticket},
		})
	}
	return nil
}

package service

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/saihakukei971/Discord-X-Support-Hub/internal/domain"
	"github.com/saihakukei971/Discord-X-Support-Hub/internal/events"
	"github.com/saihakukei971/Discord-X-Support-Hub/internal/repository"
	apperrors "github.com/saihakukei971/Discord-X-Support-Hub/pkg/util"
)

// memTicketRepo is an in-memory TicketRepository used across the service
// tests.
type memTicketRepo struct {
	tickets map[string]*domain.Ticket
	nextID  int
}

func newMemTicketRepo() *memTicketRepo {
	return &memTicketRepo{tickets: make(map[string]*domain.Ticket)}
}

func (r *memTicketRepo) Append(_ context.Context, ticket *domain.Ticket) (string, error) {
	r.nextID++
	ticket.ID = fmt.Sprintf("Q%03d", r.nextID)
	copied := *ticket
	r.tickets[ticket.ID] = &copied
	return ticket.ID, nil
}

func (r *memTicketRepo) GetByID(_ context.Context, id string) (*domain.Ticket, error) {
	ticket, ok := r.tickets[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := *ticket
	return &copied, nil
}

func (r *memTicketRepo) Update(_ context.Context, id string, update repository.TicketUpdate) error {
	ticket, ok := r.tickets[id]
	if !ok {
		return pgx.ErrNoRows
	}
	if update.Status != nil {
		ticket.Status = *update.Status
	}
	if update.Assignee != nil {
		ticket.Assignee = update.Assignee
	}
	if update.Response != nil {
		ticket.Response = update.Response
	}
	if update.ResolvedAt != nil {
		ticket.ResolvedAt = update.ResolvedAt
	}
	return nil
}

func (r *memTicketRepo) ListReceivedBetween(_ context.Context, from, to time.Time) ([]domain.Ticket, error) {
	var result []domain.Ticket
	for _, ticket := range r.tickets {
		if !ticket.ReceivedAt.Before(from) && ticket.ReceivedAt.Before(to) {
			result = append(result, *ticket)
		}
	}
	return result, nil
}

func (r *memTicketRepo) Search(_ context.Context, keyword string, limit int) ([]domain.Ticket, error) {
	var result []domain.Ticket
	for _, ticket := range r.tickets {
		if len(result) >= limit {
			break
		}
		result = append(result, *ticket)
	}
	return result, nil
}

func seedTicket(repo *memTicketRepo, status domain.TicketStatus) string {
	id, _ := repo.Append(context.Background(), &domain.Ticket{
		ReceivedAt: time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC),
		Platform:   domain.PlatformX,
		Author:     "@taro",
		Content:    "ログインできません",
		Category:   domain.CategoryTechnical,
		Status:     status,
		SourceID:   "1111",
	})
	return id
}

type recordingReplier struct {
	replies []string
	err     error
}

func (r *recordingReplier) Reply(_ context.Context, _, text string) (string, error) {
	if r.err != nil {
		return "", r.err
	}
	r.replies = append(r.replies, text)
	return "2222", nil
}

func newLifecycleFixture(repo *memTicketRepo, replier SocialReplier) (*LifecycleService, *[]events.Event) {
	dispatcher := events.NewInMemoryDispatcher(zap.NewNop())
	var published []events.Event
	for _, eventType := range []events.EventType{
		events.EventTicketAssigned,
		events.EventTicketStatusChanged,
		events.EventTicketResponded,
	} {
		dispatcher.Subscribe(eventType, func(_ context.Context, e events.Event) error {
			published = append(published, e)
			return nil
		})
	}

	svc := NewLifecycleService(LifecycleDependencies{
		TicketRepo: repo,
		Dispatcher: dispatcher,
		Replier:    replier,
		Logger:     zap.NewNop(),
		Now:        func() time.Time { return time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC) },
	})
	return svc, &published
}

func TestAssignStagesInProgress(t *testing.T) {
	repo := newMemTicketRepo()
	id := seedTicket(repo, domain.TicketStatusUnassigned)
	svc, published := newLifecycleFixture(repo, nil)

	ticket, err := svc.Assign(context.Background(), "hanako", id, "yamada")
	require.NoError(t, err)

	assert.Equal(t, domain.TicketStatusInProgress, ticket.Status)
	require.NotNil(t, ticket.Assignee)
	assert.Equal(t, "yamada", *ticket.Assignee)

	stored, _ := repo.GetByID(context.Background(), id)
	assert.Equal(t, domain.TicketStatusInProgress, stored.Status)

	require.Len(t, *published, 1)
	assert.Equal(t, events.EventTicketAssigned, (*published)[0].Type)
	assert.Equal(t, "hanako", (*published)[0].Actor)
}

func TestAssignKeepsTerminalStatus(t *testing.T) {
	repo := newMemTicketRepo()
	id := seedTicket(repo, domain.TicketStatusResolved)
	svc, _ := newLifecycleFixture(repo, nil)

	ticket, err := svc.Assign(context.Background(), "hanako", id, "yamada")
	require.NoError(t, err)

	assert.Equal(t, domain.TicketStatusResolved, ticket.Status)
	require.NotNil(t, ticket.Assignee)
	assert.Equal(t, "yamada", *ticket.Assignee)
}

func TestAssignUnknownTicket(t *testing.T) {
	svc, _ := newLifecycleFixture(newMemTicketRepo(), nil)

	_, err := svc.Assign(context.Background(), "hanako", "Q999", "yamada")
	assert.True(t, apperrors.IsNotFound(err))
}

func TestSetStatusRejectsUnknownValue(t *testing.T) {
	repo := newMemTicketRepo()
	id := seedTicket(repo, domain.TicketStatusUnassigned)
	svc, published := newLifecycleFixture(repo, nil)

	_, err := svc.SetStatus(context.Background(), "hanako", id, domain.TicketStatus("escalated"))
	require.Error(t, err)

	var domainErr *apperrors.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "INVALID_ARGUMENT", domainErr.Code)

	stored, _ := repo.GetByID(context.Background(), id)
	assert.Equal(t, domain.TicketStatusUnassigned, stored.Status)
	assert.Empty(t, *published)
}

func TestResolveStampsResolvedAt(t *testing.T) {
	repo := newMemTicketRepo()
	id := seedTicket(repo, domain.TicketStatusInProgress)
	svc, published := newLifecycleFixture(repo, nil)

	ticket, err := svc.Resolve(context.Background(), "hanako", id)
	require.NoError(t, err)

	assert.Equal(t, domain.TicketStatusResolved, ticket.Status)
	require.NotNil(t, ticket.ResolvedAt)
	assert.Equal(t, time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC), *ticket.ResolvedAt)

	require.Len(t, *published, 1)
	payload, ok := (*published)[0].Payload.(events.TicketStatusChangedPayload)
	require.True(t, ok)
	assert.Equal(t, domain.TicketStatusInProgress, payload.OldStatus)
	assert.Equal(t, domain.TicketStatusResolved, payload.NewStatus)
}

func TestRespondRecordsAndPushesReply(t *testing.T) {
	repo := newMemTicketRepo()
	id := seedTicket(repo, domain.TicketStatusInProgress)
	replier := &recordingReplier{}
	svc, published := newLifecycleFixture(repo, replier)

	ticket, err := svc.Respond(context.Background(), "hanako", id, "お問い合わせありがとうございます。")
	require.NoError(t, err)

	require.NotNil(t, ticket.Response)
	assert.Equal(t, []string{"お問い合わせありがとうございます。"}, replier.replies)
	require.Len(t, *published, 1)
	assert.Equal(t, events.EventTicketResponded, (*published)[0].Type)
}

func TestRespondSurvivesReplyPushFailure(t *testing.T) {
	repo := newMemTicketRepo()
	id := seedTicket(repo, domain.TicketStatusInProgress)
	replier := &recordingReplier{err: errors.New("rate limited")}
	svc, _ := newLifecycleFixture(repo, replier)

	ticket, err := svc.Respond(context.Background(), "hanako", id, "確認します。")
	require.NoError(t, err)

	stored, _ := repo.GetByID(context.Background(), ticket.ID)
	require.NotNil(t, stored.Response)
	assert.Equal(t, "確認します。", *stored.Response)
}

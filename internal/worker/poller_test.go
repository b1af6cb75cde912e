package worker

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/saihakukei971/Discord-X-Support-Hub/internal/domain"
	"github.com/saihakukei971/Discord-X-Support-Hub/internal/events"
)

type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time { return c.now }

func (c *fakeClock) advance(d time.Duration) { c.now = c.now.Add(d) }

type fakeSource struct {
	sinces  []time.Time
	batches [][]domain.RawMessage
	errs    []error
	callIdx int
}

func (s *fakeSource) FetchNewMessages(_ context.Context, since time.Time) ([]domain.RawMessage, error) {
	s.sinces = append(s.sinces, since)
	idx := s.callIdx
	s.callIdx++
	var batch []domain.RawMessage
	if idx < len(s.batches) {
		batch = s.batches[idx]
	}
	var err error
	if idx < len(s.errs) {
		err = s.errs[idx]
	}
	return batch, err
}

type fakePipeline struct{}

func (fakePipeline) Triage(_ context.Context, msg domain.RawMessage) *domain.Ticket {
	return &domain.Ticket{
		ReceivedAt: msg.CreatedAt,
		Platform:   domain.PlatformX,
		Author:     "@someone",
		AuthorID:   msg.AuthorID,
		Content:    msg.Text,
		Category:   domain.CategoryGeneral,
		Status:     domain.TicketStatusUnassigned,
		SourceID:   msg.ID,
	}
}

type fakeStore struct {
	appended []*domain.Ticket
	failFor  map[string]error
	next     int
}

func (s *fakeStore) Append(_ context.Context, ticket *domain.Ticket) (string, error) {
	if err, ok := s.failFor[ticket.SourceID]; ok {
		return "", err
	}
	s.next++
	ticket.ID = time.Now().Format("Q") + string(rune('0'+s.next))
	s.appended = append(s.appended, ticket)
	return ticket.ID, nil
}

type fakeStats struct {
	refreshes int
}

func (s *fakeStats) RefreshStats(_ context.Context) (*domain.DailyStats, error) {
	s.refreshes++
	return &domain.DailyStats{}, nil
}

func newTestPoller(source MessageSource, store *fakeStore, stats *fakeStats, clock Clock, dispatcher events.Dispatcher) *Poller {
	return NewPoller(PollerDependencies{
		Source:     source,
		Pipeline:   fakePipeline{},
		Store:      store,
		Stats:      stats,
		Dispatcher: dispatcher,
		Logger:     zap.NewNop(),
		Clock:      clock,
		Interval:   10 * time.Minute,
	})
}

func TestPollerIngestsBatch(t *testing.T) {
	clock := &fakeClock{now: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)}
	source := &fakeSource{batches: [][]domain.RawMessage{{
		{ID: "1001", AuthorID: "77", Text: "ログインできません", CreatedAt: clock.now},
		{ID: "1002", AuthorID: "88", Text: "返金してほしい", CreatedAt: clock.now},
	}}}
	store := &fakeStore{}
	stats := &fakeStats{}

	dispatcher := events.NewInMemoryDispatcher(zap.NewNop())
	var created []events.Event
	dispatcher.Subscribe(events.EventTicketCreated, func(_ context.Context, e events.Event) error {
		created = append(created, e)
		return nil
	})

	poller := newTestPoller(source, store, stats, clock, dispatcher)
	poller.RunCycle(context.Background())

	require.Len(t, store.appended, 2)
	assert.Len(t, created, 2)
	assert.Equal(t, 1, stats.refreshes)
	for _, e := range created {
		assert.Equal(t, events.ActorSystem, e.Actor)
		assert.NotEmpty(t, e.ID)
	}
}

func TestPollerAdvancesCheckpointBeforeFetch(t *testing.T) {
	start := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	clock := &fakeClock{now: start}
	source := &fakeSource{}
	poller := newTestPoller(source, &fakeStore{}, &fakeStats{}, clock, nil)

	clock.advance(10 * time.Minute)
	poller.RunCycle(context.Background())
	clock.advance(10 * time.Minute)
	poller.RunCycle(context.Background())

	require.Len(t, source.sinces, 2)
	assert.Equal(t, start, source.sinces[0])
	assert.Equal(t, start.Add(10*time.Minute), source.sinces[1])
}

func TestPollerFetchFailureSkipsCycle(t *testing.T) {
	start := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	clock := &fakeClock{now: start}
	source := &fakeSource{errs: []error{errors.New("timeout")}}
	store := &fakeStore{}
	stats := &fakeStats{}
	poller := newTestPoller(source, store, stats, clock, nil)

	clock.advance(10 * time.Minute)
	poller.RunCycle(context.Background())

	assert.Empty(t, store.appended)
	assert.Zero(t, stats.refreshes)

	// failed cycle still moved the checkpoint to its start time
	clock.advance(10 * time.Minute)
	poller.RunCycle(context.Background())
	require.Len(t, source.sinces, 2)
	assert.Equal(t, start.Add(10*time.Minute), source.sinces[1])
}

func TestPollerIsolatesPerMessageFailures(t *testing.T) {
	clock := &fakeClock{now: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)}
	source := &fakeSource{batches: [][]domain.RawMessage{{
		{ID: "bad", AuthorID: "1", Text: "x"},
		{ID: "good", AuthorID: "2", Text: "y"},
	}}}
	store := &fakeStore{failFor: map[string]error{"bad": errors.New("write conflict")}}
	stats := &fakeStats{}
	poller := newTestPoller(source, store, stats, clock, nil)

	poller.RunCycle(context.Background())

	require.Len(t, store.appended, 1)
	assert.Equal(t, "good", store.appended[0].SourceID)
	assert.Equal(t, 1, stats.refreshes)
}

func TestPollerEmptyBatchSkipsStats(t *testing.T) {
	clock := &fakeClock{now: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)}
	source := &fakeSource{batches: [][]domain.RawMessage{{}}}
	stats := &fakeStats{}
	poller := newTestPoller(source, &fakeStore{}, stats, clock, nil)

	poller.RunCycle(context.Background())
	assert.Zero(t, stats.refreshes)
}

func TestPollerHandlerFailureDoesNotBlockIngestion(t *testing.T) {
	clock := &fakeClock{now: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)}
	source := &fakeSource{batches: [][]domain.RawMessage{{
		{ID: "1003", AuthorID: "5", Text: "アプリが落ちる"},
		{ID: "1004", AuthorID: "6", Text: "使い方を教えてください"},
	}}}
	store := &fakeStore{}
	stats := &fakeStats{}

	dispatcher := events.NewInMemoryDispatcher(zap.NewNop())
	dispatcher.Subscribe(events.EventTicketCreated, func(context.Context, events.Event) error {
		return errors.New("webhook 500")
	})

	poller := newTestPoller(source, store, stats, clock, dispatcher)
	poller.RunCycle(context.Background())

	require.Len(t, store.appended, 2)
	assert.Equal(t, 1, stats.refreshes)
}

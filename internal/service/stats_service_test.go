package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/saihakukei971/Discord-X-Support-Hub/internal/domain"
)

type memStatsRepo struct {
	rows map[string]*domain.DailyStats
}

func newMemStatsRepo() *memStatsRepo {
	return &memStatsRepo{rows: make(map[string]*domain.DailyStats)}
}

func (r *memStatsRepo) Upsert(_ context.Context, stats *domain.DailyStats) error {
	copied := *stats
	r.rows[stats.Date] = &copied
	return nil
}

func (r *memStatsRepo) GetByDate(_ context.Context, date string) (*domain.DailyStats, error) {
	row, ok := r.rows[date]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := *row
	return &copied, nil
}

var statsNow = time.Date(2024, 5, 1, 18, 0, 0, 0, time.UTC)

func addTicket(repo *memTicketRepo, receivedAt time.Time, category domain.Category, status domain.TicketStatus, resolvedAfter time.Duration) {
	ticket := &domain.Ticket{
		ReceivedAt: receivedAt,
		Platform:   domain.PlatformX,
		Author:     "@someone",
		Content:    "製品が動きません",
		Category:   category,
		Status:     status,
	}
	if resolvedAfter > 0 {
		resolvedAt := receivedAt.Add(resolvedAfter)
		ticket.ResolvedAt = &resolvedAt
	}
	_, _ = repo.Append(context.Background(), ticket)
}

func newStatsFixture() (*StatsService, *memTicketRepo, *memStatsRepo) {
	tickets := newMemTicketRepo()
	stats := newMemStatsRepo()
	svc := NewStatsService(tickets, stats, zap.NewNop(), func() time.Time { return statsNow })
	return svc, tickets, stats
}

func TestRefreshStatsRollsUpToday(t *testing.T) {
	svc, tickets, statsRepo := newStatsFixture()
	today := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)

	addTicket(tickets, today, domain.CategoryTechnical, domain.TicketStatusResolved, 30*time.Minute)
	addTicket(tickets, today.Add(time.Hour), domain.CategoryTechnical, domain.TicketStatusUnassigned, 0)
	addTicket(tickets, today.Add(2*time.Hour), domain.CategoryBilling, domain.TicketStatusResolved, 90*time.Minute)
	// yesterday's ticket stays out of today's rollup
	addTicket(tickets, today.AddDate(0, 0, -1), domain.CategoryGeneral, domain.TicketStatusResolved, time.Hour)

	rollup, err := svc.RefreshStats(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "2024-05-01", rollup.Date)
	assert.Equal(t, 3, rollup.TotalTickets)
	assert.Equal(t, 2, rollup.ResolvedTickets)
	assert.InDelta(t, 60.0, rollup.AvgResolutionMinutes, 0.001)
	assert.Equal(t, "technical", rollup.TopCategory)

	stored, err := statsRepo.GetByDate(context.Background(), "2024-05-01")
	require.NoError(t, err)
	assert.Equal(t, rollup.TotalTickets, stored.TotalTickets)
}

func TestTodayStatsRefreshesWhenAbsent(t *testing.T) {
	svc, tickets, statsRepo := newStatsFixture()
	addTicket(tickets, statsNow.Add(-time.Hour), domain.CategoryProduct, domain.TicketStatusUnassigned, 0)

	stats, err := svc.TodayStats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, stats.TotalTickets)

	_, err = statsRepo.GetByDate(context.Background(), "2024-05-01")
	assert.NoError(t, err)
}

func TestAnalyzeWeek(t *testing.T) {
	svc, tickets, _ := newStatsFixture()

	// two in the older half, four in the recent half
	addTicket(tickets, statsNow.AddDate(0, 0, -6), domain.CategoryGeneral, domain.TicketStatusResolved, time.Hour)
	addTicket(tickets, statsNow.AddDate(0, 0, -5), domain.CategoryComplaint, domain.TicketStatusClosed, 2*time.Hour)
	addTicket(tickets, statsNow.AddDate(0, 0, -2), domain.CategoryComplaint, domain.TicketStatusUnassigned, 0)
	addTicket(tickets, statsNow.AddDate(0, 0, -1), domain.CategoryComplaint, domain.TicketStatusUnassigned, 0)
	addTicket(tickets, statsNow.Add(-10*time.Hour), domain.CategoryTechnical, domain.TicketStatusUnassigned, 0)
	addTicket(tickets, statsNow.Add(-2*time.Hour), domain.CategoryTechnical, domain.TicketStatusUnassigned, 0)

	report, err := svc.Analyze(context.Background(), PeriodWeek)
	require.NoError(t, err)

	assert.Equal(t, 6, report.TotalTickets)
	assert.Equal(t, 2, report.ResolvedTickets)
	assert.InDelta(t, 33.333, report.ResolutionRate, 0.01)
	assert.InDelta(t, 90.0, report.AvgResolutionMinutes, 0.001)
	assert.Equal(t, "増加傾向", report.Trend)

	complaint := report.Categories[domain.CategoryComplaint]
	assert.Equal(t, 3, complaint.Count)
	assert.InDelta(t, 50.0, complaint.Percentage, 0.001)
}

func TestAnalyzeRejectsUnknownPeriod(t *testing.T) {
	svc, _, _ := newStatsFixture()
	_, err := svc.Analyze(context.Background(), AnalysisPeriod("quarter"))
	assert.Error(t, err)
}

func TestExportCSV(t *testing.T) {
	svc, tickets, _ := newStatsFixture()
	addTicket(tickets, statsNow.Add(-time.Hour), domain.CategoryBilling, domain.TicketStatusResolved, 15*time.Minute)

	data, err := svc.ExportCSV(context.Background(), statsNow.AddDate(0, 0, -7), statsNow)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "id,received_at,author,content,category,status,assignee,response,resolved_at", lines[0])
	assert.Contains(t, lines[1], "billing")
	assert.Contains(t, lines[1], "resolved")
}

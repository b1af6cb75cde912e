package service

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/saihakukei971/Discord-X-Support-Hub/internal/domain"
	"github.com/saihakukei971/Discord-X-Support-Hub/internal/repository"
	apperrors "github.com/saihakukei971/Discord-X-Support-Hub/pkg/util"
)

// AnalysisPeriod selects the window for Analyze.
type AnalysisPeriod string

const (
	PeriodDay   AnalysisPeriod = "day"
	PeriodWeek  AnalysisPeriod = "week"
	PeriodMonth AnalysisPeriod = "month"
	PeriodYear  AnalysisPeriod = "year"
)

// StatsService computes rollups and reports over the ticket store.
type StatsService struct {
	tickets repository.TicketRepository
	stats   repository.StatsRepository
	logger  *zap.Logger
	now     func() time.Time
}

// NewStatsService constructs the service. now may be nil.
func NewStatsService(tickets repository.TicketRepository, stats repository.StatsRepository, logger *zap.Logger, now func() time.Time) *StatsService {
	if now == nil {
		now = time.Now
	}
	return &StatsService{tickets: tickets, stats: stats, logger: logger, now: now}
}

// RefreshStats recomputes today's rollup row from the ticket store and
// upserts it keyed by date.
func (s *StatsService) RefreshStats(ctx context.Context) (*domain.DailyStats, error) {
	now := s.now()
	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	tickets, err := s.tickets.ListReceivedBetween(ctx, dayStart, dayStart.Add(24*time.Hour))
	if err != nil {
		return nil, err
	}

	rollup := buildRollup(dayStart.Format("2006-01-02"), tickets)
	if err := s.stats.Upsert(ctx, rollup); err != nil {
		return nil, err
	}
	s.logger.Debug("daily stats refreshed",
		zap.String("date", rollup.Date),
		zap.Int("total", rollup.TotalTickets),
		zap.Int("resolved", rollup.ResolvedTickets))
	return rollup, nil
}

// TodayStats reads today's rollup row, refreshing it first when absent.
func (s *StatsService) TodayStats(ctx context.Context) (*domain.DailyStats, error) {
	date := s.now().Format("2006-01-02")
	stats, err := s.stats.GetByDate(ctx, date)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return s.RefreshStats(ctx)
		}
		return nil, err
	}
	return stats, nil
}

// Analyze summarizes ticket activity over a relative period ending now.
func (s *StatsService) Analyze(ctx context.Context, period AnalysisPeriod) (*domain.AnalysisReport, error) {
	end := s.now()
	var start time.Time
	switch period {
	case PeriodDay:
		start = end.AddDate(0, 0, -1)
	case PeriodWeek:
		start = end.AddDate(0, 0, -7)
	case PeriodMonth:
		start = end.AddDate(0, -1, 0)
	case PeriodYear:
		start = end.AddDate(-1, 0, 0)
	default:
		return nil, apperrors.NewInvalidArgument("invalid analysis period", map[string]any{"period": string(period)})
	}

	tickets, err := s.tickets.ListReceivedBetween(ctx, start, end)
	if err != nil {
		return nil, err
	}

	report := &domain.AnalysisReport{
		StartDate:    start,
		EndDate:      end,
		TotalTickets: len(tickets),
		Categories:   make(map[domain.Category]domain.CategoryShare),
	}

	var resolutionTotal time.Duration
	var resolvedWithTime int
	counts := make(map[domain.Category]int)
	var firstHalf, secondHalf int
	mid := start.Add(end.Sub(start) / 2)

	for _, t := range tickets {
		counts[t.Category]++
		if t.Status.IsTerminal() {
			report.ResolvedTickets++
		}
		if t.ResolvedAt != nil {
			resolutionTotal += t.ResolvedAt.Sub(t.ReceivedAt)
			resolvedWithTime++
		}
		if t.ReceivedAt.Before(mid) {
			firstHalf++
		} else {
			secondHalf++
		}
	}

	if report.TotalTickets > 0 {
		report.ResolutionRate = float64(report.ResolvedTickets) / float64(report.TotalTickets) * 100
		for category, count := range counts {
			report.Categories[category] = domain.CategoryShare{
				Count:      count,
				Percentage: float64(count) / float64(report.TotalTickets) * 100,
			}
		}
	}
	if resolvedWithTime > 0 {
		report.AvgResolutionMinutes = resolutionTotal.Minutes() / float64(resolvedWithTime)
	}
	report.Trend = trendLabel(firstHalf, secondHalf)
	return report, nil
}

// Search finds tickets whose content, author or category matches keyword.
func (s *StatsService) Search(ctx context.Context, keyword string, limit int) ([]domain.Ticket, error) {
	if limit <= 0 {
		limit = 20
	}
	return s.tickets.Search(ctx, keyword, limit)
}

// ExportCSV renders all tickets in the window as CSV with a header row.
func (s *StatsService) ExportCSV(ctx context.Context, from, to time.Time) ([]byte, error) {
	tickets, err := s.tickets.ListReceivedBetween(ctx, from, to)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	header := []string{"id", "received_at", "author", "content", "category", "status", "assignee", "response", "resolved_at"}
	if err := w.Write(header); err != nil {
		return nil, err
	}
	for _, t := range tickets {
		assignee, response, resolvedAt := "", "", ""
		if t.Assignee != nil {
			assignee = *t.Assignee
		}
		if t.Response != nil {
			response = *t.Response
		}
		if t.ResolvedAt != nil {
			resolvedAt = t.ResolvedAt.Format(time.RFC3339)
		}
		record := []string{
			t.ID,
			t.ReceivedAt.Format(time.RFC3339),
			t.Author,
			t.Content,
			string(t.Category),
			string(t.Status),
			assignee,
			response,
			resolvedAt,
		}
		if err := w.Write(record); err != nil {
			return nil, err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func buildRollup(date string, tickets []domain.Ticket) *domain.DailyStats {
	rollup := &domain.DailyStats{Date: date, TotalTickets: len(tickets)}

	counts := make(map[domain.Category]int)
	var resolutionTotal time.Duration
	var resolvedWithTime int
	for _, t := range tickets {
		counts[t.Category]++
		if t.Status.IsTerminal() {
			rollup.ResolvedTickets++
		}
		if t.ResolvedAt != nil {
			resolutionTotal += t.ResolvedAt.Sub(t.ReceivedAt)
			resolvedWithTime++
		}
	}
	if resolvedWithTime > 0 {
		rollup.AvgResolutionMinutes = resolutionTotal.Minutes() / float64(resolvedWithTime)
	}

	topCount := 0
	for _, category := range domain.Categories {
		if counts[category] > topCount {
			topCount = counts[category]
			rollup.TopCategory = string(category)
		}
	}
	return rollup
}

func trendLabel(firstHalf, secondHalf int) string {
	switch {
	case secondHalf > firstHalf:
		return "増加傾向"
	case secondHalf < firstHalf:
		return "減少傾向"
	default:
		return "横ばい"
	}
}

package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/saihakukei971/Discord-X-Support-Hub/internal/domain"
)

// StatsRepository persists the daily rollup rows.
type StatsRepository interface {
	Upsert(ctx context.Context, stats *domain.DailyStats) error
	GetByDate(ctx context.Context, date string) (*domain.DailyStats, error)
}

type statsRepository struct {
	pool *pgxpool.Pool
}

// NewStatsRepository instantiates the repository.
func NewStatsRepository(pool *pgxpool.Pool) StatsRepository {
	return &statsRepository{pool: pool}
}

func (r *statsRepository) Upsert(ctx context.Context, stats *domain.DailyStats) error {
	const query = `
        INSERT INTO daily_stats (date, total_tickets, resolved_tickets, avg_resolution_minutes, top_category)
        VALUES ($1,$2,$3,$4,$5)
        ON CONFLICT (date) DO UPDATE
        SET total_tickets=EXCLUDED.total_tickets,
            resolved_tickets=EXCLUDED.resolved_tickets,
            avg_resolution_minutes=EXCLUDED.avg_resolution_minutes,
            top_category=EXCLUDED.top_category`
	_, err := r.pool.Exec(ctx, query,
		stats.Date,
		stats.TotalTickets,
		stats.ResolvedTickets,
		stats.AvgResolutionMinutes,
		stats.TopCategory,
	)
	return err
}

func (r *statsRepository) GetByDate(ctx context.Context, date string) (*domain.DailyStats, error) {
	const query = `
        SELECT date, total_tickets, resolved_tickets, avg_resolution_minutes, top_category
        FROM daily_stats WHERE date=$1`
	var stats domain.DailyStats
	if err := r.pool.QueryRow(ctx, query, date).Scan(
		&stats.Date,
		&stats.TotalTickets,
		&stats.ResolvedTickets,
		&stats.AvgResolutionMinutes,
		&stats.TopCategory,
	); err != nil {
		return nil, err
	}
	return &stats, nil
}

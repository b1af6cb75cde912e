package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/saihakukei971/Discord-X-Support-Hub/internal/api/dto"
	"github.com/saihakukei971/Discord-X-Support-Hub/internal/service"
	apperrors "github.com/saihakukei971/Discord-X-Support-Hub/pkg/util"
)

// StatsHandler exposes the reporting endpoints.
type StatsHandler struct {
	stats *service.StatsService
}

// NewStatsHandler constructs handler.
func NewStatsHandler(stats *service.StatsService) *StatsHandler {
	return &StatsHandler{stats: stats}
}

// Today GET /stats/today.
func (h *StatsHandler) Today(c *fiber.Ctx) error {
	stats, err := h.stats.TodayStats(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.DailyStatsFromDomain(stats)})
}

// Refresh POST /stats/refresh.
func (h *StatsHandler) Refresh(c *fiber.Ctx) error {
	stats, err := h.stats.RefreshStats(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.DailyStatsFromDomain(stats)})
}

// Analyze GET /stats/analyze?period=week.
func (h *StatsHandler) Analyze(c *fiber.Ctx) error {
	period := service.AnalysisPeriod(c.Query("period", string(service.PeriodWeek)))
	report, err := h.stats.Analyze(c.UserContext(), period)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.AnalysisFromDomain(report)})
}

// Export GET /stats/export?from=2024-05-01&to=2024-05-31. Streams CSV.
func (h *StatsHandler) Export(c *fiber.Ctx) error {
	from, err := parseDateQuery(c.Query("from"), time.Time{})
	if err != nil {
		return err
	}
	to, err := parseDateQuery(c.Query("to"), time.Now())
	if err != nil {
		return err
	}

	data, err := h.stats.ExportCSV(c.UserContext(), from, to)
	if err != nil {
		return err
	}
	c.Set(fiber.HeaderContentType, "text/csv; charset=utf-8")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="tickets.csv"`)
	return c.Send(data)
}

func parseDateQuery(raw string, fallback time.Time) (time.Time, error) {
	if raw == "" {
		return fallback, nil
	}
	parsed, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return time.Time{}, apperrors.NewValidationError("dates must be YYYY-MM-DD", map[string]any{"value": raw})
	}
	return parsed, nil
}

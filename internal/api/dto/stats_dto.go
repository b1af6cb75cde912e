package dto

import (
	"time"

	"github.com/saihakukei971/Discord-X-Support-Hub/internal/domain"
)

// DailyStatsResponse is the wire form of a daily rollup row.
type DailyStatsResponse struct {
	Date                 string  `json:"date"`
	TotalTickets         int     `json:"total_tickets"`
	ResolvedTickets      int     `json:"resolved_tickets"`
	AvgResolutionMinutes float64 `json:"avg_resolution_minutes"`
	TopCategory          string  `json:"top_category"`
}

// DailyStatsFromDomain converts a rollup row for the wire.
func DailyStatsFromDomain(s *domain.DailyStats) DailyStatsResponse {
	return DailyStatsResponse{
		Date:                 s.Date,
		TotalTickets:         s.TotalTickets,
		ResolvedTickets:      s.ResolvedTickets,
		AvgResolutionMinutes: s.AvgResolutionMinutes,
		TopCategory:          s.TopCategory,
	}
}

// CategoryShareResponse pairs a count with its percentage.
type CategoryShareResponse struct {
	Count      int     `json:"count"`
	Percentage float64 `json:"percentage"`
}

// AnalysisResponse is the wire form of a period analysis.
type AnalysisResponse struct {
	StartDate            time.Time                        `json:"start_date"`
	EndDate              time.Time                        `json:"end_date"`
	TotalTickets         int                              `json:"total_tickets"`
	ResolvedTickets      int                              `json:"resolved_tickets"`
	ResolutionRate       float64                          `json:"resolution_rate"`
	Categories           map[string]CategoryShareResponse `json:"categories"`
	AvgResolutionMinutes float64                          `json:"avg_resolution_minutes"`
	Trend                string                           `json:"trend"`
}

// AnalysisFromDomain converts a report for the wire.
func AnalysisFromDomain(r *domain.AnalysisReport) AnalysisResponse {
	categories := make(map[string]CategoryShareResponse, len(r.Categories))
	for category, share := range r.Categories {
		categories[string(category)] = CategoryShareResponse{Count: share.Count, Percentage: share.Percentage}
	}
	return AnalysisResponse{
		StartDate:            r.StartDate,
		EndDate:              r.EndDate,
		TotalTickets:         r.TotalTickets,
		ResolvedTickets:      r.ResolvedTickets,
		ResolutionRate:       r.ResolutionRate,
		Categories:           categories,
		AvgResolutionMinutes: r.AvgResolutionMinutes,
		Trend:                r.Trend,
	}
}

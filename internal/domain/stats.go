package domain

import "time"

// DailyStats is one row of the daily rollup.
type DailyStats struct {
	Date                 string
	TotalTickets         int
	ResolvedTickets      int
	AvgResolutionMinutes float64
	TopCategory          string
}

// CategoryShare pairs an absolute count with its percentage of the total.
type CategoryShare struct {
	Count      int
	Percentage float64
}

// AnalysisReport summarizes ticket activity over a period.
type AnalysisReport struct {
	StartDate            time.Time
	EndDate              time.Time
	TotalTickets         int
	ResolvedTickets      int
	ResolutionRate       float64
	Categories           map[Category]CategoryShare
	AvgResolutionMinutes float64
	Trend                string
}

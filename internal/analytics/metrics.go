// Package analytics implements the performance analytics domain.
// Daily declaration counts are computed externally and synced in; this
// package stores them and serves leaderboard, comparison, and heatmap views
// built from descriptive statistics over the daily counts.
package analytics

import (
	"time"

	"github.com/google/uuid"
)

// DailyMetric is one externally-computed daily declaration count for a
// principal. The (principal, date) pair is unique; re-synced counts replace
// the stored value.
type DailyMetric struct {
	ID        uuid.UUID `json:"id"`
	Principal string    `json:"principal"`
	Date      time.Time `json:"date"`
	Count     int       `json:"count"`
}

// UpsertStats reports the outcome of a metrics batch upsert.
type UpsertStats struct {
	Received int `json:"received"`
	Upserted int `json:"upserted"`
}

// LeaderboardEntry is one row of the performance leaderboard, sorted by
// total descending.
type LeaderboardEntry struct {
	Principal  string  `json:"principal"`
	Total      int     `json:"total"`
	Days       int     `json:"days"`
	MeanPerDay float64 `json:"mean_per_day"`
}

// ComparisonEntry carries the descriptive statistics for one principal in a
// side-by-side comparison.
type ComparisonEntry struct {
	Principal              string  `json:"principal"`
	Total                  int     `json:"total"`
	Days                   int     `json:"days"`
	Mean                   float64 `json:"mean"`
	Variance               float64 `json:"variance"`
	StdDev                 float64 `json:"std_dev"`
	CoefficientOfVariation float64 `json:"coefficient_of_variation"`
}

// HeatmapCell is one day in a principal's activity heatmap.
type HeatmapCell struct {
	Date    time.Time `json:"date"`
	Weekday string    `json:"weekday"`
	Count   int       `json:"count"`
}

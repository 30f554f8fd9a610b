package analytics

import "context"

// System defines the public contract for analytics domain operations.
type System interface {
	Handler() *Handler

	UpsertBatch(ctx context.Context, metrics []DailyMetric) (*UpsertStats, error)
	Leaderboard(ctx context.Context, rng Range) ([]LeaderboardEntry, error)
	Comparison(ctx context.Context, principals []string, rng Range) ([]ComparisonEntry, error)
	Heatmap(ctx context.Context, principal string, rng Range) ([]HeatmapCell, error)
}

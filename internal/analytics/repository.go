package analytics

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/google/uuid"

	"github.com/douanehq/douane/pkg/query"
	"github.com/douanehq/douane/pkg/repository"
)

type repo struct {
	db     *sql.DB
	logger *slog.Logger
}

// New creates an analytics repository implementing the System interface.
func New(db *sql.DB, logger *slog.Logger) System {
	return &repo{
		db:     db,
		logger: logger.With("system", "analytics"),
	}
}

func (r *repo) Handler() *Handler {
	return NewHandler(r, r.logger)
}

// UpsertBatch applies a batch of daily metrics in a single transaction.
// Metrics are externally computed and authoritative, so a re-synced
// (principal, date) pair replaces the stored count.
func (r *repo) UpsertBatch(ctx context.Context, metrics []DailyMetric) (*UpsertStats, error) {
	if len(metrics) == 0 {
		return nil, ErrEmptyBatch
	}
	for _, m := range metrics {
		if strings.TrimSpace(m.Principal) == "" {
			return nil, ErrMissingPrincipal
		}
	}

	upsertQ := `
		INSERT INTO daily_metrics(id, principal, metric_date, declaration_count)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (principal, metric_date)
		DO UPDATE SET declaration_count = EXCLUDED.declaration_count`

	upserted, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (int, error) {
		applied := 0
		for _, m := range metrics {
			result, err := tx.ExecContext(ctx, upsertQ,
				uuid.New(),
				m.Principal,
				m.Date,
				m.Count,
			)
			if err != nil {
				return 0, fmt.Errorf("upsert metric %s/%s: %w",
					m.Principal, m.Date.Format("2006-01-02"), err)
			}

			rows, err := result.RowsAffected()
			if err != nil {
				return 0, err
			}
			applied += int(rows)
		}
		return applied, nil
	})

	if err != nil {
		return nil, err
	}

	r.logger.Info("metrics upserted", "received", len(metrics), "upserted", upserted)
	return &UpsertStats{Received: len(metrics), Upserted: upserted}, nil
}

// Leaderboard ranks all principals in the range by total declaration count.
func (r *repo) Leaderboard(ctx context.Context, rng Range) ([]LeaderboardEntry, error) {
	metrics, err := r.queryRange(ctx, rng, nil)
	if err != nil {
		return nil, err
	}

	grouped := groupByPrincipal(metrics)

	entries := make([]LeaderboardEntry, 0, len(grouped))
	for principal, counts := range grouped {
		total := 0
		for _, c := range counts {
			total += int(c)
		}
		entries = append(entries, LeaderboardEntry{
			Principal:  principal,
			Total:      total,
			Days:       len(counts),
			MeanPerDay: Mean(counts),
		})
	}

	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Total != entries[j].Total {
			return entries[i].Total > entries[j].Total
		}
		return entries[i].Principal < entries[j].Principal
	})

	return entries, nil
}

// Comparison computes descriptive statistics for the requested principals.
// Principals without metrics in the range appear with zero values.
func (r *repo) Comparison(ctx context.Context, principals []string, rng Range) ([]ComparisonEntry, error) {
	if len(principals) == 0 {
		return nil, ErrNoPrincipals
	}

	metrics, err := r.queryRange(ctx, rng, principals)
	if err != nil {
		return nil, err
	}

	grouped := groupByPrincipal(metrics)

	entries := make([]ComparisonEntry, 0, len(principals))
	for _, principal := range principals {
		counts := grouped[principal]
		total := 0
		for _, c := range counts {
			total += int(c)
		}
		entries = append(entries, ComparisonEntry{
			Principal:              principal,
			Total:                  total,
			Days:                   len(counts),
			Mean:                   Mean(counts),
			Variance:               Variance(counts),
			StdDev:                 StdDev(counts),
			CoefficientOfVariation: CoefficientOfVariation(counts),
		})
	}

	return entries, nil
}

// Heatmap returns one cell per metric day for a single principal.
func (r *repo) Heatmap(ctx context.Context, principal string, rng Range) ([]HeatmapCell, error) {
	if strings.TrimSpace(principal) == "" {
		return nil, ErrMissingPrincipal
	}

	metrics, err := r.queryRange(ctx, rng, []string{principal})
	if err != nil {
		return nil, err
	}

	cells := make([]HeatmapCell, 0, len(metrics))
	for _, m := range metrics {
		cells = append(cells, HeatmapCell{
			Date:    m.Date,
			Weekday: m.Date.Weekday().String(),
			Count:   m.Count,
		})
	}

	return cells, nil
}

func (r *repo) queryRange(ctx context.Context, rng Range, principals []string) ([]DailyMetric, error) {
	qb := query.NewBuilder(projection, defaultSort)
	rng.apply(qb)

	if len(principals) > 0 {
		values := make([]any, len(principals))
		for i, p := range principals {
			values[i] = p
		}
		qb.WhereIn("Principal", values)
	}

	q, args := qb.Build()
	metrics, err := repository.QueryMany(ctx, r.db, q, args, scanMetric)
	if err != nil {
		return nil, fmt.Errorf("query daily metrics: %w", err)
	}

	return metrics, nil
}

func groupByPrincipal(metrics []DailyMetric) map[string][]float64 {
	grouped := make(map[string][]float64)
	for _, m := range metrics {
		grouped[m.Principal] = append(grouped[m.Principal], float64(m.Count))
	}
	return grouped
}

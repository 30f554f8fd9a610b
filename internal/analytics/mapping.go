package analytics

import (
	"time"

	"github.com/douanehq/douane/pkg/query"
	"github.com/douanehq/douane/pkg/repository"
)

var projection = query.
	NewProjectionMap("public", "daily_metrics", "m").
	Project("id", "ID").
	Project("principal", "Principal").
	Project("metric_date", "Date").
	Project("declaration_count", "Count")

var defaultSort = query.SortField{
	Field: "Date",
}

// Range bounds a metrics query on the metric date. Nil bounds are open.
type Range struct {
	From *time.Time
	To   *time.Time
}

func (r Range) apply(b *query.Builder) *query.Builder {
	return b.
		WhereAtLeast("Date", r.From).
		WhereAtMost("Date", r.To)
}

func scanMetric(s repository.Scanner) (DailyMetric, error) {
	var m DailyMetric
	err := s.Scan(&m.ID, &m.Principal, &m.Date, &m.Count)
	return m, err
}

package declarations

import (
	"context"

	"github.com/douanehq/douane/pkg/pagination"
)

// System defines the public contract for declaration domain operations.
type System interface {
	Handler() *Handler

	List(
		ctx context.Context,
		page pagination.PageRequest,
		filters Filters,
	) (*pagination.PageResult[Declaration], error)

	Find(ctx context.Context, declarationID int64) (*Declaration, error)
	UpsertBatch(ctx context.Context, records []Record) (*UpsertStats, error)
	RequestTicket(ctx context.Context, declarationID int64) (*Declaration, error)
}

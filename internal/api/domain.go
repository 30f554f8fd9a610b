package api

import (
	"github.com/douanehq/douane/internal/analytics"
	"github.com/douanehq/douane/internal/declarations"
	"github.com/douanehq/douane/internal/principals"
)

// Domain holds all domain systems that comprise the API.
type Domain struct {
	Declarations declarations.System
	Principals   principals.System
	Analytics    analytics.System
}

// NewDomain creates all domain systems from the API runtime.
func NewDomain(runtime *Runtime) *Domain {
	declarationsSystem := declarations.New(
		runtime.Database.Connection(),
		runtime.Ticketing,
		runtime.Logger,
		runtime.Pagination,
	)

	principalsSystem := principals.New(
		runtime.Storage,
		runtime.Logger,
	)

	analyticsSystem := analytics.New(
		runtime.Database.Connection(),
		runtime.Logger,
	)

	return &Domain{
		Declarations: declarationsSystem,
		Principals:   principalsSystem,
		Analytics:    analyticsSystem,
	}
}

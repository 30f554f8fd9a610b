package api

import (
	"net/http"

	"github.com/douanehq/douane/pkg/routes"
)

func registerRoutes(mux *http.ServeMux, domain *Domain) {
	routes.Register(
		mux,
		domain.Declarations.Handler().Routes(),
		domain.Principals.Handler().Routes(),
		domain.Analytics.Handler().Routes(),
	)
}

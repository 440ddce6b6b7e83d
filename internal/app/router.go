package app

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/procureflow/procureflow/internal/observability"
	"github.com/procureflow/procureflow/internal/procurement"
	"github.com/procureflow/procureflow/internal/statement"
	"github.com/procureflow/procureflow/internal/vendors"
)

// RouterParams groups dependencies for building the HTTP router.
type RouterParams struct {
	Logger             *slog.Logger
	Config             *Config
	VendorsHandler     *vendors.Handler
	ProcurementHandler *procurement.Handler
	StatementHandler   *statement.Handler
	Metrics            *observability.Metrics
}

// NewRouter constructs the chi.Router with ProcureFlow defaults.
func NewRouter(params RouterParams) http.Handler {
	r := chi.NewRouter()

	for _, mw := range MiddlewareStack(MiddlewareConfig{
		Logger: params.Logger,
		Config: params.Config,
	}) {
		r.Use(mw)
	}

	r.Use(chimw.Logger)
	if params.Metrics != nil {
		r.Use(params.Metrics.Middleware)
	}

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	r.Route("/vendors", func(r chi.Router) {
		if params.VendorsHandler != nil {
			params.VendorsHandler.MountRoutes(r)
		}
		if params.StatementHandler != nil {
			params.StatementHandler.MountRoutes(r)
		}
	})
	if params.ProcurementHandler != nil {
		r.Route("/procurement", params.ProcurementHandler.MountRoutes)
	}
	if params.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", params.Metrics.Handler())
	}

	return r
}

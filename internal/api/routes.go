package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/relaykit/relay/internal/api/handlers"
	"github.com/relaykit/relay/internal/domain/runlog"
	"github.com/relaykit/relay/internal/domain/tool"
)

// NewRouter creates and configures the reporting router: read-only
// queries over the invocation log plus the registered tool catalog.
// Tool execution itself is not exposed here; callers go through the
// invoke service in-process.
func NewRouter(store runlog.Store, registry *tool.Registry) *chi.Mux {
	r := chi.NewRouter()

	// Global middleware (runs on all routes)
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	// Health check — unauthenticated, used by load balancers and health probes
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`)) //nolint:errcheck
	})

	invocationHandler := handlers.NewInvocationHandler(store)
	toolHandler := handlers.NewToolHandler(registry)

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/invocations", func(r chi.Router) {
			r.Get("/", invocationHandler.ListInvocations)                   // GET /api/v1/invocations
			r.Get("/{correlation_id}", invocationHandler.ListByCorrelation) // GET /api/v1/invocations/{correlation_id}
		})

		r.Get("/tools", toolHandler.ListTools) // GET /api/v1/tools
	})

	return r
}

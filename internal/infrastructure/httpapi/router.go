// Package httpapi exposes the creation workflows and the audit trail over HTTP.
package httpapi

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/ersonp/roster-core/internal/application/handlers"
	"github.com/ersonp/roster-core/internal/infrastructure/metrics"
)

// requestTimeout bounds a single API request, including its session.
const requestTimeout = 30 * time.Second

// API serves the HTTP endpoints.
type API struct {
	companies *handlers.CompanyHandler
	employees *handlers.EmployeeHandler
	audit     *handlers.AuditHandler
	metrics   *metrics.Metrics
	logger    zerolog.Logger
}

// New creates a new API.
func New(
	companies *handlers.CompanyHandler,
	employees *handlers.EmployeeHandler,
	audit *handlers.AuditHandler,
	m *metrics.Metrics,
	logger zerolog.Logger,
) *API {
	return &API{
		companies: companies,
		employees: employees,
		audit:     audit,
		metrics:   m,
		logger:    logger,
	}
}

// Router builds the chi router with every route registered.
func (a *API) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(requestLogger(a.logger))
	r.Use(middleware.Recoverer)

	r.Get("/healthz", a.handleHealth)
	r.Method(http.MethodGet, "/metrics", a.metrics.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Use(middleware.Timeout(requestTimeout))
		r.Post("/companies", a.handleCreateCompany)
		r.Post("/employees", a.handleCreateEmployee)
		r.Get("/audit", a.handleListAudit)
	})

	return r
}

// requestLogger logs one line per request once the response is written.
func requestLogger(logger zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

			next.ServeHTTP(ww, r)

			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}
			event := logger.Info()
			if status >= http.StatusInternalServerError {
				event = logger.Error()
			}
			event.
				Str("request_id", middleware.GetReqID(r.Context())).
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Int("status", status).
				Int("bytes", ww.BytesWritten()).
				Dur("duration", time.Since(start)).
				Msg("request")
		})
	}
}

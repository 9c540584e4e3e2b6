package http

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/MrJamesThe3rd/tenantry/internal/auth"
	"github.com/MrJamesThe3rd/tenantry/internal/http/application"
	authHandler "github.com/MrJamesThe3rd/tenantry/internal/http/auth"
	"github.com/MrJamesThe3rd/tenantry/internal/http/categorize"
	"github.com/MrJamesThe3rd/tenantry/internal/http/dashboard"
	"github.com/MrJamesThe3rd/tenantry/internal/http/document"
	"github.com/MrJamesThe3rd/tenantry/internal/http/export"
	"github.com/MrJamesThe3rd/tenantry/internal/http/httputil"
	"github.com/MrJamesThe3rd/tenantry/internal/http/importcsv"
	"github.com/MrJamesThe3rd/tenantry/internal/http/message"
	mw "github.com/MrJamesThe3rd/tenantry/internal/http/middleware"
	"github.com/MrJamesThe3rd/tenantry/internal/http/portal"
	"github.com/MrJamesThe3rd/tenantry/internal/http/property"
	"github.com/MrJamesThe3rd/tenantry/internal/http/screening"
	"github.com/MrJamesThe3rd/tenantry/internal/http/tenant"
	"github.com/MrJamesThe3rd/tenantry/internal/http/transaction"
	"github.com/MrJamesThe3rd/tenantry/internal/http/workorder"
)

type Handlers struct {
	Auth         *authHandler.Handler
	Applications *application.Handler
	Screenings   *screening.Handler
	Tenants      *tenant.Handler
	Properties   *property.Handler
	Transactions *transaction.Handler
	Documents    *document.Handler
	WorkOrders   *workorder.Handler
	Messages     *message.Handler
	Dashboard    *dashboard.Handler
	Import       *importcsv.Handler
	Categories   *categorize.Handler
	Export       *export.Handler
	Portal       *portal.Handler
}

// HealthCheck reports whether a dependency is reachable.
type HealthCheck func(ctx context.Context) error

type Options struct {
	Tokens         mw.TokenParser
	Metrics        mw.RequestRecorder // nil disables request metrics
	MetricsHandler http.Handler       // served at MetricsPath when set
	MetricsPath    string
	AllowedOrigins []string
	Timeout        time.Duration
	Health         map[string]HealthCheck
}

type healthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

func New(h Handlers, opts Options) http.Handler {
	router := chi.NewRouter()

	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   opts.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	if opts.Metrics != nil {
		router.Use(mw.Metrics(opts.Metrics))
	}

	if opts.Timeout > 0 {
		router.Use(middleware.Timeout(opts.Timeout))
	}

	router.Get("/healthz", health(opts.Health))

	if opts.MetricsHandler != nil {
		router.Handle(opts.MetricsPath, opts.MetricsHandler)
	}

	router.Route("/api/v1", func(r chi.Router) {
		r.Route("/auth", h.Auth.Routes)

		r.Group(func(r chi.Router) {
			r.Use(mw.Authenticate(opts.Tokens))
			r.Use(mw.RequireRole(auth.RoleManager))

			r.Route("/applications", func(r chi.Router) {
				r.Use(middleware.AllowContentType("application/json"))
				h.Applications.Routes(r)
			})

			r.Route("/screenings", func(r chi.Router) {
				r.Use(middleware.AllowContentType("application/json"))
				h.Screenings.Routes(r)
			})

			r.Route("/tenants", h.Tenants.Routes)
			r.Route("/properties", h.Properties.Routes)

			r.Route("/transactions", func(r chi.Router) {
				r.Use(middleware.AllowContentType("application/json"))
				h.Transactions.Routes(r)
			})

			r.Route("/documents", h.Documents.Routes)
			r.Route("/work-orders", h.WorkOrders.Routes)
			r.Route("/messages", h.Messages.Routes)
			r.Route("/dashboard", h.Dashboard.Routes)
			r.Route("/import", h.Import.Routes)
			r.Route("/categories", h.Categories.Routes)

			r.Route("/export", func(r chi.Router) {
				r.Use(middleware.AllowContentType("application/json"))
				h.Export.Routes(r)
			})
		})

		r.Route("/portal", func(r chi.Router) {
			r.Use(mw.Authenticate(opts.Tokens))
			r.Use(mw.RequireRole(auth.RoleTenant))
			h.Portal.Routes(r)
		})
	})

	return router
}

func health(checks map[string]HealthCheck) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		resp := healthResponse{Status: "ok", Checks: make(map[string]string, len(checks))}
		status := http.StatusOK

		for name, check := range checks {
			if err := check(r.Context()); err != nil {
				slog.Warn("health check failed", "check", name, "error", err)

				resp.Checks[name] = err.Error()
				resp.Status = "degraded"
				status = http.StatusServiceUnavailable

				continue
			}

			resp.Checks[name] = "ok"
		}

		httputil.WriteJSON(w, status, resp)
	}
}

package httpserver

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"homebase-go/internal/config"
	"homebase-go/internal/transport/httpserver/handler"
	authmw "homebase-go/internal/transport/httpserver/middleware"
	"homebase-go/pkg/logger"
)

// NewRouter wires the API. registry may be nil, in which case no metrics
// are collected or exposed.
func NewRouter(cfg config.Config, handlers *handler.Handlers, profiles authmw.ProfileSaver, registry *prometheus.Registry, log logger.Logger) http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(authmw.RequestLogger(log))
	r.Use(chimw.Recoverer)
	r.Use(chimw.Timeout(cfg.RequestTimeout))
	r.Use(authmw.NewCORS(cfg.AllowedOrigins))

	if registry != nil {
		r.Use(authmw.NewMetrics(registry).Middleware)
		r.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	}

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", handlers.Health)

		auth := authmw.NewSupabaseAuth(cfg.Supabase, profiles, log)
		r.Group(func(r chi.Router) {
			r.Use(auth.Middleware)

			r.Get("/auth/me", handlers.AuthMe)
			r.Post("/categorize", handlers.SuggestCategory)

			r.Get("/invites", handlers.ListInvites)
			r.Post("/invites/{invite_id}/accept", handlers.AcceptInvite)
			r.Post("/invites/{invite_id}/decline", handlers.DeclineInvite)

			r.Get("/households", handlers.ListHouseholds)
			r.Post("/households", handlers.CreateHousehold)
			r.Route("/households/{household_id}", func(r chi.Router) {
				r.Get("/", handlers.GetHousehold)
				r.Get("/members", handlers.ListMembers)

				r.Group(func(r chi.Router) {
					r.Use(handlers.RequireMember)

					r.Post("/invites", handlers.InviteUser)

					r.Get("/transactions", handlers.ListTransactions)
					r.Post("/transactions", handlers.CreateTransaction)
					r.Get("/transactions/export.csv", handlers.ExportTransactions)
					r.Get("/transactions/{transaction_id}", handlers.GetTransaction)
					r.Delete("/transactions/{transaction_id}", handlers.DeleteTransaction)

					r.Get("/budgets", handlers.ListBudgets)
					r.Put("/budgets/{category}", handlers.SetBudget)

					r.Get("/analytics/dashboard", handlers.Dashboard)
				})
			})
		})
	})

	return r
}

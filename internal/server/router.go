package server

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/nmehra/tripsplit/internal/middleware"
)

// Routes builds the HTTP router: CORS, request logging, and metrics around
// the API, plus health and Prometheus endpoints.
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))
	r.Use(middleware.Logging)
	r.Use(middleware.Metrics)

	r.Get("/health", h.Health)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Route("/users", func(r chi.Router) {
			r.Post("/", h.CreateUser)
			r.Get("/", h.ListUsers)
		})

		r.Route("/groups", func(r chi.Router) {
			r.Post("/", h.CreateGroup)
			r.Get("/", h.ListGroups)

			r.Route("/{groupID}", func(r chi.Router) {
				r.Get("/", h.GetGroup)

				r.Route("/expenses", func(r chi.Router) {
					r.Get("/", h.ListExpenses)
					r.Post("/", h.AddExpense)
					r.Put("/{expenseID}", h.UpdateExpense)
					r.Delete("/{expenseID}", h.DeleteExpense)
				})

				r.Get("/balances", h.GetBalances)
				r.Post("/settle", h.SettleBalance)
				r.Get("/settlement-suggestions", h.SuggestSettlement)
				r.Post("/summaries", h.SmartSummary)
			})
		})
	})

	return r
}

package rest

import (
	"log/slog"

	"github.com/frahmantamala/expense-tracker/api"
	"github.com/frahmantamala/expense-tracker/internal/category"
	"github.com/frahmantamala/expense-tracker/internal/expense"
	"github.com/frahmantamala/expense-tracker/internal/transport/middleware"
	"github.com/frahmantamala/expense-tracker/internal/transport/swagger"
	"github.com/frahmantamala/expense-tracker/internal/web"
	"github.com/go-chi/chi"
	chiMiddleware "github.com/go-chi/chi/middleware"
)

type Handlers struct {
	Health   *HealthHandler
	Expense  *expense.Handler
	Category *category.Handler
	Web      *web.Handler
}

func RegisterAllRoutes(router *chi.Mux, handlers Handlers, allowedOrigins string, logger *slog.Logger) {
	// Apply global middleware
	router.Use(middleware.CORS(allowedOrigins))
	router.Use(chiMiddleware.RequestID)
	router.Use(middleware.RequestID(logger))
	router.Use(middleware.LoggingMiddleware(logger))
	router.Use(middleware.RecoveryMiddleware(logger))

	router.Get(swagger.SpecPath, swagger.SpecHandler(api.OpenAPI))
	router.Handle("/swagger/*", swagger.Handler())

	if handlers.Web != nil {
		router.Get("/", handlers.Web.Index)
	}

	// Mount API under /api to match the OpenAPI server url
	router.Route("/api", func(r chi.Router) {
		if handlers.Health != nil {
			r.Get("/health", handlers.Health.Health)
			r.Get("/ping", handlers.Health.Ping)
		}

		if handlers.Category != nil {
			r.Get("/categories", handlers.Category.GetCategories)
		}

		if handlers.Expense != nil {
			r.Route("/expenses", func(er chi.Router) {
				er.Get("/", handlers.Expense.ListExpenses)
				er.Post("/", handlers.Expense.CreateExpense)
				er.Get("/summary", handlers.Expense.GetSummary)
				er.Get("/{id}", handlers.Expense.GetExpense)
				er.Patch("/{id}", handlers.Expense.UpdateExpense)
				er.Delete("/{id}", handlers.Expense.DeleteExpense)
			})
		}
	})
}

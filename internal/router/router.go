package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/alphafinance/backend/internal/handlers"
	"github.com/alphafinance/backend/internal/middleware"
)

func NewRouter(deps *handlers.Deps) chi.Router {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.NewLoggerMiddleware(deps.Log).LoggerMiddleware)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	ush := handlers.NewUserHandlers(deps)
	plh := handlers.NewPlaidHandlers(deps)
	ach := handlers.NewAccountHandlers(deps)
	trh := handlers.NewTransactionHandlers(deps)
	buh := handlers.NewBudgetHandlers(deps)
	cah := handlers.NewCategoryHandlers(deps)
	anh := handlers.NewAnalyticsHandlers(deps)

	r.Group(func(r chi.Router) {
		r.Use(middleware.NewMiddleware(deps.Firebase).FirebaseAuth)

		r.Mount("/users", ush.UserRoutes())
		r.Mount("/", plh.PlaidRoutes())
		r.Mount("/accounts", ach.AccountRoutes())
		r.Mount("/transactions", trh.TransactionRoutes())
		r.Mount("/budgets", buh.BudgetRoutes())
		r.Mount("/categories", cah.CategoryRoutes())
		r.Mount("/analytics", anh.AnalyticsRoutes())
	})

	return r
}

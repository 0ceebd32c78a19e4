package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/rgoyals/bahikhata/internal/auth"
	expensehttp "github.com/rgoyals/bahikhata/internal/http/expense"
	"github.com/rgoyals/bahikhata/internal/http/health"
	invoicehttp "github.com/rgoyals/bahikhata/internal/http/invoice"
	reporthttp "github.com/rgoyals/bahikhata/internal/http/report"
	userhttp "github.com/rgoyals/bahikhata/internal/http/user"
	"github.com/rgoyals/bahikhata/internal/http/webhook"
)

func New(
	authSvc *auth.Service,
	webhooksV1 *webhook.Handler,
	expensesV1 *expensehttp.Handler,
	invoicesV1 *invoicehttp.Handler,
	reportsV1 *reporthttp.Handler,
	usersV1 *userhttp.Handler,
	healthV1 *health.Handler,
) http.Handler {
	router := chi.NewRouter()

	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Authorization", "Content-Type"},
	}))

	router.Method(http.MethodGet, "/health", healthV1)
	router.Post("/token", usersV1.Token)

	router.Route("/webhook", func(r chi.Router) {
		r.Use(authSvc.Middleware)
		webhooksV1.Routes(r)
	})

	router.Route("/api/v1", func(r chi.Router) {
		r.Route("/users", func(r chi.Router) {
			r.Use(middleware.AllowContentType("application/json"))
			usersV1.Routes(r)
		})

		r.Group(func(r chi.Router) {
			r.Use(authSvc.Middleware)

			r.Route("/expenses", func(r chi.Router) {
				expensesV1.Routes(r)
			})

			r.Route("/invoices", func(r chi.Router) {
				invoicesV1.Routes(r)
			})

			r.Route("/reports", func(r chi.Router) {
				reportsV1.Routes(r)
			})
		})
	})

	return router
}

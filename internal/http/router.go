package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/nestegg-dev/nestegg/internal/auth"
	authHandler "github.com/nestegg-dev/nestegg/internal/http/auth"
	"github.com/nestegg-dev/nestegg/internal/http/categories"
	"github.com/nestegg-dev/nestegg/internal/http/export"
	"github.com/nestegg-dev/nestegg/internal/http/goal"
	"github.com/nestegg-dev/nestegg/internal/http/importcsv"
	"github.com/nestegg-dev/nestegg/internal/http/insights"
	"github.com/nestegg-dev/nestegg/internal/http/transaction"
	"github.com/nestegg-dev/nestegg/internal/http/user"
)

func New(
	tokens *auth.Tokens,
	allowedOrigins []string,
	authV1 *authHandler.Handler,
	usersV1 *user.Handler,
	transactionsV1 *transaction.Handler,
	goalsV1 *goal.Handler,
	insightsV1 *insights.Handler,
	importV1 *importcsv.Handler,
	exportV1 *export.Handler,
	categoriesV1 *categories.Handler,
) http.Handler {
	router := chi.NewRouter()

	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	router.Route("/api/v1", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Use(middleware.AllowContentType("application/json"))
			authV1.Routes(r)
		})

		// Everything below requires a bearer token.
		r.Group(func(r chi.Router) {
			r.Use(auth.Middleware(tokens))

			r.Route("/users", func(r chi.Router) {
				r.Use(middleware.AllowContentType("application/json"))
				usersV1.Routes(r)
			})

			r.Route("/transactions", func(r chi.Router) {
				r.Use(middleware.AllowContentType("application/json"))
				transactionsV1.Routes(r)
			})

			r.Route("/goals", func(r chi.Router) {
				r.Use(middleware.AllowContentType("application/json"))
				goalsV1.Routes(r)
			})

			r.Route("/insights", insightsV1.Routes)

			r.Route("/import", importV1.Routes)

			r.Route("/export", exportV1.Routes)

			r.Route("/categories", func(r chi.Router) {
				r.Use(middleware.AllowContentType("application/json"))
				categoriesV1.Routes(r)
			})
		})
	})

	return router
}

package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	commissionHandler "github.com/andresgp/comcrm/internal/http/commission"
	payoutHandler "github.com/andresgp/comcrm/internal/http/payout"
	saleHandler "github.com/andresgp/comcrm/internal/http/sale"
)

func New(
	salesV1 *saleHandler.Handler,
	commissionsV1 *commissionHandler.Handler,
	payoutsV1 *payoutHandler.Handler,
) http.Handler {
	router := chi.NewRouter()

	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"https://*", "http://*"},
		AllowedMethods: []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
		MaxAge:         300,
	}))

	router.Route("/api/v1", func(r chi.Router) {
		r.Route("/sales", func(r chi.Router) {
			r.Use(middleware.AllowContentType("application/json"))
			salesV1.Routes(r)
		})

		// Commission payment routes take multipart uploads, so no
		// content-type restriction here.
		r.Route("/commissions", commissionsV1.Routes)

		r.Route("/payouts", payoutsV1.Routes)
	})

	return router
}

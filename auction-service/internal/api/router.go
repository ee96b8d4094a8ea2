package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// NewRouter builds the auction-service HTTP router.
func NewRouter(h *Handlers) *chi.Mux {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Route("/api", func(r chi.Router) {
		r.Post("/members", h.CreateMember)
		r.Post("/members/{id}/rate", h.RateMember)
		r.Post("/auctions", h.CreateAuction)
		r.Post("/auctions/{id}/bids", h.PlaceBid)
	})

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("Auction service is healthy"))
	})

	return r
}
